package geo

import (
	"github.com/golang/geo/s2"
)

// GreatCircle is the distance in km along the s2 sphere.
func (c Coordinate) GreatCircle(o Coordinate) float64 {
	return s2.LatLngFromDegrees(c.Lat, c.Lon).Distance(s2.LatLngFromDegrees(o.Lat, o.Lon)).Radians() * earthRadiusKM
}
