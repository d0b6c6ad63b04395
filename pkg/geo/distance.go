package geo

import (
	"math"

	"github.com/lintang-b-s/vrptour/pkg/util"
)

const (
	earthRadiusKM = 6371.0
)

// Located is anything placed by a latitude/longitude pair. Planar instances store y in the latitude and x in
// the longitude.
type Located interface {
	GetLat() float64
	GetLon() float64
}

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// At returns the coordinate of a located value.
func At(p Located) Coordinate {
	return NewCoordinate(p.GetLat(), p.GetLon())
}

func (c Coordinate) GetLat() float64 {
	return c.Lat
}

func (c Coordinate) GetLon() float64 {
	return c.Lon
}

func (c Coordinate) radians() (lat, lon float64) {
	return util.DegreeToRadians(c.Lat), util.DegreeToRadians(c.Lon)
}

// Planar is the euclidean distance with Lon as x and Lat as y, in the unit of the coordinates.
func (c Coordinate) Planar(o Coordinate) float64 {
	return math.Hypot(o.Lon-c.Lon, o.Lat-c.Lat)
}

// Haversine is the distance in km between two coordinates in degrees.
func (c Coordinate) Haversine(o Coordinate) float64 {
	latA, lonA := c.radians()
	latB, lonB := o.radians()
	sinLat, sinLon := math.Sin((latB-latA)/2), math.Sin((lonB-lonA)/2)
	h := sinLat*sinLat + math.Cos(latA)*math.Cos(latB)*sinLon*sinLon
	return 2 * earthRadiusKM * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Equirectangular approximates the distance in km on the plate carree projection, accurate for short arcs.
func (c Coordinate) Equirectangular(o Coordinate) float64 {
	latA, lonA := c.radians()
	latB, lonB := o.radians()
	x := (lonB - lonA) * math.Cos((latA+latB)/2)
	return math.Hypot(x, latB-latA) * earthRadiusKM
}
