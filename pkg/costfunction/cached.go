package costfunction

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lintang-b-s/vrptour/pkg/datastructure"
)

type arcKey struct {
	from int
	to   int
}

// Cached memoizes an expensive distance model (geodesic, road network) per location pair.
// The lru cache is safe for concurrent use, so one Cached can serve every search branch.
type Cached struct {
	distance DistanceFunction
	cache    *lru.Cache[arcKey, float64]
}

func NewCached(distance DistanceFunction, size int) (*Cached, error) {
	cache, err := lru.New[arcKey, float64](size)
	if err != nil {
		return nil, err
	}
	return &Cached{distance: distance, cache: cache}, nil
}

func (c *Cached) GetDistance(origin, destination *datastructure.NodeVisit) float64 {
	key := arcKey{from: origin.GetLocation(), to: destination.GetLocation()}
	if d, ok := c.cache.Get(key); ok {
		return d
	}
	d := c.distance.GetDistance(origin, destination)
	c.cache.Add(key, d)
	return d
}

func (c *Cached) Len() int {
	return c.cache.Len()
}
