// Package spatial answers "which curve is under the pointer" queries fast
// enough to run on every pointer move.
package spatial

import "sort"

// ClosestIndex returns the index of the element of the ascending slice xs
// that is numerically closest to v. Ties go to the lower index. Values left
// of the first or right of the last element clamp to that element. xs must
// not be empty.
func ClosestIndex(xs []float64, v float64) int {
	i := sort.SearchFloat64s(xs, v)
	switch {
	case i == 0:
		return 0
	case i == len(xs):
		return firstOf(xs, len(xs)-1)
	case v-xs[i-1] <= xs[i]-v:
		return firstOf(xs, i-1)
	default:
		// xs[i] is the first element >= v, so it is already the first of its run
		return i
	}
}

// firstOf returns the lowest index holding the same value as xs[j].
func firstOf(xs []float64, j int) int {
	if j == 0 || xs[j-1] != xs[j] {
		return j
	}
	return sort.SearchFloat64s(xs[:j], xs[j])
}

// RangeCache remembers the sample range computed for a query x so that
// every curve sharing an x domain reuses one pair of binary searches.
// A cache is valid for a single pointer-move dispatch only; create a new
// one for every event.
type RangeCache struct {
	ranges map[rangeKey][2]int
	hits   int
}

type rangeKey struct {
	domain *float64
	n      int
	x      float64
}

// NewRangeCache returns an empty cache.
func NewRangeCache() *RangeCache {
	return &RangeCache{ranges: make(map[rangeKey][2]int)}
}

// RangeNear returns the inclusive index range [lo, hi] of xs whose samples
// lie within radiusPixels*pixelScaleX of queryX, each end resolved with
// ClosestIndex. xs must not be empty. A nil cache computes without caching.
func (c *RangeCache) RangeNear(xs []float64, queryX, radiusPixels, pixelScaleX float64) (lo, hi int) {
	var key rangeKey
	if c != nil {
		key = rangeKey{domain: &xs[0], n: len(xs), x: queryX}
		if r, ok := c.ranges[key]; ok {
			c.hits++
			return r[0], r[1]
		}
	}

	reach := radiusPixels * pixelScaleX
	lo = ClosestIndex(xs, queryX-reach)
	hi = ClosestIndex(xs, queryX+reach)

	if c != nil {
		c.ranges[key] = [2]int{lo, hi}
	}
	return lo, hi
}

// Hits returns how many lookups were served from the cache.
func (c *RangeCache) Hits() int {
	return c.hits
}
