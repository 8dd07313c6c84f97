// Package n03 resolves WGS84 points against the MLIT N03 municipal boundary
// dataset. The dataset is loaded once at startup and is read-only afterwards,
// so Resolve is safe for unbounded concurrent use.
package n03

import (
	"github.com/yanqian/pollen-advisor/internal/domain/allergycheck"
)

// Dataset holds the boundary features in file order. File order is the
// tie-break for adjacent or overlapping polygons: the first containing
// feature wins.
type Dataset struct {
	features []feature
}

type feature struct {
	region allergycheck.Region
	polys  []polygon
}

// polygon follows the GeoJSON ring convention: ring 0 is the outer boundary,
// the rest are holes.
type polygon struct {
	rings [][]coord
	bbox  bbox
}

type coord struct {
	lng float64
	lat float64
}

type bbox struct {
	minLng, minLat, maxLng, maxLat float64
}

// Len reports the number of loaded boundary features.
func (d *Dataset) Len() int {
	return len(d.features)
}

// Resolve returns the region of the first feature containing the point, or
// the zero Region when no polygon contains it.
func (d *Dataset) Resolve(lat, lng float64) allergycheck.Region {
	for _, feat := range d.features {
		for _, poly := range feat.polys {
			if poly.contains(lat, lng) {
				return feat.region
			}
		}
	}
	return allergycheck.Region{}
}

func (p polygon) contains(lat, lng float64) bool {
	if len(p.rings) == 0 {
		return false
	}
	if !p.bbox.contains(lat, lng) {
		return false
	}
	if !pointInRing(lat, lng, p.rings[0]) {
		return false
	}
	for _, hole := range p.rings[1:] {
		if pointInRing(lat, lng, hole) {
			return false
		}
	}
	return true
}

// pointInRing is the even-odd ray cast. The epsilon guards the division when
// an edge is horizontal.
func pointInRing(lat, lng float64, ring []coord) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].lng, ring[i].lat
		xj, yj := ring[j].lng, ring[j].lat
		if (yi > lat) != (yj > lat) && lng < (xj-xi)*(lat-yi)/(yj-yi+1e-12)+xi {
			inside = !inside
		}
	}
	return inside
}

func (b bbox) contains(lat, lng float64) bool {
	return lng >= b.minLng && lng <= b.maxLng && lat >= b.minLat && lat <= b.maxLat
}

func computeBBox(rings [][]coord) bbox {
	b := bbox{minLng: 180, minLat: 90, maxLng: -180, maxLat: -90}
	for _, ring := range rings {
		for _, pt := range ring {
			if pt.lng < b.minLng {
				b.minLng = pt.lng
			}
			if pt.lat < b.minLat {
				b.minLat = pt.lat
			}
			if pt.lng > b.maxLng {
				b.maxLng = pt.lng
			}
			if pt.lat > b.maxLat {
				b.maxLat = pt.lat
			}
		}
	}
	return b
}
