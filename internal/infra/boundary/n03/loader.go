package n03

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yanqian/pollen-advisor/internal/domain/allergycheck"
)

// Wire structures for the N03 GeoJSON FeatureCollection. N03_004 is the city,
// N03_005 the ward/town, N03_007 the national local government code.
type geoCollection struct {
	Type     string       `json:"type"`
	Features []geoFeature `json:"features"`
}

type geoFeature struct {
	Properties geoProperties `json:"properties"`
	Geometry   geoGeometry   `json:"geometry"`
}

type geoProperties struct {
	City string `json:"N03_004"`
	Ward string `json:"N03_005"`
	Code string `json:"N03_007"`
}

type geoGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Load reads the boundary GeoJSON from disk and builds the containment
// dataset. Called once from the wire provider; any error is fatal at startup.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boundary dataset: %w", err)
	}
	return Parse(data)
}

// Parse decodes a GeoJSON FeatureCollection into a Dataset, preserving
// feature order.
func Parse(data []byte) (*Dataset, error) {
	var collection geoCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("decode boundary dataset: %w", err)
	}
	if collection.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unexpected geojson type %q", collection.Type)
	}

	features := make([]feature, 0, len(collection.Features))
	for i, feat := range collection.Features {
		polys, err := parseGeometry(feat.Geometry)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		features = append(features, feature{
			region: allergycheck.Region{
				City: feat.Properties.City,
				Ward: feat.Properties.Ward,
				Code: feat.Properties.Code,
			},
			polys: polys,
		})
	}
	return &Dataset{features: features}, nil
}

func parseGeometry(g geoGeometry) ([]polygon, error) {
	switch g.Type {
	case "Polygon":
		var rings [][][]float64
		if err := json.Unmarshal(g.Coordinates, &rings); err != nil {
			return nil, fmt.Errorf("decode polygon coordinates: %w", err)
		}
		return []polygon{buildPolygon(rings)}, nil
	case "MultiPolygon":
		var parts [][][][]float64
		if err := json.Unmarshal(g.Coordinates, &parts); err != nil {
			return nil, fmt.Errorf("decode multipolygon coordinates: %w", err)
		}
		polys := make([]polygon, 0, len(parts))
		for _, rings := range parts {
			polys = append(polys, buildPolygon(rings))
		}
		return polys, nil
	default:
		return nil, fmt.Errorf("unsupported geometry type %q", g.Type)
	}
}

func buildPolygon(rawRings [][][]float64) polygon {
	rings := make([][]coord, 0, len(rawRings))
	for _, rawRing := range rawRings {
		ring := make([]coord, 0, len(rawRing))
		for _, position := range rawRing {
			if len(position) < 2 {
				continue
			}
			// GeoJSON positions are [longitude, latitude].
			ring = append(ring, coord{lng: position[0], lat: position[1]})
		}
		rings = append(rings, ring)
	}
	return polygon{rings: rings, bbox: computeBBox(rings)}
}
