package geo

// GeoJSONGeometry is the RFC 7946 geometry object.
type GeoJSONGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// ToGeoJSON converts to GeoJSON, which orders positions [lng, lat] and
// requires closed polygon rings.
func ToGeoJSON(g Geometry) GeoJSONGeometry {
	switch g := g.(type) {
	case Point:
		return GeoJSONGeometry{Type: "Point", Coordinates: lngLat(g.At)}
	case LineString:
		return GeoJSONGeometry{Type: "LineString", Coordinates: lngLatPath(g.Path)}
	case Polygon:
		ring := lngLatPath(g.Ring)
		ring = append(ring, lngLat(g.Ring[0]))
		return GeoJSONGeometry{Type: "Polygon", Coordinates: [][][]float64{ring}}
	default:
		return GeoJSONGeometry{}
	}
}

func lngLat(p LatLng) []float64 {
	return []float64{p.Lng(), p.Lat()}
}

func lngLatPath(path []LatLng) [][]float64 {
	out := make([][]float64, 0, len(path)+1)
	for _, p := range path {
		out = append(out, lngLat(p))
	}
	return out
}
