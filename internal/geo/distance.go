package geo

import "math"

// EarthRadiusKm is Earth's mean radius in kilometres for the Haversine calculation.
const EarthRadiusKm = 6371.0088

// HaversineKm calculates the great-circle distance between two points
// on Earth in kilometres using the Haversine formula.
func HaversineKm(a, b LatLng) float64 {
	const degToRad = math.Pi / 180
	dLat := (b.Lat() - a.Lat()) * degToRad
	dLng := (b.Lng() - a.Lng()) * degToRad
	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(a.Lat()*degToRad)*math.Cos(b.Lat()*degToRad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusKm * c
}

// pathKm sums the segment lengths of an ordered path.
func pathKm(path []LatLng) float64 {
	var total float64
	for i := 1; i < len(path); i++ {
		total += HaversineKm(path[i-1], path[i])
	}
	return total
}

// LengthKm returns the length of a line, the perimeter of a polygon (closing
// edge included) and zero for a point.
func LengthKm(g Geometry) float64 {
	switch g := g.(type) {
	case Point:
		return 0
	case LineString:
		return pathKm(g.Path)
	case Polygon:
		return pathKm(g.Ring) + HaversineKm(g.Ring[len(g.Ring)-1], g.Ring[0])
	default:
		return 0
	}
}
