package geo

import (
	"math"
	"testing"
)

func TestHaversineKm_ZeroDistance(t *testing.T) {
	d := HaversineKm(LatLng{10, 20}, LatLng{10, 20})
	if d < 0 || d > 1e-9 {
		t.Fatalf("zero distance expected ~0, got %v", d)
	}
}

func TestHaversineKm_OneDegreeAtEquator(t *testing.T) {
	// One degree of longitude on the equator is ~111.2 km.
	d := HaversineKm(LatLng{0, 0}, LatLng{0, 1})
	if math.Abs(d-111.19) > 0.1 {
		t.Fatalf("expected ~111.19 km, got %v", d)
	}
}

func TestLengthKm(t *testing.T) {
	line := LineString{Path: []LatLng{{0, 0}, {0, 1}, {0, 2}}}
	if got := LengthKm(line); math.Abs(got-2*111.19) > 0.2 {
		t.Fatalf("line length = %v", got)
	}
	poly := Polygon{Ring: []LatLng{{0, 0}, {0, 1}, {1, 1}}}
	open := pathKm(poly.Ring)
	if got := LengthKm(poly); got <= open {
		t.Fatalf("perimeter %v should include the closing edge (open path %v)", got, open)
	}
	if got := LengthKm(Point{At: LatLng{1, 1}}); got != 0 {
		t.Fatalf("point length = %v, want 0", got)
	}
}
