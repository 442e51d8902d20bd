// Package geo holds the geometry model of stored map features: a closed set
// of shapes (point, line, polygon) over [lat, lng] pairs.
package geo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Kind tags the shape of a Geometry.
type Kind string

const (
	KindPoint   Kind = "point"
	KindLine    Kind = "line"
	KindPolygon Kind = "polygon"
)

// ErrInvalidGeometry is wrapped by every geometry validation failure.
var ErrInvalidGeometry = errors.New("invalid geometry")

// ParseKind accepts the short names and the GeoJSON names, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "point":
		return KindPoint, nil
	case "line", "linestring":
		return KindLine, nil
	case "polygon":
		return KindPolygon, nil
	default:
		return "", fmt.Errorf("%w: unknown geometry type %q", ErrInvalidGeometry, s)
	}
}

// LatLng is a single [lat, lng] pair.
type LatLng [2]float64

func (p LatLng) Lat() float64 { return p[0] }
func (p LatLng) Lng() float64 { return p[1] }

func (p LatLng) validate() error {
	if p.Lat() < -90 || p.Lat() > 90 {
		return fmt.Errorf("%w: latitude %v out of range", ErrInvalidGeometry, p.Lat())
	}
	if p.Lng() < -180 || p.Lng() > 180 {
		return fmt.Errorf("%w: longitude %v out of range", ErrInvalidGeometry, p.Lng())
	}
	return nil
}

// Geometry is implemented by Point, LineString and Polygon only.
type Geometry interface {
	Kind() Kind
	// Coordinates returns the [lat, lng] shape clients send and receive.
	Coordinates() any
	isGeometry()
}

// Point is a single position.
type Point struct {
	At LatLng
}

// LineString is an ordered path of at least two positions.
type LineString struct {
	Path []LatLng
}

// Polygon is a ring of at least three positions; first and last are
// implicitly connected.
type Polygon struct {
	Ring []LatLng
}

func (Point) Kind() Kind      { return KindPoint }
func (LineString) Kind() Kind { return KindLine }
func (Polygon) Kind() Kind    { return KindPolygon }

func (p Point) Coordinates() any      { return []float64{p.At.Lat(), p.At.Lng()} }
func (l LineString) Coordinates() any { return pairs(l.Path) }
func (p Polygon) Coordinates() any    { return pairs(p.Ring) }

func (Point) isGeometry()      {}
func (LineString) isGeometry() {}
func (Polygon) isGeometry()    {}

func pairs(path []LatLng) [][]float64 {
	out := make([][]float64, len(path))
	for i, p := range path {
		out[i] = []float64{p.Lat(), p.Lng()}
	}
	return out
}

// Decode builds a Geometry of the given kind from raw JSON coordinates and
// rejects any shape that does not agree with the kind.
func Decode(kind Kind, raw []byte) (Geometry, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: coordinates are required", ErrInvalidGeometry)
	}
	switch kind {
	case KindPoint:
		var c []float64
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: point needs a single [lat, lng] pair", ErrInvalidGeometry)
		}
		p, err := toLatLng(c)
		if err != nil {
			return nil, err
		}
		return Point{At: p}, nil
	case KindLine:
		path, err := decodePath(raw)
		if err != nil {
			return nil, err
		}
		if len(path) < 2 {
			return nil, fmt.Errorf("%w: line needs at least 2 positions, got %d", ErrInvalidGeometry, len(path))
		}
		return LineString{Path: path}, nil
	case KindPolygon:
		ring, err := decodePath(raw)
		if err != nil {
			return nil, err
		}
		// An explicitly closed ring is stored open.
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		if len(ring) < 3 {
			return nil, fmt.Errorf("%w: polygon needs at least 3 positions, got %d", ErrInvalidGeometry, len(ring))
		}
		if n := distinctPositions(ring); n < 3 {
			return nil, fmt.Errorf("%w: polygon needs at least 3 distinct positions, got %d", ErrInvalidGeometry, n)
		}
		if planarArea2(ring) == 0 {
			return nil, fmt.Errorf("%w: polygon ring encloses no area", ErrInvalidGeometry)
		}
		return Polygon{Ring: ring}, nil
	default:
		return nil, fmt.Errorf("%w: unknown geometry type %q", ErrInvalidGeometry, kind)
	}
}

func distinctPositions(ring []LatLng) int {
	seen := make(map[LatLng]struct{}, len(ring))
	for _, p := range ring {
		seen[p] = struct{}{}
	}
	return len(seen)
}

// planarArea2 is twice the shoelace area of the open ring in degree space.
// It is zero exactly when every position lies on one line.
func planarArea2(ring []LatLng) float64 {
	var sum float64
	for i, p := range ring {
		q := ring[(i+1)%len(ring)]
		sum += p[0]*q[1] - q[0]*p[1]
	}
	return sum
}

func decodePath(raw []byte) ([]LatLng, error) {
	var cs [][]float64
	if err := json.Unmarshal(raw, &cs); err != nil {
		return nil, fmt.Errorf("%w: expected a sequence of [lat, lng] pairs", ErrInvalidGeometry)
	}
	path := make([]LatLng, 0, len(cs))
	for _, c := range cs {
		p, err := toLatLng(c)
		if err != nil {
			return nil, err
		}
		path = append(path, p)
	}
	return path, nil
}

func toLatLng(c []float64) (LatLng, error) {
	if len(c) != 2 {
		return LatLng{}, fmt.Errorf("%w: position must be a [lat, lng] pair", ErrInvalidGeometry)
	}
	p := LatLng{c[0], c[1]}
	if err := p.validate(); err != nil {
		return LatLng{}, err
	}
	return p, nil
}
