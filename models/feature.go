package models

import (
	"time"

	"github.com/goccy/go-json"

	"geoMaster/internal/geo"
)

// Feature is a stored geometric entity drawn on the map.
// It maps to the `features` table in SQLite; the geometry is stored as the
// type tag plus a JSON coordinates column.
type Feature struct {
	ID        string       `db:"id"`
	Name      string       `db:"name"`
	Geometry  geo.Geometry `db:"-"`
	CreatedBy string       `db:"created_by"`
	Color     string       `db:"color"`
	CreatedAt time.Time    `db:"created_at"`
}

// featureJSON is the wire form. userColor mirrors color for map clients.
type featureJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        geo.Kind  `json:"type"`
	Coordinates any       `json:"coordinates"`
	CreatedBy   string    `json:"createdBy"`
	Color       string    `json:"color"`
	UserColor   string    `json:"userColor"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MarshalJSON emits the geometry as flat type and coordinates fields.
func (f Feature) MarshalJSON() ([]byte, error) {
	out := featureJSON{
		ID:        f.ID,
		Name:      f.Name,
		CreatedBy: f.CreatedBy,
		Color:     f.Color,
		UserColor: f.Color,
		CreatedAt: f.CreatedAt,
	}
	if f.Geometry != nil {
		out.Type = f.Geometry.Kind()
		out.Coordinates = f.Geometry.Coordinates()
	}
	return json.Marshal(out)
}

// FeatureFilter narrows List results. A zero value matches everything.
type FeatureFilter struct {
	Kind geo.Kind
}

// FeaturePatch carries the mutable fields of a feature. Nil means unchanged.
type FeaturePatch struct {
	Name  *string
	Color *string
}
