package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"geoMaster/internal/geo"
	"geoMaster/models"
)

type FeatureRepository struct {
	db *sql.DB
}

func NewFeatureRepository(db *sql.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

const featureColumns = `id, name, geometry_type, coordinates, created_by, color, created_at`

// Create persists a validated feature, assigning its ID and creation time.
func (r *FeatureRepository) Create(ctx context.Context, f *models.Feature) (*models.Feature, error) {
	if f == nil || f.Geometry == nil {
		return nil, errors.New("feature or geometry is nil")
	}
	coords, err := json.Marshal(f.Geometry.Coordinates())
	if err != nil {
		return nil, fmt.Errorf("encode coordinates: %w", err)
	}
	out := *f
	out.ID = uuid.NewString()
	out.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err = r.db.ExecContext(ctx, `INSERT INTO features (id, name, geometry_type, coordinates, created_by, color, created_at) VALUES (?,?,?,?,?,?,?)`,
		out.ID, out.Name, string(out.Geometry.Kind()), string(coords), out.CreatedBy, out.Color, out.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID returns nil, nil when no such feature exists.
func (r *FeatureRepository) GetByID(ctx context.Context, id string) (*models.Feature, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	f, err := scanFeature(r.db.QueryRowContext(ctx, `SELECT `+featureColumns+` FROM features WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return f, err
}

// List returns every feature matching filter in insertion order.
func (r *FeatureRepository) List(ctx context.Context, filter models.FeatureFilter) ([]models.Feature, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var (
		rows *sql.Rows
		err  error
	)
	if filter.Kind != "" {
		rows, err = r.db.QueryContext(ctx, `SELECT `+featureColumns+` FROM features WHERE geometry_type = ? ORDER BY seq`, string(filter.Kind))
	} else {
		rows, err = r.db.QueryContext(ctx, `SELECT `+featureColumns+` FROM features ORDER BY seq`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Feature, 0)
	for rows.Next() {
		f, err := scanFeature(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies a partial update of name and color. Geometry is immutable.
func (r *FeatureRepository) Update(ctx context.Context, id string, patch models.FeaturePatch) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `UPDATE features SET name = COALESCE(?, name), color = COALESCE(?, color) WHERE id = ?`,
		nullable(patch.Name), nullable(patch.Color), id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *FeatureRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM features WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *FeatureRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM features`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFeature(s rowScanner) (*models.Feature, error) {
	var (
		f         models.Feature
		kind      string
		coords    string
		createdAt string
	)
	if err := s.Scan(&f.ID, &f.Name, &kind, &coords, &f.CreatedBy, &f.Color, &createdAt); err != nil {
		return nil, err
	}
	g, err := geo.Decode(geo.Kind(kind), []byte(coords))
	if err != nil {
		return nil, fmt.Errorf("decode stored geometry %s: %w", f.ID, err)
	}
	f.Geometry = g
	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		f.CreatedAt = t
	}
	return &f, nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
