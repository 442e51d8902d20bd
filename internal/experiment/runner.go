// Package experiment times the same lookup against an embedded table before
// and after a secondary index is built on the queried column.
package experiment

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"geoMaster/internal/metrics"
	"geoMaster/models"
)

const (
	// TargetName is the single record a point lookup must find.
	TargetName = "TARGET_DATA"
	// DefaultSize is the number of rows seeded when none is configured.
	DefaultSize = 50000
)

const schema = `CREATE TABLE IF NOT EXISTS points (
	id   INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	lat  REAL NOT NULL,
	lng  REAL NOT NULL
)`

// indexable columns and the index each one gets.
var indexes = map[string]string{
	"name": "idx_points_name",
	"lat":  "idx_points_lat",
	"lng":  "idx_points_lng",
}

// Predicate is a lookup over one column of the points table.
type Predicate struct {
	Field  string
	clause string
	args   []any
}

// NameEquals matches rows whose name is exactly v.
func NameEquals(v string) Predicate {
	return Predicate{Field: "name", clause: "name = ?", args: []any{v}}
}

// LatBetween matches rows with lo <= lat <= hi.
func LatBetween(lo, hi float64) Predicate {
	return Predicate{Field: "lat", clause: "lat BETWEEN ? AND ?", args: []any{lo, hi}}
}

// Measurement is the outcome of one timed scan.
type Measurement struct {
	Indexed bool
	Elapsed time.Duration
	Results int
}

// Mode is the label the perf endpoints report.
func (m Measurement) Mode() string {
	if m.Indexed {
		return "WITH INDEX"
	}
	return "WITHOUT INDEX"
}

// Millis is Elapsed in fractional milliseconds.
func (m Measurement) Millis() float64 {
	return float64(m.Elapsed.Nanoseconds()) / 1e6
}

// Runner owns a private in-memory database, so experiment rows never mix
// with stored features.
type Runner struct {
	db *sql.DB

	mu      sync.Mutex
	rnd     *rand.Rand
	indexed map[string]bool
	without *Measurement
	with    *Measurement
}

// Open creates a runner on a fresh ":memory:" database.
func Open() (*Runner, error) {
	d, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, err
	}
	// every connection to :memory: is its own database
	d.SetMaxOpenConns(1)
	if _, err := d.Exec(schema); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("create points table: %w", err)
	}
	return &Runner{
		db:      d,
		rnd:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
		indexed: map[string]bool{},
	}, nil
}

func (r *Runner) Close() error { return r.db.Close() }

// Seed replaces the table contents with n-1 random rows plus exactly one row
// named target.
func (r *Runner) Seed(ctx context.Context, n int, target string) error {
	if n < 1 {
		return fmt.Errorf("%w: seed size must be at least 1", models.ErrValidation)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM points`); err != nil {
		return fmt.Errorf("clear points: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO points (name, lat, lng) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, target, 30.0, 40.0); err != nil {
		return fmt.Errorf("insert target: %w", err)
	}
	for i := 0; i < n-1; i++ {
		lat := r.rnd.Float64()*180 - 90
		lng := r.rnd.Float64()*360 - 180
		if _, err := stmt.ExecContext(ctx, fmt.Sprintf("Junk_%d", i), lat, lng); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.without, r.with = nil, nil
	return nil
}

// MeasureScan runs the predicate query to completion and times it.
func (r *Runner) MeasureScan(ctx context.Context, p Predicate) (Measurement, error) {
	if _, ok := indexes[p.Field]; !ok {
		return Measurement{}, fmt.Errorf("%w: unknown field %q", models.ErrValidation, p.Field)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m := Measurement{Indexed: r.indexed[p.Field]}
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, lat, lng FROM points WHERE `+p.clause, p.args...)
	if err != nil {
		return Measurement{}, err
	}
	for rows.Next() {
		var (
			id       int64
			name     string
			lat, lng float64
		)
		if err := rows.Scan(&id, &name, &lat, &lng); err != nil {
			_ = rows.Close()
			return Measurement{}, err
		}
		m.Results++
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return Measurement{}, err
	}
	_ = rows.Close()
	m.Elapsed = time.Since(start)

	label := "without_index"
	if m.Indexed {
		label = "with_index"
		r.with = &m
	} else {
		r.without = &m
	}
	metrics.ExperimentScan.WithLabelValues(label).Observe(m.Elapsed.Seconds())
	return m, nil
}

// BuildIndex creates the B-tree index for field.
func (r *Runner) BuildIndex(ctx context.Context, field string) error {
	name, ok := indexes[field]
	if !ok {
		return fmt.Errorf("%w: unknown field %q", models.ErrValidation, field)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.db.ExecContext(ctx, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON points(%s)`, name, field)); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	r.indexed[field] = true
	return nil
}

// DropIndex removes the index for field if it exists.
func (r *Runner) DropIndex(ctx context.Context, field string) error {
	name, ok := indexes[field]
	if !ok {
		return fmt.Errorf("%w: unknown field %q", models.ErrValidation, field)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, err := r.db.ExecContext(ctx, `DROP INDEX IF EXISTS `+name); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	r.indexed[field] = false
	return nil
}

// Latest returns the most recent unindexed and indexed measurements since
// the last seed. Either may be nil.
func (r *Runner) Latest() (without, with *Measurement) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.without, r.with
}

// Run executes seed, unindexed scan, index build and indexed scan in order.
func (r *Runner) Run(ctx context.Context, n int, p Predicate) (Report, error) {
	if err := r.Seed(ctx, n, TargetName); err != nil {
		return Report{}, err
	}
	if err := r.DropIndex(ctx, p.Field); err != nil {
		return Report{}, err
	}
	without, err := r.MeasureScan(ctx, p)
	if err != nil {
		return Report{}, err
	}
	if err := r.BuildIndex(ctx, p.Field); err != nil {
		return Report{}, err
	}
	with, err := r.MeasureScan(ctx, p)
	if err != nil {
		return Report{}, err
	}
	rep := NewReport(without.Elapsed, with.Elapsed)
	rep.Rows = n
	rep.ResultsWithout = without.Results
	rep.ResultsWith = with.Results
	return rep, nil
}
