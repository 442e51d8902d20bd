package experiment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoMaster/models"
)

func openRunner(t *testing.T) *Runner {
	t.Helper()
	r, err := Open()
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestNewReport(t *testing.T) {
	rep := NewReport(10*time.Millisecond, 2*time.Millisecond)
	assert.InDelta(t, 5.0, rep.GainRatio, 1e-9)
	assert.InDelta(t, 10.0, rep.WithoutMs, 1e-9)
	assert.False(t, rep.Unbounded)

	rep = NewReport(3*time.Millisecond, 0)
	assert.True(t, rep.Unbounded)
	assert.Zero(t, rep.GainRatio)
}

func TestSeed_SingleTarget(t *testing.T) {
	r := openRunner(t)
	ctx := context.Background()

	require.NoError(t, r.Seed(ctx, 1000, TargetName))
	m, err := r.MeasureScan(ctx, NameEquals(TargetName))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Results)
	assert.False(t, m.Indexed)
	assert.Equal(t, "WITHOUT INDEX", m.Mode())

	// reseeding replaces rows rather than appending
	require.NoError(t, r.Seed(ctx, 10, TargetName))
	m, err = r.MeasureScan(ctx, NameEquals(TargetName))
	require.NoError(t, err)
	assert.Equal(t, 1, m.Results)

	all, err := r.MeasureScan(ctx, LatBetween(-90, 90))
	require.NoError(t, err)
	assert.Equal(t, 10, all.Results)

	require.ErrorIs(t, r.Seed(ctx, 0, TargetName), models.ErrValidation)
}

func TestIndexLifecycle(t *testing.T) {
	r := openRunner(t)
	ctx := context.Background()
	require.NoError(t, r.Seed(ctx, 100, TargetName))

	require.NoError(t, r.BuildIndex(ctx, "name"))
	require.NoError(t, r.BuildIndex(ctx, "name"))
	m, err := r.MeasureScan(ctx, NameEquals(TargetName))
	require.NoError(t, err)
	assert.True(t, m.Indexed)
	assert.Equal(t, "WITH INDEX", m.Mode())

	require.NoError(t, r.DropIndex(ctx, "name"))
	require.NoError(t, r.DropIndex(ctx, "name"))
	m, err = r.MeasureScan(ctx, NameEquals(TargetName))
	require.NoError(t, err)
	assert.False(t, m.Indexed)

	without, with := r.Latest()
	require.NotNil(t, without)
	require.NotNil(t, with)

	require.ErrorIs(t, r.BuildIndex(ctx, "password"), models.ErrValidation)
	_, err = r.MeasureScan(ctx, Predicate{Field: "id"})
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestRun_FiftyThousandRows(t *testing.T) {
	if testing.Short() {
		t.Skip("seeds 50k rows")
	}
	r := openRunner(t)

	rep, err := r.Run(context.Background(), DefaultSize, NameEquals(TargetName))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.ResultsWithout)
	assert.Equal(t, 1, rep.ResultsWith)
	assert.Equal(t, DefaultSize, rep.Rows)
	if !rep.Unbounded {
		// timings are noisy; the indexed lookup must not clearly regress
		assert.GreaterOrEqual(t, rep.GainRatio, 0.8)
	}
}

func TestRun_RangeScan(t *testing.T) {
	r := openRunner(t)
	rep, err := r.Run(context.Background(), 5000, LatBetween(40, 42))
	require.NoError(t, err)
	assert.Equal(t, rep.ResultsWithout, rep.ResultsWith)
}
