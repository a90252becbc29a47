package analytics

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"runaway-service/internal/models"
	"runaway-service/internal/store"
)

func TestClassifyTier(t *testing.T) {
	tests := []struct {
		p    float64
		want models.Tier
	}{
		{0, models.TierLow},
		{0.05, models.TierLow},
		{0.0500001, models.TierModerate},
		{0.10, models.TierModerate},
		{0.1000001, models.TierHigh},
		{1, models.TierHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTier(tt.p), "p=%v", tt.p)
	}
}

func newEngineWithModel(t *testing.T) *RiskEngine {
	t.Helper()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "result.json"))
	_, err := NewEstimator(fs, nil).Run(context.Background(), sampleRecords(), kulr, heater)
	require.NoError(t, err)
	return NewRiskEngine(fs, nil)
}

func TestRiskEngine_AssessRisk(t *testing.T) {
	ctx := context.Background()
	engine := newEngineWithModel(t)

	tests := []struct {
		threshold float64
		tier      models.Tier
	}{
		{50, models.TierHigh},
		{110, models.TierHigh},
		{112, models.TierModerate},
		{120, models.TierLow},
		{150, models.TierLow},
	}
	for _, tt := range tests {
		got, err := engine.AssessRisk(ctx, tt.threshold)
		require.NoError(t, err)
		assert.Equal(t, tt.threshold, got.Threshold)
		assert.Equal(t, tt.tier, got.Tier, "threshold=%v p=%v", tt.threshold, got.Probability)
	}

	got, err := engine.AssessRisk(ctx, 150)
	require.NoError(t, err)
	assert.Less(t, got.Probability, 0.02)

	got, err = engine.AssessRisk(ctx, math.Inf(-1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Probability)

	_, err = engine.AssessRisk(ctx, math.NaN())
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}

func TestRiskEngine_UsesStoredBandwidth(t *testing.T) {
	ctx := context.Background()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "result.json"))
	// bandwidth deliberately different from Silverman's rule for this sample
	require.NoError(t, fs.Save(ctx, models.PersistedResult{
		Status:       models.StatusOK,
		Temperatures: []float64{100, 102},
		Bandwidth:    10,
		TempRange:    []float64{80, 122},
	}))

	kde, _, err := NewRiskEngine(fs, nil).LoadModel(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10.0, kde.Bandwidth())
}

func TestRiskEngine_NotFound(t *testing.T) {
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "result.json"))
	_, err := NewRiskEngine(fs, nil).AssessRisk(context.Background(), 100)

	assert.ErrorIs(t, err, ErrNoModelAvailable)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.Equal(t, NotComputedMessage, UserMessage(err))
}

func TestRiskEngine_Corrupt(t *testing.T) {
	engine := NewRiskEngine(corruptStore{}, nil)

	_, err := engine.AssessRisk(context.Background(), 100)
	assert.ErrorIs(t, err, ErrNoModelAvailable)
	assert.ErrorIs(t, err, store.ErrCorrupt)
	assert.Equal(t, CorruptModelMessage, UserMessage(err))
}

func TestRiskEngine_ErrorStatusPassesMessage(t *testing.T) {
	ctx := context.Background()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "result.json"))
	_, err := NewEstimator(fs, nil).Run(ctx, sampleRecords(), "Unknown", heater)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = NewRiskEngine(fs, nil).AssessRisk(ctx, 100)
	assert.ErrorIs(t, err, ErrNoModelAvailable)
	assert.Equal(t, NoDataMessage, UserMessage(err))
}

func TestRiskEngine_Curve(t *testing.T) {
	ctx := context.Background()
	engine := newEngineWithModel(t)

	curve, err := engine.Curve(ctx)
	require.NoError(t, err)
	require.Len(t, curve.TempRange, GridPoints)
	require.Len(t, curve.Density, GridPoints)

	est, err := NewEstimator(nil, nil).Estimate(sampleRecords(), kulr, heater)
	require.NoError(t, err)
	assert.Equal(t, est.Density, curve.Density)
}

type corruptStore struct{}

func (corruptStore) Save(context.Context, models.PersistedResult) error { return nil }

func (corruptStore) Load(context.Context) (models.PersistedResult, error) {
	return store.Decode([]byte(`{"status": "ok", "bandwidth": -1}`))
}
