package analytics

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"runaway-service/internal/models"
	"runaway-service/internal/store"
)

const (
	// HighRiskThreshold вероятность выше этого значения - высокий риск
	HighRiskThreshold = 0.10
	// ModerateRiskThreshold вероятность выше этого значения - умеренный риск
	ModerateRiskThreshold = 0.05
)

// ClassifyTier переводит вероятность превышения порога в уровень риска
func ClassifyTier(probability float64) models.Tier {
	switch {
	case probability > HighRiskThreshold:
		return models.TierHigh
	case probability > ModerateRiskThreshold:
		return models.TierModerate
	default:
		return models.TierLow
	}
}

// RiskEngine отвечает на запросы риска по сохраненной модели, без доступа к датасету
type RiskEngine struct {
	store  store.ResultStore
	logger *zap.Logger
}

// NewRiskEngine создает движок запросов поверх хранилища результата
func NewRiskEngine(st store.ResultStore, logger *zap.Logger) *RiskEngine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RiskEngine{store: st, logger: logger}
}

// LoadModel загружает результат и восстанавливает KDE.
// Ширина окна берется из результата как есть и не пересчитывается.
func (r *RiskEngine) LoadModel(ctx context.Context) (*KDE, models.PersistedResult, error) {
	result, err := r.store.Load(ctx)
	if err != nil {
		return nil, models.PersistedResult{}, fmt.Errorf("%w: %w", ErrNoModelAvailable, err)
	}
	if result.Status == models.StatusError {
		return nil, result, &StoredError{Message: result.Message}
	}

	kde, err := NewKDE(ModelFromResult(result))
	if err != nil {
		return nil, result, fmt.Errorf("%w: %w", ErrNoModelAvailable, err)
	}
	return kde, result, nil
}

// AssessRisk вероятность превышения threshold и уровень риска
func (r *RiskEngine) AssessRisk(ctx context.Context, threshold float64) (models.RiskAssessment, error) {
	if math.IsNaN(threshold) {
		return models.RiskAssessment{}, ErrInvalidThreshold
	}

	kde, _, err := r.LoadModel(ctx)
	if err != nil {
		return models.RiskAssessment{}, err
	}

	p := kde.ExceedanceProbability(threshold)
	assessment := models.RiskAssessment{
		Threshold:   threshold,
		Probability: p,
		Tier:        ClassifyTier(p),
	}

	r.logger.Debug("risk assessed",
		zap.Float64("threshold", threshold),
		zap.Float64("probability", p),
		zap.String("tier", string(assessment.Tier)),
	)
	return assessment, nil
}

// Curve плотность, заново вычисленная на сохраненной сетке
func (r *RiskEngine) Curve(ctx context.Context) (models.Curve, error) {
	kde, result, err := r.LoadModel(ctx)
	if err != nil {
		return models.Curve{}, err
	}
	return models.Curve{
		TempRange: result.TempRange,
		Density:   kde.EvaluateGrid(result.TempRange),
	}, nil
}
