// Package analytics реализует оценку температуры срабатывания теплового разгона.
// Включает фильтрацию записей, правило Сильвермана для ширины окна, ядерную
// оценку плотности (KDE), поиск моды по сетке и запросы вероятности превышения порога.
package analytics

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"runaway-service/internal/models"
	"runaway-service/internal/store"
)

// Estimation результат оценки для одной пары (ячейка, механизм)
type Estimation struct {
	models.ModeEstimate
	Grid    []float64
	Density []float64

	kde *KDE
}

// KDE построенная оценка плотности
func (e *Estimation) KDE() *KDE {
	return e.kde
}

// Curve сетка и плотность для построения графика
func (e *Estimation) Curve() models.Curve {
	return models.Curve{TempRange: e.Grid, Density: e.Density}
}

// Result минимальные параметры для сохранения
func (e *Estimation) Result() models.PersistedResult {
	model := e.kde.Model()
	grid := make([]float64, len(e.Grid))
	copy(grid, e.Grid)
	return models.PersistedResult{
		Status:       models.StatusOK,
		Message:      e.Message,
		Temperatures: model.Sample,
		Bandwidth:    model.Bandwidth,
		TempRange:    grid,
	}
}

// Estimator выполняет оценку и сохраняет результат
type Estimator struct {
	store  store.ResultStore
	logger *zap.Logger
	refine bool
}

// EstimatorOption настройка Estimator
type EstimatorOption func(*Estimator)

// WithRefinedMode включает уточнение моды золотым сечением
func WithRefinedMode() EstimatorOption {
	return func(e *Estimator) {
		e.refine = true
	}
}

// NewEstimator создает оценщик. store может быть nil, тогда Run не сохраняет результат.
func NewEstimator(st store.ResultStore, logger *zap.Logger, opts ...EstimatorOption) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Estimator{store: st, logger: logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate фильтрует записи, строит KDE и ищет моду. Ничего не сохраняет.
// Пустая выборка возвращает ErrInsufficientData до построения модели.
func (e *Estimator) Estimate(records []models.EventRecord, cellType, triggerMechanism string) (*Estimation, error) {
	sample := Filter(records, cellType, triggerMechanism)
	if len(sample) == 0 {
		return nil, fmt.Errorf("%w: no temperatures for %q / %q", ErrInsufficientData, cellType, triggerMechanism)
	}

	kde, err := Fit(sample)
	if err != nil {
		return nil, err
	}

	grid := Grid(sample)
	mode, density := FindModeOnGrid(kde, grid)
	if e.refine {
		mode = RefineMode(kde, grid)
	}

	return &Estimation{
		ModeEstimate: models.ModeEstimate{
			CellType:         cellType,
			TriggerMechanism: triggerMechanism,
			Mode:             mode,
			SampleSize:       len(sample),
			Bandwidth:        kde.Bandwidth(),
			Temperatures:     sample,
			Message:          fmt.Sprintf("Estimated most likely temperature: %.2f°C", mode),
		},
		Grid:    grid,
		Density: density,
		kde:     kde,
	}, nil
}

// ComputeModeEstimate возвращает моду и размер выборки без сохранения
func (e *Estimator) ComputeModeEstimate(records []models.EventRecord, cellType, triggerMechanism string) (models.ModeEstimate, error) {
	est, err := e.Estimate(records, cellType, triggerMechanism)
	if err != nil {
		return models.ModeEstimate{}, err
	}
	return est.ModeEstimate, nil
}

// Run выполняет оценку и сохраняет результат. Если выборка непригодна для
// построения модели, сохраняется результат со статусом error и текстом для
// пользователя, чтобы запросы риска сразу получали NoModelAvailable.
// Результат со статусом ok пишется только для корректно построенной модели.
func (e *Estimator) Run(ctx context.Context, records []models.EventRecord, cellType, triggerMechanism string) (*Estimation, error) {
	log := e.logger.With(
		zap.String("cell_type", cellType),
		zap.String("trigger_mechanism", triggerMechanism),
	)

	est, err := e.Estimate(records, cellType, triggerMechanism)
	if err != nil {
		if !errors.Is(err, ErrInsufficientData) && !errors.Is(err, ErrInvalidModel) {
			return nil, err
		}
		log.Warn("estimation produced no model", zap.Error(err))
		if e.store != nil {
			failed := models.PersistedResult{Status: models.StatusError, Message: UserMessage(err)}
			if saveErr := e.store.Save(ctx, failed); saveErr != nil {
				return nil, errors.Join(err, fmt.Errorf("save error result: %w", saveErr))
			}
		}
		return nil, err
	}

	log.Info("estimation completed",
		zap.Int("sample_size", est.SampleSize),
		zap.Float64("bandwidth", est.Bandwidth),
		zap.Float64("mode", est.Mode),
	)

	if e.store != nil {
		if err := e.store.Save(ctx, est.Result()); err != nil {
			return nil, fmt.Errorf("save result: %w", err)
		}
	}
	return est, nil
}
