package analytics

import (
	"fmt"
	"math"

	"runaway-service/internal/models"
)

var invSqrt2Pi = 1 / math.Sqrt(2*math.Pi)

// DensityModel выборка и ширина окна. Единица сохранения.
type DensityModel struct {
	Sample    []float64
	Bandwidth float64
}

// ModelFromResult извлекает модель из сохраненного результата
func ModelFromResult(r models.PersistedResult) DensityModel {
	return DensityModel{Sample: r.Temperatures, Bandwidth: r.Bandwidth}
}

// KDE ядерная оценка плотности с гауссовым ядром. Неизменяема после создания.
type KDE struct {
	sample    []float64
	bandwidth float64
	norm      float64
}

// NewKDE строит оценку плотности. Пустая выборка, нечисловые точки и
// неположительная ширина окна дают ErrInvalidModel.
func NewKDE(model DensityModel) (*KDE, error) {
	if len(model.Sample) == 0 {
		return nil, fmt.Errorf("%w: empty sample", ErrInvalidModel)
	}
	h := model.Bandwidth
	if !(h > 0) || math.IsInf(h, 0) {
		return nil, fmt.Errorf("%w: bandwidth must be positive, got %v", ErrInvalidModel, h)
	}
	sample := make([]float64, len(model.Sample))
	for i, x := range model.Sample {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%w: non-finite temperature at index %d", ErrInvalidModel, i)
		}
		sample[i] = x
	}

	return &KDE{
		sample:    sample,
		bandwidth: h,
		norm:      invSqrt2Pi / (float64(len(sample)) * h),
	}, nil
}

// Fit вычисляет ширину окна по выборке и строит оценку
func Fit(sample []float64) (*KDE, error) {
	h, err := Bandwidth(sample)
	if err != nil {
		return nil, err
	}
	return NewKDE(DensityModel{Sample: sample, Bandwidth: h})
}

// Model возвращает копию параметров модели
func (k *KDE) Model() DensityModel {
	sample := make([]float64, len(k.sample))
	copy(sample, k.sample)
	return DensityModel{Sample: sample, Bandwidth: k.bandwidth}
}

// Bandwidth ширина окна
func (k *KDE) Bandwidth() float64 {
	return k.bandwidth
}

// Size размер выборки
func (k *KDE) Size() int {
	return len(k.sample)
}

// Evaluate значение плотности в точке x
func (k *KDE) Evaluate(x float64) float64 {
	var sum float64
	for _, xi := range k.sample {
		z := (x - xi) / k.bandwidth
		sum += math.Exp(-0.5 * z * z)
	}
	return k.norm * sum
}

// EvaluateGrid значения плотности в каждой точке сетки
func (k *KDE) EvaluateGrid(grid []float64) []float64 {
	values := make([]float64, len(grid))
	for i, x := range grid {
		values[i] = k.Evaluate(x)
	}
	return values
}

// ExceedanceProbability вероятность того, что температура превысит threshold.
// Хвост считается аналитически через erfc, без дискретизации по сетке.
func (k *KDE) ExceedanceProbability(threshold float64) float64 {
	scale := k.bandwidth * math.Sqrt2
	var sum float64
	for _, xi := range k.sample {
		sum += 0.5 * math.Erfc((threshold-xi)/scale)
	}
	return clamp01(sum / float64(len(k.sample)))
}

// CDF вероятность того, что температура не превысит x
func (k *KDE) CDF(x float64) float64 {
	scale := k.bandwidth * math.Sqrt2
	var sum float64
	for _, xi := range k.sample {
		sum += 0.5 * math.Erfc((xi-x)/scale)
	}
	return clamp01(sum / float64(len(k.sample)))
}

// Integrate масса плотности на отрезке [a, b]. При a > b знак меняется.
func (k *KDE) Integrate(a, b float64) float64 {
	if a > b {
		return -k.Integrate(b, a)
	}
	return math.Max(0, k.ExceedanceProbability(a)-k.ExceedanceProbability(b))
}

func clamp01(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
