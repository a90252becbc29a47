package analytics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// SilvermanFactor множитель правила Сильвермана для гауссова ядра
const SilvermanFactor = 1.06

// Bandwidth вычисляет ширину окна по правилу Сильвермана: 1.06·σ·n^(-1/5),
// где σ - стандартное отклонение генеральной совокупности.
// Для n < 2 ширина не определена и возвращается ErrInsufficientData.
func Bandwidth(sample []float64) (float64, error) {
	n := len(sample)
	if n < 2 {
		return 0, fmt.Errorf("%w: bandwidth needs at least 2 temperatures, got %d", ErrInsufficientData, n)
	}

	sigma := stat.PopStdDev(sample, nil)
	h := SilvermanFactor * sigma * math.Pow(float64(n), -0.2)
	if !(h > 0) || math.IsInf(h, 0) {
		return 0, fmt.Errorf("%w: bandwidth %v from standard deviation %v", ErrInvalidModel, h, sigma)
	}
	return h, nil
}
