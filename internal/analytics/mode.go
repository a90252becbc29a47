package analytics

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	// GridPoints число точек сетки оценки
	GridPoints = 1000
	// GridPadding отступ сетки от минимума и максимума выборки, °C
	GridPadding = 20.0

	goldenRatio     = 0.6180339887498949
	refineTolerance = 1e-9
	refineMaxIter   = 200
)

// Density плотность, которую можно вычислить в точке и на сетке
type Density interface {
	Evaluate(x float64) float64
	EvaluateGrid(grid []float64) []float64
}

// Grid равномерная сетка из GridPoints точек на [min-20, max+20].
// Для пустой выборки возвращает nil.
func Grid(sample []float64) []float64 {
	if len(sample) == 0 {
		return nil
	}
	lo := floats.Min(sample) - GridPadding
	hi := floats.Max(sample) + GridPadding
	return floats.Span(make([]float64, GridPoints), lo, hi)
}

// FindMode возвращает точку сетки с максимальной плотностью.
// Точность ограничена шагом сетки ((max-min+40)/999): это приближение
// перебором, а не точная оптимизация. При равенстве значений выбирается
// наименьшая точка. Для пустой выборки возвращает NaN.
func FindMode(est Density, sample []float64) float64 {
	grid := Grid(sample)
	if grid == nil {
		return math.NaN()
	}
	mode, _ := FindModeOnGrid(est, grid)
	return mode
}

// FindModeOnGrid ищет максимум на заданной сетке и возвращает также значения плотности.
// Для пустой сетки возвращает NaN.
func FindModeOnGrid(est Density, grid []float64) (float64, []float64) {
	if len(grid) == 0 {
		return math.NaN(), nil
	}
	values := est.EvaluateGrid(grid)
	// floats.MaxIdx возвращает первое вхождение максимума
	return grid[floats.MaxIdx(values)], values
}

// RefineMode уточняет моду золотым сечением между соседями лучшей точки сетки.
// Если уточнение не улучшило плотность, возвращается точка сетки.
// Для пустой сетки возвращает NaN.
func RefineMode(est Density, grid []float64) float64 {
	if len(grid) == 0 {
		return math.NaN()
	}
	mode, values := FindModeOnGrid(est, grid)
	i := floats.MaxIdx(values)
	a := grid[max(i-1, 0)]
	b := grid[min(i+1, len(grid)-1)]

	c := b - goldenRatio*(b-a)
	d := a + goldenRatio*(b-a)
	fc, fd := est.Evaluate(c), est.Evaluate(d)
	for iter := 0; b-a > refineTolerance && iter < refineMaxIter; iter++ {
		if fc >= fd {
			b, d, fd = d, c, fc
			c = b - goldenRatio*(b-a)
			fc = est.Evaluate(c)
		} else {
			a, c, fc = c, d, fd
			d = a + goldenRatio*(b-a)
			fd = est.Evaluate(d)
		}
	}

	x := (a + b) / 2
	if est.Evaluate(x) < values[i] {
		return mode
	}
	return x
}
