// Package models содержит структуры данных для записей о срабатываниях,
// сохраняемых результатов оценки и ответов API
package models

import "math"

// EventRecord представляет одну историческую запись о тепловом разгоне ячейки
type EventRecord struct {
	CellDescription      string   `json:"cell_description" yaml:"cell_description"`
	TriggerMechanism     string   `json:"trigger_mechanism" yaml:"trigger_mechanism"`
	AvgCellTempAtTrigger *float64 `json:"avg_cell_temp_at_trigger,omitempty" yaml:"avg_cell_temp_at_trigger,omitempty"`
}

// Temperature возвращает температуру срабатывания и признак ее наличия.
// Нечисловые значения (NaN, ±Inf) считаются отсутствующими.
func (r EventRecord) Temperature() (float64, bool) {
	if r.AvgCellTempAtTrigger == nil {
		return 0, false
	}
	t := *r.AvgCellTempAtTrigger
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, false
	}
	return t, true
}

// GroupKey идентифицирует пару (тип ячейки, механизм срабатывания)
type GroupKey struct {
	CellType         string `json:"cell_type" yaml:"cell_type"`
	TriggerMechanism string `json:"trigger_mechanism" yaml:"trigger_mechanism"`
}
