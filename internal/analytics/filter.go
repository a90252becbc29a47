package analytics

import "runaway-service/internal/models"

// Filter возвращает температуры записей с точным совпадением типа ячейки и
// механизма срабатывания (с учетом регистра), в порядке датасета.
// Записи без измеренной температуры пропускаются. Пустой результат - это
// "нет данных", а не ошибка.
func Filter(records []models.EventRecord, cellType, triggerMechanism string) []float64 {
	sample := make([]float64, 0)
	for _, r := range records {
		if r.CellDescription != cellType || r.TriggerMechanism != triggerMechanism {
			continue
		}
		if t, ok := r.Temperature(); ok {
			sample = append(sample, t)
		}
	}
	return sample
}
