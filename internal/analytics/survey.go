package analytics

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"runaway-service/internal/models"
)

// Groups возвращает все пары (ячейка, механизм), встречающиеся в датасете,
// отсортированные по типу ячейки и механизму
func Groups(records []models.EventRecord) []models.GroupKey {
	seen := make(map[models.GroupKey]struct{})
	keys := make([]models.GroupKey, 0)
	for _, r := range records {
		key := models.GroupKey{CellType: r.CellDescription, TriggerMechanism: r.TriggerMechanism}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CellType != keys[j].CellType {
			return keys[i].CellType < keys[j].CellType
		}
		return keys[i].TriggerMechanism < keys[j].TriggerMechanism
	})
	return keys
}

// Survey оценивает моду для каждой пары датасета параллельно, не более workers
// одновременно. Пары без пригодной выборки попадают в результат с текстом ошибки.
func (e *Estimator) Survey(ctx context.Context, records []models.EventRecord, workers int) ([]models.GroupSummary, error) {
	if workers <= 0 {
		workers = 1
	}
	keys := Groups(records)
	summaries := make([]models.GroupSummary, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			summary := models.GroupSummary{GroupKey: key}
			est, err := e.Estimate(records, key.CellType, key.TriggerMechanism)
			if err != nil {
				summary.SampleSize = len(Filter(records, key.CellType, key.TriggerMechanism))
				summary.Error = UserMessage(err)
			} else {
				mode := est.Mode
				summary.SampleSize = est.SampleSize
				summary.Mode = &mode
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
