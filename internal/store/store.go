// Package store реализует хранение результата оценки (PersistedResult).
// Результат записывается целиком и атомарно заменяет предыдущий; читатели
// никогда не видят частично записанный документ.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"runaway-service/internal/models"
)

var (
	// ErrNotFound результат еще не сохранялся
	ErrNotFound = errors.New("result not found")
	// ErrCorrupt сохраненный документ не соответствует ожидаемой схеме
	ErrCorrupt = errors.New("result is corrupt")
)

// ResultStore хранилище единственного актуального результата оценки
type ResultStore interface {
	Save(ctx context.Context, result models.PersistedResult) error
	Load(ctx context.Context) (models.PersistedResult, error)
}

// Encode сериализует результат в JSON
func Encode(result models.PersistedResult) ([]byte, error) {
	if err := Validate(result); err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return data, nil
}

// Decode разбирает JSON и проверяет схему
func Decode(data []byte) (models.PersistedResult, error) {
	var result models.PersistedResult
	if err := json.Unmarshal(data, &result); err != nil {
		return models.PersistedResult{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := Validate(result); err != nil {
		return models.PersistedResult{}, err
	}
	return result, nil
}

// Validate проверяет обязательные поля в зависимости от статуса
func Validate(result models.PersistedResult) error {
	switch result.Status {
	case models.StatusError:
		if strings.TrimSpace(result.Message) == "" {
			return fmt.Errorf("%w: error result without message", ErrCorrupt)
		}
		return nil
	case models.StatusOK:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrCorrupt, result.Status)
	}

	if len(result.Temperatures) == 0 {
		return fmt.Errorf("%w: empty temperatures", ErrCorrupt)
	}
	for _, t := range result.Temperatures {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: non-finite temperature", ErrCorrupt)
		}
	}
	if !(result.Bandwidth > 0) || math.IsInf(result.Bandwidth, 0) {
		return fmt.Errorf("%w: bandwidth must be positive, got %v", ErrCorrupt, result.Bandwidth)
	}
	if len(result.TempRange) == 0 {
		return fmt.Errorf("%w: empty temp_range", ErrCorrupt)
	}
	return nil
}
