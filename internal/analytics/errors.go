package analytics

import (
	"errors"

	"runaway-service/internal/store"
)

var (
	// ErrInsufficientData в отфильтрованной выборке меньше двух точек
	ErrInsufficientData = errors.New("insufficient data")
	// ErrInvalidModel ширина окна не положительна или выборка некорректна
	ErrInvalidModel = errors.New("invalid density model")
	// ErrNoModelAvailable на момент запроса нет пригодной модели
	ErrNoModelAvailable = errors.New("no model available")
)

// Сообщения для пользователя
const (
	NoDataMessage       = "No data available for this cell type and trigger mechanism."
	NotComputedMessage  = "no model available; run estimation first"
	CorruptModelMessage = "no model available; stored model is corrupt, re-run estimation"
	InvalidModelMessage = "density model is invalid: temperatures must vary to define a bandwidth"
)

// StoredError результат оценки сохранен со статусом error
type StoredError struct {
	Message string
}

func (e *StoredError) Error() string {
	return "no model available: " + e.Message
}

// Is позволяет сравнивать StoredError с ErrNoModelAvailable через errors.Is
func (e *StoredError) Is(target error) bool {
	return target == ErrNoModelAvailable
}

// UserMessage переводит ошибку в текст, который можно показать пользователю
func UserMessage(err error) string {
	var stored *StoredError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &stored):
		return stored.Message
	case errors.Is(err, store.ErrCorrupt):
		return CorruptModelMessage
	case errors.Is(err, store.ErrNotFound):
		return NotComputedMessage
	case errors.Is(err, ErrInsufficientData):
		return NoDataMessage
	case errors.Is(err, ErrInvalidModel):
		return InvalidModelMessage
	default:
		return err.Error()
	}
}

// ErrInvalidThreshold порог не является числом
var ErrInvalidThreshold = errors.New("threshold must be a number")
