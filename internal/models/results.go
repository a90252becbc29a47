package models

import "time"

// Status статус сохраненного результата оценки
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// PersistedResult минимальный набор параметров для восстановления KDE без исходного датасета.
// Формат полей совпадает с файлом trigger_temp_results.json.
type PersistedResult struct {
	Status       Status    `json:"status" yaml:"status"`
	Message      string    `json:"message,omitempty" yaml:"message,omitempty"`
	Temperatures []float64 `json:"temperatures,omitempty" yaml:"temperatures,omitempty"`
	Bandwidth    float64   `json:"bandwidth,omitempty" yaml:"bandwidth,omitempty"`
	TempRange    []float64 `json:"temp_range,omitempty" yaml:"temp_range,omitempty"`
}

// Tier уровень риска, вычисляемый из вероятности превышения порога
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
)

// RiskAssessment результат запроса риска. Не сохраняется.
type RiskAssessment struct {
	Threshold   float64 `json:"threshold" yaml:"threshold"`
	Probability float64 `json:"probability" yaml:"probability"`
	Tier        Tier    `json:"tier" yaml:"tier"`
}

// ModeEstimate наиболее вероятная температура срабатывания для пары (ячейка, механизм)
type ModeEstimate struct {
	CellType         string    `json:"cell_type" yaml:"cell_type"`
	TriggerMechanism string    `json:"trigger_mechanism" yaml:"trigger_mechanism"`
	Mode             float64   `json:"mode" yaml:"mode"`
	SampleSize       int       `json:"sample_size" yaml:"sample_size"`
	Bandwidth        float64   `json:"bandwidth" yaml:"bandwidth"`
	Temperatures     []float64 `json:"temperatures,omitempty" yaml:"temperatures,omitempty"`
	Message          string    `json:"message" yaml:"message"`
}

// Curve сетка температур и значения плотности на ней
type Curve struct {
	TempRange []float64 `json:"temp_range" yaml:"temp_range"`
	Density   []float64 `json:"density" yaml:"density"`
}

// GroupSummary сводка по одной паре (ячейка, механизм) из датасета
type GroupSummary struct {
	GroupKey   `yaml:",inline"`
	SampleSize int      `json:"sample_size" yaml:"sample_size"`
	Mode       *float64 `json:"mode,omitempty" yaml:"mode,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

// EstimateRequest тело запроса POST /estimate
type EstimateRequest struct {
	CellType         string `json:"cell_type"`
	TriggerMechanism string `json:"trigger_mechanism"`
}

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// HealthStatus представляет статус здоровья сервиса
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Store     string    `json:"store"`
	Model     string    `json:"model"`
	Uptime    string    `json:"uptime"`
}
