// Package handlers содержит HTTP обработчики для API
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"runaway-service/internal/analytics"
	"runaway-service/internal/dataset"
	"runaway-service/internal/metrics"
	"runaway-service/internal/models"
	"runaway-service/internal/store"
)

// Deps зависимости обработчиков
type Deps struct {
	Estimator *analytics.Estimator
	Engine    *analytics.RiskEngine
	Source    dataset.Source
	Store     store.ResultStore
	Workers   int
	Logger    *zap.Logger
}

// Handler содержит зависимости для HTTP обработчиков
type Handler struct {
	estimator *analytics.Estimator
	engine    *analytics.RiskEngine
	source    dataset.Source
	store     store.ResultStore
	workers   int
	logger    *zap.Logger
	startTime time.Time
}

// NewHandler создает новый обработчик
func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := deps.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Handler{
		estimator: deps.Estimator,
		engine:    deps.Engine,
		source:    deps.Source,
		store:     deps.Store,
		workers:   workers,
		logger:    logger,
		startTime: time.Now(),
	}
}

// EstimateHandler обрабатывает POST /estimate - оценка и сохранение модели
func (h *Handler) EstimateHandler(w http.ResponseWriter, r *http.Request) {
	var req models.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, "invalid request", "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.CellType) == "" || strings.TrimSpace(req.TriggerMechanism) == "" {
		h.respondError(w, "invalid request", "cell_type and trigger_mechanism are required", http.StatusBadRequest)
		return
	}

	records, ok := h.records(w)
	if !ok {
		return
	}

	start := time.Now()
	est, err := h.estimator.Run(r.Context(), records, req.CellType, req.TriggerMechanism)
	metrics.EstimationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		h.respondEstimationError(w, err)
		return
	}

	metrics.UpdateEstimationMetrics(est.Mode, est.Bandwidth, est.SampleSize)
	h.respondJSON(w, est.ModeEstimate, http.StatusOK)
}

// ModeHandler обрабатывает GET /mode - оценка моды без сохранения
func (h *Handler) ModeHandler(w http.ResponseWriter, r *http.Request) {
	cellType := r.URL.Query().Get("cell_type")
	trigger := r.URL.Query().Get("trigger_mechanism")
	if cellType == "" || trigger == "" {
		h.respondError(w, "invalid request", "cell_type and trigger_mechanism are required", http.StatusBadRequest)
		return
	}

	records, ok := h.records(w)
	if !ok {
		return
	}

	start := time.Now()
	estimate, err := h.estimator.ComputeModeEstimate(records, cellType, trigger)
	metrics.EstimationLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		h.respondEstimationError(w, err)
		return
	}

	metrics.EstimationsTotal.WithLabelValues("ok").Inc()
	h.respondJSON(w, estimate, http.StatusOK)
}

// RiskHandler обрабатывает GET /risk?threshold= - вероятность превышения порога
func (h *Handler) RiskHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("threshold")
	threshold, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(threshold) {
		h.respondError(w, "invalid request", "threshold must be a number", http.StatusBadRequest)
		return
	}

	assessment, err := h.engine.AssessRisk(r.Context(), threshold)
	if err != nil {
		h.respondQueryError(w, err)
		return
	}

	metrics.RiskQueriesTotal.WithLabelValues(string(assessment.Tier)).Inc()
	h.respondJSON(w, assessment, http.StatusOK)
}

// CurveHandler обрабатывает GET /curve - плотность на сохраненной сетке
func (h *Handler) CurveHandler(w http.ResponseWriter, r *http.Request) {
	curve, err := h.engine.Curve(r.Context())
	if err != nil {
		h.respondQueryError(w, err)
		return
	}
	h.respondJSON(w, curve, http.StatusOK)
}

// GroupsHandler обрабатывает GET /groups - сводка по всем парам датасета
func (h *Handler) GroupsHandler(w http.ResponseWriter, r *http.Request) {
	records, ok := h.records(w)
	if !ok {
		return
	}

	summaries, err := h.estimator.Survey(r.Context(), records, h.workers)
	if err != nil {
		h.respondError(w, "survey failed", err.Error(), http.StatusInternalServerError)
		return
	}

	metrics.ActiveGoroutines.Set(float64(runtime.NumGoroutine()))
	h.respondJSON(w, summaries, http.StatusOK)
}

// HealthHandler обрабатывает GET /health - проверка здоровья
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	storeStatus := "unknown"
	if p, ok := h.store.(interface{ Ping(context.Context) error }); ok {
		storeStatus = "connected"
		if err := p.Ping(ctx); err != nil {
			storeStatus = "disconnected"
		}
	}

	modelStatus := "ready"
	if _, _, err := h.engine.LoadModel(ctx); err != nil {
		modelStatus = analytics.UserMessage(err)
	}

	status := models.HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Store:     storeStatus,
		Model:     modelStatus,
		Uptime:    time.Since(h.startTime).String(),
	}

	h.respondJSON(w, status, http.StatusOK)
}

func (h *Handler) records(w http.ResponseWriter) ([]models.EventRecord, bool) {
	records, err := h.source.Records()
	if err != nil {
		h.logger.Error("failed to load dataset", zap.Error(err))
		h.respondError(w, "dataset unavailable", err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return records, true
}

func (h *Handler) respondEstimationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, analytics.ErrInsufficientData):
		metrics.EstimationsTotal.WithLabelValues("no_data").Inc()
		h.respondError(w, "no data", analytics.UserMessage(err), http.StatusNotFound)
	case errors.Is(err, analytics.ErrInvalidModel):
		metrics.EstimationsTotal.WithLabelValues("invalid_model").Inc()
		h.respondError(w, "invalid model", analytics.UserMessage(err), http.StatusUnprocessableEntity)
	default:
		metrics.EstimationsTotal.WithLabelValues("error").Inc()
		h.logger.Error("estimation failed", zap.Error(err))
		h.respondError(w, "estimation failed", err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) respondQueryError(w http.ResponseWriter, err error) {
	var stored *analytics.StoredError
	switch {
	case errors.As(err, &stored):
		metrics.ModelUnavailable.WithLabelValues("error_status").Inc()
	case errors.Is(err, store.ErrNotFound):
		metrics.ModelUnavailable.WithLabelValues("not_found").Inc()
	case errors.Is(err, store.ErrCorrupt):
		metrics.ModelUnavailable.WithLabelValues("corrupt").Inc()
	case errors.Is(err, analytics.ErrNoModelAvailable):
		metrics.ModelUnavailable.WithLabelValues("unavailable").Inc()
	default:
		h.logger.Error("query failed", zap.Error(err))
		h.respondError(w, "query failed", err.Error(), http.StatusInternalServerError)
		return
	}
	h.respondError(w, "no model available", analytics.UserMessage(err), http.StatusServiceUnavailable)
}

// respondJSON отправляет JSON ответ
func (h *Handler) respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

// respondError отправляет ошибку в JSON формате
func (h *Handler) respondError(w http.ResponseWriter, code, message string, status int) {
	h.respondJSON(w, models.ErrorResponse{Error: code, Message: message}, status)
}
