package handlers

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter настраивает маршруты API
func NewRouter(h *Handler, logger *zap.Logger) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/estimate", h.EstimateHandler).Methods(http.MethodPost)
	router.HandleFunc("/mode", h.ModeHandler).Methods(http.MethodGet)
	router.HandleFunc("/risk", h.RiskHandler).Methods(http.MethodGet)
	// сетка из 1000 точек хорошо сжимается
	router.Handle("/curve", gorillahandlers.CompressHandler(http.HandlerFunc(h.CurveHandler))).Methods(http.MethodGet)
	router.HandleFunc("/groups", h.GroupsHandler).Methods(http.MethodGet)
	router.HandleFunc("/health", h.HealthHandler).Methods(http.MethodGet)

	// Prometheus метрики
	router.Handle("/prometheus", promhttp.Handler())

	router.Use(Middleware(logger))

	return gorillahandlers.RecoveryHandler(gorillahandlers.PrintRecoveryStack(true))(router)
}
