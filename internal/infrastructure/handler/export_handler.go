// Package handler serves rendered exchange rates and the snapshot archive over HTTP
package handler

import (
	"errors"
	"net/http"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/format"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// ExportHandler renders live records in any registered format
type ExportHandler struct {
	provider service.RecordProvider
	logger   logger.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(provider service.RecordProvider, log logger.Logger) *ExportHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExportHandler{
		provider: provider,
		logger:   log,
	}
}

// GetCurrencies handles GET /currencies.{format}
func (h *ExportHandler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	name := mux.Vars(r)["format"]

	h.logger.Info("Handling currencies request", map[string]interface{}{
		"request_id": requestID,
		"format":     name,
	})

	// the adapter logger only matters for Persist, which is never called here
	a, err := format.New(name, h.provider, logger.NewNullLogger())
	if err != nil {
		if errors.Is(err, format.ErrUnknownFormat) {
			sendErrorResponse(w, h.logger, "Unknown format",
				err.Error(), http.StatusNotFound, requestID)
			return
		}
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred", http.StatusInternalServerError, requestID)
		return
	}

	writeRendered(r.Context(), w, h.logger, a, requestID)
}

// RegisterRoutes registers the export handler routes
func (h *ExportHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/currencies.{format}", h.GetCurrencies).Methods("GET")

	h.logger.Info("Export routes registered", map[string]interface{}{
		"routes": []string{
			"GET /currencies.{format}",
		},
	})
}
