package handler

import (
	"errors"
	"net/http"

	"github.com/damon-houk/cbr-currency-exporter/internal/application/service"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/domain/repository"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/format"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// SnapshotHandler handles HTTP requests for the snapshot archive
type SnapshotHandler struct {
	service *service.SnapshotService
	logger  logger.Logger
}

// NewSnapshotHandler creates a new snapshot handler
func NewSnapshotHandler(service *service.SnapshotService, log logger.Logger) *SnapshotHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &SnapshotHandler{
		service: service,
		logger:  log,
	}
}

// CaptureSnapshot handles POST /snapshots
func (h *SnapshotHandler) CaptureSnapshot(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	snapshot, err := h.service.Capture(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrEmptySnapshot) {
			sendErrorResponse(w, h.logger, "Upstream unavailable",
				"The rates source returned no records", http.StatusServiceUnavailable, requestID)
			return
		}
		h.logger.Error("Unexpected error in capture snapshot", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while storing the snapshot",
			http.StatusInternalServerError, requestID)
		return
	}

	writeJSON(w, http.StatusCreated, newSummaryResponse(snapshot.Summary()))
}

// ListSnapshots handles GET /snapshots
func (h *SnapshotHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	summaries, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("Unexpected error in list snapshots", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while listing snapshots",
			http.StatusInternalServerError, requestID)
		return
	}

	resp := make([]SnapshotSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, newSummaryResponse(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetSnapshot handles GET /snapshots/{id}
func (h *SnapshotHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, ok := h.find(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, SnapshotResponse{
		SnapshotSummaryResponse: newSummaryResponse(snapshot.Summary()),
		Records:                 snapshot.Records,
	})
}

// RenderSnapshot handles GET /snapshots/{id}.{format}
func (h *SnapshotHandler) RenderSnapshot(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	snapshot, ok := h.find(w, r)
	if !ok {
		return
	}

	a, err := format.New(mux.Vars(r)["format"], snapshot, logger.NewNullLogger())
	if err != nil {
		sendErrorResponse(w, h.logger, "Unknown format", err.Error(), http.StatusNotFound, requestID)
		return
	}

	writeRendered(r.Context(), w, h.logger, a, requestID)
}

// find loads the snapshot named in the URL, answering the error itself when it fails
func (h *SnapshotHandler) find(w http.ResponseWriter, r *http.Request) (*entity.Snapshot, bool) {
	requestID := middleware.GetRequestID(r.Context())
	id := mux.Vars(r)["id"]

	snapshot, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrSnapshotNotFound) {
			h.logger.Warn("Snapshot not found", map[string]interface{}{
				"request_id": requestID,
				"id":         id,
			})
			sendErrorResponse(w, h.logger, "Snapshot not found",
				"The requested snapshot could not be found", http.StatusNotFound, requestID)
			return nil, false
		}
		h.logger.Error("Unexpected error in get snapshot", map[string]interface{}{
			"request_id": requestID,
			"id":         id,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred while retrieving the snapshot",
			http.StatusInternalServerError, requestID)
		return nil, false
	}

	return snapshot, true
}

// RegisterRoutes registers the snapshot handler routes
func (h *SnapshotHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/snapshots", h.CaptureSnapshot).Methods("POST")
	router.HandleFunc("/snapshots", h.ListSnapshots).Methods("GET")
	router.HandleFunc("/snapshots/{id:[^./]+}.{format}", h.RenderSnapshot).Methods("GET")
	router.HandleFunc("/snapshots/{id:[^./]+}", h.GetSnapshot).Methods("GET")

	h.logger.Info("Snapshot routes registered", map[string]interface{}{
		"routes": []string{
			"POST /snapshots",
			"GET /snapshots",
			"GET /snapshots/{id}",
			"GET /snapshots/{id}.{format}",
		},
	})
}
