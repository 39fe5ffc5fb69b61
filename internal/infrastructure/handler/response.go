package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/damon-houk/cbr-currency-exporter/internal/domain/entity"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/format"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
)

var contentTypes = map[string]string{
	"yaml": "application/yaml; charset=utf-8",
	"json": "application/json; charset=utf-8",
	"csv":  "text/csv; charset=utf-8",
}

// recordRenderer is implemented by adapters that hand back records instead of text
type recordRenderer interface {
	Render(ctx context.Context) entity.RecordSet
}

// writeRendered renders one fresh fetch through a and writes it as the response body.
// A record renderer with nothing to render answers 204.
func writeRendered(ctx context.Context, w http.ResponseWriter, log logger.Logger, a format.Adapter, requestID string) {
	var body bytes.Buffer

	switch r := a.(type) {
	case format.TextRenderer:
		text, err := r.Render(ctx)
		if err != nil {
			log.Error("Failed to render records", map[string]interface{}{
				"request_id": requestID,
				"format":     a.Format(),
				"error":      err.Error(),
			})
			sendErrorResponse(w, log, "Internal server error",
				"The records could not be rendered", http.StatusInternalServerError, requestID)
			return
		}
		body.WriteString(text)
	case recordRenderer:
		records := r.Render(ctx)
		if len(records) == 0 {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := format.Encode(&body, records); err != nil {
			log.Error("Failed to encode records", map[string]interface{}{
				"request_id": requestID,
				"format":     a.Format(),
				"error":      err.Error(),
			})
			sendErrorResponse(w, log, "Internal server error",
				"The records could not be encoded", http.StatusInternalServerError, requestID)
			return
		}
	default:
		sendErrorResponse(w, log, "Unsupported format",
			"The format cannot be served over HTTP", http.StatusNotFound, requestID)
		return
	}

	w.Header().Set("Content-Type", contentTypes[a.Format()])
	_, _ = w.Write(body.Bytes())
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// sendErrorResponse sends a standardized error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, statusCode, ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	})
}
