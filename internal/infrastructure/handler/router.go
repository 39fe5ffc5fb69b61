package handler

import (
	"fmt"
	"net/http"

	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/logger"
	"github.com/damon-houk/cbr-currency-exporter/internal/infrastructure/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// RouterConfig holds what NewRouter wires together. Nil handlers are skipped.
type RouterConfig struct {
	Export         *ExportHandler
	Snapshots      *SnapshotHandler
	Metrics        http.Handler
	AllowedOrigins []string
	Logger         logger.Logger
}

// NewRouter builds the server's handler chain
func NewRouter(cfg RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	router := mux.NewRouter()
	router.Use(middleware.MetricsMiddleware)
	router.NotFoundHandler = middleware.MetricsMiddleware(routeError(log, http.StatusNotFound,
		"Not found", "No route matches the request"))
	router.MethodNotAllowedHandler = middleware.MetricsMiddleware(routeError(log, http.StatusMethodNotAllowed,
		"Method not allowed", "The route does not support this method"))

	if cfg.Export != nil {
		cfg.Export.RegisterRoutes(router)
	}
	if cfg.Snapshots != nil {
		cfg.Snapshots.RegisterRoutes(router)
	}
	if cfg.Metrics != nil {
		router.Handle("/metrics", cfg.Metrics).Methods("GET")
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	var h http.Handler = router
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{log}))(h)
	h = middleware.LoggingMiddleware(log)(h)
	h = middleware.RequestIDMiddleware(h)
	h = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Request-ID"}),
	)(h)

	return h
}

// routeError answers requests the router could not dispatch
func routeError(log logger.Logger, statusCode int, message, description string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sendErrorResponse(w, log, message, description, statusCode, middleware.GetRequestID(r.Context()))
	})
}

// recoveryLogger adapts Logger to the handlers.RecoveryHandlerLogger interface
type recoveryLogger struct {
	log logger.Logger
}

func (l recoveryLogger) Println(v ...interface{}) {
	l.log.Error("Recovered from panic", map[string]interface{}{
		"panic": fmt.Sprint(v...),
	})
}
