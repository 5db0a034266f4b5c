package route

import (
	"encoding/json"
	"hallsite/src-server/utils"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// LogMiddleware tags every request with an id, logs it and feeds the request
// latency metric.
func LogMiddleware(as *utils.AppState, next func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		startTimer := time.Now()

		next(w, r)

		elapsed := time.Since(startTimer)
		select {
		case as.MetricChans.HttpRequest <- float64(elapsed.Microseconds()):
		default:
		}
		slog.Debug("http request",
			"id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", elapsed)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		slog.Error("can't encode error response", "error", err)
	}
}
