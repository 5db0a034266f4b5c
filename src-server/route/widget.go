package route

import (
	"encoding/json"
	"hallsite/src-server/utils"
	"hallsite/src-server/widget"
	"log/slog"
	"net/http"
)

// Widget hands the booking page its embed config for the external booking
// overlay, so the page itself stays free of configuration.
func Widget(muxer *http.ServeMux, as *utils.AppState, loader *widget.Loader) {
	type RespBody struct {
		Ok    bool           `json:"ok"`
		Data  *widget.Widget `json:"data,omitempty"`
		Error string         `json:"error,omitempty"`
	}

	muxer.HandleFunc("GET /api/widget", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")

			handle, err := loader.Resolve()
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				if err := json.NewEncoder(w).Encode(RespBody{Ok: false, Error: err.Error()}); err != nil {
					slog.Error("can't encode widget response", "error", err)
				}
				return
			}

			w.WriteHeader(http.StatusOK)
			if err := json.NewEncoder(w).Encode(RespBody{Ok: true, Data: handle}); err != nil {
				slog.Error("can't encode widget response", "error", err)
			}
		}))
}
