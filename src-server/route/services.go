package route

import (
	"encoding/json"
	"errors"
	"hallsite/src-server/simplybook"
	"hallsite/src-server/utils"
	"log/slog"
	"net/http"
)

// Services proxies the upstream service-category list so the public API key
// never reaches the browser. ?tidy=1 serves the list with display-ready
// names instead of the raw passthrough.
func Services(muxer *http.ServeMux, as *utils.AppState, sb *simplybook.Client) {
	type RespBody struct {
		Ok    bool            `json:"ok"`
		Data  json.RawMessage `json:"data,omitempty"`
		Error string          `json:"error,omitempty"`
	}

	respond := func(w http.ResponseWriter, status int, body RespBody) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("can't encode services response", "error", err)
		}
	}

	muxer.HandleFunc("GET /api/services", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("tidy") == "1" {
				services, err := sb.GetServices(r.Context())
				if err != nil {
					var configErr *simplybook.ConfigError
					if errors.As(err, &configErr) {
						respond(w, http.StatusInternalServerError, RespBody{
							Ok:    false,
							Error: configErr.Error(),
						})
						return
					}
					slog.Error("can't fetch service list", "error", err)
					respond(w, http.StatusInternalServerError, RespBody{
						Ok:    false,
						Error: "can't fetch services from the scheduling service",
					})
					return
				}
				servicesJson, err := json.Marshal(services)
				if err != nil {
					slog.Error("can't marshal service list", "error", err)
					respond(w, http.StatusInternalServerError, RespBody{
						Ok:    false,
						Error: "can't fetch services from the scheduling service",
					})
					return
				}
				respond(w, http.StatusOK, RespBody{Ok: true, Data: servicesJson})
				return
			}

			data, err := sb.GetEventList(r.Context())
			if err != nil {
				var configErr *simplybook.ConfigError
				if errors.As(err, &configErr) {
					respond(w, http.StatusInternalServerError, RespBody{
						Ok:    false,
						Error: configErr.Error(),
					})
					return
				}
				slog.Error("can't fetch service list", "error", err)
				respond(w, http.StatusInternalServerError, RespBody{
					Ok:    false,
					Error: "can't fetch services from the scheduling service",
				})
				return
			}

			respond(w, http.StatusOK, RespBody{Ok: true, Data: data})
		}))
}
