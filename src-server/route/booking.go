package route

import (
	"encoding/json"
	"errors"
	"hallsite/src-server/simplybook"
	"hallsite/src-server/utils"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
var timeRegex = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)

// Booking proxies the slot-availability lookup and the booking call itself,
// keeping the public API key server-side.
func Booking(muxer *http.ServeMux, as *utils.AppState, sb *simplybook.Client) {
	type RespBody struct {
		Ok    bool   `json:"ok"`
		Data  any    `json:"data,omitempty"`
		Error string `json:"error,omitempty"`
	}

	respond := func(w http.ResponseWriter, status int, body RespBody) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("can't encode booking response", "error", err)
		}
	}

	upstreamFailure := func(w http.ResponseWriter, err error, what string) {
		var configErr *simplybook.ConfigError
		if errors.As(err, &configErr) {
			respond(w, http.StatusInternalServerError, RespBody{
				Ok:    false,
				Error: configErr.Error(),
			})
			return
		}
		slog.Error("can't reach scheduling service", "what", what, "error", err)
		respond(w, http.StatusInternalServerError, RespBody{
			Ok:    false,
			Error: "can't reach the scheduling service",
		})
	}

	// available start times per day for one service in a date range
	muxer.HandleFunc("GET /api/availability", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			from := r.URL.Query().Get("from")
			to := r.URL.Query().Get("to")
			if !dateRegex.MatchString(from) || !dateRegex.MatchString(to) {
				respond(w, http.StatusBadRequest, RespBody{
					Ok:    false,
					Error: "from and to query params required, e.g. ?from=2026-02-01&to=2026-02-28",
				})
				return
			}

			serviceID, err := strconv.ParseInt(r.URL.Query().Get("service"), 10, 64)
			if err != nil {
				respond(w, http.StatusBadRequest, RespBody{
					Ok:    false,
					Error: "service query param must be a numeric service id",
				})
				return
			}
			performerID := int64(0)
			if performer := r.URL.Query().Get("performer"); performer != "" {
				performerID, err = strconv.ParseInt(performer, 10, 64)
				if err != nil {
					respond(w, http.StatusBadRequest, RespBody{
						Ok:    false,
						Error: "performer query param must be a numeric performer id",
					})
					return
				}
			}

			matrix, err := sb.GetStartTimeMatrix(r.Context(), from, to, serviceID, performerID)
			if err != nil {
				upstreamFailure(w, err, "availability")
				return
			}
			respond(w, http.StatusOK, RespBody{Ok: true, Data: matrix})
		}))

	type BookReqBody struct {
		ServiceID   int64  `json:"serviceId"`
		PerformerID int64  `json:"performerId"`
		Date        string `json:"date"`
		Time        string `json:"time"`
		Client      struct {
			Name  string `json:"name"`
			Email string `json:"email"`
			Phone string `json:"phone"`
		} `json:"client"`
	}

	muxer.HandleFunc("POST /api/book", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			var reqBody BookReqBody
			if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
				respond(w, http.StatusBadRequest, RespBody{
					Ok:    false,
					Error: "invalid request body",
				})
				return
			}
			switch {
			case reqBody.ServiceID == 0:
				respond(w, http.StatusBadRequest, RespBody{Ok: false, Error: "serviceId is required"})
				return
			case !dateRegex.MatchString(reqBody.Date):
				respond(w, http.StatusBadRequest, RespBody{Ok: false, Error: "date must be YYYY-MM-DD"})
				return
			case !timeRegex.MatchString(reqBody.Time):
				respond(w, http.StatusBadRequest, RespBody{Ok: false, Error: "time must be HH:MM or HH:MM:SS"})
				return
			case reqBody.Client.Name == "" || reqBody.Client.Email == "":
				respond(w, http.StatusBadRequest, RespBody{Ok: false, Error: "client name and email are required"})
				return
			}

			result, err := sb.Book(r.Context(),
				reqBody.ServiceID, reqBody.PerformerID,
				reqBody.Date, reqBody.Time,
				map[string]string{
					"name":  reqBody.Client.Name,
					"email": reqBody.Client.Email,
					"phone": reqBody.Client.Phone,
				})
			if err != nil {
				upstreamFailure(w, err, "book")
				return
			}
			respond(w, http.StatusOK, RespBody{Ok: true, Data: result})
		}))
}
