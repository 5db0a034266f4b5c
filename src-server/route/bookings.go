package route

import (
	"encoding/json"
	"errors"
	"hallsite/src-server/calendar"
	"hallsite/src-server/simplybook"
	"hallsite/src-server/utils"
	"log/slog"
	"net/http"
	"strings"
)

// Every sanitized event carries this title; nothing about the underlying
// reservation may leak through the proxy.
const PRIVATE_EVENT_TITLE = "Private Event"

// Bookings exposes the month view of the upstream booking book, stripped of
// anything personal.
func Bookings(muxer *http.ServeMux, as *utils.AppState, sb *simplybook.Client) {
	type RespBody struct {
		Events []calendar.Event `json:"events"`
	}

	muxer.HandleFunc("GET /api/bookings", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			month := r.URL.Query().Get("month")
			year, monthIdx, err := calendar.ParseMonth(month)
			if err != nil {
				respondError(w, http.StatusBadRequest,
					"month query param required, e.g. ?month=2026-02")
				return
			}

			// the same day-count arithmetic the grid uses, so proxy and
			// view can never disagree about where a month ends
			startDate := calendar.DateString(year, monthIdx, 1)
			endDate := calendar.DateString(year, monthIdx, calendar.DaysInMonth(year, monthIdx))

			bookings, err := sb.GetBookings(r.Context(), startDate, endDate)
			if err != nil {
				var configErr *simplybook.ConfigError
				if errors.As(err, &configErr) {
					respondError(w, http.StatusInternalServerError, configErr.Error())
					return
				}
				// upstream detail stays in the log, not in the response
				slog.Error("can't fetch bookings", "month", month, "error", err)
				respondError(w, http.StatusInternalServerError,
					"can't fetch bookings from the scheduling service")
				return
			}

			events := make([]calendar.Event, 0, len(bookings))
			for _, booking := range bookings {
				events = append(events, SanitizeBooking(booking))
			}

			w.Header().Set("Content-Type", "application/json")
			// bound upstream call volume; ~90s staleness is acceptable here
			w.Header().Set("Cache-Control", "s-maxage=60, stale-while-revalidate=30")
			w.WriteHeader(http.StatusOK)
			if err := json.NewEncoder(w).Encode(RespBody{Events: events}); err != nil {
				slog.Error("can't encode bookings response", "error", err)
			}
		}))
}

// SanitizeBooking reduces an upstream reservation to its date and times plus
// the generic title. Client name, service name, booking id and everything
// else the admin API returns stops here.
func SanitizeBooking(booking simplybook.Booking) calendar.Event {
	date, startFromDate := splitDateTime(booking.StartDate)
	_, endFromDate := splitDateTime(booking.EndDate)

	startTime := booking.StartTime
	if startTime == "" {
		startTime = startFromDate
	}
	endTime := booking.EndTime
	if endTime == "" {
		endTime = endFromDate
	}

	return calendar.Event{
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		Title:     PRIVATE_EVENT_TITLE,
	}
}

// splitDateTime splits "YYYY-MM-DD HH:MM:SS" on the first space; either part
// may be empty when the upstream value is.
func splitDateTime(s string) (string, string) {
	date, timePart, found := strings.Cut(s, " ")
	if !found {
		return s, ""
	}
	return date, timePart
}
