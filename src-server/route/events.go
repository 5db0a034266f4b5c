package route

import (
	"context"
	"hallsite/src-server/calendar"
	"hallsite/src-server/simplybook"
	"hallsite/src-server/utils"
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

var monthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var dayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// monthFetcher feeds the calendar view straight from the upstream client,
// applying the same sanitization the /api/bookings route does.
type monthFetcher struct {
	sb *simplybook.Client
}

func (f *monthFetcher) FetchMonth(ctx context.Context, year int, month int) ([]calendar.Event, error) {
	startDate := calendar.DateString(year, month, 1)
	endDate := calendar.DateString(year, month, calendar.DaysInMonth(year, month))

	bookings, err := f.sb.GetBookings(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	events := make([]calendar.Event, 0, len(bookings))
	for _, booking := range bookings {
		events = append(events, SanitizeBooking(booking))
	}
	return events, nil
}

// Events serves the server-rendered month calendar of the hall's bookings.
func Events(muxer *http.ServeMux, as *utils.AppState, sb *simplybook.Client) {
	tmpl := template.Must(template.New("events").Parse(eventsPageTemplate))

	type CellData struct {
		Day     int
		Events  []calendar.Event
		IsToday bool
	}
	type PageData struct {
		MonthName string
		Year      int
		PrevMonth string
		NextMonth string
		DayLabels []string
		Weeks     [][]CellData
	}

	muxer.HandleFunc("GET /events", LogMiddleware(as,
		func(w http.ResponseWriter, r *http.Request) {
			now := time.Now().In(as.Config.GetLocation())
			year, month := now.Year(), int(now.Month())-1

			// a malformed month param falls back to the current month
			// rather than erroring the whole page
			if monthParam := r.URL.Query().Get("month"); monthParam != "" {
				if parsedYear, parsedMonth, err := calendar.ParseMonth(monthParam); err == nil {
					year, month = parsedYear, parsedMonth
				}
			}

			view := calendar.NewView(&monthFetcher{sb: sb}, year, month)
			view.Refresh(r.Context())
			cells := view.Cells()

			isToday := func(day int) bool {
				return day == now.Day() &&
					month == int(now.Month())-1 &&
					year == now.Year()
			}

			weeks := make([][]CellData, 0, len(cells)/7)
			for i := 0; i < len(cells); i += 7 {
				week := make([]CellData, 0, 7)
				for _, cell := range cells[i : i+7] {
					week = append(week, CellData{
						Day:     cell.Day,
						Events:  cell.Events,
						IsToday: cell.Day != 0 && isToday(cell.Day),
					})
				}
				weeks = append(weeks, week)
			}

			prevYear, prevMonth := calendar.PrevMonth(year, month)
			nextYear, nextMonth := calendar.NextMonth(year, month)

			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := tmpl.Execute(w, PageData{
				MonthName: monthNames[month],
				Year:      year,
				PrevMonth: calendar.FormatMonth(prevYear, prevMonth),
				NextMonth: calendar.FormatMonth(nextYear, nextMonth),
				DayLabels: dayLabels[:],
				Weeks:     weeks,
			}); err != nil {
				slog.Error("can't render events page", "error", err)
			}
		}))
}

const eventsPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Events — {{.MonthName}} {{.Year}}</title>
<style>
body{font-family:system-ui,sans-serif;margin:2rem auto;max-width:64rem;color:#374151}
.nav{display:flex;align-items:center;justify-content:space-between;margin-bottom:1rem}
.nav a{border:1px solid #d1d5db;border-radius:.375rem;padding:.4rem .85rem;font-size:1.5rem;text-decoration:none;color:#374151}
.nav span{font-size:1.5rem;font-weight:600;color:#111827}
table{width:100%;border-collapse:collapse;table-layout:fixed}
th{font-size:.9rem;font-weight:600;color:#6b7280;padding:.5rem 0}
td{border:1px solid #e5e7eb;height:6rem;vertical-align:top;padding:.4rem}
td.blank{background:#f3f4f6}
td.today{background:#eff6ff}
td.today .day{color:#2563eb;font-weight:700}
.event{display:block;margin-top:.25rem;font-size:.75rem;background:#dbeafe;border-radius:.25rem;padding:.1rem .3rem;overflow:hidden;white-space:nowrap;text-overflow:ellipsis}
</style>
</head>
<body>
<div class="nav">
<a href="/events?month={{.PrevMonth}}" aria-label="Previous month">&lsaquo;</a>
<span>{{.MonthName}} {{.Year}}</span>
<a href="/events?month={{.NextMonth}}" aria-label="Next month">&rsaquo;</a>
</div>
<table>
<thead><tr>{{range .DayLabels}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Weeks}}<tr>
{{range .}}{{if eq .Day 0}}<td class="blank"></td>{{else}}<td{{if .IsToday}} class="today"{{end}}><span class="day">{{.Day}}</span>
{{range .Events}}<span class="event">{{.Title}}{{if .StartTime}} {{.StartTime}}{{end}}</span>{{end}}</td>{{end}}
{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`
