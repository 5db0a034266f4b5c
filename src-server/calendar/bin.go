package calendar

// Event is one sanitized booking as served by the proxy: date and times
// only, with the generic title standing in for whatever the reservation
// actually was.
type Event struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Title     string `json:"title"`
}

// EventsOn returns the events falling on (year, month, day) by exact date
// string match, preserving the input order among same-date events. No
// timezone normalization happens here; events are assumed to already use
// the same date representation the grid does.
func EventsOn(events []Event, year int, month int, day int) []Event {
	date := DateString(year, month, day)
	matched := make([]Event, 0)
	for _, event := range events {
		if event.Date == date {
			matched = append(matched, event)
		}
	}
	return matched
}

// Cell is one slot of the rendered month grid: either padding (Day == 0)
// before the 1st / after the last day, or a day with its bound events.
type Cell struct {
	Day    int
	Events []Event
}

// Cells lays out (year, month) as a padded 7-column grid with every event
// bound to its day. The result length is always a multiple of 7.
func Cells(year int, month int, events []Event) []Cell {
	grid := MonthOf(year, month)
	cells := make([]Cell, 0, grid.LeadingBlanks+grid.DaysInMonth+grid.TrailingBlanks)
	for range grid.LeadingBlanks {
		cells = append(cells, Cell{})
	}
	for day := 1; day <= grid.DaysInMonth; day++ {
		cells = append(cells, Cell{
			Day:    day,
			Events: EventsOn(events, year, month, day),
		})
	}
	for range grid.TrailingBlanks {
		cells = append(cells, Cell{})
	}
	return cells
}
