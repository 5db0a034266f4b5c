package calendar

import (
	"context"
	"log/slog"
	"sync"
)

// Fetcher loads the sanitized events of one month; the booking proxy is the
// production implementation.
type Fetcher interface {
	FetchMonth(ctx context.Context, year int, month int) ([]Event, error)
}

// View holds the state behind a rendered month calendar: the visible month,
// its events and whether a fetch is outstanding. Month navigation kicks off
// a new fetch; a generation counter makes sure a slow response for a month
// the user already navigated away from can never clobber the current one.
type View struct {
	mu      sync.Mutex
	fetcher Fetcher

	year       int
	month      int
	events     []Event
	isLoading  bool
	generation uint64
}

func NewView(fetcher Fetcher, year int, month int) *View {
	return &View{
		fetcher: fetcher,
		year:    year,
		month:   month,
		events:  make([]Event, 0),
	}
}

// SetMonth switches the visible month and fetches its events in the
// background.
func (v *View) SetMonth(ctx context.Context, year int, month int) {
	generation, _, _ := v.beginFetch(year, month)
	go v.fetch(ctx, generation, year, month)
}

func (v *View) PrevMonth(ctx context.Context) {
	v.mu.Lock()
	year, month := PrevMonth(v.year, v.month)
	v.mu.Unlock()
	v.SetMonth(ctx, year, month)
}

func (v *View) NextMonth(ctx context.Context) {
	v.mu.Lock()
	year, month := NextMonth(v.year, v.month)
	v.mu.Unlock()
	v.SetMonth(ctx, year, month)
}

// Refresh is the synchronous form of SetMonth for callers that render
// immediately afterwards, like the server-side events page.
func (v *View) Refresh(ctx context.Context) {
	generation, year, month := v.beginFetch(v.Year())
	v.fetch(ctx, generation, year, month)
}

func (v *View) beginFetch(year int, month int) (uint64, int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.year = year
	v.month = month
	v.generation++
	v.isLoading = true
	return v.generation, year, month
}

func (v *View) fetch(ctx context.Context, generation uint64, year int, month int) {
	events, err := v.fetcher.FetchMonth(ctx, year, month)
	if err != nil {
		// fail-soft: the grid still renders, just without event badges
		slog.Warn("can't fetch events for month", "year", year, "month", month, "error", err)
		events = nil
	}
	if events == nil {
		events = make([]Event, 0)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.generation != generation {
		// a newer month was requested while this fetch was in flight
		return
	}
	v.events = events
	v.isLoading = false
}

// Year returns the visible (year, month) pair.
func (v *View) Year() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.year, v.month
}

// Snapshot returns a copy of the full view state.
func (v *View) Snapshot() (int, int, []Event, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	events := make([]Event, len(v.events))
	copy(events, v.events)
	return v.year, v.month, events, v.isLoading
}

// Cells lays out the visible month with its events bound per day.
func (v *View) Cells() []Cell {
	year, month, events, _ := v.Snapshot()
	return Cells(year, month, events)
}
