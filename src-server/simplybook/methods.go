package simplybook

import (
	"context"
	"encoding/json"
	"fmt"
	"hallsite/src-server/utils"
	"sort"
)

// One upstream reservation, exactly as the admin API returns it. This struct
// never crosses the HTTP boundary; routes strip it down before responding.
type Booking struct {
	ID        string `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Event     string `json:"event"`
	Client    string `json:"client"`
	Status    string `json:"status"`
}

// One bookable service from getEventList.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
}

// GetEventList returns the raw service-category list; /api/services passes
// it through untouched.
func (c *Client) GetEventList(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Call(ctx, "getEventList", []any{}, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// GetServices returns the bookable services with tidied display names,
// sorted by name; the booking page renders these.
func (c *Client) GetServices(ctx context.Context) ([]Service, error) {
	services := make(map[string]Service)
	if err := c.Call(ctx, "getEventList", []any{}, &services); err != nil {
		return nil, err
	}

	out := make([]Service, 0, len(services))
	for id, service := range services {
		if service.ID == "" {
			service.ID = id
		}
		service.Name = utils.CleanupString(service.Name)
		out = append(out, service)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetStartTimeMatrix returns the available start times per date in
// [from, to] for one service, keyed by "YYYY-MM-DD".
func (c *Client) GetStartTimeMatrix(ctx context.Context, from string, to string, eventID int64, unitID int64) (map[string][]string, error) {
	matrix := make(map[string][]string)
	if err := c.Call(ctx, "getStartTimeMatrix", []any{from, to, eventID, unitID, 1}, &matrix); err != nil {
		return nil, fmt.Errorf("Client.GetStartTimeMatrix: %w", err)
	}
	return matrix, nil
}

// Book creates a booking for the given service/performer/slot.
func (c *Client) Book(ctx context.Context, eventID int64, unitID int64, date string, time string, client map[string]string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.Call(ctx, "book", []any{eventID, unitID, date, time, client}, &raw); err != nil {
		return nil, fmt.Errorf("Client.Book: %w", err)
	}
	return raw, nil
}

// GetBookings returns all non-cancelled bookings whose start date falls in
// [from, to]. Requires the admin auth flow.
func (c *Client) GetBookings(ctx context.Context, from string, to string) ([]Booking, error) {
	bookings := make([]Booking, 0)
	if err := c.AdminCall(ctx, "getBookings", []any{map[string]any{
		"date_from":    from,
		"date_to":      to,
		"booking_type": "non_cancelled",
	}}, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
