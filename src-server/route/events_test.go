package route_test

import (
	"encoding/json"
	"errors"
	"hallsite/src-server/route"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEventsPageRendersBookings(t *testing.T) {
	stub := adminStub(t, []map[string]string{
		{
			"start_date": "2026-02-14 10:00:00",
			"end_date":   "2026-02-14 11:00:00",
			"client":     "Jane Doe",
			"event":      "Yoga",
		},
	})
	as := newTestAppState(t, nil)
	muxer := http.NewServeMux()
	route.Events(muxer, as, newTestClient(as, stub))

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?month=2026-02", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "February 2026") {
		t.Error("page is missing the month heading")
	}
	if !strings.Contains(body, "Private Event") {
		t.Error("page is missing the event badge")
	}
	// month navigation with year wrap on both edges of the year is covered
	// elsewhere; here the links just have to point at the neighbors
	if !strings.Contains(body, "/events?month=2026-01") || !strings.Contains(body, "/events?month=2026-03") {
		t.Error("page is missing the prev/next month links")
	}
	// the sanitized feed reaches the page; the raw booking never may
	for _, leaked := range []string{"Jane", "Yoga"} {
		if strings.Contains(body, leaked) {
			t.Errorf("page leaks %q", leaked)
		}
	}
}

func TestEventsPageFailSoft(t *testing.T) {
	stub := newRPCStub(t, func(method string, params []json.RawMessage) (any, error) {
		return nil, errors.New("upstream is down")
	})
	as := newTestAppState(t, nil)
	muxer := http.NewServeMux()
	route.Events(muxer, as, newTestClient(as, stub))

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?month=2026-02", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; the calendar always renders", w.Code)
	}
	if !strings.Contains(w.Body.String(), "February 2026") {
		t.Error("page is missing the month heading")
	}
	if strings.Contains(w.Body.String(), "Private Event") {
		t.Error("a failed fetch should render an empty grid")
	}
}

func TestEventsPageIgnoresMalformedMonth(t *testing.T) {
	stub := adminStub(t, []map[string]string{})
	as := newTestAppState(t, nil)
	muxer := http.NewServeMux()
	route.Events(muxer, as, newTestClient(as, stub))

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events?month=garbage", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	// falls back to the current month rather than erroring
	if !strings.Contains(w.Body.String(), "<table>") {
		t.Error("page did not render a calendar grid")
	}
}

func TestWidgetRoute(t *testing.T) {
	as := newTestAppState(t, nil)
	muxer := http.NewServeMux()
	route.Widget(muxer, as, newTestLoader(as))

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/widget", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	var respBody struct {
		Ok   bool `json:"ok"`
		Data struct {
			ScriptURL string `json:"scriptUrl"`
			HostedURL string `json:"hostedUrl"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &respBody); err != nil {
		t.Fatal(err)
	}
	if !respBody.Ok {
		t.Error("ok = false, want true")
	}
	if respBody.Data.HostedURL != "https://testco.simplybook.me" {
		t.Errorf("hostedUrl = %q", respBody.Data.HostedURL)
	}
	if respBody.Data.ScriptURL == "" {
		t.Error("scriptUrl is empty")
	}
}

func TestWidgetRouteUnconfigured(t *testing.T) {
	as := newTestAppState(t, map[string]string{"SIMPLYBOOK_COMPANY": ""})
	muxer := http.NewServeMux()
	route.Widget(muxer, as, newTestLoader(as))

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/widget", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "SIMPLYBOOK_COMPANY") {
		t.Errorf("error should name the missing var: %s", w.Body.String())
	}
}
