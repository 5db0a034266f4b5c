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

func TestServicesPassthrough(t *testing.T) {
	stub := newRPCStub(t, func(method string, params []json.RawMessage) (any, error) {
		switch method {
		case "getToken":
			return "public-token", nil
		case "getEventList":
			return map[string]any{
				"1": map[string]any{"id": "1", "name": "main hall rental", "duration": 120},
			}, nil
		default:
			t.Errorf("unexpected upstream method %q", method)
			return nil, errors.New("unexpected method")
		}
	})
	as := newTestAppState(t, nil)
	muxer := http.NewServeMux()
	route.Services(muxer, as, newTestClient(as, stub))

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/services", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var respBody struct {
		Ok   bool            `json:"ok"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &respBody); err != nil {
		t.Fatal(err)
	}
	if !respBody.Ok {
		t.Error("ok = false, want true")
	}
	// the upstream list passes through untouched
	if !strings.Contains(string(respBody.Data), "main hall rental") {
		t.Errorf("data lost the upstream payload: %s", respBody.Data)
	}
}

func TestServicesTidyVariant(t *testing.T) {
	stub := newRPCStub(t, func(method string, params []json.RawMessage) (any, error) {
		switch method {
		case "getToken":
			return "public-token", nil
		case "getEventList":
			return map[string]any{
				"2": map[string]any{"id": "2", "name": "  yoga class.", "duration": 60},
				"1": map[string]any{"id": "1", "name": "main hall rental", "duration": 120},
			}, nil
		default:
			t.Errorf("unexpected upstream method %q", method)
			return nil, errors.New("unexpected method")
		}
	})
	as := newTestAppState(t, nil)
	muxer := http.NewServeMux()
	route.Services(muxer, as, newTestClient(as, stub))

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/services?tidy=1", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200; body: %s", w.Code, w.Body.String())
	}

	var respBody struct {
		Ok   bool `json:"ok"`
		Data []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &respBody); err != nil {
		t.Fatal(err)
	}
	if !respBody.Ok {
		t.Error("ok = false, want true")
	}
	if len(respBody.Data) != 2 {
		t.Fatalf("got %d services, want 2: %s", len(respBody.Data), w.Body.String())
	}
	// names come back title-cased, trimmed and sorted
	if respBody.Data[0].Name != "Main Hall Rental" || respBody.Data[1].Name != "Yoga Class" {
		t.Errorf("names not tidied: %q, %q", respBody.Data[0].Name, respBody.Data[1].Name)
	}
}

func TestServicesUpstreamFailure(t *testing.T) {
	stub := newRPCStub(t, func(method string, params []json.RawMessage) (any, error) {
		return nil, errors.New("company was not found")
	})
	as := newTestAppState(t, nil)
	muxer := http.NewServeMux()
	route.Services(muxer, as, newTestClient(as, stub))

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/services", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", w.Code)
	}

	var respBody struct {
		Ok    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &respBody); err != nil {
		t.Fatal(err)
	}
	if respBody.Ok {
		t.Error("ok = true, want false")
	}
	if respBody.Error == "" {
		t.Error("error message is empty")
	}
	if strings.Contains(respBody.Error, "company was not found") {
		t.Errorf("upstream error detail leaked: %s", respBody.Error)
	}
}

func TestServicesMissingPublicCreds(t *testing.T) {
	stub := newRPCStub(t, func(method string, params []json.RawMessage) (any, error) {
		t.Errorf("no network call may happen on a configuration error, got %q", method)
		return nil, errors.New("unexpected call")
	})
	as := newTestAppState(t, map[string]string{"SIMPLYBOOK_API_KEY": ""})
	muxer := http.NewServeMux()
	route.Services(muxer, as, newTestClient(as, stub))

	w := httptest.NewRecorder()
	muxer.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/services", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500", w.Code)
	}
	if !strings.Contains(w.Body.String(), "SIMPLYBOOK_API_KEY") {
		t.Errorf("configuration error should name the missing var: %s", w.Body.String())
	}
	if stub.callCount() != 0 {
		t.Errorf("upstream saw %d calls, want 0", stub.callCount())
	}
}
