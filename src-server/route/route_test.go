package route_test

import (
	"encoding/json"
	"fmt"
	"hallsite/src-server/model"
	"hallsite/src-server/simplybook"
	"hallsite/src-server/utils"
	"hallsite/src-server/widget"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
)

// newTestAppState builds an AppState from a throwaway env and working dir;
// overrides replace the default test credentials.
func newTestAppState(t *testing.T, overrides map[string]string) *utils.AppState {
	t.Helper()

	env := map[string]string{
		"STATIC_WEB_CLIENT_DIR":      t.TempDir(),
		"SIMPLYBOOK_COMPANY":         "testco",
		"SIMPLYBOOK_API_KEY":         "public-key",
		"SIMPLYBOOK_ADMIN_LOGIN":     "admin",
		"SIMPLYBOOK_ADMIN_PASSWORD":  "hunter2",
		"TIMEZONE":                   "UTC",
		"METRIC_COLLECTION_INTERVAL": "1m",
	}
	for key, value := range overrides {
		env[key] = value
	}
	for key, value := range env {
		t.Setenv(key, value)
	}

	// the sqlite file lands in a scratch working dir
	startDir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(startDir); err != nil {
			t.Error(err)
		}
	})

	as := utils.NewAppState()
	t.Cleanup(as.GracefulShutdown)
	if err := model.CreateSchema(as.BunDB); err != nil {
		t.Fatal(err)
	}
	return as
}

type rpcCall struct {
	Method string
	Params []json.RawMessage
}

// rpcStub plays the upstream JSON-RPC endpoint; handle returns the result
// (or an error code+message) per method and every call is recorded.
type rpcStub struct {
	server *httptest.Server

	mu    sync.Mutex
	calls []rpcCall

	handle func(method string, params []json.RawMessage) (any, error)
}

func newRPCStub(t *testing.T, handle func(method string, params []json.RawMessage) (any, error)) *rpcStub {
	t.Helper()
	stub := &rpcStub{handle: handle}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody struct {
			Jsonrpc string            `json:"jsonrpc"`
			Method  string            `json:"method"`
			Params  []json.RawMessage `json:"params"`
			ID      int               `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Errorf("stub got an undecodable request: %v", err)
			return
		}
		if reqBody.Jsonrpc != "2.0" {
			t.Errorf("stub got jsonrpc version %q, want 2.0", reqBody.Jsonrpc)
		}

		stub.mu.Lock()
		stub.calls = append(stub.calls, rpcCall{Method: reqBody.Method, Params: reqBody.Params})
		stub.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		result, err := stub.handle(reqBody.Method, reqBody.Params)
		if err != nil {
			fmt.Fprintf(w, `{"error":{"code":-32000,"message":%q}}`, err.Error())
			return
		}
		resultJson, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			t.Errorf("stub can't marshal result: %v", marshalErr)
			return
		}
		fmt.Fprintf(w, `{"result":%s}`, resultJson)
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *rpcStub) callsTo(method string) []rpcCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	matched := []rpcCall{}
	for _, call := range s.calls {
		if call.Method == method {
			matched = append(matched, call)
		}
	}
	return matched
}

func (s *rpcStub) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// newTestClient wires a simplybook client to the stub for all three
// endpoints.
func newTestClient(as *utils.AppState, stub *rpcStub) *simplybook.Client {
	sb := simplybook.NewClient(as)
	sb.PublicURL = stub.server.URL
	sb.AdminURL = stub.server.URL
	sb.LoginURL = stub.server.URL
	return sb
}

func newTestLoader(as *utils.AppState) *widget.Loader {
	return widget.NewLoader(as.Config.GetSimplybookCompany())
}
