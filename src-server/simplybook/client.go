package simplybook

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"hallsite/src-server/model"
	"hallsite/src-server/utils"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	PUBLIC_API_URL = "https://user-api.simplybook.me"
	ADMIN_API_URL  = "https://user-api.simplybook.me/admin"
	LOGIN_URL      = "https://user-api.simplybook.me/login"

	// upstream session tokens live for about an hour; keep the cache TTL
	// under that so we never hand out a token about to expire mid-call
	tokenCacheTTL = 50 * time.Minute
)

// Client talks JSON-RPC 2.0 to the SimplyBook API. The zero value is not
// usable; construct with NewClient.
type Client struct {
	as *utils.AppState

	// overridable so tests can point at a stub server
	PublicURL string
	AdminURL  string
	LoginURL  string
}

func NewClient(as *utils.AppState) *Client {
	return &Client{
		as:        as,
		PublicURL: PUBLIC_API_URL,
		AdminURL:  ADMIN_API_URL,
		LoginURL:  LOGIN_URL,
	}
}

// A required env var for an auth flow is missing. Caught before any network
// call is made.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return "missing env vars: " + strings.Join(e.Missing, ", ")
}

// The upstream JSON-RPC response carried an error member.
type RPCError struct {
	Method  string `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("upstream rpc error on %s: [%d] %s", e.Method, e.Code, e.Message)
}

type rpcRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error,omitempty"`
}

// PublicToken authenticates with the public API (company + API key) and
// returns a session token, hitting the token cache first.
func (c *Client) PublicToken(ctx context.Context) (string, error) {
	company := c.as.Config.GetSimplybookCompany()
	apiKey := c.as.Config.GetSimplybookApiKey()

	missing := []string{}
	if company == "" {
		missing = append(missing, "SIMPLYBOOK_COMPANY")
	}
	if apiKey == "" {
		missing = append(missing, "SIMPLYBOOK_API_KEY")
	}
	if len(missing) > 0 {
		return "", &ConfigError{Missing: missing}
	}

	return c.token(ctx,
		model.SESSION_TOKEN_KIND_PUBLIC,
		cacheKey(model.SESSION_TOKEN_KIND_PUBLIC, company, apiKey),
		"getToken",
		[]any{company, apiKey})
}

// AdminToken authenticates with the admin API (company + login + password);
// this is the flow that may read bookings with personal data in them.
func (c *Client) AdminToken(ctx context.Context) (string, error) {
	company := c.as.Config.GetSimplybookCompany()
	login := c.as.Config.GetSimplybookAdminLogin()
	password := c.as.Config.GetSimplybookAdminPassword()

	missing := []string{}
	if company == "" {
		missing = append(missing, "SIMPLYBOOK_COMPANY")
	}
	if login == "" {
		missing = append(missing, "SIMPLYBOOK_ADMIN_LOGIN")
	}
	if password == "" {
		missing = append(missing, "SIMPLYBOOK_ADMIN_PASSWORD")
	}
	if len(missing) > 0 {
		return "", &ConfigError{Missing: missing}
	}

	return c.token(ctx,
		model.SESSION_TOKEN_KIND_ADMIN,
		cacheKey(model.SESSION_TOKEN_KIND_ADMIN, company, login, password),
		"getUserToken",
		[]any{company, login, password})
}

func (c *Client) token(ctx context.Context, kind string, key string, method string, params []any) (string, error) {
	startTimer := time.Now()
	cached, err := model.GetFreshSessionToken(ctx, c.as.BunDB, key)
	if err != nil {
		// a broken cache shouldn't take the proxy down; re-auth instead
		slog.Warn("can't read session token cache", "kind", kind, "error", err)
	}
	select {
	case c.as.MetricChans.TokenCacheRead <- float64(time.Since(startTimer).Microseconds()):
	default:
	}
	if cached != "" {
		return cached, nil
	}

	var token string
	if err := c.do(ctx, c.LoginURL, nil, method, params, &token); err != nil {
		return "", fmt.Errorf("Client.token: %w", err)
	}
	if token == "" {
		return "", fmt.Errorf("Client.token: upstream returned an empty token for %s", method)
	}

	tokenModel := model.SessionToken{
		Key:              key,
		Kind:             kind,
		Token:            token,
		ExpiresAtUnixUTC: time.Now().UTC().Add(tokenCacheTTL).Unix(),
	}
	if err := tokenModel.Upsert(ctx, c.as.BunDB); err != nil {
		slog.Warn("can't cache session token", "kind", kind, "error", err)
	}

	return token, nil
}

// Call invokes a method on the public API.
func (c *Client) Call(ctx context.Context, method string, params []any, out any) error {
	token, err := c.PublicToken(ctx)
	if err != nil {
		return err
	}
	headers := map[string]string{
		"X-Company-Login": c.as.Config.GetSimplybookCompany(),
		"X-Token":         token,
	}
	return c.do(ctx, c.PublicURL, headers, method, params, out)
}

// AdminCall invokes a method on the admin API.
func (c *Client) AdminCall(ctx context.Context, method string, params []any, out any) error {
	token, err := c.AdminToken(ctx)
	if err != nil {
		return err
	}
	headers := map[string]string{
		"X-Company-Login": c.as.Config.GetSimplybookCompany(),
		"X-User-Token":    token,
	}
	return c.do(ctx, c.AdminURL, headers, method, params, out)
}

func (c *Client) do(ctx context.Context, url string, headers map[string]string, method string, params []any, out any) error {
	if params == nil {
		params = []any{}
	}
	reqBody, err := json.Marshal(rpcRequest{
		Jsonrpc: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return fmt.Errorf("Client.do: can't marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return fmt.Errorf("Client.do: can't create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	startTimer := time.Now()
	resp, err := c.as.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("Client.do: can't reach upstream: %w", err)
	}
	defer resp.Body.Close()
	select {
	case c.as.MetricChans.UpstreamRPC <- float64(time.Since(startTimer).Microseconds()):
	default:
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("Client.do: can't decode upstream response: %w", err)
	}
	if rpcResp.Error != nil {
		rpcResp.Error.Method = method
		return rpcResp.Error
	}

	if out != nil && rpcResp.Result != nil {
		if err := json.Unmarshal(rpcResp.Result, out); err != nil {
			return fmt.Errorf("Client.do: can't unmarshal result of %s: %w", method, err)
		}
	}
	return nil
}

func cacheKey(kind string, credentials ...string) string {
	h := sha256.New()
	for _, credential := range credentials {
		h.Write([]byte(credential))
		h.Write([]byte{0})
	}
	return kind + ":" + fmt.Sprintf("%x", h.Sum(nil))
}
