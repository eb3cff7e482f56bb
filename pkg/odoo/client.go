// Package odoo implements the JSON-RPC transport for creating contacts
// and opportunities in an Odoo CRM. Reference-field resolution against
// the remote instance (country, state, UTM records) lives here, on the
// transport side of the pipeline boundary; the core only ever ships
// human-readable labels.
package odoo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/leadwise/lead-engine/pkg/retry"
)

// Config identifies one Odoo instance and account.
type Config struct {
	URL      string `json:"url"`
	Database string `json:"database"`
	Username string `json:"username"`
	APIKey   string `json:"apiKey"`
}

// Client is a minimal Odoo JSON-RPC 2.0 client.
type Client struct {
	httpClient *http.Client
	retryCfg   *retry.Config
	logger     *zap.Logger
}

// NewClient creates a new Odoo client.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retryCfg:   retry.DefaultConfig(),
		logger:     logger.Named("odoo"),
	}
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcError struct {
	Message string `json:"message"`
	Data    struct {
		Message string `json:"message"`
	} `json:"data"`
}

func (e *rpcError) text() string {
	if e.Data.Message != "" {
		return e.Data.Message
	}
	if e.Message != "" {
		return e.Message
	}
	return "Odoo call failed"
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call performs one JSON-RPC round-trip, retrying transient transport
// failures. RPC-level errors are not retried.
func (c *Client) call(ctx context.Context, baseURL, service, method string, args []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      time.Now().UnixMilli(),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/jsonrpc"

	var parsed rpcResponse
	err = retry.Do(ctx, c.retryCfg, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("post %s/%s: %w", service, method, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return fmt.Errorf("post %s/%s: HTTP %d", service, method, resp.StatusCode)
		}

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		parsed = rpcResponse{}
		if err := json.Unmarshal(payload, &parsed); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if parsed.Error != nil {
		return nil, fmt.Errorf("%s", parsed.Error.text())
	}
	return parsed.Result, nil
}

// Authenticate resolves the numeric user id for the configured account.
func (c *Client) Authenticate(ctx context.Context, cfg *Config) (int64, error) {
	result, err := c.call(ctx, cfg.URL, "common", "authenticate",
		[]any{cfg.Database, cfg.Username, cfg.APIKey, map[string]any{}})
	if err != nil {
		return 0, fmt.Errorf("authenticate: %w", err)
	}

	var uid int64
	if err := json.Unmarshal(result, &uid); err != nil || uid == 0 {
		return 0, fmt.Errorf("authenticate: invalid credentials")
	}
	return uid, nil
}

// ExecuteKw invokes model.method via the object service.
func (c *Client) ExecuteKw(ctx context.Context, cfg *Config, uid int64, model, method string, args []any, kwargs map[string]any) (json.RawMessage, error) {
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	result, err := c.call(ctx, cfg.URL, "object", "execute_kw",
		[]any{cfg.Database, uid, cfg.APIKey, model, method, args, kwargs})
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", model, method, err)
	}
	return result, nil
}

// TestConnection verifies the configuration by authenticating.
func (c *Client) TestConnection(ctx context.Context, cfg *Config) (string, error) {
	uid, err := c.Authenticate(ctx, cfg)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Connection successful (uid %d)", uid), nil
}

// Create creates one record of the given model and returns its id.
func (c *Client) Create(ctx context.Context, cfg *Config, uid int64, model string, values map[string]any) (int64, error) {
	result, err := c.ExecuteKw(ctx, cfg, uid, model, "create", []any{[]any{values}}, nil)
	if err != nil {
		return 0, err
	}

	// Odoo returns either a bare id or, when creating via a list, a
	// one-element id array.
	var id int64
	if err := json.Unmarshal(result, &id); err == nil {
		return id, nil
	}
	var ids []int64
	if err := json.Unmarshal(result, &ids); err == nil && len(ids) > 0 {
		return ids[0], nil
	}
	return 0, fmt.Errorf("%s.create: unexpected result %s", model, result)
}

// search returns the ids matching domain, capped at limit.
func (c *Client) search(ctx context.Context, cfg *Config, uid int64, model string, domain []any, limit int) ([]int64, error) {
	result, err := c.ExecuteKw(ctx, cfg, uid, model, "search",
		[]any{domain}, map[string]any{"limit": limit})
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := json.Unmarshal(result, &ids); err != nil {
		return nil, fmt.Errorf("%s.search: unexpected result %s", model, result)
	}
	return ids, nil
}

// ResolveByName finds a record of model by case-insensitive name match,
// creating it when absent. Returns 0 when the name is blank or neither
// lookup nor create succeeds; callers treat 0 as "leave unset".
func (c *Client) ResolveByName(ctx context.Context, cfg *Config, uid int64, model, name string) int64 {
	term := strings.TrimSpace(name)
	if term == "" {
		return 0
	}

	if ids, err := c.search(ctx, cfg, uid, model, []any{[]any{"name", "ilike", term}}, 1); err == nil && len(ids) > 0 {
		return ids[0]
	}

	id, err := c.Create(ctx, cfg, uid, model, map[string]any{"name": term})
	if err != nil {
		c.logger.Debug("name resolution failed",
			zap.String("model", model),
			zap.String("name", term),
			zap.Error(err))
		return 0
	}
	return id
}

// ResolveCountryID finds a res.country id by name, then by country code.
func (c *Client) ResolveCountryID(ctx context.Context, cfg *Config, uid int64, country string) int64 {
	term := strings.TrimSpace(country)
	if term == "" {
		return 0
	}

	for _, field := range []string{"name", "code"} {
		ids, err := c.search(ctx, cfg, uid, "res.country", []any{[]any{field, "ilike", term}}, 1)
		if err == nil && len(ids) > 0 {
			return ids[0]
		}
	}
	return 0
}

// ResolveStateID finds a res.country.state id by name, constrained to
// countryID when non-zero.
func (c *Client) ResolveStateID(ctx context.Context, cfg *Config, uid int64, state string, countryID int64) int64 {
	term := strings.TrimSpace(state)
	if term == "" {
		return 0
	}

	domain := []any{[]any{"name", "ilike", term}}
	if countryID > 0 {
		domain = append(domain, []any{"country_id", "=", countryID})
	}
	ids, err := c.search(ctx, cfg, uid, "res.country.state", domain, 1)
	if err != nil || len(ids) == 0 {
		return 0
	}
	return ids[0]
}
