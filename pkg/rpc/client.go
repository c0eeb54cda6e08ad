// Package rpc is a client for the daemon's JSON-RPC control interface.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nzbgetcom/webconf/pkg/logger"
	"github.com/nzbgetcom/webconf/pkg/schema"
)

// DefaultTimeout bounds a single call when the client has no HTTP client of its own
const DefaultTimeout = 30 * time.Second

// Client calls the daemon's JSON-RPC endpoint
type Client struct {
	URL      string
	Username string
	Password string
	HTTP     *http.Client
}

// ConfigTemplate is one entry of the configtemplates result. The first
// entry carries the daemon's own template and an empty Name.
type ConfigTemplate struct {
	Name        string `json:"Name"`
	DisplayName string `json:"DisplayName"`
	Template    string `json:"Template"`
}

// Status is the subset of the status result used to follow a restart
type Status struct {
	UpTimeSec      int  `json:"UpTimeSec"`
	ServerStandBy  bool `json:"ServerStandBy"`
	DownloadPaused bool `json:"DownloadPaused"`
}

// Error is a failure reported by the daemon itself
type Error struct {
	Name    string `json:"name"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type request struct {
	Version string `json:"version"`
	ID      string `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *Error          `json:"error"`
}

// NewClient creates a client for the daemon at url
func NewClient(url, username, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		URL:      url,
		Username: username,
		Password: password,
		HTTP:     &http.Client{Timeout: timeout},
	}
}

// Config returns the values the daemon is currently running with
func (c *Client) Config(ctx context.Context) ([]schema.Value, error) {
	var values []schema.Value
	if err := c.Call(ctx, "config", nil, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// LoadConfig returns the values stored in the daemon's configuration file,
// which differ from Config until the daemon restarts.
func (c *Client) LoadConfig(ctx context.Context) ([]schema.Value, error) {
	var values []schema.Value
	if err := c.Call(ctx, "loadconfig", nil, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// ConfigTemplates returns the configuration templates
func (c *Client) ConfigTemplates(ctx context.Context, loadFromDisk bool) ([]ConfigTemplate, error) {
	var templates []ConfigTemplate
	if err := c.Call(ctx, "configtemplates", []any{loadFromDisk}, &templates); err != nil {
		return nil, err
	}
	return templates, nil
}

// LoadExtensions returns the manifests of the installed extensions
func (c *Client) LoadExtensions(ctx context.Context, loadFromDisk bool) ([]schema.Extension, error) {
	var exts []schema.Extension
	if err := c.Call(ctx, "loadextensions", []any{loadFromDisk}, &exts); err != nil {
		return nil, err
	}
	return exts, nil
}

// SaveConfig replaces the daemon's configuration file with values
func (c *Client) SaveConfig(ctx context.Context, values []schema.Value) (bool, error) {
	var ok bool
	if err := c.Call(ctx, "saveconfig", []any{values}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Status returns the daemon's current status
func (c *Client) Status(ctx context.Context) (*Status, error) {
	var status Status
	if err := c.Call(ctx, "status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Reload asks the daemon to restart and reread its configuration file.
// The daemon answers before it goes down.
func (c *Client) Reload(ctx context.Context) error {
	var ok bool
	if err := c.Call(ctx, "reload", nil, &ok); err != nil {
		return err
	}
	if !ok {
		return errors.New("reload: daemon refused to restart")
	}
	return nil
}

// Call invokes method and decodes its result into result
func (c *Client) Call(ctx context.Context, method string, params []any, result any) error {
	if c.URL == "" {
		return errors.New("rpc: daemon url is not configured")
	}
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(request{
		Version: "1.1",
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Username != "" || c.Password != "" {
		req.SetBasicAuth(c.Username, c.Password)
	}

	client := c.HTTP
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s call failed: %w", method, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	logger.Debug("RPC call",
		"method", method,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s call failed: unexpected status %s", method, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var r response
	if err := json.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if r.Error != nil {
		return fmt.Errorf("%s: %w", method, r.Error)
	}
	if result == nil || len(r.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}

	return nil
}

// endpoint appends the jsonrpc path unless the url already names it
func (c *Client) endpoint() string {
	url := strings.TrimRight(c.URL, "/")
	if strings.HasSuffix(url, "/jsonrpc") {
		return url
	}
	return url + "/jsonrpc"
}
