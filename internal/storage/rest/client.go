package rest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client performs single JSON round trips against the catalog backend.
// It never retries: every call is issued at most once.
type Client struct {
	HTTP    *http.Client
	BaseURL *url.URL
	Logger  *slog.Logger
}

func NewClient(httpClient *http.Client, baseURL *url.URL, l *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{HTTP: httpClient, BaseURL: baseURL, Logger: l}
}

// Do sends body (if not nil) as JSON and decodes a 2xx response into out (if not nil).
// Empty and 204 responses leave out untouched.
func (c *Client) Do(ctx context.Context, op, method, path string, body, out any) error {
	fail := func(kind Kind, status int, msg string, err error) error {
		return &RequestError{
			Op:      op,
			Method:  method,
			Path:    path,
			Kind:    kind,
			Status:  status,
			Message: msg,
			Err:     err,
		}
	}

	var rd io.Reader
	if body != nil {
		bs, err := json.Marshal(body)
		if err != nil {
			return fail(KindNetwork, 0, "", err)
		}
		rd = bytes.NewReader(bs)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), rd)
	if err != nil {
		return fail(KindNetwork, 0, "", err)
	}

	req.Header.Set("Accept", "application/json")
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		c.Logger.ErrorContext(ctx, "Failed to "+op+" ("+method+" "+path+"): "+err.Error())
		return fail(KindNetwork, 0, "", err)
	}

	var bs []byte
	func() {
		defer res.Body.Close()
		bs, err = io.ReadAll(res.Body)
	}()

	if err != nil {
		c.Logger.ErrorContext(ctx, "Failed to read response of "+op+" ("+method+" "+path+"): "+err.Error())
		return fail(KindNetwork, 0, "", err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		msg := extractMessage(bs)
		c.Logger.WarnContext(ctx, "Backend rejected "+op+" ("+method+" "+path+")",
			slog.Int("status", res.StatusCode), slog.String("message", msg))
		return fail(KindBackend, res.StatusCode, msg, nil)
	}

	if out == nil || res.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(bs)) == 0 {
		return nil
	}

	if err := json.Unmarshal(bs, out); err != nil {
		c.Logger.ErrorContext(ctx, "Failed to unmarshal response of "+op+" ("+method+" "+path+"): "+err.Error())
		return fail(KindDecode, res.StatusCode, "", err)
	}

	return nil
}

func (c *Client) resolve(path string) string {
	if c.BaseURL == nil {
		return path
	}

	return strings.TrimSuffix(c.BaseURL.String(), "/") + "/" + strings.TrimPrefix(path, "/")
}
