package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Sender delivers order emails. Implementations report failures through
// error and always return a zero Result alongside one.
type Sender interface {
	Send(ctx context.Context, data OrderEmailData) (Result, error)
}

// HTTPClient calls the email relay's POST /send-order-emails.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *HTTPClient) Send(ctx context.Context, data OrderEmailData) (Result, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-order-emails", bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("email relay: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("email relay: unexpected status %d", resp.StatusCode)
	}

	var out struct {
		Customer bool `json:"customer"`
		Admin    bool `json:"admin"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Result{}, fmt.Errorf("email relay: decode response: %w", err)
	}
	return Result{Customer: out.Customer, Admin: out.Admin}, nil
}
