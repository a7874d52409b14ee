package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TokenSource returns the caller's bearer token for forwarding.
type TokenSource func(ctx context.Context) (string, error)

// httpGateway posts to the create-order HTTP function.
type httpGateway struct {
	url    string
	client *http.Client
	token  TokenSource
}

// NewHTTPGateway targets {baseURL}/create-order.
func NewHTTPGateway(baseURL string, client *http.Client, token TokenSource) Gateway {
	return &httpGateway{
		url:    strings.TrimRight(baseURL, "/") + "/create-order",
		client: client,
		token:  token,
	}
}

// functionResponse is the create-order function's reply.
type functionResponse struct {
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	OrderID     uuid.UUID       `json:"orderId"`
	OrderNumber string          `json:"orderNumber"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

func (g *httpGateway) CreateOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	token, err := g.token(ctx)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		var opErr *net.OpError
		if errors.As(err, &opErr) && opErr.Op == "dial" {
			return nil, errUnavailable(err)
		}
		// The request may have reached the function; do not fall back.
		return nil, fmt.Errorf("create-order function: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read create-order response (status %d): %w", resp.StatusCode, err)
	}
	var out functionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// Error statuses are classified below even when the body is not JSON.
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil, fmt.Errorf("decode create-order response: %w", err)
		}
		out = functionResponse{}
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300 && out.Success:
		return &PlaceOrderResult{OrderID: out.OrderID, OrderNumber: out.OrderNumber, TotalAmount: out.TotalAmount}, nil
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusBadGateway,
		resp.StatusCode == http.StatusServiceUnavailable,
		resp.StatusCode == http.StatusGatewayTimeout:
		return nil, errUnavailable(fmt.Errorf("create-order function returned %d", resp.StatusCode))
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("create-order function refused the session")
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && out.Error != "":
		return nil, Reject(out.Error)
	default:
		return nil, fmt.Errorf("create-order function returned %d: %s", resp.StatusCode, out.Error)
	}
}
