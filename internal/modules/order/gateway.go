package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Gateway creates an order atomically with authoritative pricing. Callers
// invoke it exactly once per customer action; it is never retried on an
// ambiguous failure.
type Gateway interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, error)
}

// serviceGateway places orders in process through the order Service.
type serviceGateway struct{ svc Service }

func NewServiceGateway(svc Service) Gateway { return &serviceGateway{svc: svc} }

func (g *serviceGateway) CreateOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	return g.svc.PlaceOrder(ctx, userID, req)
}

// FallbackGateway tries each gateway in order. It moves on only when a
// gateway reports ErrGatewayUnavailable; rejections and ambiguous failures
// are returned as is.
type FallbackGateway struct {
	gateways []namedGateway
	log      *slog.Logger
}

type namedGateway struct {
	name string
	Gateway
}

func NewFallbackGateway(log *slog.Logger) *FallbackGateway {
	return &FallbackGateway{log: log}
}

// With appends a gateway under name and returns the receiver.
func (f *FallbackGateway) With(name string, g Gateway) *FallbackGateway {
	f.gateways = append(f.gateways, namedGateway{name: name, Gateway: g})
	return f
}

func (f *FallbackGateway) CreateOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	if len(f.gateways) == 0 {
		return nil, fmt.Errorf("%w: no order gateway configured", ErrGatewayUnavailable)
	}
	var lastErr error
	for _, g := range f.gateways {
		res, err := g.CreateOrder(ctx, userID, req)
		if err == nil {
			return res, nil
		}
		if !errors.Is(err, ErrGatewayUnavailable) {
			return nil, err
		}
		f.log.Warn("order gateway unavailable, trying next", "gateway", g.name, "error", err)
		lastErr = err
	}
	return nil, lastErr
}
