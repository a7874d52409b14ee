package order

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"net"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// rpcGateway calls the place_order stored procedure.
type rpcGateway struct{ db *sql.DB }

func NewRPCGateway(db *sql.DB) Gateway { return &rpcGateway{db: db} }

func (g *rpcGateway) CreateOrder(ctx context.Context, userID uuid.UUID, req PlaceOrderRequest) (*PlaceOrderResult, error) {
	items, err := json.Marshal(req.Items)
	if err != nil {
		return nil, err
	}
	addressID, err := uuid.Parse(req.ShippingAddressID)
	if err != nil {
		return nil, Reject("please select a shipping address")
	}

	res := &PlaceOrderResult{}
	err = g.db.QueryRowContext(ctx,
		`SELECT order_id, order_number, total_amount FROM place_order($1, $2::jsonb, $3, $4)`,
		userID, string(items), addressID, string(req.PaymentMethod)).
		Scan(&res.OrderID, &res.OrderNumber, &res.TotalAmount)
	if err != nil {
		return nil, classifyRPCError(err)
	}
	return res, nil
}

// classifyRPCError maps driver errors onto the gateway contract.
// RAISE EXCEPTION in the procedure is a business rejection; a missing
// procedure or a connection that was never established is unavailability.
func classifyRPCError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "P0001":
			return Reject(pqErr.Message)
		case "42883", "3F000":
			return errUnavailable(err)
		}
		if pqErr.Code.Class() == "08" {
			return errUnavailable(err)
		}
		return err
	}
	if errors.Is(err, driver.ErrBadConn) {
		return errUnavailable(err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return errUnavailable(err)
	}
	return err
}
