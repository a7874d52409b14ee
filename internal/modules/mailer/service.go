package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/georgemunganga/kidswear-store/internal/modules/notify"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	AdminEmail string
	Brand      string
	SiteURL    string
}

// Relay renders the customer confirmation and the admin alert for an
// order and sends both. It satisfies notify.Sender so the storefront can
// run it in-process.
type Relay struct {
	provider Provider
	opts     Options
	log      *slog.Logger
}

func NewRelay(provider Provider, opts Options, log *slog.Logger) *Relay {
	return &Relay{provider: provider, opts: opts, log: log}
}

// Send delivers both emails concurrently. Provider failures are logged and
// reported as false; only a rendering failure returns an error.
func (r *Relay) Send(ctx context.Context, data notify.OrderEmailData) (notify.Result, error) {
	view := newView(data, r.opts.Brand, r.opts.SiteURL)
	var res notify.Result

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		html, err := render(customerTmpl, view)
		if err != nil {
			return fmt.Errorf("render customer email: %w", err)
		}
		res.Customer = r.deliver(ctx, Message{
			ToAddress: data.CustomerEmail,
			ToName:    data.CustomerName,
			Subject:   "Order Confirmed - #" + data.OrderNumber,
			HTML:      html,
		})
		return nil
	})
	g.Go(func() error {
		html, err := render(adminTmpl, view)
		if err != nil {
			return fmt.Errorf("render admin email: %w", err)
		}
		res.Admin = r.deliver(ctx, Message{
			ToAddress: r.opts.AdminEmail,
			ToName:    r.opts.Brand + " Admin",
			Subject:   "🛒 New Order Received - #" + data.OrderNumber,
			HTML:      html,
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return notify.Result{}, err
	}
	return res, nil
}

func (r *Relay) deliver(ctx context.Context, m Message) bool {
	if err := r.provider.Send(ctx, m); err != nil {
		r.log.Error("send email failed", "to", m.ToAddress, "subject", m.Subject, "error", err)
		return false
	}
	r.log.Info("email sent", "to", m.ToAddress)
	return true
}
