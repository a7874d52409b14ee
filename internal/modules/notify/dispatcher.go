package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Outcome is the result of one detached send.
type Outcome struct {
	OrderNumber string
	Result      Result
	Err         error
}

// Dispatcher sends order emails in the background. Dispatch never blocks
// on the relay and never returns an error; outcomes are only logged.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	log     *slog.Logger

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
	outcomes chan Outcome
	drained  chan struct{}
	observe  func(Outcome)
}

func NewDispatcher(sender Sender, timeout time.Duration, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		sender:   sender,
		timeout:  timeout,
		log:      log,
		outcomes: make(chan Outcome, 64),
		drained:  make(chan struct{}),
	}
	go d.drain()
	return d
}

// Dispatch schedules a send for data. The send outlives ctx's cancellation
// but keeps its values, and is bounded by the dispatcher timeout.
func (d *Dispatcher) Dispatch(ctx context.Context, data OrderEmailData) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		d.log.Warn("notification dropped after shutdown", "order_number", data.OrderNumber)
		return
	}
	d.inflight.Add(1)
	go d.send(context.WithoutCancel(ctx), data)
}

// Close waits for in-flight sends and the outcome logger, or for ctx.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		go func() {
			d.inflight.Wait()
			close(d.outcomes)
		}()
	}
	d.mu.Unlock()

	select {
	case <-d.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) send(ctx context.Context, data OrderEmailData) {
	defer d.inflight.Done()
	out := Outcome{OrderNumber: data.OrderNumber}
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{OrderNumber: data.OrderNumber, Err: fmt.Errorf("panic: %v", r)}
		}
		d.outcomes <- out
	}()

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	out.Result, out.Err = d.sender.Send(ctx, data)
}

func (d *Dispatcher) drain() {
	defer close(d.drained)
	for o := range d.outcomes {
		switch {
		case o.Err != nil:
			d.log.Error("order emails failed", "order_number", o.OrderNumber, "error", o.Err)
		case !o.Result.Customer || !o.Result.Admin:
			d.log.Warn("order emails partially sent", "order_number", o.OrderNumber,
				"customer", o.Result.Customer, "admin", o.Result.Admin)
		default:
			d.log.Info("order emails sent", "order_number", o.OrderNumber)
		}
		if d.observe != nil {
			d.observe(o)
		}
	}
}
