package cart

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Cart is one owner's hydrated cart. Every mutation is written through
// to the persister before it returns.
type Cart struct {
	mu        sync.Mutex
	owner     string
	lines     []Line
	persister Persister
}

// Store opens carts backed by a Persister.
type Store struct {
	persister Persister
}

func NewStore(p Persister) *Store { return &Store{persister: p} }

// Open hydrates the owner's cart.
func (s *Store) Open(ctx context.Context, owner string) (*Cart, error) {
	lines, err := s.persister.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &Cart{owner: owner, lines: lines, persister: s.persister}, nil
}

func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Line(nil), c.lines...)
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

func (c *Cart) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()
	sum := Summary{Lines: append([]Line{}, c.lines...), TotalPrice: decimal.Zero}
	for _, l := range c.lines {
		sum.TotalItems += l.Quantity
		sum.TotalPrice = sum.TotalPrice.Add(l.Subtotal())
	}
	return sum
}

// Add merges l into the cart. An existing line for the same id gains the
// new quantity, clamped to the refreshed stock snapshot.
func (c *Cart) Add(ctx context.Context, l Line) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := append([]Line(nil), c.lines...)
	for i := range next {
		if next[i].LineID == l.LineID {
			next[i].MaxQuantity = l.MaxQuantity
			next[i].UnitPrice = l.UnitPrice
			next[i].Quantity = clamp(next[i].Quantity+l.Quantity, l.MaxQuantity)
			return c.commit(ctx, next)
		}
	}
	l.Quantity = clamp(l.Quantity, l.MaxQuantity)
	return c.commit(ctx, append(next, l))
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (c *Cart) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := append([]Line(nil), c.lines...)
	for i := range next {
		if next[i].LineID != lineID {
			continue
		}
		if quantity <= 0 {
			return c.commit(ctx, append(next[:i], next[i+1:]...))
		}
		next[i].Quantity = clamp(quantity, next[i].MaxQuantity)
		return c.commit(ctx, next)
	}
	return ErrLineNotFound
}

func (c *Cart) Remove(ctx context.Context, lineID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].LineID == lineID {
			next := append(append([]Line(nil), c.lines[:i]...), c.lines[i+1:]...)
			return c.commit(ctx, next)
		}
	}
	return ErrLineNotFound
}

// Clear empties the cart and drops its persisted copy.
func (c *Cart) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.persister.Delete(ctx, c.owner); err != nil {
		return err
	}
	c.lines = nil
	return nil
}

// commit persists next and only then swaps it in, so a failed write
// leaves the in-memory cart unchanged.
func (c *Cart) commit(ctx context.Context, next []Line) error {
	if err := c.persister.Save(ctx, c.owner, next); err != nil {
		return err
	}
	c.lines = next
	return nil
}
