// Package shortlist keeps the per-session shortlist carts.
package shortlist

import (
	"sync"

	"github.com/fadilmartias/talent-shortlist/internal/candidate"
)

// Cart is an ordered set of candidates unique by id. Every operation takes
// the cart's mutex, so concurrent mutations from one session are applied one
// after another.
type Cart struct {
	mu    sync.Mutex
	items []candidate.Candidate
}

func NewCart() *Cart {
	return &Cart{}
}

// Add appends c unless a candidate with the same id is already present.
// It reports whether the cart changed.
func (c *Cart) Add(cand candidate.Candidate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.indexOf(cand.ID) >= 0 {
		return false
	}
	c.items = append(c.items, cand.Clone())
	return true
}

// Remove drops the entry with the given id, if any.
func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(id)
	if idx < 0 {
		return false
	}
	c.items = append(c.items[:idx:idx], c.items[idx+1:]...)
	return true
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Cart) Contains(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(id) >= 0
}

// List returns copies of the entries in insertion order.
func (c *Cart) List() []candidate.Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]candidate.Candidate, 0, len(c.items))
	for _, item := range c.items {
		out = append(out, item.Clone())
	}
	return out
}

func (c *Cart) indexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
