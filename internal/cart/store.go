// Package cart implements the shopping cart: an observable item container
// keyed by product ID, plus the checkout handoff that turns cart contents
// into a WhatsApp order message.
package cart

import (
	"sync"
)

// Item is a single cart line. UnitPrice is the per-unit price in whole
// currency units at the time the item was added.
type Item struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	UnitPrice int64  `json:"unitPrice"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Quantity  int64  `json:"quantity"`
}

// Snapshot is a read-only view of the cart handed to subscribers and API
// responses. Totals are computed from the lines at snapshot time.
type Snapshot struct {
	Items      []Item `json:"items"`
	TotalItems int64  `json:"totalItems"`
	TotalPrice int64  `json:"totalPrice"`
	ItemCount  int    `json:"itemCount"`
	Open       bool   `json:"open"`
}

// Subscriber receives a snapshot after every state change.
type Subscriber func(Snapshot)

// Store holds one cart's state. All mutations funnel through apply, which
// notifies subscribers synchronously while holding the lock, so observers
// always see states in the order they occurred.
type Store struct {
	mu          sync.Mutex
	items       []Item
	open        bool
	subscribers map[int]Subscriber
	nextSubID   int
}

// NewStore returns an empty, closed cart.
func NewStore() *Store {
	return &Store{subscribers: make(map[int]Subscriber)}
}

// Subscribe registers fn for change notifications and returns an
// unsubscribe function.
func (s *Store) Subscribe(fn Subscriber) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) apply(mutate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate()
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, fn := range s.subscribers {
		fn(snap)
	}
}

// AddItem adds quantity units of the product. If a line with the same ID
// already exists its quantity is increased; otherwise a new line is appended,
// preserving insertion order. Quantities below 1 are ignored without error.
func (s *Store) AddItem(item Item, quantity int64) {
	if quantity < 1 {
		return
	}
	s.apply(func() {
		for i := range s.items {
			if s.items[i].ID == item.ID {
				s.items[i].Quantity += quantity
				return
			}
		}
		item.Quantity = quantity
		s.items = append(s.items, item)
	})
}

// UpdateQuantity sets the line's quantity to an absolute value. A quantity
// of zero or less removes the line. Unknown IDs are ignored.
func (s *Store) UpdateQuantity(productID string, quantity int64) {
	s.apply(func() {
		for i := range s.items {
			if s.items[i].ID != productID {
				continue
			}
			if quantity <= 0 {
				s.items = append(s.items[:i], s.items[i+1:]...)
			} else {
				s.items[i].Quantity = quantity
			}
			return
		}
	})
}

// RemoveItem deletes the line regardless of quantity. Unknown IDs are ignored.
func (s *Store) RemoveItem(productID string) {
	s.apply(func() {
		for i := range s.items {
			if s.items[i].ID == productID {
				s.items = append(s.items[:i], s.items[i+1:]...)
				return
			}
		}
	})
}

// Clear removes all lines. The drawer open state is untouched.
func (s *Store) Clear() {
	s.apply(func() {
		s.items = nil
	})
}

// OpenCart opens the cart drawer.
func (s *Store) OpenCart() {
	s.apply(func() { s.open = true })
}

// CloseCart closes the cart drawer.
func (s *Store) CloseCart() {
	s.apply(func() { s.open = false })
}

// ToggleCart flips the drawer state.
func (s *Store) ToggleCart() {
	s.apply(func() { s.open = !s.open })
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

// TotalItems is the sum of line quantities.
func (s *Store) TotalItems() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of quantity times unit price over all lines.
func (s *Store) TotalPrice() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, item := range s.items {
		total += item.Quantity * item.UnitPrice
	}
	return total
}

// ItemCount is the quantity of the line for productID, 0 when the product
// is not in the cart.
func (s *Store) ItemCount(productID string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.ID == productID {
			return item.Quantity
		}
	}
	return 0
}

// LineCount is the number of distinct lines.
func (s *Store) LineCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// IsOpen reports whether the cart drawer is open.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// Snapshot returns the full cart state with computed totals.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Items:     append([]Item(nil), s.items...),
		ItemCount: len(s.items),
		Open:      s.open,
	}
	for _, item := range s.items {
		snap.TotalItems += item.Quantity
		snap.TotalPrice += item.Quantity * item.UnitPrice
	}
	return snap
}
