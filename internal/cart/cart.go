// Package cart holds the in-progress order of one storefront session.
//
// A Cart is an explicit value owned by its session: create it when the session
// starts, mutate it through Add/UpdateQuantity/Remove/Clear and drop it after a
// successful checkout. It is not safe for concurrent use.
package cart

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrIndexOutOfRange = errors.New("cart line index out of range")
	ErrInvalidItem     = errors.New("invalid cart item")
)

// Item is one cart line. Two additions with the same ID and Options share a line.
type Item struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Price    decimal.Decimal   `json:"price"`
	Quantity int               `json:"quantity"`
	Options  map[string]string `json:"options,omitempty"`
}

// key is the identity used to merge additions into an existing line.
func (it Item) key() string {
	if len(it.Options) == 0 {
		return it.ID
	}
	names := make([]string, 0, len(it.Options))
	for k := range it.Options {
		names = append(names, k)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString(it.ID)
	for _, k := range names {
		b.WriteString("|")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(it.Options[k])
	}
	return b.String()
}

// State is a snapshot of a cart.
type State struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Cart tracks lines plus a running total and item count. The totals are
// maintained by deltas on every mutation and always equal the sums over the
// lines.
type Cart struct {
	items     []Item
	total     decimal.Decimal
	itemCount int
	notifier  Notifier
}

// Option configures a Cart.
type Option func(*Cart)

// WithNotifier sets where add/clear confirmations go.
func WithNotifier(n Notifier) Option {
	return func(c *Cart) { c.notifier = n }
}

func New(opts ...Option) *Cart {
	c := &Cart{items: []Item{}, total: decimal.Zero}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add puts one unit of item in the cart and returns the index of its line.
// item.Quantity is ignored.
func (c *Cart) Add(item Item) (int, error) {
	if item.ID == "" {
		return -1, fmt.Errorf("%w: id is required", ErrInvalidItem)
	}
	if item.Price.IsNegative() {
		return -1, fmt.Errorf("%w: price must not be negative", ErrInvalidItem)
	}

	idx := -1
	k := item.key()
	for i := range c.items {
		if c.items[i].key() == k {
			idx = i
			break
		}
	}

	if idx >= 0 {
		c.items[idx].Quantity++
	} else {
		line := item
		line.Quantity = 1
		line.Options = copyOptions(item.Options)
		c.items = append(c.items, line)
		idx = len(c.items) - 1
	}
	c.total = c.total.Add(c.items[idx].Price)
	c.itemCount++

	c.notify(Event{Kind: EventAdded, Title: c.items[idx].Title, Quantity: c.items[idx].Quantity})
	return idx, nil
}

// UpdateQuantity sets the quantity of the line at index. A quantity below 1
// removes the line.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	if quantity < 1 {
		return c.Remove(index)
	}

	line := &c.items[index]
	diff := quantity - line.Quantity
	c.total = c.total.Add(line.Price.Mul(decimal.NewFromInt(int64(diff))))
	c.itemCount += diff
	line.Quantity = quantity
	return nil
}

// Remove drops the line at index.
func (c *Cart) Remove(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
	}
	line := c.items[index]
	c.total = c.total.Sub(line.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	c.itemCount -= line.Quantity
	c.items = append(c.items[:index], c.items[index+1:]...)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = []Item{}
	c.total = decimal.Zero
	c.itemCount = 0
	c.notify(Event{Kind: EventCleared})
}

func (c *Cart) Total() decimal.Decimal { return c.total }

func (c *Cart) ItemCount() int { return c.itemCount }

func (c *Cart) Len() int { return len(c.items) }

// Items returns a copy of the lines.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	for i, it := range c.items {
		it.Options = copyOptions(it.Options)
		out[i] = it
	}
	return out
}

func (c *Cart) State() State {
	return State{Items: c.Items(), Total: c.total, ItemCount: c.itemCount}
}

func (c *Cart) notify(e Event) {
	if c.notifier != nil {
		c.notifier.Notify(e)
	}
}

func copyOptions(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
