package kot

import "fmt"

// Cart holds the lines of the order being built. It is owned by a single
// operator session and is not safe for concurrent use.
type Cart struct {
	lines []LineItem
}

func NewCart() *Cart { return &Cart{} }

// Add puts one unit of item into the cart. An existing line with the same
// item and option is incremented; a different option starts a new line.
// item.Qty is ignored.
func (c *Cart) Add(item LineItem, option *string) error {
	item = item.clone()
	item.Option = nil
	if option != nil {
		item.Option = Opt(*option)
	}
	item.Qty = 1
	if err := item.validate(); err != nil {
		return err
	}
	for i := range c.lines {
		if sameLine(c.lines[i], item) {
			c.lines[i].Qty++
			return nil
		}
	}
	c.lines = append(c.lines, item)
	return nil
}

// SetQuantity sets the quantity of a line, flooring at 1. Removing a line is
// done with Remove.
func (c *Cart) SetQuantity(key string, qty int) error {
	i := c.index(key)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrItemNotFound, key)
	}
	c.lines[i].Qty = max(qty, 1)
	return nil
}

// Remove drops a line. Missing keys are ignored.
func (c *Cart) Remove(key string) {
	if i := c.index(key); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) TotalCents() int64 { return sumCents(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Lines returns a deep copy of the cart lines in insertion order.
func (c *Cart) Lines() []LineItem {
	out := make([]LineItem, len(c.lines))
	for i, li := range c.lines {
		out[i] = li.clone()
	}
	return out
}

func (c *Cart) Clear() { c.lines = nil }

func (c *Cart) index(key string) int {
	for i, li := range c.lines {
		if li.Key() == key {
			return i
		}
	}
	return -1
}
