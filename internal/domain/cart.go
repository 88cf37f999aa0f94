package domain

import (
	"iter"
	"slices"
)

type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

func (l CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Cart is the in-memory pre-checkout state of one session. Lines keep the
// order in which products were first added and never hold a quantity below 1.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

// Add increments the line for p, or appends a new one. Non-positive
// quantities are ignored.
func (c *Cart) Add(p Product, qty int) {
	if qty < 1 {
		return
	}
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity += qty
		return
	}
	c.lines = append(c.lines, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  qty,
	})
}

// RemoveQuantity takes qty units of productID out of the cart, deleting the
// line once nothing is left. It reports false when the product is not in the
// cart. The returned line is the state before removal.
func (c *Cart) RemoveQuantity(productID int64, qty int) (CartLine, bool) {
	i := c.index(productID)
	if i < 0 {
		return CartLine{}, false
	}
	line := c.lines[i]
	if qty >= line.Quantity {
		c.lines = slices.Delete(c.lines, i, i+1)
	} else if qty > 0 {
		c.lines[i].Quantity -= qty
	}
	return line, true
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) Total() int64 {
	var total int64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Lines yields copies of the cart lines in insertion order.
func (c *Cart) Lines() iter.Seq[CartLine] {
	return func(yield func(CartLine) bool) {
		for _, l := range c.lines {
			if !yield(l) {
				return
			}
		}
	}
}

func (c *Cart) Snapshot() []CartLine {
	return slices.Clone(c.lines)
}

func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) index(productID int64) int {
	return slices.IndexFunc(c.lines, func(l CartLine) bool { return l.ProductID == productID })
}
