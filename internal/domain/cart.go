package domain

// CartLine is a (product, quantity) pair inside the cart. A cart holds at
// most one line per distinct product identifier.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the per-session shopping cart. TotalItems and TotalPrice are
// derived from the lines and recomputed on every mutation; they are carried
// on the struct so the persisted blob matches what the browser storefront
// stored, but Recompute is the single source of truth.
type Cart struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{Items: []CartLine{}}
}

// Add inserts a line with quantity 1 for a new product, or increments the
// existing line's quantity by 1. It always succeeds.
func (c *Cart) Add(p Product) {
	if i := c.lineIndex(p.ID); i >= 0 {
		c.Items[i].Quantity++
	} else {
		c.Items = append(c.Items, CartLine{Product: p, Quantity: 1})
	}
	c.Recompute()
}

// Remove deletes the line matching the product id. Removing an absent
// product is a no-op, not an error.
func (c *Cart) Remove(productID int64) {
	if i := c.lineIndex(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		c.Recompute()
	}
}

// SetQuantity replaces the line's quantity with the given value. A quantity
// of zero or less behaves as Remove. Setting the quantity of an absent
// product is a no-op.
func (c *Cart) SetQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.lineIndex(productID); i >= 0 {
		c.Items[i].Quantity = quantity
		c.Recompute()
	}
}

// Quantity returns the quantity of the line matching the product id, or 0 if
// the product is not in the cart.
func (c *Cart) Quantity(productID int64) int {
	if i := c.lineIndex(productID); i >= 0 {
		return c.Items[i].Quantity
	}
	return 0
}

// Recompute rebuilds TotalItems and TotalPrice from the lines. Prices are
// normalized through the Price type, so textual prices that failed to parse
// contribute zero.
func (c *Cart) Recompute() {
	c.TotalItems = 0
	c.TotalPrice = 0
	for _, line := range c.Items {
		c.TotalItems += line.Quantity
		c.TotalPrice += float64(line.Quantity) * line.Product.Price.Float64()
	}
}

// lineIndex returns the index of the line matching the product id, or -1.
func (c *Cart) lineIndex(productID int64) int {
	for i := range c.Items {
		if c.Items[i].Product.ID == productID {
			return i
		}
	}
	return -1
}
