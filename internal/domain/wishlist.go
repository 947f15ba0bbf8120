package domain

// WishlistEntry wraps a favorited product. There is no quantity; the wishlist
// is a set keyed by product id.
type WishlistEntry struct {
	Product Product `json:"product"`
}

// Wishlist is the per-session set of favorited products. Insertion order is
// preserved for display purposes.
type Wishlist struct {
	Items []WishlistEntry `json:"items"`
}

// NewWishlist creates an empty wishlist.
func NewWishlist() *Wishlist {
	return &Wishlist{Items: []WishlistEntry{}}
}

// Add inserts the product if it is not already present. Adding a product
// twice is a no-op.
func (w *Wishlist) Add(p Product) {
	if w.Contains(p.ID) {
		return
	}
	w.Items = append(w.Items, WishlistEntry{Product: p})
}

// Remove deletes the entry matching the product id. Removing an absent
// product is a no-op.
func (w *Wishlist) Remove(productID int64) {
	for i := range w.Items {
		if w.Items[i].Product.ID == productID {
			w.Items = append(w.Items[:i], w.Items[i+1:]...)
			return
		}
	}
}

// Contains reports whether the product is in the wishlist.
func (w *Wishlist) Contains(productID int64) bool {
	for i := range w.Items {
		if w.Items[i].Product.ID == productID {
			return true
		}
	}
	return false
}

// Count returns the number of entries.
func (w *Wishlist) Count() int {
	return len(w.Items)
}
