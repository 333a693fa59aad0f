package domain

// Product is a catalog entry. The catalog is read-only from the cart's
// point of view; nothing here owes invariants to the core.
type Product struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Price float64 `json:"price"`
	Image string  `json:"image,omitempty"`
}
