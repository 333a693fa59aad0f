package domain

import "time"

// LineItem is one product-quantity pairing held in the cart.
// ProductID is the natural key: at most one line per product exists,
// and Quantity is always >= 1 (a line that would reach 0 is deleted).
type LineItem struct {
	ID        string    `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID string    `bson:"product_id" json:"productId"`
	Name      string    `bson:"name" json:"name"`
	UnitPrice float64   `bson:"unit_price" json:"unitPrice"`
	Image     string    `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int       `bson:"quantity" json:"quantity"`
	AddedAt   time.Time `bson:"added_at" json:"addedAt"`
}

// Subtotal is the line's contribution to the cart total.
func (l LineItem) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// CartSnapshot is the aggregate view returned to callers: all current
// lines in insertion order plus the recomputed total. It is derived on
// every read and never stored.
type CartSnapshot struct {
	Items []LineItem `json:"items"`
	Total float64    `json:"total"`
}

// ComputeTotal recalculates Total from Items.
func (s *CartSnapshot) ComputeTotal() {
	var total float64
	for _, item := range s.Items {
		total += item.Subtotal()
	}
	s.Total = total
}
