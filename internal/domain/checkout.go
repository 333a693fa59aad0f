package domain

import "time"

// CartState tracks the checkout transition. The cart is Active while it
// accepts add/decrease/remove, and Settling for the duration of the
// clear-all step. A successful settle collapses back to Active with zero
// lines; a failed one may leave the store partially cleared.
type CartState string

const (
	CartStateActive   CartState = "ACTIVE"
	CartStateSettling CartState = "SETTLING"
)

func (s CartState) String() string {
	return string(s)
}

// Receipt is the result of a completed checkout. It is returned to the
// caller and retained nowhere on the server: FinalTotal is the
// caller-supplied taxed total echoed back verbatim.
type Receipt struct {
	ReceiptID  string    `json:"receiptId"`
	Success    bool      `json:"success"`
	Message    string    `json:"message"`
	FinalTotal float64   `json:"total"`
	Timestamp  time.Time `json:"timestamp"`
}

// CheckoutRequest carries the caller's locally held cart view, its
// pre-computed (taxed) total and the customer fields from the form.
type CheckoutRequest struct {
	CustomerName  string
	CustomerEmail string
	Items         []LineItem
	Total         float64
}
