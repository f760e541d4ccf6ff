package domain

import (
	"strings"

	cartdomain "github.com/riceschool/storefront/internal/cart/domain"
	checkoutdomain "github.com/riceschool/storefront/internal/checkout/domain"
)

// ActionNewOrder tags the submission payload for the web-app dispatcher.
const ActionNewOrder = "new_order"

// Item is a cart line reduced to the fields the backend records.
type Item struct {
	Name     string  `json:"name"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is the wire-ready submission payload. It is built once per attempt
// from a cart snapshot and the checkout form, and never mutated afterwards.
type Order struct {
	Action        string  `json:"action"`
	Customer      string  `json:"customer"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	PaymentMethod string  `json:"paymentMethod"`
	Last5Digits   string  `json:"last5Digits"`
	Items         []Item  `json:"items"`
	Total         float64 `json:"total"`
}

// Build assembles the payload: customer fields trimmed, the transfer digits
// included only for bank transfer, and the total computed from the snapshot.
func Build(cart cartdomain.Cart, form checkoutdomain.Form) Order {
	items := make([]Item, 0, len(cart.Items))
	for _, li := range cart.Items {
		items = append(items, Item{
			Name:     li.Name,
			Brand:    li.Brand,
			Price:    li.Price,
			Quantity: li.Quantity,
		})
	}

	last5 := ""
	if form.PaymentMethod == checkoutdomain.PaymentTransfer {
		last5 = strings.TrimSpace(form.Last5Digits)
	}

	return Order{
		Action:        ActionNewOrder,
		Customer:      strings.TrimSpace(form.CustomerName),
		Phone:         strings.TrimSpace(form.CustomerPhone),
		Address:       strings.TrimSpace(form.Address),
		PaymentMethod: string(form.PaymentMethod),
		Last5Digits:   last5,
		Items:         items,
		Total:         cart.Total(),
	}
}

// Outcome classifies how a submission attempt resolved.
type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	// OutcomeIndeterminate means the backend's answer could not be read:
	// the order may or may not have been received. The cart must not be
	// cleared and the user must be offered both an acknowledge path and a
	// retry path.
	OutcomeIndeterminate Outcome = "indeterminate"
)

// Result is the definite interpretation of one submission attempt.
type Result struct {
	Outcome Outcome `json:"outcome"`
	OrderID string  `json:"orderId,omitempty"`
	Message string  `json:"message,omitempty"`
}
