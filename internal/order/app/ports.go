package app

import (
	"context"

	"github.com/riceschool/storefront/internal/order/domain"
)

// Poster submits the wire payload to the backend. A nil error means the
// backend confirmed the order; the returned id may be empty when the
// envelope carried none. A *apperr.ServerError means the backend explicitly
// rejected it. Any other error means the answer could not be read.
type Poster interface {
	Post(ctx context.Context, order domain.Order) (orderID string, err error)
}
