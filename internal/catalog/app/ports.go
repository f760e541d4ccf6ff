package app

import (
	"context"

	"github.com/riceschool/storefront/internal/catalog/domain"
)

// Fetcher retrieves and normalizes the product list from the backend.
// An error means every transport tier failed; a nil error may still carry
// an empty list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.Product, error)
}
