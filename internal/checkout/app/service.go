package app

import (
	"strings"
	"sync"

	cartdomain "github.com/riceschool/storefront/internal/cart/domain"
	"github.com/riceschool/storefront/internal/checkout/domain"
	"github.com/riceschool/storefront/pkg/apperr"
)

// Validation failures, one per check. Validate returns the first that fails,
// matching the single-message UX of the checkout flow.
var (
	ErrCartEmpty       = &apperr.ValidationError{Field: "cart", Reason: "cart is empty"}
	ErrNameRequired    = &apperr.ValidationError{Field: "customerName", Reason: "name is required"}
	ErrPhoneRequired   = &apperr.ValidationError{Field: "customerPhone", Reason: "phone is required"}
	ErrAddressRequired = &apperr.ValidationError{Field: "address", Reason: "delivery address is required"}
	ErrLast5Required   = &apperr.ValidationError{Field: "last5Digits", Reason: "last 5 digits of the transfer are required"}
)

// Validate checks the cart and form before an order may be built. Checks run
// in a fixed order and stop at the first failure. Beyond non-emptiness there
// is no format validation here; the last-5-digits content rule is enforced
// continuously at input time.
func Validate(cart cartdomain.Cart, form domain.Form) error {
	if cart.Empty() {
		return ErrCartEmpty
	}
	if strings.TrimSpace(form.CustomerName) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(form.CustomerPhone) == "" {
		return ErrPhoneRequired
	}
	if strings.TrimSpace(form.Address) == "" {
		return ErrAddressRequired
	}
	if form.PaymentMethod == domain.PaymentTransfer && strings.TrimSpace(form.Last5Digits) == "" {
		return ErrLast5Required
	}
	return nil
}

// FormStore holds the live checkout form. Writes go through the input
// filters so the stored form is always well-formed.
type FormStore struct {
	mu   sync.Mutex
	form domain.Form
}

func NewFormStore() *FormStore {
	return &FormStore{form: domain.DefaultForm()}
}

func (s *FormStore) Get() domain.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Update replaces the form. An unknown payment method keeps the previous
// selection; the last-5-digits field is sanitized on the way in.
func (s *FormStore) Update(f domain.Form) domain.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !f.PaymentMethod.Valid() {
		f.PaymentMethod = s.form.PaymentMethod
	}
	f.Last5Digits = domain.SanitizeLast5(f.Last5Digits)
	s.form = f
	return s.form
}

// Reset returns the form to its default state.
func (s *FormStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.form = domain.DefaultForm()
}
