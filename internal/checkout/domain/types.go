package domain

import "strings"

// PaymentMethod is how the customer pays for the order.
type PaymentMethod string

const (
	PaymentTransfer PaymentMethod = "transfer"
	PaymentPickup   PaymentMethod = "pickup"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentTransfer || m == PaymentPickup
}

// Form is the checkout information the customer fills in. Last5Digits only
// matters for bank transfer and is kept digits-only, at most five characters,
// by the input filter rather than by validation.
type Form struct {
	CustomerName  string        `json:"customerName"`
	CustomerPhone string        `json:"customerPhone"`
	Address       string        `json:"address"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	Last5Digits   string        `json:"last5Digits"`
}

// BankTransfer is the shop's receiving account, shown to the customer when
// the transfer method is selected so they know where to send the money.
type BankTransfer struct {
	BankName      string `json:"bankName"`
	BankCode      string `json:"bankCode"`
	AccountNumber string `json:"accountNumber"`
}

// DefaultForm mirrors the initial state of the checkout UI.
func DefaultForm() Form {
	return Form{PaymentMethod: PaymentTransfer}
}

// SanitizeLast5 strips non-digit characters and clamps to five digits. It is
// applied every time the field is written, so the stored value is always
// zero to five numeric characters.
func SanitizeLast5(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == 5 {
			break
		}
	}
	return b.String()
}
