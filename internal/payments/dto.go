package payments

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-backend/pkg/paypal"
)

const (
	successPath = "/payment-success"
	cancelPath  = "/payment-cancel"
)

// PaymentItem is one cart line as shown to the payer.
type PaymentItem struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// CreatePaymentInput describes the cart being paid for. ReturnBaseURL is
// used when no public base URL is configured.
type CreatePaymentInput struct {
	Items         []PaymentItem
	Total         decimal.Decimal
	ReturnBaseURL string
}

// PaymentIntentDTO is returned to the client so it can send the payer to PayPal.
type PaymentIntentDTO struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	ApproveURL string        `json:"approve_url,omitempty"`
	Links      []paypal.Link `json:"links,omitempty"`
}

// CaptureResultDTO reports a capture and how many orders it completed.
type CaptureResultDTO struct {
	ID              string          `json:"id"`
	Status          string          `json:"status"`
	CaptureID       string          `json:"capture_id,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty"`
	OrdersCompleted int64           `json:"orders_completed"`
}
