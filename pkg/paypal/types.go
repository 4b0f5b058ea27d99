package paypal

import (
	"github.com/shopspring/decimal"
)

// Provider order and capture statuses used by the checkout flow.
const (
	StatusCreated             = "CREATED"
	StatusApproved            = "APPROVED"
	StatusCompleted           = "COMPLETED"
	StatusPayerActionRequired = "PAYER_ACTION_REQUIRED"
	StatusVoided              = "VOIDED"
)

const (
	intentCapture           = "CAPTURE"
	landingPageBilling      = "BILLING"
	userActionPayNow        = "PAY_NOW"
	defaultCurrency         = "USD"
	defaultOrderDescription = "Art Print Shop Order"
	defaultBrandName        = "Art Print Shop"
	relApprove              = "approve"
	relPayerAction          = "payer-action"
)

// CreateOrderParams describes one checkout intent.
type CreateOrderParams struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	BrandName   string
	ReturnURL   string
	CancelURL   string
}

// Link is a HATEOAS link returned by the Orders API.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method,omitempty"`
}

// Order is the subset of a provider order the storefront relies on.
type Order struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  []Link `json:"links,omitempty"`
}

// ApproveURL returns the payer approval link, if present.
func (o *Order) ApproveURL() string {
	if o == nil {
		return ""
	}
	for _, l := range o.Links {
		if l.Rel == relApprove || l.Rel == relPayerAction {
			return l.Href
		}
	}
	return ""
}

// Completed reports whether the provider considers the order captured.
func (o *Order) Completed() bool {
	return o != nil && o.Status == StatusCompleted
}

// Capture is the normalized result of capturing an approved order.
type Capture struct {
	OrderID    string          `json:"id"`
	Status     string          `json:"status"`
	CaptureID  string          `json:"capture_id,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency,omitempty"`
	PayerEmail string          `json:"payer_email,omitempty"`
}

// Completed reports whether funds were captured.
func (c *Capture) Completed() bool {
	return c != nil && c.Status == StatusCompleted
}

type money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnitRequest struct {
	Amount      money  `json:"amount"`
	Description string `json:"description,omitempty"`
}

type applicationContext struct {
	BrandName   string `json:"brand_name,omitempty"`
	LandingPage string `json:"landing_page,omitempty"`
	UserAction  string `json:"user_action,omitempty"`
	ReturnURL   string `json:"return_url,omitempty"`
	CancelURL   string `json:"cancel_url,omitempty"`
}

type createOrderRequest struct {
	Intent             string                `json:"intent"`
	PurchaseUnits      []purchaseUnitRequest `json:"purchase_units"`
	ApplicationContext applicationContext    `json:"application_context"`
}

type captureResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Payer  struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount money  `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

type apiErrorBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	DebugID string `json:"debug_id"`
	Details []struct {
		Issue       string `json:"issue"`
		Description string `json:"description"`
	} `json:"details"`
}
