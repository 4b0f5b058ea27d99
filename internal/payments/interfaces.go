package payments

import (
	"context"

	"github.com/angelmondragon/atelier-backend/internal/orders"
	"github.com/angelmondragon/atelier-backend/pkg/paypal"
)

// Gateway is the subset of the PayPal client the checkout flow drives.
type Gateway interface {
	CreateOrder(ctx context.Context, params paypal.CreateOrderParams) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Capture, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
}

// OrderPlacer persists orders and confirms them once funds are captured.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.OrderDTO, error)
	ConfirmPayment(ctx context.Context, paymentReference string) (int64, error)
}

// Service drives the checkout flow: intent, capture, verification, placement.
type Service interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (*PaymentIntentDTO, error)
	ExecutePayment(ctx context.Context, intentID string) (*CaptureResultDTO, error)
	VerifyCapture(ctx context.Context, intentID string) error
	PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.OrderDTO, error)
}
