package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/atelier-backend/internal/orders"
	"github.com/angelmondragon/atelier-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-backend/pkg/errors"
	"github.com/angelmondragon/atelier-backend/pkg/logger"
	"github.com/angelmondragon/atelier-backend/pkg/paypal"
)

// Options tunes the checkout flow.
type Options struct {
	// PublicBaseURL, when set, is where PayPal redirects the payer back to.
	PublicBaseURL string
	// VerifyCapture requires a provider-confirmed capture before an order is
	// persisted.
	VerifyCapture bool
}

type service struct {
	gateway       Gateway
	placer        OrderPlacer
	logg          *logger.Logger
	publicBaseURL string
	verify        bool
}

// NewService builds the checkout flow. gateway may be nil when PayPal is not
// configured; payment endpoints then fail with a dependency error and orders
// are accepted without capture verification.
func NewService(gateway Gateway, placer OrderPlacer, logg *logger.Logger, opts Options) (Service, error) {
	if placer == nil {
		return nil, fmt.Errorf("order placer required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		gateway:       gateway,
		placer:        placer,
		logg:          logg,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/"),
		verify:        opts.VerifyCapture,
	}, nil
}

func (s *service) CreatePayment(ctx context.Context, input CreatePaymentInput) (*PaymentIntentDTO, error) {
	if err := validatePayment(input); err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, errGatewayNotConfigured()
	}

	base := s.publicBaseURL
	if base == "" {
		base = strings.TrimRight(strings.TrimSpace(input.ReturnBaseURL), "/")
	}
	if base == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "return url could not be determined")
	}

	order, err := s.gateway.CreateOrder(ctx, paypal.CreateOrderParams{
		Amount:    input.Total,
		ReturnURL: base + successPath,
		CancelURL: base + cancelPath,
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithPaymentReference(ctx, order.ID), map[string]any{
		"items": len(input.Items),
		"total": input.Total.StringFixed(2),
	}), "payment intent created")

	return &PaymentIntentDTO{
		ID:         order.ID,
		Status:     order.Status,
		ApproveURL: order.ApproveURL(),
		Links:      order.Links,
	}, nil
}

// ExecutePayment captures an approved intent. Orders referencing it are
// completed only when the provider reports COMPLETED.
func (s *service) ExecutePayment(ctx context.Context, intentID string) (*CaptureResultDTO, error) {
	id := strings.TrimSpace(intentID)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "orderId is required")
	}
	if s.gateway == nil {
		return nil, errGatewayNotConfigured()
	}
	ctx = s.logg.WithPaymentReference(ctx, id)

	capture, err := s.gateway.CaptureOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &CaptureResultDTO{
		ID:        capture.OrderID,
		Status:    capture.Status,
		CaptureID: capture.CaptureID,
		Amount:    capture.Amount,
		Currency:  capture.Currency,
	}
	if !capture.Completed() {
		s.logg.Warn(s.logg.WithField(ctx, "status", capture.Status), "capture not completed")
		return result, nil
	}

	n, err := s.placer.ConfirmPayment(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "payment captured but order confirmation failed")
	}
	result.OrdersCompleted = n
	return result, nil
}

// VerifyCapture re-queries the provider and rejects intents that are not
// fully captured.
func (s *service) VerifyCapture(ctx context.Context, intentID string) error {
	id := strings.TrimSpace(intentID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "paypal_transaction_id is required")
	}
	if s.gateway == nil {
		return errGatewayNotConfigured()
	}

	order, err := s.gateway.GetOrder(ctx, id)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodePaymentRejected, err, "payment not found at provider")
		}
		return err
	}
	if !order.Completed() {
		return pkgerrors.New(pkgerrors.CodePaymentRejected, "payment has not been captured").
			WithDetails(map[string]any{"status": order.Status})
	}
	return nil
}

// PlaceOrder validates, verifies the capture when enabled, persists the
// order and then confirms it as a separate step.
func (s *service) PlaceOrder(ctx context.Context, input orders.PlaceOrderInput) (*orders.OrderDTO, error) {
	if err := orders.ValidateInput(input); err != nil {
		return nil, err
	}

	verified := false
	if s.verify && s.gateway != nil {
		ref := ""
		if input.PaymentReference != nil {
			ref = *input.PaymentReference
		}
		if err := s.VerifyCapture(ctx, ref); err != nil {
			return nil, err
		}
		verified = true
	}

	order, err := s.placer.PlaceOrder(ctx, input)
	if err != nil {
		return nil, err
	}

	if verified && order.PaymentReference != nil {
		n, err := s.placer.ConfirmPayment(ctx, *order.PaymentReference)
		if err != nil {
			s.logg.Error(s.logg.WithOrderID(ctx, order.ID.String()), "confirm placed order", err)
			return order, nil
		}
		if n > 0 {
			order.Status = enums.OrderStatusCompleted
		}
	}
	return order, nil
}

func validatePayment(input CreatePaymentInput) error {
	details := map[string]string{}
	if len(input.Items) == 0 {
		details["items"] = "is required"
	}
	if !input.Total.IsPositive() {
		details["total"] = "must be greater than 0"
	} else if problem := orders.AmountProblem(input.Total); problem != "" {
		details["total"] = problem
	}
	sum := decimal.Zero
	for i, item := range input.Items {
		key := fmt.Sprintf("items[%d]", i)
		if item.Quantity < 1 {
			details[key+".quantity"] = "must be at least 1"
		}
		if item.Price.IsNegative() {
			details[key+".price"] = "must not be negative"
		} else if problem := orders.AmountProblem(item.Price); problem != "" {
			details[key+".price"] = problem
		}
		sum = sum.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if len(details) == 0 && !sum.Equal(input.Total) {
		details["total"] = fmt.Sprintf("must equal the sum of items (%s)", sum.StringFixed(2))
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment request").WithDetails(details)
}

func errGatewayNotConfigured() error {
	return pkgerrors.New(pkgerrors.CodeDependency, "payment gateway not configured")
}
