package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-backend/pkg/db"
	"github.com/angelmondragon/atelier-backend/pkg/db/models"
	"github.com/angelmondragon/atelier-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/atelier-backend/pkg/errors"
	"github.com/angelmondragon/atelier-backend/pkg/logger"
	"github.com/angelmondragon/atelier-backend/pkg/metrics"
)

type service struct {
	repo    Repository
	tx      txRunner
	logg    *logger.Logger
	metrics *metrics.OrderMetrics
}

var validate = validator.New()

// NewService builds the order service with the required dependencies.
// m may be nil to disable metrics.
func NewService(repo Repository, tx txRunner, logg *logger.Logger, m *metrics.OrderMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		logg:    logg,
		metrics: m,
	}, nil
}

// PlaceOrder writes the order, its line items and every stock/capacity
// change in one transaction. Any failure after validation rolls all of it
// back and surfaces as CodeOrderPlacementFailed.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error) {
	if err := ValidateInput(input); err != nil {
		s.metrics.IncPlaced(metrics.OutcomeValidation)
		return nil, err
	}

	order := &models.Order{
		ID:               uuid.New(),
		CustomerEmail:    strings.TrimSpace(input.Customer.Email),
		CustomerName:     strings.TrimSpace(input.Customer.Name),
		TotalAmount:      input.TotalAmount,
		PaymentReference: trimmedOrNil(input.PaymentReference),
		ShippingAddress:  trimmedOrNil(input.ShippingAddress),
		Status:           enums.OrderStatusPending,
	}
	items := make([]models.OrderLineItem, 0, len(input.Items))
	for i, item := range input.Items {
		productID, eventID := item.Ref.columns()
		items = append(items, models.OrderLineItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: productID,
			EventID:   eventID,
			Position:  i,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	if order.PaymentReference != nil {
		ctx = s.logg.WithPaymentReference(ctx, *order.PaymentReference)
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := repo.CreateOrderLineItems(ctx, items); err != nil {
			if db.IsForeignKeyViolation(err) {
				return fmt.Errorf("insert order items: %w", errors.Join(ErrUnknownItem, err))
			}
			return fmt.Errorf("insert order items: %w", err)
		}

		for _, item := range input.Items {
			if item.Ref.Kind() != enums.ItemKindProduct {
				continue
			}
			n, err := repo.DecrementProductStock(ctx, item.Ref.ID(), item.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock for product %s: %w", item.Ref.ID(), err)
			}
			if n == 0 {
				return fmt.Errorf("product %s: %w", item.Ref.ID(), ErrInsufficientStock)
			}
		}

		for _, item := range input.Items {
			if item.Ref.Kind() != enums.ItemKindEvent {
				continue
			}
			n, err := repo.IncrementEventParticipants(ctx, item.Ref.ID(), item.Quantity)
			if err != nil {
				return fmt.Errorf("increment participants for event %s: %w", item.Ref.ID(), err)
			}
			if n == 0 {
				return fmt.Errorf("event %s: %w", item.Ref.ID(), ErrEventFull)
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.IncPlaced(metrics.OutcomeFailed)
		s.logg.Error(ctx, "order placement rolled back", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeOrderPlacementFailed, err, "order placement failed")
	}

	s.metrics.IncPlaced(metrics.OutcomeSuccess)
	for _, item := range input.Items {
		s.metrics.AddItems(item.Ref.Kind().String(), item.Quantity)
	}
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"items":        len(items),
		"total_amount": order.TotalAmount.StringFixed(2),
	}), "order placed")

	dto := toOrderDTO(order)
	return &dto, nil
}

// GetOrder returns the order with its items in placement order.
func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetailDTO, error) {
	order, err := s.repo.FindOrder(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order")
	}

	rows, err := s.repo.FindOrderItems(ctx, order.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load order items")
	}

	detail := &OrderDetailDTO{
		OrderDTO: toOrderDTO(order),
		Items:    make([]OrderItemDTO, 0, len(rows)),
	}
	for _, row := range rows {
		item, err := toOrderItemDTO(row)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "map order item")
		}
		detail.Items = append(detail.Items, item)
	}
	return detail, nil
}

// ConfirmPayment completes every pending order carrying paymentReference.
// Zero matches is not an error.
func (s *service) ConfirmPayment(ctx context.Context, paymentReference string) (int64, error) {
	ref := strings.TrimSpace(paymentReference)
	if ref == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "payment reference is required")
	}
	ctx = s.logg.WithPaymentReference(ctx, ref)

	n, err := s.repo.CompleteByPaymentReference(ctx, ref)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "confirm payment")
	}
	s.metrics.AddConfirmed(n)
	if n == 0 {
		s.logg.Warn(ctx, "payment confirmed with no pending order")
	} else {
		s.logg.Info(s.logg.WithField(ctx, "orders", n), "orders completed")
	}
	return n, nil
}

// ValidateInput checks an order before anything is written or charged.
func ValidateInput(input PlaceOrderInput) error {
	details := map[string]string{}

	if strings.TrimSpace(input.Customer.Name) == "" {
		details["customer_name"] = "is required"
	}
	email := strings.TrimSpace(input.Customer.Email)
	if email == "" {
		details["customer_email"] = "is required"
	} else if err := validate.Var(email, "email"); err != nil {
		details["customer_email"] = "must be a valid email"
	}

	if len(input.Items) == 0 {
		details["items"] = "is required"
	}
	sum := decimal.Zero
	for i, item := range input.Items {
		key := fmt.Sprintf("items[%d]", i)
		if !item.Ref.Valid() {
			details[key+".ref"] = "must reference exactly one product or event"
		}
		if item.Quantity < 1 {
			details[key+".quantity"] = "must be at least 1"
		}
		if item.UnitPrice.IsNegative() {
			details[key+".unit_price"] = "must not be negative"
		} else if problem := AmountProblem(item.UnitPrice); problem != "" {
			details[key+".unit_price"] = problem
		}
		sum = sum.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if input.TotalAmount.IsNegative() {
		details["total_amount"] = "must not be negative"
	} else if problem := AmountProblem(input.TotalAmount); problem != "" {
		details["total_amount"] = problem
	} else if len(input.Items) > 0 && !sum.Equal(input.TotalAmount) {
		details["total_amount"] = fmt.Sprintf("must equal the sum of line items (%s)", sum.StringFixed(2))
	}

	if len(details) == 0 {
		return nil
	}
	if _, ok := details["items"]; ok && len(details) == 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item").WithDetails(details)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid order").WithDetails(details)
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
