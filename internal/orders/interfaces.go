package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-backend/pkg/db/models"
)

// Repository defines persistence operations for orders and their side effects.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) error
	CreateOrderLineItems(ctx context.Context, items []models.OrderLineItem) error
	DecrementProductStock(ctx context.Context, productID uuid.UUID, qty int) (int64, error)
	IncrementEventParticipants(ctx context.Context, eventID uuid.UUID, qty int) (int64, error)
	FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemRow, error)
	CompleteByPaymentReference(ctx context.Context, reference string) (int64, error)
}

// Service exposes order placement, lookup and capture confirmation.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderDetailDTO, error)
	ConfirmPayment(ctx context.Context, paymentReference string) (int64, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
