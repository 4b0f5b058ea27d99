package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/atelier-backend/internal/repo"
	"github.com/angelmondragon/atelier-backend/pkg/db/models"
	"github.com/angelmondragon/atelier-backend/pkg/enums"
)

const orderItemsQuery = `
SELECT oi.id,
       oi.product_id,
       oi.event_id,
       oi.quantity,
       oi.unit_price,
       oi.position,
       p.title AS product_title,
       p.image_url AS product_image,
       e.title AS event_title
FROM order_items oi
LEFT JOIN products p ON p.id = oi.product_id
LEFT JOIN events e ON e.id = oi.event_id
WHERE oi.order_id = ?
ORDER BY oi.position ASC
`

// The WHERE clauses carry the stock and capacity guards so concurrent
// placements cannot oversell; zero rows affected means the guard failed.
const (
	decrementStockSQL = `
UPDATE products
SET stock_quantity = stock_quantity - ?,
    updated_at = ?
WHERE id = ? AND is_active = ? AND stock_quantity >= ?
`
	incrementParticipantsSQL = `
UPDATE events
SET current_participants = current_participants + ?,
    updated_at = ?
WHERE id = ? AND is_active = ? AND current_participants + ? <= max_participants
`
)

type repository struct {
	repo.Base
	now func() time.Time
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db), now: func() time.Time { return time.Now().UTC() }}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Base.WithTx(tx), now: r.now}
}

func (r *repository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.DB(ctx).Create(order).Error
}

func (r *repository) CreateOrderLineItems(ctx context.Context, items []models.OrderLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&items).Error
}

func (r *repository) DecrementProductStock(ctx context.Context, productID uuid.UUID, qty int) (int64, error) {
	res := r.DB(ctx).Exec(decrementStockSQL, qty, r.now(), productID, true, qty)
	return res.RowsAffected, res.Error
}

func (r *repository) IncrementEventParticipants(ctx context.Context, eventID uuid.UUID, qty int) (int64, error) {
	res := r.DB(ctx).Exec(incrementParticipantsSQL, qty, r.now(), eventID, true, qty)
	return res.RowsAffected, res.Error
}

func (r *repository) FindOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) FindOrderItems(ctx context.Context, orderID uuid.UUID) ([]OrderItemRow, error) {
	var rows []OrderItemRow
	if err := r.DB(ctx).Raw(orderItemsQuery, orderID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CompleteByPaymentReference moves pending orders carrying reference to
// completed in a single statement and reports how many changed.
func (r *repository) CompleteByPaymentReference(ctx context.Context, reference string) (int64, error) {
	res := r.DB(ctx).
		Model(&models.Order{}).
		Where("payment_reference = ? AND status = ?", reference, enums.OrderStatusPending).
		Updates(map[string]any{
			"status":     enums.OrderStatusCompleted,
			"updated_at": r.now(),
		})
	return res.RowsAffected, res.Error
}
