package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const orderColumns = `o.id, o.full_name, o.mobile_number, o.alternate_mobile, o.delivery_address,
       o.nearest_landmark, o.email, o.payment_instructions, o.payment_method, o.change_request,
       o.subtotal, o.tax, o.delivery_fee, o.discount, o.total, o.promo_code, o.is_gift,
       o.gift_message, o.is_completed, o.order_type, o.branch_id, o.bank_name,
       o.receipt_image_url, o.created_at, o.updated_at`

func scanOrder(row rowScanner, i *Order, extra ...any) error {
	dest := []any{
		&i.ID, &i.FullName, &i.MobileNumber, &i.AlternateMobile, &i.DeliveryAddress,
		&i.NearestLandmark, &i.Email, &i.PaymentInstructions, &i.PaymentMethod, &i.ChangeRequest,
		&i.Subtotal, &i.Tax, &i.DeliveryFee, &i.Discount, &i.Total, &i.PromoCode, &i.IsGift,
		&i.GiftMessage, &i.IsCompleted, &i.OrderType, &i.BranchID, &i.BankName,
		&i.ReceiptImageUrl, &i.CreatedAt, &i.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

const createOrder = `-- name: CreateOrder :one
INSERT INTO orders AS o (
    full_name, mobile_number, alternate_mobile, delivery_address, nearest_landmark,
    email, payment_instructions, payment_method, change_request,
    subtotal, tax, delivery_fee, discount, total, promo_code,
    is_gift, gift_message, order_type, branch_id, bank_name, receipt_image_url
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
    $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
)
RETURNING ` + orderColumns + `
`

type CreateOrderParams struct {
	FullName            string
	MobileNumber        string
	AlternateMobile     pgtype.Text
	DeliveryAddress     pgtype.Text
	NearestLandmark     pgtype.Text
	Email               pgtype.Text
	PaymentInstructions pgtype.Text
	PaymentMethod       string
	ChangeRequest       pgtype.Text
	Subtotal            pgtype.Numeric
	Tax                 pgtype.Numeric
	DeliveryFee         pgtype.Numeric
	Discount            pgtype.Numeric
	Total               pgtype.Numeric
	PromoCode           pgtype.Text
	IsGift              bool
	GiftMessage         pgtype.Text
	OrderType           string
	BranchID            uuid.UUID
	BankName            pgtype.Text
	ReceiptImageUrl     pgtype.Text
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.FullName,
		arg.MobileNumber,
		arg.AlternateMobile,
		arg.DeliveryAddress,
		arg.NearestLandmark,
		arg.Email,
		arg.PaymentInstructions,
		arg.PaymentMethod,
		arg.ChangeRequest,
		arg.Subtotal,
		arg.Tax,
		arg.DeliveryFee,
		arg.Discount,
		arg.Total,
		arg.PromoCode,
		arg.IsGift,
		arg.GiftMessage,
		arg.OrderType,
		arg.BranchID,
		arg.BankName,
		arg.ReceiptImageUrl,
	)
	var i Order
	err := scanOrder(row, &i)
	return i, err
}

const createOrderItem = `-- name: CreateOrderItem :one
INSERT INTO order_items (order_id, position, item_id, name, price, type, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, order_id, position, item_id, name, price, type, quantity
`

type CreateOrderItemParams struct {
	OrderID  uuid.UUID
	Position int32
	ItemID   string
	Name     string
	Price    pgtype.Numeric
	Type     pgtype.Text
	Quantity int32
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.Position,
		arg.ItemID,
		arg.Name,
		arg.Price,
		arg.Type,
		arg.Quantity,
	)
	var i OrderItem
	err := row.Scan(&i.ID, &i.OrderID, &i.Position, &i.ItemID, &i.Name, &i.Price, &i.Type, &i.Quantity)
	return i, err
}

const getOrder = `-- name: GetOrder :one
SELECT ` + orderColumns + `, b.name AS branch_name
FROM orders o
JOIN branches b ON b.id = o.branch_id
WHERE o.id = $1
`

// OrderWithBranch is an order with its branch reference populated.
type OrderWithBranch struct {
	Order
	BranchName string
}

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (OrderWithBranch, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var i OrderWithBranch
	err := scanOrder(row, &i.Order, &i.BranchName)
	return i, err
}

const listOrders = `-- name: ListOrders :many
SELECT ` + orderColumns + `, b.name AS branch_name
FROM orders o
JOIN branches b ON b.id = o.branch_id
WHERE ($1::uuid IS NULL OR o.branch_id = $1)
  AND ($2::text IS NULL OR o.order_type = $2)
  AND ($3::timestamptz IS NULL OR o.created_at >= $3)
  AND ($4::timestamptz IS NULL OR o.created_at < $4)
ORDER BY o.created_at DESC
`

// ListOrdersParams filters are all optional; StartDate is inclusive and
// EndDate exclusive.
type ListOrdersParams struct {
	BranchID  pgtype.UUID
	OrderType pgtype.Text
	StartDate pgtype.Timestamptz
	EndDate   pgtype.Timestamptz
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]OrderWithBranch, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.BranchID, arg.OrderType, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderWithBranch{}
	for rows.Next() {
		var i OrderWithBranch
		if err := scanOrder(rows, &i.Order, &i.BranchName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listOrderItemsByOrders = `-- name: ListOrderItemsByOrders :many
SELECT id, order_id, position, item_id, name, price, type, quantity
FROM order_items
WHERE order_id = ANY($1::uuid[])
ORDER BY order_id, position
`

func (q *Queries) ListOrderItemsByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrders, orderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OrderItem{}
	for rows.Next() {
		var i OrderItem
		if err := rows.Scan(&i.ID, &i.OrderID, &i.Position, &i.ItemID, &i.Name, &i.Price, &i.Type, &i.Quantity); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const setOrderCompleted = `-- name: SetOrderCompleted :one
UPDATE orders AS o SET is_completed = $2, updated_at = now()
WHERE o.id = $1
RETURNING ` + orderColumns + `
`

type SetOrderCompletedParams struct {
	ID          uuid.UUID
	IsCompleted bool
}

func (q *Queries) SetOrderCompleted(ctx context.Context, arg SetOrderCompletedParams) (Order, error) {
	row := q.db.QueryRow(ctx, setOrderCompleted, arg.ID, arg.IsCompleted)
	var i Order
	err := scanOrder(row, &i)
	return i, err
}

const toggleOrderCompleted = `-- name: ToggleOrderCompleted :one
UPDATE orders AS o SET is_completed = NOT o.is_completed, updated_at = now()
WHERE o.id = $1
RETURNING ` + orderColumns + `
`

// ToggleOrderCompleted flips is_completed in a single statement.
func (q *Queries) ToggleOrderCompleted(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, toggleOrderCompleted, id)
	var i Order
	err := scanOrder(row, &i)
	return i, err
}

const deleteOrder = `-- name: DeleteOrder :one
DELETE FROM orders WHERE id = $1
RETURNING id, branch_id, receipt_image_url
`

type DeleteOrderRow struct {
	ID              uuid.UUID
	BranchID        uuid.UUID
	ReceiptImageUrl pgtype.Text
}

func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (DeleteOrderRow, error) {
	row := q.db.QueryRow(ctx, deleteOrder, id)
	var i DeleteOrderRow
	err := row.Scan(&i.ID, &i.BranchID, &i.ReceiptImageUrl)
	return i, err
}
