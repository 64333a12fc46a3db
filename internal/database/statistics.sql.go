package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// Every statistics query only considers completed orders.

const getTotalSales = `-- name: GetTotalSales :one
SELECT COALESCE(SUM(o.total), 0)::numeric AS total_sales, COUNT(*) AS order_count
FROM orders o
WHERE o.is_completed
  AND ($1::uuid IS NULL OR o.branch_id = $1)
`

type GetTotalSalesRow struct {
	TotalSales pgtype.Numeric
	OrderCount int64
}

func (q *Queries) GetTotalSales(ctx context.Context, branchID pgtype.UUID) (GetTotalSalesRow, error) {
	row := q.db.QueryRow(ctx, getTotalSales, branchID)
	var i GetTotalSalesRow
	err := row.Scan(&i.TotalSales, &i.OrderCount)
	return i, err
}

const getTopItems = `-- name: GetTopItems :many
SELECT oi.item_id,
       (array_agg(oi.name ORDER BY o.created_at, oi.position))[1] AS name,
       COUNT(*) AS occurrences,
       SUM(oi.quantity)::bigint AS quantity_sold,
       SUM(oi.price * oi.quantity)::numeric AS total_revenue
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE o.is_completed
  AND ($1::uuid IS NULL OR o.branch_id = $1)
GROUP BY oi.item_id
ORDER BY occurrences DESC, MIN(o.created_at), oi.item_id
LIMIT 5
`

type GetTopItemsRow struct {
	ItemID       string
	Name         string
	Occurrences  int64
	QuantitySold int64
	TotalRevenue pgtype.Numeric
}

func (q *Queries) GetTopItems(ctx context.Context, branchID pgtype.UUID) ([]GetTopItemsRow, error) {
	rows, err := q.db.Query(ctx, getTopItems, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GetTopItemsRow{}
	for rows.Next() {
		var i GetTopItemsRow
		if err := rows.Scan(&i.ItemID, &i.Name, &i.Occurrences, &i.QuantitySold, &i.TotalRevenue); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTopAreas = `-- name: GetTopAreas :many
SELECT o.delivery_address AS name,
       COUNT(*) AS order_count,
       SUM(o.total)::numeric AS total_revenue
FROM orders o
WHERE o.is_completed
  AND o.order_type = 'delivery'
  AND o.delivery_address IS NOT NULL
  AND o.delivery_address <> ''
  AND ($1::uuid IS NULL OR o.branch_id = $1)
GROUP BY o.delivery_address
ORDER BY order_count DESC, MIN(o.created_at)
LIMIT 5
`

type GetTopAreasRow struct {
	Name         string
	OrderCount   int64
	TotalRevenue pgtype.Numeric
}

// GetTopAreas groups on the exact address string; near-duplicates stay separate.
func (q *Queries) GetTopAreas(ctx context.Context, branchID pgtype.UUID) ([]GetTopAreasRow, error) {
	rows, err := q.db.Query(ctx, getTopAreas, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GetTopAreasRow{}
	for rows.Next() {
		var i GetTopAreasRow
		if err := rows.Scan(&i.Name, &i.OrderCount, &i.TotalRevenue); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getMonthlySales = `-- name: GetMonthlySales :many
SELECT EXTRACT(YEAR FROM o.created_at AT TIME ZONE $2)::int AS year,
       EXTRACT(MONTH FROM o.created_at AT TIME ZONE $2)::int AS month,
       COUNT(*) AS order_count,
       SUM(o.total)::numeric AS total_sales
FROM orders o
WHERE o.is_completed
  AND ($1::uuid IS NULL OR o.branch_id = $1)
GROUP BY 1, 2
ORDER BY 1 DESC, 2 DESC
LIMIT 12
`

// SalesBucketParams selects the branch (NULL for all) and the IANA time zone
// used to assign orders to calendar buckets.
type SalesBucketParams struct {
	BranchID pgtype.UUID
	TimeZone string
}

type GetMonthlySalesRow struct {
	Year       int32
	Month      int32
	OrderCount int64
	TotalSales pgtype.Numeric
}

func (q *Queries) GetMonthlySales(ctx context.Context, arg SalesBucketParams) ([]GetMonthlySalesRow, error) {
	rows, err := q.db.Query(ctx, getMonthlySales, arg.BranchID, arg.TimeZone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GetMonthlySalesRow{}
	for rows.Next() {
		var i GetMonthlySalesRow
		if err := rows.Scan(&i.Year, &i.Month, &i.OrderCount, &i.TotalSales); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getWeeklySales = `-- name: GetWeeklySales :many
SELECT EXTRACT(ISOYEAR FROM o.created_at AT TIME ZONE $2)::int AS year,
       EXTRACT(WEEK FROM o.created_at AT TIME ZONE $2)::int AS week,
       COUNT(*) AS order_count,
       SUM(o.total)::numeric AS total_sales
FROM orders o
WHERE o.is_completed
  AND ($1::uuid IS NULL OR o.branch_id = $1)
GROUP BY 1, 2
ORDER BY 1 DESC, 2 DESC
LIMIT 10
`

type GetWeeklySalesRow struct {
	Year       int32
	Week       int32
	OrderCount int64
	TotalSales pgtype.Numeric
}

func (q *Queries) GetWeeklySales(ctx context.Context, arg SalesBucketParams) ([]GetWeeklySalesRow, error) {
	rows, err := q.db.Query(ctx, getWeeklySales, arg.BranchID, arg.TimeZone)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []GetWeeklySalesRow{}
	for rows.Next() {
		var i GetWeeklySalesRow
		if err := rows.Scan(&i.Year, &i.Week, &i.OrderCount, &i.TotalSales); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
