package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/dinehub/restaurant-api/internal/enum"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// OrderStore defines the DB methods needed to manage orders.
// Satisfied by *database.Queries.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.OrderWithBranch, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.OrderWithBranch, error)
	ListOrderItemsByOrders(ctx context.Context, orderIDs []uuid.UUID) ([]database.OrderItem, error)
	SetOrderCompleted(ctx context.Context, arg database.SetOrderCompletedParams) (database.Order, error)
	ToggleOrderCompleted(ctx context.Context, id uuid.UUID) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (database.DeleteOrderRow, error)
}

// OrderDetail is an order with its branch and line items.
type OrderDetail struct {
	database.OrderWithBranch
	Items []database.OrderItem
}

// OrderFilter narrows an order listing. Empty fields do not filter.
type OrderFilter struct {
	Date      string // today, yesterday, all or YYYY-MM-DD
	OrderType string
	BranchID  string
}

// OrderService lists orders and moves them between pending, completed and
// deleted.
type OrderService struct {
	store OrderStore
	blobs BlobStore
	loc   *time.Location
	now   func() time.Time
}

// NewOrderService creates an OrderService. loc decides where calendar days
// start for the date filters.
func NewOrderService(store OrderStore, blobs BlobStore, loc *time.Location) *OrderService {
	if loc == nil {
		loc = time.UTC
	}
	return &OrderService{store: store, blobs: blobs, loc: loc, now: time.Now}
}

// List returns matching orders newest first, each with its line items.
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]OrderDetail, error) {
	params := database.ListOrdersParams{}

	start, end, err := s.dayRange(f.Date)
	if err != nil {
		return nil, err
	}
	params.StartDate = start
	params.EndDate = end

	if t := strings.ToLower(strings.TrimSpace(f.OrderType)); t != "" {
		if !enum.IsOrderType(t) {
			return nil, invalidf("invalid orderType")
		}
		params.OrderType = pgtype.Text{String: t, Valid: true}
	}
	if f.BranchID != "" {
		id, err := parseID(f.BranchID, "branch")
		if err != nil {
			return nil, err
		}
		params.BranchID = pgtype.UUID{Bytes: id, Valid: true}
	}

	orders, err := s.store.ListOrders(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return s.attachItems(ctx, orders)
}

// dayRange turns a date filter into a [start, end) window in the service's
// location. "all" and "" leave both bounds NULL.
func (s *OrderService) dayRange(filter string) (pgtype.Timestamptz, pgtype.Timestamptz, error) {
	filter = strings.ToLower(strings.TrimSpace(filter))
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	var day time.Time
	switch filter {
	case "", enum.DateFilterAll:
		return pgtype.Timestamptz{}, pgtype.Timestamptz{}, nil
	case enum.DateFilterToday:
		day = today
	case enum.DateFilterYesterday:
		day = today.AddDate(0, 0, -1)
	default:
		d, err := time.ParseInLocation("2006-01-02", filter, s.loc)
		if err != nil {
			return pgtype.Timestamptz{}, pgtype.Timestamptz{}, invalidf("invalid date filter %q", filter)
		}
		day = d
	}
	return pgtype.Timestamptz{Time: day, Valid: true},
		pgtype.Timestamptz{Time: day.AddDate(0, 0, 1), Valid: true}, nil
}

func (s *OrderService) attachItems(ctx context.Context, orders []database.OrderWithBranch) ([]OrderDetail, error) {
	out := make([]OrderDetail, len(orders))
	if len(orders) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
		out[i] = OrderDetail{OrderWithBranch: o, Items: []database.OrderItem{}}
	}

	items, err := s.store.ListOrderItemsByOrders(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	for _, it := range items {
		if i, ok := index[it.OrderID]; ok {
			out[i].Items = append(out[i].Items, it)
		}
	}
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*OrderDetail, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, notFound(err, "get order")
	}
	details, err := s.attachItems(ctx, []database.OrderWithBranch{order})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// SetCompleted sets isCompleted, or flips it when completed is nil. Only that
// field and updatedAt change.
func (s *OrderService) SetCompleted(ctx context.Context, id uuid.UUID, completed *bool) (*OrderDetail, error) {
	var err error
	if completed == nil {
		_, err = s.store.ToggleOrderCompleted(ctx, id)
	} else {
		_, err = s.store.SetOrderCompleted(ctx, database.SetOrderCompletedParams{ID: id, IsCompleted: *completed})
	}
	if err != nil {
		return nil, notFound(err, "update order")
	}
	return s.Get(ctx, id)
}

// Delete removes the order with its lines, then its receipt image. It returns
// the branch the order belonged to.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row, err := s.store.DeleteOrder(ctx, id)
	if err != nil {
		return uuid.Nil, notFound(err, "delete order")
	}
	removeBlobs(ctx, s.blobs, []pgtype.Text{row.ReceiptImageUrl})
	return row.BranchID, nil
}
