package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dinehub/restaurant-api/internal/cart"
	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/dinehub/restaurant-api/internal/enum"
	"github.com/dinehub/restaurant-api/internal/pricing"
	"github.com/dinehub/restaurant-api/internal/ref"
	"github.com/dinehub/restaurant-api/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	variationOption = "variation"
	maxLineQuantity = 99
)

// CheckoutStore defines the DB methods needed to submit an order.
// Satisfied by *database.Queries (and its WithTx variant).
type CheckoutStore interface {
	GetBranch(ctx context.Context, id uuid.UUID) (database.Branch, error)
	GetFoodItem(ctx context.Context, id uuid.UUID) (database.FoodItem, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewCheckoutStore creates a CheckoutStore from a DBTX (pool or tx).
type NewCheckoutStore func(db database.DBTX) CheckoutStore

// CheckoutRequest is the customer form plus the cart lines.
type CheckoutRequest struct {
	FullName            string
	MobileNumber        string
	AlternateMobile     string
	DeliveryAddress     string
	NearestLandmark     string
	Email               string
	PaymentInstructions string
	PaymentMethod       string
	ChangeRequest       string
	PromoCode           string
	IsGift              bool
	GiftMessage         string
	OrderType           string
	BranchID            string
	BankName            string
	Items               []CheckoutItem
	Receipt             *Upload
}

// CheckoutItem is one cart line as sent by the storefront. Either ID or
// CartItemID ("<menuId>-<variation>") names the food item. Type overrides the
// variation carried in the id. Prices sent by the client are ignored.
type CheckoutItem struct {
	ID         ref.ID `json:"id"`
	CartItemID string `json:"cartItemId"`
	Type       string `json:"type"`
	Quantity   int    `json:"quantity"`
}

// CheckoutService turns a cart into a persisted order.
type CheckoutService struct {
	pool     TxBeginner
	newStore NewCheckoutStore
	blobs    BlobStore
	pricing  pricing.Config
}

func NewCheckoutService(pool TxBeginner, newStore NewCheckoutStore, blobs BlobStore, cfg pricing.Config) *CheckoutService {
	return &CheckoutService{pool: pool, newStore: newStore, blobs: blobs, pricing: cfg}
}

// Checkout validates the form, prices every line from the catalog, stores the
// payment receipt and writes the order with its lines in one transaction. If
// the order cannot be written the stored receipt is deleted again.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*OrderDetail, error) {
	if err := normalizeCheckout(&req); err != nil {
		return nil, err
	}
	branchID, err := parseID(req.BranchID, "branch")
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	branch, err := store.GetBranch(ctx, branchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalidf("branch does not exist")
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}

	c, err := buildCart(ctx, store, branchID, req.Items)
	if err != nil {
		return nil, err
	}
	totals := pricing.Compute(c, s.pricing.ForOrderType(req.OrderType))

	var receipt pgtype.Text
	if req.PaymentMethod == enum.PaymentMethodOnline {
		url, err := s.blobs.Put(ctx, storage.ReceiptFolder, req.Receipt.Filename, req.Receipt.Body)
		if err != nil {
			return nil, fmt.Errorf("store receipt: %w", err)
		}
		receipt = pgtype.Text{String: url, Valid: true}
	}

	detail, err := s.persist(ctx, store, req, branch, c, totals, receipt)
	if err == nil {
		err = tx.Commit(ctx)
		if err != nil {
			err = fmt.Errorf("commit tx: %w", err)
		}
	}
	if err != nil {
		removeBlobs(ctx, s.blobs, []pgtype.Text{receipt})
		return nil, err
	}
	return detail, nil
}

func (s *CheckoutService) persist(ctx context.Context, store CheckoutStore, req CheckoutRequest, branch database.Branch, c *cart.Cart, totals pricing.Totals, receipt pgtype.Text) (*OrderDetail, error) {
	var bank pgtype.Text
	if req.PaymentMethod == enum.PaymentMethodOnline {
		bank = pgtype.Text{String: req.BankName, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		FullName:            req.FullName,
		MobileNumber:        req.MobileNumber,
		AlternateMobile:     database.TextOrNull(req.AlternateMobile),
		DeliveryAddress:     database.TextOrNull(req.DeliveryAddress),
		NearestLandmark:     database.TextOrNull(req.NearestLandmark),
		Email:               database.TextOrNull(req.Email),
		PaymentInstructions: database.TextOrNull(req.PaymentInstructions),
		PaymentMethod:       req.PaymentMethod,
		ChangeRequest:       database.TextOrNull(req.ChangeRequest),
		Subtotal:            database.DecimalToNumeric(totals.Subtotal),
		Tax:                 database.DecimalToNumeric(totals.Tax),
		DeliveryFee:         database.DecimalToNumeric(totals.DeliveryFee),
		Discount:            database.DecimalToNumeric(totals.Discount),
		Total:               database.DecimalToNumeric(totals.GrandTotal),
		PromoCode:           database.TextOrNull(req.PromoCode),
		IsGift:              req.IsGift,
		GiftMessage:         database.TextOrNull(req.GiftMessage),
		OrderType:           req.OrderType,
		BranchID:            branch.ID,
		BankName:            bank,
		ReceiptImageUrl:     receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	lines := c.Items()
	items := make([]database.OrderItem, 0, len(lines))
	for i, line := range lines {
		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:  order.ID,
			Position: int32(i),
			ItemID:   line.ID,
			Name:     line.Title,
			Price:    database.DecimalToNumeric(line.Price),
			Type:     database.TextOrNull(line.Options[variationOption]),
			Quantity: int32(line.Quantity),
		})
		if err != nil {
			return nil, fmt.Errorf("create order item %d: %w", i, err)
		}
		items = append(items, item)
	}

	return &OrderDetail{
		OrderWithBranch: database.OrderWithBranch{Order: order, BranchName: branch.Name},
		Items:           items,
	}, nil
}

// normalizeCheckout trims the form, applies defaults and checks the fields
// that need no lookups.
func normalizeCheckout(req *CheckoutRequest) error {
	for _, f := range []*string{
		&req.FullName, &req.MobileNumber, &req.AlternateMobile, &req.DeliveryAddress,
		&req.NearestLandmark, &req.Email, &req.PaymentInstructions, &req.PaymentMethod,
		&req.ChangeRequest, &req.PromoCode, &req.GiftMessage, &req.OrderType,
		&req.BranchID, &req.BankName,
	} {
		*f = strings.TrimSpace(*f)
	}
	req.PaymentMethod = strings.ToLower(req.PaymentMethod)
	req.OrderType = strings.ToLower(req.OrderType)

	if req.FullName == "" {
		return invalidf("fullName is required")
	}
	if req.MobileNumber == "" {
		return invalidf("mobileNumber is required")
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = enum.PaymentMethodCOD
	}
	if !enum.IsPaymentMethod(req.PaymentMethod) {
		return invalidf("invalid paymentMethod")
	}
	if !enum.IsOrderType(req.OrderType) {
		return invalidf("invalid orderType")
	}
	if req.BranchID == "" {
		return invalidf("branch is required")
	}
	if req.OrderType == enum.OrderTypeDelivery && req.DeliveryAddress == "" {
		return invalidf("deliveryAddress is required for delivery orders")
	}
	if len(req.Items) == 0 {
		return invalidf("items are required")
	}
	if req.PaymentMethod == enum.PaymentMethodOnline {
		if req.Receipt == nil {
			return invalidf("receiptImage is required for online payment")
		}
		if req.BankName == "" {
			req.BankName = enum.DefaultBankName
		}
	} else {
		req.Receipt = nil
		req.BankName = ""
	}
	if !req.IsGift {
		req.GiftMessage = ""
	}
	return nil
}

// buildCart prices each line from the catalog and adds it to a fresh cart, so
// identical lines merge and the totals come from the cart's own bookkeeping.
func buildCart(ctx context.Context, store CheckoutStore, branchID uuid.UUID, lines []CheckoutItem) (*cart.Cart, error) {
	c := cart.New()
	for i, line := range lines {
		menuID, variation := resolveLine(line)
		if menuID == "" {
			return nil, invalidf("items[%d]: id is required", i)
		}
		id, err := uuid.Parse(menuID)
		if err != nil {
			return nil, invalidf("items[%d]: invalid id", i)
		}
		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 || qty > maxLineQuantity {
			return nil, invalidf("items[%d]: quantity must be between 1 and %d", i, maxLineQuantity)
		}

		food, err := store.GetFoodItem(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, invalidf("items[%d]: food item does not exist", i)
			}
			return nil, fmt.Errorf("items[%d]: get food item: %w", i, err)
		}
		if food.BranchID != branchID {
			return nil, invalidf("items[%d]: %s is not served at this branch", i, food.Title)
		}

		item, err := priceLine(food, variation)
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		idx, err := c.Add(item)
		if err != nil {
			return nil, invalidf("items[%d]: %v", i, err)
		}
		added := c.Items()[idx].Quantity + qty - 1
		if added > maxLineQuantity {
			return nil, invalidf("items[%d]: %s quantity must not exceed %d", i, item.Title, maxLineQuantity)
		}
		if err := c.UpdateQuantity(idx, added); err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return c, nil
}

// resolveLine finds the menu id and variation of a cart line.
func resolveLine(line CheckoutItem) (menuID, variation string) {
	src := line.ID.String()
	if src == "" {
		src = line.CartItemID
	}
	menuID, variation = ref.SplitCartItemID(src)
	if t := strings.TrimSpace(line.Type); t != "" {
		variation = t
	}
	return menuID, variation
}

// priceLine picks the named variation's price, or the flat price when no
// variation is named.
func priceLine(food database.FoodItem, variation string) (cart.Item, error) {
	item := cart.Item{ID: food.ID.String(), Title: food.Title}
	if variation == "" {
		if !food.Price.Valid {
			return cart.Item{}, invalidf("%s requires a variation", food.Title)
		}
		item.Price = database.NumericToDecimal(food.Price)
		return item, nil
	}
	for _, v := range food.Variations {
		if strings.EqualFold(v.Name, variation) {
			item.Price = v.Price
			item.Options = map[string]string{variationOption: v.Name}
			return item, nil
		}
	}
	return cart.Item{}, invalidf("%s has no variation %q", food.Title, variation)
}
