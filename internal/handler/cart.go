package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dinehub/restaurant-api/internal/cart"
	"github.com/dinehub/restaurant-api/internal/enum"
	"github.com/dinehub/restaurant-api/internal/pricing"
	"github.com/dinehub/restaurant-api/internal/ref"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxQuoteQuantity = 99

// CartHandler quotes storefront carts. Nothing is persisted: the cart lives in
// the request and the totals come from the pricing engine.
type CartHandler struct {
	pricing pricing.Config
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(cfg pricing.Config) *CartHandler {
	return &CartHandler{pricing: cfg}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Post("/quote", h.Quote)
}

// --- Request / Response types ---

type quoteItem struct {
	ID       ref.ID            `json:"id"`
	Title    string            `json:"title"`
	Price    decimal.Decimal   `json:"price"`
	Quantity int               `json:"quantity"`
	Options  map[string]string `json:"options"`
}

type quoteRequest struct {
	OrderType string      `json:"orderType"`
	Items     []quoteItem `json:"items"`
}

type cartLineResponse struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Price    string            `json:"price"`
	Quantity int               `json:"quantity"`
	Options  map[string]string `json:"options,omitempty"`
}

type cartResponse struct {
	Items     []cartLineResponse `json:"items"`
	Total     string             `json:"total"`
	ItemCount int                `json:"itemCount"`
}

type totalsResponse struct {
	Subtotal    string `json:"subtotal"`
	Tax         string `json:"tax"`
	DeliveryFee string `json:"deliveryFee"`
	Discount    string `json:"discount"`
	GrandTotal  string `json:"grandTotal"`
}

type quoteResponse struct {
	OrderType     string         `json:"orderType"`
	Cart          cartResponse   `json:"cart"`
	Totals        totalsResponse `json:"totals"`
	Notifications []cart.Event   `json:"notifications"`
}

// --- Handlers ---

// Quote replays the posted lines into a cart and prices it. Prices are taken
// as sent; checkout re-prices from the catalog.
func (h *CartHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OrderType = strings.ToLower(strings.TrimSpace(req.OrderType))
	if req.OrderType == "" {
		req.OrderType = enum.OrderTypeDelivery
	}
	if !enum.IsOrderType(req.OrderType) {
		writeMessage(w, http.StatusBadRequest, "orderType must be delivery or pickup")
		return
	}

	notifications := []cart.Event{}
	c := cart.New(cart.WithNotifier(cart.NotifierFunc(func(e cart.Event) {
		notifications = append(notifications, e)
	})))
	if err := fillCart(c, req.Items); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	totals := pricing.Compute(c, h.pricing.ForOrderType(req.OrderType))
	writeJSON(w, http.StatusOK, quoteResponse{
		OrderType:     req.OrderType,
		Cart:          toCartResponse(c.State()),
		Totals:        toTotalsResponse(totals),
		Notifications: notifications,
	})
}

// fillCart adds each posted line, merging lines with the same id and options.
func fillCart(c *cart.Cart, items []quoteItem) error {
	for i, it := range items {
		qty := it.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 || qty > maxQuoteQuantity {
			return fmt.Errorf("items[%d]: quantity must be between 1 and %d", i, maxQuoteQuantity)
		}
		idx, err := c.Add(cart.Item{ID: it.ID.String(), Title: it.Title, Price: it.Price, Options: it.Options})
		if err != nil {
			return fmt.Errorf("items[%d]: %v", i, err)
		}
		merged := c.Items()[idx].Quantity + qty - 1
		if merged > maxQuoteQuantity {
			return fmt.Errorf("items[%d]: %s quantity must not exceed %d", i, it.Title, maxQuoteQuantity)
		}
		if qty > 1 {
			if err := c.UpdateQuantity(idx, merged); err != nil {
				return fmt.Errorf("items[%d]: %v", i, err)
			}
		}
	}
	return nil
}

func toCartResponse(s cart.State) cartResponse {
	resp := cartResponse{
		Items:     make([]cartLineResponse, len(s.Items)),
		Total:     s.Total.StringFixed(2),
		ItemCount: s.ItemCount,
	}
	for i, it := range s.Items {
		resp.Items[i] = cartLineResponse{
			ID:       it.ID,
			Title:    it.Title,
			Price:    it.Price.StringFixed(2),
			Quantity: it.Quantity,
			Options:  it.Options,
		}
	}
	return resp
}

func toTotalsResponse(t pricing.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:    t.Subtotal.StringFixed(2),
		Tax:         t.Tax.StringFixed(2),
		DeliveryFee: t.DeliveryFee.StringFixed(2),
		Discount:    t.Discount.StringFixed(2),
		GrandTotal:  t.GrandTotal.StringFixed(2),
	}
}
