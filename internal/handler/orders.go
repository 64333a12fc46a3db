package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/dinehub/restaurant-api/internal/enum"
	"github.com/dinehub/restaurant-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderService is satisfied by *service.OrderService.
type OrderService interface {
	List(ctx context.Context, f service.OrderFilter) ([]service.OrderDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*service.OrderDetail, error)
	SetCompleted(ctx context.Context, id uuid.UUID, completed *bool) (*service.OrderDetail, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// OrderHandler handles the admin order endpoints.
type OrderHandler struct {
	svc    OrderService
	events OrderEvents
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(svc OrderService, events OrderEvents) *OrderHandler {
	return &OrderHandler{svc: svc, events: events}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type updateOrderRequest struct {
	IsCompleted *bool `json:"isCompleted"`
}

// List returns orders newest first. ?date= takes today, yesterday, all or a
// YYYY-MM-DD date; ?orderType= and ?branch= narrow further.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	branch, err := formRef(q.Get("branch"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	orders, err := h.svc.List(r.Context(), service.OrderFilter{
		Date:      q.Get("date"),
		OrderType: q.Get("orderType"),
		BranchID:  branch,
	})
	if err != nil {
		writeServiceError(w, err, "order", "list orders")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "order", "get order")
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

// Update sets isCompleted to the given value. An empty body, or one without
// isCompleted, toggles it instead.
func (h *OrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var req updateOrderRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	order, err := h.svc.SetCompleted(r.Context(), id, req.IsCompleted)
	if err != nil {
		writeServiceError(w, err, "order", "update order")
		return
	}

	resp := toOrderResponse(*order)
	if h.events != nil {
		h.events.OrderChanged(r.Context(), enum.EventOrderUpdated, order.BranchID, resp)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	branchID, err := h.svc.Delete(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "order", "delete order")
		return
	}

	if h.events != nil {
		h.events.OrderChanged(r.Context(), enum.EventOrderDeleted, branchID, map[string]string{"id": id.String()})
	}
	writeMessage(w, http.StatusOK, "order deleted")
}
