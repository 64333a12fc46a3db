package handler

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/dinehub/restaurant-api/internal/enum"
	"github.com/dinehub/restaurant-api/internal/ref"
	"github.com/dinehub/restaurant-api/internal/service"
	"github.com/go-chi/chi/v5"
)

// CheckoutService is satisfied by *service.CheckoutService.
type CheckoutService interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (*service.OrderDetail, error)
}

// CheckoutHandler turns storefront carts into orders.
type CheckoutHandler struct {
	svc    CheckoutService
	events OrderEvents
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(svc CheckoutService, events OrderEvents) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, events: events}
}

func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.Checkout)
}

const receiptImageField = "receiptImage"

// checkoutJSON is the JSON form of a checkout. Multipart submissions carry the
// same field names, with items as a JSON string.
type checkoutJSON struct {
	FullName            string                 `json:"fullName"`
	MobileNumber        string                 `json:"mobileNumber"`
	AlternateMobile     string                 `json:"alternateMobile"`
	DeliveryAddress     string                 `json:"deliveryAddress"`
	NearestLandmark     string                 `json:"nearestLandmark"`
	Email               string                 `json:"email"`
	PaymentInstructions string                 `json:"paymentInstructions"`
	PaymentMethod       string                 `json:"paymentMethod"`
	ChangeRequest       string                 `json:"changeRequest"`
	PromoCode           string                 `json:"promoCode"`
	IsGift              bool                   `json:"isGift"`
	GiftMessage         string                 `json:"giftMessage"`
	OrderType           string                 `json:"orderType"`
	Branch              ref.ID                 `json:"branch"`
	BankName            string                 `json:"bankName"`
	Items               []service.CheckoutItem `json:"items"`
}

// Checkout accepts either a multipart form (needed for a receipt image) or a
// JSON body and answers with the created order.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var (
		req service.CheckoutRequest
		ok  bool
	)
	if isJSON(r) {
		req, ok = decodeCheckoutJSON(w, r)
		if !ok {
			return
		}
	} else {
		if err := parseForm(r); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid form data")
			return
		}
		req, ok = decodeCheckoutForm(w, r)
		if !ok {
			return
		}
		receipt, closer, err := formUpload(r, receiptImageField)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid receipt image")
			return
		}
		defer closer.Close()
		req.Receipt = receipt
	}

	detail, err := h.svc.Checkout(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, "order", "checkout")
		return
	}

	resp := toOrderResponse(*detail)
	if h.events != nil {
		h.events.OrderChanged(r.Context(), enum.EventOrderCreated, detail.BranchID, resp)
	}
	writeJSON(w, http.StatusCreated, resp)
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}

func decodeCheckoutJSON(w http.ResponseWriter, r *http.Request) (service.CheckoutRequest, bool) {
	var body checkoutJSON
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return service.CheckoutRequest{}, false
	}
	return service.CheckoutRequest{
		FullName:            body.FullName,
		MobileNumber:        body.MobileNumber,
		AlternateMobile:     body.AlternateMobile,
		DeliveryAddress:     body.DeliveryAddress,
		NearestLandmark:     body.NearestLandmark,
		Email:               body.Email,
		PaymentInstructions: body.PaymentInstructions,
		PaymentMethod:       body.PaymentMethod,
		ChangeRequest:       body.ChangeRequest,
		PromoCode:           body.PromoCode,
		IsGift:              body.IsGift,
		GiftMessage:         body.GiftMessage,
		OrderType:           body.OrderType,
		BranchID:            body.Branch.String(),
		BankName:            body.BankName,
		Items:               body.Items,
	}, true
}

func decodeCheckoutForm(w http.ResponseWriter, r *http.Request) (service.CheckoutRequest, bool) {
	var req service.CheckoutRequest
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"fullName", &req.FullName},
		{"mobileNumber", &req.MobileNumber},
		{"alternateMobile", &req.AlternateMobile},
		{"deliveryAddress", &req.DeliveryAddress},
		{"nearestLandmark", &req.NearestLandmark},
		{"email", &req.Email},
		{"paymentInstructions", &req.PaymentInstructions},
		{"paymentMethod", &req.PaymentMethod},
		{"changeRequest", &req.ChangeRequest},
		{"promoCode", &req.PromoCode},
		{"giftMessage", &req.GiftMessage},
		{"orderType", &req.OrderType},
		{"bankName", &req.BankName},
	} {
		*f.dst, _ = formValue(r, f.key)
	}
	req.IsGift = formBool(r, "isGift")

	branch, _, err := formRefValue(r, "branch")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid branch ID")
		return req, false
	}
	req.BranchID = branch

	if raw, ok := formValue(r, "items"); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Items); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid items")
			return req, false
		}
	}
	return req, true
}
