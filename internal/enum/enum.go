package enum

// ── Checked in the DB ──

const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

const (
	OrderTypeDelivery = "delivery"
	OrderTypePickup   = "pickup"
)

// ── API-only labels ──

// Order list date filters. Anything else is parsed as a YYYY-MM-DD calendar date.
const (
	DateFilterToday     = "today"
	DateFilterYesterday = "yesterday"
	DateFilterAll       = "all"
)

// Websocket event types.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// DefaultBankName is recorded on online orders whose customer left the bank blank.
const DefaultBankName = "Not specified"

func IsPaymentMethod(s string) bool {
	return s == PaymentMethodCOD || s == PaymentMethodOnline
}

func IsOrderType(s string) bool {
	return s == OrderTypeDelivery || s == OrderTypePickup
}
