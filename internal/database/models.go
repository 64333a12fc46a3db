package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

type Branch struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

type Admin struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Category struct {
	ID        uuid.UUID
	Name      string
	BranchID  uuid.UUID
	CreatedAt time.Time
}

type Subcategory struct {
	ID         uuid.UUID
	Name       string
	CategoryID uuid.UUID
	BranchID   uuid.UUID
	CreatedAt  time.Time
}

// Variation is one priced variant of a food item, stored in the variations
// JSONB column.
type Variation struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type FoodItem struct {
	ID            uuid.UUID
	Title         string
	Description   pgtype.Text
	Price         pgtype.Numeric
	Variations    []Variation
	ImageUrl      pgtype.Text
	CategoryID    uuid.UUID
	SubcategoryID pgtype.UUID
	BranchID      uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type Order struct {
	ID                  uuid.UUID
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
	IsCompleted         bool
	OrderType           string
	BranchID            uuid.UUID
	BankName            pgtype.Text
	ReceiptImageUrl     pgtype.Text
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type OrderItem struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	Position int32
	ItemID   string
	Name     string
	Price    pgtype.Numeric
	Type     pgtype.Text
	Quantity int32
}
