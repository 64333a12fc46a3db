package handler

import (
	"time"

	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/dinehub/restaurant-api/internal/service"
	"github.com/google/uuid"
)

// Money is always rendered as a fixed two-decimal string.

// refResponse is a populated reference to another entity.
type refResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type branchResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBranchResponse(b database.Branch) branchResponse {
	return branchResponse{ID: b.ID, Name: b.Name, CreatedAt: b.CreatedAt}
}

type categoryResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Branch    refResponse `json:"branch"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toCategoryResponse(c database.Category, branchName string) categoryResponse {
	return categoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Branch:    refResponse{ID: c.BranchID, Name: branchName},
		CreatedAt: c.CreatedAt,
	}
}

type subcategoryResponse struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Category  refResponse `json:"category"`
	Branch    refResponse `json:"branch"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toSubcategoryResponse(s database.Subcategory, categoryName, branchName string) subcategoryResponse {
	return subcategoryResponse{
		ID:        s.ID,
		Name:      s.Name,
		Category:  refResponse{ID: s.CategoryID, Name: categoryName},
		Branch:    refResponse{ID: s.BranchID, Name: branchName},
		CreatedAt: s.CreatedAt,
	}
}

type variationResponse struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type foodItemResponse struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description *string             `json:"description"`
	Price       *string             `json:"price"`
	Variations  []variationResponse `json:"variations"`
	ImageURL    *string             `json:"imageUrl"`
	Category    refResponse         `json:"category"`
	Subcategory *refResponse        `json:"subcategory"`
	Branch      refResponse         `json:"branch"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// foodItemNames are the display names of a food item's references.
type foodItemNames struct {
	branch      string
	category    string
	subcategory string
}

func toFoodItemResponse(f database.FoodItem, names foodItemNames) foodItemResponse {
	resp := foodItemResponse{
		ID:          f.ID,
		Title:       f.Title,
		Description: textPtr(f.Description),
		Variations:  make([]variationResponse, len(f.Variations)),
		ImageURL:    textPtr(f.ImageUrl),
		Category:    refResponse{ID: f.CategoryID, Name: names.category},
		Branch:      refResponse{ID: f.BranchID, Name: names.branch},
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
	if f.Price.Valid {
		p := database.NumericString(f.Price)
		resp.Price = &p
	}
	for i, v := range f.Variations {
		resp.Variations[i] = variationResponse{Name: v.Name, Price: v.Price.StringFixed(2)}
	}
	if f.SubcategoryID.Valid {
		resp.Subcategory = &refResponse{ID: uuid.UUID(f.SubcategoryID.Bytes), Name: names.subcategory}
	}
	return resp
}

type orderItemResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    string  `json:"price"`
	Type     *string `json:"type"`
	Quantity int32   `json:"quantity"`
}

type orderResponse struct {
	ID                  uuid.UUID           `json:"id"`
	FullName            string              `json:"fullName"`
	MobileNumber        string              `json:"mobileNumber"`
	AlternateMobile     *string             `json:"alternateMobile"`
	DeliveryAddress     *string             `json:"deliveryAddress"`
	NearestLandmark     *string             `json:"nearestLandmark"`
	Email               *string             `json:"email"`
	PaymentInstructions *string             `json:"paymentInstructions"`
	PaymentMethod       string              `json:"paymentMethod"`
	ChangeRequest       *string             `json:"changeRequest"`
	Items               []orderItemResponse `json:"items"`
	Subtotal            string              `json:"subtotal"`
	Tax                 string              `json:"tax"`
	DeliveryFee         string              `json:"deliveryFee"`
	Discount            string              `json:"discount"`
	Total               string              `json:"total"`
	PromoCode           *string             `json:"promoCode"`
	IsGift              bool                `json:"isGift"`
	GiftMessage         *string             `json:"giftMessage"`
	IsCompleted         bool                `json:"isCompleted"`
	OrderType           string              `json:"orderType"`
	Branch              refResponse         `json:"branch"`
	BankName            *string             `json:"bankName"`
	ReceiptImageURL     *string             `json:"receiptImageUrl"`
	CreatedAt           time.Time           `json:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt"`
}

func toOrderResponse(d service.OrderDetail) orderResponse {
	o := d.Order
	resp := orderResponse{
		ID:                  o.ID,
		FullName:            o.FullName,
		MobileNumber:        o.MobileNumber,
		AlternateMobile:     textPtr(o.AlternateMobile),
		DeliveryAddress:     textPtr(o.DeliveryAddress),
		NearestLandmark:     textPtr(o.NearestLandmark),
		Email:               textPtr(o.Email),
		PaymentInstructions: textPtr(o.PaymentInstructions),
		PaymentMethod:       o.PaymentMethod,
		ChangeRequest:       textPtr(o.ChangeRequest),
		Items:               make([]orderItemResponse, len(d.Items)),
		Subtotal:            database.NumericString(o.Subtotal),
		Tax:                 database.NumericString(o.Tax),
		DeliveryFee:         database.NumericString(o.DeliveryFee),
		Discount:            database.NumericString(o.Discount),
		Total:               database.NumericString(o.Total),
		PromoCode:           textPtr(o.PromoCode),
		IsGift:              o.IsGift,
		GiftMessage:         textPtr(o.GiftMessage),
		IsCompleted:         o.IsCompleted,
		OrderType:           o.OrderType,
		Branch:              refResponse{ID: o.BranchID, Name: d.BranchName},
		BankName:            textPtr(o.BankName),
		ReceiptImageURL:     textPtr(o.ReceiptImageUrl),
		CreatedAt:           o.CreatedAt,
		UpdatedAt:           o.UpdatedAt,
	}
	for i, it := range d.Items {
		resp.Items[i] = orderItemResponse{
			ID:       it.ItemID,
			Name:     it.Name,
			Price:    database.NumericString(it.Price),
			Type:     textPtr(it.Type),
			Quantity: it.Quantity,
		}
	}
	return resp
}
