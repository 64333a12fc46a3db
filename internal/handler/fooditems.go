package handler

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/dinehub/restaurant-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// FoodItemStore defines the database methods needed by food item handlers.
type FoodItemStore interface {
	ListFoodItems(ctx context.Context, arg database.ListFoodItemsParams) ([]database.ListFoodItemsRow, error)
	GetBranch(ctx context.Context, id uuid.UUID) (database.Branch, error)
	GetCategory(ctx context.Context, id uuid.UUID) (database.Category, error)
	GetSubcategory(ctx context.Context, id uuid.UUID) (database.Subcategory, error)
}

// FoodItemService is satisfied by *service.CatalogService.
type FoodItemService interface {
	CreateFoodItem(ctx context.Context, in service.FoodItemInput) (database.FoodItem, error)
	UpdateFoodItem(ctx context.Context, id uuid.UUID, p service.FoodItemPatch) (database.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id uuid.UUID) error
}

// FoodItemHandler handles food item endpoints. Writes take multipart forms so
// an image can travel with the fields.
type FoodItemHandler struct {
	store FoodItemStore
	svc   FoodItemService
}

// NewFoodItemHandler creates a new FoodItemHandler.
func NewFoodItemHandler(store FoodItemStore, svc FoodItemService) *FoodItemHandler {
	return &FoodItemHandler{store: store, svc: svc}
}

func (h *FoodItemHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
}

func (h *FoodItemHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

const foodImageField = "foodImage"

// List returns food items with branch, category and subcategory populated.
// ?branch=, ?category= and ?subcategory= narrow the result.
func (h *FoodItemHandler) List(w http.ResponseWriter, r *http.Request) {
	var params database.ListFoodItemsParams
	for _, f := range []struct {
		key string
		dst *pgtype.UUID
	}{
		{"branch", &params.BranchID},
		{"category", &params.CategoryID},
		{"subcategory", &params.SubcategoryID},
	} {
		id, ok := queryUUID(r, f.key)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "invalid "+f.key+" ID")
			return
		}
		*f.dst = id
	}

	rows, err := h.store.ListFoodItems(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list food items: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]foodItemResponse, len(rows))
	for i, row := range rows {
		resp[i] = toFoodItemResponse(row.FoodItem, foodItemNames{
			branch:      row.BranchName,
			category:    row.CategoryName,
			subcategory: row.SubcategoryName.String,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *FoodItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid form data")
		return
	}

	var in service.FoodItemInput
	in.Title, _ = formValue(r, "title")
	in.Description, _ = formValue(r, "description")
	in.Price, _ = formValue(r, "price")

	variations, _, err := formVariations(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid variations")
		return
	}
	in.Variations = variations

	for _, f := range []struct {
		key string
		dst *string
	}{
		{"category", &in.CategoryID},
		{"subcategory", &in.SubcategoryID},
		{"branch", &in.BranchID},
	} {
		id, _, err := formRefValue(r, f.key)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid "+f.key+" ID")
			return
		}
		*f.dst = id
	}

	image, closer, err := formUpload(r, foodImageField)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid food image")
		return
	}
	defer closer.Close()
	in.Image = image

	item, err := h.svc.CreateFoodItem(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "food item", "create food item")
		return
	}
	h.respond(w, r, http.StatusCreated, item)
}

// Update applies the fields present in the form; absent fields keep their
// stored value.
func (h *FoodItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid food item ID")
		return
	}
	if err := parseForm(r); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid form data")
		return
	}

	var p service.FoodItemPatch
	for _, f := range []struct {
		key string
		dst **string
	}{
		{"title", &p.Title},
		{"description", &p.Description},
		{"price", &p.Price},
	} {
		if v, ok := formValue(r, f.key); ok {
			*f.dst = &v
		}
	}
	for _, f := range []struct {
		key string
		dst **string
	}{
		{"category", &p.CategoryID},
		{"subcategory", &p.SubcategoryID},
		{"branch", &p.BranchID},
	} {
		v, ok, err := formRefValue(r, f.key)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid "+f.key+" ID")
			return
		}
		if ok {
			*f.dst = &v
		}
	}

	variations, ok, err := formVariations(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid variations")
		return
	}
	if ok {
		p.Variations = &variations
	}

	image, closer, err := formUpload(r, foodImageField)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid food image")
		return
	}
	defer closer.Close()
	p.Image = image

	item, err := h.svc.UpdateFoodItem(r.Context(), id, p)
	if err != nil {
		writeServiceError(w, err, "food item", "update food item")
		return
	}
	h.respond(w, r, http.StatusOK, item)
}

func (h *FoodItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid food item ID")
		return
	}

	if err := h.svc.DeleteFoodItem(r.Context(), id); err != nil {
		writeServiceError(w, err, "food item", "delete food item")
		return
	}
	writeMessage(w, http.StatusOK, "food item deleted")
}

// respond writes item with its reference names filled in.
func (h *FoodItemHandler) respond(w http.ResponseWriter, r *http.Request, status int, item database.FoodItem) {
	ctx := r.Context()
	var names foodItemNames

	branch, err := h.store.GetBranch(ctx, item.BranchID)
	if err != nil {
		log.Printf("ERROR: get branch: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	names.branch = branch.Name

	cat, err := h.store.GetCategory(ctx, item.CategoryID)
	if err != nil {
		log.Printf("ERROR: get category: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	names.category = cat.Name

	if item.SubcategoryID.Valid {
		sub, err := h.store.GetSubcategory(ctx, uuid.UUID(item.SubcategoryID.Bytes))
		if err != nil {
			log.Printf("ERROR: get subcategory: %v", err)
			writeMessage(w, http.StatusInternalServerError, "internal server error")
			return
		}
		names.subcategory = sub.Name
	}
	writeJSON(w, status, toFoodItemResponse(item, names))
}

// formVariations decodes the JSON-encoded variations field. A blank value is
// an empty list.
func formVariations(r *http.Request) ([]database.Variation, bool, error) {
	raw, ok := formValue(r, "variations")
	if !ok {
		return []database.Variation{}, false, nil
	}
	if raw == "" {
		return []database.Variation{}, true, nil
	}
	var vs []database.Variation
	if err := json.Unmarshal([]byte(raw), &vs); err != nil {
		return nil, true, err
	}
	if vs == nil {
		vs = []database.Variation{}
	}
	return vs, true, nil
}
