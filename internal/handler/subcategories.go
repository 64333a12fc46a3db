package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/dinehub/restaurant-api/internal/ref"
	"github.com/dinehub/restaurant-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SubcategoryStore defines the database methods needed by subcategory handlers.
type SubcategoryStore interface {
	ListSubcategories(ctx context.Context, arg database.ListSubcategoriesParams) ([]database.ListSubcategoriesRow, error)
	GetCategory(ctx context.Context, id uuid.UUID) (database.Category, error)
	GetBranch(ctx context.Context, id uuid.UUID) (database.Branch, error)
	UpdateSubcategory(ctx context.Context, arg database.UpdateSubcategoryParams) (database.Subcategory, error)
}

// SubcategoryService is satisfied by *service.CatalogService.
type SubcategoryService interface {
	CreateSubcategory(ctx context.Context, name, categoryID, branchID string) (database.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) (service.CascadeResult, error)
}

// SubcategoryHandler handles subcategory CRUD endpoints.
type SubcategoryHandler struct {
	store SubcategoryStore
	svc   SubcategoryService
}

// NewSubcategoryHandler creates a new SubcategoryHandler.
func NewSubcategoryHandler(store SubcategoryStore, svc SubcategoryService) *SubcategoryHandler {
	return &SubcategoryHandler{store: store, svc: svc}
}

func (h *SubcategoryHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
}

func (h *SubcategoryHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

type createSubcategoryRequest struct {
	Name     string `json:"name"`
	Category ref.ID `json:"category"`
	Branch   ref.ID `json:"branch"`
}

type updateSubcategoryRequest struct {
	Name string `json:"name"`
}

// List returns subcategories with category and branch populated, filtered by
// the optional ?branch= and ?category= parameters.
func (h *SubcategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	branchID, ok := queryUUID(r, "branch")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid branch ID")
		return
	}
	categoryID, ok := queryUUID(r, "category")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	rows, err := h.store.ListSubcategories(r.Context(), database.ListSubcategoriesParams{
		BranchID:   branchID,
		CategoryID: categoryID,
	})
	if err != nil {
		log.Printf("ERROR: list subcategories: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]subcategoryResponse, len(rows))
	for i, row := range rows {
		resp[i] = toSubcategoryResponse(row.Subcategory, row.CategoryName, row.BranchName)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SubcategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSubcategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := h.svc.CreateSubcategory(r.Context(), req.Name, req.Category.String(), req.Branch.String())
	if err != nil {
		writeServiceError(w, err, "subcategory", "create subcategory")
		return
	}
	h.respond(w, r, http.StatusCreated, sub)
}

// Update renames a subcategory.
func (h *SubcategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid subcategory ID")
		return
	}

	var req updateSubcategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	sub, err := h.store.UpdateSubcategory(r.Context(), database.UpdateSubcategoryParams{ID: id, Name: req.Name})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "subcategory not found")
			return
		}
		log.Printf("ERROR: update subcategory: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	h.respond(w, r, http.StatusOK, sub)
}

// Delete removes the subcategory and every food item filed under it.
func (h *SubcategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid subcategory ID")
		return
	}

	res, err := h.svc.DeleteSubcategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "subcategory", "delete subcategory")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "subcategory deleted",
		"deleted": res,
	})
}

// respond writes sub with its category and branch names filled in.
func (h *SubcategoryHandler) respond(w http.ResponseWriter, r *http.Request, status int, sub database.Subcategory) {
	cat, err := h.store.GetCategory(r.Context(), sub.CategoryID)
	if err != nil {
		log.Printf("ERROR: get category: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	branch, err := h.store.GetBranch(r.Context(), sub.BranchID)
	if err != nil {
		log.Printf("ERROR: get branch: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, status, toSubcategoryResponse(sub, cat.Name, branch.Name))
}
