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
	"github.com/jackc/pgx/v5/pgtype"
)

// CategoryStore defines the database methods needed by category handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type CategoryStore interface {
	ListCategories(ctx context.Context, branchID pgtype.UUID) ([]database.ListCategoriesRow, error)
	GetBranch(ctx context.Context, id uuid.UUID) (database.Branch, error)
	CreateCategory(ctx context.Context, arg database.CreateCategoryParams) (database.Category, error)
	UpdateCategory(ctx context.Context, arg database.UpdateCategoryParams) (database.Category, error)
}

// CategoryDeleter is satisfied by *service.CatalogService.
type CategoryDeleter interface {
	DeleteCategory(ctx context.Context, id uuid.UUID) (service.CascadeResult, error)
}

// CategoryHandler handles category CRUD endpoints.
type CategoryHandler struct {
	store   CategoryStore
	deleter CategoryDeleter
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(store CategoryStore, deleter CategoryDeleter) *CategoryHandler {
	return &CategoryHandler{store: store, deleter: deleter}
}

func (h *CategoryHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
}

func (h *CategoryHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request types ---

type createCategoryRequest struct {
	Name   string `json:"name"`
	Branch ref.ID `json:"branch"`
}

type updateCategoryRequest struct {
	Name string `json:"name"`
}

// --- Handlers ---

// List returns categories with their branch, optionally for one ?branch=.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	branchID, ok := queryUUID(r, "branch")
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	rows, err := h.store.ListCategories(r.Context(), branchID)
	if err != nil {
		log.Printf("ERROR: list categories: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]categoryResponse, len(rows))
	for i, row := range rows {
		resp[i] = toCategoryResponse(row.Category, row.BranchName)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Branch.IsZero() {
		writeMessage(w, http.StatusBadRequest, "branch is required")
		return
	}
	branchID, err := req.Branch.UUID()
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	branch, err := h.store.GetBranch(r.Context(), branchID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusBadRequest, "branch does not exist")
			return
		}
		log.Printf("ERROR: get branch: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	category, err := h.store.CreateCategory(r.Context(), database.CreateCategoryParams{
		Name:     req.Name,
		BranchID: branch.ID,
	})
	if err != nil {
		log.Printf("ERROR: create category: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(category, branch.Name))
}

// Update renames a category.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	category, err := h.store.UpdateCategory(r.Context(), database.UpdateCategoryParams{ID: id, Name: req.Name})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "category not found")
			return
		}
		log.Printf("ERROR: update category: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	branch, err := h.store.GetBranch(r.Context(), category.BranchID)
	if err != nil {
		log.Printf("ERROR: get branch: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(category, branch.Name))
}

// Delete removes the category together with its subcategories and food items.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid category ID")
		return
	}

	res, err := h.deleter.DeleteCategory(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "category", "delete category")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "category deleted",
		"deleted": res,
	})
}
