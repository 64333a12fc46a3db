package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	qrcode "github.com/skip2/go-qrcode"
)

const qrCodeSize = 256

// BranchStore defines the database methods needed by branch handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type BranchStore interface {
	ListBranches(ctx context.Context) ([]database.Branch, error)
	GetBranch(ctx context.Context, id uuid.UUID) (database.Branch, error)
	CreateBranch(ctx context.Context, name string) (database.Branch, error)
}

// BranchDeleter is satisfied by *service.CatalogService.
type BranchDeleter interface {
	DeleteBranch(ctx context.Context, id uuid.UUID) error
}

// BranchHandler handles branch endpoints.
type BranchHandler struct {
	store         BranchStore
	deleter       BranchDeleter
	storefrontURL string
}

// NewBranchHandler creates a new BranchHandler. storefrontURL is encoded in
// the branch QR codes.
func NewBranchHandler(store BranchStore, deleter BranchDeleter, storefrontURL string) *BranchHandler {
	return &BranchHandler{store: store, deleter: deleter, storefrontURL: strings.TrimRight(storefrontURL, "/")}
}

// RegisterPublicRoutes registers the read-only endpoints.
func (h *BranchHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}/qrcode", h.QRCode)
}

// RegisterAdminRoutes registers endpoints that need an admin session.
func (h *BranchHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
}

type createBranchRequest struct {
	Name string `json:"name"`
}

// List returns every branch.
func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	branches, err := h.store.ListBranches(r.Context())
	if err != nil {
		log.Printf("ERROR: list branches: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := make([]branchResponse, len(branches))
	for i, b := range branches {
		resp[i] = toBranchResponse(b)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBranchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeMessage(w, http.StatusBadRequest, "name is required")
		return
	}

	branch, err := h.store.CreateBranch(r.Context(), req.Name)
	if err != nil {
		log.Printf("ERROR: create branch: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, toBranchResponse(branch))
}

// Delete removes a branch that no category or order references.
func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	if err := h.deleter.DeleteBranch(r.Context(), id); err != nil {
		writeServiceError(w, err, "branch", "delete branch")
		return
	}
	writeMessage(w, http.StatusOK, "branch deleted")
}

// QRCode renders a PNG linking to the storefront with the branch preselected.
func (h *BranchHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	if _, err := h.store.GetBranch(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeMessage(w, http.StatusNotFound, "branch not found")
			return
		}
		log.Printf("ERROR: get branch: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}

	png, err := qrcode.Encode(h.storefrontLink(id), qrcode.Medium, qrCodeSize)
	if err != nil {
		log.Printf("ERROR: encode branch qr code: %v", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(png) //nolint:errcheck
}

func (h *BranchHandler) storefrontLink(id uuid.UUID) string {
	return h.storefrontURL + "/?branch=" + url.QueryEscape(id.String())
}
