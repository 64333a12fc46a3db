package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/dinehub/restaurant-api/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// CatalogStore defines the DB methods needed for catalog writes.
// Satisfied by *database.Queries (and its WithTx variant).
type CatalogStore interface {
	GetBranch(ctx context.Context, id uuid.UUID) (database.Branch, error)
	CountBranchReferences(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteBranch(ctx context.Context, id uuid.UUID) (uuid.UUID, error)

	GetCategory(ctx context.Context, id uuid.UUID) (database.Category, error)
	CountSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error)

	GetSubcategory(ctx context.Context, id uuid.UUID) (database.Subcategory, error)
	CreateSubcategory(ctx context.Context, arg database.CreateSubcategoryParams) (database.Subcategory, error)
	DeleteSubcategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	DeleteSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error)

	GetFoodItem(ctx context.Context, id uuid.UUID) (database.FoodItem, error)
	CreateFoodItem(ctx context.Context, arg database.CreateFoodItemParams) (database.FoodItem, error)
	UpdateFoodItem(ctx context.Context, arg database.UpdateFoodItemParams) (database.FoodItem, error)
	DeleteFoodItem(ctx context.Context, id uuid.UUID) (pgtype.Text, error)
	DeleteFoodItemsBySubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]pgtype.Text, error)
	DeleteFoodItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]pgtype.Text, error)
}

// NewCatalogStore creates a CatalogStore from a DBTX (pool or tx).
type NewCatalogStore func(db database.DBTX) CatalogStore

// CatalogService handles catalog writes that span several rows or a blob.
type CatalogService struct {
	pool     TxBeginner
	newStore NewCatalogStore
	blobs    BlobStore
}

func NewCatalogService(pool TxBeginner, newStore NewCatalogStore, blobs BlobStore) *CatalogService {
	return &CatalogService{pool: pool, newStore: newStore, blobs: blobs}
}

// CascadeResult counts the dependent rows removed with a parent.
type CascadeResult struct {
	Subcategories int `json:"subcategories"`
	FoodItems     int `json:"foodItems"`
}

// withTx runs fn in a transaction and commits when it returns nil.
func (s *CatalogService) withTx(ctx context.Context, fn func(store CatalogStore) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(s.newStore(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// DeleteBranch removes a branch nothing points at. Branches referenced by
// categories or orders are refused.
func (s *CatalogService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	return s.withTx(ctx, func(store CatalogStore) error {
		if _, err := store.GetBranch(ctx, id); err != nil {
			return notFound(err, "get branch")
		}
		refs, err := store.CountBranchReferences(ctx, id)
		if err != nil {
			return fmt.Errorf("count branch references: %w", err)
		}
		if refs > 0 {
			return invalidf("branch is still referenced by %d categories or orders", refs)
		}
		if _, err := store.DeleteBranch(ctx, id); err != nil {
			if isForeignKeyViolation(err) {
				return invalidf("branch is still referenced")
			}
			return notFound(err, "delete branch")
		}
		return nil
	})
}

// DeleteCategory removes the category with its subcategories and every food
// item filed under either, all or nothing. Leaves go first so no row ever
// points at a deleted parent.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) (CascadeResult, error) {
	var (
		res    CascadeResult
		images []pgtype.Text
	)
	err := s.withTx(ctx, func(store CatalogStore) error {
		if _, err := store.GetCategory(ctx, id); err != nil {
			return notFound(err, "get category")
		}
		var err error
		images, err = store.DeleteFoodItemsByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("delete food items: %w", err)
		}
		subs, err := store.DeleteSubcategoriesByCategory(ctx, id)
		if err != nil {
			return fmt.Errorf("delete subcategories: %w", err)
		}
		if _, err := store.DeleteCategory(ctx, id); err != nil {
			return notFound(err, "delete category")
		}
		res = CascadeResult{Subcategories: len(subs), FoodItems: len(images)}
		return nil
	})
	if err != nil {
		return CascadeResult{}, err
	}
	removeBlobs(ctx, s.blobs, images)
	return res, nil
}

// DeleteSubcategory removes the subcategory and its food items, all or nothing.
func (s *CatalogService) DeleteSubcategory(ctx context.Context, id uuid.UUID) (CascadeResult, error) {
	var (
		res    CascadeResult
		images []pgtype.Text
	)
	err := s.withTx(ctx, func(store CatalogStore) error {
		if _, err := store.GetSubcategory(ctx, id); err != nil {
			return notFound(err, "get subcategory")
		}
		var err error
		images, err = store.DeleteFoodItemsBySubcategory(ctx, id)
		if err != nil {
			return fmt.Errorf("delete food items: %w", err)
		}
		if _, err := store.DeleteSubcategory(ctx, id); err != nil {
			return notFound(err, "delete subcategory")
		}
		res = CascadeResult{Subcategories: 1, FoodItems: len(images)}
		return nil
	})
	if err != nil {
		return CascadeResult{}, err
	}
	removeBlobs(ctx, s.blobs, images)
	return res, nil
}

// CreateSubcategory files a new subcategory under an existing category. The
// branch defaults to the category's branch and must match it when given.
func (s *CatalogService) CreateSubcategory(ctx context.Context, name, categoryID, branchID string) (database.Subcategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return database.Subcategory{}, invalidf("name is required")
	}
	catID, err := parseID(categoryID, "category")
	if err != nil {
		return database.Subcategory{}, err
	}

	var sub database.Subcategory
	err = s.withTx(ctx, func(store CatalogStore) error {
		cat, err := store.GetCategory(ctx, catID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return invalidf("category does not exist")
			}
			return fmt.Errorf("get category: %w", err)
		}
		branch, err := resolveBranch(branchID, cat)
		if err != nil {
			return err
		}
		sub, err = store.CreateSubcategory(ctx, database.CreateSubcategoryParams{
			Name:       name,
			CategoryID: cat.ID,
			BranchID:   branch,
		})
		if err != nil {
			return fmt.Errorf("create subcategory: %w", err)
		}
		return nil
	})
	return sub, err
}

func resolveBranch(raw string, cat database.Category) (uuid.UUID, error) {
	if raw == "" {
		return cat.BranchID, nil
	}
	id, err := parseID(raw, "branch")
	if err != nil {
		return uuid.Nil, err
	}
	if id != cat.BranchID {
		return uuid.Nil, invalidf("category belongs to a different branch")
	}
	return id, nil
}

// FoodItemInput is a full food item form. Price is the raw form value; empty
// means no flat price.
type FoodItemInput struct {
	Title         string
	Description   string
	Price         string
	Variations    []database.Variation
	CategoryID    string
	SubcategoryID string
	BranchID      string
	Image         *Upload
}

// FoodItemPatch is a partial food item form. Nil fields keep their value.
type FoodItemPatch struct {
	Title         *string
	Description   *string
	Price         *string
	Variations    *[]database.Variation
	CategoryID    *string
	SubcategoryID *string
	BranchID      *string
	Image         *Upload
}

// foodItemFields is a food item after parsing, before placement checks.
type foodItemFields struct {
	title         string
	description   pgtype.Text
	price         pgtype.Numeric
	variations    []database.Variation
	categoryID    uuid.UUID
	subcategoryID pgtype.UUID
	branchRaw     string
	imageURL      pgtype.Text
}

// CreateFoodItem validates the form, stores the image and inserts the item.
// The image is removed again when the insert fails.
func (s *CatalogService) CreateFoodItem(ctx context.Context, in FoodItemInput) (database.FoodItem, error) {
	f := foodItemFields{
		title:       strings.TrimSpace(in.Title),
		description: database.TextOrNull(strings.TrimSpace(in.Description)),
		variations:  in.Variations,
		branchRaw:   in.BranchID,
	}
	if err := f.setPrice(in.Price); err != nil {
		return database.FoodItem{}, err
	}
	catID, err := parseID(in.CategoryID, "category")
	if err != nil {
		return database.FoodItem{}, err
	}
	f.categoryID = catID
	if err := f.setSubcategory(in.SubcategoryID); err != nil {
		return database.FoodItem{}, err
	}
	if err := f.validate(); err != nil {
		return database.FoodItem{}, err
	}

	uploaded, err := s.upload(ctx, in.Image)
	if err != nil {
		return database.FoodItem{}, err
	}
	f.imageURL = uploaded

	var item database.FoodItem
	err = s.withTx(ctx, func(store CatalogStore) error {
		branch, err := placeFoodItem(ctx, store, &f)
		if err != nil {
			return err
		}
		item, err = store.CreateFoodItem(ctx, database.CreateFoodItemParams{
			Title:         f.title,
			Description:   f.description,
			Price:         f.price,
			Variations:    f.variations,
			ImageUrl:      f.imageURL,
			CategoryID:    f.categoryID,
			SubcategoryID: f.subcategoryID,
			BranchID:      branch,
		})
		if err != nil {
			return fmt.Errorf("create food item: %w", err)
		}
		return nil
	})
	if err != nil {
		removeBlobs(ctx, s.blobs, []pgtype.Text{uploaded})
		return database.FoodItem{}, err
	}
	return item, nil
}

// UpdateFoodItem applies a partial form. Moving an item to another category
// drops its subcategory unless a new one is given. A replaced image is deleted
// after the update commits.
func (s *CatalogService) UpdateFoodItem(ctx context.Context, id uuid.UUID, p FoodItemPatch) (database.FoodItem, error) {
	uploaded, err := s.upload(ctx, p.Image)
	if err != nil {
		return database.FoodItem{}, err
	}

	var (
		item     database.FoodItem
		oldImage pgtype.Text
	)
	err = s.withTx(ctx, func(store CatalogStore) error {
		cur, err := store.GetFoodItem(ctx, id)
		if err != nil {
			return notFound(err, "get food item")
		}

		f := foodItemFields{
			title:         cur.Title,
			description:   cur.Description,
			price:         cur.Price,
			variations:    cur.Variations,
			categoryID:    cur.CategoryID,
			subcategoryID: cur.SubcategoryID,
			branchRaw:     cur.BranchID.String(),
			imageURL:      cur.ImageUrl,
		}
		if p.Title != nil {
			f.title = strings.TrimSpace(*p.Title)
		}
		if p.Description != nil {
			f.description = database.TextOrNull(strings.TrimSpace(*p.Description))
		}
		if p.Price != nil {
			if err := f.setPrice(*p.Price); err != nil {
				return err
			}
		}
		if p.Variations != nil {
			f.variations = *p.Variations
		}
		if p.CategoryID != nil {
			catID, err := parseID(*p.CategoryID, "category")
			if err != nil {
				return err
			}
			if catID != f.categoryID {
				f.categoryID = catID
				f.subcategoryID = pgtype.UUID{}
				if p.BranchID == nil {
					f.branchRaw = ""
				}
			}
		}
		if p.SubcategoryID != nil {
			if err := f.setSubcategory(*p.SubcategoryID); err != nil {
				return err
			}
		}
		if p.BranchID != nil {
			f.branchRaw = *p.BranchID
		}
		if uploaded.Valid {
			oldImage = cur.ImageUrl
			f.imageURL = uploaded
		}
		if err := f.validate(); err != nil {
			return err
		}

		branch, err := placeFoodItem(ctx, store, &f)
		if err != nil {
			return err
		}
		item, err = store.UpdateFoodItem(ctx, database.UpdateFoodItemParams{
			ID:            id,
			Title:         f.title,
			Description:   f.description,
			Price:         f.price,
			Variations:    f.variations,
			ImageUrl:      f.imageURL,
			CategoryID:    f.categoryID,
			SubcategoryID: f.subcategoryID,
			BranchID:      branch,
		})
		if err != nil {
			return notFound(err, "update food item")
		}
		return nil
	})
	if err != nil {
		removeBlobs(ctx, s.blobs, []pgtype.Text{uploaded})
		return database.FoodItem{}, err
	}
	removeBlobs(ctx, s.blobs, []pgtype.Text{oldImage})
	return item, nil
}

// DeleteFoodItem removes the item and then its image.
func (s *CatalogService) DeleteFoodItem(ctx context.Context, id uuid.UUID) error {
	var image pgtype.Text
	err := s.withTx(ctx, func(store CatalogStore) error {
		var err error
		image, err = store.DeleteFoodItem(ctx, id)
		if err != nil {
			return notFound(err, "delete food item")
		}
		return nil
	})
	if err != nil {
		return err
	}
	removeBlobs(ctx, s.blobs, []pgtype.Text{image})
	return nil
}

func (s *CatalogService) upload(ctx context.Context, up *Upload) (pgtype.Text, error) {
	if up == nil || s.blobs == nil {
		return pgtype.Text{}, nil
	}
	url, err := s.blobs.Put(ctx, storage.FoodImageFolder, up.Filename, up.Body)
	if err != nil {
		return pgtype.Text{}, fmt.Errorf("store food image: %w", err)
	}
	return pgtype.Text{String: url, Valid: true}, nil
}

func (f *foodItemFields) setPrice(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		f.price = pgtype.Numeric{}
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return invalidf("invalid price")
	}
	if d.IsNegative() {
		return invalidf("price must not be negative")
	}
	f.price = database.DecimalToNumeric(d)
	return nil
}

func (f *foodItemFields) setSubcategory(raw string) error {
	if raw == "" {
		f.subcategoryID = pgtype.UUID{}
		return nil
	}
	id, err := parseID(raw, "subcategory")
	if err != nil {
		return err
	}
	f.subcategoryID = pgtype.UUID{Bytes: id, Valid: true}
	return nil
}

// validate checks the fields that need no lookups.
func (f *foodItemFields) validate() error {
	if f.title == "" {
		return invalidf("title is required")
	}
	seen := make(map[string]bool, len(f.variations))
	for i, v := range f.variations {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return invalidf("variations[%d]: name is required", i)
		}
		if v.Price.IsNegative() {
			return invalidf("variations[%d]: price must not be negative", i)
		}
		if seen[name] {
			return invalidf("variations[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
		f.variations[i].Name = name
	}
	if f.variations == nil {
		f.variations = []database.Variation{}
	}
	if !f.price.Valid && len(f.variations) == 0 {
		return invalidf("price is required when there are no variations")
	}
	return nil
}

// placeFoodItem checks the category and subcategory exist and fit together,
// and resolves the branch. A category with subcategories requires one.
func placeFoodItem(ctx context.Context, store CatalogStore, f *foodItemFields) (uuid.UUID, error) {
	cat, err := store.GetCategory(ctx, f.categoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, invalidf("category does not exist")
		}
		return uuid.Nil, fmt.Errorf("get category: %w", err)
	}

	if f.subcategoryID.Valid {
		sub, err := store.GetSubcategory(ctx, uuid.UUID(f.subcategoryID.Bytes))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return uuid.Nil, invalidf("subcategory does not exist")
			}
			return uuid.Nil, fmt.Errorf("get subcategory: %w", err)
		}
		if sub.CategoryID != cat.ID {
			return uuid.Nil, invalidf("subcategory does not belong to the category")
		}
	} else {
		n, err := store.CountSubcategoriesByCategory(ctx, cat.ID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("count subcategories: %w", err)
		}
		if n > 0 {
			return uuid.Nil, invalidf("subcategory is required for this category")
		}
	}

	return resolveBranch(f.branchRaw, cat)
}
