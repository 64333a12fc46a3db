package handler_test

import (
	"context"
	"sort"
	"time"

	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/dinehub/restaurant-api/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// --- Catalog store ---

// mockCatalog implements the read side of every catalog handler store.
type mockCatalog struct {
	branches      map[uuid.UUID]database.Branch
	categories    map[uuid.UUID]database.Category
	subcategories map[uuid.UUID]database.Subcategory
	foodItems     map[uuid.UUID]database.FoodItem
	clock         time.Time
	listErr       error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{
		branches:      make(map[uuid.UUID]database.Branch),
		categories:    make(map[uuid.UUID]database.Category),
		subcategories: make(map[uuid.UUID]database.Subcategory),
		foodItems:     make(map[uuid.UUID]database.FoodItem),
		clock:         time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing creation times so listings are ordered.
func (m *mockCatalog) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *mockCatalog) addBranch(name string) database.Branch {
	b := database.Branch{ID: uuid.New(), Name: name, CreatedAt: m.tick()}
	m.branches[b.ID] = b
	return b
}

func (m *mockCatalog) addCategory(name string, branch database.Branch) database.Category {
	c := database.Category{ID: uuid.New(), Name: name, BranchID: branch.ID, CreatedAt: m.tick()}
	m.categories[c.ID] = c
	return c
}

func (m *mockCatalog) addSubcategory(name string, cat database.Category) database.Subcategory {
	s := database.Subcategory{ID: uuid.New(), Name: name, CategoryID: cat.ID, BranchID: cat.BranchID, CreatedAt: m.tick()}
	m.subcategories[s.ID] = s
	return s
}

func (m *mockCatalog) addFoodItem(title, price string, cat database.Category, sub *database.Subcategory) database.FoodItem {
	now := m.tick()
	f := database.FoodItem{
		ID:         uuid.New(),
		Title:      title,
		Variations: []database.Variation{},
		CategoryID: cat.ID,
		BranchID:   cat.BranchID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if price != "" {
		var n pgtype.Numeric
		if err := n.Scan(price); err != nil {
			panic(err)
		}
		f.Price = n
	}
	if sub != nil {
		f.SubcategoryID = pgtype.UUID{Bytes: sub.ID, Valid: true}
	}
	m.foodItems[f.ID] = f
	return f
}

func (m *mockCatalog) ListBranches(_ context.Context) ([]database.Branch, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]database.Branch, 0, len(m.branches))
	for _, b := range m.branches {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockCatalog) GetBranch(_ context.Context, id uuid.UUID) (database.Branch, error) {
	b, ok := m.branches[id]
	if !ok {
		return database.Branch{}, pgx.ErrNoRows
	}
	return b, nil
}

func (m *mockCatalog) CreateBranch(_ context.Context, name string) (database.Branch, error) {
	return m.addBranch(name), nil
}

func (m *mockCatalog) ListCategories(_ context.Context, branchID pgtype.UUID) ([]database.ListCategoriesRow, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []database.ListCategoriesRow{}
	for _, c := range m.categories {
		if branchID.Valid && c.BranchID != uuid.UUID(branchID.Bytes) {
			continue
		}
		out = append(out, database.ListCategoriesRow{Category: c, BranchName: m.branches[c.BranchID].Name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockCatalog) GetCategory(_ context.Context, id uuid.UUID) (database.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return database.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *mockCatalog) CreateCategory(_ context.Context, arg database.CreateCategoryParams) (database.Category, error) {
	c := database.Category{ID: uuid.New(), Name: arg.Name, BranchID: arg.BranchID, CreatedAt: m.tick()}
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCatalog) UpdateCategory(_ context.Context, arg database.UpdateCategoryParams) (database.Category, error) {
	c, ok := m.categories[arg.ID]
	if !ok {
		return database.Category{}, pgx.ErrNoRows
	}
	c.Name = arg.Name
	m.categories[c.ID] = c
	return c, nil
}

func (m *mockCatalog) ListSubcategories(_ context.Context, arg database.ListSubcategoriesParams) ([]database.ListSubcategoriesRow, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []database.ListSubcategoriesRow{}
	for _, s := range m.subcategories {
		if arg.BranchID.Valid && s.BranchID != uuid.UUID(arg.BranchID.Bytes) {
			continue
		}
		if arg.CategoryID.Valid && s.CategoryID != uuid.UUID(arg.CategoryID.Bytes) {
			continue
		}
		out = append(out, database.ListSubcategoriesRow{
			Subcategory:  s,
			CategoryName: m.categories[s.CategoryID].Name,
			BranchName:   m.branches[s.BranchID].Name,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockCatalog) GetSubcategory(_ context.Context, id uuid.UUID) (database.Subcategory, error) {
	s, ok := m.subcategories[id]
	if !ok {
		return database.Subcategory{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *mockCatalog) UpdateSubcategory(_ context.Context, arg database.UpdateSubcategoryParams) (database.Subcategory, error) {
	s, ok := m.subcategories[arg.ID]
	if !ok {
		return database.Subcategory{}, pgx.ErrNoRows
	}
	s.Name = arg.Name
	m.subcategories[s.ID] = s
	return s, nil
}

func (m *mockCatalog) ListFoodItems(_ context.Context, arg database.ListFoodItemsParams) ([]database.ListFoodItemsRow, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := []database.ListFoodItemsRow{}
	for _, f := range m.foodItems {
		if arg.BranchID.Valid && f.BranchID != uuid.UUID(arg.BranchID.Bytes) {
			continue
		}
		if arg.CategoryID.Valid && f.CategoryID != uuid.UUID(arg.CategoryID.Bytes) {
			continue
		}
		if arg.SubcategoryID.Valid && f.SubcategoryID != arg.SubcategoryID {
			continue
		}
		row := database.ListFoodItemsRow{
			FoodItem:     f,
			BranchName:   m.branches[f.BranchID].Name,
			CategoryName: m.categories[f.CategoryID].Name,
		}
		if f.SubcategoryID.Valid {
			row.SubcategoryName = pgtype.Text{String: m.subcategories[uuid.UUID(f.SubcategoryID.Bytes)].Name, Valid: true}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- Catalog service ---

// mockCatalogService records calls and returns canned results.
type mockCatalogService struct {
	catalog *mockCatalog
	err     error
	cascade service.CascadeResult

	deletedBranch      uuid.UUID
	deletedCategory    uuid.UUID
	deletedSubcategory uuid.UUID
	deletedFoodItem    uuid.UUID
	created            *service.FoodItemInput
	patched            *service.FoodItemPatch
	patchedID          uuid.UUID
	subcategoryArgs    []string
}

func (m *mockCatalogService) DeleteBranch(_ context.Context, id uuid.UUID) error {
	m.deletedBranch = id
	return m.err
}

func (m *mockCatalogService) DeleteCategory(_ context.Context, id uuid.UUID) (service.CascadeResult, error) {
	m.deletedCategory = id
	return m.cascade, m.err
}

func (m *mockCatalogService) DeleteSubcategory(_ context.Context, id uuid.UUID) (service.CascadeResult, error) {
	m.deletedSubcategory = id
	return m.cascade, m.err
}

func (m *mockCatalogService) CreateSubcategory(_ context.Context, name, categoryID, branchID string) (database.Subcategory, error) {
	m.subcategoryArgs = []string{name, categoryID, branchID}
	if m.err != nil {
		return database.Subcategory{}, m.err
	}
	cat := m.catalog.categories[uuid.MustParse(categoryID)]
	return m.catalog.addSubcategory(name, cat), nil
}

func (m *mockCatalogService) CreateFoodItem(_ context.Context, in service.FoodItemInput) (database.FoodItem, error) {
	m.created = &in
	if m.err != nil {
		return database.FoodItem{}, m.err
	}
	cat := m.catalog.categories[uuid.MustParse(in.CategoryID)]
	var sub *database.Subcategory
	if in.SubcategoryID != "" {
		s := m.catalog.subcategories[uuid.MustParse(in.SubcategoryID)]
		sub = &s
	}
	f := m.catalog.addFoodItem(in.Title, in.Price, cat, sub)
	f.Variations = in.Variations
	if in.Image != nil {
		f.ImageUrl = pgtype.Text{String: "http://test/uploads/food-images/" + in.Image.Filename, Valid: true}
	}
	m.catalog.foodItems[f.ID] = f
	return f, nil
}

func (m *mockCatalogService) UpdateFoodItem(_ context.Context, id uuid.UUID, p service.FoodItemPatch) (database.FoodItem, error) {
	m.patchedID = id
	m.patched = &p
	if m.err != nil {
		return database.FoodItem{}, m.err
	}
	f := m.catalog.foodItems[id]
	if p.Title != nil {
		f.Title = *p.Title
	}
	m.catalog.foodItems[id] = f
	return f, nil
}

func (m *mockCatalogService) DeleteFoodItem(_ context.Context, id uuid.UUID) error {
	m.deletedFoodItem = id
	return m.err
}

// --- Orders ---

func numeric(s string) pgtype.Numeric {
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		panic(err)
	}
	return n
}

// sampleOrder returns a pending delivery order with one line.
func sampleOrder(branch database.Branch) service.OrderDetail {
	id := uuid.New()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return service.OrderDetail{
		OrderWithBranch: database.OrderWithBranch{
			Order: database.Order{
				ID:              id,
				FullName:        "Ayesha Khan",
				MobileNumber:    "03001234567",
				DeliveryAddress: pgtype.Text{String: "12 Canal Road", Valid: true},
				PaymentMethod:   "cod",
				Subtotal:        numeric("950"),
				Tax:             numeric("171"),
				DeliveryFee:     numeric("100"),
				Discount:        numeric("112"),
				Total:           numeric("1109"),
				OrderType:       "delivery",
				BranchID:        branch.ID,
				CreatedAt:       now,
				UpdatedAt:       now,
			},
			BranchName: branch.Name,
		},
		Items: []database.OrderItem{{
			ID:       uuid.New(),
			OrderID:  id,
			ItemID:   uuid.NewString(),
			Name:     "Burger",
			Price:    numeric("500"),
			Quantity: 1,
		}},
	}
}
