package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dinehub/restaurant-api/internal/database"
	"github.com/dinehub/restaurant-api/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

// memCatalog implements CatalogStore over maps. failOn makes the named
// method return errDB.
type memCatalog struct {
	branches      map[uuid.UUID]database.Branch
	categories    map[uuid.UUID]database.Category
	subcategories map[uuid.UUID]database.Subcategory
	foodItems     map[uuid.UUID]database.FoodItem
	orderRefs     map[uuid.UUID]int64
	failOn        string
}

func newMemCatalog() *memCatalog {
	return &memCatalog{
		branches:      map[uuid.UUID]database.Branch{},
		categories:    map[uuid.UUID]database.Category{},
		subcategories: map[uuid.UUID]database.Subcategory{},
		foodItems:     map[uuid.UUID]database.FoodItem{},
		orderRefs:     map[uuid.UUID]int64{},
	}
}

func (m *memCatalog) fail(method string) error {
	if m.failOn == method {
		return errDB
	}
	return nil
}

func (m *memCatalog) addBranch(name string) database.Branch {
	b := database.Branch{ID: uuid.New(), Name: name}
	m.branches[b.ID] = b
	return b
}

func (m *memCatalog) addCategory(name string, branch uuid.UUID) database.Category {
	c := database.Category{ID: uuid.New(), Name: name, BranchID: branch}
	m.categories[c.ID] = c
	return c
}

func (m *memCatalog) addSubcategory(name string, cat database.Category) database.Subcategory {
	s := database.Subcategory{ID: uuid.New(), Name: name, CategoryID: cat.ID, BranchID: cat.BranchID}
	m.subcategories[s.ID] = s
	return s
}

func (m *memCatalog) addFoodItem(title string, cat database.Category, sub *database.Subcategory, image string) database.FoodItem {
	f := database.FoodItem{
		ID:         uuid.New(),
		Title:      title,
		Price:      makeNumeric("100"),
		Variations: []database.Variation{},
		CategoryID: cat.ID,
		BranchID:   cat.BranchID,
	}
	if sub != nil {
		f.SubcategoryID = pgtype.UUID{Bytes: sub.ID, Valid: true}
	}
	if image != "" {
		f.ImageUrl = text(image)
	}
	m.foodItems[f.ID] = f
	return f
}

func (m *memCatalog) GetBranch(ctx context.Context, id uuid.UUID) (database.Branch, error) {
	b, ok := m.branches[id]
	if !ok {
		return database.Branch{}, pgx.ErrNoRows
	}
	return b, nil
}

func (m *memCatalog) CountBranchReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	n := m.orderRefs[id]
	for _, c := range m.categories {
		if c.BranchID == id {
			n++
		}
	}
	return n, m.fail("CountBranchReferences")
}

func (m *memCatalog) DeleteBranch(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, ok := m.branches[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.branches, id)
	return id, nil
}

func (m *memCatalog) GetCategory(ctx context.Context, id uuid.UUID) (database.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return database.Category{}, pgx.ErrNoRows
	}
	return c, nil
}

func (m *memCatalog) CountSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range m.subcategories {
		if s.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

func (m *memCatalog) DeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if err := m.fail("DeleteCategory"); err != nil {
		return uuid.Nil, err
	}
	if _, ok := m.categories[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.categories, id)
	return id, nil
}

func (m *memCatalog) GetSubcategory(ctx context.Context, id uuid.UUID) (database.Subcategory, error) {
	s, ok := m.subcategories[id]
	if !ok {
		return database.Subcategory{}, pgx.ErrNoRows
	}
	return s, nil
}

func (m *memCatalog) CreateSubcategory(ctx context.Context, arg database.CreateSubcategoryParams) (database.Subcategory, error) {
	s := database.Subcategory{ID: uuid.New(), Name: arg.Name, CategoryID: arg.CategoryID, BranchID: arg.BranchID}
	m.subcategories[s.ID] = s
	return s, nil
}

func (m *memCatalog) DeleteSubcategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	if _, ok := m.subcategories[id]; !ok {
		return uuid.Nil, pgx.ErrNoRows
	}
	delete(m.subcategories, id)
	return id, nil
}

func (m *memCatalog) DeleteSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	if err := m.fail("DeleteSubcategoriesByCategory"); err != nil {
		return nil, err
	}
	ids := []uuid.UUID{}
	for id, s := range m.subcategories {
		if s.CategoryID == categoryID {
			ids = append(ids, id)
			delete(m.subcategories, id)
		}
	}
	return ids, nil
}

func (m *memCatalog) GetFoodItem(ctx context.Context, id uuid.UUID) (database.FoodItem, error) {
	f, ok := m.foodItems[id]
	if !ok {
		return database.FoodItem{}, pgx.ErrNoRows
	}
	return f, nil
}

func (m *memCatalog) CreateFoodItem(ctx context.Context, arg database.CreateFoodItemParams) (database.FoodItem, error) {
	if err := m.fail("CreateFoodItem"); err != nil {
		return database.FoodItem{}, err
	}
	f := database.FoodItem{
		ID:            uuid.New(),
		Title:         arg.Title,
		Description:   arg.Description,
		Price:         arg.Price,
		Variations:    arg.Variations,
		ImageUrl:      arg.ImageUrl,
		CategoryID:    arg.CategoryID,
		SubcategoryID: arg.SubcategoryID,
		BranchID:      arg.BranchID,
	}
	m.foodItems[f.ID] = f
	return f, nil
}

func (m *memCatalog) UpdateFoodItem(ctx context.Context, arg database.UpdateFoodItemParams) (database.FoodItem, error) {
	if err := m.fail("UpdateFoodItem"); err != nil {
		return database.FoodItem{}, err
	}
	if _, ok := m.foodItems[arg.ID]; !ok {
		return database.FoodItem{}, pgx.ErrNoRows
	}
	f := database.FoodItem{
		ID:            arg.ID,
		Title:         arg.Title,
		Description:   arg.Description,
		Price:         arg.Price,
		Variations:    arg.Variations,
		ImageUrl:      arg.ImageUrl,
		CategoryID:    arg.CategoryID,
		SubcategoryID: arg.SubcategoryID,
		BranchID:      arg.BranchID,
	}
	m.foodItems[f.ID] = f
	return f, nil
}

func (m *memCatalog) DeleteFoodItem(ctx context.Context, id uuid.UUID) (pgtype.Text, error) {
	f, ok := m.foodItems[id]
	if !ok {
		return pgtype.Text{}, pgx.ErrNoRows
	}
	delete(m.foodItems, id)
	return f.ImageUrl, nil
}

func (m *memCatalog) DeleteFoodItemsBySubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]pgtype.Text, error) {
	images := []pgtype.Text{}
	for id, f := range m.foodItems {
		if f.SubcategoryID.Valid && uuid.UUID(f.SubcategoryID.Bytes) == subcategoryID {
			images = append(images, f.ImageUrl)
			delete(m.foodItems, id)
		}
	}
	return images, nil
}

func (m *memCatalog) DeleteFoodItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]pgtype.Text, error) {
	images := []pgtype.Text{}
	for id, f := range m.foodItems {
		underSub := false
		if f.SubcategoryID.Valid {
			if s, ok := m.subcategories[uuid.UUID(f.SubcategoryID.Bytes)]; ok && s.CategoryID == categoryID {
				underSub = true
			}
		}
		if f.CategoryID == categoryID || underSub {
			images = append(images, f.ImageUrl)
			delete(m.foodItems, id)
		}
	}
	return images, nil
}

func newTestCatalogService(store *memCatalog) (*CatalogService, *mockTx, *mockBlobStore) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	blobs := newMockBlobStore()
	newStore := func(db database.DBTX) CatalogStore { return store }
	return NewCatalogService(pool, newStore, blobs), tx, blobs
}

// =====================
// Cascade deletes
// =====================

func TestDeleteCategory_CascadesToSubcategoriesAndItems(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Pizza", branch.ID)
	other := store.addCategory("Drinks", branch.ID)
	sub1 := store.addSubcategory("Veg", cat)
	sub2 := store.addSubcategory("Meat", cat)
	store.addFoodItem("Margherita", cat, &sub1, "http://test/uploads/food-images/a.png")
	store.addFoodItem("Pepperoni", cat, &sub2, "")
	store.addFoodItem("Garlic Bread", cat, nil, "")
	keep := store.addFoodItem("Cola", other, nil, "")

	svc, tx, blobs := newTestCatalogService(store)
	blobs.blobs["http://test/uploads/food-images/a.png"] = []byte("img")

	res, err := svc.DeleteCategory(context.Background(), cat.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Subcategories != 2 || res.FoodItems != 3 {
		t.Errorf("result: got %+v, want 2 subcategories and 3 food items", res)
	}
	if !tx.committed {
		t.Error("expected commit")
	}

	for _, s := range store.subcategories {
		if s.CategoryID == cat.ID {
			t.Errorf("orphaned subcategory %s", s.Name)
		}
	}
	for _, f := range store.foodItems {
		if f.CategoryID == cat.ID {
			t.Errorf("orphaned food item %s", f.Title)
		}
	}
	if _, ok := store.foodItems[keep.ID]; !ok {
		t.Error("item of another category was deleted")
	}
	if _, ok := store.categories[cat.ID]; ok {
		t.Error("category still present")
	}
	if blobs.count() != 0 {
		t.Errorf("expected image blob removed, %d left", blobs.count())
	}
}

func TestDeleteCategory_NotFound(t *testing.T) {
	svc, tx, _ := newTestCatalogService(newMemCatalog())

	_, err := svc.DeleteCategory(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if tx.committed {
		t.Error("must not commit")
	}
}

func TestDeleteCategory_FailureRollsBack(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Pizza", branch.ID)
	sub := store.addSubcategory("Veg", cat)
	store.addFoodItem("Margherita", cat, &sub, "http://test/uploads/food-images/a.png")
	store.failOn = "DeleteSubcategoriesByCategory"

	svc, tx, blobs := newTestCatalogService(store)
	blobs.blobs["http://test/uploads/food-images/a.png"] = []byte("img")

	_, err := svc.DeleteCategory(context.Background(), cat.ID)
	if !errors.Is(err, errDB) {
		t.Fatalf("expected db error, got %v", err)
	}
	if tx.committed || !tx.rolledBack {
		t.Errorf("expected rollback without commit, committed=%v rolledBack=%v", tx.committed, tx.rolledBack)
	}
	if blobs.count() != 1 {
		t.Error("images must survive a rolled back cascade")
	}
}

func TestDeleteSubcategory_CascadesToItems(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Pizza", branch.ID)
	sub := store.addSubcategory("Veg", cat)
	sibling := store.addSubcategory("Meat", cat)
	store.addFoodItem("Margherita", cat, &sub, "")
	store.addFoodItem("Funghi", cat, &sub, "")
	keep := store.addFoodItem("Pepperoni", cat, &sibling, "")

	svc, tx, _ := newTestCatalogService(store)

	res, err := svc.DeleteSubcategory(context.Background(), sub.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.FoodItems != 2 {
		t.Errorf("food items: got %d, want 2", res.FoodItems)
	}
	if !tx.committed {
		t.Error("expected commit")
	}
	if len(store.foodItems) != 1 {
		t.Errorf("remaining items: got %d, want 1", len(store.foodItems))
	}
	if _, ok := store.foodItems[keep.ID]; !ok {
		t.Error("sibling subcategory's item was deleted")
	}
	if _, ok := store.subcategories[sub.ID]; ok {
		t.Error("subcategory still present")
	}
}

func TestDeleteSubcategory_NotFound(t *testing.T) {
	svc, _, _ := newTestCatalogService(newMemCatalog())

	_, err := svc.DeleteSubcategory(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// =====================
// Branches
// =====================

func TestDeleteBranch_Unreferenced(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Uptown")
	svc, _, _ := newTestCatalogService(store)

	if err := svc.DeleteBranch(context.Background(), branch.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.branches[branch.ID]; ok {
		t.Error("branch still present")
	}
}

func TestDeleteBranch_ReferencedIsRefused(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Uptown")
	store.orderRefs[branch.ID] = 3
	svc, _, _ := newTestCatalogService(store)

	err := svc.DeleteBranch(context.Background(), branch.ID)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, ok := store.branches[branch.ID]; !ok {
		t.Error("referenced branch was deleted")
	}
}

func TestDeleteBranch_NotFound(t *testing.T) {
	svc, _, _ := newTestCatalogService(newMemCatalog())

	if err := svc.DeleteBranch(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// =====================
// Subcategories
// =====================

func TestCreateSubcategory_DefaultsToCategoryBranch(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Pizza", branch.ID)
	svc, _, _ := newTestCatalogService(store)

	sub, err := svc.CreateSubcategory(context.Background(), " Veg ", cat.ID.String(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sub.Name != "Veg" || sub.BranchID != branch.ID || sub.CategoryID != cat.ID {
		t.Errorf("unexpected subcategory: %+v", sub)
	}
}

func TestCreateSubcategory_Validation(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Pizza", branch.ID)
	svc, _, _ := newTestCatalogService(store)

	tests := []struct {
		name     string
		subName  string
		category string
		branch   string
	}{
		{"missing name", "", cat.ID.String(), ""},
		{"bad category id", "Veg", "nope", ""},
		{"unknown category", "Veg", uuid.NewString(), ""},
		{"branch mismatch", "Veg", cat.ID.String(), uuid.NewString()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSubcategory(context.Background(), tt.subName, tt.category, tt.branch)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

// =====================
// Food items
// =====================

func TestCreateFoodItem_FlatPrice(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Burgers", branch.ID)
	svc, tx, blobs := newTestCatalogService(store)

	item, err := svc.CreateFoodItem(context.Background(), FoodItemInput{
		Title:      "Burger",
		Price:      "500",
		CategoryID: cat.ID.String(),
		Image:      upload("burger.png", "png-bytes"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tx.committed {
		t.Error("expected commit")
	}
	if item.BranchID != branch.ID {
		t.Errorf("branch: got %v, want %v", item.BranchID, branch.ID)
	}
	if got := database.NumericString(item.Price); got != "500.00" {
		t.Errorf("price: got %s, want 500.00", got)
	}
	if !item.ImageUrl.Valid || blobs.blobs[item.ImageUrl.String] == nil {
		t.Errorf("expected stored image, got %+v", item.ImageUrl)
	}
	if item.Variations == nil {
		t.Error("variations must be an empty list, not nil")
	}
}

func TestCreateFoodItem_VariationsWithoutPrice(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Pizza", branch.ID)
	svc, _, _ := newTestCatalogService(store)

	item, err := svc.CreateFoodItem(context.Background(), FoodItemInput{
		Title:      "Margherita",
		CategoryID: cat.ID.String(),
		Variations: []database.Variation{
			{Name: "Small", Price: decimal.NewFromInt(450)},
			{Name: "Large", Price: decimal.NewFromInt(800)},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Price.Valid {
		t.Error("expected no flat price")
	}
	if len(item.Variations) != 2 {
		t.Errorf("variations: got %d, want 2", len(item.Variations))
	}
}

func TestCreateFoodItem_Validation(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	plain := store.addCategory("Burgers", branch.ID)
	withSubs := store.addCategory("Pizza", branch.ID)
	store.addSubcategory("Veg", withSubs)
	foreign := store.addSubcategory("Sides", plain)

	tests := []struct {
		name string
		in   FoodItemInput
	}{
		{"missing title", FoodItemInput{Price: "10", CategoryID: plain.ID.String()}},
		{"neither price nor variations", FoodItemInput{Title: "X", CategoryID: plain.ID.String()}},
		{"negative price", FoodItemInput{Title: "X", Price: "-1", CategoryID: plain.ID.String()}},
		{"bad price", FoodItemInput{Title: "X", Price: "ten", CategoryID: plain.ID.String()}},
		{"unknown category", FoodItemInput{Title: "X", Price: "10", CategoryID: uuid.NewString()}},
		{"subcategory required", FoodItemInput{Title: "X", Price: "10", CategoryID: withSubs.ID.String()}},
		{"subcategory of another category", FoodItemInput{Title: "X", Price: "10", CategoryID: withSubs.ID.String(), SubcategoryID: foreign.ID.String()}},
		{"duplicate variation", FoodItemInput{Title: "X", CategoryID: plain.ID.String(), Variations: []database.Variation{
			{Name: "Large", Price: decimal.NewFromInt(1)}, {Name: "Large", Price: decimal.NewFromInt(2)},
		}}},
		{"branch mismatch", FoodItemInput{Title: "X", Price: "10", CategoryID: plain.ID.String(), BranchID: uuid.NewString()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestCatalogService(store)
			_, err := svc.CreateFoodItem(context.Background(), tt.in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateFoodItem_InsertFailureRemovesImage(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Burgers", branch.ID)
	store.failOn = "CreateFoodItem"
	svc, _, blobs := newTestCatalogService(store)

	_, err := svc.CreateFoodItem(context.Background(), FoodItemInput{
		Title:      "Burger",
		Price:      "500",
		CategoryID: cat.ID.String(),
		Image:      upload("burger.png", "png-bytes"),
	})
	if !errors.Is(err, errDB) {
		t.Fatalf("expected db error, got %v", err)
	}
	if blobs.count() != 0 {
		t.Error("uploaded image must be removed when the insert fails")
	}
}

func TestCreateFoodItem_UploadFailure(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Burgers", branch.ID)
	svc, _, blobs := newTestCatalogService(store)
	blobs.putErr = errors.New("disk full")

	_, err := svc.CreateFoodItem(context.Background(), FoodItemInput{
		Title:      "Burger",
		Price:      "500",
		CategoryID: cat.ID.String(),
		Image:      upload("burger.png", "png-bytes"),
	})
	if !errors.Is(err, storage.ErrUpload) {
		t.Fatalf("expected storage.ErrUpload, got %v", err)
	}
	if len(store.foodItems) != 0 {
		t.Error("no item may be created when the upload fails")
	}
}

func TestUpdateFoodItem_PartialKeepsOtherFields(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Burgers", branch.ID)
	item := store.addFoodItem("Burger", cat, nil, "")
	item.Description = text("juicy")
	store.foodItems[item.ID] = item
	svc, _, _ := newTestCatalogService(store)

	got, err := svc.UpdateFoodItem(context.Background(), item.ID, FoodItemPatch{Price: strPtr("650")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "Burger" || got.Description.String != "juicy" {
		t.Errorf("unpatched fields changed: %+v", got)
	}
	if database.NumericString(got.Price) != "650.00" {
		t.Errorf("price: got %s, want 650.00", database.NumericString(got.Price))
	}
}

func TestUpdateFoodItem_CategoryWithSubcategoriesRequiresOne(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	plain := store.addCategory("Burgers", branch.ID)
	withSubs := store.addCategory("Pizza", branch.ID)
	sub := store.addSubcategory("Veg", withSubs)
	item := store.addFoodItem("Burger", plain, nil, "")
	svc, _, _ := newTestCatalogService(store)

	_, err := svc.UpdateFoodItem(context.Background(), item.ID, FoodItemPatch{CategoryID: strPtr(withSubs.ID.String())})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	got, err := svc.UpdateFoodItem(context.Background(), item.ID, FoodItemPatch{
		CategoryID:    strPtr(withSubs.ID.String()),
		SubcategoryID: strPtr(sub.ID.String()),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CategoryID != withSubs.ID || uuid.UUID(got.SubcategoryID.Bytes) != sub.ID {
		t.Errorf("placement not updated: %+v", got)
	}
}

func TestUpdateFoodItem_ClearingPriceNeedsVariations(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Burgers", branch.ID)
	item := store.addFoodItem("Burger", cat, nil, "")
	svc, _, _ := newTestCatalogService(store)

	_, err := svc.UpdateFoodItem(context.Background(), item.ID, FoodItemPatch{Price: strPtr("")})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateFoodItem_NewImageReplacesOld(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Burgers", branch.ID)
	old := "http://test/uploads/food-images/old.png"
	item := store.addFoodItem("Burger", cat, nil, old)
	svc, _, blobs := newTestCatalogService(store)
	blobs.blobs[old] = []byte("old")

	got, err := svc.UpdateFoodItem(context.Background(), item.ID, FoodItemPatch{Image: upload("new.png", "new")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ImageUrl.String == old {
		t.Error("image URL not replaced")
	}
	if _, ok := blobs.blobs[old]; ok {
		t.Error("old image not deleted")
	}
	if _, ok := blobs.blobs[got.ImageUrl.String]; !ok {
		t.Error("new image missing")
	}
}

func TestUpdateFoodItem_NotFoundRemovesUpload(t *testing.T) {
	svc, _, blobs := newTestCatalogService(newMemCatalog())

	_, err := svc.UpdateFoodItem(context.Background(), uuid.New(), FoodItemPatch{Image: upload("new.png", "new")})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if blobs.count() != 0 {
		t.Error("upload must be removed when the update fails")
	}
}

func TestDeleteFoodItem(t *testing.T) {
	store := newMemCatalog()
	branch := store.addBranch("Downtown")
	cat := store.addCategory("Burgers", branch.ID)
	img := "http://test/uploads/food-images/b.png"
	item := store.addFoodItem("Burger", cat, nil, img)
	svc, _, blobs := newTestCatalogService(store)
	blobs.blobs[img] = []byte("b")

	if err := svc.DeleteFoodItem(context.Background(), item.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if blobs.count() != 0 {
		t.Error("image not deleted")
	}
	if err := svc.DeleteFoodItem(context.Background(), item.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
