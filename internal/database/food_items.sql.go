package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const foodItemColumns = `f.id, f.title, f.description, f.price, f.variations, f.image_url,
       f.category_id, f.subcategory_id, f.branch_id, f.created_at, f.updated_at`

func scanFoodItem(row rowScanner, i *FoodItem, extra ...any) error {
	dest := []any{
		&i.ID, &i.Title, &i.Description, &i.Price, &i.Variations, &i.ImageUrl,
		&i.CategoryID, &i.SubcategoryID, &i.BranchID, &i.CreatedAt, &i.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

const listFoodItems = `-- name: ListFoodItems :many
SELECT ` + foodItemColumns + `,
       b.name AS branch_name, c.name AS category_name, s.name AS subcategory_name
FROM food_items f
JOIN branches b ON b.id = f.branch_id
JOIN categories c ON c.id = f.category_id
LEFT JOIN subcategories s ON s.id = f.subcategory_id
WHERE ($1::uuid IS NULL OR f.branch_id = $1)
  AND ($2::uuid IS NULL OR f.category_id = $2)
  AND ($3::uuid IS NULL OR f.subcategory_id = $3)
ORDER BY f.created_at
`

type ListFoodItemsParams struct {
	BranchID      pgtype.UUID
	CategoryID    pgtype.UUID
	SubcategoryID pgtype.UUID
}

type ListFoodItemsRow struct {
	FoodItem
	BranchName      string
	CategoryName    string
	SubcategoryName pgtype.Text
}

func (q *Queries) ListFoodItems(ctx context.Context, arg ListFoodItemsParams) ([]ListFoodItemsRow, error) {
	rows, err := q.db.Query(ctx, listFoodItems, arg.BranchID, arg.CategoryID, arg.SubcategoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListFoodItemsRow{}
	for rows.Next() {
		var i ListFoodItemsRow
		if err := scanFoodItem(rows, &i.FoodItem, &i.BranchName, &i.CategoryName, &i.SubcategoryName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getFoodItem = `-- name: GetFoodItem :one
SELECT ` + foodItemColumns + `
FROM food_items f
WHERE f.id = $1
`

func (q *Queries) GetFoodItem(ctx context.Context, id uuid.UUID) (FoodItem, error) {
	row := q.db.QueryRow(ctx, getFoodItem, id)
	var i FoodItem
	err := scanFoodItem(row, &i)
	return i, err
}

const createFoodItem = `-- name: CreateFoodItem :one
INSERT INTO food_items AS f (
    title, description, price, variations, image_url,
    category_id, subcategory_id, branch_id
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + foodItemColumns + `
`

type CreateFoodItemParams struct {
	Title         string
	Description   pgtype.Text
	Price         pgtype.Numeric
	Variations    []Variation
	ImageUrl      pgtype.Text
	CategoryID    uuid.UUID
	SubcategoryID pgtype.UUID
	BranchID      uuid.UUID
}

func (q *Queries) CreateFoodItem(ctx context.Context, arg CreateFoodItemParams) (FoodItem, error) {
	row := q.db.QueryRow(ctx, createFoodItem,
		arg.Title,
		arg.Description,
		arg.Price,
		arg.Variations,
		arg.ImageUrl,
		arg.CategoryID,
		arg.SubcategoryID,
		arg.BranchID,
	)
	var i FoodItem
	err := scanFoodItem(row, &i)
	return i, err
}

const updateFoodItem = `-- name: UpdateFoodItem :one
UPDATE food_items AS f SET
    title = $2,
    description = $3,
    price = $4,
    variations = $5,
    image_url = $6,
    category_id = $7,
    subcategory_id = $8,
    branch_id = $9,
    updated_at = now()
WHERE f.id = $1
RETURNING ` + foodItemColumns + `
`

type UpdateFoodItemParams struct {
	ID            uuid.UUID
	Title         string
	Description   pgtype.Text
	Price         pgtype.Numeric
	Variations    []Variation
	ImageUrl      pgtype.Text
	CategoryID    uuid.UUID
	SubcategoryID pgtype.UUID
	BranchID      uuid.UUID
}

// UpdateFoodItem overwrites every column; callers merge partial input first.
func (q *Queries) UpdateFoodItem(ctx context.Context, arg UpdateFoodItemParams) (FoodItem, error) {
	row := q.db.QueryRow(ctx, updateFoodItem,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.Price,
		arg.Variations,
		arg.ImageUrl,
		arg.CategoryID,
		arg.SubcategoryID,
		arg.BranchID,
	)
	var i FoodItem
	err := scanFoodItem(row, &i)
	return i, err
}

const deleteFoodItem = `-- name: DeleteFoodItem :one
DELETE FROM food_items WHERE id = $1
RETURNING image_url
`

// DeleteFoodItem returns the removed item's image URL so its blob can be dropped.
func (q *Queries) DeleteFoodItem(ctx context.Context, id uuid.UUID) (pgtype.Text, error) {
	row := q.db.QueryRow(ctx, deleteFoodItem, id)
	var imageUrl pgtype.Text
	err := row.Scan(&imageUrl)
	return imageUrl, err
}

const deleteFoodItemsBySubcategory = `-- name: DeleteFoodItemsBySubcategory :many
DELETE FROM food_items WHERE subcategory_id = $1
RETURNING image_url
`

func (q *Queries) DeleteFoodItemsBySubcategory(ctx context.Context, subcategoryID uuid.UUID) ([]pgtype.Text, error) {
	return q.deleteFoodItemsReturningImages(ctx, deleteFoodItemsBySubcategory, subcategoryID)
}

const deleteFoodItemsByCategory = `-- name: DeleteFoodItemsByCategory :many
DELETE FROM food_items
WHERE category_id = $1
   OR subcategory_id IN (SELECT id FROM subcategories WHERE category_id = $1)
RETURNING image_url
`

// DeleteFoodItemsByCategory removes items filed directly under the category and
// items filed under any of its subcategories.
func (q *Queries) DeleteFoodItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]pgtype.Text, error) {
	return q.deleteFoodItemsReturningImages(ctx, deleteFoodItemsByCategory, categoryID)
}

func (q *Queries) deleteFoodItemsReturningImages(ctx context.Context, query string, id uuid.UUID) ([]pgtype.Text, error) {
	rows, err := q.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	images := []pgtype.Text{}
	for rows.Next() {
		var img pgtype.Text
		if err := rows.Scan(&img); err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}
