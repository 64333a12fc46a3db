package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listCategories = `-- name: ListCategories :many
SELECT c.id, c.name, c.branch_id, c.created_at, b.name AS branch_name
FROM categories c
JOIN branches b ON b.id = c.branch_id
WHERE ($1::uuid IS NULL OR c.branch_id = $1)
ORDER BY c.created_at
`

type ListCategoriesRow struct {
	Category
	BranchName string
}

// ListCategories returns categories with their branch populated. A NULL branch
// filter returns every branch.
func (q *Queries) ListCategories(ctx context.Context, branchID pgtype.UUID) ([]ListCategoriesRow, error) {
	rows, err := q.db.Query(ctx, listCategories, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListCategoriesRow{}
	for rows.Next() {
		var i ListCategoriesRow
		if err := rows.Scan(&i.ID, &i.Name, &i.BranchID, &i.CreatedAt, &i.BranchName); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getCategory = `-- name: GetCategory :one
SELECT id, name, branch_id, created_at FROM categories
WHERE id = $1
`

func (q *Queries) GetCategory(ctx context.Context, id uuid.UUID) (Category, error) {
	row := q.db.QueryRow(ctx, getCategory, id)
	var i Category
	err := row.Scan(&i.ID, &i.Name, &i.BranchID, &i.CreatedAt)
	return i, err
}

const createCategory = `-- name: CreateCategory :one
INSERT INTO categories (name, branch_id) VALUES ($1, $2)
RETURNING id, name, branch_id, created_at
`

type CreateCategoryParams struct {
	Name     string
	BranchID uuid.UUID
}

func (q *Queries) CreateCategory(ctx context.Context, arg CreateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, createCategory, arg.Name, arg.BranchID)
	var i Category
	err := row.Scan(&i.ID, &i.Name, &i.BranchID, &i.CreatedAt)
	return i, err
}

const updateCategory = `-- name: UpdateCategory :one
UPDATE categories SET name = $2
WHERE id = $1
RETURNING id, name, branch_id, created_at
`

type UpdateCategoryParams struct {
	ID   uuid.UUID
	Name string
}

func (q *Queries) UpdateCategory(ctx context.Context, arg UpdateCategoryParams) (Category, error) {
	row := q.db.QueryRow(ctx, updateCategory, arg.ID, arg.Name)
	var i Category
	err := row.Scan(&i.ID, &i.Name, &i.BranchID, &i.CreatedAt)
	return i, err
}

const countSubcategoriesByCategory = `-- name: CountSubcategoriesByCategory :one
SELECT COUNT(*) FROM subcategories WHERE category_id = $1
`

func (q *Queries) CountSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countSubcategoriesByCategory, categoryID)
	var n int64
	err := row.Scan(&n)
	return n, err
}

const deleteCategory = `-- name: DeleteCategory :one
DELETE FROM categories WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteCategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteCategory, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
