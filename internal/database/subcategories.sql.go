package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listSubcategories = `-- name: ListSubcategories :many
SELECT s.id, s.name, s.category_id, s.branch_id, s.created_at,
       c.name AS category_name, b.name AS branch_name
FROM subcategories s
JOIN categories c ON c.id = s.category_id
JOIN branches b ON b.id = s.branch_id
WHERE ($1::uuid IS NULL OR s.branch_id = $1)
  AND ($2::uuid IS NULL OR s.category_id = $2)
ORDER BY s.created_at
`

type ListSubcategoriesParams struct {
	BranchID   pgtype.UUID
	CategoryID pgtype.UUID
}

type ListSubcategoriesRow struct {
	Subcategory
	CategoryName string
	BranchName   string
}

func (q *Queries) ListSubcategories(ctx context.Context, arg ListSubcategoriesParams) ([]ListSubcategoriesRow, error) {
	rows, err := q.db.Query(ctx, listSubcategories, arg.BranchID, arg.CategoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []ListSubcategoriesRow{}
	for rows.Next() {
		var i ListSubcategoriesRow
		if err := rows.Scan(
			&i.ID, &i.Name, &i.CategoryID, &i.BranchID, &i.CreatedAt,
			&i.CategoryName, &i.BranchName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getSubcategory = `-- name: GetSubcategory :one
SELECT id, name, category_id, branch_id, created_at FROM subcategories
WHERE id = $1
`

func (q *Queries) GetSubcategory(ctx context.Context, id uuid.UUID) (Subcategory, error) {
	row := q.db.QueryRow(ctx, getSubcategory, id)
	var i Subcategory
	err := row.Scan(&i.ID, &i.Name, &i.CategoryID, &i.BranchID, &i.CreatedAt)
	return i, err
}

const createSubcategory = `-- name: CreateSubcategory :one
INSERT INTO subcategories (name, category_id, branch_id) VALUES ($1, $2, $3)
RETURNING id, name, category_id, branch_id, created_at
`

type CreateSubcategoryParams struct {
	Name       string
	CategoryID uuid.UUID
	BranchID   uuid.UUID
}

func (q *Queries) CreateSubcategory(ctx context.Context, arg CreateSubcategoryParams) (Subcategory, error) {
	row := q.db.QueryRow(ctx, createSubcategory, arg.Name, arg.CategoryID, arg.BranchID)
	var i Subcategory
	err := row.Scan(&i.ID, &i.Name, &i.CategoryID, &i.BranchID, &i.CreatedAt)
	return i, err
}

const updateSubcategory = `-- name: UpdateSubcategory :one
UPDATE subcategories SET name = $2
WHERE id = $1
RETURNING id, name, category_id, branch_id, created_at
`

type UpdateSubcategoryParams struct {
	ID   uuid.UUID
	Name string
}

func (q *Queries) UpdateSubcategory(ctx context.Context, arg UpdateSubcategoryParams) (Subcategory, error) {
	row := q.db.QueryRow(ctx, updateSubcategory, arg.ID, arg.Name)
	var i Subcategory
	err := row.Scan(&i.ID, &i.Name, &i.CategoryID, &i.BranchID, &i.CreatedAt)
	return i, err
}

const deleteSubcategory = `-- name: DeleteSubcategory :one
DELETE FROM subcategories WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteSubcategory(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteSubcategory, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

const deleteSubcategoriesByCategory = `-- name: DeleteSubcategoriesByCategory :many
DELETE FROM subcategories WHERE category_id = $1
RETURNING id
`

func (q *Queries) DeleteSubcategoriesByCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, deleteSubcategoriesByCategory, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
