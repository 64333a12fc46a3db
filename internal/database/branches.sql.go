package database

import (
	"context"

	"github.com/google/uuid"
)

const listBranches = `-- name: ListBranches :many
SELECT id, name, created_at FROM branches
ORDER BY name
`

func (q *Queries) ListBranches(ctx context.Context) ([]Branch, error) {
	rows, err := q.db.Query(ctx, listBranches)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Branch{}
	for rows.Next() {
		var i Branch
		if err := rows.Scan(&i.ID, &i.Name, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getBranch = `-- name: GetBranch :one
SELECT id, name, created_at FROM branches
WHERE id = $1
`

func (q *Queries) GetBranch(ctx context.Context, id uuid.UUID) (Branch, error) {
	row := q.db.QueryRow(ctx, getBranch, id)
	var i Branch
	err := row.Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}

const createBranch = `-- name: CreateBranch :one
INSERT INTO branches (name) VALUES ($1)
RETURNING id, name, created_at
`

func (q *Queries) CreateBranch(ctx context.Context, name string) (Branch, error) {
	row := q.db.QueryRow(ctx, createBranch, name)
	var i Branch
	err := row.Scan(&i.ID, &i.Name, &i.CreatedAt)
	return i, err
}

const countBranchReferences = `-- name: CountBranchReferences :one
SELECT
    (SELECT COUNT(*) FROM categories WHERE branch_id = $1) +
    (SELECT COUNT(*) FROM orders WHERE branch_id = $1)
`

// CountBranchReferences counts categories and orders that point at the branch.
func (q *Queries) CountBranchReferences(ctx context.Context, id uuid.UUID) (int64, error) {
	row := q.db.QueryRow(ctx, countBranchReferences, id)
	var n int64
	err := row.Scan(&n)
	return n, err
}

const deleteBranch = `-- name: DeleteBranch :one
DELETE FROM branches WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteBranch(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteBranch, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
