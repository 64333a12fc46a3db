package database

import (
	"context"
)

const getAdminByUsername = `-- name: GetAdminByUsername :one
SELECT id, username, password_hash, created_at FROM admins
WHERE username = $1
`

func (q *Queries) GetAdminByUsername(ctx context.Context, username string) (Admin, error) {
	row := q.db.QueryRow(ctx, getAdminByUsername, username)
	var i Admin
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &i.CreatedAt)
	return i, err
}

const upsertAdmin = `-- name: UpsertAdmin :one
INSERT INTO admins (username, password_hash) VALUES ($1, $2)
ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
RETURNING id, username, password_hash, created_at
`

type UpsertAdminParams struct {
	Username     string
	PasswordHash string
}

func (q *Queries) UpsertAdmin(ctx context.Context, arg UpsertAdminParams) (Admin, error) {
	row := q.db.QueryRow(ctx, upsertAdmin, arg.Username, arg.PasswordHash)
	var i Admin
	err := row.Scan(&i.ID, &i.Username, &i.PasswordHash, &i.CreatedAt)
	return i, err
}
