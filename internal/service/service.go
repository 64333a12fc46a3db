// Package service holds the multi-step operations of the API: checkout, catalog
// cascades, order lifecycle and statistics. Each runs its writes inside one
// database transaction.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Errors returned by the services. Handlers map ErrNotFound to 404 and
// ErrValidation to 400.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries a client-facing message and matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BlobStore keeps uploaded files. Satisfied by *storage.LocalStore.
type BlobStore interface {
	Put(ctx context.Context, folder, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// Upload is a file received with a multipart form.
type Upload struct {
	Filename string
	Body     io.Reader
}

// notFound turns pgx.ErrNoRows into ErrNotFound and wraps anything else.
func notFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// isForeignKeyViolation reports a pgconn 23503 error.
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}

// parseID normalizes a raw reference into a UUID. field names the input in the
// validation message.
func parseID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalidf("invalid %s", field)
	}
	return id, nil
}

// removeBlobs deletes files whose records are gone. Failures only orphan a
// file, so they are logged.
func removeBlobs(ctx context.Context, blobs BlobStore, urls []pgtype.Text) {
	if blobs == nil {
		return
	}
	for _, u := range urls {
		if !u.Valid || u.String == "" {
			continue
		}
		if err := blobs.Delete(ctx, u.String); err != nil {
			log.Printf("WARN: delete blob %s: %v", u.String, err)
		}
	}
}
