package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dinehub/restaurant-api/internal/ref"
	"github.com/dinehub/restaurant-api/internal/service"
	"github.com/dinehub/restaurant-api/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// maxUploadMemory is how much of a multipart form is kept in memory; larger
// files spill to disk.
const maxUploadMemory = 10 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeServiceError maps service errors onto status codes. what names the
// entity for 404s and op the operation for logs.
func writeServiceError(w http.ResponseWriter, err error, what, op string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, storage.ErrUpload):
		log.Printf("ERROR: %s: %v", op, err)
		writeMessage(w, http.StatusBadGateway, "file upload failed")
	default:
		log.Printf("ERROR: %s: %v", op, err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

// urlID parses the {id} path parameter.
func urlID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// formRef normalizes a reference sent as a form or query value. Values that
// look like JSON objects are unwrapped; anything else is taken as is.
func formRef(v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if strings.HasPrefix(v, "{") {
		var id ref.ID
		if err := json.Unmarshal([]byte(v), &id); err != nil {
			return "", err
		}
		return id.String(), nil
	}
	return ref.Normalize(v)
}

// queryUUID reads an optional UUID query parameter.
func queryUUID(r *http.Request, key string) (pgtype.UUID, bool) {
	raw, err := formRef(r.URL.Query().Get(key))
	if err != nil {
		return pgtype.UUID{}, false
	}
	if raw == "" {
		return pgtype.UUID{}, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return pgtype.UUID{}, false
	}
	return pgtype.UUID{Bytes: id, Valid: true}, true
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
