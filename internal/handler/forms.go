package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dinehub/restaurant-api/internal/service"
)

// parseForm accepts multipart and urlencoded bodies alike.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxUploadMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// formValue returns the trimmed value of key and whether the form carried it
// at all.
func formValue(r *http.Request, key string) (string, bool) {
	vs, ok := r.PostForm[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

// formRefValue is formValue for reference fields.
func formRefValue(r *http.Request, key string) (string, bool, error) {
	v, ok := formValue(r, key)
	if !ok {
		return "", false, nil
	}
	id, err := formRef(v)
	return id, true, err
}

func formBool(r *http.Request, key string) bool {
	v, _ := formValue(r, key)
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// formUpload opens the file part named key. It returns a nil upload when the
// form has no such part; the caller closes the returned closer.
func formUpload(r *http.Request, key string) (*service.Upload, io.Closer, error) {
	file, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nopCloser{}, nil
	}
	if err != nil {
		return nil, nopCloser{}, err
	}
	return &service.Upload{Filename: header.Filename, Body: file}, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
