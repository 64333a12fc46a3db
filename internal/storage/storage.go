// Package storage keeps uploaded food images and payment receipts. Records
// only hold the public URL returned by Put.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUpload marks a failed blob write; handlers surface it separately from
// database failures.
var ErrUpload = errors.New("upload failed")

// Folders under the upload root. Food images are public; receipts carry
// customer payment details and are served to admins only.
const (
	FoodImageFolder = "food-images"
	ReceiptFolder   = "receipts"
)

// maxFilenameLen caps the sanitized original filename kept in the key.
const maxFilenameLen = 80

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LocalStore writes blobs under Dir and serves them from BaseURL + "/uploads/".
type LocalStore struct {
	Dir     string
	BaseURL string
	now     func() time.Time
}

func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		Dir:     dir,
		BaseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// Key builds a collision-resistant object key: <folder>/<unix-millis>-<rand>-<filename>.
func (s *LocalStore) Key(folder, filename string) string {
	name := unsafeChars.ReplaceAllString(filepath.Base(filename), "_")
	if len(name) > maxFilenameLen {
		name = name[len(name)-maxFilenameLen:]
	}
	if name == "" || name == "." {
		name = "upload"
	}
	return path.Join(folder, fmt.Sprintf("%d-%s-%s", s.now().UnixMilli(), uuid.NewString()[:8], name))
}

// Put stores r under folder and returns the public URL.
func (s *LocalStore) Put(ctx context.Context, folder, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	key := s.Key(folder, filename)
	full := filepath.Join(s.Dir, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	f, err := os.Create(full)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(full)
		return "", fmt.Errorf("%w: %w", ErrUpload, err)
	}
	return s.BaseURL + "/uploads/" + key, nil
}

// Delete removes the blob behind url. Unknown or foreign URLs are ignored.
func (s *LocalStore) Delete(_ context.Context, url string) error {
	prefix := s.BaseURL + "/uploads/"
	if !strings.HasPrefix(url, prefix) {
		return nil
	}
	key := path.Clean(strings.TrimPrefix(url, prefix))
	if strings.HasPrefix(key, "..") || path.IsAbs(key) {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, filepath.FromSlash(key)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// FileServer serves the blobs of a single folder. Directories are reported as
// missing so the folder cannot be listed.
func (s *LocalStore) FileServer(folder string) http.Handler {
	return http.FileServer(filesOnly{http.Dir(filepath.Join(s.Dir, folder))})
}

type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, os.ErrNotExist
	}
	return file, nil
}
