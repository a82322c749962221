// Package uploads stores reference photos on local disk. Filenames are
// opaque to the rest of the system: orders keep the stored name, the
// dashboard resolves it to a URL.
package uploads

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/NarekMan21/test-deploy-crm/internal/domain/errors"
)

// MaxFileSize caps a single uploaded photo.
const MaxFileSize = 10 << 20

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// Store saves and serves uploaded photos from a single directory.
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save validates and writes one photo, returning the stored filename.
// The name keeps the order id and kind so files stay traceable on disk;
// the uuid part makes re-uploads collision-proof.
func (s *Store) Save(orderID int64, kind, originalName string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", domainErrors.Validation("file extension %s not allowed", ext)
	}
	if len(data) > MaxFileSize {
		return "", domainErrors.Validation("file size exceeds maximum allowed size of %dMB", MaxFileSize>>20)
	}

	name := fmt.Sprintf("%d_%s_%s_%s", orderID, kind, uuid.NewString()[:8], sanitize(originalName))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save file: %w", err)
	}
	return name, nil
}

// Open resolves a stored filename to its on-disk path, rejecting
// anything that would escape the upload directory.
func (s *Store) Open(name string) (string, error) {
	cleaned := filepath.Base(filepath.Clean(name))
	if cleaned != name || name == "" || strings.HasPrefix(name, ".") {
		return "", domainErrors.ErrNotFound
	}
	path := filepath.Join(s.dir, cleaned)
	if _, err := os.Stat(path); err != nil {
		return "", domainErrors.ErrNotFound
	}
	return path, nil
}

// Remove deletes a stored file; missing files are not an error.
func (s *Store) Remove(name string) error {
	path, err := s.Open(name)
	if err != nil {
		return nil
	}
	return os.Remove(path)
}

// List returns all stored filenames.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

func sanitize(name string) string {
	name = strings.ReplaceAll(name, " ", "_")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
