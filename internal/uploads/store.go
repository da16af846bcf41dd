// Package uploads stores uploaded media under a configured root directory,
// partitioned by content category, and hands back the public paths the HTTP
// layer serves under /uploads/.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Upload categories.
const (
	// CategoryImages is the subdirectory for article images.
	CategoryImages = "images"
	// CategoryPDFs is the subdirectory for article PDFs.
	CategoryPDFs = "pdfs"
)

// Store errors.
var (
	// ErrBadExtension indicates a filename extension outside the allow-list.
	ErrBadExtension = errors.New("file extension not allowed")
	// ErrUnsafeFilename indicates a filename that sanitizes to nothing usable.
	ErrUnsafeFilename = errors.New("unsafe filename")
)

// allowedExts maps each category to its filename-extension allow-list.
// The check is on the filename only; content is not sniffed.
var allowedExts = map[string]map[string]bool{
	CategoryImages: {".png": true, ".jpg": true, ".jpeg": true},
	CategoryPDFs:   {".pdf": true},
}

// Store writes uploaded files below a single root directory.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{root: filepath.Clean(dir)}
}

// Root returns the upload root directory.
func (s *Store) Root() string {
	return s.root
}

// AllowedExt reports whether the filename extension is acceptable for the
// category. Matching is case-insensitive.
func AllowedExt(filename, category string) bool {
	exts, ok := allowedExts[category]
	if !ok {
		return false
	}
	return exts[strings.ToLower(filepath.Ext(filename))]
}

// Save validates, sanitizes, and writes an uploaded file into the category
// subdirectory, creating it if needed. It returns the public path of the
// form /uploads/<category>/<name>. A file with the same sanitized name is
// silently overwritten.
func (s *Store) Save(file *multipart.FileHeader, category string) (string, error) {
	if _, ok := allowedExts[category]; !ok {
		return "", fmt.Errorf("uploads: unknown category %q", category)
	}
	if !AllowedExt(file.Filename, category) {
		return "", ErrBadExtension
	}

	name := SanitizeFilename(file.Filename)
	if name == "" {
		return "", ErrUnsafeFilename
	}

	dir := filepath.Join(s.root, category)
	if errMkdir := os.MkdirAll(dir, 0755); errMkdir != nil {
		return "", fmt.Errorf("uploads: create dir: %w", errMkdir)
	}

	dst := filepath.Join(dir, name)
	if !s.within(dst) {
		return "", ErrUnsafeFilename
	}

	src, errOpen := file.Open()
	if errOpen != nil {
		return "", fmt.Errorf("uploads: open upload: %w", errOpen)
	}
	defer src.Close()

	out, errCreate := os.Create(dst)
	if errCreate != nil {
		return "", fmt.Errorf("uploads: create file: %w", errCreate)
	}
	defer out.Close()

	if _, errCopy := io.Copy(out, src); errCopy != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("uploads: write file: %w", errCopy)
	}

	return path.Join("/uploads", category, name), nil
}

// Remove deletes a previously saved file given its public path. Used as
// compensating cleanup when a database write fails after the file write.
func (s *Store) Remove(publicPath string) error {
	rel := strings.TrimPrefix(publicPath, "/uploads/")
	if rel == publicPath || rel == "" {
		return fmt.Errorf("uploads: not an upload path: %s", publicPath)
	}
	dst := filepath.Join(s.root, filepath.FromSlash(rel))
	if !s.within(dst) {
		return fmt.Errorf("uploads: path escapes root: %s", publicPath)
	}
	if errRemove := os.Remove(dst); errRemove != nil && !os.IsNotExist(errRemove) {
		return errRemove
	}
	return nil
}

// within reports whether the resolved path stays inside the store root.
func (s *Store) within(p string) bool {
	rel, errRel := filepath.Rel(s.root, filepath.Clean(p))
	if errRel != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// SanitizeFilename strips directory components and characters unsafe for
// the filesystem, keeping letters, digits, dot, dash, and underscore.
// It returns "" when nothing usable remains.
func SanitizeFilename(filename string) string {
	// Drop directory components written with either separator.
	name := filename
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
	}

	out := b.String()
	for strings.Contains(out, "..") {
		out = strings.ReplaceAll(out, "..", ".")
	}
	return strings.Trim(out, "._-")
}
