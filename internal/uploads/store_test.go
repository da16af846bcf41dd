package uploads

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// makeFileHeader builds a multipart.FileHeader the way a real request would.
func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, errPart := writer.CreateFormFile("file", filename)
	if errPart != nil {
		t.Fatalf("create form file: %v", errPart)
	}
	if _, errWrite := part.Write([]byte(content)); errWrite != nil {
		t.Fatalf("write form file: %v", errWrite)
	}
	if errClose := writer.Close(); errClose != nil {
		t.Fatalf("close writer: %v", errClose)
	}

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if errParse := req.ParseMultipartForm(32 << 20); errParse != nil {
		t.Fatalf("parse multipart: %v", errParse)
	}
	files := req.MultipartForm.File["file"]
	if len(files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(files))
	}
	return files[0]
}

func TestAllowedExt(t *testing.T) {
	cases := []struct {
		filename string
		category string
		want     bool
	}{
		{"photo.png", CategoryImages, true},
		{"photo.PNG", CategoryImages, true},
		{"photo.jpeg", CategoryImages, true},
		{"photo.jpg", CategoryImages, true},
		{"photo.gif", CategoryImages, false},
		{"photo", CategoryImages, false},
		{"doc.pdf", CategoryPDFs, true},
		{"doc.PDF", CategoryPDFs, true},
		{"doc.docx", CategoryPDFs, false},
		{"doc.pdf", "other", false},
	}
	for _, tc := range cases {
		if got := AllowedExt(tc.filename, tc.category); got != tc.want {
			t.Fatalf("AllowedExt(%q, %q) = %v, want %v", tc.filename, tc.category, got, tc.want)
		}
	}
}

func TestSaveWritesFileAndReturnsPublicPath(t *testing.T) {
	store := NewStore(t.TempDir())
	header := makeFileHeader(t, "banner.png", "png-bytes")

	publicPath, errSave := store.Save(header, CategoryImages)
	if errSave != nil {
		t.Fatalf("save: %v", errSave)
	}
	if publicPath != "/uploads/images/banner.png" {
		t.Fatalf("unexpected public path %s", publicPath)
	}

	data, errRead := os.ReadFile(filepath.Join(store.Root(), "images", "banner.png"))
	if errRead != nil {
		t.Fatalf("read stored file: %v", errRead)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected stored content %q", data)
	}
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store := NewStore(t.TempDir())
	header := makeFileHeader(t, "banner.gif", "gif-bytes")

	if _, errSave := store.Save(header, CategoryImages); errSave != ErrBadExtension {
		t.Fatalf("expected ErrBadExtension, got %v", errSave)
	}
}

func TestSaveConfinesTraversalAttempts(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)
	header := makeFileHeader(t, "../../etc/passwd.png", "not-a-passwd")

	publicPath, errSave := store.Save(header, CategoryImages)
	if errSave != nil {
		t.Fatalf("save: %v", errSave)
	}
	if !strings.HasPrefix(publicPath, "/uploads/images/") {
		t.Fatalf("expected path under /uploads/images/, got %s", publicPath)
	}

	entries, errRead := os.ReadDir(filepath.Join(root, "images"))
	if errRead != nil {
		t.Fatalf("read images dir: %v", errRead)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly 1 stored file, got %d", len(entries))
	}
	if strings.Contains(entries[0].Name(), "..") || strings.ContainsAny(entries[0].Name(), `/\`) {
		t.Fatalf("stored name still unsafe: %s", entries[0].Name())
	}
}

func TestSaveOverwritesCollidingFilename(t *testing.T) {
	store := NewStore(t.TempDir())

	if _, errSave := store.Save(makeFileHeader(t, "a.pdf", "first"), CategoryPDFs); errSave != nil {
		t.Fatalf("first save: %v", errSave)
	}
	if _, errSave := store.Save(makeFileHeader(t, "a.pdf", "second"), CategoryPDFs); errSave != nil {
		t.Fatalf("second save: %v", errSave)
	}

	data, errRead := os.ReadFile(filepath.Join(store.Root(), "pdfs", "a.pdf"))
	if errRead != nil {
		t.Fatalf("read stored file: %v", errRead)
	}
	if string(data) != "second" {
		t.Fatalf("expected last write to win, got %q", data)
	}
}

func TestRemoveDeletesStoredFile(t *testing.T) {
	store := NewStore(t.TempDir())
	publicPath, errSave := store.Save(makeFileHeader(t, "a.pdf", "bytes"), CategoryPDFs)
	if errSave != nil {
		t.Fatalf("save: %v", errSave)
	}

	if errRemove := store.Remove(publicPath); errRemove != nil {
		t.Fatalf("remove: %v", errRemove)
	}
	if _, errStat := os.Stat(filepath.Join(store.Root(), "pdfs", "a.pdf")); !os.IsNotExist(errStat) {
		t.Fatalf("expected file to be gone, stat err=%v", errStat)
	}
}

func TestRemoveRejectsForeignPaths(t *testing.T) {
	store := NewStore(t.TempDir())
	if errRemove := store.Remove("/etc/passwd"); errRemove == nil {
		t.Fatalf("expected error for non-upload path")
	}
	if errRemove := store.Remove("/uploads/../outside.txt"); errRemove == nil {
		t.Fatalf("expected error for escaping path")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report.pdf"},
		{"my report.pdf", "my_report.pdf"},
		{"../../etc/passwd.png", "passwd.png"},
		{`..\..\windows\system.png`, "system.png"},
		{"weird<>|:name.jpg", "weirdname.jpg"},
		{"....", ""},
		{"///", ""},
	}
	for _, tc := range cases {
		if got := SanitizeFilename(tc.in); got != tc.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
