package imagesession

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteImageFile(t *testing.T) {
	dir := t.TempDir()
	img := Image{Data: []byte("image-bytes"), MIMEType: "image/png"}

	path := filepath.Join(dir, "out.png")
	if err := WriteImageFile(path, img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading back: %v", err)
	}
	if !bytes.Equal(data, img.Data) {
		t.Errorf("file contents = %q, want %q", data, img.Data)
	}
}

func TestWriteImageFile_Failure(t *testing.T) {
	img := Image{Data: []byte("image-bytes"), MIMEType: "image/png"}

	badPath := filepath.Join(t.TempDir(), "missing-dir", "out.png")
	err := WriteImageFile(badPath, img)
	if err == nil {
		t.Fatal("expected error writing into missing directory")
	}
	if !IsWriteError(err) {
		t.Errorf("error = %T, want WriteError", err)
	}

	var wErr *WriteError
	if errors.As(err, &wErr) && wErr.Path != badPath {
		t.Errorf("WriteError.Path = %q, want %q", wErr.Path, badPath)
	}

	// Bytes are untouched; the caller can retry.
	if string(img.Data) != "image-bytes" {
		t.Error("image bytes mutated by failed write")
	}
}

// mockStorage records saves and can fail on demand.
type mockStorage struct {
	saved  []StorageResult
	failOn int // 1-indexed call to fail on; 0 = never
	calls  int
}

func (m *mockStorage) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	m.calls++
	if m.failOn != 0 && m.calls == m.failOn {
		return "", errors.New("upstream unavailable")
	}
	m.saved = append(m.saved, StorageResult{URL: "https://cdn.example/" + path, Path: path, Size: len(data)})
	return "https://cdn.example/" + path, nil
}

func TestSaveToStorage(t *testing.T) {
	resp := &Response{
		Candidates: []Candidate{
			{Parts: []Part{
				InlinePart("image/png", []byte("aaaa")),
				InlinePart("image/jpeg", []byte("bb")),
			}},
		},
	}

	storage := &mockStorage{}
	results, err := SaveToStorage(context.Background(), storage, resp, "gallery/logo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("saved %d images, want 2", len(results))
	}
	if results[0].Path != "gallery/logo_0.png" {
		t.Errorf("first path = %q, want gallery/logo_0.png", results[0].Path)
	}
	if results[1].Path != "gallery/logo_1.jpg" {
		t.Errorf("second path = %q, want gallery/logo_1.jpg", results[1].Path)
	}
	if results[0].Size != 4 || results[1].Size != 2 {
		t.Errorf("sizes = %d, %d, want 4, 2", results[0].Size, results[1].Size)
	}
}

func TestSaveToStorage_SingleImageKeepsBasePath(t *testing.T) {
	resp := &Response{
		Candidates: []Candidate{
			{Parts: []Part{InlinePart("image/png", []byte("aaaa"))}},
		},
	}

	storage := &mockStorage{}
	results, err := SaveToStorage(context.Background(), storage, resp, "gallery/logo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Path != "gallery/logo.png" {
		t.Errorf("results = %+v, want single gallery/logo.png", results)
	}
}

func TestSaveToStorage_Errors(t *testing.T) {
	resp := &Response{
		Candidates: []Candidate{
			{Parts: []Part{
				InlinePart("image/png", []byte("a")),
				InlinePart("image/png", []byte("b")),
			}},
		},
	}

	if _, err := SaveToStorage(context.Background(), nil, resp, "p"); !errors.Is(err, ErrStorageNotConfigured) {
		t.Errorf("nil storage: error = %v, want ErrStorageNotConfigured", err)
	}

	// No images: nothing to save, no error.
	results, err := SaveToStorage(context.Background(), &mockStorage{}, &Response{}, "p")
	if err != nil || results != nil {
		t.Errorf("empty response: results = %v, err = %v, want nil, nil", results, err)
	}

	// Partial failure returns the results saved so far plus the error.
	failing := &mockStorage{failOn: 2}
	results, err = SaveToStorage(context.Background(), failing, resp, "p")
	if err == nil {
		t.Error("expected error from failing storage")
	}
	if len(results) != 1 {
		t.Errorf("partial results length = %d, want 1", len(results))
	}
}

func TestMIMEHelpers(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a.png", "image/png"},
		{"a.JPG", "image/jpeg"},
		{"a.jpeg", "image/jpeg"},
		{"a.webp", "image/webp"},
		{"a.bin", "image/png"},
	}
	for _, tt := range tests {
		if got := GetMIMEType(tt.path); got != tt.want {
			t.Errorf("GetMIMEType(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	if got := extensionFromMIME("image/gif"); got != "gif" {
		t.Errorf("extensionFromMIME(image/gif) = %q, want gif", got)
	}
	if got := extensionFromMIME("application/octet-stream"); got != "png" {
		t.Errorf("extensionFromMIME fallback = %q, want png", got)
	}
}
