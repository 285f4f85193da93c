package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestExtensionAndResourceType(t *testing.T) {
	tests := []struct {
		name     string
		wantExt  string
		wantType string
	}{
		{"lease.PDF", "pdf", "raw"},
		{"scan.jpeg", "jpeg", "image"},
		{"notes.txt", "txt", "raw"},
		{"png", "png", "image"},
		{"archive.tar.gz", "gz", "raw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extension(tt.name); got != tt.wantExt {
				t.Errorf("Extension(%q) = %q, want %q", tt.name, got, tt.wantExt)
			}
			if got := ResourceType(tt.name); got != tt.wantType {
				t.Errorf("ResourceType(%q) = %q, want %q", tt.name, got, tt.wantType)
			}
		})
	}
}

func TestNewWithoutURLIsUnavailable(t *testing.T) {
	store, err := New("", "root", zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = store.Upload(context.Background(), strings.NewReader("x"), "docs", "a.pdf")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Upload() error = %v, want ErrUnavailable", err)
	}
	if err := store.Delete(context.Background(), "id", "a.pdf"); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Delete() error = %v, want ErrUnavailable", err)
	}
}
