package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// ErrUnavailable is returned when no media backend is configured
var ErrUnavailable = errors.New("media storage is not configured")

// Object is a stored file
type Object struct {
	URL      string
	PublicID string
}

// MediaStorage keeps uploaded files outside the database
type MediaStorage interface {
	Upload(ctx context.Context, file io.Reader, folder, filename string) (*Object, error)
	Delete(ctx context.Context, publicID, filename string) error
}

type cloudinaryStorage struct {
	cld  *cloudinary.Cloudinary
	root string
	log  *zap.Logger
}

// New returns a Cloudinary-backed store, or one that always fails with
// ErrUnavailable when cloudinaryURL is empty.
func New(cloudinaryURL, rootFolder string, log *zap.Logger) (MediaStorage, error) {
	log = log.With(zap.String("component", "storage"))
	if cloudinaryURL == "" {
		log.Warn("CLOUDINARY_URL not set, uploads are disabled")
		return unavailable{}, nil
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &cloudinaryStorage{cld: cld, root: rootFolder, log: log}, nil
}

func (s *cloudinaryStorage) Upload(ctx context.Context, file io.Reader, folder, filename string) (*Object, error) {
	params := uploader.UploadParams{
		Folder:       path.Join(s.root, folder),
		ResourceType: ResourceType(filename),
	}

	result, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		s.log.Error("Upload failed", zap.Error(err), zap.String("folder", params.Folder))
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	if result.Error.Message != "" {
		s.log.Error("Upload rejected", zap.String("reason", result.Error.Message))
		return nil, fmt.Errorf("upload %s: %s", filename, result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("upload %s: no public id returned", filename)
	}

	s.log.Info("File uploaded", zap.String("public_id", result.PublicID), zap.Int("bytes", result.Bytes))
	return &Object{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, publicID, filename string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: ResourceType(filename),
	})
	if err != nil {
		s.log.Error("Delete failed", zap.Error(err), zap.String("public_id", publicID))
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	return nil
}

var imageExtensions = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true, "bmp": true,
}

// ResourceType is the Cloudinary resource class for a filename or bare extension
func ResourceType(filename string) string {
	if imageExtensions[Extension(filename)] {
		return "image"
	}
	return "raw"
}

// Extension returns the lowercased extension without the dot; a bare extension is returned as is
func Extension(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	if ext == "" && !strings.Contains(filename, ".") {
		return strings.ToLower(filename)
	}
	return ext
}

type unavailable struct{}

func (unavailable) Upload(context.Context, io.Reader, string, string) (*Object, error) {
	return nil, ErrUnavailable
}

func (unavailable) Delete(context.Context, string, string) error {
	return ErrUnavailable
}
