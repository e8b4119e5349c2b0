// Package storage keeps uploaded binary content (article images) on local
// disk or in S3.
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"novi.com/app/internal/shared/slug"
)

var ErrUnsupportedType = errors.New("unsupported content type")

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}

// ImageExt returns the canonical extension for an image content type.
func ImageExt(contentType string) (string, error) {
	switch contentType {
	case "image/png":
		return ".png", nil
	case "image/jpeg":
		return ".jpg", nil
	case "image/webp":
		return ".webp", nil
	case "image/gif":
		return ".gif", nil
	default:
		return "", ErrUnsupportedType
	}
}

// ObjectName builds a unique key that keeps a readable hint of the uploaded
// file name, e.g. "desk-lamp-3f2a...png".
func ObjectName(filename, ext string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return slug.FromName(base, "image") + "-" + uuid.NewString() + ext
}
