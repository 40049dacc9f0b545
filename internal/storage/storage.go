// Package storage is the object store gateway: blobs are addressed by a
// collection and a file name, and the key is "<collection>/<fileName>".
package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Collection is a top-level folder of the bucket.
type Collection string

const (
	CollectionRoutes           Collection = "routes"
	CollectionPoints           Collection = "points"
	CollectionPointSuggestions Collection = "pointSuggestions"
)

var (
	// ErrNotFound is returned when the addressed object does not exist.
	ErrNotFound = errors.New("storage: object not found")
	// ErrInvalidCollection is returned for folders outside the known set.
	ErrInvalidCollection = errors.New(`storage: collection must be one of "routes", "points", "pointSuggestions"`)
	// ErrInvalidFileName is returned when a file name is not "<uuid>.<ext>".
	ErrInvalidFileName = errors.New("storage: file name must be a UUID followed by an extension")
)

// Gateway issues and deletes blobs. Implementations must be safe for
// concurrent use.
type Gateway interface {
	Delete(ctx context.Context, collection Collection, fileName string) error
	Exists(ctx context.Context, collection Collection, fileName string) (bool, error)
	IssueUploadURL(ctx context.Context, collection Collection, fileName, contentType string) (string, error)
}

// ParseCollection validates a client-supplied folder name.
func ParseCollection(raw string) (Collection, error) {
	switch c := Collection(strings.TrimSpace(raw)); c {
	case CollectionRoutes, CollectionPoints, CollectionPointSuggestions:
		return c, nil
	default:
		return "", ErrInvalidCollection
	}
}

// ObjectKey is the bucket key of fileName inside collection.
func ObjectKey(collection Collection, fileName string) string {
	return string(collection) + "/" + fileName
}

// ValidateFileName accepts names generated client-side before upload:
// a UUID followed by a file extension, e.g. "711539a9-62a1-4d9f-bfce-ee71b50bb7d3.png".
func ValidateFileName(fileName string) error {
	ext := path.Ext(fileName)
	if ext == "" || len(ext) < 2 || strings.ContainsAny(fileName, "/\\") {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, fileName)
	}
	if _, err := uuid.Parse(strings.TrimSuffix(fileName, ext)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, fileName)
	}
	return nil
}
