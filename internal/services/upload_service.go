package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"onway_routes/internal/dbctx"
	"onway_routes/internal/repository"
	"onway_routes/internal/storage"
)

// UploadService hands out upload URLs for keys nobody has claimed yet.
type UploadService struct {
	keys  repository.KeyBindingLookup
	store storage.Gateway
}

func NewUploadService(keys repository.KeyBindingLookup, store storage.Gateway) *UploadService {
	return &UploadService{keys: keys, store: store}
}

// IssueUploadURL refuses keys already recorded by an image row or already
// present in the bucket.
func (s *UploadService) IssueUploadURL(ctx context.Context, folder, fileName, fileType string) (string, error) {
	const op = "cdn.presign"

	collection, err := storage.ParseCollection(folder)
	if err != nil {
		return "", &Error{Code: CodeValidation, Op: op, Message: err.Error(), Cause: err}
	}
	if err := storage.ValidateFileName(fileName); err != nil {
		return "", &Error{Code: CodeValidation, Op: op, Message: err.Error(), Cause: err}
	}
	if strings.TrimSpace(fileType) == "" {
		return "", NewValidation(op, "fileType is required")
	}

	bound, err := s.keys.IsBound(dbctx.Context{Ctx: ctx}, collection, fileName)
	if err != nil {
		return "", wrapDB(op, err)
	}
	if bound {
		return "", NewConflict(op, "%s is already in use", storage.ObjectKey(collection, fileName))
	}
	exists, err := s.store.Exists(ctx, collection, fileName)
	if err != nil {
		return "", &Error{Code: CodeInternal, Op: op, Message: "object store unavailable", Cause: err}
	}
	if exists {
		return "", NewConflict(op, "%s already exists", storage.ObjectKey(collection, fileName))
	}

	url, err := s.store.IssueUploadURL(ctx, collection, fileName, fileType)
	if err != nil {
		return "", &Error{Code: CodeInternal, Op: op, Message: "could not sign upload URL", Cause: err}
	}
	logrus.WithFields(logrus.Fields{
		"collection": collection,
		"key":        storage.ObjectKey(collection, fileName),
	}).Debug("Upload URL issued")
	return url, nil
}
