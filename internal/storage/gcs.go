package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gcstorage "cloud.google.com/go/storage"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"onway_routes/internal/config"
)

const (
	ModeGCS         = "gcs"
	ModeGCSEmulator = "gcs_emulator"
)

type gcsGateway struct {
	client       *gcstorage.Client
	bucket       string
	emulatorHost string
	uploadTTL    time.Duration
}

// NewGCS builds a Gateway over a Google Cloud Storage bucket, or over a
// fake-gcs-server when cfg.Mode is "gcs_emulator".
func NewGCS(ctx context.Context, cfg config.StorageConfig) (Gateway, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("missing env var CDN_BUCKET_NAME")
	}

	var opts []option.ClientOption
	emulatorHost := ""
	switch cfg.Mode {
	case ModeGCS, "":
		if creds := strings.TrimSpace(cfg.CredentialsJSON); creds != "" {
			opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
		}
		opts = append(opts, option.WithScopes(gcstorage.ScopeReadWrite))
	case ModeGCSEmulator:
		emulatorHost = strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
		if emulatorHost == "" {
			return nil, fmt.Errorf("OBJECT_STORAGE_MODE=%q requires STORAGE_EMULATOR_HOST to be set", ModeGCSEmulator)
		}
		opts = append(opts, option.WithoutAuthentication(), option.WithEndpoint(emulatorHost+"/storage/v1/"))
	default:
		return nil, fmt.Errorf("invalid OBJECT_STORAGE_MODE=%q (allowed: %q, %q)", cfg.Mode, ModeGCS, ModeGCSEmulator)
	}

	client, err := gcstorage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	ttl := cfg.UploadURLTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	logrus.WithFields(logrus.Fields{
		"mode":          cfg.Mode,
		"bucket":        cfg.Bucket,
		"emulator_host": emulatorHost,
	}).Info("Object storage initialized")

	return &gcsGateway{
		client:       client,
		bucket:       cfg.Bucket,
		emulatorHost: emulatorHost,
		uploadTTL:    ttl,
	}, nil
}

func (g *gcsGateway) object(collection Collection, fileName string) *gcstorage.ObjectHandle {
	return g.client.Bucket(g.bucket).Object(ObjectKey(collection, fileName))
}

func (g *gcsGateway) Delete(ctx context.Context, collection Collection, fileName string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := g.object(collection, fileName).Delete(ctx); err != nil {
		if errors.Is(err, gcstorage.ErrObjectNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, ObjectKey(collection, fileName))
		}
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", ObjectKey(collection, fileName), g.bucket, err)
	}
	return nil
}

func (g *gcsGateway) Exists(ctx context.Context, collection Collection, fileName string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := g.object(collection, fileName).Attrs(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, gcstorage.ErrObjectNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("stat GCS object %q: %w", ObjectKey(collection, fileName), err)
	}
}

// IssueUploadURL returns a short-lived URL the client PUTs the object to.
func (g *gcsGateway) IssueUploadURL(ctx context.Context, collection Collection, fileName, contentType string) (string, error) {
	key := ObjectKey(collection, fileName)
	if g.emulatorHost != "" {
		// fake-gcs-server does not verify signatures; hand out its media upload endpoint.
		return fmt.Sprintf(
			"%s/upload/storage/v1/b/%s/o?uploadType=media&name=%s",
			g.emulatorHost,
			url.PathEscape(g.bucket),
			url.QueryEscape(key),
		), nil
	}

	signed, err := g.client.Bucket(g.bucket).SignedURL(key, &gcstorage.SignedURLOptions{
		Scheme:      gcstorage.SigningSchemeV4,
		Method:      "PUT",
		ContentType: contentType,
		Expires:     time.Now().Add(g.uploadTTL),
	})
	if err != nil {
		return "", fmt.Errorf("sign upload URL for %q: %w", key, err)
	}
	return signed, nil
}
