// Package storage provides object store implementations of the report
// issuer's collaborator interface. Google Cloud Storage in production, an
// in-memory store for development and tests.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"cloud.google.com/go/storage"

	"batchtrace/internal/report"
)

// GCS signs report URLs through the bucket's own signing capability. No
// signing crypto lives in this service; the client library and the service
// account key do the work.
type GCS struct {
	client *storage.Client
	bucket string
}

// NewGCS creates a GCS-backed object store for the given bucket.
func NewGCS(ctx context.Context, bucket string) (*GCS, error) {
	if bucket == "" {
		return nil, fmt.Errorf("report bucket not configured")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCS{client: client, bucket: bucket}, nil
}

// Exists checks whether the object is present in the bucket.
func (g *GCS) Exists(ctx context.Context, object string) (bool, error) {
	_, err := g.client.Bucket(g.bucket).Object(object).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat object %s: %w", object, err)
	}
	return true, nil
}

// SignedURL mints a V4 signed URL scoped to a single object and the GET
// method, expiring at opts.Expires, with a response-content-disposition
// forcing the browser to download the report as an attachment.
func (g *GCS) SignedURL(_ context.Context, object string, opts report.SignOptions) (string, error) {
	u, err := g.client.Bucket(g.bucket).SignedURL(object, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: opts.Expires,
		QueryParameters: url.Values{
			"response-content-disposition": {fmt.Sprintf("attachment; filename=%q", opts.Filename)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", object, err)
	}
	return u, nil
}

// ReadObject fetches a whole object. Used by the registry's ObjectLoader to
// pull the batch index from the bucket at startup.
func (g *GCS) ReadObject(ctx context.Context, object string) ([]byte, error) {
	r, err := g.client.Bucket(g.bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", object, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", object, err)
	}
	return data, nil
}

// Health verifies the bucket is reachable with current credentials.
func (g *GCS) Health(ctx context.Context) error {
	_, err := g.client.Bucket(g.bucket).Attrs(ctx)
	return err
}

// Close releases the underlying client.
func (g *GCS) Close() error {
	return g.client.Close()
}
