// Package report resolves a batch record to something retrievable: a
// short-lived signed URL for single-file reports, or the collection
// reference itself for multi-file folder reports.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"batchtrace/internal/registry"
	dErrors "batchtrace/pkg/domain-errors"
)

// SignOptions fixes the signing parameters for one credential. The storage
// provider does the actual signing; this package only sets policy.
type SignOptions struct {
	Expires time.Time
	// Filename forces Content-Disposition: attachment with this name, so
	// browsers download instead of rendering the confidential report inline.
	Filename string
}

// ObjectStore is the storage collaborator: existence checks and provider
// signed URLs for single objects.
type ObjectStore interface {
	Exists(ctx context.Context, object string) (bool, error)
	SignedURL(ctx context.Context, object string, opts SignOptions) (string, error)
}

// Credential is a retrievable reference to a report artifact.
// Folder credentials carry the collection URL directly and have no expiry of
// their own; single-file credentials minted from bucket objects are signed,
// scoped to one object, and expire at ExpiresAt.
type Credential struct {
	URL       string
	Filename  string
	ExpiresAt time.Time
	Folder    bool
}

// Issuer mints credentials for resolved batch records.
type Issuer struct {
	store  ObjectStore
	ttl    time.Duration
	logger *slog.Logger
}

// NewIssuer creates an issuer. A zero ttl falls back to 15 minutes, the
// exposure bound chosen for confidential lab reports.
func NewIssuer(store ObjectStore, ttl time.Duration, logger *slog.Logger) *Issuer {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Issuer{store: store, ttl: ttl, logger: logger}
}

// Issue resolves the record's locator into a credential.
//
// Folder locators are returned as-is, flagged so the consuming UI renders
// "open folder" instead of "download". External file URLs (legacy records
// pointing at a drive share) pass through unsigned; the external provider
// owns their access control. Bucket object paths are checked for existence
// and signed read-only with a forced-attachment filename.
func (i *Issuer) Issue(ctx context.Context, rec registry.BatchRecord) (*Credential, error) {
	locator := rec.ReportLocator

	if IsFolderLocator(locator) {
		return &Credential{URL: locator, Folder: true}, nil
	}
	if isExternalLocator(locator) {
		return &Credential{URL: locator, Filename: AttachmentFilename(rec.ProductName)}, nil
	}

	exists, err := i.store.Exists(ctx, locator)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "check report object")
	}
	if !exists {
		// Registry says the report exists; storage disagrees. Upstream data
		// inconsistency, so log loudly with the locator.
		i.logger.ErrorContext(ctx, "report object missing from storage",
			"batch_code", rec.Code,
			"locator", locator,
		)
		return nil, dErrors.New(dErrors.CodeArtifactMissing,
			fmt.Sprintf("report object %s does not exist", locator))
	}

	expires := time.Now().Add(i.ttl)
	filename := AttachmentFilename(rec.ProductName)
	url, err := i.store.SignedURL(ctx, locator, SignOptions{
		Expires:  expires,
		Filename: filename,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sign report url")
	}

	return &Credential{
		URL:       url,
		Filename:  filename,
		ExpiresAt: expires,
		Folder:    false,
	}, nil
}

// IsFolderLocator reports whether a locator references an external folder
// (a collection of files) rather than a single object.
func IsFolderLocator(locator string) bool {
	if strings.HasSuffix(locator, "/") {
		return true
	}
	return isExternalLocator(locator) && strings.Contains(locator, "/folders/")
}

func isExternalLocator(locator string) bool {
	return strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://")
}

// AttachmentFilename derives the forced-download filename from the product
// name: spaces replaced with underscores, ".pdf" extension.
func AttachmentFilename(productName string) string {
	name := strings.TrimSpace(productName)
	if name == "" {
		name = "report"
	}
	return strings.ReplaceAll(name, " ", "_") + ".pdf"
}
