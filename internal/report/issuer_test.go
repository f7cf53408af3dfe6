package report_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchtrace/internal/registry"
	"batchtrace/internal/report"
	"batchtrace/internal/report/storage"
	dErrors "batchtrace/pkg/domain-errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tomatoPulp() registry.BatchRecord {
	return registry.BatchRecord{
		Code:          "ADIF5HW825",
		ProductName:   "Tomato Pulp",
		TestDate:      "22/09/2025",
		LabName:       "BANGALORE ANALYTICAL RESEARCH CENTRE PVT LTD",
		ReportNumber:  "BARC/FD/25/09/0456",
		ReportLocator: "reports/ADIF5HW825.pdf",
	}
}

func TestIssue_SingleFile(t *testing.T) {
	store := storage.NewMemory()
	store.Put("reports/ADIF5HW825.pdf", []byte("%PDF-1.4"))
	issuer := report.NewIssuer(store, 15*time.Minute, discardLogger())

	before := time.Now()
	cred, err := issuer.Issue(context.Background(), tomatoPulp())
	require.NoError(t, err)

	assert.False(t, cred.Folder)
	assert.Equal(t, "Tomato_Pulp.pdf", cred.Filename)
	assert.Contains(t, cred.URL, "reports/ADIF5HW825.pdf")

	// expiry is issuance time plus the 15 minute lifetime, within jitter
	assert.WithinDuration(t, before.Add(15*time.Minute), cred.ExpiresAt, 2*time.Second)
}

func TestIssue_SignedURLEncodesPolicy(t *testing.T) {
	store := storage.NewMemory()
	store.Put("reports/ADIF5HW825.pdf", []byte("%PDF-1.4"))
	issuer := report.NewIssuer(store, 15*time.Minute, discardLogger())

	cred, err := issuer.Issue(context.Background(), tomatoPulp())
	require.NoError(t, err)

	u, err := url.Parse(cred.URL)
	require.NoError(t, err)
	disposition := u.Query().Get("response-content-disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "Tomato_Pulp.pdf")
	assert.Equal(t, fmt.Sprintf("%d", cred.ExpiresAt.Unix()), u.Query().Get("expires"))
}

func TestIssue_CredentialScopedToRequestedObject(t *testing.T) {
	store := storage.NewMemory()
	store.Put("reports/ADIF5HW825.pdf", []byte("tomato"))
	store.Put("reports/ADIT28WS25.pdf", []byte("wheat"))
	issuer := report.NewIssuer(store, 15*time.Minute, discardLogger())

	wheat := tomatoPulp()
	wheat.Code = "ADIT28WS25"
	wheat.ProductName = "Wheat Processed"
	wheat.ReportLocator = "reports/ADIT28WS25.pdf"

	tomatoCred, err := issuer.Issue(context.Background(), tomatoPulp())
	require.NoError(t, err)
	wheatCred, err := issuer.Issue(context.Background(), wheat)
	require.NoError(t, err)

	assert.Contains(t, tomatoCred.URL, "ADIF5HW825")
	assert.NotContains(t, tomatoCred.URL, "ADIT28WS25")
	assert.Contains(t, wheatCred.URL, "ADIT28WS25")
}

func TestIssue_ArtifactMissing(t *testing.T) {
	issuer := report.NewIssuer(storage.NewMemory(), 15*time.Minute, discardLogger())

	_, err := issuer.Issue(context.Background(), tomatoPulp())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeArtifactMissing))
}

type failingStore struct{}

func (failingStore) Exists(context.Context, string) (bool, error) {
	return false, fmt.Errorf("rpc error: unavailable")
}

func (failingStore) SignedURL(context.Context, string, report.SignOptions) (string, error) {
	return "", fmt.Errorf("rpc error: unavailable")
}

func TestIssue_StorageFailureIsInternal(t *testing.T) {
	issuer := report.NewIssuer(failingStore{}, 15*time.Minute, discardLogger())

	_, err := issuer.Issue(context.Background(), tomatoPulp())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInternal))
	assert.False(t, dErrors.HasCode(err, dErrors.CodeArtifactMissing))
}

func TestIssue_FolderLocator(t *testing.T) {
	issuer := report.NewIssuer(storage.NewMemory(), 15*time.Minute, discardLogger())

	rec := tomatoPulp()
	rec.ReportLocator = "https://drive.google.com/drive/folders/1ll_m8KYkP0lC1NwdIIx1edYkoiM8Lpei"

	cred, err := issuer.Issue(context.Background(), rec)
	require.NoError(t, err)
	assert.True(t, cred.Folder)
	assert.Equal(t, rec.ReportLocator, cred.URL)
	assert.True(t, cred.ExpiresAt.IsZero())
}

func TestIssue_ExternalFileLocatorPassesThrough(t *testing.T) {
	issuer := report.NewIssuer(storage.NewMemory(), 15*time.Minute, discardLogger())

	rec := tomatoPulp()
	rec.ReportLocator = "https://drive.google.com/file/d/1unSRMOL3uRvEpKalEkpB6dpxuGBAxunk/view"

	cred, err := issuer.Issue(context.Background(), rec)
	require.NoError(t, err)
	assert.False(t, cred.Folder)
	assert.Equal(t, rec.ReportLocator, cred.URL)
}

func TestIsFolderLocator(t *testing.T) {
	tests := []struct {
		locator string
		want    bool
	}{
		{"https://drive.google.com/drive/folders/abc123", true},
		{"reports/batch/", true},
		{"reports/ADIF5HW825.pdf", false},
		{"https://drive.google.com/file/d/abc/view", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, report.IsFolderLocator(tt.locator), tt.locator)
	}
}

func TestAttachmentFilename(t *testing.T) {
	tests := []struct {
		product string
		want    string
	}{
		{"Tomato Pulp", "Tomato_Pulp.pdf"},
		{"Wheat Processed - Premium", "Wheat_Processed_-_Premium.pdf"},
		{"", "report.pdf"},
		{"  Mango  ", "Mango.pdf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, report.AttachmentFilename(tt.product))
	}
}

func TestIssue_DefaultTTL(t *testing.T) {
	store := storage.NewMemory()
	store.Put("reports/ADIF5HW825.pdf", []byte("x"))
	issuer := report.NewIssuer(store, 0, discardLogger())

	cred, err := issuer.Issue(context.Background(), tomatoPulp())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), cred.ExpiresAt, 2*time.Second)
}

func TestMemoryStore_ReadObject(t *testing.T) {
	store := storage.NewMemory()
	store.Put("batch-index.json", []byte(`{}`))

	data, err := store.ReadObject(context.Background(), "batch-index.json")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	_, err = store.ReadObject(context.Background(), "missing")
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "exist"))
}
