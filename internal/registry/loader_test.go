package registry_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchtrace/internal/registry"
)

const validIndex = `{
	"ADIF5HW825": {
		"code": "ADIF5HW825",
		"productName": "Tomato Pulp",
		"testDate": "22/09/2025",
		"labName": "BANGALORE ANALYTICAL RESEARCH CENTRE PVT LTD",
		"reportNumber": "BARC/FD/25/09/0456",
		"reportLocator": "reports/ADIF5HW825.pdf",
		"traceability": {
			"l1Producer": "Adi Bharat E-Tech (OPC) Pvt. Ltd.",
			"l2Product": "Tomato Pulp (Food)",
			"l3Source": "Standard Supplier Pool",
			"l4Lab": "BARC - Bangalore"
		}
	},
	"ADIT28WS25": {
		"code": "ADIT28WS25",
		"productName": "Wheat Processed",
		"testDate": "22/09/2025",
		"labName": "BANGALORE ANALYTICAL RESEARCH CENTRE PVT LTD",
		"reportNumber": "BARC/FD/25/09/0457",
		"reportLocator": "https://drive.google.com/drive/folders/1ll_m8KYkP0lC1NwdIIx1edYkoiM8Lpei"
	}
}`

func TestParseIndex_Valid(t *testing.T) {
	snap, err := registry.ParseIndex([]byte(validIndex))
	require.NoError(t, err)
	require.Len(t, snap, 2)

	rec := snap["ADIF5HW825"]
	assert.Equal(t, "Tomato Pulp", rec.ProductName)
	require.NotNil(t, rec.Traceability)
	assert.Equal(t, "BARC - Bangalore", rec.Traceability.L4Lab)

	assert.Nil(t, snap["ADIT28WS25"].Traceability)
}

func TestParseIndex_RejectsNonCanonicalKey(t *testing.T) {
	_, err := registry.ParseIndex([]byte(`{
		"adif5hw825": {"code": "adif5hw825", "productName": "Tomato Pulp", "reportLocator": "reports/x.pdf"}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not canonical")
}

func TestParseIndex_RejectsKeyRecordMismatch(t *testing.T) {
	_, err := registry.ParseIndex([]byte(`{
		"ADIF5HW825": {"code": "OTHERCODE1", "productName": "Tomato Pulp", "reportLocator": "reports/x.pdf"}
	}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match record code")
}

func TestParseIndex_RejectsIncompleteRecord(t *testing.T) {
	_, err := registry.ParseIndex([]byte(`{
		"ADIF5HW825": {"code": "ADIF5HW825", "productName": "", "reportLocator": "reports/x.pdf"}
	}`))
	assert.Error(t, err)

	_, err = registry.ParseIndex([]byte(`{
		"ADIF5HW825": {"code": "ADIF5HW825", "productName": "Tomato Pulp", "reportLocator": ""}
	}`))
	assert.Error(t, err)
}

func TestParseIndex_RejectsMalformedJSON(t *testing.T) {
	_, err := registry.ParseIndex([]byte(`{not json`))
	assert.Error(t, err)
}

func TestFileLoader_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch-index.json")
	require.NoError(t, os.WriteFile(path, []byte(validIndex), 0o600))

	snap, err := registry.FileLoader{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap, 2)
}

type stubObjectReader struct {
	objects map[string][]byte
}

func (s *stubObjectReader) ReadObject(_ context.Context, object string) ([]byte, error) {
	data, ok := s.objects[object]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func TestObjectLoader(t *testing.T) {
	reader := &stubObjectReader{objects: map[string][]byte{
		"batch-index.json": []byte(validIndex),
	}}

	snap, err := registry.ObjectLoader{Reader: reader, Object: "batch-index.json"}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap, 2)

	_, err = registry.ObjectLoader{Reader: reader, Object: "missing.json"}.Load(context.Background())
	assert.Error(t, err)
}
