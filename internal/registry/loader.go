package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"batchtrace/pkg/domain"
)

// Loader produces a full registry snapshot from a backing index. A load
// failure is a fatal startup condition: the orchestrator refuses to serve
// until a valid snapshot exists.
type Loader interface {
	Load(ctx context.Context) (Snapshot, error)
}

// ParseIndex decodes a JSON batch index (an object keyed by canonical batch
// code) and enforces the registry invariant: every key equals its record's
// normalized Code, with no aliasing introduced by normalization.
func ParseIndex(data []byte) (Snapshot, error) {
	var raw map[string]BatchRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse batch index: %w", err)
	}

	snap := make(Snapshot, len(raw))
	for key, rec := range raw {
		canonical := domain.NormalizeBatchCode(key)
		if canonical == "" {
			return nil, fmt.Errorf("batch index: blank key")
		}
		if key != canonical {
			return nil, fmt.Errorf("batch index: key %q is not canonical (want %q)", key, canonical)
		}
		if domain.NormalizeBatchCode(rec.Code) != canonical {
			return nil, fmt.Errorf("batch index: key %q does not match record code %q", key, rec.Code)
		}
		rec.Code = canonical
		if rec.ProductName == "" || rec.ReportLocator == "" {
			return nil, fmt.Errorf("batch index: record %s missing product name or report locator", canonical)
		}
		if _, dup := snap[canonical]; dup {
			return nil, fmt.Errorf("batch index: duplicate code %s", canonical)
		}
		snap[canonical] = rec
	}
	return snap, nil
}

// FileLoader reads the batch index from a local JSON file.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(_ context.Context) (Snapshot, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read batch index %s: %w", l.Path, err)
	}
	return ParseIndex(data)
}

// ObjectReader fetches a whole object from report storage. Satisfied by the
// storage adapters in internal/report/storage.
type ObjectReader interface {
	ReadObject(ctx context.Context, object string) ([]byte, error)
}

// ObjectLoader reads the batch index from an object in the report bucket,
// mirroring the production layout where the index lives next to the reports.
type ObjectLoader struct {
	Reader ObjectReader
	Object string
}

func (l ObjectLoader) Load(ctx context.Context) (Snapshot, error) {
	data, err := l.Reader.ReadObject(ctx, l.Object)
	if err != nil {
		return nil, fmt.Errorf("fetch batch index %s: %w", l.Object, err)
	}
	return ParseIndex(data)
}
