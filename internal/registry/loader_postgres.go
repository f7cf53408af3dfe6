package registry

import (
	"context"
	"database/sql"
	"fmt"

	"batchtrace/pkg/domain"
)

// PostgresLoader loads the full registry from the batch_records table in one
// query. Records are read-only at request time; the loader is only invoked at
// startup and on administrative reloads.
type PostgresLoader struct {
	db *sql.DB
}

// NewPostgresLoader constructs a Postgres-backed registry loader.
func NewPostgresLoader(db *sql.DB) *PostgresLoader {
	return &PostgresLoader{db: db}
}

func (l *PostgresLoader) Load(ctx context.Context) (Snapshot, error) {
	query := `
		SELECT code, product_name, test_date, lab_name, report_number,
		       report_locator, l1_producer, l2_product, l3_source, l4_lab
		FROM batch_records
	`
	rows, err := l.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query batch records: %w", err)
	}
	defer rows.Close()

	snap := make(Snapshot)
	for rows.Next() {
		var rec BatchRecord
		var l1, l2, l3, l4 sql.NullString
		if err := rows.Scan(
			&rec.Code, &rec.ProductName, &rec.TestDate, &rec.LabName,
			&rec.ReportNumber, &rec.ReportLocator, &l1, &l2, &l3, &l4,
		); err != nil {
			return nil, fmt.Errorf("scan batch record: %w", err)
		}

		canonical := domain.NormalizeBatchCode(rec.Code)
		if canonical == "" {
			return nil, fmt.Errorf("batch record with blank code")
		}
		if rec.Code != canonical {
			return nil, fmt.Errorf("batch record code %q is not canonical", rec.Code)
		}
		if _, dup := snap[canonical]; dup {
			return nil, fmt.Errorf("duplicate batch code %s", canonical)
		}
		if l1.Valid || l2.Valid || l3.Valid || l4.Valid {
			rec.Traceability = &Traceability{
				L1Producer: l1.String,
				L2Product:  l2.String,
				L3Source:   l3.String,
				L4Lab:      l4.String,
			}
		}
		snap[canonical] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch records: %w", err)
	}
	return snap, nil
}
