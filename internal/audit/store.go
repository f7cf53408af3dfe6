package audit

import "context"

// Store is the append-only sink for audit entries. Append is the unit of
// atomicity: implementations must support concurrent appends without
// interleaving or corrupting individual entries. Nothing in this service
// reads entries back; List exists for tests and operator tooling.
type Store interface {
	Append(ctx context.Context, entry Entry) error
}
