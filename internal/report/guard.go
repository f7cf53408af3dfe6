package report

import (
	"context"
	"log/slog"

	dErrors "batchtrace/pkg/domain-errors"
	"batchtrace/pkg/platform/circuit"
)

// GuardedStore wraps an ObjectStore with a circuit breaker. When the storage
// backend is failing, verification requests get a fast internal error
// instead of waiting out the full request timeout.
type GuardedStore struct {
	inner   ObjectStore
	breaker *circuit.Breaker
	logger  *slog.Logger
}

// NewGuardedStore wraps the store with the given breaker.
func NewGuardedStore(inner ObjectStore, breaker *circuit.Breaker, logger *slog.Logger) *GuardedStore {
	return &GuardedStore{inner: inner, breaker: breaker, logger: logger}
}

func (g *GuardedStore) Exists(ctx context.Context, object string) (bool, error) {
	if !g.breaker.Allow() {
		return false, g.rejected()
	}
	exists, err := g.inner.Exists(ctx, object)
	g.observe(ctx, err)
	return exists, err
}

func (g *GuardedStore) SignedURL(ctx context.Context, object string, opts SignOptions) (string, error) {
	if !g.breaker.Allow() {
		return "", g.rejected()
	}
	url, err := g.inner.SignedURL(ctx, object, opts)
	g.observe(ctx, err)
	return url, err
}

func (g *GuardedStore) rejected() error {
	return dErrors.New(dErrors.CodeInternal, "report storage circuit open")
}

func (g *GuardedStore) observe(ctx context.Context, err error) {
	if err == nil {
		if change := g.breaker.RecordSuccess(); change.Closed {
			g.logger.InfoContext(ctx, "report storage recovered, circuit closed",
				"breaker", g.breaker.Name())
		}
		return
	}
	if change := g.breaker.RecordFailure(); change.Opened {
		g.logger.ErrorContext(ctx, "report storage failing, circuit opened",
			"breaker", g.breaker.Name(),
			"error", err,
		)
	}
}

var _ ObjectStore = (*GuardedStore)(nil)
