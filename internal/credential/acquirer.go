package credential

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL bounds how long a cached credential is served before a refresh.
// The upstream token is itself short-lived; refreshing proactively avoids
// handing the catalog client a token already expired server-side while
// keeping automation runs (each of which risks detection) rare.
const DefaultTTL = 30 * time.Minute

// Extractor is the acquirer's view of one automated browser session. The
// second return reports whether a value was obtained; the session never
// raises automation errors past its own boundary.
type Extractor interface {
	ExtractValue(ctx context.Context, targetURL string) (string, bool)
	Close()
}

// SessionFactory opens a fresh automation session. It is invoked only on the
// slow path, at most once per GetCredential call.
type SessionFactory func(ctx context.Context) (Extractor, error)

// Acquirer is the single entry point downstream consumers use to obtain a
// bearer credential. It owns the cache: nothing else writes it.
type Acquirer struct {
	store      Store
	newSession SessionFactory
	targetURL  string
	now        func() time.Time
	log        *zap.Logger
}

func NewAcquirer(store Store, factory SessionFactory, targetURL string, logger *zap.Logger) *Acquirer {
	return &Acquirer{
		store:      store,
		newSession: factory,
		targetURL:  targetURL,
		now:        time.Now,
		log:        logger.Named("acquirer"),
	}
}

// GetCredential returns a credential no older than ttl. The fast path (cached
// credential still fresh) performs no navigation, no waits and no writes. The
// slow path opens exactly one browser session, extracts a new value, stamps
// it with the current time and persists it. There is no internal retry: if
// the session produces nothing, the caller gets ErrAcquisition, never a stale
// or partial credential.
func (a *Acquirer) GetCredential(ctx context.Context, ttl time.Duration) (Credential, error) {
	cached, err := a.store.Load()
	if err != nil {
		return Credential{}, err
	}
	if cached.Fresh(ttl, a.now()) {
		a.log.Debug("Cached credential still fresh, skipping acquisition",
			zap.Time("sourced_at", cached.SourcedAt),
			zap.Duration("ttl", ttl),
		)
		return *cached, nil
	}

	a.log.Info("Cached credential missing or stale, starting automated acquisition",
		zap.String("target_url", a.targetURL))

	session, err := a.newSession(ctx)
	if err != nil {
		return Credential{}, fmt.Errorf("%w: %v", ErrSessionInit, err)
	}
	defer session.Close()

	value, ok := session.ExtractValue(ctx, a.targetURL)
	if !ok || value == "" {
		return Credential{}, ErrAcquisition
	}

	fresh := Credential{Value: value, SourcedAt: a.now()}
	if err := a.store.Save(fresh); err != nil {
		// A failed cache write does not invalidate the value we already hold;
		// the next run simply pays for another acquisition.
		a.log.Warn("Failed to persist credential cache", zap.Error(err))
	}
	a.log.Info("Credential acquired", zap.Time("sourced_at", fresh.SourcedAt))
	return fresh, nil
}
