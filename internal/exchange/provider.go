package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Fetcher retrieves a fresh rate table from an external source.
type Fetcher interface {
	Fetch(ctx context.Context) (map[string]decimal.Decimal, time.Time, error)
}

// Provider hands out rate-table snapshots to the settlement layer. It keeps a
// process-wide cache with a TTL in front of the fetcher; when a fetch fails
// or the source is unreachable, the last good table (or an empty one) is
// served with UsingFallback set so callers can flag degraded accuracy instead
// of blocking the user. The engine itself only ever sees the returned Table
// value, never the cache.
type Provider struct {
	fetcher Fetcher
	ttl     time.Duration
	log     zerolog.Logger

	mu        sync.RWMutex
	table     Table
	fetchedAt time.Time

	now func() time.Time
}

// NewProvider creates a rate provider with the given cache TTL.
func NewProvider(fetcher Fetcher, ttl time.Duration, log zerolog.Logger) *Provider {
	return &Provider{
		fetcher: fetcher,
		ttl:     ttl,
		log:     log.With().Str("component", "rates").Logger(),
		table:   Table{UsingFallback: true},
		now:     time.Now,
	}
}

// Snapshot returns the current rate table, refreshing it first if the cached
// copy is older than the TTL. It never fails: a refresh error just means the
// snapshot keeps serving the previous table flagged as fallback.
func (p *Provider) Snapshot(ctx context.Context) Table {
	p.mu.RLock()
	fresh := !p.fetchedAt.IsZero() && p.now().Sub(p.fetchedAt) < p.ttl
	table := p.table
	p.mu.RUnlock()

	if fresh {
		return table
	}

	if err := p.Refresh(ctx); err != nil {
		p.log.Warn().Err(err).Msg("rate refresh failed, serving fallback table")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.table
}

// Refresh fetches a new table and replaces the cached one. On failure the
// cached table is kept but re-flagged as fallback.
func (p *Provider) Refresh(ctx context.Context) error {
	rates, date, err := p.fetcher.Fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.table.UsingFallback = true
		return err
	}

	p.table = Table{Rates: rates, Date: date, UsingFallback: false}
	p.fetchedAt = p.now()
	p.log.Info().Int("currencies", len(rates)).Time("date", date).Msg("rate table refreshed")
	return nil
}
