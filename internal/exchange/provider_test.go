package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFetcher struct {
	rates map[string]decimal.Decimal
	err   error
	calls int
}

func (s *stubFetcher) Fetch(ctx context.Context) (map[string]decimal.Decimal, time.Time, error) {
	s.calls++
	if s.err != nil {
		return nil, time.Time{}, s.err
	}
	return s.rates, time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), nil
}

func TestProvider_SnapshotRefreshesWhenStale(t *testing.T) {
	fetcher := &stubFetcher{rates: map[string]decimal.Decimal{"TWD": dec("32")}}
	p := NewProvider(fetcher, time.Hour, zerolog.Nop())

	table := p.Snapshot(context.Background())
	require.Equal(t, 1, fetcher.calls)
	assert.False(t, table.UsingFallback)
	assert.True(t, table.Rates["TWD"].Equal(dec("32")))

	// Within the TTL the cached table is served without another fetch.
	p.Snapshot(context.Background())
	assert.Equal(t, 1, fetcher.calls)
}

func TestProvider_SnapshotRefetchesAfterTTL(t *testing.T) {
	fetcher := &stubFetcher{rates: map[string]decimal.Decimal{"TWD": dec("32")}}
	p := NewProvider(fetcher, time.Hour, zerolog.Nop())

	current := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return current }

	p.Snapshot(context.Background())
	require.Equal(t, 1, fetcher.calls)

	current = current.Add(2 * time.Hour)
	p.Snapshot(context.Background())
	assert.Equal(t, 2, fetcher.calls)
}

func TestProvider_FetchFailureServesFallback(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("upstream down")}
	p := NewProvider(fetcher, time.Hour, zerolog.Nop())

	table := p.Snapshot(context.Background())
	assert.True(t, table.UsingFallback)
	assert.Empty(t, table.Rates)

	// A later failure keeps the last good table but re-flags it.
	fetcher.err = nil
	fetcher.rates = map[string]decimal.Decimal{"JPY": dec("150")}
	require.NoError(t, p.Refresh(context.Background()))

	fetcher.err = errors.New("upstream down again")
	assert.Error(t, p.Refresh(context.Background()))

	p.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	table = p.Snapshot(context.Background())
	assert.True(t, table.UsingFallback)
	assert.True(t, table.Rates["JPY"].Equal(dec("150")), "last good rates must survive a failed refresh")
}
