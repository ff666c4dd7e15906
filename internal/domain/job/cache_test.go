package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/jobnexus/internal/domain"
	"github.com/honeycarbs/jobnexus/pkg/logging"
)

type geoQuery struct {
	lat, lon float64
	radius   int
}

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		a, b geoQuery
		same bool
	}{
		{
			name: "sub 4-decimal difference shares a slot",
			a:    geoQuery{48.85661, 2.35221, 10},
			b:    geoQuery{48.85664, 2.35224, 10},
			same: true,
		},
		{
			name: "radius differs",
			a:    geoQuery{48.8566, 2.3522, 10},
			b:    geoQuery{48.8566, 2.3522, 11},
			same: false,
		},
		{
			name: "fourth decimal differs",
			a:    geoQuery{48.8566, 2.3522, 10},
			b:    geoQuery{48.8567, 2.3522, 10},
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fa := Fingerprint("q", tt.a.lat, tt.a.lon, tt.a.radius)
			fb := Fingerprint("q", tt.b.lat, tt.b.lon, tt.b.radius)
			if tt.same {
				assert.Equal(t, fa, fb)
			} else {
				assert.NotEqual(t, fa, fb)
			}
		})
	}
}

func TestFingerprint_KeysOnQueryAsGiven(t *testing.T) {
	assert.Equal(t,
		Fingerprint("devops", 48.8566, 2.3522, 10),
		Fingerprint("devops", 48.8566, 2.3522, 10),
	)
	for _, other := range []string{"DevOps", "devops ", "sre"} {
		assert.NotEqual(t,
			Fingerprint("devops", 48.8566, 2.3522, 10),
			Fingerprint(other, 48.8566, 2.3522, 10),
			other,
		)
	}
	assert.Len(t, Fingerprint("devops", 0, 0, 0), 32)
}

func TestResultCache_GetPut(t *testing.T) {
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	clock := now
	repo := newMemCacheRepo()
	cache, err := NewResultCache(repo, logging.NewNop(), WithCacheClock(func() time.Time { return clock }))
	require.NoError(t, err)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "devops", 48.8566, 2.3522, 10)
	assert.False(t, ok, "empty cache")

	jobs := []domain.Job{testJob("a", domain.SourceLBA)}
	require.NoError(t, cache.Put(ctx, "devops", 48.8566, 2.3522, 10, jobs))

	got, ok := cache.Get(ctx, "devops", 48.85661, 2.35224, 10)
	require.True(t, ok)
	assert.Equal(t, jobs, got)

	entry := repo.entries[Fingerprint("devops", 48.8566, 2.3522, 10)]
	assert.Equal(t, now.Add(24*time.Hour), entry.ExpiresAt)
	assert.Equal(t, domain.CacheParams{Query: "devops", Lat: 48.8566, Lon: 2.3522, Radius: 10}, entry.Params)

	clock = now.Add(24 * time.Hour)
	_, ok = cache.Get(ctx, "devops", 48.8566, 2.3522, 10)
	assert.True(t, ok, "expiry instant is still valid")

	clock = now.Add(24*time.Hour + time.Second)
	_, ok = cache.Get(ctx, "devops", 48.8566, 2.3522, 10)
	assert.False(t, ok, "expired entry is absent")
	assert.Len(t, repo.entries, 1, "expired entries are not deleted")

	require.NoError(t, cache.Put(ctx, "devops", 48.8566, 2.3522, 10, nil))
	got, ok = cache.Get(ctx, "devops", 48.8566, 2.3522, 10)
	require.True(t, ok, "overwritten with a fresh expiry")
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestResultCache_StoreErrors(t *testing.T) {
	repo := newMemCacheRepo()
	repo.loadErr = errUpstream
	repo.saveErr = errUpstream
	cache, err := NewResultCache(repo, nil)
	require.NoError(t, err)

	_, ok := cache.Get(context.Background(), "devops", 1, 2, 3)
	assert.False(t, ok)

	err = cache.Put(context.Background(), "devops", 1, 2, 3, nil)
	assert.ErrorIs(t, err, errUpstream)
}

func TestNewResultCache_RequiresRepository(t *testing.T) {
	_, err := NewResultCache(nil, nil)
	assert.Error(t, err)
}
