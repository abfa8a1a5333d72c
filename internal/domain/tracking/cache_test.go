package tracking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashIP(t *testing.T) {
	a := hashIP("203.0.113.7")
	assert.Len(t, a, 16)
	assert.Equal(t, a, hashIP("203.0.113.7"))
	assert.NotEqual(t, a, hashIP("203.0.113.8"))
	assert.NotContains(t, a, "203")
}

func TestRangeKey(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 12, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))

	assert.Equal(t, "-:-", Range{}.key())
	assert.Equal(t, "2024-03-01T00:00:00Z:-", Range{From: &from}.key())
	assert.Equal(t, "2024-03-01T00:00:00Z:2024-03-31T10:00:00Z", Range{From: &from, To: &to}.key())
	assert.Equal(t, "tracking:stats:version:p-1", versionKey("p-1"))
}

func TestNopCache(t *testing.T) {
	ctx := context.Background()
	var c Cache = NopCache{}

	first, err := c.MarkClick(ctx, "l", "ip", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)
	first, err = c.MarkClick(ctx, "l", "ip", time.Minute)
	require.NoError(t, err)
	assert.True(t, first)

	stats, err := c.GetStats(ctx, "p", Range{})
	require.NoError(t, err)
	assert.Nil(t, stats)
	assert.NoError(t, c.SetStats(ctx, "p", Range{}, &ProductStats{}, time.Minute))
	assert.NoError(t, c.InvalidateStats(ctx, "p"))
}
