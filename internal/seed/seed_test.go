package seed

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/resource-api/internal/models"
	"github.com/starford/resource-api/internal/store"
	"github.com/starford/resource-api/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	s := testutil.TestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	n, err := Run(ctx, s, quietLogger(), Options{
		Count: 12,
		Rand:  rand.New(rand.NewPCG(1, 2)),
		Now:   func() time.Time { return now },
	})
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	all, err := s.FindAll(ctx, store.Filter{Limit: 100})
	require.NoError(t, err)
	require.Len(t, all, 12)

	for _, r := range all {
		assert.True(t, r.Type.Valid(), "type %q", r.Type)
		assert.NotEmpty(t, r.Name)
		assert.False(t, r.CreatedAt.After(now))
		assert.True(t, r.CreatedAt.After(now.AddDate(-2, 0, -1)))

		url, _ := r.Data["url"].(string)
		switch r.Type {
		case models.ResourceTypeA:
			assert.True(t, strings.HasSuffix(url, "/video.mp4"), url)
			assert.Contains(t, r.Data, "duration")
		case models.ResourceTypeB:
			assert.True(t, strings.HasSuffix(url, "/document.pdf"), url)
			assert.Contains(t, r.Data, "pages")
		}
	}
}

func TestRun_Reset(t *testing.T) {
	s := testutil.TestStore(t)
	ctx := context.Background()

	_, err := Run(ctx, s, quietLogger(), Options{Count: 3})
	require.NoError(t, err)
	_, err = Run(ctx, s, quietLogger(), Options{Count: 2, Reset: true})
	require.NoError(t, err)

	count, err := s.Count(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
