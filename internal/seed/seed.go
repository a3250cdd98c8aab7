// Package seed fills the store with sample resources for local development.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/starford/resource-api/internal/models"
	"github.com/starford/resource-api/internal/store"
)

// DefaultCount is the number of resources inserted when none is requested.
const DefaultCount = 30

// Target is the subset of the store the seeder writes through.
type Target interface {
	Create(ctx context.Context, in store.NewResource) (*models.Resource, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Options controls a seeding run.
type Options struct {
	Count int
	// Reset hard-deletes existing rows first.
	Reset bool
	// Rand, if nil, is seeded from the clock.
	Rand *rand.Rand
	Now  func() time.Time
}

var words = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing",
	"elit", "sed", "tempor", "incididunt", "labore", "magna", "aliqua",
	"veniam", "nostrud", "ullamco", "laboris", "commodo", "consequat",
}

var hosts = []string{"example.com", "example.org", "cdn.example.net", "media.example.io"}

// Run inserts opts.Count random resources and returns how many were created.
func Run(ctx context.Context, target Target, logger *slog.Logger, opts Options) (int, error) {
	if opts.Count <= 0 {
		opts.Count = DefaultCount
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	if opts.Reset {
		n, err := target.DeleteAll(ctx)
		if err != nil {
			return 0, fmt.Errorf("seed: reset: %w", err)
		}
		logger.Info("Existing resources removed", slog.Int64("count", n))
	}

	for i := 0; i < opts.Count; i++ {
		if _, err := target.Create(ctx, randomResource(rng, now())); err != nil {
			return i, fmt.Errorf("seed: create resource %d: %w", i, err)
		}
	}
	logger.Info("Resources seeded", slog.Int("count", opts.Count))
	return opts.Count, nil
}

func randomResource(rng *rand.Rand, now time.Time) store.NewResource {
	typ := models.ResourceTypes()[rng.IntN(len(models.ResourceTypes()))]
	host := hosts[rng.IntN(len(hosts))]

	var data map[string]any
	switch typ {
	case models.ResourceTypeA:
		data = map[string]any{
			"url":      fmt.Sprintf("https://%s/%s/video.mp4", host, word(rng)),
			"duration": 60 + rng.IntN(541),
		}
	case models.ResourceTypeB:
		data = map[string]any{
			"url":   fmt.Sprintf("https://%s/%s/document.pdf", host, word(rng)),
			"pages": 1 + rng.IntN(50),
		}
	}

	// Anywhere in the last two years.
	age := time.Duration(rng.Int64N(int64(2 * 365 * 24 * time.Hour)))

	return store.NewResource{
		Name:      sentence(rng, 2+rng.IntN(4)),
		Type:      typ,
		Data:      data,
		CreatedAt: now.Add(-age),
	}
}

func word(rng *rand.Rand) string {
	return words[rng.IntN(len(words))]
}

func sentence(rng *rand.Rand, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = word(rng)
	}
	return strings.Join(parts, " ")
}
