package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/at-ishikawa/systab/internal/ingest"
	"github.com/at-ishikawa/systab/internal/source"
	"github.com/at-ishikawa/systab/internal/syscalls"
)

// Store is the persisted cache of normalized entries.
type Store interface {
	Save(entries []syscalls.Entry) (int, error)
	Load() ([]syscalls.Entry, error)
}

// Builder rebuilds the cache from an upstream document.
type Builder struct {
	fetcher    source.Fetcher
	normalizer ingest.Normalizer
	store      Store
}

func NewBuilder(fetcher source.Fetcher, normalizer ingest.Normalizer, store Store) *Builder {
	return &Builder{
		fetcher:    fetcher,
		normalizer: normalizer,
		store:      store,
	}
}

// Build replaces the cache with the entries of the document at uri.
// Nothing is saved unless the whole document normalizes.
func (b *Builder) Build(ctx context.Context, uri string) (int, error) {
	slog.Default().Debug("fetching syscall table", slog.String("uri", uri))
	doc, err := b.fetcher.Fetch(ctx, uri)
	if err != nil {
		return 0, fmt.Errorf("fetcher.Fetch > %w", err)
	}

	entries, err := b.normalizer.Normalize(doc)
	if err != nil {
		return 0, fmt.Errorf("normalizer.Normalize(%s) > %w", uri, err)
	}
	slog.Default().Debug("normalized syscall table",
		slog.String("uri", uri),
		slog.Int("entries", len(entries)),
	)

	count, err := b.store.Save(entries)
	if err != nil {
		return 0, fmt.Errorf("store.Save > %w", err)
	}
	slog.Default().Info("cache rebuilt", slog.String("uri", uri), slog.Int("entries", count))
	return count, nil
}
