package cli

import (
	"fmt"

	"github.com/at-ishikawa/systab/internal/presenter"
	"github.com/at-ishikawa/systab/internal/query"
	"github.com/at-ishikawa/systab/internal/syscalls"
)

// Querier answers lookups against the cache and prints the result.
type Querier struct {
	store     Store
	presenter *presenter.Presenter
}

func NewQuerier(store Store, p *presenter.Presenter) *Querier {
	return &Querier{
		store:     store,
		presenter: p,
	}
}

func (q *Querier) load() ([]syscalls.Entry, error) {
	entries, err := q.store.Load()
	if err != nil {
		return nil, fmt.Errorf("store.Load > %w", err)
	}
	return entries, nil
}

// List prints every cached entry with its position and id.
func (q *Querier) List() error {
	entries, err := q.load()
	if err != nil {
		return err
	}
	return q.presenter.Listing(entries)
}

// Get prints the entry at the cache position given by index.
func (q *Querier) Get(index string) error {
	entries, err := q.load()
	if err != nil {
		return err
	}
	i, err := query.ParseIndex(index)
	if err != nil {
		return err
	}
	entry, err := query.ByIndex(entries, i)
	if err != nil {
		return err
	}
	return q.presenter.Entry(entry)
}

// Call prints the first entry whose rax/eax value equals id.
func (q *Querier) Call(id string, base query.Base) error {
	entries, err := q.load()
	if err != nil {
		return err
	}
	entry, err := query.ByID(entries, id, base)
	if err != nil {
		return err
	}
	return q.presenter.Entry(entry)
}

// Name prints every entry whose name contains substr and how many matched.
func (q *Querier) Name(substr string) (int, error) {
	entries, err := q.load()
	if err != nil {
		return 0, err
	}
	result := query.ByName(entries, substr)
	if err := q.presenter.Matches(result); err != nil {
		return 0, err
	}
	return result.Count(), nil
}
