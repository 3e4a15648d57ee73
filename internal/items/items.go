// Package items owns the canonical in-memory to-do collection.
//
// A Store is created once per session around a persistence port. Every mutation swaps in a
// new snapshot built by package mutate and then saves the whole snapshot. Persistence failures
// are logged and remembered but never undo the in-memory change.
package items

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"

	"todo-cli/internal/logging"
	"todo-cli/internal/model"
	"todo-cli/internal/mutate"
	"todo-cli/internal/store"
)

type Store struct {
	port store.Port
	log  *log.Logger
	now  func() time.Time
	seed func() []model.Item

	items        []model.Item
	lastWriteErr error
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSeed replaces the bundled seed used when nothing is persisted.
func WithSeed(items []model.Item) Option {
	return func(s *Store) {
		seed := model.CloneItems(items)
		s.seed = func() []model.Item { return model.CloneItems(seed) }
	}
}

// Open loads the collection from port, falling back to the seed list when there is no
// persisted state or it cannot be read.
func Open(ctx context.Context, port store.Port, opts ...Option) *Store {
	s := &Store{
		port: port,
		log:  logging.Discard(),
		now:  time.Now,
		seed: store.Seed,
	}
	for _, o := range opts {
		o(s)
	}

	loaded, err := port.Load(ctx)
	switch {
	case err == nil:
		s.items = loaded
		s.log.Debug("loaded items", "count", len(loaded))
	case errors.Is(err, store.ErrNoState):
		s.items = s.seed()
		s.log.Debug("no persisted items; using seed", "count", len(s.items))
	default:
		s.items = s.seed()
		s.log.Warn("could not load items; using seed", "err", err)
	}
	if s.items == nil {
		s.items = []model.Item{}
	}
	return s
}

// Items returns a copy of the current snapshot in display order.
func (s *Store) Items() []model.Item {
	return model.CloneItems(s.items)
}

func (s *Store) Len() int { return len(s.items) }

func (s *Store) Find(id string) (model.Item, bool) {
	i := model.IndexOf(s.items, id)
	if i < 0 {
		return model.Item{}, false
	}
	return s.items[i], true
}

// LastWriteError returns the error of the most recent save, nil if it succeeded.
func (s *Store) LastWriteError() error { return s.lastWriteErr }

// Add prepends a new open item. Text is stored as given.
func (s *Store) Add(ctx context.Context, text string) model.Item {
	id, err := store.NewItemID(func(id string) bool { return model.IndexOf(s.items, id) >= 0 })
	if err != nil {
		// crypto/rand failing leaves nothing sensible to fall back to for uniqueness.
		panic("items: generate id: " + err.Error())
	}
	it := model.Item{
		ID:        id,
		Text:      text,
		Completed: false,
		CreatedAt: model.FormatCreatedAt(s.now()),
	}
	s.commit(ctx, mutate.Prepend(s.items, it), "add", it.ID)
	return it
}

// Delete removes all items whose id is in ids and returns how many were removed.
func (s *Store) Delete(ctx context.Context, ids ...string) int {
	next, removed := mutate.Delete(s.items, ids)
	if removed == 0 {
		return 0
	}
	s.commit(ctx, next, "delete", ids...)
	return removed
}

// ToggleCompleted flips the completion flag; false when id is unknown.
func (s *Store) ToggleCompleted(ctx context.Context, id string) bool {
	next, changed := mutate.ToggleCompleted(s.items, id)
	if !changed {
		return false
	}
	s.commit(ctx, next, "toggle", id)
	return true
}

// Rename replaces the text of id; false when id is unknown or the text is unchanged.
func (s *Store) Rename(ctx context.Context, id, text string) bool {
	next, changed := mutate.Rename(s.items, id, text)
	if !changed {
		return false
	}
	s.commit(ctx, next, "rename", id)
	return true
}

// Reload re-reads the persisted collection. On failure the current snapshot is kept.
func (s *Store) Reload(ctx context.Context) error {
	loaded, err := s.port.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoState) {
			return nil
		}
		s.log.Warn("reload failed; keeping current items", "err", err)
		return err
	}
	s.items = loaded
	s.log.Debug("reloaded items", "count", len(loaded))
	return nil
}

func (s *Store) commit(ctx context.Context, next []model.Item, op string, ids ...string) {
	s.items = next
	if err := s.port.Save(ctx, s.items); err != nil {
		s.lastWriteErr = err
		s.log.Error("persist failed; change kept in memory", "op", op, "ids", ids, "err", err)
		return
	}
	s.lastWriteErr = nil
	s.log.Debug("persisted", "op", op, "ids", ids, "count", len(s.items))
}
