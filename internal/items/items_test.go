package items

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"pgregory.net/rapid"

	"todo-cli/internal/logging"
	"todo-cli/internal/model"
	"todo-cli/internal/store"
)

// recordingPort is an in-memory Port that remembers every saved snapshot.
type recordingPort struct {
	loadItems []model.Item
	loadErr   error
	saveErr   error
	saves     [][]model.Item
}

func (p *recordingPort) Load(context.Context) ([]model.Item, error) {
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return model.CloneItems(p.loadItems), nil
}

func (p *recordingPort) Save(_ context.Context, items []model.Item) error {
	p.saves = append(p.saves, model.CloneItems(items))
	return p.saveErr
}

func (p *recordingPort) last() []model.Item {
	if len(p.saves) == 0 {
		return nil
	}
	return p.saves[len(p.saves)-1]
}

var fixedNow = func() time.Time { return time.Date(2024, time.May, 1, 9, 30, 0, 0, time.Local) }

func TestOpen_ScenarioAddPrepends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	port := &recordingPort{loadErr: store.ErrNoState}
	s := Open(ctx, port,
		WithSeed([]model.Item{{ID: "1", Text: "buy milk", Completed: false}}),
		WithClock(fixedNow),
	)

	added := s.Add(ctx, "walk dog")
	got := s.Items()
	if len(got) != 2 {
		t.Fatalf("expected 2 items; got %#v", got)
	}
	if got[0].Text != "walk dog" || got[1].Text != "buy milk" {
		t.Fatalf("expected new item first; got %q, %q", got[0].Text, got[1].Text)
	}
	if got[0].ID != added.ID || !store.IsItemID(added.ID) {
		t.Fatalf("unexpected id %q", added.ID)
	}
	if got[0].Completed {
		t.Fatalf("new items start open")
	}
	if want := "5/1/2024, 9:30:00 AM"; got[0].CreatedAt != want {
		t.Fatalf("createdAt: got %q, want %q", got[0].CreatedAt, want)
	}
	if !reflect.DeepEqual(port.last(), got) {
		t.Fatalf("expected the full snapshot to be persisted; got %#v", port.last())
	}
}

func TestOpen_UsesPersistedState(t *testing.T) {
	t.Parallel()

	port := &recordingPort{loadItems: []model.Item{{ID: "x", Text: "persisted"}}}
	s := Open(context.Background(), port, WithSeed([]model.Item{{ID: "1", Text: "seed"}}))
	if got := s.Items(); len(got) != 1 || got[0].ID != "x" {
		t.Fatalf("expected persisted items; got %#v", got)
	}
	if len(port.saves) != 0 {
		t.Fatalf("opening must not write")
	}
}

func TestOpen_LoadFailureFallsBackToSeedAndWarns(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	port := &recordingPort{loadErr: &store.LoadError{Key: "todos", Err: errors.New("unexpected end of JSON input")}}
	s := Open(context.Background(), port,
		WithSeed([]model.Item{{ID: "1", Text: "seed"}}),
		WithLogger(logging.New(&buf, log.DebugLevel)),
	)
	if got := s.Items(); len(got) != 1 || got[0].ID != "1" {
		t.Fatalf("expected seed fallback; got %#v", got)
	}
	if !strings.Contains(buf.String(), "could not load items") {
		t.Fatalf("expected a warning to be logged; got:\n%s", buf.String())
	}
}

func TestMutations_AbsentIDsAreNoOps(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	port := &recordingPort{loadItems: []model.Item{{ID: "1", Text: "buy milk"}}}
	s := Open(ctx, port)

	if s.ToggleCompleted(ctx, "nope") {
		t.Fatalf("toggle on missing id must report false")
	}
	if s.Rename(ctx, "nope", "x") {
		t.Fatalf("rename on missing id must report false")
	}
	if n := s.Delete(ctx, "nope", "nada"); n != 0 {
		t.Fatalf("delete of missing ids removed %d", n)
	}
	if n := s.Delete(ctx); n != 0 {
		t.Fatalf("delete with no ids removed %d", n)
	}
	if len(port.saves) != 0 {
		t.Fatalf("no-ops must not persist; got %d saves", len(port.saves))
	}
	if got := s.Items(); len(got) != 1 || got[0].Text != "buy milk" {
		t.Fatalf("items changed: %#v", got)
	}
}

func TestRenameAndToggle_PersistEachMutation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	port := &recordingPort{loadItems: []model.Item{{ID: "1", Text: "buy milk"}, {ID: "2", Text: "walk dog"}}}
	s := Open(ctx, port)

	if !s.Rename(ctx, "2", "walk the dog") {
		t.Fatalf("rename failed")
	}
	if !s.ToggleCompleted(ctx, "1") {
		t.Fatalf("toggle failed")
	}
	if len(port.saves) != 2 {
		t.Fatalf("expected one save per mutation; got %d", len(port.saves))
	}
	it, ok := s.Find("2")
	if !ok || it.Text != "walk the dog" {
		t.Fatalf("rename not applied: %#v", it)
	}
	if it, _ := s.Find("1"); !it.Completed {
		t.Fatalf("toggle not applied")
	}
	if ids := []string{port.last()[0].ID, port.last()[1].ID}; !reflect.DeepEqual(ids, []string{"1", "2"}) {
		t.Fatalf("order must be preserved; got %v", ids)
	}
}

func TestWriteFailure_KeepsChangeAndIsReported(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var buf bytes.Buffer
	quota := &store.WriteError{Key: "todos", Err: errors.New("quota exceeded")}
	port := &recordingPort{loadItems: []model.Item{{ID: "1", Text: "buy milk"}}, saveErr: quota}
	s := Open(ctx, port, WithLogger(logging.New(&buf, log.InfoLevel)))

	it := s.Add(ctx, "walk dog")
	if _, ok := s.Find(it.ID); !ok {
		t.Fatalf("in-memory add must survive a failed write")
	}
	if !errors.Is(s.LastWriteError(), quota) {
		t.Fatalf("LastWriteError: got %v", s.LastWriteError())
	}
	if !strings.Contains(buf.String(), "persist failed") {
		t.Fatalf("expected the write failure to be logged; got:\n%s", buf.String())
	}

	// A later successful write clears the error.
	port.saveErr = nil
	s.ToggleCompleted(ctx, it.ID)
	if s.LastWriteError() != nil {
		t.Fatalf("expected LastWriteError to clear; got %v", s.LastWriteError())
	}
}

func TestReload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	port := &recordingPort{loadItems: []model.Item{{ID: "1", Text: "a"}}}
	s := Open(ctx, port)

	port.loadItems = []model.Item{{ID: "2", Text: "b"}, {ID: "1", Text: "a"}}
	if err := s.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected reloaded items; got %#v", s.Items())
	}

	port.loadErr = &store.LoadError{Key: "todos", Err: errors.New("boom")}
	if err := s.Reload(ctx); err == nil {
		t.Fatalf("expected reload error")
	}
	if s.Len() != 2 {
		t.Fatalf("failed reload must keep the current snapshot")
	}
}

func TestItems_ReturnsCopy(t *testing.T) {
	t.Parallel()

	s := Open(context.Background(), &recordingPort{loadItems: []model.Item{{ID: "1", Text: "a"}}})
	got := s.Items()
	got[0].Text = "changed"
	if it, _ := s.Find("1"); it.Text != "a" {
		t.Fatalf("Items must not expose the internal snapshot")
	}
}

func TestStore_WithSQLiteCollection(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()
	kv, err := store.OpenSQLiteKV(ctx, dir)
	if err != nil {
		t.Fatalf("OpenSQLiteKV: %v", err)
	}
	defer kv.Close()

	s := Open(ctx, store.NewCollection(kv, ""))
	seedLen := s.Len()
	added := s.Add(ctx, "walk dog")

	again := Open(ctx, store.NewCollection(kv, ""))
	if again.Len() != seedLen+1 {
		t.Fatalf("expected persisted seed + 1; got %d", again.Len())
	}
	if got := again.Items()[0]; got.ID != added.ID {
		t.Fatalf("expected added item first after reopen; got %#v", got)
	}
}

func TestProperty_AddThenDeleteAllIsEmpty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		port := &recordingPort{loadErr: store.ErrNoState}
		s := Open(ctx, port, WithSeed(nil))

		texts := rapid.SliceOfN(rapid.StringMatching(`[a-z ]{0,12}`), 0, 20).Draw(t, "texts")
		var ids []string
		for _, txt := range texts {
			ids = append(ids, s.Add(ctx, txt).ID)
		}
		if s.Len() != len(texts) {
			t.Fatalf("expected %d items; got %d", len(texts), s.Len())
		}

		order := rapid.Permutation(ids).Draw(t, "order")
		if rapid.Bool().Draw(t, "oneByOne") {
			for _, id := range order {
				s.Delete(ctx, id)
			}
		} else {
			s.Delete(ctx, order...)
		}
		if s.Len() != 0 {
			t.Fatalf("expected empty collection; got %#v", s.Items())
		}
	})
}

func TestProperty_ToggleTwiceIsIdentity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		n := rapid.IntRange(1, 8).Draw(t, "n")
		var seed []model.Item
		for i := 0; i < n; i++ {
			seed = append(seed, model.Item{
				ID:        string(rune('a' + i)),
				Text:      "item",
				Completed: rapid.Bool().Draw(t, "completed"),
			})
		}
		s := Open(ctx, &recordingPort{loadItems: seed})
		id := seed[rapid.IntRange(0, n-1).Draw(t, "pick")].ID

		before := s.Items()
		s.ToggleCompleted(ctx, id)
		s.ToggleCompleted(ctx, id)
		if !reflect.DeepEqual(before, s.Items()) {
			t.Fatalf("toggle twice changed state:\nbefore: %#v\nafter:  %#v", before, s.Items())
		}
	})
}
