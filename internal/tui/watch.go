package tui

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"todo-cli/internal/model"
	"todo-cli/internal/store"
)

const (
	watchDebounce     = 100 * time.Millisecond
	selfWriteQuietFor = 500 * time.Millisecond
)

// stateChangedMsg is sent by the watcher after another process changed the state file.
type stateChangedMsg struct{}

type watchErrMsg struct{ err error }

// selfWrites remembers when this process last saved, so the watcher can skip its own writes.
type selfWrites struct{ last atomic.Int64 }

func (s *selfWrites) mark() { s.last.Store(time.Now().UnixMilli()) }

func (s *selfWrites) recent() bool {
	return time.Since(time.UnixMilli(s.last.Load())) < selfWriteQuietFor
}

// markingPort stamps selfWrites around every save.
type markingPort struct {
	store.Port
	writes *selfWrites
}

func (p markingPort) Save(ctx context.Context, items []model.Item) error {
	p.writes.mark()
	err := p.Port.Save(ctx, items)
	p.writes.mark()
	return err
}

// watchedName reports whether an event path belongs to the watched state file.
// SQLite keeps -wal/-shm siblings next to the database, so those count too.
func watchedName(eventPath, base string) bool {
	name := filepath.Base(eventPath)
	return name == base || strings.HasPrefix(name, base+"-")
}

// watchState waits for the next external change to the state file in the watcher's directory.
// The caller re-issues the command after handling each message.
func watchState(watcher *fsnotify.Watcher, base string, writes *selfWrites) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !watchedName(ev.Name, base) {
					continue
				}
				if !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove)) {
					continue
				}
				time.Sleep(watchDebounce)
			drain:
				for {
					select {
					case _, ok := <-watcher.Events:
						if !ok {
							break drain
						}
					default:
						break drain
					}
				}
				if writes.recent() {
					continue
				}
				return stateChangedMsg{}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

// newStateWatcher watches the directory holding path. Watching the directory survives the
// temp-file + rename writes of the json backend.
func newStateWatcher(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}
	return w, nil
}
