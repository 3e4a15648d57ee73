package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"todo-cli/internal/model"
)

const (
	// DefaultKey is the key holding the serialized item collection.
	DefaultKey = "todos"

	BackendSQLite = "sqlite"
	BackendJSON   = "json"
	BackendMemory = "memory"
)

// KV is a local key-value store holding serialized blobs.
//
// Get returns ErrNoState when the key has never been written.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Port is the persistence side-channel consumed by the item store.
type Port interface {
	Load(ctx context.Context) ([]model.Item, error)
	Save(ctx context.Context, items []model.Item) error
}

// Collection persists the whole item collection as one JSON array under a single key.
type Collection struct {
	KV  KV
	Key string
}

// ValidateKey rejects keys that cannot name a single file inside the data directory.
func ValidateKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil
	}
	if key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("invalid key %q: must not contain path separators", key)
	}
	return nil
}

func NewCollection(kv KV, key string) *Collection {
	key = strings.TrimSpace(key)
	if key == "" {
		key = DefaultKey
	}
	return &Collection{KV: kv, Key: key}
}

// Load reads and validates the stored collection.
//
// A missing key yields ErrNoState; unreadable, malformed or schema-invalid data yields *LoadError.
func (c *Collection) Load(ctx context.Context) ([]model.Item, error) {
	if c == nil || c.KV == nil {
		return nil, errors.New("nil collection")
	}
	b, err := c.KV.Get(ctx, c.Key)
	if err != nil {
		if errors.Is(err, ErrNoState) {
			return nil, ErrNoState
		}
		return nil, &LoadError{Key: c.Key, Err: err}
	}
	items, err := DecodeItems(b)
	if err != nil {
		return nil, &LoadError{Key: c.Key, Err: err}
	}
	return items, nil
}

// Save overwrites the stored collection with items.
func (c *Collection) Save(ctx context.Context, items []model.Item) error {
	if c == nil || c.KV == nil {
		return errors.New("nil collection")
	}
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return &WriteError{Key: c.Key, Err: err}
	}
	if err := c.KV.Put(ctx, c.Key, b); err != nil {
		return &WriteError{Key: c.Key, Err: err}
	}
	return nil
}

// DecodeItems validates b against the collection schema and decodes it.
func DecodeItems(b []byte) ([]model.Item, error) {
	if err := ValidateCollection(b); err != nil {
		return nil, err
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

// OpenKV opens the named backend rooted at dir.
func OpenKV(ctx context.Context, backend, dir string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendSQLite:
		return OpenSQLiteKV(ctx, dir)
	case BackendJSON:
		return NewFileKV(dir)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s (want %s)", backend, strings.Join(Backends(), "|"))
	}
}

// Backends lists the supported backend names.
func Backends() []string {
	return []string{BackendSQLite, BackendJSON, BackendMemory}
}

// Watchable is implemented by backends whose state lives in a file that other
// processes may change.
type Watchable interface {
	WatchPath(key string) string
}
