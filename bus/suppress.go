// ABOUTME: Durable publish-side suppression for bursty notifications
// ABOUTME: Tracks last-publish timestamps per event key in a badger store
package bus

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// Default suppression windows. Lifecycle generation notifications storm when
// several flows fire for the same scan; everything else passes through.
const (
	LifecycleChangeWindow    = 5 * time.Second
	LifecycleGeneratedWindow = 10 * time.Second
)

// Suppressor drops repeat events for the same (kind, key) inside a window.
// Timestamps survive restarts so a relaunch cannot re-announce a burst.
type Suppressor struct {
	db      *badger.DB
	windows map[string]time.Duration
	now     func() time.Time
}

// OpenSuppressor opens the timestamp store at dir. An empty dir uses an
// in-memory store, which is what tests want.
func OpenSuppressor(dir string) (*Suppressor, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open suppression store: %w", err)
	}

	return &Suppressor{
		db: db,
		windows: map[string]time.Duration{
			KindLifecycleChange:                         LifecycleChangeWindow,
			KindLifecycleChange + "/" + ActionGenerated: LifecycleGeneratedWindow,
		},
		now: time.Now,
	}, nil
}

// SetWindow overrides the window for an event kind. Zero disables
// suppression for that kind.
func (s *Suppressor) SetWindow(kind string, window time.Duration) {
	s.windows[kind] = window
}

// windowFor resolves the suppression window, with generation notices
// getting their wider window.
func (s *Suppressor) windowFor(event Event) time.Duration {
	if change, ok := event.(LifecycleChange); ok && change.Action == ActionGenerated {
		if window, ok := s.windows[KindLifecycleChange+"/"+ActionGenerated]; ok {
			return window
		}
	}
	return s.windows[event.Kind()]
}

// Suppress reports whether the event repeats inside its window, recording
// the publish time when it is allowed through.
func (s *Suppressor) Suppress(event Event) bool {
	key := event.SuppressKey()
	if key == "" {
		return false
	}
	window := s.windowFor(event)
	if window <= 0 {
		return false
	}

	now := s.now()
	storeKey := []byte(event.Kind() + "/" + key)
	suppressed := false

	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey)
		if err == nil {
			var last int64
			if verr := item.Value(func(val []byte) error {
				if len(val) == 8 {
					last = int64(binary.BigEndian.Uint64(val))
				}
				return nil
			}); verr != nil {
				return verr
			}
			if now.Sub(time.Unix(0, last)) < window {
				suppressed = true
				return nil
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		val := make([]byte, 8)
		binary.BigEndian.PutUint64(val, uint64(now.UnixNano()))
		return txn.Set(storeKey, val)
	})
	if err != nil {
		// A broken store must not swallow notifications
		return false
	}
	return suppressed
}

func (s *Suppressor) Close() error {
	return s.db.Close()
}
