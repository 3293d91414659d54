// Package session keeps a journal of live media ids so a later process can reattach to
// native resources that outlived the one that created them.
package session

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mediabridge/mediabridge/filesystem"
	"github.com/mediabridge/mediabridge/media"
	"github.com/mediabridge/mediabridge/where"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Entry is one journaled handle.
type Entry struct {
	ID        string      `json:"id"`
	Src       string      `json:"src"`
	Created   time.Time   `json:"created"`
	LastState media.State `json:"last_state"`
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s %s (%s)", e.ID, e.Src, e.LastState)
}

// Journal is a disk-backed id → Entry map.
type Journal struct {
	cache *gache.Cache[map[string]*Entry]
	mu    sync.Mutex
	now   func() time.Time
}

// Open returns a journal stored at path on the active filesystem.
func Open(path string) *Journal {
	return &Journal{
		cache: gache.New[map[string]*Entry](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
		now: time.Now,
	}
}

var (
	defaultJournal *Journal
	defaultOnce    sync.Once
)

// Default returns the journal at the standard sessions location.
func Default() *Journal {
	defaultOnce.Do(func() {
		defaultJournal = Open(where.Sessions())
	})
	return defaultJournal
}

func (j *Journal) load() (map[string]*Entry, error) {
	cached, expired, err := j.cache.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Remember journals a newly created handle. Remembering a known id keeps its creation time.
func (j *Journal) Remember(id, src string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.load()
	if err != nil {
		return err
	}

	entry, ok := entries[id]
	if !ok {
		entry = &Entry{ID: id, Created: j.now(), LastState: media.StateUnknown}
		entries[id] = entry
	}
	entry.Src = src

	return j.cache.Set(entries)
}

// Touch records the last state reported for id. Unknown ids are ignored.
func (j *Journal) Touch(id string, state media.State) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.load()
	if err != nil {
		return err
	}

	entry, ok := entries[id]
	if !ok {
		return nil
	}
	entry.LastState = state

	return j.cache.Set(entries)
}

// Get returns the entry journaled under id.
func (j *Journal) Get(id string) mo.Option[*Entry] {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.load()
	if err != nil {
		return mo.None[*Entry]()
	}
	return mo.TupleToOption(entries[id], entries[id] != nil)
}

// Forget drops id from the journal.
func (j *Journal) Forget(id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.load()
	if err != nil {
		return err
	}
	if _, ok := entries[id]; !ok {
		return nil
	}

	delete(entries, id)
	return j.cache.Set(entries)
}

// List returns every entry, oldest first.
func (j *Journal) List() ([]*Entry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.load()
	if err != nil {
		return nil, err
	}

	list := lo.Values(entries)
	sort.SliceStable(list, func(a, b int) bool {
		if list[a].Created.Equal(list[b].Created) {
			return list[a].ID < list[b].ID
		}
		return list[a].Created.Before(list[b].Created)
	})
	return list, nil
}

// Find returns the entries whose source fuzzily matches query, oldest first.
func (j *Journal) Find(query string) ([]*Entry, error) {
	list, err := j.List()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return list, nil
	}

	return lo.Filter(list, func(e *Entry, _ int) bool {
		return fuzzy.MatchNormalizedFold(query, e.Src) || strings.HasPrefix(e.ID, query)
	}), nil
}

// Clear empties the journal.
func (j *Journal) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.cache.Set(make(map[string]*Entry))
}
