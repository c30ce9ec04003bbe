package rtstore

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Memory is a mutex-guarded in-process store for dev and testing.
type Memory struct {
	mu     sync.RWMutex
	docs   map[string]Doc
	subs   map[int]*memorySub
	nextID int
}

type memorySub struct {
	prefix string
	fn     func(path string)
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string]Doc),
		subs: make(map[int]*memorySub),
	}
}

// Write replaces the document at path.
func (m *Memory) Write(ctx context.Context, path string, doc Doc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	m.docs[path] = copyDoc(doc)
	subs := m.matching(path)
	m.mu.Unlock()

	for _, s := range subs {
		s.fn(path)
	}
	return nil
}

// Append writes doc under a fresh child key of path and returns the key.
func (m *Memory) Append(ctx context.Context, path string, doc Doc) (string, error) {
	key := uuid.NewString()
	if err := m.Write(ctx, path+"/"+key, doc); err != nil {
		return "", err
	}
	return key, nil
}

// Get returns the document at an exact path.
func (m *Memory) Get(ctx context.Context, path string) (Doc, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[path]
	if !ok {
		return nil, false, nil
	}
	return copyDoc(doc), true, nil
}

// Snapshot returns every document at or under prefix, keyed by full path.
func (m *Memory) Snapshot(ctx context.Context, prefix string) (map[string]Doc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Doc)
	for path, doc := range m.docs {
		if underPrefix(path, prefix) {
			out[path] = copyDoc(doc)
		}
	}
	return out, nil
}

// Subscribe registers a change handler for paths under prefix.
func (m *Memory) Subscribe(prefix string, fn func(path string)) (func(), error) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = &memorySub{prefix: strings.TrimSuffix(prefix, "/"), fn: fn}
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, id)
			m.mu.Unlock()
		})
	}, nil
}

// Close drops all subscribers.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = make(map[int]*memorySub)
	return nil
}

func (m *Memory) matching(path string) []*memorySub {
	var out []*memorySub
	for _, s := range m.subs {
		if underPrefix(path, s.prefix) {
			out = append(out, s)
		}
	}
	return out
}
