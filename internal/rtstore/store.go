package rtstore

import (
	"context"
	"errors"
)

// ErrWrite marks a failed store mutation. Callers match it with errors.Is.
var ErrWrite = errors.New("store write failed")

// Doc is a JSON-like document as stored under a path.
type Doc = map[string]any

// Store is the keyed real-time document store the tracker runs against.
// Paths are slash-separated, e.g. "attendance/RA12/today". Write replaces
// the document at an exact path; Append creates a new child key under a
// path and writes there. Subscribers are notified after every committed
// mutation under their prefix until the returned cancel func is called.
type Store interface {
	Write(ctx context.Context, path string, doc Doc) error
	Append(ctx context.Context, path string, doc Doc) (string, error)
	Get(ctx context.Context, path string) (Doc, bool, error)
	Snapshot(ctx context.Context, prefix string) (map[string]Doc, error)
	Subscribe(prefix string, fn func(path string)) (cancel func(), err error)
	Close() error
}

func underPrefix(path, prefix string) bool {
	if prefix == "" || path == prefix {
		return true
	}
	return len(path) > len(prefix) && path[:len(prefix)] == prefix && path[len(prefix)] == '/'
}

func copyDoc(doc Doc) Doc {
	out := make(Doc, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
