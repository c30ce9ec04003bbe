package rtstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix   = "rt:"
	pathSetKey  = "rt:paths"
	changesChan = "rt:changes"
)

// RedisStore keeps documents as JSON strings under rt:<path> keys, with a
// set of known paths for snapshots and pub/sub change notifications.
type RedisStore struct {
	client *redis.Client

	mu      sync.Mutex
	cancels []func()
}

// NewRedis builds a store on an existing go-redis client.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Write replaces the document at path and notifies subscribers.
func (s *RedisStore) Write(ctx context.Context, path string, doc Doc) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: marshal %s: %v", ErrWrite, path, err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+path, payload, 0)
	pipe.SAdd(ctx, pathSetKey, path)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, path, err)
	}
	// Notification is best-effort; the write already committed.
	_ = s.client.Publish(ctx, changesChan, path).Err()
	return nil
}

// Append writes doc under a fresh child key of path.
func (s *RedisStore) Append(ctx context.Context, path string, doc Doc) (string, error) {
	key := uuid.NewString()
	if err := s.Write(ctx, path+"/"+key, doc); err != nil {
		return "", err
	}
	return key, nil
}

// Get returns the document at an exact path.
func (s *RedisStore) Get(ctx context.Context, path string) (Doc, bool, error) {
	raw, err := s.client.Get(ctx, keyPrefix+path).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", path, err)
	}
	var doc Doc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", path, err)
	}
	return doc, true, nil
}

// Snapshot returns every document at or under prefix.
func (s *RedisStore) Snapshot(ctx context.Context, prefix string) (map[string]Doc, error) {
	paths, err := s.client.SMembers(ctx, pathSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list paths: %w", err)
	}
	out := make(map[string]Doc)
	for _, path := range paths {
		if !underPrefix(path, prefix) {
			continue
		}
		doc, ok, err := s.Get(ctx, path)
		if err != nil {
			return nil, err
		}
		if ok {
			out[path] = doc
		}
	}
	return out, nil
}

// Subscribe listens on the change channel and forwards matching paths.
func (s *RedisStore) Subscribe(prefix string, fn func(path string)) (func(), error) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := s.client.Subscribe(ctx, changesChan)
	if _, err := sub.Receive(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if underPrefix(msg.Payload, prefix) {
					fn(msg.Payload)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	cancelFn := func() {
		once.Do(func() {
			cancel()
			_ = sub.Close()
		})
	}
	s.mu.Lock()
	s.cancels = append(s.cancels, cancelFn)
	s.mu.Unlock()
	return cancelFn, nil
}

// Close releases every live subscription.
func (s *RedisStore) Close() error {
	s.mu.Lock()
	cancels := s.cancels
	s.cancels = nil
	s.mu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}
	return nil
}
