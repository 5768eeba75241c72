// Package transcript holds the shared explanation transcript: the ordered log
// of assistant replies surfaced in the chat UI. Quiz feedback, dictation
// feedback and the free-standing chat all append to it; nobody edits or
// removes another caller's entries.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is one transcript line. Entries are ordered by arrival, not by
// request order; concurrent explanation requests may interleave.
type Entry struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Source    string    `json:"source,omitempty"` // "quiz", "dictation", "chat"
	CreatedAt time.Time `json:"created_at"`
}

// Log is the narrow interface callers get. Append-only.
type Log interface {
	Append(ctx context.Context, owner string, entry Entry) error
	List(ctx context.Context, owner string) ([]Entry, error)
}

// redisLog stores one redis list per owner. RPUSH preserves arrival order.
type redisLog struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLog(client *redis.Client, ttl time.Duration) Log {
	return &redisLog{client: client, ttl: ttl}
}

func key(owner string) string {
	return "transcript:" + owner
}

func (l *redisLog) Append(ctx context.Context, owner string, entry Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal transcript entry: %w", err)
	}

	pipe := l.client.TxPipeline()
	pipe.RPush(ctx, key(owner), payload)
	if l.ttl > 0 {
		pipe.Expire(ctx, key(owner), l.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append transcript entry: %w", err)
	}
	return nil
}

func (l *redisLog) List(ctx context.Context, owner string) ([]Entry, error) {
	raw, err := l.client.LRange(ctx, key(owner), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list transcript entries: %w", err)
	}

	entries := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			return nil, fmt.Errorf("decode transcript entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// MemoryLog is the in-process implementation used in tests.
type MemoryLog struct {
	mu      sync.Mutex
	entries map[string][]Entry
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{entries: make(map[string][]Entry)}
}

func (l *MemoryLog) Append(ctx context.Context, owner string, entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	l.entries[owner] = append(l.entries[owner], entry)
	return nil
}

func (l *MemoryLog) List(ctx context.Context, owner string) ([]Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Entry(nil), l.entries[owner]...), nil
}
