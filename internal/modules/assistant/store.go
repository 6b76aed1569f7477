// README: Chat history and allowance storage (Redis, or process memory when Redis is not configured).
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type Store interface {
	History(ctx context.Context, session string) ([]ChatMessage, error)
	Append(ctx context.Context, session string, msgs ...ChatMessage) error
	// UseToken deducts one message from the session's allowance for month
	// (YYYY-MM). A new month starts from the full allowance.
	UseToken(ctx context.Context, session, month string, allowance int) error
}

// MemoryStore keeps everything in process memory; it is lost on restart.
type MemoryStore struct {
	mu      sync.Mutex
	history map[string][]ChatMessage
	used    map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{history: map[string][]ChatMessage{}, used: map[string]int{}}
}

func (s *MemoryStore) History(_ context.Context, session string) ([]ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ChatMessage, len(s.history[session]))
	copy(out, s.history[session])
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, session string, msgs ...ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history[session] = append(s.history[session], msgs...)
	return nil
}

func (s *MemoryStore) UseToken(_ context.Context, session, month string, allowance int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := session + "|" + month
	if s.used[key] >= allowance {
		return ErrInsufficientTokens
	}
	s.used[key]++
	return nil
}

const (
	historyTTL = 24 * time.Hour
	quotaTTL   = 32 * 24 * time.Hour
)

// RedisStore keeps history in a list per session and the allowance in a
// counter per session and month, so a new month starts from zero.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: "sirparcel:"}
}

func (s *RedisStore) historyKey(session string) string {
	return s.prefix + "chat:" + session
}

func (s *RedisStore) quotaKey(session, month string) string {
	return s.prefix + "quota:" + session + ":" + month
}

func (s *RedisStore) History(ctx context.Context, session string) ([]ChatMessage, error) {
	raw, err := s.rdb.LRange(ctx, s.historyKey(session), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	out := make([]ChatMessage, 0, len(raw))
	for _, r := range raw {
		var m ChatMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("decode chat message: %w", err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *RedisStore) Append(ctx context.Context, session string, msgs ...ChatMessage) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, len(msgs))
	for i, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return err
		}
		values[i] = string(b)
	}
	key := s.historyKey(session)
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append chat history: %w", err)
	}
	return nil
}

func (s *RedisStore) UseToken(ctx context.Context, session, month string, allowance int) error {
	key := s.quotaKey(session, month)
	pipe := s.rdb.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, quotaTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("use token: %w", err)
	}
	if incr.Val() > int64(allowance) {
		return ErrInsufficientTokens
	}
	return nil
}
