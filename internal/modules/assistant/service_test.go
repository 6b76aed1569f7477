// README: Assistant tests (replies, degradation to the apology, monthly allowance).
package assistant

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sirparcel/internal/ai"
	"sirparcel/internal/modules/order"
)

type stubProvider struct {
	reply string
	err   error
	block bool
	got   ai.Conversation
}

func (p *stubProvider) Reply(ctx context.Context, conv ai.Conversation) (string, error) {
	p.got = conv
	if p.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return p.reply, p.err
}

type stubPackages struct{}

func (stubPackages) PublicSnapshot(context.Context) (order.PackageBook, error) {
	b := order.NewPackageBook()
	b.Packages.Set("FMPP0001", order.PublicPackage{ProductName: "Wireless Mouse", ETA: "Delivered"})
	return b, nil
}

func TestChatReplies(t *testing.T) {
	p := &stubProvider{reply: "FMPP0001 was delivered."}
	svc := NewService(NewMemoryStore(), p, stubPackages{}, Config{}, nil)
	ctx := context.Background()

	r, err := svc.Chat(ctx, "s1", " where is FMPP0001? ")
	require.NoError(t, err)
	assert.False(t, r.Degraded)
	assert.Equal(t, ChatMessage{Role: RoleAssistant, Content: "FMPP0001 was delivered."}, r.Message)

	require.Len(t, p.got.Messages, 3)
	assert.Contains(t, p.got.Messages[0].Content, "Wireless Mouse")
	assert.Equal(t, "where is FMPP0001?", p.got.Messages[2].Content)

	history, err := svc.History(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []ChatMessage{
		{Role: RoleAssistant, Content: Greeting},
		{Role: RoleUser, Content: "where is FMPP0001?"},
		{Role: RoleAssistant, Content: "FMPP0001 was delivered."},
	}, history)

	other, err := svc.History(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestChatDegradesToApology(t *testing.T) {
	cases := []struct {
		name     string
		provider ai.Provider
		timeout  time.Duration
	}{
		{"provider error", &stubProvider{err: errors.New("503 from upstream")}, 0},
		{"empty reply", &stubProvider{err: ai.ErrEmptyReply}, 0},
		{"blank text", &stubProvider{reply: "  "}, 0},
		{"timeout", &stubProvider{block: true}, 20 * time.Millisecond},
		{"no provider", nil, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(NewMemoryStore(), tc.provider, stubPackages{}, Config{Timeout: tc.timeout}, nil)
			r, err := svc.Chat(context.Background(), "s", "hello")
			require.NoError(t, err)
			assert.True(t, r.Degraded)
			assert.Equal(t, Apology, r.Message.Content)
		})
	}
}

func TestChatAllowance(t *testing.T) {
	svc := NewService(NewMemoryStore(), &stubProvider{reply: "ok"}, nil, Config{Allowance: 2}, nil)
	ctx := context.Background()
	month := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return month }

	for i := 0; i < 2; i++ {
		_, err := svc.Chat(ctx, "s", "hi")
		require.NoError(t, err)
	}
	_, err := svc.Chat(ctx, "s", "hi")
	assert.ErrorIs(t, err, ErrInsufficientTokens)

	// Another session has its own allowance.
	_, err = svc.Chat(ctx, "t", "hi")
	assert.NoError(t, err)

	// A new month starts over.
	svc.now = func() time.Time { return month.AddDate(0, 1, 0) }
	_, err = svc.Chat(ctx, "s", "hi")
	assert.NoError(t, err)
}

func TestChatRejectsEmptyMessage(t *testing.T) {
	svc := NewService(NewMemoryStore(), &stubProvider{reply: "ok"}, nil, Config{}, nil)
	_, err := svc.Chat(context.Background(), "s", "   ")
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("SIRPARCEL_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SIRPARCEL_TEST_REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	defer rdb.Close()
	ctx := context.Background()
	require.NoError(t, rdb.Ping(ctx).Err())

	store := NewRedisStore(rdb)
	store.prefix = "sirparcel-test:" + time.Now().Format("150405.000000") + ":"
	t.Cleanup(func() {
		keys, _ := rdb.Keys(ctx, store.prefix+"*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
	})

	require.NoError(t, store.Append(ctx, "s", ChatMessage{Role: RoleUser, Content: "hi"}, ChatMessage{Role: RoleAssistant, Content: "hello"}))
	got, err := store.History(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []ChatMessage{{Role: RoleUser, Content: "hi"}, {Role: RoleAssistant, Content: "hello"}}, got)

	require.NoError(t, store.UseToken(ctx, "s", "2024-07", 1))
	assert.ErrorIs(t, store.UseToken(ctx, "s", "2024-07", 1), ErrInsufficientTokens)
	assert.NoError(t, store.UseToken(ctx, "s", "2024-08", 1))
}
