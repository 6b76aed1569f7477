// README: Assistant service: answers chat messages through the configured AI provider.
package assistant

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"sirparcel/internal/ai"
	"sirparcel/internal/modules/order"
)

const DefaultTimeout = 30 * time.Second

// PackageSource supplies the public package data the model may answer from.
type PackageSource interface {
	PublicSnapshot(ctx context.Context) (order.PackageBook, error)
}

type Config struct {
	Timeout   time.Duration
	Allowance int
}

type Service struct {
	store    Store
	provider ai.Provider
	packages PackageSource
	cfg      Config
	log      *zap.Logger
	now      func() time.Time
}

// NewService wires the assistant. provider may be nil, in which case every
// message is answered with the apology.
func NewService(store Store, provider ai.Provider, packages PackageSource, cfg Config, log *zap.Logger) *Service {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Allowance <= 0 {
		cfg.Allowance = DefaultTokens
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, provider: provider, packages: packages, cfg: cfg, log: log, now: time.Now}
}

// History returns the session transcript, starting with the greeting.
func (s *Service) History(ctx context.Context, session string) ([]ChatMessage, error) {
	msgs, err := s.store.History(ctx, session)
	if err != nil {
		return nil, err
	}
	return append([]ChatMessage{{Role: RoleAssistant, Content: Greeting}}, msgs...), nil
}

// Chat answers one message. Provider failures are logged and answered with
// the apology; only allowance and storage errors are returned.
func (s *Service) Chat(ctx context.Context, session, message string) (Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Reply{}, ErrBadRequest
	}
	if err := s.store.UseToken(ctx, session, s.now().Format("2006-01"), s.cfg.Allowance); err != nil {
		return Reply{}, err
	}

	text, degraded := s.ask(ctx, session, message)
	reply := Reply{Message: ChatMessage{Role: RoleAssistant, Content: text}, Degraded: degraded}

	if err := s.store.Append(ctx, session,
		ChatMessage{Role: RoleUser, Content: message},
		reply.Message,
	); err != nil {
		return Reply{}, err
	}
	return reply, nil
}

func (s *Service) ask(ctx context.Context, session, message string) (string, bool) {
	if s.provider == nil {
		return Apology, true
	}
	var packages any = order.NewPackageBook()
	if s.packages != nil {
		book, err := s.packages.PublicSnapshot(ctx)
		if err != nil {
			s.log.Warn("public packages unavailable for assistant", zap.Error(err))
		} else {
			packages = book
		}
	}
	conv, err := ai.NewConversation(packages, message)
	if err != nil {
		s.log.Warn("assistant context build failed", zap.Error(err))
		return Apology, true
	}

	callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	start := time.Now()
	text, err := s.provider.Reply(callCtx, conv)
	if err != nil {
		s.log.Warn("assistant provider failed",
			zap.String("session", session),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return Apology, true
	}
	if strings.TrimSpace(text) == "" {
		return Apology, true
	}
	return text, false
}
