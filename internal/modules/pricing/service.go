// README: Pricing service holds the current reference snapshot and answers quotes.
package pricing

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type QuoteRequest struct {
	From   string
	To     string
	Weight decimal.Decimal
}

// Service swaps whole snapshots on Reload; in-flight quotes keep the snapshot
// they started with.
type Service struct {
	store *Store
	log   *zap.Logger
	ref   atomic.Pointer[ReferenceData]
}

func NewService(store *Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Reload reads the documents again. On failure the previous snapshot stays.
func (s *Service) Reload(ctx context.Context) error {
	if s.store == nil {
		return errors.New("pricing: no store configured")
	}
	ref, err := s.store.LoadReference(ctx)
	if err != nil {
		s.log.Error("reference data reload failed", zap.Error(err))
		return err
	}
	s.ref.Store(&ref)
	s.log.Info("reference data loaded",
		zap.Int("states", ref.Locations.States.Len()),
		zap.Int("zones", ref.Zones.Zones.Len()),
		zap.Int("direct_origins", ref.Direct.Origins.Len()),
	)
	return nil
}

// Use installs a snapshot directly.
func (s *Service) Use(ref *ReferenceData) {
	s.ref.Store(ref)
}

// Reference returns the current snapshot, loading it on first use.
func (s *Service) Reference(ctx context.Context) (*ReferenceData, error) {
	if ref := s.ref.Load(); ref != nil {
		return ref, nil
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s.ref.Load(), nil
}

func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Quote, error) {
	from, to := strings.TrimSpace(req.From), strings.TrimSpace(req.To)
	if from != "" && from == to {
		return Quote{}, invalidInput("Origin and destination cities cannot be the same.")
	}
	ref, err := s.Reference(ctx)
	if err != nil {
		return Quote{}, err
	}
	q, err := Estimate(from, to, req.Weight, ref)
	if err != nil {
		s.log.Debug("quote rejected", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return Quote{}, err
	}
	s.log.Debug("quote computed",
		zap.String("from", from),
		zap.String("to", to),
		zap.String("source", string(q.Source)),
		zap.String("cost", q.Cost.String()),
	)
	return q, nil
}

func (s *Service) Cities(ctx context.Context) ([]string, error) {
	ref, err := s.Reference(ctx)
	if err != nil {
		return nil, err
	}
	return AllCities(ref), nil
}
