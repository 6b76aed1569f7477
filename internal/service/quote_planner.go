// README: Quote planner combines a price quote with an optional road transit estimate.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sirparcel/internal/maps"
	"sirparcel/internal/modules/pricing"
)

// DefaultTransitTimeout bounds the maps lookup so a slow API never delays a quote for long.
const DefaultTransitTimeout = 5 * time.Second

// TransitEstimator is satisfied by *maps.RouteService.
type TransitEstimator interface {
	TransitEstimate(ctx context.Context, origin, destination string) (maps.Transit, error)
}

type QuotePlan struct {
	Quote   pricing.Quote
	Transit *maps.Transit
}

// QuotePlanner orchestrates pricing and Google Maps routing.
type QuotePlanner struct {
	pricing *pricing.Service
	routes  TransitEstimator
	timeout time.Duration
	log     *zap.Logger
}

// NewQuotePlanner creates a QuotePlanner. routes may be nil when no maps key is configured.
func NewQuotePlanner(p *pricing.Service, routes TransitEstimator, log *zap.Logger) *QuotePlanner {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuotePlanner{pricing: p, routes: routes, timeout: DefaultTransitTimeout, log: log}
}

// Plan prices the shipment and, when a route service is available, adds the
// driving estimate. A failed estimate is logged and left out.
func (p *QuotePlanner) Plan(ctx context.Context, req pricing.QuoteRequest) (QuotePlan, error) {
	q, err := p.pricing.Quote(ctx, req)
	if err != nil {
		return QuotePlan{}, err
	}
	plan := QuotePlan{Quote: q}
	if p.routes == nil {
		return plan, nil
	}

	tctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	transit, err := p.routes.TransitEstimate(tctx, q.Origin, q.Destination)
	if err != nil {
		p.log.Warn("transit estimate unavailable",
			zap.String("from", q.Origin),
			zap.String("to", q.Destination),
			zap.Error(err),
		)
		return plan, nil
	}
	plan.Transit = &transit
	return plan, nil
}
