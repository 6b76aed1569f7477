// README: Rate tables (direct and zone-tier), reference data snapshot, and quote result.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"sirparcel/internal/modules/location"
	"sirparcel/internal/types"
)

const (
	ZoneDocumentName   = "prices.json"
	DirectDocumentName = "price_estimates.json"
)

type Tier string

const (
	TierSpecialRegion Tier = "special_region"
	TierIntraZone     Tier = "intra_zone"
	TierAdjacentZone  Tier = "adjacent_zone"
	TierNational      Tier = "national"
)

func (t Tier) Valid() bool {
	switch t {
	case TierSpecialRegion, TierIntraZone, TierAdjacentZone, TierNational:
		return true
	}
	return false
}

// Title renders the tier for explanations: "adjacent_zone" -> "Adjacent Zone".
func (t Tier) Title() string {
	words := strings.Split(string(t), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
		}
	}
	return strings.Join(words, " ")
}

type Source string

const (
	SourceDirect Source = "direct"
	SourceZone   Source = "zone"
)

// Rate is a base charge plus a per-kilogram charge.
type Rate struct {
	BaseRate  decimal.Decimal
	RatePerKg decimal.Decimal
}

// Cost returns base_rate + weight * rate_per_kg.
func (r Rate) Cost(weight decimal.Decimal) decimal.Decimal {
	return r.BaseRate.Add(weight.Mul(r.RatePerKg))
}

type rateJSON struct {
	BaseRate  *decimal.Decimal `json:"base_rate"`
	RatePerKg *decimal.Decimal `json:"rate_per_kg"`
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	var raw rateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.BaseRate == nil {
		return errors.New("rate is missing base_rate")
	}
	if raw.RatePerKg == nil {
		return errors.New("rate is missing rate_per_kg")
	}
	r.BaseRate, r.RatePerKg = *raw.BaseRate, *raw.RatePerKg
	return nil
}

// MarshalJSON writes plain JSON numbers, keeping the digits as decoded.
func (r Rate) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		BaseRate  json.Number `json:"base_rate"`
		RatePerKg json.Number `json:"rate_per_kg"`
	}{json.Number(exactString(r.BaseRate)), json.Number(exactString(r.RatePerKg))})
}

func (r Rate) validate() error {
	if r.BaseRate.IsNegative() {
		return fmt.Errorf("base_rate %s is negative", r.BaseRate)
	}
	if r.RatePerKg.IsNegative() {
		return fmt.Errorf("rate_per_kg %s is negative", r.RatePerKg)
	}
	return nil
}

func exactString(d decimal.Decimal) string {
	if d.Exponent() < 0 {
		return d.StringFixed(-d.Exponent())
	}
	return d.String()
}

// ZoneTable is the prices.json document.
type ZoneTable struct {
	Zones           types.OrderedMap[[]string] `json:"zones"`
	ZoneAdjacencies types.OrderedMap[[]string] `json:"zone_adjacencies"`
	SpecialRegions  []string                   `json:"special_regions"`
	Pricing         types.OrderedMap[Rate]     `json:"pricing"`
}

func NewZoneTable() ZoneTable {
	return ZoneTable{
		Zones:           types.NewOrderedMap[[]string](),
		ZoneAdjacencies: types.NewOrderedMap[[]string](),
		SpecialRegions:  []string{},
		Pricing:         types.NewOrderedMap[Rate](),
	}
}

func (z *ZoneTable) UnmarshalJSON(data []byte) error {
	type plain ZoneTable
	out := plain(NewZoneTable())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	if out.SpecialRegions == nil {
		out.SpecialRegions = []string{}
	}
	*z = ZoneTable(out)
	return nil
}

func (z *ZoneTable) Validate() error {
	for _, zone := range z.Zones.Keys() {
		if strings.TrimSpace(zone) == "" {
			return errors.New("zone with empty name")
		}
	}
	for _, tier := range z.Pricing.Keys() {
		if !Tier(tier).Valid() {
			return fmt.Errorf("unknown pricing tier %q", tier)
		}
		r, _ := z.Pricing.Get(tier)
		if err := r.validate(); err != nil {
			return fmt.Errorf("tier %s: %w", tier, err)
		}
	}
	return nil
}

// ZoneOf returns the first zone, in document order, that lists state.
func (z ZoneTable) ZoneOf(state string) (string, bool) {
	for _, zone := range z.Zones.Keys() {
		members, _ := z.Zones.Get(zone)
		for _, m := range members {
			if m == state {
				return zone, true
			}
		}
	}
	return "", false
}

func (z ZoneTable) IsSpecialRegion(state string) bool {
	for _, s := range z.SpecialRegions {
		if s == state {
			return true
		}
	}
	return false
}

// Adjacent reports whether to is listed in from's adjacency list. The
// relation is read in that direction only.
func (z ZoneTable) Adjacent(from, to string) bool {
	adj, _ := z.ZoneAdjacencies.Get(from)
	for _, zone := range adj {
		if zone == to {
			return true
		}
	}
	return false
}

// DirectRates is the price_estimates.json document: origin -> destination -> rate.
type DirectRates struct {
	Origins types.OrderedMap[types.OrderedMap[Rate]]
}

func NewDirectRates() DirectRates {
	return DirectRates{Origins: types.NewOrderedMap[types.OrderedMap[Rate]]()}
}

func (d DirectRates) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Origins)
}

func (d *DirectRates) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &d.Origins)
}

func (d *DirectRates) Validate() error {
	var err error
	d.Origins.Range(func(origin string, dests types.OrderedMap[Rate]) bool {
		if strings.TrimSpace(origin) == "" {
			err = errors.New("direct rate with empty origin")
			return false
		}
		dests.Range(func(dest string, r Rate) bool {
			if strings.TrimSpace(dest) == "" {
				err = fmt.Errorf("direct rate from %s with empty destination", origin)
				return false
			}
			if verr := r.validate(); verr != nil {
				err = fmt.Errorf("%s -> %s: %w", origin, dest, verr)
				return false
			}
			return true
		})
		return err == nil
	})
	return err
}

func (d DirectRates) Lookup(origin, destination string) (Rate, bool) {
	dests, ok := d.Origins.Get(origin)
	if !ok {
		return Rate{}, false
	}
	return dests.Get(destination)
}

// ReferenceData is an immutable snapshot of everything the engine reads.
// Callers must not modify a snapshot once it has been handed to the engine.
type ReferenceData struct {
	Locations location.Index
	Zones     ZoneTable
	Direct    DirectRates
}

// Location is a city resolved to its state and zone.
type Location struct {
	City  string `json:"city"`
	State string `json:"state"`
	Zone  string `json:"zone"`
}

type Quote struct {
	Origin          string
	Destination     string
	Weight          decimal.Decimal
	Cost            decimal.Decimal
	Explanation     string
	Source          Source
	Tier            Tier
	OriginZone      string
	DestinationZone string
	Rate            Rate
}

// Money returns the cost in the rate tables' currency.
func (q Quote) Money() types.Money {
	return types.NewMoney(q.Cost)
}
