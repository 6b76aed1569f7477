// README: Pricing engine: direct rate first, then zone-tier fallback. Pure, no I/O.
package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Estimate prices a shipment of weight kilograms from origin to destination.
//
// The engine does not require origin and destination to differ; a same-city
// pair is priced like any other route. Service.Quote rejects it before the
// engine is reached.
func Estimate(origin, destination string, weight decimal.Decimal, ref *ReferenceData) (Quote, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return Quote{}, invalidInput("Missing input data for price calculation: origin and destination cities are required.")
	}
	if !weight.IsPositive() {
		return Quote{}, invalidInput("Missing input data for price calculation: weight must be greater than zero.")
	}
	if ref == nil {
		ref = &ReferenceData{}
	}

	if rate, ok := ref.Direct.Lookup(origin, destination); ok {
		return Quote{
			Origin:      origin,
			Destination: destination,
			Weight:      weight,
			Cost:        rate.Cost(weight),
			Explanation: fmt.Sprintf("Shipment from %s to %s (Direct Rate).", origin, destination),
			Source:      SourceDirect,
			Rate:        rate,
		}, nil
	}

	from, okFrom := Resolve(origin, ref)
	to, okTo := Resolve(destination, ref)
	if !okFrom || !okTo {
		var failed []string
		if !okFrom {
			failed = append(failed, origin)
		}
		if !okTo && (okFrom || destination != origin) {
			failed = append(failed, destination)
		}
		return Quote{}, unresolved(failed)
	}

	tier := SelectTier(from, to, ref.Zones)
	rate, ok := ref.Zones.Pricing.Get(string(tier))
	if !ok {
		return Quote{}, missingTierRate(tier)
	}

	return Quote{
		Origin:          origin,
		Destination:     destination,
		Weight:          weight,
		Cost:            rate.Cost(weight),
		Explanation:     fmt.Sprintf("Shipment from %s Zone to %s Zone (%s).", from.Zone, to.Zone, tier.Title()),
		Source:          SourceZone,
		Tier:            tier,
		OriginZone:      from.Zone,
		DestinationZone: to.Zone,
		Rate:            rate,
	}, nil
}

// Resolve maps a city to {state, zone}: the first state in document order
// that lists the city, then the first zone in document order that lists the
// state. It fails if either scan finds nothing.
func Resolve(city string, ref *ReferenceData) (Location, bool) {
	if ref == nil {
		return Location{}, false
	}
	state, ok := ref.Locations.StateOf(city)
	if !ok {
		return Location{}, false
	}
	zone, ok := ref.Zones.ZoneOf(state)
	if !ok {
		return Location{}, false
	}
	return Location{City: city, State: state, Zone: zone}, true
}

// SelectTier applies the tier rules in priority order; the first match wins.
func SelectTier(from, to Location, zones ZoneTable) Tier {
	switch {
	case zones.IsSpecialRegion(from.State) || zones.IsSpecialRegion(to.State):
		return TierSpecialRegion
	case from.Zone == to.Zone:
		return TierIntraZone
	case zones.Adjacent(from.Zone, to.Zone):
		return TierAdjacentZone
	default:
		return TierNational
	}
}
