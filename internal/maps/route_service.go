package maps

import (
	"context"
	"fmt"
	"time"

	"googlemaps.github.io/maps"
)

// Transit is the road leg between two cities.
type Transit struct {
	Duration time.Duration `json:"duration"`
	Distance string        `json:"distance"`
	Meters   int           `json:"meters"`
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
	region string
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, region: "in"}, nil
}

// TransitEstimate returns the driving time and distance between two cities.
func (s *RouteService) TransitEstimate(ctx context.Context, origin, destination string) (Transit, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin + ", India",
		Destination: destination + ", India",
		Mode:        maps.TravelModeDriving,
		Language:    "en",
		Region:      s.region,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return Transit{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return Transit{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return Transit{Duration: leg.Duration, Distance: leg.Distance.HumanReadable, Meters: leg.Distance.Meters}, nil
}
