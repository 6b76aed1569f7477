// README: Location service answers the office finder (states, cities, offices).
package location

import (
	"context"
	"fmt"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) ListStates(ctx context.Context) ([]string, error) {
	ix, err := s.store.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}
	return ix.States.Keys(), nil
}

func (s *Service) ListCities(ctx context.Context, state string) ([]string, error) {
	ix, err := s.store.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}
	st, ok := ix.States.Get(state)
	if !ok {
		return nil, fmt.Errorf("%w: state %q", ErrNotFound, state)
	}
	return st.Cities.Keys(), nil
}

func (s *Service) ListOffices(ctx context.Context, state, city string) ([]Office, error) {
	ix, err := s.store.LoadIndex(ctx)
	if err != nil {
		return nil, err
	}
	st, ok := ix.States.Get(state)
	if !ok {
		return nil, fmt.Errorf("%w: state %q", ErrNotFound, state)
	}
	c, ok := st.Cities.Get(city)
	if !ok {
		return nil, fmt.Errorf("%w: city %q in %s", ErrNotFound, city, state)
	}
	if c.Offices == nil {
		return []Office{}, nil
	}
	return c.Offices, nil
}
