// README: Pricing store reading the rate tables and location index through the document store.
package pricing

import (
	"context"

	"sirparcel/internal/infra"
	"sirparcel/internal/modules/location"
)

type Store struct {
	docs      *infra.Documents
	locations *location.Store
}

func NewStore(docs *infra.Documents, locations *location.Store) *Store {
	return &Store{docs: docs, locations: locations}
}

// LoadReference reads all three documents into a fresh snapshot.
func (s *Store) LoadReference(ctx context.Context) (ReferenceData, error) {
	ix, err := s.locations.LoadIndex(ctx)
	if err != nil {
		return ReferenceData{}, err
	}
	zones, err := infra.Load(ctx, s.docs, ZoneDocumentName, NewZoneTable())
	if err != nil {
		return ReferenceData{}, err
	}
	direct, err := infra.Load(ctx, s.docs, DirectDocumentName, NewDirectRates())
	if err != nil {
		return ReferenceData{}, err
	}
	return ReferenceData{Locations: ix, Zones: zones, Direct: direct}, nil
}

func (s *Store) SaveZoneTable(ctx context.Context, z ZoneTable) error {
	return infra.Save(ctx, s.docs, ZoneDocumentName, z)
}

func (s *Store) SaveDirectRates(ctx context.Context, d DirectRates) error {
	return infra.Save(ctx, s.docs, DirectDocumentName, d)
}
