// README: Location store reading locations.json through the document store.
package location

import (
	"context"

	"sirparcel/internal/infra"
)

type Store struct {
	docs *infra.Documents
}

func NewStore(docs *infra.Documents) *Store {
	return &Store{docs: docs}
}

func (s *Store) LoadIndex(ctx context.Context) (Index, error) {
	return infra.Load(ctx, s.docs, DocumentName, NewIndex())
}

func (s *Store) SaveIndex(ctx context.Context, ix Index) error {
	return infra.Save(ctx, s.docs, DocumentName, ix)
}
