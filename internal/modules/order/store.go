// README: Order store over non_login.json, orders.json and claim_package.json.
package order

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

// Locked runs fn under the document write lock. fn must not call Update.
func (s *Store) Locked(fn func() error) error {
	return s.docs.Do(fn)
}

func (s *Store) Packages(ctx context.Context) (PackageBook, error) {
	return infra.Load(ctx, s.docs, PackagesDocument, NewPackageBook())
}

func (s *Store) Orders(ctx context.Context) (OrderBook, error) {
	return infra.Load(ctx, s.docs, OrdersDocument, NewOrderBook())
}

func (s *Store) Claims(ctx context.Context) (ClaimBook, error) {
	return infra.Load(ctx, s.docs, ClaimsDocument, NewClaimBook())
}

func (s *Store) SaveOrders(ctx context.Context, b OrderBook) error {
	return infra.Save(ctx, s.docs, OrdersDocument, b)
}

func (s *Store) SaveClaims(ctx context.Context, b ClaimBook) error {
	return infra.Save(ctx, s.docs, ClaimsDocument, b)
}

// RenameOwner moves every order and claim owned by from to to.
func (s *Store) RenameOwner(ctx context.Context, from, to string) error {
	return s.Locked(func() error {
		orders, err := s.Orders(ctx)
		if err != nil {
			return err
		}
		claims, err := s.Claims(ctx)
		if err != nil {
			return err
		}
		changed := false
		for _, id := range orders.Orders.Keys() {
			if o, _ := orders.Orders.Get(id); o.Username == from {
				o.Username = to
				orders.Orders.Set(id, o)
				changed = true
			}
		}
		for _, id := range claims.Claimed.Keys() {
			if c, _ := claims.Claimed.Get(id); c.Username == from {
				c.Username = to
				claims.Claimed.Set(id, c)
				changed = true
			}
		}
		if !changed {
			return nil
		}
		if err := s.SaveOrders(ctx, orders); err != nil {
			return err
		}
		return s.SaveClaims(ctx, claims)
	})
}
