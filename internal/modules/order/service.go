// README: Order service: public tracking, claiming packages and order history.
package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"
)

var (
	ErrNotFound       = errors.New("waybill not found")
	ErrAlreadyClaimed = errors.New("package already claimed")
	ErrBadRequest     = errors.New("bad request")
)

type Service struct {
	store *Store
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store *Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, now: time.Now}
}

type ClaimCommand struct {
	Username string
	Waybill  string
	FullName string
	Address  string
}

// Track looks up a public package by waybill number.
func (s *Service) Track(ctx context.Context, waybill string) (PublicPackage, error) {
	waybill = strings.TrimSpace(waybill)
	if waybill == "" {
		return PublicPackage{}, fmt.Errorf("%w: waybill number is required", ErrBadRequest)
	}
	book, err := s.store.Packages(ctx)
	if err != nil {
		return PublicPackage{}, err
	}
	pkg, ok := book.Packages.Get(waybill)
	if !ok {
		return PublicPackage{}, fmt.Errorf("%w: %s", ErrNotFound, waybill)
	}
	return pkg, nil
}

// PublicSnapshot returns every public package, for the assistant's context.
func (s *Service) PublicSnapshot(ctx context.Context) (PackageBook, error) {
	return s.store.Packages(ctx)
}

// Claim copies a public package into the user's orders and records the claim.
// Orders are written before claims; a failure between the two writes leaves
// an order without a claim record, which a retry overwrites.
func (s *Service) Claim(ctx context.Context, cmd ClaimCommand) (Order, error) {
	waybill := strings.TrimSpace(cmd.Waybill)
	if waybill == "" {
		return Order{}, fmt.Errorf("%w: waybill number is required", ErrBadRequest)
	}
	if cmd.Username == "" {
		return Order{}, fmt.Errorf("%w: username is required", ErrBadRequest)
	}

	var created Order
	err := s.store.Locked(func() error {
		claims, err := s.store.Claims(ctx)
		if err != nil {
			return err
		}
		if claims.Claimed.Has(waybill) {
			return fmt.Errorf("%w: %s", ErrAlreadyClaimed, waybill)
		}
		pkgs, err := s.store.Packages(ctx)
		if err != nil {
			return err
		}
		pkg, ok := pkgs.Packages.Get(waybill)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, waybill)
		}
		orders, err := s.store.Orders(ctx)
		if err != nil {
			return err
		}

		created = orderFromPackage(cmd, pkg)
		orders.Orders.Set(waybill, created)
		if err := s.store.SaveOrders(ctx, orders); err != nil {
			return err
		}
		claims.Claimed.Set(waybill, Claim{
			Username:  cmd.Username,
			ClaimDate: s.now().Format("2006-01-02T15:04:05.000000"),
		})
		return s.store.SaveClaims(ctx, claims)
	})
	if err != nil {
		return Order{}, err
	}
	s.log.Info("package claimed", zap.String("waybill", waybill), zap.String("username", cmd.Username))
	return created, nil
}

func orderFromPackage(cmd ClaimCommand, pkg PublicPackage) Order {
	name := pkg.ProductName
	if name == "" {
		name = NotAvailable
	}
	eta := pkg.ETA
	if eta == "" {
		eta = NotAvailable
	}
	timeline := make(LegacyTimeline, len(pkg.Timeline))
	copy(timeline, pkg.Timeline)
	return Order{
		Username:  cmd.Username,
		Product:   Product{Name: name, Price: NotAvailable},
		Recipient: Party{Name: cmd.FullName, Address: cmd.Address},
		Seller:    pkg.Seller,
		ETA:       eta,
		Timeline:  timeline,
	}
}

// ListByUser returns the user's orders sorted by order id.
func (s *Service) ListByUser(ctx context.Context, username string) ([]OwnedOrder, error) {
	book, err := s.store.Orders(ctx)
	if err != nil {
		return nil, err
	}
	out := []OwnedOrder{}
	book.Orders.Range(func(id string, o Order) bool {
		if o.Username == username {
			out = append(out, OwnedOrder{ID: id, Order: o})
		}
		return true
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Get returns one of the user's orders. Orders owned by someone else are
// reported as not found.
func (s *Service) Get(ctx context.Context, username, id string) (Order, error) {
	book, err := s.store.Orders(ctx)
	if err != nil {
		return Order{}, err
	}
	o, ok := book.Orders.Get(id)
	if !ok || o.Username != username {
		return Order{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return o, nil
}

// Timeline orders events newest first for display. The first entry is marked
// delivered when its status mentions "Delivered".
func Timeline(events []Event) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		entry := TimelineEntry{
			Status:  orNA(printable(e.Status)),
			Date:    orNA(e.Date),
			Details: orNA(e.Details),
		}
		if len(out) == 0 && strings.Contains(entry.Status, "Delivered") {
			entry.Delivered = true
		}
		out = append(out, entry)
	}
	return out
}

func printable(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, s))
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}
