// README: Pickup scheduler validates a booking and issues a reference. Bookings are not stored.
package pickup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrBadRequest = errors.New("bad request")

const dateLayout = "2006-01-02"

type Service struct {
	log *zap.Logger
	now func() time.Time
}

func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log, now: time.Now}
}

func (s *Service) Schedule(ctx context.Context, req Request) (Confirmation, error) {
	required := []string{
		req.ShipperName, req.ShipperAddress, req.ShipperPincode, req.ShipperPhone,
		req.RecipientName, req.RecipientAddress, req.RecipientPincode, req.Description, req.Date,
	}
	for _, f := range required {
		if strings.TrimSpace(f) == "" {
			return Confirmation{}, fmt.Errorf("%w: please fill in all the required fields", ErrBadRequest)
		}
	}
	if !validPincode(req.ShipperPincode) || !validPincode(req.RecipientPincode) {
		return Confirmation{}, fmt.Errorf("%w: please enter valid 6-digit pincodes for both shipper and recipient", ErrBadRequest)
	}
	if !req.Weight.IsPositive() {
		return Confirmation{}, fmt.Errorf("%w: weight must be greater than zero", ErrBadRequest)
	}

	now := s.now()
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(req.Date), now.Location())
	if err != nil {
		return Confirmation{}, fmt.Errorf("%w: pickup date must be YYYY-MM-DD", ErrBadRequest)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if day.Before(today) {
		return Confirmation{}, fmt.Errorf("%w: pickup date cannot be in the past", ErrBadRequest)
	}

	ref := uuid.NewString()
	s.log.Info("pickup scheduled",
		zap.String("reference", ref),
		zap.String("date", day.Format(dateLayout)),
		zap.String("weight", req.Weight.String()),
	)
	return Confirmation{
		Reference: ref,
		Date:      day,
		Message: fmt.Sprintf("Thank you, %s! Your pickup for '%s' has been scheduled for %s. Our agent will contact you shortly.",
			req.ShipperName, req.Description, day.Format("02-Jan-2006")),
	}, nil
}

func validPincode(p string) bool {
	if len(p) != 6 {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
