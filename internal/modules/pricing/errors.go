package pricing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnresolvedLocation = errors.New("unresolved location")
	ErrMissingTierRate    = errors.New("missing tier rate")
)

// Error is returned by the engine. Kind is one of the sentinels above and is
// what errors.Is matches; Reason is the message shown to the user.
type Error struct {
	Kind   error
	Cities []string
	Tier   Tier
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func (e *Error) Unwrap() error { return e.Kind }

func invalidInput(reason string) *Error {
	return &Error{Kind: ErrInvalidInput, Reason: reason}
}

func unresolved(cities []string) *Error {
	quoted := make([]string, len(cities))
	for i, c := range cities {
		quoted[i] = "'" + c + "'"
	}
	return &Error{
		Kind:   ErrUnresolvedLocation,
		Cities: cities,
		Reason: fmt.Sprintf("Could not determine location details for %s for zone-based pricing.", strings.Join(quoted, " and ")),
	}
}

func missingTierRate(t Tier) *Error {
	return &Error{
		Kind:   ErrMissingTierRate,
		Tier:   t,
		Reason: fmt.Sprintf("Pricing rates not found for tier: %s", t),
	}
}
