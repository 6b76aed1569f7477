// README: Public packages, claimed orders, claim records and their shipment timelines.
package order

import (
	"bytes"
	"encoding/json"
	"fmt"

	"sirparcel/internal/types"
)

const (
	PackagesDocument = "non_login.json"
	OrdersDocument   = "orders.json"
	ClaimsDocument   = "claim_package.json"

	// NotAvailable fills fields the source record does not carry.
	NotAvailable = "N/A"
)

type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Event is one timeline step. It decodes from either {"status","date","details"}
// or the legacy [status, date, [details]] triple.
type Event struct {
	Status  string `json:"status"`
	Date    string `json:"date"`
	Details string `json:"details"`
}

func (e *Event) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var triple []json.RawMessage
		if err := json.Unmarshal(data, &triple); err != nil {
			return err
		}
		if len(triple) != 3 {
			return fmt.Errorf("timeline entry has %d elements, want 3", len(triple))
		}
		if err := json.Unmarshal(triple[0], &e.Status); err != nil {
			return fmt.Errorf("timeline status: %w", err)
		}
		if err := json.Unmarshal(triple[1], &e.Date); err != nil {
			return fmt.Errorf("timeline date: %w", err)
		}
		var details []string
		if err := json.Unmarshal(triple[2], &details); err != nil {
			if err := json.Unmarshal(triple[2], &e.Details); err != nil {
				return fmt.Errorf("timeline details: %w", err)
			}
			return nil
		}
		if len(details) > 0 {
			e.Details = details[0]
		}
		return nil
	}
	type plain Event
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Event(p)
	return nil
}

// LegacyTimeline is stored in orders.json as [status, date, [details]] triples.
type LegacyTimeline []Event

func (t LegacyTimeline) MarshalJSON() ([]byte, error) {
	out := make([][3]any, len(t))
	for i, e := range t {
		out[i] = [3]any{e.Status, e.Date, []string{e.Details}}
	}
	return json.Marshal(out)
}

// Price is kept as written ("Rs. 1,299", "N/A" or a bare number).
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or number: %w", err)
	}
	*p = Price(n.String())
	return nil
}

type Product struct {
	Name  string `json:"name"`
	Price Price  `json:"price"`
}

// PublicPackage is a trackable shipment from non_login.json.
type PublicPackage struct {
	ProductName string  `json:"product_name"`
	Seller      Party   `json:"seller"`
	ETA         string  `json:"eta"`
	Timeline    []Event `json:"timeline"`
}

// Order is a package claimed into a user's account.
type Order struct {
	Username  string         `json:"username"`
	Product   Product        `json:"product"`
	Recipient Party          `json:"recipient"`
	Seller    Party          `json:"seller"`
	ETA       string         `json:"eta"`
	Timeline  LegacyTimeline `json:"timeline"`
}

type Claim struct {
	Username  string `json:"username"`
	ClaimDate string `json:"claim_date"`
}

type PackageBook struct {
	Packages types.OrderedMap[PublicPackage] `json:"packages"`
}

type OrderBook struct {
	Orders types.OrderedMap[Order] `json:"orders"`
}

type ClaimBook struct {
	Claimed types.OrderedMap[Claim] `json:"claimed_packages"`
}

func NewPackageBook() PackageBook {
	return PackageBook{Packages: types.NewOrderedMap[PublicPackage]()}
}

func NewOrderBook() OrderBook {
	return OrderBook{Orders: types.NewOrderedMap[Order]()}
}

func NewClaimBook() ClaimBook {
	return ClaimBook{Claimed: types.NewOrderedMap[Claim]()}
}

// OwnedOrder pairs an order with its id for listings.
type OwnedOrder struct {
	ID    string
	Order Order
}

// TimelineEntry is an event prepared for display.
type TimelineEntry struct {
	Status    string `json:"status"`
	Date      string `json:"date"`
	Details   string `json:"details"`
	Delivered bool   `json:"delivered"`
}
