package pickup

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() Request {
	return Request{
		ShipperName:      "Asha",
		ShipperAddress:   "4 Lake View, Pune",
		ShipperPincode:   "411001",
		ShipperPhone:     "9800000000",
		RecipientName:    "Ravi",
		RecipientAddress: "12 MG Road, Bengaluru",
		RecipientPincode: "560001",
		Description:      "Books",
		Weight:           decimal.RequireFromString("0.5"),
		Date:             "2024-07-01",
	}
}

func newTestService() *Service {
	s := NewService(nil)
	s.now = func() time.Time { return time.Date(2024, 7, 1, 18, 0, 0, 0, time.UTC) }
	return s
}

func TestSchedule(t *testing.T) {
	conf, err := newTestService().Schedule(context.Background(), validRequest())
	require.NoError(t, err)
	_, err = uuid.Parse(conf.Reference)
	assert.NoError(t, err)
	assert.Equal(t, "Thank you, Asha! Your pickup for 'Books' has been scheduled for 01-Jul-2024. Our agent will contact you shortly.", conf.Message)
}

func TestScheduleValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Request)
	}{
		{"missing shipper name", func(r *Request) { r.ShipperName = "" }},
		{"missing description", func(r *Request) { r.Description = "  " }},
		{"short pincode", func(r *Request) { r.ShipperPincode = "41100" }},
		{"letters in pincode", func(r *Request) { r.RecipientPincode = "56OO01" }},
		{"zero weight", func(r *Request) { r.Weight = decimal.Zero }},
		{"bad date", func(r *Request) { r.Date = "01/07/2024" }},
		{"past date", func(r *Request) { r.Date = "2024-06-30" }},
	}
	svc := newTestService()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			_, err := svc.Schedule(context.Background(), req)
			assert.ErrorIs(t, err, ErrBadRequest)
		})
	}
}
