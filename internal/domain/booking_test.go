package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{name: "pending to confirmed", from: BookingStatusPending, to: BookingStatusConfirmed, want: true},
		{name: "pending to cancelled", from: BookingStatusPending, to: BookingStatusCancelled, want: true},
		{name: "pending to pending", from: BookingStatusPending, to: BookingStatusPending, want: false},
		{name: "confirmed is terminal", from: BookingStatusConfirmed, to: BookingStatusCancelled, want: false},
		{name: "cancelled is terminal", from: BookingStatusCancelled, to: BookingStatusConfirmed, want: false},
		{name: "confirmed cannot revert to pending", from: BookingStatusConfirmed, to: BookingStatusPending, want: false},
		{name: "pending to unknown status", from: BookingStatusPending, to: BookingStatus("archived"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPortNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Port
		want Port
	}{
		{
			name: "lowercase name and code",
			in:   Port{Name: "busan", Code: "krpus", Country: "KR"},
			want: Port{Name: "BUSAN", Code: "KRPUS", Country: "KR"},
		},
		{
			name: "surrounding whitespace",
			in:   Port{Name: "  Los Angeles ", Code: " usLAX ", Country: " US "},
			want: Port{Name: "LOS ANGELES", Code: "USLAX", Country: "US"},
		},
		{
			name: "lowercase country",
			in:   Port{Name: "Hamburg", Code: "DEHAM", Country: "de"},
			want: Port{Name: "HAMBURG", Code: "DEHAM", Country: "DE"},
		},
		{
			name: "empty code and country survive",
			in:   Port{Name: "rotterdam"},
			want: Port{Name: "ROTTERDAM"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestQuotationRoute(t *testing.T) {
	q := Quotation{
		POL: Port{Name: "BUSAN"},
		POD: Port{Name: "HAMBURG"},
	}
	assert.Equal(t, "BUSAN → HAMBURG", q.Route())
}

func TestQuotationTotalPrice(t *testing.T) {
	q := Quotation{
		LineItems: []LineItem{
			{Section: SectionOrigin, Name: "THC", Amount: 150, Currency: CurrencyUSD},
			{Section: SectionFreight, Name: "Ocean Freight", Amount: 1200, Currency: CurrencyUSD},
			{Section: SectionDestination, Name: "DOC Fee", Amount: 45.5, Currency: CurrencyUSD},
		},
	}
	assert.InDelta(t, 1395.5, q.TotalPrice(), 0.0001)

	empty := Quotation{}
	assert.Zero(t, empty.TotalPrice())
}
