package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContainerType identifies the equipment a quote is priced for.
type ContainerType string

const (
	Container20GP ContainerType = "20GP"
	Container40GP ContainerType = "40GP"
	Container40HQ ContainerType = "40HQ"
)

// DefaultContainerType is applied when a create request omits the field.
const DefaultContainerType = Container40HQ

// ValidContainerType reports whether t is a known container type.
func ValidContainerType(t ContainerType) bool {
	switch t {
	case Container20GP, Container40GP, Container40HQ:
		return true
	}
	return false
}

// TransportMode identifies how the cargo moves.
type TransportMode string

const (
	ModeFCL TransportMode = "FCL"
	ModeLCL TransportMode = "LCL"
	ModeAIR TransportMode = "AIR"
)

const DefaultTransportMode = ModeFCL

// ValidTransportMode reports whether m is a known transport mode.
func ValidTransportMode(m TransportMode) bool {
	switch m {
	case ModeFCL, ModeLCL, ModeAIR:
		return true
	}
	return false
}

// Incoterms is the trade term a quote is issued under.
type Incoterms string

const (
	IncotermsEXW Incoterms = "EXW"
	IncotermsFCA Incoterms = "FCA"
	IncotermsFOB Incoterms = "FOB"
	IncotermsCFR Incoterms = "CFR"
	IncotermsCIF Incoterms = "CIF"
	IncotermsDAP Incoterms = "DAP"
	IncotermsDDP Incoterms = "DDP"
)

const DefaultIncoterms = IncotermsFOB

// ValidIncoterms reports whether i is a known trade term.
func ValidIncoterms(i Incoterms) bool {
	switch i {
	case IncotermsEXW, IncotermsFCA, IncotermsFOB, IncotermsCFR,
		IncotermsCIF, IncotermsDAP, IncotermsDDP:
		return true
	}
	return false
}

// Currency is a line-item pricing currency.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyKRW Currency = "KRW"
	CurrencyEUR Currency = "EUR"
)

// ValidCurrency reports whether c is a supported currency.
func ValidCurrency(c Currency) bool {
	switch c {
	case CurrencyUSD, CurrencyKRW, CurrencyEUR:
		return true
	}
	return false
}

// LineItemSection buckets a cost line under origin, freight or destination
// charges on the rendered quote.
type LineItemSection string

const (
	SectionOrigin      LineItemSection = "ORIGIN"
	SectionFreight     LineItemSection = "FREIGHT"
	SectionDestination LineItemSection = "DESTINATION"
)

// ValidLineItemSection reports whether s is a known section.
func ValidLineItemSection(s LineItemSection) bool {
	switch s {
	case SectionOrigin, SectionFreight, SectionDestination:
		return true
	}
	return false
}

// LineItem is a single priced cost line on a quotation.
type LineItem struct {
	Section  LineItemSection `json:"section"`
	Name     string          `json:"name"`
	Amount   float64         `json:"amount"`
	Currency Currency        `json:"currency"`
}

// Port is one end of a quoted route.
//
// Code is a UN/LOCODE and may be empty when the forwarder only knows the
// port by name. Name and Code are stored uppercase and trimmed so search
// and display are consistent regardless of how they were typed.
type Port struct {
	Name    string `json:"name"`
	Code    string `json:"code,omitempty"`
	Country string `json:"country"`
}

// Normalize returns the port with all fields trimmed and uppercased.
// An empty country stays empty rather than failing validation.
func (p Port) Normalize() Port {
	return Port{
		Name:    strings.ToUpper(strings.TrimSpace(p.Name)),
		Code:    strings.ToUpper(strings.TrimSpace(p.Code)),
		Country: strings.ToUpper(strings.TrimSpace(p.Country)),
	}
}

// MaxRemarksLen caps the free-text remarks on a quotation.
const MaxRemarksLen = 500

// Quotation is a shareable freight quote owned by a forwarder.
//
// ShortID is the public identifier: 7 random alphanumeric characters,
// unique across all quotations, embedded in the share URL. Views counts
// public page loads and is only ever incremented.
type Quotation struct {
	ID            uuid.UUID
	ShortID       string
	UserID        uuid.UUID
	POL           Port // Port of loading
	POD           Port // Port of discharge
	ContainerType ContainerType
	Incoterms     Incoterms
	TransportMode TransportMode
	LineItems     []LineItem
	Price         float64 // Denormalized sum of line-item amounts
	Remarks       string
	ValidUntil    time.Time
	Views         int
	// Air freight only. ChargeableWeight is cached at write time.
	GrossWeight      float64
	CBM              float64
	ChargeableWeight float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Route returns the display route, e.g. "BUSAN → LOS ANGELES".
func (q *Quotation) Route() string {
	return q.POL.Name + " → " + q.POD.Name
}

// TotalPrice sums line-item amounts. Callers persist this as the
// denormalized Price field.
func (q *Quotation) TotalPrice() float64 {
	var total float64
	for _, li := range q.LineItems {
		total += li.Amount
	}
	return total
}

// IsExpired reports whether the quote's validity window has passed.
func (q *Quotation) IsExpired(now time.Time) bool {
	return now.After(q.ValidUntil)
}

// CreateQuotationParams contains parameters for creating a quotation.
// Zero-value enum fields receive the documented defaults.
type CreateQuotationParams struct {
	POL           Port
	POD           Port
	ContainerType ContainerType
	Incoterms     Incoterms
	TransportMode TransportMode
	LineItems     []LineItem
	Remarks       string
	ValidUntil    time.Time
	GrossWeight   float64
	CBM           float64
}

// UpdateQuotationParams contains the partial-update fields for a quotation.
// Nil pointers mean "leave unchanged".
type UpdateQuotationParams struct {
	POL           *Port
	POD           *Port
	ContainerType *ContainerType
	Incoterms     *Incoterms
	TransportMode *TransportMode
	LineItems     []LineItem // nil = unchanged, empty slice = clear
	Remarks       *string
	ValidUntil    *time.Time
	GrossWeight   *float64
	CBM           *float64
}

// QuotationFilter narrows a list query.
type QuotationFilter struct {
	Search        string // Matches POL/POD names and short code
	ContainerType ContainerType
	TransportMode TransportMode
}
