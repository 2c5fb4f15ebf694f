// Package model defines shared data structures.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Gender and nationality values as stored on registrations.
const (
	GenderMale           = "Male"
	GenderFemale         = "Female"
	DomesticNationality  = "Indonesia"
	PaymentStatusPaid    = "paid"
	EventStatusOpen      = "OPEN"
	DefaultTimezone      = "Asia/Makassar"
	DefaultReportFormat  = "text"
	DefaultCommunityRank = 50
)

// ReportConfig defines which event to report on and how to render it.
type ReportConfig struct {
	EventID        int64
	Timezone       string
	Format         string
	CommunityLimit int
	Color          bool
}

// Event is a race event registrations belong to.
type Event struct {
	ID        int64
	Name      string
	StartDate time.Time
	Status    string
}

// Registration is a paid registration with every relationship already resolved.
// Empty strings stand for absent values; prices are invalid when the relationship
// or the column is missing.
type Registration struct {
	ID               int64
	RegistrationCode string
	Gender           string
	Nationality      string
	CommunityName    string
	District         string
	Province         string
	Country          string
	JerseySize       string

	EventName      string
	CategoryName   string
	TicketTypeName string

	Price             decimal.NullDecimal
	VoucherFinalPrice decimal.NullDecimal
}

// ImportFile is the JSON document accepted by the import command.
type ImportFile struct {
	Events []EventImport `json:"events"`
}

// EventImport describes one event and its registrations.
type EventImport struct {
	Name          string               `json:"name"`
	StartDate     string               `json:"start_date"`
	Status        string               `json:"status"`
	Registrations []RegistrationImport `json:"registrations"`
}

// RegistrationImport is a flat registration row; category, ticket type and voucher
// are matched by name/code within the event.
type RegistrationImport struct {
	RegistrationCode  string           `json:"registration_code"`
	FullName          string           `json:"full_name"`
	Gender            string           `json:"gender"`
	Nationality       string           `json:"nationality"`
	CommunityName     string           `json:"community_name"`
	District          string           `json:"district"`
	Province          string           `json:"province"`
	Country           string           `json:"country"`
	JerseySize        string           `json:"jersey_size"`
	Category          string           `json:"category"`
	TicketType        string           `json:"ticket_type"`
	Price             *decimal.Decimal `json:"price"`
	VoucherCode       string           `json:"voucher_code"`
	VoucherFinalPrice *decimal.Decimal `json:"voucher_final_price"`
	PaymentStatus     string           `json:"payment_status"`
}
