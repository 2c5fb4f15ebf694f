// Package report turns paid registrations into the event report.
//
// Everything in this package except Build is a pure function of its input: no
// I/O, no shared state and no error paths. Missing relationship data is absorbed
// into documented defaults instead of being reported.
package report

import (
	"strings"

	"github.com/verte-zerg/racereport/internal/model"
)

const (
	missingSegment  = "-"
	labelSeparator  = " - "
	eventSeparator  = ": "
	unknownCategory = "Unknown"
	totalRowLabel   = "Total"
)

// TicketKey identifies an event/category/ticket-type combination.
type TicketKey struct {
	Event      string
	Category   string
	TicketType string
}

// KeyFor builds the ticket key of a registration, substituting "-" for a
// missing category or ticket type.
func KeyFor(r model.Registration) TicketKey {
	return TicketKey{
		Event:      r.EventName,
		Category:   orDefault(r.CategoryName, missingSegment),
		TicketType: orDefault(r.TicketTypeName, missingSegment),
	}
}

// Label renders the display label "<Event>: <Category> - <TicketType>", dropping
// the event prefix when the event name is empty.
func (k TicketKey) Label() string {
	var b strings.Builder
	if k.Event != "" {
		b.WriteString(k.Event)
		b.WriteString(eventSeparator)
	}
	b.WriteString(k.Category)
	b.WriteString(labelSeparator)
	b.WriteString(k.TicketType)
	return strings.TrimSpace(b.String())
}

// LabelParts holds the category and ticket type recovered from a label.
type LabelParts struct {
	Category string
	Ticket   string
}

// ParseLabel extracts the category and ticket type from a display label. A
// leading "<anything>: " prefix is dropped, then the rest is split on the first
// " - ". Missing parts are left empty.
func ParseLabel(label string) LabelParts {
	label = stripEventPrefix(label)
	category, ticket, _ := strings.Cut(label, labelSeparator)
	return LabelParts{Category: category, Ticket: ticket}
}

func stripEventPrefix(label string) string {
	idx := strings.IndexByte(label, ':')
	if idx <= 0 {
		return label
	}
	return strings.TrimLeft(label[idx+1:], " \t\r\n\f\v")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func isBlank(value string) bool {
	return strings.TrimSpace(value) == ""
}
