package report

import (
	"github.com/shopspring/decimal"

	"github.com/verte-zerg/racereport/internal/model"
)

// TicketOverview is the headline figure of one category/ticket type.
type TicketOverview struct {
	Label        string          `json:"label"`
	Participants int             `json:"participants"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// EventOverview is the headline figure of one event and its ticket types.
type EventOverview struct {
	Event        string           `json:"event"`
	Participants int              `json:"participants"`
	Revenue      decimal.Decimal  `json:"revenue"`
	Tickets      []TicketOverview `json:"tickets"`
}

// Overview groups registrations by event, then by "<Category> - <TicketType>",
// both in first-appearance order.
func Overview(regs []model.Registration) []EventOverview {
	var events []EventOverview
	eventIndex := map[string]int{}
	ticketIndex := map[string]map[string]int{}

	for _, r := range regs {
		ei, ok := eventIndex[r.EventName]
		if !ok {
			ei = len(events)
			eventIndex[r.EventName] = ei
			ticketIndex[r.EventName] = map[string]int{}
			events = append(events, EventOverview{Event: r.EventName, Revenue: decimal.Zero})
		}
		price := ResolvePrice(r)
		ev := &events[ei]
		ev.Participants++
		ev.Revenue = ev.Revenue.Add(price)

		label := TicketKey{Category: orDefault(r.CategoryName, missingSegment), TicketType: orDefault(r.TicketTypeName, missingSegment)}.Label()
		ti, ok := ticketIndex[r.EventName][label]
		if !ok {
			ti = len(ev.Tickets)
			ticketIndex[r.EventName][label] = ti
			ev.Tickets = append(ev.Tickets, TicketOverview{Label: label, Revenue: decimal.Zero})
		}
		ev.Tickets[ti].Participants++
		ev.Tickets[ti].Revenue = ev.Tickets[ti].Revenue.Add(price)
	}
	return events
}
