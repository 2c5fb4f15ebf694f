// Package generator builds randomized sample registrations.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/verte-zerg/racereport/internal/model"
)

// TicketOption is a category/ticket type combination with its price.
type TicketOption struct {
	Category   string
	TicketType string
	Price      int64
}

// DefaultTickets is the ticket catalogue used when none is given.
var DefaultTickets = []TicketOption{
	{Category: "5K", TicketType: "Early", Price: 150000},
	{Category: "5K", TicketType: "Regular", Price: 200000},
	{Category: "10K", TicketType: "Early", Price: 250000},
	{Category: "10K", TicketType: "Regular", Price: 300000},
	{Category: "21K", TicketType: "Regular", Price: 450000},
	{Category: "21K", TicketType: "Late", Price: 500000},
	{Category: "1K", TicketType: "Kids", Price: 100000},
}

var (
	adultSizes  = []string{"XS", "S", "M", "L", "XL", "XXL"}
	kidsSizes   = []string{"XS Kids", "S Kids", "M Kids", "L Kids"}
	communities = []string{"Bali Runners", "Makassar Pacers", "Lombok Trail Club", "Jakarta Night Run", "Sanur Striders"}
	places      = [][2]string{
		{"Denpasar Selatan", "Bali"},
		{"Kuta", "Bali"},
		{"Ubud", "Bali"},
		{"Tamalanrea", "Sulawesi Selatan"},
		{"Mataram", "Nusa Tenggara Barat"},
		{"Kebayoran Baru", "DKI Jakarta"},
	}
	foreignCountries = []string{"Australia", "Singapore", "Japan", "Netherlands"}
	firstNames       = []string{"Made", "Ketut", "Putu", "Ayu", "Dewi", "Andi", "Rina", "Liam", "Sophie", "Kenji"}
	lastNames        = []string{"Saputra", "Wijaya", "Pratama", "Lestari", "Santoso", "Smith", "Tanaka", "de Vries"}
)

// Options tunes the generated population.
type Options struct {
	Registrations int
	ForeignPct    float64
	CommunityPct  float64
	VoucherPct    float64
	UnpaidPct     float64
}

// DefaultOptions returns a plausible mix for a regional race.
func DefaultOptions() Options {
	return Options{
		Registrations: 200,
		ForeignPct:    0.15,
		CommunityPct:  0.4,
		VoucherPct:    0.1,
		UnpaidPct:     0.05,
	}
}

// Generator produces randomized registrations.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Event builds an importable event with randomized registrations.
func (g *Generator) Event(name string, start time.Time, tickets []TicketOption, opts Options) model.EventImport {
	if len(tickets) == 0 {
		tickets = DefaultTickets
	}
	ev := model.EventImport{
		Name:          name,
		StartDate:     start.Format("2006-01-02"),
		Status:        model.EventStatusOpen,
		Registrations: make([]model.RegistrationImport, 0, opts.Registrations),
	}
	for i := 0; i < opts.Registrations; i++ {
		ev.Registrations = append(ev.Registrations, g.registration(tickets, opts))
	}
	return ev
}

func (g *Generator) registration(tickets []TicketOption, opts Options) model.RegistrationImport {
	ticket := tickets[g.rnd.Intn(len(tickets))]
	price := decimal.NewFromInt(ticket.Price)
	reg := model.RegistrationImport{
		RegistrationCode: g.code(),
		FullName:         fmt.Sprintf("%s %s", pick(g.rnd, firstNames), pick(g.rnd, lastNames)),
		Gender:           pick(g.rnd, []string{model.GenderMale, model.GenderFemale}),
		Category:         ticket.Category,
		TicketType:       ticket.TicketType,
		Price:            &price,
		PaymentStatus:    model.PaymentStatusPaid,
	}

	if g.rnd.Float64() < opts.ForeignPct {
		country := pick(g.rnd, foreignCountries)
		reg.Nationality = country
		reg.Country = country
	} else {
		place := places[g.rnd.Intn(len(places))]
		reg.Nationality = model.DomesticNationality
		reg.Country = model.DomesticNationality
		reg.District = place[0]
		reg.Province = place[1]
	}

	if g.rnd.Float64() < opts.CommunityPct {
		reg.CommunityName = pick(g.rnd, communities)
	}

	if ticket.TicketType == "Kids" {
		reg.JerseySize = pick(g.rnd, kidsSizes)
	} else if g.rnd.Float64() < 0.95 {
		reg.JerseySize = pick(g.rnd, adultSizes)
	}

	if g.rnd.Float64() < opts.VoucherPct {
		final := price.Mul(decimal.NewFromFloat(0.8)).Round(0)
		reg.VoucherCode = "PROMO-" + g.code()[:8]
		reg.VoucherFinalPrice = &final
	}

	if g.rnd.Float64() < opts.UnpaidPct {
		reg.PaymentStatus = "pending"
	}
	return reg
}

// code draws a UUID from the generator's source so seeded runs repeat codes too.
func (g *Generator) code() string {
	id, err := uuid.NewRandomFromReader(g.rnd)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func pick(rnd *rand.Rand, values []string) string {
	return values[rnd.Intn(len(values))]
}
