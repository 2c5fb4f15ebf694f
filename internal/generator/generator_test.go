package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/racereport/internal/model"
)

func TestEventIsDeterministicForSeed(t *testing.T) {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	opts := DefaultOptions()
	opts.Registrations = 50

	a := NewWithSeed(7).Event("Bali Run", start, nil, opts)
	b := NewWithSeed(7).Event("Bali Run", start, nil, opts)

	require.Len(t, a.Registrations, 50)
	c := NewWithSeed(8).Event("Bali Run", start, nil, opts)
	assert.NotEqual(t, a.Registrations[0].RegistrationCode, c.Registrations[0].RegistrationCode)
	assert.Equal(t, "2026-11-01", a.StartDate)
	assert.Equal(t, model.EventStatusOpen, a.Status)
	for i := range a.Registrations {
		ra, rb := a.Registrations[i], b.Registrations[i]
		assert.Equal(t, ra.FullName, rb.FullName)
		assert.Equal(t, ra.Category, rb.Category)
		assert.Equal(t, ra.JerseySize, rb.JerseySize)
		assert.Equal(t, ra.PaymentStatus, rb.PaymentStatus)
		assert.Equal(t, ra.RegistrationCode, rb.RegistrationCode)
		assert.Equal(t, ra.VoucherCode, rb.VoucherCode)
	}
}

func TestEventRegistrationsUseCatalogue(t *testing.T) {
	tickets := []TicketOption{{Category: "1K", TicketType: "Kids", Price: 75000}}
	opts := Options{Registrations: 30, ForeignPct: 1, VoucherPct: 1}

	ev := NewWithSeed(1).Event("Kids Dash", time.Now(), tickets, opts)
	require.Len(t, ev.Registrations, 30)
	codes := map[string]struct{}{}
	for _, r := range ev.Registrations {
		assert.Equal(t, "1K", r.Category)
		assert.Equal(t, "Kids", r.TicketType)
		assert.Contains(t, r.JerseySize, "Kids")
		assert.NotEqual(t, model.DomesticNationality, r.Nationality)
		assert.Equal(t, model.PaymentStatusPaid, r.PaymentStatus)
		require.NotNil(t, r.VoucherFinalPrice)
		assert.Equal(t, "60000", r.VoucherFinalPrice.String())
		codes[r.RegistrationCode] = struct{}{}
	}
	assert.Len(t, codes, 30)
}
