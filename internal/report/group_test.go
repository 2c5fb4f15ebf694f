package report

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/racereport/internal/model"
)

func price(v int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(v))
}

func reg(id int64, category, ticket string) model.Registration {
	return model.Registration{ID: id, CategoryName: category, TicketTypeName: ticket}
}

func TestGroupByTicketLabelOrdersGroups(t *testing.T) {
	regs := []model.Registration{
		reg(1, "21K", "Regular"),
		reg(2, "5K", "Late"),
		reg(3, "10M", "Early"),
		reg(4, "5K", "Early"),
		reg(5, "10K", "VIP"),
		reg(6, "10K", "Elite"),
		reg(7, "", ""),
		reg(8, "5K", "Early"),
	}
	grouped := GroupByTicketLabel(regs)

	assert.Equal(t, []string{
		"5K - Early",
		"5K - Late",
		"10K - VIP",
		"10K - Elite",
		"10M - Early",
		"21K - Regular",
		"- - -",
	}, grouped.Labels())

	group, ok := grouped.Group("5K - Early")
	require.True(t, ok)
	assert.Equal(t, TicketKey{Category: "5K", TicketType: "Early"}, group.Key)
	require.Len(t, group.Registrations, 2)
	assert.Equal(t, int64(4), group.Registrations[0].ID)
	assert.Equal(t, int64(8), group.Registrations[1].ID)

	_, ok = grouped.Group("42K - Early")
	assert.False(t, ok)
}

func TestGroupByTicketLabelPartitionsInput(t *testing.T) {
	categories := []string{"5K", "10K", "21K", "", "Fun"}
	tickets := []string{"Early", "Regular", "Late", "", "VIP"}
	regs := make([]model.Registration, 0, 100)
	for i := 0; i < 100; i++ {
		regs = append(regs, reg(int64(i+1), categories[i%len(categories)], tickets[(i/3)%len(tickets)]))
	}

	grouped := GroupByTicketLabel(regs)
	seen := map[int64]int{}
	for _, group := range grouped.Groups {
		for _, r := range group.Registrations {
			assert.Equal(t, group.Label, KeyFor(r).Label())
			seen[r.ID]++
		}
	}
	require.Len(t, seen, len(regs))
	for id, count := range seen {
		assert.Equal(t, 1, count, "registration %d", id)
	}
}

func TestGroupByTicketLabelSeparatesEvents(t *testing.T) {
	a := reg(1, "5K", "Early")
	a.EventName = "Bali Run"
	b := reg(2, "5K", "Early")
	b.EventName = "Lombok Run"

	grouped := GroupByTicketLabel([]model.Registration{a, b})
	assert.Equal(t, []string{"Bali Run: 5K - Early", "Lombok Run: 5K - Early"}, grouped.Labels())
}

func TestCommunityRanks(t *testing.T) {
	var regs []model.Registration
	add := func(name string, n int) {
		for i := 0; i < n; i++ {
			regs = append(regs, model.Registration{CommunityName: name})
		}
	}
	add("Sanur Striders", 2)
	add("Bali Runners", 3)
	add("  ", 5)
	add("", 5)
	add("Lombok Trail Club", 2)

	assert.Equal(t, []CommunityRank{
		{Name: "Bali Runners", Count: 3},
		{Name: "Sanur Striders", Count: 2},
		{Name: "Lombok Trail Club", Count: 2},
	}, CommunityRanks(regs, DefaultCommunityLimit))

	assert.Len(t, CommunityRanks(regs, 1), 1)
	assert.Len(t, CommunityRanks(regs, 0), 3)
}

func TestCommunityRanksCapsAtLimit(t *testing.T) {
	var regs []model.Registration
	for i := 0; i < 60; i++ {
		regs = append(regs, model.Registration{CommunityName: fmt.Sprintf("Club %02d", i)})
	}
	ranks := CommunityRanks(regs, DefaultCommunityLimit)
	require.Len(t, ranks, DefaultCommunityLimit)
	assert.Equal(t, "Club 00", ranks[0].Name)
	assert.Equal(t, "Club 49", ranks[49].Name)
}

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		name string
		reg  model.Registration
		want string
		ok   bool
	}{
		{name: "district and province", reg: model.Registration{District: "Kuta", Province: "Bali", Country: "Indonesia"}, want: "Kuta, Bali", ok: true},
		{name: "district only", reg: model.Registration{District: "Kuta"}, want: "Kuta", ok: true},
		{name: "province only", reg: model.Registration{Province: "Bali"}, want: "Bali", ok: true},
		{name: "country fallback", reg: model.Registration{Country: "Japan"}, want: "Japan", ok: true},
		{name: "nothing", reg: model.Registration{}, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatLocation(tt.reg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCityRanks(t *testing.T) {
	regs := []model.Registration{
		{District: "Kuta", Province: "Bali"},
		{Country: "Japan"},
		{District: "Kuta", Province: "Bali"},
		{},
		{Country: "Japan"},
		{District: "Ubud", Province: "Bali"},
		{Country: "Japan"},
	}
	assert.Equal(t, []CityRank{
		{Location: "Japan", Count: 3},
		{Location: "Kuta, Bali", Count: 2},
		{Location: "Ubud, Bali", Count: 1},
	}, CityRanks(regs))
}

func TestJerseyStats(t *testing.T) {
	regs := []model.Registration{
		{CategoryName: "10K", JerseySize: "L"},
		{CategoryName: "5K", JerseySize: "M"},
		{CategoryName: "10K", JerseySize: "S"},
		{CategoryName: "10K", JerseySize: "L"},
		{CategoryName: "", JerseySize: "XL"},
		{CategoryName: "5K", JerseySize: " "},
	}
	assert.Equal(t, []CategoryJersey{
		{Category: "10K", Sizes: []SizeCount{{Size: "S", Count: 1}, {Size: "L", Count: 2}}},
		{Category: "5K", Sizes: []SizeCount{{Size: "M", Count: 1}}},
		{Category: "Unknown", Sizes: []SizeCount{{Size: "XL", Count: 1}}},
	}, JerseyStats(regs))
}
