package reportui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/racereport/internal/model"
	"github.com/verte-zerg/racereport/internal/store"
)

type fakeSource struct {
	events  []model.Event
	regs    map[int64][]model.Registration
	listErr error
}

func (f *fakeSource) ListEvents(context.Context) ([]model.Event, error) {
	return f.events, f.listErr
}

func (f *fakeSource) GetEvent(_ context.Context, id int64) (model.Event, error) {
	for _, ev := range f.events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return model.Event{}, store.ErrEventNotFound
}

func (f *fakeSource) ListPaidRegistrations(_ context.Context, eventID int64) ([]model.Registration, error) {
	return f.regs[eventID], nil
}

func newFakeSource() *fakeSource {
	price := decimal.NewNullDecimal(decimal.NewFromInt(150000))
	return &fakeSource{
		events: []model.Event{
			{ID: 2, Name: "Makassar Half", StartDate: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC), Status: model.EventStatusOpen},
			{ID: 1, Name: "Bali Fun Run", StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), Status: model.EventStatusOpen},
		},
		regs: map[int64][]model.Registration{
			1: {
				{ID: 1, Gender: model.GenderMale, Nationality: model.DomesticNationality, JerseySize: "M", CategoryName: "5K", TicketTypeName: "Early", Price: price},
				{ID: 2, Gender: model.GenderFemale, Nationality: "Japan", JerseySize: "S", CategoryName: "5K", TicketTypeName: "Early", Price: price},
			},
		},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelSelectsConfiguredEvent(t *testing.T) {
	m := NewModel(newFakeSource(), model.ReportConfig{EventID: 1, CommunityLimit: 50}, time.UTC)

	ev, ok := m.SelectedEvent()
	require.True(t, ok)
	assert.Equal(t, "Bali Fun Run", ev.Name)
	assert.Equal(t, 2, m.report.GlobalStats.TotalParticipants)
	assert.Empty(t, m.errMsg)
}

func TestNewModelDefaultsToFirstEvent(t *testing.T) {
	m := NewModel(newFakeSource(), model.ReportConfig{}, time.UTC)

	ev, ok := m.SelectedEvent()
	require.True(t, ok)
	assert.Equal(t, int64(2), ev.ID)
	assert.True(t, m.report.IsEmpty())
}

func TestEventKeysCycle(t *testing.T) {
	m := NewModel(newFakeSource(), model.ReportConfig{}, time.UTC)

	m.Update(keyRunes("]"))
	ev, _ := m.SelectedEvent()
	assert.Equal(t, int64(1), ev.ID)
	assert.Equal(t, "Bali Fun Run", m.report.EventName)

	m.Update(keyRunes("]"))
	ev, _ = m.SelectedEvent()
	assert.Equal(t, int64(2), ev.ID)

	m.Update(keyRunes("["))
	ev, _ = m.SelectedEvent()
	assert.Equal(t, int64(1), ev.ID)
}

func TestTabNavigationWraps(t *testing.T) {
	m := NewModel(newFakeSource(), model.ReportConfig{}, time.UTC)

	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabRanks, m.activeTab)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabOverview, m.activeTab)
	m.Update(keyRunes("l"))
	assert.Equal(t, tabTickets, m.activeTab)
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(newFakeSource(), model.ReportConfig{}, time.UTC)

	_, cmd := m.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewFitsWindow(t *testing.T) {
	m := NewModel(newFakeSource(), model.ReportConfig{EventID: 1}, time.UTC)
	assert.Empty(t, m.View())

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := m.View()
	assert.Len(t, strings.Split(view, "\n"), 30)
	assert.Contains(t, view, "Bali Fun Run")
	assert.Contains(t, view, "Participants")
}

func TestListEventsErrorIsShown(t *testing.T) {
	src := newFakeSource()
	src.listErr = errors.New("disk on fire")
	m := NewModel(src, model.ReportConfig{}, time.UTC)

	assert.Contains(t, m.errMsg, "disk on fire")
	_, ok := m.SelectedEvent()
	assert.False(t, ok)
}

func TestBuildTicketTableData(t *testing.T) {
	m := NewModel(newFakeSource(), model.ReportConfig{EventID: 1}, time.UTC)

	cols, rows := buildTicketTableData(m.report.PerTicketStats)
	require.Len(t, cols, 6)
	require.Len(t, rows, 1)
	assert.Equal(t, "5K - Early", rows[0][0])
	assert.Equal(t, "2", rows[0][1])
	assert.Equal(t, "Rp 300.000", rows[0][2])
}

func TestFitLines(t *testing.T) {
	got := fitLines("ab\ncd\nef", 4, 2)
	assert.Equal(t, "ab  \ncd  ", got)
	assert.Equal(t, "abcdefg...", truncateLine("abcdefghijklmnop", 10))
}
