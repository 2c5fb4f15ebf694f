// Package reportui provides the Bubble Tea report browser.
package reportui

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/racereport/internal/model"
	"github.com/verte-zerg/racereport/internal/report"
)

const (
	tabOverview = iota
	tabTickets
	tabJersey
	tabGender
	tabRanks
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Source is the data the browser reads from.
type Source interface {
	report.Source
	ListEvents(ctx context.Context) ([]model.Event, error)
}

// Model implements the Bubble Tea report browser.
type Model struct {
	source Source
	cfg    model.ReportConfig
	loc    *time.Location
	now    func() time.Time

	events     []model.Event
	eventIndex int

	report report.Report
	errMsg string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	ticketTable table.Model

	width  int
	height int
}

// NewModel constructs a report browser. The configured event is selected when
// present, otherwise the most recent one.
func NewModel(src Source, cfg model.ReportConfig, loc *time.Location) *Model {
	m := &Model{
		source: src,
		cfg:    cfg,
		loc:    loc,
		now:    time.Now,
		tabs:   []string{"Overview", "Tickets", "Jersey", "Gender & Nationality", "Ranks"},
	}
	m.initViewports()
	m.ticketTable = buildTicketTable(nil, 0, 1)
	m.reload()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "[":
			m.moveEvent(-1)
			return m, nil
		case "]":
			m.moveEvent(1)
			return m, nil
		case "r":
			m.reload()
			return m, nil
		case "g", "home":
			if m.activeTab == tabTickets {
				m.ticketTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTickets {
				m.ticketTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabTickets {
				var cmd tea.Cmd
				m.ticketTable, cmd = m.ticketTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

// SelectedEvent returns the event currently shown, if any.
func (m *Model) SelectedEvent() (model.Event, bool) {
	if len(m.events) == 0 {
		return model.Event{}, false
	}
	return m.events[m.eventIndex], true
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) reload() {
	if err := m.loadEvents(); err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load events.")
		}
		return
	}
	m.refreshReport()
}

func (m *Model) loadEvents() error {
	events, err := m.source.ListEvents(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	m.events = events
	m.eventIndex = 0
	for i, ev := range events {
		if ev.ID == m.cfg.EventID {
			m.eventIndex = i
			break
		}
	}
	return nil
}

func (m *Model) moveEvent(delta int) {
	count := len(m.events)
	if count == 0 {
		return
	}
	m.eventIndex = (m.eventIndex + delta + count) % count
	m.cfg.EventID = m.events[m.eventIndex].ID
	m.refreshReport()
}

func (m *Model) refreshReport() {
	var eventID int64
	if ev, ok := m.SelectedEvent(); ok {
		eventID = ev.ID
	}
	opts := report.Options{CommunityLimit: m.cfg.CommunityLimit}
	rep, err := report.Build(context.Background(), m.source, eventID, opts, m.now(), m.loc)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load report.")
		}
		return
	}
	m.errMsg = ""
	m.report = rep
	width := m.width
	if width <= 0 {
		width = 80
	}
	_, bodyHeight, _ := m.layoutHeights()
	m.ticketTable = buildTicketTable(rep.PerTicketStats, width, bodyHeight)
	if m.activeTab == tabTickets {
		m.ticketTable.Focus()
	}
	m.renderTabContents()
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.ticketTable.SetWidth(m.width)
	m.ticketTable.SetHeight(maxInt(1, vpHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	if count == 0 {
		return
	}
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabTickets {
		m.ticketTable.Focus()
	} else {
		m.ticketTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLine(m.renderEventSummary(), m.width)
}

func (m *Model) renderEventSummary() string {
	ev, ok := m.SelectedEvent()
	if !ok {
		return headerStyle.Render("No events. Import or seed registrations first.")
	}
	summary := fmt.Sprintf("Event %d/%d: %s (%s, %s)  Generated: %s",
		m.eventIndex+1, len(m.events), ev.Name, ev.StartDate.Format("2006-01-02"), ev.Status, m.report.GeneratedAt)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderFooter() string {
	help := headerStyle.Render("Nav: left/right  Event: [/]  Scroll: up/down/pgup/pgdn  Reload: r  Quit: q")
	if m.errMsg != "" {
		return help + "\n" + errorStyle.Render(m.errMsg)
	}
	return help
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabTickets {
		if len(m.report.PerTicketStats) == 0 {
			return fitLines("No paid registrations found.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.ticketTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 || m.errMsg != "" {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	res := m.report.Result
	m.viewports[tabOverview].SetContent(renderOverview(res, width))
	m.viewports[tabJersey].SetContent(renderSections(res, width, report.SectionJersey))
	m.viewports[tabGender].SetContent(renderSections(res, width, report.SectionGenderNationality))
	m.viewports[tabRanks].SetContent(renderSections(res, width, report.SectionCommunities, report.SectionCities))
}

func renderOverview(res report.Result, width int) string {
	if res.IsEmpty() {
		return "No paid registrations found."
	}
	cards := renderSummaryCards(res.GlobalStats, width)
	chart := renderSections(res, width, report.SectionChart)
	return strings.TrimRight(cards+"\n\n"+chart, "\n")
}

func renderSummaryCards(g report.GlobalStats, width int) string {
	cards := []string{
		metricCard("Participants", report.FormatCount(g.TotalParticipants)),
		metricCard("Revenue", report.FormatRupiahFloat(g.TotalRevenue)),
		metricCard("Male", report.FormatCount(g.Gender.Male)),
		metricCard("Female", report.FormatCount(g.Gender.Female)),
		metricCard("Indonesian", report.FormatCount(g.Nationality.Indonesian)),
		metricCard("Foreigner", report.FormatCount(g.Nationality.Foreigner)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[2:]...)
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderSections(res report.Result, width int, sections ...report.Section) string {
	if res.IsEmpty() {
		return "No paid registrations found."
	}
	opts := report.RenderOptions{Color: true, BarWidth: maxInt(10, width/3)}
	var buf bytes.Buffer
	for _, section := range sections {
		if err := report.RenderSection(&buf, res, section, opts); err != nil {
			return fmt.Sprintf("Failed to render report: %v", err)
		}
	}
	return strings.TrimRight(buf.String(), "\n")
}

func buildTicketTable(stats []report.TicketStats, width, height int) table.Model {
	columns, rows := buildTicketTableData(stats)
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(maxInt(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(ticketTableStyles())
	return t
}

func buildTicketTableData(stats []report.TicketStats) ([]table.Column, []table.Row) {
	labelWidth := len("Ticket")
	for _, s := range stats {
		labelWidth = maxInt(labelWidth, lipgloss.Width(s.Label))
	}
	columns := []table.Column{
		{Title: "Ticket", Width: labelWidth},
		{Title: "Participants", Width: 12},
		{Title: "Revenue", Width: 16},
		{Title: "Male", Width: 6},
		{Title: "Female", Width: 6},
		{Title: "Top Size", Width: 8},
	}
	rows := make([]table.Row, 0, len(stats))
	for _, s := range stats {
		topSize := "-"
		if len(s.JerseySizes) > 0 && s.JerseySizes[0].Size != "" {
			topSize = s.JerseySizes[0].Size
		}
		rows = append(rows, table.Row{
			s.Label,
			report.FormatCount(s.Participants),
			report.FormatRupiahFloat(s.Revenue),
			report.FormatCount(s.Gender.Male),
			report.FormatCount(s.Gender.Female),
			topSize,
		})
	}
	return columns, rows
}

func ticketTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
