package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const defaultBarWidth = 30

const headingColor = "#C89A3A"

// RenderOptions controls the text rendering.
type RenderOptions struct {
	Color    bool
	BarWidth int
}

// ShouldUseColor reports whether w is a terminal, or force is set.
func ShouldUseColor(w io.Writer, force bool) bool {
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// RenderText prints the printable view of a report.
func RenderText(w io.Writer, rep Report, opts RenderOptions) error {
	name := rep.EventName
	if name == "" {
		name = "(no event selected)"
	}
	if err := writeLines(w,
		heading(w, "Event Report: "+name, opts.Color),
		"Generated: "+rep.GeneratedAt,
		"",
	); err != nil {
		return err
	}
	if rep.IsEmpty() {
		_, err := fmt.Fprintln(w, "No paid registrations found.")
		return err
	}

	for _, section := range AllSections {
		if err := RenderSection(w, rep.Result, section, opts); err != nil {
			return err
		}
	}
	return nil
}

// Section names one block of the printable view.
type Section int

// Sections of the printable view, in print order.
const (
	SectionSummary Section = iota
	SectionChart
	SectionPerTicket
	SectionJersey
	SectionGenderNationality
	SectionCommunities
	SectionCities
)

// AllSections lists every section in print order.
var AllSections = []Section{
	SectionSummary,
	SectionChart,
	SectionPerTicket,
	SectionJersey,
	SectionGenderNationality,
	SectionCommunities,
	SectionCities,
}

var sectionRenderers = map[Section]func(io.Writer, Result, RenderOptions) error{
	SectionSummary:           renderGlobalStats,
	SectionChart:             renderChart,
	SectionPerTicket:         renderPerTicket,
	SectionJersey:            renderJerseyTable,
	SectionGenderNationality: renderGenderNationality,
	SectionCommunities:       renderCommunityRanks,
	SectionCities:            renderCityRanks,
}

// RenderSection prints a single section of the printable view.
func RenderSection(w io.Writer, res Result, section Section, opts RenderOptions) error {
	render, ok := sectionRenderers[section]
	if !ok {
		return fmt.Errorf("unknown report section %d", section)
	}
	return render(w, res, opts)
}

// RenderOverview prints revenue and participants per open event and ticket type.
func RenderOverview(w io.Writer, events []EventOverview, color bool) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No paid registrations for open events.")
		return err
	}
	for _, ev := range events {
		if err := writeLines(w,
			heading(w, ev.Event, color),
			fmt.Sprintf("%s  (%s participants)", FormatRupiah(ev.Revenue), FormatCount(ev.Participants)),
		); err != nil {
			return err
		}
		rows := make([][]string, 0, len(ev.Tickets))
		for _, t := range ev.Tickets {
			rows = append(rows, []string{t.Label, FormatCount(t.Participants), FormatRupiah(t.Revenue)})
		}
		lines := formatTable([]string{"Ticket", "Participants", "Revenue"}, rows, numericColumns(1, 3))
		if err := writeLines(w, append(lines, "")...); err != nil {
			return err
		}
	}
	return nil
}

func renderGlobalStats(w io.Writer, res Result, opts RenderOptions) error {
	g := res.GlobalStats
	return writeLines(w,
		heading(w, "Summary", opts.Color),
		"Participants: "+FormatCount(g.TotalParticipants),
		"Revenue: "+FormatRupiahFloat(g.TotalRevenue),
		fmt.Sprintf("Male: %s  Female: %s", FormatCount(g.Gender.Male), FormatCount(g.Gender.Female)),
		fmt.Sprintf("Indonesian: %s  Foreigner: %s", FormatCount(g.Nationality.Indonesian), FormatCount(g.Nationality.Foreigner)),
		"",
	)
}

func renderChart(w io.Writer, res Result, opts RenderOptions) error {
	width := opts.BarWidth
	if width <= 0 {
		width = defaultBarWidth
	}
	maxValue := 0
	for _, v := range res.ChartData.Values {
		if v > maxValue {
			maxValue = v
		}
	}
	rows := make([][]string, 0, len(res.ChartData.Labels))
	for i, label := range res.ChartData.Labels {
		rows = append(rows, []string{
			label,
			strconv.Itoa(res.ChartData.Values[i]),
			Bar(res.ChartData.Values[i], maxValue, width),
		})
	}
	lines := formatTable(nil, rows, map[int]bool{1: true})
	return writeLines(w, append(append([]string{heading(w, "Registrations per Ticket", opts.Color)}, lines...), "")...)
}

func renderPerTicket(w io.Writer, res Result, opts RenderOptions) error {
	rows := make([][]string, 0, len(res.PerTicketStats))
	for _, t := range res.PerTicketStats {
		rows = append(rows, []string{
			t.Label,
			FormatCount(t.Participants),
			FormatRupiahFloat(t.Revenue),
			FormatCount(t.Gender.Male),
			FormatCount(t.Gender.Female),
		})
	}
	lines := formatTable([]string{"Ticket", "Participants", "Revenue", "Male", "Female"}, rows, numericColumns(1, 5))
	return writeLines(w, append(append([]string{heading(w, "Per Ticket", opts.Color)}, lines...), "")...)
}

func renderJerseyTable(w io.Writer, res Result, opts RenderOptions) error {
	table := res.JerseyTable
	if len(table.Data) == 0 {
		return writeLines(w, heading(w, "Jersey Sizes", opts.Color), "No jersey sizes recorded.", "")
	}
	headers := append(append([]string{"Size"}, table.TicketTypes...), "Total")
	rows := make([][]string, 0, len(table.Data))
	for _, row := range table.Data {
		cells := make([]string, 0, len(row.Cells)+2)
		cells = append(cells, row.Size)
		for _, c := range row.Cells {
			cells = append(cells, FormatCount(c))
		}
		cells = append(cells, FormatCount(row.Totals))
		rows = append(rows, cells)
	}
	lines := formatTable(headers, rows, numericColumns(1, len(headers)))
	return writeLines(w, append(append([]string{heading(w, "Jersey Sizes", opts.Color)}, lines...), "")...)
}

func renderGenderNationality(w io.Writer, res Result, opts RenderOptions) error {
	rows := make([][]string, 0, len(res.GenderNationalityTable))
	for _, row := range res.GenderNationalityTable {
		rows = append(rows, []string{
			row.TicketType,
			FormatCount(row.Male),
			FormatCount(row.Female),
			FormatCount(row.Foreigner),
		})
	}
	lines := formatTable([]string{"Ticket", "Male", "Female", "Foreigner"}, rows, numericColumns(1, 4))
	return writeLines(w, append(append([]string{heading(w, "Gender & Nationality", opts.Color)}, lines...), "")...)
}

func renderCommunityRanks(w io.Writer, res Result, opts RenderOptions) error {
	rows := make([][]string, 0, len(res.CommunityRanks))
	for i, c := range res.CommunityRanks {
		rows = append(rows, []string{strconv.Itoa(i + 1), c.Name, FormatCount(c.Count)})
	}
	return renderRanks(w, "Communities", rows, opts)
}

func renderCityRanks(w io.Writer, res Result, opts RenderOptions) error {
	rows := make([][]string, 0, len(res.CityRanks))
	for i, c := range res.CityRanks {
		rows = append(rows, []string{strconv.Itoa(i + 1), c.Location, FormatCount(c.Count)})
	}
	return renderRanks(w, "Cities", rows, opts)
}

func renderRanks(w io.Writer, title string, rows [][]string, opts RenderOptions) error {
	if len(rows) == 0 {
		return writeLines(w, heading(w, title, opts.Color), "None recorded.", "")
	}
	lines := formatTable([]string{"#", "Name", "Participants"}, rows, map[int]bool{0: true, 2: true})
	return writeLines(w, append(append([]string{heading(w, title, opts.Color)}, lines...), "")...)
}

// heading styles a section title. The renderer is bound to w with a fixed
// ANSI256 profile, so color only depends on the flag.
func heading(w io.Writer, title string, color bool) string {
	if !color {
		return title
	}
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(termenv.ANSI256)
	return r.NewStyle().Bold(true).Foreground(lipgloss.Color(headingColor)).Render(title)
}

func writeLines(w io.Writer, lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
