package report

import (
	"github.com/verte-zerg/racereport/internal/model"
)

// GenderCount splits a population by gender.
type GenderCount struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

// NationalityCount splits a population by nationality.
type NationalityCount struct {
	Indonesian int `json:"indonesian"`
	Foreigner  int `json:"foreigner"`
}

// GlobalStats summarizes every registration of the event.
type GlobalStats struct {
	TotalParticipants int              `json:"total_participants"`
	TotalRevenue      float64          `json:"total_revenue"`
	Gender            GenderCount      `json:"gender"`
	Nationality       NationalityCount `json:"nationality"`
}

// ChartData holds parallel series in canonical ticket order.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Values   []int     `json:"values"`
	Revenues []float64 `json:"revenues"`
}

// TicketStats summarizes one ticket group.
type TicketStats struct {
	Label        string      `json:"label"`
	Participants int         `json:"participants"`
	Revenue      float64     `json:"revenue"`
	Gender       GenderCount `json:"gender"`
	JerseySizes  []SizeCount `json:"jersey_sizes"`
}

// JerseyRow is one row of the jersey pivot table. Cells line up with
// JerseyTable.TicketTypes.
type JerseyRow struct {
	Size   string `json:"size"`
	Cells  []int  `json:"cells"`
	Totals int    `json:"totals"`
}

// JerseyTable pivots jersey sizes against ticket types. The last data row is the
// "Total" row.
type JerseyTable struct {
	Sizes       []string    `json:"sizes"`
	TicketTypes []string    `json:"ticketTypes"`
	Data        []JerseyRow `json:"data"`
}

// Cell returns the count for a size row and ticket type column.
func (t JerseyTable) Cell(size, ticketType string) int {
	col := -1
	for i, tt := range t.TicketTypes {
		if tt == ticketType {
			col = i
			break
		}
	}
	if col < 0 {
		return 0
	}
	for _, row := range t.Data {
		if row.Size == size && col < len(row.Cells) {
			return row.Cells[col]
		}
	}
	return 0
}

// GenderNationalityRow is one ticket type of the gender/nationality table.
type GenderNationalityRow struct {
	TicketType string `json:"ticketType"`
	Male       int    `json:"male"`
	Female     int    `json:"female"`
	Foreigner  int    `json:"foreigner"`
}

// ComputeGlobalStats counts participants, revenue, gender and nationality.
func ComputeGlobalStats(regs []model.Registration) GlobalStats {
	stats := GlobalStats{
		TotalParticipants: len(regs),
		TotalRevenue:      money(sumPrices(regs)),
		Gender:            countGender(regs),
	}
	for _, r := range regs {
		if r.Nationality == model.DomesticNationality {
			stats.Nationality.Indonesian++
		}
		if isForeigner(r) {
			stats.Nationality.Foreigner++
		}
	}
	return stats
}

// ComputeChartData returns label, count and revenue per ticket group.
func ComputeChartData(grouped Grouped) ChartData {
	data := ChartData{
		Labels:   make([]string, 0, grouped.Len()),
		Values:   make([]int, 0, grouped.Len()),
		Revenues: make([]float64, 0, grouped.Len()),
	}
	for _, group := range grouped.Groups {
		data.Labels = append(data.Labels, group.Label)
		data.Values = append(data.Values, len(group.Registrations))
		data.Revenues = append(data.Revenues, money(sumPrices(group.Registrations)))
	}
	return data
}

// ComputePerTicketStats summarizes each ticket group. The jersey histogram is
// keyed by the raw size, so registrations without a size are counted under "".
func ComputePerTicketStats(grouped Grouped) []TicketStats {
	out := make([]TicketStats, 0, grouped.Len())
	for _, group := range grouped.Groups {
		sizes := newSizeHistogram()
		for _, r := range group.Registrations {
			sizes.add(r.JerseySize)
		}
		out = append(out, TicketStats{
			Label:        group.Label,
			Participants: len(group.Registrations),
			Revenue:      money(sumPrices(group.Registrations)),
			Gender:       countGender(group.Registrations),
			JerseySizes:  sizes.sorted(),
		})
	}
	return out
}

// ComputeJerseyTable pivots jersey sizes (rows, ranked) against ticket groups
// (columns, canonical order), with a totals column and a trailing "Total" row.
// The table is empty when there are no sizes or no ticket groups.
func ComputeJerseyTable(regs []model.Registration, grouped Grouped) JerseyTable {
	sizes := distinctSizes(regs)
	ticketTypes := grouped.Labels()
	if len(sizes) == 0 || len(ticketTypes) == 0 {
		return JerseyTable{Sizes: []string{}, TicketTypes: []string{}, Data: []JerseyRow{}}
	}

	perGroup := make([]map[string]int, len(grouped.Groups))
	sized := make([]int, len(grouped.Groups))
	for i, group := range grouped.Groups {
		counts := map[string]int{}
		for _, r := range group.Registrations {
			counts[r.JerseySize]++
			if !isBlank(r.JerseySize) {
				sized[i]++
			}
		}
		perGroup[i] = counts
	}

	data := make([]JerseyRow, 0, len(sizes)+1)
	for _, size := range sizes {
		row := JerseyRow{Size: size, Cells: make([]int, len(ticketTypes))}
		for i := range grouped.Groups {
			row.Cells[i] = perGroup[i][size]
			row.Totals += row.Cells[i]
		}
		data = append(data, row)
	}

	total := JerseyRow{Size: totalRowLabel, Cells: make([]int, len(ticketTypes))}
	for i := range grouped.Groups {
		total.Cells[i] = sized[i]
		total.Totals += sized[i]
	}
	data = append(data, total)

	return JerseyTable{Sizes: sizes, TicketTypes: ticketTypes, Data: data}
}

// ComputeGenderNationalityTable returns male, female and foreigner counts per
// ticket group followed by a "Total" row.
func ComputeGenderNationalityTable(grouped Grouped) []GenderNationalityRow {
	out := make([]GenderNationalityRow, 0, grouped.Len()+1)
	total := GenderNationalityRow{TicketType: totalRowLabel}
	for _, group := range grouped.Groups {
		gender := countGender(group.Registrations)
		row := GenderNationalityRow{
			TicketType: group.Label,
			Male:       gender.Male,
			Female:     gender.Female,
		}
		for _, r := range group.Registrations {
			if isForeigner(r) {
				row.Foreigner++
			}
		}
		total.Male += row.Male
		total.Female += row.Female
		total.Foreigner += row.Foreigner
		out = append(out, row)
	}
	return append(out, total)
}

func countGender(regs []model.Registration) GenderCount {
	var gc GenderCount
	for _, r := range regs {
		switch r.Gender {
		case model.GenderMale:
			gc.Male++
		case model.GenderFemale:
			gc.Female++
		}
	}
	return gc
}

func isForeigner(r model.Registration) bool {
	return r.Nationality != "" && r.Nationality != model.DomesticNationality
}

func distinctSizes(regs []model.Registration) []string {
	seen := map[string]struct{}{}
	sizes := make([]string, 0)
	for _, r := range regs {
		if isBlank(r.JerseySize) {
			continue
		}
		if _, ok := seen[r.JerseySize]; ok {
			continue
		}
		seen[r.JerseySize] = struct{}{}
		sizes = append(sizes, r.JerseySize)
	}
	return rankSizes(sizes)
}
