package report

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/racereport/internal/model"
)

// GeneratedAtLayout formats the report timestamp, e.g.
// "Saturday, 18 October 2026 : 14.05 WITA".
const GeneratedAtLayout = "Monday, 02 January 2006 : 15.04 MST"

// Options tunes report computation.
type Options struct {
	CommunityLimit int
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{CommunityLimit: DefaultCommunityLimit}
}

// Result contains every facet of the event report.
type Result struct {
	GlobalStats            GlobalStats            `json:"globalStats"`
	ChartData              ChartData              `json:"chartData"`
	PerTicketStats         []TicketStats          `json:"perTicketStats"`
	CommunityRanks         []CommunityRank        `json:"communityRanks"`
	CityRanks              []CityRank             `json:"cityRanks"`
	JerseyStats            []CategoryJersey       `json:"jerseyStats"`
	JerseyTable            JerseyTable            `json:"jerseyTable"`
	GenderNationalityTable []GenderNationalityRow `json:"genderNationalityTable"`
}

// Compute builds the full report from a set of paid registrations. The input is
// not modified and the same input always yields an identical result.
func Compute(regs []model.Registration, opts Options) Result {
	grouped := GroupByTicketLabel(regs)
	return Result{
		GlobalStats:            ComputeGlobalStats(regs),
		ChartData:              ComputeChartData(grouped),
		PerTicketStats:         ComputePerTicketStats(grouped),
		CommunityRanks:         CommunityRanks(regs, opts.CommunityLimit),
		CityRanks:              CityRanks(regs),
		JerseyStats:            JerseyStats(regs),
		JerseyTable:            ComputeJerseyTable(regs, grouped),
		GenderNationalityTable: ComputeGenderNationalityTable(grouped),
	}
}

// Empty returns the report shown when no event is selected.
func Empty() Result {
	return Result{
		ChartData:              ChartData{Labels: []string{}, Values: []int{}, Revenues: []float64{}},
		PerTicketStats:         []TicketStats{},
		CommunityRanks:         []CommunityRank{},
		CityRanks:              []CityRank{},
		JerseyStats:            []CategoryJersey{},
		JerseyTable:            JerseyTable{Sizes: []string{}, TicketTypes: []string{}, Data: []JerseyRow{}},
		GenderNationalityTable: []GenderNationalityRow{},
	}
}

// IsEmpty reports whether the result covers no registrations.
func (r Result) IsEmpty() bool {
	return r.GlobalStats.TotalParticipants == 0
}

// Report wraps a result with the event it describes, for printing.
type Report struct {
	Event       model.Event `json:"-"`
	EventName   string      `json:"event"`
	GeneratedAt string      `json:"reportGeneratedAt"`
	Result
}

// Source loads the data a report is built from.
type Source interface {
	GetEvent(ctx context.Context, id int64) (model.Event, error)
	ListPaidRegistrations(ctx context.Context, eventID int64) ([]model.Registration, error)
}

// Build loads an event's paid registrations and computes its report. An event ID
// of 0 yields the empty report.
func Build(ctx context.Context, src Source, eventID int64, opts Options, now time.Time, loc *time.Location) (Report, error) {
	rep := Report{GeneratedAt: FormatGeneratedAt(now, loc)}
	if eventID == 0 {
		rep.Result = Empty()
		return rep, nil
	}
	event, err := src.GetEvent(ctx, eventID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load event %d: %w", eventID, err)
	}
	regs, err := src.ListPaidRegistrations(ctx, eventID)
	if err != nil {
		return Report{}, fmt.Errorf("failed to load registrations: %w", err)
	}
	rep.Event = event
	rep.EventName = event.Name
	rep.Result = Compute(regs, opts)
	return rep, nil
}

// FormatGeneratedAt renders the report timestamp in the given location.
func FormatGeneratedAt(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(GeneratedAtLayout)
}

// LoadLocation resolves a time zone name, defaulting to Asia/Makassar.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = model.DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}
