// Package main provides the CLI entrypoint for racereport.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Makassar must resolve on hosts without zoneinfo.

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/racereport/internal/config"
	"github.com/verte-zerg/racereport/internal/generator"
	"github.com/verte-zerg/racereport/internal/model"
	"github.com/verte-zerg/racereport/internal/report"
	"github.com/verte-zerg/racereport/internal/reportui"
	"github.com/verte-zerg/racereport/internal/store"
)

const (
	formatText = "text"
	formatJSON = "json"

	defaultSeedRegistrations = 200
	defaultSeedName          = "Sample Fun Run"
)

var (
	reportEvent          int64
	reportFormat         string
	reportTimezone       string
	reportCommunityLimit int
	reportColor          bool

	seedRegistrations int
	seedName          string
	seedStart         string
	seedValue         int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "racereport",
		Short:         "Race registration reports",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runBrowseCmd,
	}
	addReportFlags(rootCmd)

	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newOverviewCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newSeedCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&reportEvent, "event", 0, "event ID to report on")
	cmd.Flags().StringVar(&reportTimezone, "tz", model.DefaultTimezone, "time zone for the generated-at timestamp")
	cmd.Flags().IntVar(&reportCommunityLimit, "community-limit", model.DefaultCommunityRank, "number of communities to rank (0 keeps all)")
}

func runBrowseCmd(cmd *cobra.Command, _ []string) error {
	cfg, env, err := resolveReportConfig(cmd)
	if err != nil {
		return err
	}
	loc, err := report.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	st, err := openStore(env)
	if err != nil {
		return err
	}
	defer closeStore(st)

	m := reportui.NewModel(st, cfg, loc)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run report browser: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the report of one event",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	addReportFlags(cmd)
	cmd.Flags().StringVar(&reportFormat, "format", model.DefaultReportFormat, "output format: text or json")
	cmd.Flags().BoolVar(&reportColor, "color", false, "force colored headings")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	cfg, env, err := resolveReportConfig(cmd)
	if err != nil {
		return err
	}
	loc, err := report.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	st, err := openStore(env)
	if err != nil {
		return err
	}
	defer closeStore(st)

	if cfg.EventID == 0 {
		events, err := st.ListEvents(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}
		if len(events) == 0 {
			logErrln("No events found. Import with: racereport import FILE, or try: racereport seed")
		} else {
			cfg.EventID = events[0].ID
		}
	}
	opts := report.Options{CommunityLimit: cfg.CommunityLimit}
	rep, err := report.Build(cmd.Context(), st, cfg.EventID, opts, time.Now(), loc)
	if err != nil {
		if errors.Is(err, store.ErrEventNotFound) {
			return fmt.Errorf("event %d does not exist (see: racereport events)", cfg.EventID)
		}
		return err
	}
	return writeReport(cmd.OutOrStdout(), rep, cfg)
}

func writeReport(w io.Writer, rep report.Report, cfg model.ReportConfig) error {
	if cfg.Format == formatJSON {
		if err := report.WriteJSON(w, rep); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		return nil
	}
	opts := report.RenderOptions{Color: report.ShouldUseColor(w, cfg.Color)}
	if err := report.RenderText(w, rep, opts); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List events",
		Args:  cobra.NoArgs,
		RunE:  runEventsCmd,
	}
}

func runEventsCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	st, err := openStore(env)
	if err != nil {
		return err
	}
	defer closeStore(st)

	events, err := st.ListEvents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}
	if len(events) == 0 {
		logErrln("No events found. Import with: racereport import FILE, or try: racereport seed")
		return nil
	}
	return writeEvents(cmd.OutOrStdout(), events)
}

func writeEvents(w io.Writer, events []model.Event) error {
	for _, ev := range events {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", ev.ID, ev.StartDate.Format("2006-01-02"), ev.Status, ev.Name); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newOverviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show revenue and participants of open events",
		Args:  cobra.NoArgs,
		RunE:  runOverviewCmd,
	}
	cmd.Flags().BoolVar(&reportColor, "color", false, "force colored headings")
	return cmd
}

func runOverviewCmd(cmd *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	st, err := openStore(env)
	if err != nil {
		return err
	}
	defer closeStore(st)

	regs, err := st.ListPaidRegistrationsForOpenEvents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load registrations: %w", err)
	}
	out := cmd.OutOrStdout()
	return report.RenderOverview(out, report.Overview(regs), report.ShouldUseColor(out, reportColor))
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import events and registrations from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	file, err := readImportFile(args[0])
	if err != nil {
		return err
	}
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	st, err := openStore(env)
	if err != nil {
		return err
	}
	defer closeStore(st)

	for _, ev := range file.Events {
		id, err := st.ImportEvent(cmd.Context(), ev)
		if err != nil {
			return fmt.Errorf("failed to import event %q: %w", ev.Name, err)
		}
		logErrf("Imported event %d %q (%d registrations)\n", id, ev.Name, len(ev.Registrations))
	}
	return nil
}

func readImportFile(path string) (model.ImportFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ImportFile{}, fmt.Errorf("failed to open import file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close on read.
			_ = cerr
		}
	}()
	return decodeImport(f)
}

func decodeImport(r io.Reader) (model.ImportFile, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var file model.ImportFile
	if err := dec.Decode(&file); err != nil {
		return model.ImportFile{}, fmt.Errorf("failed to decode import file: %w", err)
	}
	if len(file.Events) == 0 {
		return model.ImportFile{}, fmt.Errorf("import file contains no events")
	}
	return file, nil
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a sample event with generated registrations",
		Args:  cobra.NoArgs,
		RunE:  runSeedCmd,
	}
	cmd.Flags().IntVar(&seedRegistrations, "registrations", defaultSeedRegistrations, "number of registrations")
	cmd.Flags().StringVar(&seedName, "name", defaultSeedName, "event name")
	cmd.Flags().StringVar(&seedStart, "start", "", "event start date (YYYY-MM-DD, default: in 30 days)")
	cmd.Flags().Int64Var(&seedValue, "seed", 0, "random seed (0 picks one)")
	return cmd
}

func runSeedCmd(cmd *cobra.Command, _ []string) error {
	if seedRegistrations <= 0 {
		return fmt.Errorf("--registrations must be > 0")
	}
	if strings.TrimSpace(seedName) == "" {
		return fmt.Errorf("--name must not be empty")
	}
	start := time.Now().AddDate(0, 0, 30)
	if seedStart != "" {
		parsed, err := time.ParseInLocation("2006-01-02", seedStart, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --start value: %w", err)
		}
		start = parsed
	}

	gen := generator.New()
	if seedValue != 0 {
		gen = generator.NewWithSeed(seedValue)
	}
	opts := generator.DefaultOptions()
	opts.Registrations = seedRegistrations
	ev := gen.Event(seedName, start, generator.DefaultTickets, opts)

	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	st, err := openStore(env)
	if err != nil {
		return err
	}
	defer closeStore(st)

	id, err := st.ImportEvent(cmd.Context(), ev)
	if err != nil {
		return fmt.Errorf("failed to seed event: %w", err)
	}
	logErrf("Created event %d %q with %d registrations\n", id, ev.Name, len(ev.Registrations))
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	env, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	path := env.ResolveConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// resolveReportConfig merges defaults, the config file, the environment and
// explicit flags, in increasing order of precedence.
func resolveReportConfig(cmd *cobra.Command) (model.ReportConfig, config.Env, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return model.ReportConfig{}, config.Env{}, fmt.Errorf("failed to load environment: %w", err)
	}
	fileCfg, err := config.LoadConfig(env.ResolveConfigPath())
	if err != nil {
		return model.ReportConfig{}, config.Env{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyInt64Config(cmd, "event", &reportEvent, fileCfg.Report.Event)
	applyStringConfig(cmd, "tz", &reportTimezone, fileCfg.Report.Timezone)
	applyStringConfig(cmd, "format", &reportFormat, fileCfg.Report.Format)
	applyIntConfig(cmd, "community-limit", &reportCommunityLimit, fileCfg.Report.CommunityLimit)
	applyBoolConfig(cmd, "color", &reportColor, fileCfg.Report.Color)
	if env.Timezone != "" {
		applyStringConfig(cmd, "tz", &reportTimezone, &env.Timezone)
	}

	cfg := model.ReportConfig{
		EventID:        reportEvent,
		Timezone:       reportTimezone,
		Format:         reportFormat,
		CommunityLimit: reportCommunityLimit,
		Color:          reportColor,
	}
	if err := validateConfig(cfg); err != nil {
		return model.ReportConfig{}, config.Env{}, err
	}
	return cfg, env, nil
}

func validateConfig(cfg model.ReportConfig) error {
	if cfg.EventID < 0 {
		return fmt.Errorf("--event must be >= 0")
	}
	switch cfg.Format {
	case "", formatText, formatJSON:
	default:
		return fmt.Errorf("--format must be %q or %q", formatText, formatJSON)
	}
	if cfg.CommunityLimit < 0 {
		return fmt.Errorf("--community-limit must be >= 0")
	}
	return nil
}

func openStore(env config.Env) (*store.Store, error) {
	st, err := store.Open(env.ResolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Lookup(name) == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# racereport configuration
# Uncomment a value to enable it. CLI flags override config values.

[report]
# event = 1                  # Event ID shown by default
# timezone = %q   # Time zone of the generated-at timestamp
# format = %q              # Output of "racereport report": text or json
# community-limit = %d       # Number of communities to rank (0 keeps all)
# color = false              # Force colored headings
`,
		model.DefaultTimezone,
		model.DefaultReportFormat,
		model.DefaultCommunityRank,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
