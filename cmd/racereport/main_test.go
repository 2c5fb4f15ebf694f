package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/racereport/internal/model"
)

const importFixture = `{
  "events": [
    {
      "name": "Bali Fun Run",
      "start_date": "2026-05-01",
      "registrations": [
        {"full_name": "Made", "gender": "Male", "nationality": "Indonesia", "district": "Kuta", "province": "Bali",
         "jersey_size": "M", "category": "5K", "ticket_type": "Early", "price": "100"},
        {"full_name": "Kenji", "gender": "Female", "nationality": "Japan", "jersey_size": "S",
         "category": "10K", "ticket_type": "Regular", "price": "200", "voucher_code": "HALF", "voucher_final_price": "150"},
        {"full_name": "Unpaid", "gender": "Male", "category": "5K", "ticket_type": "Early", "price": "100",
         "payment_status": "pending"}
      ]
    }
  ]
}`

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RACEREPORT_DB", filepath.Join(dir, "racereport.db"))
	t.Setenv("RACEREPORT_CONFIG", filepath.Join(dir, "config.toml"))
	t.Setenv("RACEREPORT_TZ", "")
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestImportAndJSONReport(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "import.json")
	require.NoError(t, os.WriteFile(path, []byte(importFixture), 0o644))

	_, err := runCLI(t, "import", path)
	require.NoError(t, err)

	out, err := runCLI(t, "events")
	require.NoError(t, err)
	assert.Contains(t, out, "Bali Fun Run")
	assert.True(t, strings.HasPrefix(out, "1\t2026-05-01\tOPEN"))

	out, err = runCLI(t, "report", "--event", "1", "--format", "json")
	require.NoError(t, err)

	var got struct {
		Event       string `json:"event"`
		GlobalStats struct {
			TotalParticipants int     `json:"total_participants"`
			TotalRevenue      float64 `json:"total_revenue"`
		} `json:"globalStats"`
		ChartData struct {
			Labels []string `json:"labels"`
		} `json:"chartData"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Bali Fun Run", got.Event)
	assert.Equal(t, 2, got.GlobalStats.TotalParticipants)
	assert.InDelta(t, 250, got.GlobalStats.TotalRevenue, 0.001)
	assert.Equal(t, []string{"Bali Fun Run: 5K - Early", "Bali Fun Run: 10K - Regular"}, got.ChartData.Labels)
}

func TestTextReportAndOverview(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "import.json")
	require.NoError(t, os.WriteFile(path, []byte(importFixture), 0o644))
	_, err := runCLI(t, "import", path)
	require.NoError(t, err)

	out, err := runCLI(t, "report", "--event", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Event Report: Bali Fun Run")
	assert.Contains(t, out, "Revenue: Rp 250")
	assert.Contains(t, out, "Kuta, Bali")

	out, err = runCLI(t, "overview")
	require.NoError(t, err)
	assert.Contains(t, out, "Bali Fun Run")
	assert.Contains(t, out, "10K - Regular")
}

func TestReportUnknownEvent(t *testing.T) {
	setupEnv(t)
	_, err := runCLI(t, "report", "--event", "42")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 42 does not exist")
}

func TestReportDefaultsToNewestEvent(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "import.json")
	require.NoError(t, os.WriteFile(path, []byte(importFixture), 0o644))
	_, err := runCLI(t, "import", path)
	require.NoError(t, err)
	_, err = runCLI(t, "seed", "--registrations", "5", "--name", "Later Run", "--seed", "1", "--start", "2026-12-01")
	require.NoError(t, err)

	out, err := runCLI(t, "report", "--format", "json")
	require.NoError(t, err)
	var got struct {
		Event string `json:"event"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Later Run", got.Event)
}

func TestReportWithoutEvents(t *testing.T) {
	setupEnv(t)
	out, err := runCLI(t, "report")
	require.NoError(t, err)
	assert.Contains(t, out, "(no event selected)")
	assert.Contains(t, out, "No paid registrations found.")
}

func TestReportConfigFile(t *testing.T) {
	dir := setupEnv(t)
	cfg := "[report]\nformat = \"json\"\nevent = 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(cfg), 0o644))

	_, err := runCLI(t, "report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "event 7 does not exist")
}

func TestSeedCreatesEvent(t *testing.T) {
	setupEnv(t)
	_, err := runCLI(t, "seed", "--registrations", "25", "--name", "Seeded Run", "--seed", "3", "--start", "2026-12-01")
	require.NoError(t, err)

	out, err := runCLI(t, "events")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-12-01\tOPEN\tSeeded Run")
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     model.ReportConfig
		wantErr bool
	}{
		{name: "defaults", cfg: model.ReportConfig{Format: formatText, CommunityLimit: 50}},
		{name: "json", cfg: model.ReportConfig{Format: formatJSON}},
		{name: "bad format", cfg: model.ReportConfig{Format: "xml"}, wantErr: true},
		{name: "negative limit", cfg: model.ReportConfig{CommunityLimit: -1}, wantErr: true},
		{name: "negative event", cfg: model.ReportConfig{EventID: -1}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestDecodeImportRejectsUnknownFields(t *testing.T) {
	_, err := decodeImport(strings.NewReader(`{"events": [{"name": "x", "bogus": 1}]}`))
	assert.Error(t, err)

	_, err = decodeImport(strings.NewReader(`{"events": []}`))
	assert.Error(t, err)
}

func TestDefaultConfigTemplate(t *testing.T) {
	assert.Contains(t, defaultConfigTemplate(), "[report]")
	assert.Contains(t, defaultConfigTemplate(), "Asia/Makassar")
}
