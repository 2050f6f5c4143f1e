//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-signals/internal/config"
	"github.com/sells-group/lead-signals/internal/ingest"
)

const leadsCSV = `name,niche,review_count,hours_open_per_week,html_path
Iron Temple Gym,gym,100,84,gym.html
Quiet Dental,dental,3,,
Ghost Spa,spa,40,,missing.html
`

func setupAnalyze(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "gym.html", gymPage)
	input := writeFile(t, dir, "leads.csv", leadsCSV)

	cfg = &config.Config{Batch: config.BatchConfig{MaxConcurrent: 2}}
	cat = nil
	analyzeInput, analyzeConcurrency, analyzeLimit, analyzeOutput, analyzeFailed = input, 0, 0, "", ""

	analyzeCmd.SetContext(context.Background())
	t.Cleanup(func() {
		analyzeCmd.SetContext(context.TODO())
		analyzeCmd.SetOut(nil)
		analyzeCmd.SetErr(nil)
		cfg = nil
	})
	return dir
}

func TestAnalyzeCmd_Flags(t *testing.T) {
	for _, name := range []string{"input", "concurrency", "limit", "output", "failed"} {
		assert.NotNil(t, analyzeCmd.Flags().Lookup(name), "analyze should have --%s flag", name)
	}
}

func TestAnalyzeCmd_Stdout(t *testing.T) {
	setupAnalyze(t)

	var out, errOut bytes.Buffer
	analyzeCmd.SetOut(&out)
	analyzeCmd.SetErr(&errOut)

	require.NoError(t, analyzeCmd.RunE(analyzeCmd, nil))

	var records []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &records), out.String())
	require.Len(t, records, 2)

	assert.Equal(t, "Iron Temple Gym", records[0]["name"])
	assert.Equal(t, "html_file", records[0]["input_mode"])
	assert.Equal(t, "CallRail", records[0]["ai_provider"])
	assert.Equal(t, "Calendly", records[0]["booking_provider"])
	assert.Equal(t, 1538.0, records[0]["weekly_call_volume_estimate"])

	assert.Equal(t, "Quiet Dental", records[1]["name"])
	assert.Equal(t, "no_site", records[1]["input_mode"])

	assert.Contains(t, errOut.String(), `skipped "Ghost Spa"`)
}

func TestAnalyzeCmd_Limit(t *testing.T) {
	setupAnalyze(t)
	analyzeLimit = 1

	var out bytes.Buffer
	analyzeCmd.SetOut(&out)
	require.NoError(t, analyzeCmd.RunE(analyzeCmd, nil))

	var records []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &records))
	assert.Len(t, records, 1)
}

func TestAnalyzeCmd_OutputFile(t *testing.T) {
	for _, name := range []string{"signals.json", "signals.csv", "signals.xlsx"} {
		t.Run(name, func(t *testing.T) {
			dir := setupAnalyze(t)
			analyzeOutput = filepath.Join(dir, name)
			analyzeCmd.SetErr(&bytes.Buffer{})

			require.NoError(t, analyzeCmd.RunE(analyzeCmd, nil))

			info, err := os.Stat(analyzeOutput)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestAnalyzeCmd_FailedReplayFile(t *testing.T) {
	dir := setupAnalyze(t)
	analyzeFailed = filepath.Join(dir, "failed.json")
	analyzeCmd.SetOut(&bytes.Buffer{})
	analyzeCmd.SetErr(&bytes.Buffer{})

	require.NoError(t, analyzeCmd.RunE(analyzeCmd, nil))

	failed, err := ingest.LoadBusinesses(context.Background(), analyzeFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "Ghost Spa", failed[0].Name)
	assert.Equal(t, filepath.Join(dir, "missing.html"), failed[0].HTMLPath)
}

func TestAnalyzeCmd_AllFailed(t *testing.T) {
	dir := setupAnalyze(t)
	analyzeInput = writeFile(t, dir, "broken.csv", "name,html_path\nA,nope.html\nB,nope.html\n")
	analyzeCmd.SetOut(&bytes.Buffer{})
	analyzeCmd.SetErr(&bytes.Buffer{})

	err := analyzeCmd.RunE(analyzeCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 businesses failed")
}

func TestAnalyzeCmd_BadInput(t *testing.T) {
	dir := setupAnalyze(t)
	analyzeInput = writeFile(t, dir, "leads.txt", "name\nA\n")

	err := analyzeCmd.RunE(analyzeCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analyze: load input")
}
