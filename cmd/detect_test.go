//go:build !integration

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
)

const gymPage = `<html><head>
<script src="https://js.callrail.com/group/0/swap.js"></script>
</head><body>
<div class="calendly-inline-widget" data-calendly-url="https://calendly.com/iron"></div>
</body></html>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runDetect(t *testing.T, html, reviews, name string) map[string]any {
	t.Helper()
	detectHTML, detectReviews, detectName, detectCharset = html, reviews, name, ""

	var buf bytes.Buffer
	detectCmd.SetOut(&buf)
	defer detectCmd.SetOut(nil)

	require.NoError(t, detectCmd.RunE(detectCmd, nil))

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())
	return out
}

func TestDetectCmd_Metadata(t *testing.T) {
	assert.Equal(t, "detect-ai", detectCmd.Use)
	for _, name := range []string{"html", "reviews", "name", "charset"} {
		assert.NotNil(t, detectCmd.Flags().Lookup(name), "detect-ai should have --%s flag", name)
	}
}

func TestDetectCmd_ProviderScript(t *testing.T) {
	cat = nil
	path := writeFile(t, t.TempDir(), "site.html", gymPage)

	out := runDetect(t, path, "", "Iron Temple Gym")
	assert.Equal(t, true, out["has_ai_receptionist"])
	assert.Equal(t, "CallRail", out["ai_provider"])
	assert.Equal(t, "high", out["ai_detection_confidence"])
}

func TestDetectCmd_ReviewsFile(t *testing.T) {
	cat = nil
	dir := t.TempDir()
	reviews := writeFile(t, dir, "reviews.txt", "Great classes.\n\n  A robot answered the phone when I called.  \n")

	out := runDetect(t, "", reviews, "")
	assert.Equal(t, true, out["has_ai_receptionist"])
	assert.Equal(t, "review_mention", out["ai_detection_method"])
	assert.Equal(t, "low", out["ai_detection_confidence"])
}

func TestDetectCmd_Stdin(t *testing.T) {
	cat = nil
	detectHTML, detectReviews, detectName, detectCharset = "-", "", "", ""
	detectCmd.SetIn(strings.NewReader(`<p>Our AI receptionist and virtual receptionist never sleep.</p>`))
	defer detectCmd.SetIn(nil)

	var buf bytes.Buffer
	detectCmd.SetOut(&buf)
	defer detectCmd.SetOut(nil)

	require.NoError(t, detectCmd.RunE(detectCmd, nil))
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "keyword_match", out["ai_detection_method"])
}

func TestDetectCmd_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	detectHTML, detectReviews, detectCharset = filepath.Join(dir, "missing.html"), "", ""
	err := detectCmd.RunE(detectCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect-ai: read html")

	detectHTML, detectReviews = "", filepath.Join(dir, "missing.txt")
	err = detectCmd.RunE(detectCmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "detect-ai: read reviews")
}

func TestBookingCmd(t *testing.T) {
	cat = nil
	bookingHTML, bookingCharset = writeFile(t, t.TempDir(), "site.html", gymPage), ""

	var buf bytes.Buffer
	bookingCmd.SetOut(&buf)
	defer bookingCmd.SetOut(nil)

	require.NoError(t, bookingCmd.RunE(bookingCmd, nil))
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "Calendly", out["booking_provider"])
	assert.Equal(t, "basic", out["booking_system_tier"])
	assert.Equal(t, true, out["booking_upgrade_opportunity"])
}

func TestBookingCmd_NoSite(t *testing.T) {
	cat = nil
	bookingHTML, bookingCharset = "", ""

	var buf bytes.Buffer
	bookingCmd.SetOut(&buf)
	defer bookingCmd.SetOut(nil)

	require.NoError(t, bookingCmd.RunE(bookingCmd, nil))
	assert.JSONEq(t, `{
		"booking_provider": null,
		"booking_system_tier": "none",
		"booking_system_gaps": [],
		"booking_upgrade_opportunity": false
	}`, buf.String())
}
