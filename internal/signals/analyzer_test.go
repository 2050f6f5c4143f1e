package signals

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-signals/internal/aidetect"
	"github.com/sells-group/lead-signals/internal/callvolume"
	"github.com/sells-group/lead-signals/internal/catalog"
	"github.com/sells-group/lead-signals/internal/metrics"
	"github.com/sells-group/lead-signals/internal/model"
)

var fixedNow = time.Date(2025, 6, 2, 15, 4, 5, 0, time.UTC)

const gymPage = `<html><head>
<script src="https://js.callrail.com/group/0/swap.js"></script>
<script>window.calendlyConfig = '<div class="calendly-inline-widget"></div>';</script>
</head><body>
<div class="calendly-inline-widget" data-calendly-url="https://calendly.com/iron"></div>
</body></html>`

func newTestAnalyzer(t *testing.T, opts ...Option) *Analyzer {
	t.Helper()
	var seq atomic.Int64
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDs(func() string { return fmt.Sprintf("id-%d", seq.Add(1)) }),
	}
	return New(nil, append(base, opts...)...)
}

func fp(v float64) *float64 { return &v }

func TestAnalyze_Inline(t *testing.T) {
	rec := metrics.New()
	a := newTestAnalyzer(t, WithMetrics(rec))

	ls, err := a.Analyze(context.Background(), model.Business{
		Name:             "Iron Temple",
		Website:          "https://iron.test",
		Niche:            "gym",
		ReviewCount:      100,
		Rating:           fp(4.8),
		WebsiteHTML:      gymPage,
		HoursOpenPerWeek: fp(84),
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", ls.AnalysisID)
	assert.Equal(t, fixedNow, ls.AnalyzedAt)
	assert.Equal(t, model.InputModeInline, ls.InputMode)
	assert.Equal(t, "Iron Temple", ls.Name)

	assert.True(t, ls.HasAIReceptionist)
	assert.Equal(t, "CallRail", ls.AIDetection.ProviderName())
	assert.Equal(t, aidetect.MethodProviderScript, ls.Method)
	assert.Equal(t, fixedNow, ls.Metadata.AIDetection.DetectedAt)

	assert.Equal(t, "Calendly", ls.BookingDetection.ProviderName())
	assert.Equal(t, catalog.TierBasic, ls.Tier)
	assert.True(t, ls.UpgradeOpportunity)

	assert.Equal(t, 1538, ls.WeeklyCalls)
	assert.Equal(t, callvolume.ConfidenceHigh, ls.CallEstimate.Confidence)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.AIDetections.WithLabelValues("provider_script", "CallRail")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.BookingDetections.WithLabelValues("basic", "Calendly")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.CallEstimates.WithLabelValues("high")))
}

func TestAnalyze_HTMLFile(t *testing.T) {
	var loaded string
	a := newTestAnalyzer(t, WithHTMLLoader(func(path string) (string, error) {
		loaded = path
		return `<iframe src="https://mindbodyonline.com/widget/book"></iframe>`, nil
	}))

	ls, err := a.Analyze(context.Background(), model.Business{Name: "Glow Spa", Niche: "spa", ReviewCount: 3, HTMLPath: "/pages/glow.html"})
	require.NoError(t, err)
	assert.Equal(t, "/pages/glow.html", loaded)
	assert.Equal(t, model.InputModeFile, ls.InputMode)
	assert.Equal(t, "Mindbody", ls.BookingDetection.ProviderName())
	assert.False(t, ls.UpgradeOpportunity)
	assert.Equal(t, callvolume.ConfidenceLow, ls.CallEstimate.Confidence)
	assert.Contains(t, ls.Methodology, "Insufficient review data")
}

func TestAnalyze_HTMLFileError(t *testing.T) {
	rec := metrics.New()
	a := newTestAnalyzer(t, WithMetrics(rec), WithHTMLLoader(func(string) (string, error) {
		return "", errors.New("disk on fire")
	}))

	_, err := a.Analyze(context.Background(), model.Business{Name: "Ghost", HTMLPath: "missing.html"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.AnalysisFailures.WithLabelValues(StageLoadHTML)))
}

func TestAnalyze_NoSite(t *testing.T) {
	a := newTestAnalyzer(t)
	ls, err := a.Analyze(context.Background(), model.Business{
		Name:        "Corner Barber",
		Niche:       "barber",
		ReviewCount: 30,
		Reviews:     []string{"Nice cut", "A robot answered the phone when I called"},
		OpeningPeriods: []callvolume.OpeningPeriod{
			{Open: callvolume.DayTime{Day: 0, Time: "0000"}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.InputModeNoSite, ls.InputMode)
	assert.True(t, ls.HasAIReceptionist)
	assert.Equal(t, aidetect.MethodReviewMention, ls.Method)
	assert.Nil(t, ls.AIDetection.Provider)
	assert.Equal(t, catalog.TierNone, ls.Tier)
	assert.Zero(t, ls.AfterHoursCalls)
}

func TestAnalyze_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestAnalyzer(t).Analyze(ctx, model.Business{Name: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze_DefaultIDs(t *testing.T) {
	a := New(nil)
	first, err := a.Analyze(context.Background(), model.Business{Name: "a"})
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), model.Business{Name: "a"})
	require.NoError(t, err)
	assert.Len(t, first.AnalysisID, 36)
	assert.NotEqual(t, first.AnalysisID, second.AnalysisID)
}
