// Package signals runs the AI, booking and call-volume analyzers over a business and
// merges their results into one lead record.
package signals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-signals/internal/aidetect"
	"github.com/sells-group/lead-signals/internal/booking"
	"github.com/sells-group/lead-signals/internal/callvolume"
	"github.com/sells-group/lead-signals/internal/catalog"
	"github.com/sells-group/lead-signals/internal/ingest"
	"github.com/sells-group/lead-signals/internal/metrics"
	"github.com/sells-group/lead-signals/internal/model"
)

// StageLoadHTML labels failures reading a business's saved page.
const StageLoadHTML = "load_html"

// HTMLLoader reads the page a business's HTMLPath points at.
type HTMLLoader func(path string) (string, error)

// Analyzer produces LeadSignals. It is safe for concurrent use.
type Analyzer struct {
	detector  *aidetect.Detector
	booking   *booking.Analyzer
	estimator *callvolume.Estimator
	metrics   *metrics.Recorder
	loadHTML  HTMLLoader
	now       func() time.Time
	newID     func() string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithMetrics records every analysis on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(a *Analyzer) { a.metrics = r }
}

// WithClock fixes the time source for AnalyzedAt and the AI detection timestamp.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithHTMLLoader replaces the file reader used for HTMLPath.
func WithHTMLLoader(fn HTMLLoader) Option {
	return func(a *Analyzer) { a.loadHTML = fn }
}

// WithIDs replaces the analysis ID generator.
func WithIDs(fn func() string) Option {
	return func(a *Analyzer) { a.newID = fn }
}

// New creates an Analyzer over c. A nil catalog means catalog.Default().
func New(c *catalog.Catalog, opts ...Option) *Analyzer {
	if c == nil {
		c = catalog.Default()
	}
	a := &Analyzer{
		loadHTML: ingest.ReadHTML,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.detector = aidetect.New(c, aidetect.WithClock(a.now))
	a.booking = booking.New(c)
	a.estimator = callvolume.New(c)
	return a
}

// Analyze runs all three analyzers over b. The only failure is an unreadable
// HTMLPath; the analyzers themselves always produce a result.
func (a *Analyzer) Analyze(ctx context.Context, b model.Business) (*model.LeadSignals, error) {
	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "signals: analyze")
	}
	start := time.Now()

	html := b.WebsiteHTML
	mode := b.InputMode()
	if mode == model.InputModeFile {
		loaded, err := a.loadHTML(b.HTMLPath)
		if err != nil {
			a.metrics.ObserveFailure(StageLoadHTML)
			return nil, eris.Wrapf(err, "signals: load html for %q", b.Name)
		}
		html = loaded
	}

	ai := a.detector.Detect(aidetect.Input{
		WebsiteHTML:  html,
		Reviews:      b.Reviews,
		BusinessName: b.Name,
	})
	bk := a.booking.Analyze(booking.Input{WebsiteHTML: html})
	est := a.estimator.Estimate(callvolume.Input{
		ReviewCount:       b.ReviewCount,
		Niche:             b.Niche,
		HoursOpenPerWeek:  b.HoursOpen(),
		AverageOrderValue: b.AverageOrderValue,
	})

	a.metrics.ObserveAI(ai)
	a.metrics.ObserveBooking(bk)
	a.metrics.ObserveEstimate(est)
	a.metrics.ObserveAnalysis(time.Since(start))

	zap.L().Debug("signals: analyzed",
		zap.String("business", b.Name),
		zap.String("input_mode", string(mode)),
		zap.Bool("ai_receptionist", ai.HasAIReceptionist),
		zap.String("booking_tier", string(bk.Tier)),
		zap.Int("weekly_calls", est.WeeklyCalls),
	)

	return &model.LeadSignals{
		AnalysisID:       a.newID(),
		AnalyzedAt:       a.now().UTC(),
		Name:             b.Name,
		Website:          b.Website,
		Niche:            b.Niche,
		ReviewCount:      b.ReviewCount,
		Rating:           b.Rating,
		InputMode:        mode,
		AIDetection:      ai,
		BookingDetection: bk,
		CallEstimate:     est,
	}, nil
}
