package signals

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-signals/internal/model"
)

// BatchStats summarizes one AnalyzeBatch call.
type BatchStats struct {
	Total              int           `json:"total"`
	Succeeded          int           `json:"succeeded"`
	Failed             int           `json:"failed"`
	AIDetected         int           `json:"ai_detected"`
	UpgradeLeads       int           `json:"upgrade_opportunities"`
	NoBooking          int           `json:"no_booking_system"`
	MonthlyRevenueLoss int           `json:"estimated_monthly_revenue_loss"`
	Elapsed            time.Duration `json:"elapsed_ns"`
}

// BatchResult pairs a business with its analysis or failure. Results keep the input
// order.
type BatchResult struct {
	Business model.Business
	Signals  *model.LeadSignals
	Err      error
}

// AnalyzeBatch analyzes businesses with at most concurrency in flight. A failing
// business is logged and counted but does not stop the others; cancelling ctx stops
// scheduling new work.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, businesses []model.Business, concurrency int) ([]BatchResult, BatchStats) {
	if concurrency < 1 {
		concurrency = 1
	}
	start := time.Now()
	a.metrics.ObserveBatch(len(businesses))

	zap.L().Info("signals: processing batch",
		zap.Int("businesses", len(businesses)),
		zap.Int("concurrency", concurrency),
	)

	results := make([]BatchResult, len(businesses))
	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, b := range businesses {
		results[i].Business = b
		if gctx.Err() != nil {
			results[i].Err = gctx.Err()
			failed.Add(1)
			continue
		}
		g.Go(func() error {
			ls, err := a.Analyze(gctx, b)
			if err != nil {
				failed.Add(1)
				results[i].Err = err
				zap.L().Error("signals: analysis failed",
					zap.String("business", b.Name),
					zap.Error(err),
				)
				return nil // don't abort batch on individual failure
			}
			succeeded.Add(1)
			results[i].Signals = ls
			return nil
		})
	}
	_ = g.Wait()

	stats := BatchStats{
		Total:     len(businesses),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
		Elapsed:   time.Since(start),
	}
	for _, r := range results {
		if r.Signals == nil {
			continue
		}
		if r.Signals.HasAIReceptionist {
			stats.AIDetected++
		}
		if r.Signals.UpgradeOpportunity {
			stats.UpgradeLeads++
		}
		if r.Signals.BookingDetection.Provider == nil {
			stats.NoBooking++
		}
		stats.MonthlyRevenueLoss += r.Signals.MonthlyRevenueLoss
	}

	zap.L().Info("signals: batch complete",
		zap.Int("total", stats.Total),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Int("ai_detected", stats.AIDetected),
		zap.Int("upgrade_opportunities", stats.UpgradeLeads),
		zap.Duration("elapsed", stats.Elapsed),
	)
	return results, stats
}

// Signals returns the successful analyses in input order.
func Signals(results []BatchResult) []*model.LeadSignals {
	out := make([]*model.LeadSignals, 0, len(results))
	for _, r := range results {
		if r.Signals != nil {
			out = append(out, r.Signals)
		}
	}
	return out
}
