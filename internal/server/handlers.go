package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/sells-group/lead-signals/internal/aidetect"
	"github.com/sells-group/lead-signals/internal/booking"
	"github.com/sells-group/lead-signals/internal/callvolume"
	"github.com/sells-group/lead-signals/internal/catalog"
	"github.com/sells-group/lead-signals/internal/model"
	"github.com/sells-group/lead-signals/internal/signals"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decode reads a JSON body into v, writing the error response itself on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type catalogProvider struct {
	Name string       `json:"name"`
	Tier catalog.Tier `json:"tier,omitempty"`
	Gaps []string     `json:"gaps,omitempty"`
}

type catalogResponse struct {
	Version          int                 `json:"version"`
	AIProviders      []catalogProvider   `json:"ai_providers"`
	BookingProviders []catalogProvider   `json:"booking_providers"`
	Benchmarks       []catalog.Benchmark `json:"benchmarks"`
	DefaultBenchmark catalog.Benchmark   `json:"default_benchmark"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	resp := catalogResponse{
		Version:          s.catalog.Version,
		Benchmarks:       s.catalog.Benchmarks,
		DefaultBenchmark: s.catalog.DefaultBenchmark,
	}
	for _, p := range s.catalog.AIProviders {
		resp.AIProviders = append(resp.AIProviders, catalogProvider{Name: p.Name})
	}
	for _, p := range s.catalog.BookingProviders {
		resp.BookingProviders = append(resp.BookingProviders, catalogProvider{Name: p.Name, Tier: p.Tier, Gaps: p.Gaps})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAIDetection(w http.ResponseWriter, r *http.Request) {
	var in aidetect.Input
	if !decode(w, r, &in) {
		return
	}
	res := s.detector.Detect(in)
	s.metrics.ObserveAI(res)
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleBookingDetection(w http.ResponseWriter, r *http.Request) {
	var in booking.Input
	if !decode(w, r, &in) {
		return
	}
	res := s.booking.Analyze(in)
	s.metrics.ObserveBooking(res)
	writeJSON(w, http.StatusOK, res)
}

type callEstimateRequest struct {
	ReviewCount       *int     `json:"review_count"`
	Niche             *string  `json:"niche"`
	HoursOpenPerWeek  *float64 `json:"hours_open_per_week"`
	AverageOrderValue *float64 `json:"average_order_value"`
}

func (s *Server) handleCallEstimate(w http.ResponseWriter, r *http.Request) {
	var req callEstimateRequest
	if !decode(w, r, &req) {
		return
	}
	if req.ReviewCount == nil {
		writeError(w, http.StatusBadRequest, "review_count is required")
		return
	}
	if req.Niche == nil {
		writeError(w, http.StatusBadRequest, "niche is required")
		return
	}

	res := s.estimator.Estimate(callvolume.Input{
		ReviewCount:       *req.ReviewCount,
		Niche:             *req.Niche,
		HoursOpenPerWeek:  req.HoursOpenPerWeek,
		AverageOrderValue: req.AverageOrderValue,
	})
	s.metrics.ObserveEstimate(res)
	writeJSON(w, http.StatusOK, res)
}

// checkBusiness rejects fields the HTTP surface does not honour.
func checkBusiness(b model.Business) string {
	if b.Name == "" {
		return "name is required"
	}
	if b.HTMLPath != "" {
		return "html_path is not accepted over HTTP; send website_html"
	}
	return ""
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var b model.Business
	if !decode(w, r, &b) {
		return
	}
	if msg := checkBusiness(b); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	ls, err := s.analyzer.Analyze(r.Context(), b)
	if err != nil {
		zap.L().Error("server: analyze failed", zap.String("business", b.Name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

type batchItem struct {
	Name    string             `json:"name"`
	Signals *model.LeadSignals `json:"signals,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchItem        `json:"results"`
	Stats   signals.BatchStats `json:"stats"`
}

func (s *Server) handleAnalyzeBatch(w http.ResponseWriter, r *http.Request) {
	var businesses []model.Business
	if !decode(w, r, &businesses) {
		return
	}
	if len(businesses) > MaxBatchSize {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("batch exceeds %d businesses", MaxBatchSize))
		return
	}
	for i, b := range businesses {
		if msg := checkBusiness(b); msg != "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("business %d: %s", i, msg))
			return
		}
	}

	results, stats := s.analyzer.AnalyzeBatch(r.Context(), businesses, s.concurrency)
	resp := batchResponse{Results: make([]batchItem, len(results)), Stats: stats}
	for i, res := range results {
		if res.Err != nil {
			resp.Results[i] = batchItem{Name: res.Business.Name, Error: res.Err.Error()}
			continue
		}
		resp.Results[i] = batchItem{Name: res.Business.Name, Signals: res.Signals}
	}
	writeJSON(w, http.StatusOK, resp)
}
