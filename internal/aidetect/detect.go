// Package aidetect decides whether a business already runs an AI voice agent or
// receptionist, so outreach is not wasted on it.
//
// Detection is a cascade of strategies tried in order of confidence; the first one
// that produces evidence decides the result:
//
//  1. provider_script (high): an AI vendor's embed signature in the page markup.
//  2. keyword_match (medium): two or more distinct AI marketing phrases in the page
//     or business name.
//  3. review_mention (low): customer reviews describing an automated answerer.
package aidetect

import (
	"fmt"
	"strings"
	"time"

	"github.com/sells-group/lead-signals/internal/catalog"
	"github.com/sells-group/lead-signals/internal/sanitize"
)

// MetadataVersion is stamped into every result's enrichment metadata.
const MetadataVersion = 1

// minKeywordMatches is the number of distinct keywords the keyword tier requires.
const minKeywordMatches = 2

// Confidence grades a detection.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
	ConfidenceNone   Confidence = "none"
)

// Method names the strategy that produced a detection.
type Method string

const (
	MethodProviderScript Method = "provider_script"
	MethodKeywordMatch   Method = "keyword_match"
	MethodReviewMention  Method = "review_mention"
	MethodNone           Method = "none"
)

// Input is what the detector looks at for one business.
type Input struct {
	WebsiteHTML  string   `json:"website_html"`
	Reviews      []string `json:"reviews,omitempty"`
	BusinessName string   `json:"business_name,omitempty"`
}

// Result is the AI receptionist detection outcome.
type Result struct {
	HasAIReceptionist bool       `json:"has_ai_receptionist"`
	Provider          *string    `json:"ai_provider"`
	Confidence        Confidence `json:"ai_detection_confidence"`
	Method            Method     `json:"ai_detection_method"`
	Signals           []string   `json:"ai_detection_signals"`
	Metadata          Metadata   `json:"enrichment_metadata"`
}

// Metadata wraps detection bookkeeping under the key the lead record expects.
type Metadata struct {
	AIDetection DetectionMetadata `json:"ai_detection"`
}

// DetectionMetadata records when and with which ruleset a detection ran.
type DetectionMetadata struct {
	Version    int       `json:"version"`
	DetectedAt time.Time `json:"detected_at"`
}

// ProviderName returns the detected provider or "".
func (r Result) ProviderName() string {
	if r.Provider == nil {
		return ""
	}
	return *r.Provider
}

// hit is the evidence one strategy found.
type hit struct {
	provider string
	signal   string
}

// evidence is the per-call view shared by all strategies.
type evidence struct {
	input   Input
	cleaned string
}

type strategy struct {
	method     Method
	confidence Confidence
	find       func(c *catalog.Catalog, ev *evidence) (hit, bool)
}

// cascade is evaluated in order; the first strategy with a hit wins.
var cascade = []strategy{
	{MethodProviderScript, ConfidenceHigh, findProviderScript},
	{MethodKeywordMatch, ConfidenceMedium, findKeywords},
	{MethodReviewMention, ConfidenceLow, findReviewMentions},
}

// Detector runs the detection cascade against a catalog.
type Detector struct {
	catalog *catalog.Catalog
	now     func() time.Time
}

// Option configures a Detector.
type Option func(*Detector)

// WithClock overrides the time source used for DetectedAt.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) { d.now = now }
}

// New creates a Detector over c. A nil catalog means catalog.Default().
func New(c *catalog.Catalog, opts ...Option) *Detector {
	if c == nil {
		c = catalog.Default()
	}
	d := &Detector{catalog: c, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var std = New(nil)

// Detect runs the default detector.
func Detect(in Input) Result {
	return std.Detect(in)
}

// Detect classifies one business. It never fails; malformed HTML only lowers recall.
func (d *Detector) Detect(in Input) Result {
	ev := &evidence{input: in, cleaned: sanitize.HTML(in.WebsiteHTML)}

	res := Result{
		Confidence: ConfidenceNone,
		Method:     MethodNone,
		Signals:    []string{},
		Metadata: Metadata{AIDetection: DetectionMetadata{
			Version:    MetadataVersion,
			DetectedAt: d.now().UTC(),
		}},
	}

	for _, s := range cascade {
		h, ok := s.find(d.catalog, ev)
		if !ok {
			continue
		}
		res.HasAIReceptionist = true
		res.Confidence = s.confidence
		res.Method = s.method
		res.Signals = append(res.Signals, h.signal)
		if h.provider != "" {
			provider := h.provider
			res.Provider = &provider
		}
		break
	}

	return res
}

func findProviderScript(c *catalog.Catalog, ev *evidence) (hit, bool) {
	m, ok := catalog.FirstMatch(c.AIProviders, catalog.ParseDocument(ev.cleaned))
	if !ok {
		return hit{}, false
	}
	return hit{
		provider: m.Provider.Name,
		signal:   fmt.Sprintf("%s script found", m.Provider.Name),
	}, true
}

func findKeywords(c *catalog.Catalog, ev *evidence) (hit, bool) {
	matches := c.Keywords().Distinct(ev.cleaned + " " + ev.input.BusinessName)
	if len(matches) < minKeywordMatches {
		return hit{}, false
	}
	return hit{
		signal: fmt.Sprintf("Found %d AI-related keywords: %s", len(matches), strings.Join(matches, ", ")),
	}, true
}

func findReviewMentions(c *catalog.Catalog, ev *evidence) (hit, bool) {
	var matches []string
	for _, review := range ev.input.Reviews {
		if phrase, ok := c.ReviewPhrases().First(review); ok {
			matches = append(matches, phrase)
		}
	}
	if len(matches) == 0 {
		return hit{}, false
	}
	return hit{
		signal: fmt.Sprintf("Reviews mention AI: %s", strings.Join(matches, ", ")),
	}, true
}
