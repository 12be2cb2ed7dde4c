package router

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"advisormesh/core"
	"advisormesh/model"
	"advisormesh/observability"
)

// Options configure the Router.
type Options struct {
	// Threshold selects every category whose confidence strictly exceeds it.
	Threshold float64
	// CacheTTL and CacheSize configure the routing cache.
	CacheTTL  time.Duration
	CacheSize int
	// MaxTokens bounds the classification completion.
	MaxTokens int
	Logger    observability.Logger
	Metrics   *observability.Metrics
}

// Router classifies a query into a set of target specialist categories with
// per-category confidence, consulting the cache first. Route never leaves a
// query unrouted: classification failures fall back to keyword matching and
// the target set is always a non-empty subset of the closed category set.
type Router struct {
	model     model.Model
	cache     *Cache
	threshold float64
	maxTokens int
	logger    observability.Logger
	metrics   *observability.Metrics
}

// New constructs a Router backed by the given classification model.
func New(m model.Model, optFns ...func(o *Options)) *Router {
	opts := Options{
		Threshold: 0.5,
		CacheTTL:  10 * time.Minute,
		CacheSize: 100,
		MaxTokens: 256,
		Logger:    observability.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Router{
		model:     m,
		cache:     NewCache(func(o *CacheOptions) { o.TTL = opts.CacheTTL; o.MaxEntries = opts.CacheSize }),
		threshold: opts.Threshold,
		maxTokens: opts.MaxTokens,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

// Normalize case-folds, trims and collapses whitespace to form the cache key.
func Normalize(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

// Route classifies the query, consulting the cache first. The session context
// accumulated so far is provided to the classifier as a hint.
func (r *Router) Route(ctx context.Context, query string, sessionContext map[string]string) (core.RoutingDecision, error) {
	normalized := Normalize(query)

	if dec, ok := r.cache.Get(normalized); ok {
		r.metrics.IncCacheHit()
		r.logger.Debug("routing cache hit", "query", normalized)
		dec.Cached = true
		return dec, nil
	}

	confs, reasoning, err := r.classify(ctx, query, sessionContext)
	if err != nil {
		if ctx.Err() != nil {
			return core.RoutingDecision{}, ctx.Err()
		}
		r.logger.Warn("classification failed, using keyword fallback", "query", normalized, "error", err.Error())
		confs = keywordConfidences(normalized)
		reasoning = "keyword fallback"
	}

	targets := r.selectTargets(confs)
	dec := core.RoutingDecision{
		Query:      normalized,
		Categories: targets,
		Confidence: confs,
		Parallel:   len(targets) > 1,
		Reasoning:  reasoning,
	}

	r.cache.Put(normalized, dec)
	return dec, nil
}

// CacheLen reports the number of cached routing decisions.
func (r *Router) CacheLen() int { return r.cache.Len() }

// classify invokes the generation port with the classification prompt and
// parses per-category confidences from the structured reply.
func (r *Router) classify(ctx context.Context, query string, sessionContext map[string]string) (map[core.Category]float64, string, error) {
	start := time.Now()
	r.metrics.IncClassification()

	resp, err := r.model.Generate(ctx, model.Request{
		Instructions: classifierInstructions,
		Prompt:       classificationPrompt(query, sessionContext),
		MaxTokens:    r.maxTokens,
	})
	observability.LogModelCall(r.logger, r.model.Info().Name, time.Since(start), err)
	if err != nil {
		return nil, "", err
	}

	confs, err := parseConfidences(resp.Text)
	if err != nil {
		return nil, "", err
	}
	return confs, "model classification", nil
}

// selectTargets picks all categories whose confidence exceeds the threshold,
// falling back to the single highest-confidence category so the set is never
// empty. Targets order by confidence descending; equal confidences keep the
// fixed priority order.
func (r *Router) selectTargets(confs map[core.Category]float64) []core.Category {
	var targets []core.Category
	for _, cat := range core.Categories() {
		if confs[cat] > r.threshold {
			targets = append(targets, cat)
		}
	}
	if len(targets) == 0 {
		best := core.Categories()[0]
		for _, cat := range core.Categories()[1:] {
			if confs[cat] > confs[best] {
				best = cat
			}
		}
		targets = []core.Category{best}
	}
	sort.SliceStable(targets, func(i, j int) bool {
		if confs[targets[i]] == confs[targets[j]] {
			return targets[i].Priority() < targets[j].Priority()
		}
		return confs[targets[i]] > confs[targets[j]]
	})
	return targets
}

const classifierInstructions = `You are the routing classifier for a technical college student advisor.
Rate how relevant each advisor category is to the student's question.
Reply with exactly three lines, one per category, in the form "category: score"
where score is a number between 0.0 and 1.0.`

func classificationPrompt(query string, sessionContext map[string]string) string {
	var sb strings.Builder
	sb.WriteString(`Categories:
- program: courses, classes, curricula, degrees, certificates, training pathways
- admissions: applications, enrollment, requirements, deadlines, placement tests
- financial: tuition, fees, financial aid, scholarships, FAFSA, payments

Examples:
Q: What courses are in the nursing program?
program: 0.9
admissions: 0.1
financial: 0.0

Q: How do I apply to the welding program and how much does it cost?
program: 0.3
admissions: 0.8
financial: 0.8

Q: What are the admission requirements for dental hygiene?
program: 0.2
admissions: 0.9
financial: 0.0

`)
	if len(sessionContext) > 0 {
		sb.WriteString("Known student context:")
		for _, cat := range sortedKeys(sessionContext) {
			fmt.Fprintf(&sb, " %s=%s", cat, sessionContext[cat])
		}
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "Q: %s\n", query)
	return sb.String()
}

// parseConfidences extracts "category: score" lines. At least one category
// must parse or the output is rejected with core.ErrClassificationParse.
func parseConfidences(text string) (map[core.Category]float64, error) {
	confs := map[core.Category]float64{}
	for _, line := range strings.Split(text, "\n") {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		cat, ok := core.ParseCategory(strings.ToLower(strings.TrimSpace(name)))
		if !ok {
			continue
		}
		score, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}
		confs[cat] = score
	}
	if len(confs) == 0 {
		return nil, fmt.Errorf("%w: %q", core.ErrClassificationParse, firstLine(text))
	}
	for _, cat := range core.Categories() {
		if _, ok := confs[cat]; !ok {
			confs[cat] = 0
		}
	}
	return confs, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
