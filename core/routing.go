package core

// RoutingDecision captures the outcome of classifying one query. Cache hits
// return the stored decision unchanged apart from the Cached marker.
type RoutingDecision struct {
	// Query is the normalized query the decision was computed for.
	Query string `json:"query"`
	// Categories is the ordered, non-empty target set. Synthesis presents
	// answer segments in this order regardless of agent completion order.
	Categories []Category `json:"categories"`
	// Confidence holds the per-category classification score (0..1).
	Confidence map[Category]float64 `json:"confidence"`
	// Parallel is set when more than one category should run concurrently.
	Parallel bool `json:"parallel"`
	// Reasoning is a short human-readable note on how the decision was made
	// ("model", "keyword fallback", ...). Informational only.
	Reasoning string `json:"reasoning,omitempty"`
	// Cached is set on decisions served from the routing cache.
	Cached bool `json:"cached,omitempty"`
}

// Includes reports whether the decision targets the given category.
func (d RoutingDecision) Includes(c Category) bool {
	for _, target := range d.Categories {
		if target == c {
			return true
		}
	}
	return false
}
