package observability

import "sync/atomic"

// Metrics tracks in-process counters for the orchestration pipeline. All
// methods are safe for concurrent use; a nil *Metrics is a valid no-op.
type Metrics struct {
	queries          atomic.Int64
	cacheHits        atomic.Int64
	classifications  atomic.Int64
	agentInvocations atomic.Int64
	agentFailures    atomic.Int64
	failedTurns      atomic.Int64
}

// NewMetrics constructs a zeroed metrics registry.
func NewMetrics() *Metrics { return &Metrics{} }

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Queries          int64 `json:"queries"`
	CacheHits        int64 `json:"cache_hits"`
	Classifications  int64 `json:"classifications"`
	AgentInvocations int64 `json:"agent_invocations"`
	AgentFailures    int64 `json:"agent_failures"`
	FailedTurns      int64 `json:"failed_turns"`
}

// IncQuery counts one handled query.
func (m *Metrics) IncQuery() {
	if m != nil {
		m.queries.Add(1)
	}
}

// IncCacheHit counts one routing cache hit.
func (m *Metrics) IncCacheHit() {
	if m != nil {
		m.cacheHits.Add(1)
	}
}

// IncClassification counts one classification model call.
func (m *Metrics) IncClassification() {
	if m != nil {
		m.classifications.Add(1)
	}
}

// IncAgentInvocation counts one specialist dispatch.
func (m *Metrics) IncAgentInvocation() {
	if m != nil {
		m.agentInvocations.Add(1)
	}
}

// IncAgentFailure counts one failed or timed-out specialist invocation.
func (m *Metrics) IncAgentFailure() {
	if m != nil {
		m.agentFailures.Add(1)
	}
}

// IncFailedTurn counts one all-agents-failed turn.
func (m *Metrics) IncFailedTurn() {
	if m != nil {
		m.failedTurns.Add(1)
	}
}

// Snapshot returns a copy of all counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Queries:          m.queries.Load(),
		CacheHits:        m.cacheHits.Load(),
		Classifications:  m.classifications.Load(),
		AgentInvocations: m.agentInvocations.Load(),
		AgentFailures:    m.agentFailures.Load(),
		FailedTurns:      m.failedTurns.Load(),
	}
}
