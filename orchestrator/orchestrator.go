package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"advisormesh/core"
	"advisormesh/observability"
)

// Router abstracts the routing step so orchestration stays testable
// independent of the classification model. Implemented by router.Router.
type Router interface {
	Route(ctx context.Context, query string, sessionContext map[string]string) (core.RoutingDecision, error)
}

// Responder is one specialist agent. Respond never returns an error; failures
// are carried inside the AgentResult. Implemented by agent.Specialist.
type Responder interface {
	Category() core.Category
	Respond(ctx context.Context, query string, sess *core.Session) core.AgentResult
}

// Specialists binds one responder per category. The set is closed: adding a
// category is a deliberate code change.
type Specialists struct {
	Program    Responder
	Admissions Responder
	Financial  Responder
}

// For returns the responder for a category, or nil when unbound.
func (s Specialists) For(c core.Category) Responder {
	switch c {
	case core.CategoryProgram:
		return s.Program
	case core.CategoryAdmissions:
		return s.Admissions
	case core.CategoryFinancial:
		return s.Financial
	default:
		return nil
	}
}

// DefaultFallbackAnswer is returned when every dispatched specialist fails.
const DefaultFallbackAnswer = "I'm sorry, I wasn't able to find an answer to your question right now. Please try again in a moment."

// Options configure the Orchestrator.
type Options struct {
	// AgentTimeout bounds each specialist invocation independently.
	AgentTimeout time.Duration
	// FallbackAnswer replaces the response when all agents fail.
	FallbackAnswer string
	// HandleGreetings short-circuits greetings and similar general queries
	// without dispatching specialists.
	HandleGreetings bool
	Logger          observability.Logger
	Metrics         *observability.Metrics
	Emitter         core.TraceEmitter
}

// Orchestrator coordinates one turn at a time per session. Safe for
// concurrent use across sessions; concurrent calls for the same session
// serialize on the store's per-session lock.
type Orchestrator struct {
	router          Router
	agents          Specialists
	store           core.SessionStore
	timeout         time.Duration
	fallbackAnswer  string
	handleGreetings bool
	logger          observability.Logger
	metrics         *observability.Metrics
	emitter         core.TraceEmitter
}

// New constructs an Orchestrator.
func New(r Router, agents Specialists, store core.SessionStore, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		AgentTimeout:    30 * time.Second,
		FallbackAnswer:  DefaultFallbackAnswer,
		HandleGreetings: true,
		Logger:          observability.NoOpLogger{},
		Emitter:         core.NopEmitter{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		router:          r,
		agents:          agents,
		store:           store,
		timeout:         opts.AgentTimeout,
		fallbackAnswer:  opts.FallbackAnswer,
		handleGreetings: opts.HandleGreetings,
		logger:          opts.Logger,
		metrics:         opts.Metrics,
		emitter:         opts.Emitter,
	}
}

// Handle processes one query for a session. Per-turn state machine:
// received -> routed -> dispatched -> synthesized -> persisted. A failed
// turn (all agents failed) is still persisted and returned as a fallback
// response, not an error; the only hard error paths are session load/save
// and caller cancellation.
func (o *Orchestrator) Handle(ctx context.Context, sessionID, query string) (core.SynthesizedResponse, error) {
	start := time.Now()
	o.metrics.IncQuery()

	release := o.store.Acquire(sessionID)
	defer release()

	sess, err := o.store.Load(sessionID)
	if err != nil {
		return core.SynthesizedResponse{}, fmt.Errorf("load session %q: %w", sessionID, err)
	}
	if sess == nil {
		sess = core.NewSession(sessionID)
	}

	received := core.NewTraceEvent(sessionID, core.TraceQueryReceived)
	received.Data["query"] = query
	o.emitter.Emit(received)

	if o.handleGreetings {
		if answer, ok := greetingAnswer(query); ok {
			return o.finishTurn(sess, query, core.SynthesizedResponse{
				Answer:  answer,
				Elapsed: time.Since(start),
			}, nil, "greeting")
		}
	}

	dec, err := o.router.Route(ctx, query, sess.Attributes())
	if err != nil {
		return core.SynthesizedResponse{}, fmt.Errorf("route query: %w", err)
	}
	observability.LogRouting(o.logger, sessionID, dec, dec.Cached)

	routed := core.NewTraceEvent(sessionID, core.TraceRouted)
	routed.Data["categories"] = dec.Categories
	routed.Data["parallel"] = dec.Parallel
	routed.Data["cached"] = dec.Cached
	routed.Data["reasoning"] = dec.Reasoning
	o.emitter.Emit(routed)

	// Agents get a read-only snapshot; attribute merges happen afterwards so
	// concurrent agents never share mutable state.
	snapshot := sess.Clone()
	results := o.dispatch(ctx, dec, query, snapshot)

	resp := o.synthesize(results)
	resp.Elapsed = time.Since(start)

	for _, res := range results {
		// Decision order makes the per-key last-writer-wins deterministic.
		if res.Success {
			sess.MergeContext(res.Attributes)
		}
	}

	return o.finishTurn(sess, query, resp, &turnRecord{decision: dec, results: results}, outcome(resp))
}

type turnRecord struct {
	decision core.RoutingDecision
	results  []core.AgentResult
}

// finishTurn appends the turn, persists the session and emits the summary
// trace event. Save failures are the one hard error a turn surfaces.
func (o *Orchestrator) finishTurn(sess *core.Session, query string, resp core.SynthesizedResponse, rec *turnRecord, outcome string) (core.SynthesizedResponse, error) {
	turn := core.Turn{
		Query:   query,
		Answer:  resp.Answer,
		Failed:  resp.Failed,
		Partial: resp.Partial,
	}
	if rec != nil {
		turn.Categories = rec.decision.Categories
	}
	sess.AppendTurn(turn)

	if err := o.store.Save(sess); err != nil {
		return core.SynthesizedResponse{}, fmt.Errorf("%w: %v", core.ErrSessionSave, err)
	}

	completed := core.NewTraceEvent(sess.ID, core.TraceTurnCompleted)
	completed.Data["query"] = query
	completed.Data["outcome"] = outcome
	completed.Data["elapsed_ms"] = resp.Elapsed.Milliseconds()
	if rec != nil {
		completed.Data["decision"] = rec.decision
		agents := make([]map[string]any, 0, len(rec.results))
		for _, res := range rec.results {
			agents = append(agents, map[string]any{
				"category":   res.Category,
				"success":    res.Success,
				"timed_out":  res.TimedOut,
				"latency_ms": res.Latency.Milliseconds(),
			})
		}
		completed.Data["agents"] = agents
	}
	o.emitter.Emit(completed)

	o.logger.Info("turn completed",
		"session_id", sess.ID,
		"outcome", outcome,
		"elapsed", resp.Elapsed,
	)
	return resp, nil
}

// dispatch runs the target specialists, concurrently when the decision says
// so. results[i] always corresponds to decision category i, so synthesis
// order never depends on completion order.
func (o *Orchestrator) dispatch(ctx context.Context, dec core.RoutingDecision, query string, snapshot *core.Session) []core.AgentResult {
	results := make([]core.AgentResult, len(dec.Categories))

	if dec.Parallel && len(dec.Categories) > 1 {
		var wg sync.WaitGroup
		for i, cat := range dec.Categories {
			wg.Add(1)
			go func(i int, cat core.Category) {
				defer wg.Done()
				results[i] = o.invoke(ctx, cat, query, snapshot)
			}(i, cat)
		}
		wg.Wait()
		return results
	}

	for i, cat := range dec.Categories {
		results[i] = o.invoke(ctx, cat, query, snapshot)
	}
	return results
}

// invoke runs one specialist under its independent timeout. Exceeding the
// timeout stops waiting for the result (the underlying call may still run to
// completion, its result is discarded) and records a timed-out AgentResult.
func (o *Orchestrator) invoke(ctx context.Context, cat core.Category, query string, snapshot *core.Session) core.AgentResult {
	o.metrics.IncAgentInvocation()
	start := time.Now()

	responder := o.agents.For(cat)
	if responder == nil {
		res := core.AgentResult{
			Category: cat,
			Answer:   fmt.Sprintf("The %s is not available.", cat.DisplayName()),
			Success:  false,
			Latency:  time.Since(start),
			Err:      fmt.Errorf("no responder bound for category %s", cat),
		}
		o.recordAgent(snapshot.ID, res)
		return res
	}

	agentCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	done := make(chan core.AgentResult, 1)
	go func() {
		done <- responder.Respond(agentCtx, query, snapshot)
	}()

	var res core.AgentResult
	select {
	case res = <-done:
	case <-agentCtx.Done():
		res = core.AgentResult{
			Category: cat,
			Answer:   fmt.Sprintf("The %s did not respond in time.", cat.DisplayName()),
			Success:  false,
			TimedOut: true,
			Latency:  time.Since(start),
			Err:      agentCtx.Err(),
		}
	}
	o.recordAgent(snapshot.ID, res)
	return res
}

func (o *Orchestrator) recordAgent(sessionID string, res core.AgentResult) {
	if !res.Success {
		o.metrics.IncAgentFailure()
	}
	observability.LogAgentExecution(o.logger, sessionID, res)

	ev := core.NewTraceEvent(sessionID, core.TraceAgentCompleted)
	ev.Data["category"] = res.Category
	ev.Data["success"] = res.Success
	ev.Data["timed_out"] = res.TimedOut
	ev.Data["latency_ms"] = res.Latency.Milliseconds()
	o.emitter.Emit(ev)
}

// synthesize merges agent results into the final response. Results arrive in
// routing decision order, which fixes the output ordering regardless of
// concurrency timing.
func (o *Orchestrator) synthesize(results []core.AgentResult) core.SynthesizedResponse {
	var successes []core.AgentResult
	for _, res := range results {
		if res.Success {
			successes = append(successes, res)
		}
	}

	switch len(successes) {
	case 0:
		o.metrics.IncFailedTurn()
		o.logger.Warn("synthesis failed", "error", core.ErrAllAgentsFailed.Error(), "agents", len(results))
		return core.SynthesizedResponse{Answer: o.fallbackAnswer, Failed: true}
	case 1:
		res := successes[0]
		return core.SynthesizedResponse{
			Answer:     res.Answer,
			Categories: []core.Category{res.Category},
			Sources:    dedupeSources(res.Sources),
			Partial:    len(results) > 1,
		}
	default:
		segments := make([]string, 0, len(successes))
		categories := make([]core.Category, 0, len(successes))
		var sources []string
		for _, res := range successes {
			segments = append(segments, fmt.Sprintf("**%s:**\n%s", res.Category.DisplayName(), res.Answer))
			categories = append(categories, res.Category)
			sources = append(sources, res.Sources...)
		}
		return core.SynthesizedResponse{
			Answer:     strings.Join(segments, "\n\n"),
			Categories: categories,
			Sources:    dedupeSources(sources),
			Partial:    len(successes) < len(results),
		}
	}
}

func outcome(resp core.SynthesizedResponse) string {
	switch {
	case resp.Failed:
		return "failed-terminal"
	case resp.Partial:
		return "partial"
	default:
		return "synthesized"
	}
}

func dedupeSources(sources []string) []string {
	if len(sources) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(sources))
	out := make([]string, 0, len(sources))
	for _, s := range sources {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
