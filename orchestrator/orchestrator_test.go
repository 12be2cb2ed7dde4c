package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisormesh/core"
	"advisormesh/observability"
	"advisormesh/session"
)

type fakeRouter struct {
	decision core.RoutingDecision
	err      error
	contexts []map[string]string
}

func (r *fakeRouter) Route(_ context.Context, query string, sessionContext map[string]string) (core.RoutingDecision, error) {
	copied := make(map[string]string, len(sessionContext))
	for k, v := range sessionContext {
		copied[k] = v
	}
	r.contexts = append(r.contexts, copied)
	if r.err != nil {
		return core.RoutingDecision{}, r.err
	}
	dec := r.decision
	dec.Query = query
	return dec, nil
}

type fakeResponder struct {
	category core.Category
	answer   string
	sources  []string
	attrs    map[string]string
	delay    time.Duration
	fail     bool
}

func (f *fakeResponder) Category() core.Category { return f.category }

func (f *fakeResponder) Respond(ctx context.Context, _ string, _ *core.Session) core.AgentResult {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return core.AgentResult{Category: f.category, Success: false, TimedOut: true, Err: ctx.Err()}
		}
	}
	if f.fail {
		return core.AgentResult{Category: f.category, Success: false, Err: errors.New("model unavailable")}
	}
	return core.AgentResult{
		Category:   f.category,
		Answer:     f.answer,
		Sources:    f.sources,
		Attributes: f.attrs,
		Success:    true,
	}
}

func decision(parallel bool, cats ...core.Category) core.RoutingDecision {
	conf := make(map[core.Category]float64, len(cats))
	for _, c := range cats {
		conf[c] = 0.9
	}
	return core.RoutingDecision{Categories: cats, Confidence: conf, Parallel: parallel}
}

func TestHandleSingleCategory(t *testing.T) {
	router := &fakeRouter{decision: decision(false, core.CategoryProgram)}
	store := session.NewInMemoryStore()
	orch := New(router, Specialists{
		Program: &fakeResponder{category: core.CategoryProgram, answer: "The welding program takes two years.", sources: []string{"catalog/welding"}},
	}, store)

	resp, err := orch.Handle(context.Background(), "s1", "Tell me about welding")
	require.NoError(t, err)

	assert.Equal(t, "The welding program takes two years.", resp.Answer)
	assert.Equal(t, []core.Category{core.CategoryProgram}, resp.Categories)
	assert.Equal(t, []string{"catalog/welding"}, resp.Sources)
	assert.False(t, resp.Partial)
	assert.False(t, resp.Failed)

	sess, err := store.Load("s1")
	require.NoError(t, err)
	require.NotNil(t, sess)
	require.Equal(t, 1, sess.TurnCount())
}

func TestHandleParallelOrderIsDeterministic(t *testing.T) {
	// Program is slower than financial; the synthesized answer must still
	// present program first because that is the decision order.
	router := &fakeRouter{decision: decision(true, core.CategoryProgram, core.CategoryFinancial)}
	orch := New(router, Specialists{
		Program:   &fakeResponder{category: core.CategoryProgram, answer: "Program details.", delay: 40 * time.Millisecond},
		Financial: &fakeResponder{category: core.CategoryFinancial, answer: "Aid details."},
	}, session.NewInMemoryStore())

	for i := 0; i < 3; i++ {
		resp, err := orch.Handle(context.Background(), "s1", "welding program and aid")
		require.NoError(t, err)

		programIdx := strings.Index(resp.Answer, "**Program Advisor:**")
		financialIdx := strings.Index(resp.Answer, "**Financial Aid Advisor:**")
		require.NotEqual(t, -1, programIdx)
		require.NotEqual(t, -1, financialIdx)
		assert.Less(t, programIdx, financialIdx)
		assert.Equal(t, []core.Category{core.CategoryProgram, core.CategoryFinancial}, resp.Categories)
	}
}

func TestHandlePartialFailure(t *testing.T) {
	router := &fakeRouter{decision: decision(true, core.CategoryProgram, core.CategoryFinancial)}
	metrics := observability.NewMetrics()
	orch := New(router, Specialists{
		Program:   &fakeResponder{category: core.CategoryProgram, answer: "Program details."},
		Financial: &fakeResponder{category: core.CategoryFinancial, fail: true},
	}, session.NewInMemoryStore(), func(o *Options) { o.Metrics = metrics })

	resp, err := orch.Handle(context.Background(), "s1", "welding program and aid")
	require.NoError(t, err)

	assert.Equal(t, "Program details.", resp.Answer)
	assert.True(t, resp.Partial)
	assert.False(t, resp.Failed)
	assert.Equal(t, []core.Category{core.CategoryProgram}, resp.Categories)
	assert.Equal(t, int64(1), metrics.Snapshot().AgentFailures)
}

func TestHandleAgentTimeout(t *testing.T) {
	router := &fakeRouter{decision: decision(true, core.CategoryProgram, core.CategoryFinancial)}
	orch := New(router, Specialists{
		Program:   &fakeResponder{category: core.CategoryProgram, answer: "Program details."},
		Financial: &fakeResponder{category: core.CategoryFinancial, answer: "never", delay: time.Second},
	}, session.NewInMemoryStore(), func(o *Options) { o.AgentTimeout = 20 * time.Millisecond })

	resp, err := orch.Handle(context.Background(), "s1", "welding and aid")
	require.NoError(t, err)

	assert.Equal(t, "Program details.", resp.Answer)
	assert.True(t, resp.Partial)
	assert.NotContains(t, resp.Answer, "never")
}

func TestHandleTotalFailure(t *testing.T) {
	router := &fakeRouter{decision: decision(false, core.CategoryAdmissions)}
	metrics := observability.NewMetrics()
	store := session.NewInMemoryStore()
	orch := New(router, Specialists{
		Admissions: &fakeResponder{category: core.CategoryAdmissions, fail: true},
	}, store, func(o *Options) { o.Metrics = metrics })

	resp, err := orch.Handle(context.Background(), "s1", "how do i apply")
	require.NoError(t, err)

	assert.True(t, resp.Failed)
	assert.Equal(t, DefaultFallbackAnswer, resp.Answer)
	assert.Empty(t, resp.Categories)
	assert.Equal(t, int64(1), metrics.Snapshot().FailedTurns)

	// A failed turn is still recorded.
	sess, err := store.Load("s1")
	require.NoError(t, err)
	require.Equal(t, 1, sess.TurnCount())
	assert.True(t, sess.RecentTurns(1)[0].Failed)
}

func TestHandleContextAccumulation(t *testing.T) {
	router := &fakeRouter{decision: decision(false, core.CategoryProgram)}
	orch := New(router, Specialists{
		Program: &fakeResponder{
			category: core.CategoryProgram,
			answer:   "Welding is a two-year program.",
			attrs:    map[string]string{"major": "Welding"},
		},
	}, session.NewInMemoryStore())

	_, err := orch.Handle(context.Background(), "s1", "my major is welding")
	require.NoError(t, err)
	_, err = orch.Handle(context.Background(), "s1", "how long does it take")
	require.NoError(t, err)

	require.Len(t, router.contexts, 2)
	assert.Empty(t, router.contexts[0])
	assert.Equal(t, "Welding", router.contexts[1]["major"])
}

func TestHandleAttributeMergeDecisionOrder(t *testing.T) {
	router := &fakeRouter{decision: decision(true, core.CategoryProgram, core.CategoryFinancial)}
	store := session.NewInMemoryStore()
	orch := New(router, Specialists{
		Program:   &fakeResponder{category: core.CategoryProgram, answer: "a", attrs: map[string]string{"major": "Welding"}},
		Financial: &fakeResponder{category: core.CategoryFinancial, answer: "b", attrs: map[string]string{"major": "Nursing"}},
	}, store)

	_, err := orch.Handle(context.Background(), "s1", "q")
	require.NoError(t, err)

	sess, err := store.Load("s1")
	require.NoError(t, err)
	// Last writer in decision order wins.
	major, ok := sess.Attribute("major")
	require.True(t, ok)
	assert.Equal(t, "Nursing", major)
}

func TestHandleGreetingShortCircuit(t *testing.T) {
	router := &fakeRouter{decision: decision(false, core.CategoryProgram)}
	store := session.NewInMemoryStore()
	orch := New(router, Specialists{
		Program: &fakeResponder{category: core.CategoryProgram, answer: "should not run"},
	}, store)

	resp, err := orch.Handle(context.Background(), "s1", "Hello!")
	require.NoError(t, err)

	assert.Contains(t, resp.Answer, "student advisor")
	assert.Empty(t, router.contexts, "greeting must not reach the router")

	sess, err := store.Load("s1")
	require.NoError(t, err)
	require.Equal(t, 1, sess.TurnCount())
}

func TestHandleRouterError(t *testing.T) {
	router := &fakeRouter{err: errors.New("classifier down")}
	orch := New(router, Specialists{}, session.NewInMemoryStore())

	_, err := orch.Handle(context.Background(), "s1", "anything at all")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "route query")
}

type failingStore struct {
	*session.InMemoryStore
}

func (s *failingStore) Save(*core.Session) error { return errors.New("disk full") }

func TestHandleSaveFailureIsHardError(t *testing.T) {
	router := &fakeRouter{decision: decision(false, core.CategoryProgram)}
	orch := New(router, Specialists{
		Program: &fakeResponder{category: core.CategoryProgram, answer: "fine"},
	}, &failingStore{session.NewInMemoryStore()})

	_, err := orch.Handle(context.Background(), "s1", "tell me about welding")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSessionSave)
}

func TestHandleEmitsTraceEvents(t *testing.T) {
	router := &fakeRouter{decision: decision(false, core.CategoryProgram)}
	emitter := observability.NewMemoryEmitter()
	orch := New(router, Specialists{
		Program: &fakeResponder{category: core.CategoryProgram, answer: "ok"},
	}, session.NewInMemoryStore(), func(o *Options) { o.Emitter = emitter })

	_, err := orch.Handle(context.Background(), "s1", "welding courses")
	require.NoError(t, err)

	kinds := make([]string, 0)
	for _, ev := range emitter.Events() {
		kinds = append(kinds, ev.Kind)
	}
	assert.Equal(t, []string{
		core.TraceQueryReceived,
		core.TraceRouted,
		core.TraceAgentCompleted,
		core.TraceTurnCompleted,
	}, kinds)
}

func TestGreetingDetection(t *testing.T) {
	cases := []struct {
		query string
		want  bool
	}{
		{"hello", true},
		{"Hi there!", true},
		{"thanks so much", true},
		{"what can you do?", true},
		{"hi, i want to know about welding programs and financial aid", false},
		{"how do I apply", false},
		{"", true},
	}
	for _, tc := range cases {
		_, ok := greetingAnswer(tc.query)
		assert.Equal(t, tc.want, ok, "query %q", tc.query)
	}
}
