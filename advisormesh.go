// Package advisormesh provides a high-level façade over the router,
// specialist agents and orchestrator, enabling rapid construction of a
// student advising assistant. Most applications interact with this package
// by:
//  1. Creating an Advisor via New() with a model and a retriever
//     (optionally overriding the default in-memory services)
//  2. Asking questions with Ask(), passing a stable session ID so context
//     accumulates across turns
//
// The façade delegates query handling to orchestrator.Orchestrator while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing; production deployments typically supply a durable
// session store, a structured logger and a trace emitter.
package advisormesh

import (
	"context"
	"time"

	"advisormesh/agent"
	"advisormesh/core"
	"advisormesh/model"
	"advisormesh/observability"
	"advisormesh/orchestrator"
	"advisormesh/router"
	"advisormesh/session"
)

// Options configures the Advisor instance.
type Options struct {
	// RouterModel classifies queries. Defaults to the main model.
	RouterModel model.Model

	// RoutingThreshold selects every category whose confidence strictly
	// exceeds it.
	RoutingThreshold float64

	// CacheTTL and CacheSize configure the routing cache.
	CacheTTL  time.Duration
	CacheSize int

	// AgentTimeout bounds each specialist invocation independently.
	AgentTimeout time.Duration

	// Catalog and Directory are structured lookup ports for the specialists
	// that use them. Either may be nil.
	Catalog   core.CourseCatalog
	Directory core.ProgramDirectory

	// SessionStore defaults to an in-memory implementation.
	SessionStore core.SessionStore

	// Logger defaults to NoOp; Emitter defaults to a discard sink.
	Logger  observability.Logger
	Metrics *observability.Metrics
	Emitter core.TraceEmitter
}

// Advisor is the high-level façade aggregating the router, the specialist
// agents and the orchestrator.
type Advisor struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates an Advisor backed by the given answer model and retriever. Any
// unset service is initialized with an in-memory implementation.
func New(m model.Model, retriever core.Retriever, optFns ...func(o *Options)) *Advisor {
	opts := Options{
		RouterModel:      m,
		RoutingThreshold: 0.5,
		CacheTTL:         10 * time.Minute,
		CacheSize:        100,
		AgentTimeout:     30 * time.Second,
		SessionStore:     session.NewInMemoryStore(),
		Logger:           observability.NoOpLogger{},
		Emitter:          core.NopEmitter{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	r := router.New(opts.RouterModel, func(o *router.Options) {
		o.Threshold = opts.RoutingThreshold
		o.CacheTTL = opts.CacheTTL
		o.CacheSize = opts.CacheSize
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
	})

	specialist := func(c core.Category) *agent.Specialist {
		return agent.NewSpecialist(c, m, retriever, func(o *agent.Options) {
			o.Catalog = opts.Catalog
			o.Directory = opts.Directory
			o.Logger = opts.Logger
		})
	}

	orch := orchestrator.New(r, orchestrator.Specialists{
		Program:    specialist(core.CategoryProgram),
		Admissions: specialist(core.CategoryAdmissions),
		Financial:  specialist(core.CategoryFinancial),
	}, opts.SessionStore, func(o *orchestrator.Options) {
		o.AgentTimeout = opts.AgentTimeout
		o.Logger = opts.Logger
		o.Metrics = opts.Metrics
		o.Emitter = opts.Emitter
	})

	return &Advisor{opts: opts, orch: orch}
}

// Ask processes one student question for a session and returns the
// synthesized response. Passing the same sessionID across calls carries
// conversation history and extracted student context forward.
func (a *Advisor) Ask(ctx context.Context, sessionID, query string) (core.SynthesizedResponse, error) {
	return a.orch.Handle(ctx, sessionID, query)
}

// Session returns the stored session for an ID, or nil when none exists yet.
func (a *Advisor) Session(sessionID string) (*core.Session, error) {
	return a.opts.SessionStore.Load(sessionID)
}
