package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"advisormesh/core"
	"advisormesh/model"
	"advisormesh/observability"
	"advisormesh/tool"
)

// Options configure a Specialist.
type Options struct {
	// PassageBudget is the default retrieval budget; complex queries may
	// fetch one more, simple ones fewer.
	PassageBudget int
	// RetryPassages is the reduced budget used on the single retry after a
	// generation failure.
	RetryPassages int
	// HistoryTurns bounds how many recent turns feed the prompt.
	HistoryTurns int
	// MaxTokens bounds the generated answer.
	MaxTokens int
	// Catalog and Directory are the structured lookup ports; either may be
	// nil, disabling that lookup.
	Catalog   core.CourseCatalog
	Directory core.ProgramDirectory
	Logger    observability.Logger
}

// Specialist executes the retrieval + optional tool call + generation
// pipeline for one category. Respond never returns an error: failures
// surface as an AgentResult with Success=false so a single specialist can
// never abort the whole turn.
type Specialist struct {
	profile   Profile
	model     model.Model
	retriever core.Retriever
	opts      Options
}

// NewSpecialist constructs the specialist for a category.
func NewSpecialist(category core.Category, m model.Model, retriever core.Retriever, optFns ...func(o *Options)) *Specialist {
	opts := Options{
		PassageBudget: 4,
		RetryPassages: 2,
		HistoryTurns:  5,
		MaxTokens:     1024,
		Logger:        observability.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Specialist{
		profile:   ProfileFor(category),
		model:     m,
		retriever: retriever,
		opts:      opts,
	}
}

// Category returns the specialist's fixed category.
func (s *Specialist) Category() core.Category { return s.profile.Category }

// Respond implements the specialist contract against a read-only session
// snapshot.
func (s *Specialist) Respond(ctx context.Context, query string, sess *core.Session) core.AgentResult {
	start := time.Now()

	passages := s.retrieve(ctx, query, sess)
	toolNotes := s.lookup(ctx, query)

	resp, err := s.generate(ctx, query, sess, passages, toolNotes)
	if err != nil {
		// One retry with a shortened context: drop tool results, keep only
		// the top passages.
		reduced := passages
		if len(reduced) > s.opts.RetryPassages {
			reduced = reduced[:s.opts.RetryPassages]
		}
		s.opts.Logger.Warn("generation failed, retrying with reduced context",
			"category", s.profile.Category, "error", err.Error())
		resp, err = s.generate(ctx, query, sess, reduced, nil)
		passages = reduced
	}
	if err != nil {
		return core.AgentResult{
			Category: s.profile.Category,
			Answer:   unavailableAnswer(s.profile.Category),
			Success:  false,
			TimedOut: ctx.Err() != nil,
			Latency:  time.Since(start),
			Err:      err,
		}
	}

	sources := make([]string, 0, len(passages))
	for _, p := range passages {
		sources = append(sources, p.Source)
	}

	return core.AgentResult{
		Category:   s.profile.Category,
		Answer:     resp.Text,
		Sources:    sources,
		Attributes: extractAttributes(s.profile.Category, query, resp.Text),
		Success:    true,
		Latency:    time.Since(start),
	}
}

// retrieve fetches passages, tolerating an unavailable backend: the agent
// proceeds with whatever context it has.
func (s *Specialist) retrieve(ctx context.Context, query string, sess *core.Session) []core.Passage {
	k := passageBudget(query, s.opts.PassageBudget)
	passages, err := s.retriever.Search(ctx, s.retrievalQuery(query, sess), k)
	if err != nil {
		s.opts.Logger.Warn("retrieval unavailable, degrading answer context",
			"category", s.profile.Category, "error", err.Error())
		return nil
	}
	return passages
}

// retrievalQuery widens recall by appending the most recent prior queries.
func (s *Specialist) retrievalQuery(query string, sess *core.Session) string {
	if sess == nil {
		return query
	}
	recent := sess.RecentTurns(2)
	if len(recent) == 0 {
		return query
	}
	parts := make([]string, 0, len(recent)+1)
	parts = append(parts, query)
	for _, t := range recent {
		parts = append(parts, t.Query)
	}
	return strings.Join(parts, " ")
}

// lookup performs the category's structured lookups when the query matches a
// lookup pattern. Tool failures are tolerated; results degrade to nothing.
func (s *Specialist) lookup(ctx context.Context, query string) []string {
	var notes []string

	if s.profile.UseCourseLookup && s.opts.Catalog != nil {
		if code := tool.NormalizeCourseCode(query); code != "" {
			start := time.Now()
			rec, err := s.opts.Catalog.LookupByCode(ctx, code)
			observability.LogToolCall(s.opts.Logger, "course_catalog", time.Since(start), err)
			if err == nil && rec != nil {
				notes = append(notes, tool.FormatCourse(*rec))
			}
		}
	}

	if s.profile.UseProgramLookup && s.opts.Directory != nil {
		if field := matchField(query); field != "" {
			start := time.Now()
			recs, err := s.opts.Directory.LookupByField(ctx, field)
			observability.LogToolCall(s.opts.Logger, "program_directory", time.Since(start), err)
			if err == nil {
				for i, rec := range recs {
					if i >= 3 {
						break
					}
					notes = append(notes, tool.FormatProgram(rec))
				}
			}
		}
	}

	return notes
}

func (s *Specialist) generate(ctx context.Context, query string, sess *core.Session, passages []core.Passage, toolNotes []string) (*model.Response, error) {
	start := time.Now()
	resp, err := s.model.Generate(ctx, model.Request{
		Instructions: s.profile.Instructions,
		Prompt:       buildPrompt(query, sess, passages, toolNotes, s.opts.HistoryTurns),
		MaxTokens:    s.opts.MaxTokens,
	})
	observability.LogModelCall(s.opts.Logger, s.model.Info().Name, time.Since(start), err)
	return resp, err
}

// buildPrompt assembles the generation prompt from student context, recent
// conversation, retrieved passages, lookup results and the current question.
func buildPrompt(query string, sess *core.Session, passages []core.Passage, toolNotes []string, historyTurns int) string {
	var sb strings.Builder

	if sess != nil {
		sb.WriteString("Student context:\n")
		sb.WriteString(sess.ContextSummary())
		sb.WriteString("\n\n")

		if recent := sess.RecentTurns(historyTurns); len(recent) > 0 {
			sb.WriteString("Recent conversation:\n")
			for _, t := range recent {
				fmt.Fprintf(&sb, "Student: %s\n", truncate(t.Query, 160))
				fmt.Fprintf(&sb, "Advisor: %s\n", truncate(t.Answer, 160))
			}
			sb.WriteString("\n")
		}
	}

	if len(passages) > 0 {
		sb.WriteString("Relevant catalog information:\n")
		for i, p := range passages {
			fmt.Fprintf(&sb, "[%d] (%s) %s\n", i+1, p.Source, p.Text)
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No relevant catalog information was found.\n\n")
	}

	if len(toolNotes) > 0 {
		sb.WriteString("Structured lookup results:\n")
		for _, note := range toolNotes {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "Student question: %s\n\n", query)
	sb.WriteString("Provide a helpful, accurate answer based on the information above.")
	return sb.String()
}

// passageBudget adapts the retrieval budget to query complexity.
func passageBudget(query string, base int) int {
	words := len(strings.Fields(query))
	lower := strings.ToLower(query)
	multiPart := strings.Count(query, "?") > 1 || words > 20 ||
		strings.Contains(lower, "compare") || strings.Contains(lower, "list") ||
		strings.Contains(lower, " all ") || strings.Contains(lower, "everything")
	switch {
	case multiPart:
		return base + 1
	case words < 8:
		return base - 2
	default:
		return base
	}
}

func matchField(query string) string {
	lower := strings.ToLower(query)
	for _, field := range fieldKeywords {
		if strings.Contains(lower, field) {
			return field
		}
	}
	return ""
}

func unavailableAnswer(c core.Category) string {
	return fmt.Sprintf("The %s is temporarily unavailable. Please try asking again in a moment.", c.DisplayName())
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
