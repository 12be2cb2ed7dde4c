package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"advisormesh/core"
	"advisormesh/model"
	"advisormesh/retrieval"
	"advisormesh/tool"
)

func testRetriever() *retrieval.InMemoryIndex {
	return retrieval.NewInMemoryIndex(
		retrieval.Document{Text: "The Welding program covers fabrication, safety and metallurgy.", Source: "catalog:p.12"},
		retrieval.Document{Text: "Welding tuition is charged per credit; financial aid applies.", Source: "catalog:p.55"},
		retrieval.Document{Text: "Nursing prerequisites include anatomy and placement testing.", Source: "catalog:p.30"},
	)
}

// failingRetriever simulates an unreachable backend.
type failingRetriever struct{}

func (failingRetriever) Search(context.Context, string, int) ([]core.Passage, error) {
	return nil, core.ErrRetrievalUnavailable
}

// downCatalog simulates an unreachable lookup tool.
type downCatalog struct{}

func (downCatalog) LookupByCode(context.Context, string) (*core.CourseRecord, error) {
	return nil, core.ErrToolUnavailable
}

func TestSpecialist_SuccessfulPipeline(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("Welding", "The Welding program takes four quarters.")
	s := NewSpecialist(core.CategoryProgram, m, testRetriever())

	res := s.Respond(context.Background(), "Tell me about the Welding program", core.NewSession("s1"))

	assert.True(t, res.Success)
	assert.Equal(t, core.CategoryProgram, res.Category)
	assert.Equal(t, "The Welding program takes four quarters.", res.Answer)
	assert.Contains(t, res.Sources, "catalog:p.12")
	assert.Greater(t, res.Latency.Nanoseconds(), int64(0))

	// Retrieved passages feed the prompt.
	reqs := m.Requests()
	assert.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Prompt, "fabrication")
	assert.Contains(t, reqs[0].Instructions, "Program Advisor")
}

func TestSpecialist_RetrievalUnavailableDegrades(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("catalog information was found", "I could not find catalog details, but welding is offered.")
	s := NewSpecialist(core.CategoryProgram, m, failingRetriever{})

	res := s.Respond(context.Background(), "Tell me about welding", core.NewSession("s1"))

	assert.True(t, res.Success, "retrieval failure must not fail the turn")
	assert.Empty(t, res.Sources)
}

func TestSpecialist_CourseLookupFeedsPrompt(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	catalog := tool.NewInMemoryCatalog(core.CourseRecord{Code: "WELD 101", Name: "Welding Fundamentals", Credits: "5"})
	s := NewSpecialist(core.CategoryProgram, m, testRetriever(), func(o *Options) {
		o.Catalog = catalog
	})

	res := s.Respond(context.Background(), "What is WELD 101 about?", core.NewSession("s1"))

	assert.True(t, res.Success)
	reqs := m.Requests()
	assert.Contains(t, reqs[0].Prompt, "WELD 101 - Welding Fundamentals")
}

func TestSpecialist_ToolUnavailableDegrades(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	s := NewSpecialist(core.CategoryProgram, m, testRetriever(), func(o *Options) {
		o.Catalog = downCatalog{}
	})

	res := s.Respond(context.Background(), "What is WELD 101 about?", core.NewSession("s1"))

	assert.True(t, res.Success)
	reqs := m.Requests()
	assert.NotContains(t, reqs[0].Prompt, "Structured lookup results")
}

func TestSpecialist_RetryWithReducedContext(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.FailNext(1, core.ErrGeneration)
	catalog := tool.NewInMemoryCatalog(core.CourseRecord{Code: "WELD 101", Name: "Welding Fundamentals"})
	s := NewSpecialist(core.CategoryProgram, m, testRetriever(), func(o *Options) {
		o.Catalog = catalog
	})

	res := s.Respond(context.Background(), "Compare all welding tuition aid courses and WELD 101 requirements?", core.NewSession("s1"))

	assert.True(t, res.Success)
	reqs := m.Requests()
	assert.Len(t, reqs, 2, "exactly one retry")
	// The retry drops tool results and shrinks the passage set.
	assert.Contains(t, reqs[0].Prompt, "Structured lookup results")
	assert.NotContains(t, reqs[1].Prompt, "Structured lookup results")
	assert.Less(t, len(reqs[1].Prompt), len(reqs[0].Prompt))
}

func TestSpecialist_DoubleFailureReturnsPlaceholder(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.FailNext(2, core.ErrGeneration)
	s := NewSpecialist(core.CategoryFinancial, m, testRetriever())

	res := s.Respond(context.Background(), "How much is tuition?", core.NewSession("s1"))

	assert.False(t, res.Success)
	assert.Contains(t, res.Answer, "Financial Aid Advisor")
	assert.Contains(t, res.Answer, "unavailable")
	assert.ErrorIs(t, res.Err, core.ErrGeneration)
	assert.Equal(t, 2, m.CallCount())
}

func TestSpecialist_ExtractsMajor(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	s := NewSpecialist(core.CategoryProgram, m, testRetriever())

	res := s.Respond(context.Background(), "My major is welding, what courses do I need?", core.NewSession("s1"))

	assert.True(t, res.Success)
	assert.Equal(t, "Welding", res.Attributes["major"])
}

func TestSpecialist_PromptIncludesSessionContext(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	s := NewSpecialist(core.CategoryAdmissions, m, testRetriever())

	sess := core.NewSession("s1")
	sess.MergeContext(map[string]string{"major": "Welding"})
	sess.AppendTurn(core.Turn{Query: "What programs do you offer?", Answer: "Welding, nursing and more."})

	res := s.Respond(context.Background(), "How do I apply?", sess)
	assert.True(t, res.Success)

	reqs := m.Requests()
	assert.Contains(t, reqs[0].Prompt, "major: Welding")
	assert.Contains(t, reqs[0].Prompt, "What programs do you offer?")
}

func TestExtractAttributes(t *testing.T) {
	attrs := extractAttributes(core.CategoryProgram, "I'm interested in the welding program", "answer")
	assert.Equal(t, "Welding", attrs["interests"])

	attrs = extractAttributes(core.CategoryAdmissions, "I'm a first year student, how do I enroll?", "answer")
	assert.Equal(t, "first", attrs["year"])

	attrs = extractAttributes(core.CategoryFinancial, "Can I use FAFSA here?", "answer")
	assert.Equal(t, "fafsa", attrs["aid_interest"])

	assert.Nil(t, extractAttributes(core.CategoryFinancial, "How much is tuition?", "answer"))
}

func TestPassageBudget(t *testing.T) {
	assert.Equal(t, 2, passageBudget("welding cost?", 4))
	assert.Equal(t, 4, passageBudget("how much does the welding program cost today", 4))
	assert.Equal(t, 5, passageBudget("Compare welding and carpentry programs for me", 4))
}
