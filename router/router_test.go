package router

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"advisormesh/core"
	"advisormesh/model"
)

func TestRouter_ClassifiesViaModel(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("nursing program", "program: 0.9\nadmissions: 0.1\nfinancial: 0.0")
	r := New(m)

	dec, err := r.Route(context.Background(), "What courses are in the nursing program?", nil)
	assert.NoError(t, err)
	assert.Equal(t, []core.Category{core.CategoryProgram}, dec.Categories)
	assert.False(t, dec.Parallel)
	assert.Equal(t, 0.9, dec.Confidence[core.CategoryProgram])
}

func TestRouter_CachePreventsSecondClassification(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("nursing", "program: 0.9\nadmissions: 0.0\nfinancial: 0.0")
	r := New(m)

	first, err := r.Route(context.Background(), "Tell me about nursing courses", nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, m.CallCount())

	// Same normalized query: different casing and whitespace.
	second, err := r.Route(context.Background(), "  Tell me about NURSING   courses ", nil)
	assert.NoError(t, err)
	assert.Equal(t, 1, m.CallCount(), "cache hit must not invoke the model")
	assert.True(t, second.Cached)
	second.Cached = false
	assert.Equal(t, first, second)
}

func TestRouter_CrossDomainRunsParallel(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("Welding program cost", "program: 0.7\nadmissions: 0.1\nfinancial: 0.9")
	r := New(m)

	dec, err := r.Route(context.Background(), "How much does the Welding program cost?", nil)
	assert.NoError(t, err)
	assert.True(t, dec.Parallel)
	// Ordered by confidence: financial (0.9) before program (0.7).
	assert.Equal(t, []core.Category{core.CategoryFinancial, core.CategoryProgram}, dec.Categories)

	// Repeat runs with the same cache produce the identical decision.
	again, err := r.Route(context.Background(), "how much does the welding program cost?", nil)
	assert.NoError(t, err)
	again.Cached = false
	assert.Equal(t, dec, again)
}

func TestRouter_TieBreakUsesPriorityOrder(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("everything", "program: 0.8\nadmissions: 0.8\nfinancial: 0.8")
	r := New(m)

	dec, err := r.Route(context.Background(), "Tell me everything", nil)
	assert.NoError(t, err)
	assert.Equal(t, []core.Category{core.CategoryProgram, core.CategoryAdmissions, core.CategoryFinancial}, dec.Categories)
	assert.True(t, dec.Parallel)
}

func TestRouter_NoConfidentCategorySelectsHighest(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("vague", "program: 0.2\nadmissions: 0.4\nfinancial: 0.1")
	r := New(m)

	dec, err := r.Route(context.Background(), "something vague", nil)
	assert.NoError(t, err)
	assert.Equal(t, []core.Category{core.CategoryAdmissions}, dec.Categories)
	assert.False(t, dec.Parallel)
}

func TestRouter_ParseFailureFallsBackToKeywords(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("tuition", "I think this is about money, probably.")
	r := New(m)

	dec, err := r.Route(context.Background(), "How much is tuition?", nil)
	assert.NoError(t, err)
	assert.Equal(t, []core.Category{core.CategoryFinancial}, dec.Categories)
	assert.Equal(t, "keyword fallback", dec.Reasoning)
}

func TestRouter_ModelErrorFallsBackToKeywords(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.FailNext(1, core.ErrGeneration)
	r := New(m)

	dec, err := r.Route(context.Background(), "How do I apply and what does it cost?", nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, dec.Categories)
	assert.True(t, dec.Includes(core.CategoryAdmissions))
	assert.True(t, dec.Includes(core.CategoryFinancial))
	assert.True(t, dec.Parallel)
}

func TestRouter_CategorySetNeverEmpty(t *testing.T) {
	queries := []string{
		"hello there",
		"?",
		"qwertyuiop",
		"what about parking",
		"How do I apply?",
		"welding WELDING Welding",
	}
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("", "nonsense that never parses")
	r := New(m)

	valid := map[core.Category]bool{
		core.CategoryProgram:    true,
		core.CategoryAdmissions: true,
		core.CategoryFinancial:  true,
	}
	for _, q := range queries {
		dec, err := r.Route(context.Background(), q, nil)
		assert.NoError(t, err, q)
		assert.NotEmpty(t, dec.Categories, q)
		for _, c := range dec.Categories {
			assert.True(t, valid[c], q)
		}
	}
}

func TestRouter_SessionContextReachesClassifier(t *testing.T) {
	m := model.NewMockModel("mock", "mock")
	m.AddResponse("cost", "program: 0.0\nadmissions: 0.0\nfinancial: 0.9")
	r := New(m)

	_, err := r.Route(context.Background(), "What does it cost?", map[string]string{"major": "Welding"})
	assert.NoError(t, err)

	reqs := m.Requests()
	assert.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Prompt, "major=Welding")
}

func TestParseConfidences(t *testing.T) {
	confs, err := parseConfidences("program: 0.9\nadmissions: 0.2\nfinancial: 0")
	assert.NoError(t, err)
	assert.Equal(t, 0.9, confs[core.CategoryProgram])
	assert.Equal(t, 0.2, confs[core.CategoryAdmissions])
	assert.Equal(t, 0.0, confs[core.CategoryFinancial])

	// Partial output still parses; missing categories default to zero.
	confs, err = parseConfidences("Financial: 1.4\nnoise line")
	assert.NoError(t, err)
	assert.Equal(t, 1.0, confs[core.CategoryFinancial], "scores clamp to [0,1]")
	assert.Equal(t, 0.0, confs[core.CategoryProgram])

	_, err = parseConfidences("no structure here")
	assert.ErrorIs(t, err, core.ErrClassificationParse)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "how do i apply?", Normalize("  How   do I\tAPPLY?  "))
	assert.Equal(t, "one two", Normalize("One\n\nTWO"))
}
