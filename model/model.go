package model

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"advisormesh/core"
)

// Request captures the normalized model input produced by the router and the
// specialist agents. Instructions carry the role/system portion; Prompt
// carries context plus the current question as a single text block.
type Request struct {
	Instructions string `json:"instructions,omitempty"`
	Prompt       string `json:"prompt"`
	MaxTokens    int    `json:"max_tokens,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the final generation result.
type Response struct {
	Text         string      `json:"text"`
	FinishReason string      `json:"finish_reason,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Model is the minimal interface required to drive generation. Generate
// returns core.ErrGenerationTimeout when the deadline is exceeded and wraps
// other provider failures in core.ErrGeneration.
type Model interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// canned pairs a prompt substring with a deterministic completion.
type canned struct {
	match string
	text  string
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are selected by substring match against the prompt, in
// registration order; unmatched prompts yield a generic echo. Failures can be
// injected with FailNext. Safe for concurrent use.
type MockModel struct {
	mu        sync.Mutex
	info      Info
	responses []canned
	failures  int
	failErr   error
	requests  []Request
}

// NewMockModel constructs a MockModel.
func NewMockModel(name, provider string) *MockModel {
	return &MockModel{info: Info{Name: name, Provider: provider}}
}

// AddResponse registers a canned completion returned when the prompt contains
// the match substring. Earlier registrations take precedence.
func (m *MockModel) AddResponse(match, text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, canned{match: match, text: text})
}

// FailNext makes the next n Generate calls fail with err (core.ErrGeneration
// if err is nil).
func (m *MockModel) FailNext(n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = n
	m.failErr = err
}

// Requests returns a copy of every request seen so far, in call order.
func (m *MockModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of Generate calls observed.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Generate implements Model.
func (m *MockModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrGenerationTimeout, err)
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	if m.failures > 0 {
		m.failures--
		err := m.failErr
		m.mu.Unlock()
		if err == nil {
			err = core.ErrGeneration
		}
		return nil, err
	}
	full := req.Instructions + "\n" + req.Prompt
	var text string
	for _, c := range m.responses {
		if strings.Contains(full, c.match) {
			text = c.text
			break
		}
	}
	m.mu.Unlock()

	if text == "" {
		text = fmt.Sprintf("Mock response to: %s", req.Prompt)
	}
	return &Response{Text: text, FinishReason: "stop"}, nil
}

// Info implements Model.
func (m *MockModel) Info() Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.info
}
