package core

import "context"

// Passage is a retrieved text unit with a relevance score and a source
// locator (e.g. "catalog:p.42").
type Passage struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// Retriever is the retrieval port: given a query and a passage-count budget
// it returns passages ordered by descending relevance. An empty result is
// valid and must not be treated as an error; ErrRetrievalUnavailable signals
// the backend cannot be reached.
type Retriever interface {
	Search(ctx context.Context, query string, k int) ([]Passage, error)
}

// CourseRecord is a structured catalog entry returned by course lookups.
type CourseRecord struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Credits     string `json:"credits"`
	Description string `json:"description"`
	Page        int    `json:"page,omitempty"`
}

// ProgramRecord is a structured entry returned by program lookups.
type ProgramRecord struct {
	Name        string `json:"name"`
	Field       string `json:"field"`
	Award       string `json:"award,omitempty"`
	Description string `json:"description"`
	Page        int    `json:"page,omitempty"`
}

// CourseCatalog is the structured course lookup port. LookupByCode returns
// (nil, nil) when no course matches; it is a pure lookup with no side effects
// and fails only with ErrToolUnavailable.
type CourseCatalog interface {
	LookupByCode(ctx context.Context, code string) (*CourseRecord, error)
}

// ProgramDirectory is the structured program lookup port. LookupByField
// returns all programs matching a field keyword; an empty result is valid.
type ProgramDirectory interface {
	LookupByField(ctx context.Context, keyword string) ([]ProgramRecord, error)
}
