// Package retrieval provides an in-memory implementation of the retrieval
// port. It scores documents by keyword overlap and is suitable for tests,
// demos and small corpora; swap in a vector backend for production recall.
package retrieval

import (
	"context"
	"sort"
	"strings"
	"sync"
	"unicode"

	"advisormesh/core"
)

// Document is one indexed text chunk with its source locator.
type Document struct {
	Text   string
	Source string
}

// InMemoryIndex is a process-local core.Retriever. Scoring is the fraction of
// distinct query terms present in the document with a small bonus for repeat
// occurrences. Ranking ties resolve by insertion order so results are stable.
// Safe for concurrent use.
type InMemoryIndex struct {
	mu   sync.RWMutex
	docs []Document
}

// NewInMemoryIndex constructs an index over the given documents.
func NewInMemoryIndex(docs ...Document) *InMemoryIndex {
	idx := &InMemoryIndex{}
	idx.Add(docs...)
	return idx
}

// Add appends documents to the index.
func (idx *InMemoryIndex) Add(docs ...Document) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.docs = append(idx.docs, docs...)
}

// Len returns the number of indexed documents.
func (idx *InMemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Search implements core.Retriever. An empty result is a valid outcome, not
// an error.
func (idx *InMemoryIndex) Search(ctx context.Context, query string, k int) ([]core.Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := tokenize(query)
	if len(terms) == 0 || k <= 0 {
		return []core.Passage{}, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type scored struct {
		pos   int
		score float64
	}
	var hits []scored
	for i, doc := range idx.docs {
		text := strings.ToLower(doc.Text)
		matched := 0
		occurrences := 0
		for _, term := range terms {
			if n := strings.Count(text, term); n > 0 {
				matched++
				occurrences += n
			}
		}
		if matched == 0 {
			continue
		}
		score := float64(matched)/float64(len(terms)) + 0.01*float64(occurrences)
		if score > 1 {
			score = 1
		}
		hits = append(hits, scored{pos: i, score: score})
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].score > hits[b].score })
	if len(hits) > k {
		hits = hits[:k]
	}

	passages := make([]core.Passage, len(hits))
	for i, h := range hits {
		passages[i] = core.Passage{
			Text:   idx.docs[h.pos].Text,
			Score:  h.score,
			Source: idx.docs[h.pos].Source,
		}
	}
	return passages, nil
}

// stopwords excluded from query matching to keep short questions useful.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "do": true, "does": true,
	"for": true, "how": true, "i": true, "in": true, "is": true, "it": true,
	"of": true, "the": true, "to": true, "what": true, "you": true,
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	terms := make([]string, 0, len(fields))
	seen := map[string]bool{}
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] || seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}
