package router

import (
	"strings"

	"advisormesh/core"
)

// categoryKeywords is the static expertise vocabulary per category, used by
// the deterministic fallback when model classification fails.
var categoryKeywords = map[core.Category][]string{
	core.CategoryProgram: {
		"course", "courses", "class", "classes", "curriculum", "degree",
		"certificate", "program", "prerequisite", "credits", "training",
		"pathway", "major", "study",
	},
	core.CategoryAdmissions: {
		"admission", "apply", "application", "enroll", "enrollment",
		"requirement", "requirements", "deadline", "placement test",
		"acceptance", "registration", "qualify", "eligibility",
	},
	core.CategoryFinancial: {
		"cost", "tuition", "fees", "price", "financial aid", "scholarship",
		"grant", "loan", "fafsa", "payment", "afford", "expensive", "funding",
		"money",
	},
}

// keywordConfidences scores each category by keyword matches against the
// normalized query. A single strong match clears the selection threshold so
// the fallback routes the same way the model path would; scores cap at 1.
func keywordConfidences(normalizedQuery string) map[core.Category]float64 {
	confs := make(map[core.Category]float64, len(categoryKeywords))
	for _, cat := range core.Categories() {
		matches := 0
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(normalizedQuery, kw) {
				matches++
			}
		}
		score := 0.6 * float64(matches)
		if score > 1 {
			score = 1
		}
		confs[cat] = score
	}
	return confs
}
