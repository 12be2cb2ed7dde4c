package agent

import (
	"regexp"
	"strings"

	"advisormesh/core"
)

// Attribute extraction patterns. Matching runs over the student's query (the
// most reliable source of stated facts) and, for interests, the answer too.
var (
	majorPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bmy major is (?:the )?([a-z][a-z &'-]{2,40})`),
		regexp.MustCompile(`(?i)\bmajoring in (?:the )?([a-z][a-z &'-]{2,40})`),
		regexp.MustCompile(`(?i)\bi(?:'m| am) studying (?:the )?([a-z][a-z &'-]{2,40})`),
		regexp.MustCompile(`(?i)\bi want to study (?:the )?([a-z][a-z &'-]{2,40})`),
	}
	interestPattern = regexp.MustCompile(`(?i)\binterested in (?:the )?([a-z][a-z &'-]{2,40})`)
	yearPattern     = regexp.MustCompile(`(?i)\b(first|second|third) year\b`)
)

// extractAttributes applies the category's heuristic to infer new context
// attributes from a completed exchange. Values are cleaned and title-cased;
// an empty map means nothing new was learned.
func extractAttributes(category core.Category, query, answer string) map[string]string {
	attrs := map[string]string{}

	for _, p := range majorPatterns {
		if m := p.FindStringSubmatch(query); m != nil {
			attrs["major"] = cleanAttribute(m[1])
			break
		}
	}

	switch category {
	case core.CategoryProgram:
		if m := interestPattern.FindStringSubmatch(query); m != nil {
			attrs["interests"] = cleanAttribute(m[1])
		} else if field := matchField(query); field != "" {
			attrs["interests"] = cleanAttribute(field)
		}
	case core.CategoryAdmissions:
		if m := yearPattern.FindStringSubmatch(query); m != nil {
			attrs["year"] = strings.ToLower(m[1])
		}
	case core.CategoryFinancial:
		if strings.Contains(strings.ToLower(query), "fafsa") {
			attrs["aid_interest"] = "fafsa"
		}
	}

	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// cleanAttribute trims trailing noise words and title-cases the value.
func cleanAttribute(v string) string {
	v = strings.TrimSpace(v)
	if i := strings.Index(strings.ToLower(v), " and "); i >= 0 {
		v = v[:i]
	}
	for _, suffix := range []string{" program", " degree", " certificate", " courses", " course"} {
		v = strings.TrimSuffix(v, suffix)
	}
	words := strings.Fields(strings.ToLower(v))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
