package orchestrator

import "strings"

const greetingResponse = "Hello! I'm your student advisor assistant. I can help with program and course information, admissions and enrollment, and financial aid. What would you like to know?"

const thanksResponse = "You're welcome! Let me know if there's anything else I can help with."

var greetingWords = map[string]bool{
	"hello":     true,
	"hi":        true,
	"hey":       true,
	"greetings": true,
	"howdy":     true,
}

var helpPhrases = []string{
	"can you help",
	"what can you do",
	"who are you",
	"what do you do",
	"how does this work",
}

// greetingAnswer detects greetings and capability questions so a turn can
// complete without classification or specialist dispatch. Matching stays
// deliberately narrow: a long query that happens to open with "hi" still
// goes through routing.
func greetingAnswer(query string) (string, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	q = strings.TrimRight(q, ".!?")
	if q == "" {
		return greetingResponse, true
	}

	if strings.HasPrefix(q, "thank") || strings.HasPrefix(q, "thanks") {
		return thanksResponse, true
	}

	for _, phrase := range helpPhrases {
		if strings.Contains(q, phrase) {
			return greetingResponse, true
		}
	}

	words := strings.Fields(q)
	if len(words) <= 4 {
		for _, w := range words {
			if greetingWords[strings.Trim(w, ",.!?")] {
				return greetingResponse, true
			}
		}
	}
	return "", false
}
