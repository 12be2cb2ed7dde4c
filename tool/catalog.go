package tool

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"advisormesh/core"
)

// CourseCodePattern matches catalog course codes such as "NURS 101" or
// "WELD210". Shared with the specialist agents' structured-lookup detection.
var CourseCodePattern = regexp.MustCompile(`\b([A-Z]{3,5})\s?(\d{3})\b`)

// NormalizeCourseCode canonicalizes a course code to "DEPT NNN" form.
// Returns "" when the input is not a course code.
func NormalizeCourseCode(s string) string {
	m := CourseCodePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return ""
	}
	return m[1] + " " + m[2]
}

// InMemoryCatalog is a process-local core.CourseCatalog backed by a map of
// normalized course codes. Safe for concurrent use.
type InMemoryCatalog struct {
	mu      sync.RWMutex
	courses map[string]core.CourseRecord
}

// NewInMemoryCatalog constructs a catalog over the given records. Records
// with unparseable codes are skipped.
func NewInMemoryCatalog(records ...core.CourseRecord) *InMemoryCatalog {
	c := &InMemoryCatalog{courses: make(map[string]core.CourseRecord, len(records))}
	for _, rec := range records {
		if code := NormalizeCourseCode(rec.Code); code != "" {
			rec.Code = code
			c.courses[code] = rec
		}
	}
	return c
}

// LookupByCode implements core.CourseCatalog. Returns (nil, nil) when no
// course matches.
func (c *InMemoryCatalog) LookupByCode(ctx context.Context, code string) (*core.CourseRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrToolUnavailable
	}
	normalized := NormalizeCourseCode(code)
	if normalized == "" {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if rec, ok := c.courses[normalized]; ok {
		out := rec
		return &out, nil
	}
	return nil, nil
}

// FormatCourse renders one course record for inclusion in a prompt.
func FormatCourse(rec core.CourseRecord) string {
	var sb strings.Builder
	sb.WriteString(rec.Code)
	sb.WriteString(" - ")
	sb.WriteString(rec.Name)
	if rec.Credits != "" {
		sb.WriteString(" (")
		sb.WriteString(rec.Credits)
		sb.WriteString(" credits)")
	}
	if rec.Description != "" {
		sb.WriteString(": ")
		sb.WriteString(rec.Description)
	}
	return sb.String()
}
