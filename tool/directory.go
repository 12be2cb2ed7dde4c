package tool

import (
	"context"
	"strings"
	"sync"

	"advisormesh/core"
)

// InMemoryDirectory is a process-local core.ProgramDirectory. LookupByField
// scans program name, field and description for the keyword. Safe for
// concurrent use.
type InMemoryDirectory struct {
	mu       sync.RWMutex
	programs []core.ProgramRecord
}

// NewInMemoryDirectory constructs a directory over the given records.
func NewInMemoryDirectory(records ...core.ProgramRecord) *InMemoryDirectory {
	return &InMemoryDirectory{programs: records}
}

// LookupByField implements core.ProgramDirectory. An empty result is valid.
func (d *InMemoryDirectory) LookupByField(ctx context.Context, keyword string) ([]core.ProgramRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, core.ErrToolUnavailable
	}
	needle := strings.ToLower(strings.TrimSpace(keyword))
	if needle == "" {
		return []core.ProgramRecord{}, nil
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	var out []core.ProgramRecord
	for _, p := range d.programs {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Field), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Fields returns the distinct program fields known to the directory, in
// first-seen order. Used by agents to spot field keywords in queries.
func (d *InMemoryDirectory) Fields() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	seen := map[string]bool{}
	var fields []string
	for _, p := range d.programs {
		f := strings.ToLower(p.Field)
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		fields = append(fields, f)
	}
	return fields
}

// FormatProgram renders one program record for inclusion in a prompt.
func FormatProgram(rec core.ProgramRecord) string {
	var sb strings.Builder
	sb.WriteString(rec.Name)
	if rec.Award != "" {
		sb.WriteString(" (")
		sb.WriteString(rec.Award)
		sb.WriteString(")")
	}
	if rec.Description != "" {
		sb.WriteString(": ")
		sb.WriteString(rec.Description)
	}
	return sb.String()
}
