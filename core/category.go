package core

// Category identifies one of the fixed specialist domains. The set is closed:
// adding a category is a deliberate code change, not a runtime registration.
type Category string

const (
	// CategoryProgram covers courses, curricula, degrees and certificates.
	CategoryProgram Category = "program"
	// CategoryAdmissions covers applications, enrollment and requirements.
	CategoryAdmissions Category = "admissions"
	// CategoryFinancial covers tuition, fees, aid and scholarships.
	CategoryFinancial Category = "financial"
)

// Categories returns the full category set in fixed priority order
// (program > admissions > financial). The order is the deterministic
// tie-break used by routing and attribute merging.
func Categories() []Category {
	return []Category{CategoryProgram, CategoryAdmissions, CategoryFinancial}
}

// ParseCategory maps a string onto the closed category set.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryProgram, CategoryAdmissions, CategoryFinancial:
		return Category(s), true
	}
	return "", false
}

// Priority returns the category's rank in the fixed priority order; lower is
// higher priority. Unknown categories sort last.
func (c Category) Priority() int {
	switch c {
	case CategoryProgram:
		return 0
	case CategoryAdmissions:
		return 1
	case CategoryFinancial:
		return 2
	default:
		return 3
	}
}

// DisplayName returns the human-facing advisor name for the category, used to
// label answer segments during synthesis.
func (c Category) DisplayName() string {
	switch c {
	case CategoryProgram:
		return "Program Advisor"
	case CategoryAdmissions:
		return "Admissions Advisor"
	case CategoryFinancial:
		return "Financial Aid Advisor"
	default:
		return string(c)
	}
}
