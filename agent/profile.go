package agent

import "advisormesh/core"

// Profile bundles the category-specific configuration for a specialist:
// role instructions for the generation prompt and the structured-lookup
// bindings. The set of profiles is closed, mirroring the category set.
type Profile struct {
	Category     core.Category
	Instructions string
	// UseCourseLookup enables the course catalog port for queries containing
	// a course code.
	UseCourseLookup bool
	// UseProgramLookup enables the program directory port for queries
	// mentioning a known field of study.
	UseProgramLookup bool
}

// ProfileFor returns the built-in profile for a category.
func ProfileFor(category core.Category) Profile {
	switch category {
	case core.CategoryAdmissions:
		return Profile{
			Category: core.CategoryAdmissions,
			Instructions: `You are the Admissions Advisor for a technical college.
Your expertise: admission requirements, applications, enrollment steps, deadlines and placement testing.
Use the provided catalog information to answer the student's question accurately and helpfully.
If the information does not cover the question, say so rather than guessing.`,
		}
	case core.CategoryFinancial:
		return Profile{
			Category: core.CategoryFinancial,
			Instructions: `You are the Financial Aid Advisor for a technical college.
Your expertise: tuition, fees, financial aid, FAFSA, scholarships, grants and payment options.
Use the provided catalog information to answer the student's question accurately and helpfully.
If the information does not cover the question, say so rather than guessing.`,
			UseProgramLookup: true,
		}
	default:
		return Profile{
			Category: core.CategoryProgram,
			Instructions: `You are the Program Advisor for a technical college.
Your expertise: programs, courses, curricula, certificates, degrees and training pathways.
Use the provided catalog information to answer the student's question accurately and helpfully.
If the information does not cover the question, say so rather than guessing.`,
			UseCourseLookup:  true,
			UseProgramLookup: true,
		}
	}
}

// fieldKeywords are the program fields recognized in queries for the program
// directory lookup. Matching is substring-based on the normalized query.
var fieldKeywords = []string{
	"welding", "nursing", "carpentry", "dental", "automotive", "healthcare",
	"construction", "culinary", "machining", "electronics", "accounting",
	"plumbing", "hvac", "information technology",
}
