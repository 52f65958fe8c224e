package domain

import "strings"

// Category is one of the four fixed report sections.
type Category string

const (
	CategoryCorrectParts          Category = "Correct Parts"
	CategoryPotentialIssues       Category = "Potential Issues"
	CategoryMissingLogic          Category = "Missing Logic"
	CategorySuggestedImprovements Category = "Suggested Improvements"
)

// Categories lists the report sections in rendering order.
var Categories = []Category{
	CategoryCorrectParts,
	CategoryPotentialIssues,
	CategoryMissingLogic,
	CategorySuggestedImprovements,
}

// UncategorizedTitle heads bullets that appeared before any known heading.
const UncategorizedTitle = "Uncategorized"

// headingPhrases are matched case-sensitively by substring containment.
var headingPhrases = map[Category][]string{
	CategoryCorrectParts:          {"Correct parts", "Correct Parts"},
	CategoryPotentialIssues:       {"Potential issues", "Potential Issues"},
	CategoryMissingLogic:          {"Missing logic", "Missing Logic"},
	CategorySuggestedImprovements: {"Suggested improvements", "Suggested Improvements"},
}

// SectionedReport buckets the bullet lines of a model response.
// Sections always holds all four categories.
type SectionedReport struct {
	Sections      map[Category][]string `json:"sections"`
	Uncategorized []string              `json:"uncategorized,omitempty"`
}

// NewSectionedReport returns a report with four empty sections.
func NewSectionedReport() *SectionedReport {
	r := &SectionedReport{Sections: make(map[Category][]string, len(Categories))}
	for _, c := range Categories {
		r.Sections[c] = []string{}
	}
	return r
}

// Items returns the bullets of one category in the order they were seen.
func (r *SectionedReport) Items(c Category) []string {
	return r.Sections[c]
}

// Count returns the number of bullets across the four categories.
func (r *SectionedReport) Count() int {
	n := 0
	for _, c := range Categories {
		n += len(r.Sections[c])
	}
	return n
}

// Counts returns per-category bullet counts keyed by category name.
func (r *SectionedReport) Counts() map[string]int {
	counts := make(map[string]int, len(Categories))
	for _, c := range Categories {
		counts[string(c)] = len(r.Sections[c])
	}
	return counts
}

// Sectionize scans a free-text report line by line. A line containing a
// heading phrase moves the cursor to that category and is dropped; a line
// starting with "-" or "•" is appended to the current category; everything
// else is dropped. Bullets seen while no heading is active are kept in
// Uncategorized.
func Sectionize(text string) *SectionedReport {
	r := NewSectionedReport()
	var current Category

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)

		if c, ok := matchHeading(line); ok {
			current = c
			continue
		}
		if !isBullet(line) {
			continue
		}

		item := strings.TrimSpace(strings.TrimLeft(line, "-• "))
		if item == "" {
			continue
		}
		if current == "" {
			r.Uncategorized = append(r.Uncategorized, item)
			continue
		}
		r.Sections[current] = append(r.Sections[current], item)
	}
	return r
}

func matchHeading(line string) (Category, bool) {
	for _, c := range Categories {
		for _, phrase := range headingPhrases[c] {
			if strings.Contains(line, phrase) {
				return c, true
			}
		}
	}
	return "", false
}

func isBullet(line string) bool {
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•")
}
