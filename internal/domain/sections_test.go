package domain_test

import (
	"testing"

	"github.com/etlvalidator/etlvalidator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionize_Example(t *testing.T) {
	r := domain.Sectionize("Correct Parts\n- uses correct join\nPotential Issues\n- missing null check")

	assert.Equal(t, map[domain.Category][]string{
		domain.CategoryCorrectParts:          {"uses correct join"},
		domain.CategoryPotentialIssues:       {"missing null check"},
		domain.CategoryMissingLogic:          {},
		domain.CategorySuggestedImprovements: {},
	}, r.Sections)
	assert.Empty(t, r.Uncategorized)
}

func TestSectionize_AllHeadingsPreserveOrder(t *testing.T) {
	text := `### ✅ Correct parts
- reads the source table
• filters inactive rows
### ⚠️ Potential issues
- date format differs
### ❌ Missing logic
- lookup on customer dim
- aggregation by region
### 💡 Suggested improvements
- cache the lookup`

	r := domain.Sectionize(text)

	assert.Equal(t, []string{"reads the source table", "filters inactive rows"}, r.Items(domain.CategoryCorrectParts))
	assert.Equal(t, []string{"date format differs"}, r.Items(domain.CategoryPotentialIssues))
	assert.Equal(t, []string{"lookup on customer dim", "aggregation by region"}, r.Items(domain.CategoryMissingLogic))
	assert.Equal(t, []string{"cache the lookup"}, r.Items(domain.CategorySuggestedImprovements))
	assert.Equal(t, 6, r.Count())
}

func TestSectionize_NoHeadingsKeepsAllKeys(t *testing.T) {
	r := domain.Sectionize("The conversion looks fine overall.\nNothing else to add.")

	require.Len(t, r.Sections, 4)
	for _, c := range domain.Categories {
		items, ok := r.Sections[c]
		assert.True(t, ok, "category %q must be present", c)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	}
}

func TestSectionize_BulletsBeforeHeadingGoToUncategorized(t *testing.T) {
	r := domain.Sectionize("- stray finding\nMissing Logic\n- no dedup step")

	assert.Equal(t, []string{"stray finding"}, r.Uncategorized)
	assert.Equal(t, []string{"no dedup step"}, r.Items(domain.CategoryMissingLogic))
	assert.Empty(t, r.Items(domain.CategoryCorrectParts))
}

func TestSectionize_HeadingMatchIsCaseSensitive(t *testing.T) {
	r := domain.Sectionize("CORRECT PARTS\n- ignored heading")

	assert.Empty(t, r.Items(domain.CategoryCorrectParts))
	assert.Equal(t, []string{"ignored heading"}, r.Uncategorized)
}

func TestSectionize_DropsNonBulletLinesAndEmptyBullets(t *testing.T) {
	r := domain.Sectionize("Correct Parts\nprose line\n---\n  -   padded item  \n* star bullet\n1. numbered")

	assert.Equal(t, []string{"padded item"}, r.Items(domain.CategoryCorrectParts))
}

func TestSectionize_HeadingLineWithBulletSwitchesSection(t *testing.T) {
	r := domain.Sectionize("Correct Parts\n- first\n- Suggested improvements follow\n- second")

	assert.Equal(t, []string{"first"}, r.Items(domain.CategoryCorrectParts))
	assert.Equal(t, []string{"second"}, r.Items(domain.CategorySuggestedImprovements))
}

func TestSectionize_CRLF(t *testing.T) {
	r := domain.Sectionize("Potential Issues\r\n- windows line\r\n")

	assert.Equal(t, []string{"windows line"}, r.Items(domain.CategoryPotentialIssues))
}

func TestSectionedReport_Counts(t *testing.T) {
	r := domain.Sectionize("Missing logic\n- a\n- b")

	assert.Equal(t, map[string]int{
		"Correct Parts":          0,
		"Potential Issues":       0,
		"Missing Logic":          2,
		"Suggested Improvements": 0,
	}, r.Counts())
}
