package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple name", "Main Menu", "main-menu"},
		{"already slug", "main-menu", "main-menu"},
		{"punctuation collapsed", "News & Events!", "news-events"},
		{"leading trailing junk", "  --Footer Links--  ", "footer-links"},
		{"consecutive separators", "a___b   c", "a-b-c"},
		{"digits kept", "Top 10 Stories", "top-10-stories"},
		{"empty input", "", ""},
		{"only punctuation", "!!!", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Slugify(tc.input))
		})
	}
}

func TestSlugify_CapsLength(t *testing.T) {
	long := strings.Repeat("abcde ", 30)
	slug := Slugify(long)

	assert.LessOrEqual(t, len(slug), 64)
	assert.False(t, strings.HasPrefix(slug, "-"))
	assert.False(t, strings.HasSuffix(slug, "-"))
}

func TestValidateUUID(t *testing.T) {
	id, err := ValidateUUID("a3bb189e-8bf9-3888-9912-ace4e6543002", "menu id")
	assert.NoError(t, err)
	assert.Equal(t, "a3bb189e-8bf9-3888-9912-ace4e6543002", id.String())

	_, err = ValidateUUID("", "menu id")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "menu id is required")

	_, err = ValidateUUID("not-a-uuid", "menu id")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid UUID")
}

func TestValidateRequiredString(t *testing.T) {
	assert.NoError(t, ValidateRequiredString("value", "field"))

	err := ValidateRequiredString("   ", "label")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "label is required")
}
