package commitlint

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLint_Examples(t *testing.T) {
	t.Run("short valid header passes", func(t *testing.T) {
		v := Lint("fix(auth): correct token expiry check")
		assert.True(t, v.OK)
		assert.Empty(t, v.Violations)
		assert.Empty(t, v.Rules())
	})

	t.Run("long header fails with length only", func(t *testing.T) {
		v := Lint("feat(auth): implement comprehensive biometric authentication flow")
		assert.False(t, v.OK)
		assert.Equal(t, []string{"header-max-length"}, v.Rules())
	})
}

func TestLint_Rules(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    []string
	}{
		{
			name:    "empty",
			message: "  \n ",
			want:    []string{"empty-message"},
		},
		{
			name:    "breaking change marker",
			message: "feat(api)!: drop v1 endpoints",
			want:    nil,
		},
		{
			name:    "no scope",
			message: "docs: explain config precedence",
			want:    nil,
		},
		{
			name:    "unknown type",
			message: "feature: add thing",
			want:    []string{"header-format"},
		},
		{
			name:    "missing space after colon",
			message: "fix:broken parser",
			want:    []string{"header-format"},
		},
		{
			name:    "extra space before uppercase subject",
			message: "feat:  Add thing",
			want:    []string{"header-format"},
		},
		{
			name:    "empty subject",
			message: "fix: ",
			want:    []string{"subject-empty"},
		},
		{
			name:    "uppercase subject",
			message: "fix: Handle nil config",
			want:    []string{"subject-case"},
		},
		{
			name:    "trailing period",
			message: "chore: bump deps.",
			want:    []string{"subject-full-stop"},
		},
		{
			name:    "body without blank line",
			message: "fix: handle nil config\nthe loader crashed",
			want:    []string{"body-leading-blank"},
		},
		{
			name:    "header running onto a second line counts both lines",
			message: "feat: add x\nthis second line is long enough to push it past fifty",
			want:    []string{"header-max-length", "body-leading-blank"},
		},
		{
			name:    "body with blank line",
			message: "fix: handle nil config\n\nThe loader crashed on empty files.",
			want:    nil,
		},
		{
			name:    "long and malformed collects both",
			message: "This header is far too long and also lacks any conventional type",
			want:    []string{"header-max-length", "header-format"},
		},
		{
			name:    "digit-led subject is fine",
			message: "perf: 2x faster diff parsing",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Lint(tt.message)
			if tt.want == nil {
				assert.True(t, v.OK, "violations: %v", v.Rules())
				return
			}
			assert.False(t, v.OK)
			assert.Equal(t, tt.want, v.Rules())
		})
	}
}

func TestLint_LengthAlwaysReportedOverLimit(t *testing.T) {
	for n := MaxHeaderLength + 1; n < MaxHeaderLength+30; n++ {
		header := "fix: " + strings.Repeat("a", n-5)
		require.Len(t, header, n)

		v := Lint(header)
		assert.True(t, v.Has(RuleHeaderMaxLength), "length %d", n)
	}
}

func TestLint_LengthStopsAtFirstBlankLine(t *testing.T) {
	message := "fix: handle nil config\n\n" + strings.Repeat("long body text ", 10)
	assert.True(t, Lint(message).OK)
}

func TestLint_ExactLimitPasses(t *testing.T) {
	header := "fix: " + strings.Repeat("a", MaxHeaderLength-5)
	assert.True(t, Lint(header).OK)
}

func TestLint_CountsRunesNotBytes(t *testing.T) {
	header := "docs: " + strings.Repeat("é", MaxHeaderLength-6)
	assert.True(t, Lint(header).OK)
}

func TestParse(t *testing.T) {
	c, ok := Parse("feat(cli)!: add push flag\n\nPushes after commit.\nSecond line.")
	require.True(t, ok)
	assert.Equal(t, "feat", c.Type)
	assert.Equal(t, "cli", c.Scope)
	assert.True(t, c.Breaking)
	assert.Equal(t, "add push flag", c.Subject)
	assert.Equal(t, "Pushes after commit.\nSecond line.", c.Body)
	assert.Equal(t, "feat(cli)!: add push flag", c.Title())
	assert.Equal(t, "feat(cli)!: add push flag\n\nPushes after commit.\nSecond line.", c.Message())
}

func TestDescribe(t *testing.T) {
	v := Lint("feat(auth): implement comprehensive biometric authentication flow")
	require.Len(t, v.Violations, 1)

	instruction := Describe(v.Violations[0])
	assert.Contains(t, instruction, "at most 50 characters")
	assert.Contains(t, v.Summary(), "limit is 50")
}
