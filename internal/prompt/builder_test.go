package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huimingz/commitsmith/pkg/lang"
)

const sampleDiff = "diff --git a/auth.go b/auth.go\n--- a/auth.go\n+++ b/auth.go\n@@ -1 +1 @@\n-old\n+new\n"

func fullInput() Input {
	return Input{
		DiffContext: DiffContext{
			Branch:        "feature/token-expiry",
			Hint:          "expiry compared in wrong timezone",
			RecentCommits: []string{"fix(auth): handle empty token", "chore: bump deps"},
			StagedFiles:   []string{"M\tauth.go"},
			Diff:          sampleDiff,
		},
		PriorError: "header is 61 characters, limit is 50",
		Refinement: &Refinement{
			LastMessage:  "fix(auth): correct the way token expiry is compared across zones",
			Instructions: []string{"make it shorter", "mention utc"},
		},
	}
}

func TestBuildUser_BranchFirstDiffLast(t *testing.T) {
	inputs := map[string]Input{
		"minimal":    {DiffContext: DiffContext{Branch: "main", Diff: sampleDiff}},
		"full":       fullInput(),
		"empty diff": {DiffContext: DiffContext{Branch: "main"}},
	}

	for name, in := range inputs {
		t.Run(name, func(t *testing.T) {
			user := BuildUser(in)
			assert.True(t, strings.HasPrefix(user, "Branch: "+in.Branch+"\n"))
			assert.True(t, strings.HasSuffix(user, in.Diff))
		})
	}
}

func TestBuildUser_SectionOrder(t *testing.T) {
	user := BuildUser(fullInput())

	markers := []string{
		"Branch: feature/token-expiry",
		"## Recent Commits",
		"## Changed Files",
		"## Developer Hint",
		"## Previous Attempt Rejected",
		"## Refinement",
		"## Staged Diff",
	}
	last := -1
	for _, marker := range markers {
		idx := strings.Index(user, marker)
		require.NotEqual(t, -1, idx, "missing %q", marker)
		assert.Greater(t, idx, last, "%q out of order", marker)
		last = idx
	}
}

func TestBuildUser_OmitsAbsentSections(t *testing.T) {
	user := BuildUser(Input{DiffContext: DiffContext{Branch: "main", Diff: sampleDiff}})

	for _, marker := range []string{"## Recent Commits", "## Changed Files", "## Developer Hint", "## Previous Attempt Rejected", "## Refinement"} {
		assert.NotContains(t, user, marker)
	}
	assert.Equal(t, "Branch: main\n\n## Staged Diff\n"+sampleDiff, user)
}

func TestBuildUser_RefinementKeepsEveryInstructionInOrder(t *testing.T) {
	instructions := []string{"mention utc", "drop the scope", "use fix instead of feat", "mention utc"}
	user := BuildUser(Input{
		DiffContext: DiffContext{Branch: "main", Diff: sampleDiff},
		Refinement:  &Refinement{LastMessage: "feat: x", Instructions: instructions},
	})

	assert.Contains(t, user, "Previous commit message:\nfeat: x")
	assert.Contains(t, user, "1. mention utc\n2. drop the scope\n3. use fix instead of feat\n4. mention utc\n")
	assert.Contains(t, user, "at or under 50 characters")
}

func TestBuildSystem_DefaultExamples(t *testing.T) {
	system := BuildSystem(Options{})

	assert.Contains(t, system, "50 characters or fewer")
	assert.Contains(t, system, "- refactor: restructuring without behavior change")
	assert.Contains(t, system, "Write the subject and body in English")
	assert.NotContains(t, system, "## Project Context")
	assert.True(t, strings.HasSuffix(system, strings.Join(DefaultExamples, "\n\n")+"\n"))
}

func TestBuildSystem_CustomExamplesAndContext(t *testing.T) {
	system := BuildSystem(Options{
		Language:       lang.Japanese,
		ProjectContext: "A CLI for generating commit messages.",
		Style:          "terse",
		Examples:       []string{"feat: one", "fix: two"},
	})

	ctxIdx := strings.Index(system, "## Project Context")
	exIdx := strings.Index(system, "## Examples")
	require.NotEqual(t, -1, ctxIdx)
	assert.Greater(t, exIdx, ctxIdx)
	assert.Contains(t, system, "Preferred style: terse")
	assert.Contains(t, system, "Write the subject and body in Japanese")
	assert.True(t, strings.HasSuffix(system, "feat: one\n\nfix: two\n"))
	assert.NotContains(t, system, DefaultExamples[0])
}

func TestBuild_Deterministic(t *testing.T) {
	opts := Options{Style: "terse"}
	in := fullInput()

	assert.Equal(t, Build(opts, in), Build(opts, in))
}

func TestPrompt_Combined(t *testing.T) {
	p := Prompt{System: "sys", User: "usr"}
	assert.Equal(t, "sys\n\n---\n\nusr", p.Combined())
}
