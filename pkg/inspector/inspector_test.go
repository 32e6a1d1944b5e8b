package inspector

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pluginkit/skillgate/pkg/document"
	"github.com/pluginkit/skillgate/pkg/hookevent"
	"github.com/pluginkit/skillgate/pkg/rules"
)

func findingCodes(findings []Finding) []string {
	codes := make([]string, 0, len(findings))
	for _, f := range findings {
		codes = append(codes, f.Code)
	}
	return codes
}

func parseDoc(t *testing.T, path, content string) *document.Document {
	t.Helper()
	doc, err := document.Parse(path, []byte(content))
	require.NoError(t, err)
	return doc
}

func TestCheckRequiredFields(t *testing.T) {
	insp := New(t.TempDir(), nil)

	t.Run("agent missing tools and description gets one finding", func(t *testing.T) {
		doc := parseDoc(t, "agents/helper.md", "---\nname: helper\n---\nBody.\n")

		findings := insp.InspectDocument(doc)
		require.Len(t, findings, 1)
		assert.Equal(t, CodeMissingFields, findings[0].Code)
		assert.Contains(t, findings[0].Message, "description")
		assert.Contains(t, findings[0].Message, "tools")
		assert.NotContains(t, findings[0].Message, "name")
	})

	t.Run("complete agent passes", func(t *testing.T) {
		doc := parseDoc(t, "agents/helper.md", "---\nname: helper\ndescription: Helps\ntools: Read\n---\nBody.\n")
		assert.Empty(t, insp.InspectDocument(doc))
	})

	t.Run("skill requires only name and description", func(t *testing.T) {
		doc := parseDoc(t, "skills/x/SKILL.md", "---\nname: x\ndescription: A skill\n---\nBody.\n")
		assert.Empty(t, insp.InspectDocument(doc))
	})

	t.Run("command without frontmatter", func(t *testing.T) {
		doc := parseDoc(t, "commands/run.md", "# Run\n\nJust do it.\n")

		findings := insp.InspectDocument(doc)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "description")
	})
}

func TestCheckUnusedSkills(t *testing.T) {
	insp := New(t.TempDir(), nil)

	base := "---\nname: reviewer\ndescription: Reviews\ntools: Read\nskills: sql-optimizer\n---\n"

	t.Run("declared but never referenced", func(t *testing.T) {
		doc := parseDoc(t, "agents/reviewer.md", base+"Review the code carefully.\n")

		findings := insp.InspectDocument(doc)
		require.Len(t, findings, 1)
		assert.Equal(t, CodeUnusedSkills, findings[0].Code)
		assert.Contains(t, findings[0].Message, "sql-optimizer")
	})

	t.Run("referenced in body passes", func(t *testing.T) {
		doc := parseDoc(t, "agents/reviewer.md", base+"Apply the sql-optimizer skill to slow queries.\n")
		assert.Empty(t, insp.InspectDocument(doc))
	})

	t.Run("only the unused subset is named", func(t *testing.T) {
		content := "---\nname: r\ndescription: d\ntools: Read\nskills: [sql-optimizer, api-design]\n---\nUse api-design here.\n"
		doc := parseDoc(t, "agents/r.md", content)

		findings := insp.InspectDocument(doc)
		require.Len(t, findings, 1)
		assert.Contains(t, findings[0].Message, "sql-optimizer")
		assert.NotContains(t, findings[0].Message, "api-design")
	})
}

func TestCheckStagedWorkflow(t *testing.T) {
	insp := New(t.TempDir(), nil)

	header := "---\nname: w\ndescription: d\ntools: Read\n---\n"

	t.Run("three stages and no delegation flags", func(t *testing.T) {
		body := header + "## Phase 1\n\n## Phase 2\n\n## Phase 3\n\nDo everything inline.\n"
		doc := parseDoc(t, "agents/w.md", body)

		findings := insp.InspectDocument(doc)
		require.Len(t, findings, 1)
		assert.Equal(t, CodeUnderDelegation, findings[0].Code)
	})

	t.Run("enough delegation passes", func(t *testing.T) {
		body := header + "## Phase 1\n\nDelegate to a subagent.\n\n## Phase 2\n\n## Phase 3\n"
		doc := parseDoc(t, "agents/w.md", body)
		assert.Empty(t, insp.InspectDocument(doc))
	})

	t.Run("two stages are below the threshold", func(t *testing.T) {
		body := header + "## Phase 1\n\n## Phase 2\n\nNo delegation at all.\n"
		doc := parseDoc(t, "agents/w.md", body)
		assert.Empty(t, insp.InspectDocument(doc))
	})
}

func TestAfterFileWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("skill reference files are skipped", func(t *testing.T) {
		insp := New(t.TempDir(), nil)
		findings := insp.AfterFileWrite(ctx, "skills/sql-optimizer/reference.md", "no frontmatter at all")
		assert.Empty(t, findings)
	})

	t.Run("unknown files are skipped", func(t *testing.T) {
		insp := New(t.TempDir(), nil)
		assert.Empty(t, insp.AfterFileWrite(ctx, "docs/notes.md", "# Notes\n"))
	})

	t.Run("file trigger suggestion", func(t *testing.T) {
		rs := &rules.RuleSet{Skills: map[string]rules.SkillRule{
			"sql-optimizer": {
				FileTriggers: &rules.FileTriggers{
					PathGlobs:       []string{"**/*.sql"},
					ContentPatterns: []string{`(?i)select\s`},
				},
			},
		}}
		insp := New(t.TempDir(), rs)

		findings := insp.AfterFileWrite(ctx, "migrations/001_init.sql", "SELECT * FROM users;")
		require.Len(t, findings, 1)
		assert.Equal(t, CodeSkillSuggestion, findings[0].Code)
		assert.Contains(t, findings[0].Message, "sql-optimizer")
	})

	t.Run("path exclusion wins", func(t *testing.T) {
		rs := &rules.RuleSet{Skills: map[string]rules.SkillRule{
			"sql-optimizer": {
				FileTriggers: &rules.FileTriggers{
					PathGlobs:    []string{"**/*.sql"},
					PathExcludes: []string{"**/testdata/**"},
				},
			},
		}}
		insp := New(t.TempDir(), rs)

		assert.Empty(t, insp.AfterFileWrite(ctx, "pkg/testdata/fixture.sql", "SELECT 1;"))
	})

	t.Run("content pattern must match when present", func(t *testing.T) {
		rs := &rules.RuleSet{Skills: map[string]rules.SkillRule{
			"sql-optimizer": {
				FileTriggers: &rules.FileTriggers{
					PathGlobs:       []string{"**/*.sql"},
					ContentPatterns: []string{`(?i)select\s`},
				},
			},
		}}
		insp := New(t.TempDir(), rs)

		assert.Empty(t, insp.AfterFileWrite(ctx, "schema.sql", "-- empty placeholder"))
	})
}

func TestInspectDelegation(t *testing.T) {
	ctx := context.Background()

	t.Run("missing agent definition yields nothing", func(t *testing.T) {
		insp := New(t.TempDir(), nil)
		assert.Empty(t, insp.InspectDelegation(ctx, "ghost-agent"))
	})

	t.Run("namespaced identifier resolves the final segment", func(t *testing.T) {
		root := t.TempDir()
		agentsDir := filepath.Join(root, "agents")
		require.NoError(t, os.MkdirAll(agentsDir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(agentsDir, "reviewer.md"),
			[]byte("---\nname: reviewer\n---\nBody.\n"),
			0o644,
		))

		insp := New(root, nil)
		findings := insp.InspectDelegation(ctx, "my-plugin:reviewer")
		require.Len(t, findings, 1)
		assert.Equal(t, CodeMissingFields, findings[0].Code)
		assert.Equal(t, filepath.Join(root, "agents", "reviewer.md"), findings[0].Reference)
	})
}

func TestBeforeToolUse(t *testing.T) {
	ctx := context.Background()

	writeBundle := func(t *testing.T, manifest string) string {
		t.Helper()
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".claude-plugin"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".claude-plugin", "plugin.json"), []byte(manifest), 0o644))
		return root
	}

	completeManifest := `{"name": "my-plugin", "version": "1.0.0", "description": "A plugin"}`

	t.Run("publish command against complete bundle is allowed", func(t *testing.T) {
		insp := New(writeBundle(t, completeManifest), nil)

		decision := insp.BeforeToolUse(ctx, hookevent.ToolUsePayload{
			ToolName: "Bash",
			Args:     map[string]interface{}{"command": "npm publish"},
		})
		assert.False(t, decision.Blocked)
	})

	t.Run("publish command against broken bundle is blocked", func(t *testing.T) {
		insp := New(writeBundle(t, `{"name": "my-plugin"}`), nil)

		decision := insp.BeforeToolUse(ctx, hookevent.ToolUsePayload{
			ToolName: "Bash",
			Args:     map[string]interface{}{"command": "npm publish"},
		})
		require.True(t, decision.Blocked)
		assert.Contains(t, decision.Reason, "version")
		assert.Contains(t, decision.Reason, "description")
	})

	t.Run("non-publish command is ignored", func(t *testing.T) {
		insp := New(writeBundle(t, `{}`), nil)

		decision := insp.BeforeToolUse(ctx, hookevent.ToolUsePayload{
			ToolName: "Bash",
			Args:     map[string]interface{}{"command": "git status"},
		})
		assert.False(t, decision.Blocked)
		assert.Empty(t, decision.Findings)
	})

	t.Run("delegation is advisory only", func(t *testing.T) {
		root := writeBundle(t, completeManifest)
		require.NoError(t, os.MkdirAll(filepath.Join(root, "agents"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(root, "agents", "reviewer.md"),
			[]byte("---\nname: reviewer\n---\nBody.\n"),
			0o644,
		))

		insp := New(root, nil)
		decision := insp.BeforeToolUse(ctx, hookevent.ToolUsePayload{
			ToolName: "Task",
			Args:     map[string]interface{}{"subagent_type": "reviewer", "prompt": "go"},
		})
		assert.False(t, decision.Blocked)
		assert.Equal(t, []string{CodeMissingFields}, findingCodes(decision.Findings))
	})
}

func TestValidateStructure(t *testing.T) {
	t.Run("missing manifest is an issue", func(t *testing.T) {
		insp := New(t.TempDir(), nil)
		err := insp.ValidateStructure()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "plugin.json")
	})

	t.Run("complete bundle passes", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".claude-plugin"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(root, ".claude-plugin", "plugin.json"),
			[]byte(`{"name": "p", "version": "1.0.0", "description": "d"}`),
			0o644,
		))

		require.NoError(t, os.MkdirAll(filepath.Join(root, "agents"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(root, "agents", "a.md"),
			[]byte("---\nname: a\ndescription: d\ntools: Read\n---\nBody.\n"),
			0o644,
		))

		skillDir := filepath.Join(root, "skills", "s")
		require.NoError(t, os.MkdirAll(skillDir, 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(skillDir, "SKILL.md"),
			[]byte("---\nname: s\ndescription: d\n---\nBody.\n"),
			0o644,
		))

		require.NoError(t, os.MkdirAll(filepath.Join(root, "commands"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(root, "commands", "c.md"),
			[]byte("---\ndescription: d\n---\nBody.\n"),
			0o644,
		))

		assert.NoError(t, New(root, nil).ValidateStructure())
	})

	t.Run("skill directory without SKILL.md is an issue", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(root, ".claude-plugin"), 0o755))
		require.NoError(t, os.WriteFile(
			filepath.Join(root, ".claude-plugin", "plugin.json"),
			[]byte(`{"name": "p", "version": "1.0.0", "description": "d"}`),
			0o644,
		))
		require.NoError(t, os.MkdirAll(filepath.Join(root, "skills", "empty"), 0o755))

		err := New(root, nil).ValidateStructure()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SKILL.md")
	})
}
