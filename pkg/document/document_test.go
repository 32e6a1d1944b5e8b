package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Type
	}{
		{"agents/code-reviewer.md", TypeAgent},
		{"/plugin/agents/deep/helper.md", TypeAgent},
		{"skills/sql-optimizer/SKILL.md", TypeSkill},
		{"skills/sql-optimizer/reference.md", TypeSkillRef},
		{"skills/sql-optimizer/examples/slow.sql", TypeSkillRef},
		{"commands/review.md", TypeCommand},
		{"docs/README.md", TypeUnknown},
		{"SKILL.md", TypeUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.path), "path %q", tt.path)
	}
}

func TestCheckable(t *testing.T) {
	assert.True(t, TypeAgent.Checkable())
	assert.True(t, TypeSkill.Checkable())
	assert.True(t, TypeCommand.Checkable())
	assert.False(t, TypeSkillRef.Checkable())
	assert.False(t, TypeUnknown.Checkable())
}

func TestParse(t *testing.T) {
	t.Run("document with frontmatter", func(t *testing.T) {
		content := `---
name: code-reviewer
description: Reviews pull requests
tools: Read, Grep
skills:
  - sql-optimizer
---

# Code Reviewer

Review the diff carefully.
`
		doc, err := Parse("agents/code-reviewer.md", []byte(content))
		require.NoError(t, err)

		assert.Equal(t, TypeAgent, doc.Type)
		assert.True(t, doc.HasFrontmatter())
		assert.Equal(t, "code-reviewer", doc.StringField("name"))
		assert.True(t, doc.HasField("tools"))
		assert.False(t, doc.HasField("model"))
		assert.Equal(t, []string{"sql-optimizer"}, doc.StringListField("skills"))
		assert.Contains(t, doc.Body, "# Code Reviewer")
		assert.NotContains(t, doc.Body, "description:")
	})

	t.Run("document without frontmatter", func(t *testing.T) {
		doc, err := Parse("commands/review.md", []byte("# Review\n\nJust a body.\n"))
		require.NoError(t, err)

		assert.False(t, doc.HasFrontmatter())
		assert.Equal(t, "", doc.StringField("name"))
		assert.Contains(t, doc.Body, "# Review")
	})

	t.Run("comma-separated list field", func(t *testing.T) {
		content := "---\nskills: sql-optimizer, api-design\n---\nbody\n"
		doc, err := Parse("agents/a.md", []byte(content))
		require.NoError(t, err)
		assert.Equal(t, []string{"sql-optimizer", "api-design"}, doc.StringListField("skills"))
	})

	t.Run("empty string field does not count as present", func(t *testing.T) {
		content := "---\nname: \"\"\ndescription: real\n---\nbody\n"
		doc, err := Parse("agents/a.md", []byte(content))
		require.NoError(t, err)
		assert.False(t, doc.HasField("name"))
		assert.True(t, doc.HasField("description"))
	})
}

func TestLoad(t *testing.T) {
	t.Run("reads from disk", func(t *testing.T) {
		dir := t.TempDir()
		agentDir := filepath.Join(dir, "agents")
		require.NoError(t, os.MkdirAll(agentDir, 0o755))

		path := filepath.Join(agentDir, "helper.md")
		require.NoError(t, os.WriteFile(path, []byte("---\nname: helper\n---\nBody.\n"), 0o644))

		doc, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, TypeAgent, doc.Type)
		assert.Equal(t, "helper", doc.StringField("name"))
	})

	t.Run("missing file returns error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.md"))
		assert.Error(t, err)
	})
}

func TestAgentPath(t *testing.T) {
	assert.Equal(t, filepath.Join("/root", "agents", "reviewer.md"), AgentPath("/root", "reviewer"))
	assert.Equal(t, filepath.Join("/root", "agents", "reviewer.md"), AgentPath("/root", "my-plugin:reviewer"))
	assert.Equal(t, filepath.Join("/root", "agents", "reviewer.md"), AgentPath("/root", "a:b:reviewer"))
}
