// Package document loads the markdown documents a plugin bundle is made of:
// agent definitions, skill files, and command files, each carrying YAML
// frontmatter. Files are classified by their path inside the bundle and
// parsed with goldmark's meta extension.
package document

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

// SkillFileName is the sentinel filename that marks a skill's entry document.
const SkillFileName = "SKILL.md"

// Type classifies a file inside a plugin bundle.
type Type int

// Document types. TypeSkillRef covers supporting files inside a skill
// directory that are not the skill sentinel itself.
const (
	TypeUnknown Type = iota
	TypeAgent
	TypeSkill
	TypeSkillRef
	TypeCommand
)

func (t Type) String() string {
	switch t {
	case TypeAgent:
		return "agent"
	case TypeSkill:
		return "skill"
	case TypeSkillRef:
		return "skill_ref"
	case TypeCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Checkable reports whether content checks apply to this document type.
// Supporting skill files and unclassified files are never checked.
func (t Type) Checkable() bool {
	return t == TypeAgent || t == TypeSkill || t == TypeCommand
}

// Classify determines the document type from the file path. A file under an
// "agents" segment is an agent, a SKILL.md under a "skills" segment is a
// skill, any other file under "skills" is a skill reference, and a file
// under "commands" is a command.
func Classify(path string) Type {
	segments := strings.Split(filepath.ToSlash(path), "/")
	base := segments[len(segments)-1]

	for _, segment := range segments[:len(segments)-1] {
		switch segment {
		case "agents":
			return TypeAgent
		case "skills":
			if base == SkillFileName {
				return TypeSkill
			}
			return TypeSkillRef
		case "commands":
			return TypeCommand
		}
	}
	return TypeUnknown
}

// Document is a parsed plugin markdown file.
type Document struct {
	Type Type
	Path string
	// Meta is the raw YAML frontmatter, nil when the file has none
	Meta map[string]interface{}
	Body string
}

// Parse builds a Document from raw file content. The type is derived from
// the path; content that has no frontmatter yields a nil Meta and the full
// content as body.
func Parse(path string, content []byte) (*Document, error) {
	md := goldmark.New(
		goldmark.WithExtensions(meta.Meta),
	)

	var buf bytes.Buffer
	pctx := parser.NewContext()

	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrapf(err, "failed to parse markdown in '%s'", path)
	}

	return &Document{
		Type: Classify(path),
		Path: path,
		Meta: meta.Get(pctx),
		Body: extractBodyContent(string(content)),
	}, nil
}

// Load reads and parses a plugin markdown file.
func Load(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read document '%s'", path)
	}
	return Parse(path, content)
}

// HasFrontmatter reports whether the document carried a YAML frontmatter block.
func (d *Document) HasFrontmatter() bool {
	return d.Meta != nil
}

// StringField returns a frontmatter field as a string, or "" when absent
// or not a string.
func (d *Document) StringField(name string) string {
	if d.Meta == nil {
		return ""
	}
	s, _ := d.Meta[name].(string)
	return s
}

// HasField reports whether the frontmatter declares a non-empty field of
// any shape.
func (d *Document) HasField(name string) bool {
	if d.Meta == nil {
		return false
	}
	v, ok := d.Meta[name]
	if !ok || v == nil {
		return false
	}
	if s, isString := v.(string); isString {
		return strings.TrimSpace(s) != ""
	}
	return true
}

// StringListField returns a frontmatter field as a list of strings. Both
// YAML sequences and comma-separated scalars are accepted, matching how
// bundle authors write `skills: a, b` and `skills: [a, b]` interchangeably.
func (d *Document) StringListField(name string) []string {
	if d.Meta == nil {
		return nil
	}

	switch v := d.Meta[name].(type) {
	case []interface{}:
		var result []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					result = append(result, trimmed)
				}
			}
		}
		return result
	case string:
		var result []string
		for _, item := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	default:
		return nil
	}
}

// AgentPath returns the conventional path of an agent definition under a
// plugin root. Namespaced identifiers keep only the final segment, so
// "my-plugin:code-reviewer" resolves the same file as "code-reviewer".
func AgentPath(root, identifier string) string {
	name := identifier
	if idx := strings.LastIndex(identifier, ":"); idx >= 0 {
		name = identifier[idx+1:]
	}
	return filepath.Join(root, "agents", name+".md")
}

// extractBodyContent removes YAML frontmatter and returns the body
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	frontmatterEnd := -1

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			frontmatterEnd = i
			break
		}
	}

	if frontmatterEnd == -1 {
		return content
	}

	return strings.TrimLeft(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
}
