// Package rules loads and models the skill-rules.json document that drives
// skill activation and compliance checks. Rules describe, per skill, the
// prompt triggers (keywords and intent regexes) and optional file triggers
// that make the skill relevant, plus a complexity-tier table whose detected
// tier pulls in additional skills automatically.
package rules

import (
	"encoding/json"
	"strings"
)

// Kind classifies a skill rule. Domain skills are suggested to the user;
// guardrail skills participate in enforcement.
type Kind int

// Kind values, decoded from the rule file's "kind" field.
const (
	KindDomain Kind = iota
	KindGuardrail
)

// ParseKind maps a rule-file string to a Kind. Unrecognized values fall
// back to KindDomain so a forward-compatible rule file never breaks matching.
func ParseKind(s string) Kind {
	if strings.EqualFold(strings.TrimSpace(s), "guardrail") {
		return KindGuardrail
	}
	return KindDomain
}

func (k Kind) String() string {
	if k == KindGuardrail {
		return "guardrail"
	}
	return "domain"
}

// UnmarshalJSON decodes a Kind from its rule-file string form.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*k = KindDomain
		return nil
	}
	*k = ParseKind(s)
	return nil
}

// Enforcement is the action level a rule carries when it fires.
type Enforcement int

// Enforcement values in increasing severity.
const (
	EnforceSuggest Enforcement = iota
	EnforceWarn
	EnforceBlock
)

// ParseEnforcement maps a rule-file string to an Enforcement level.
// Unrecognized values fall back to EnforceSuggest.
func ParseEnforcement(s string) Enforcement {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warn":
		return EnforceWarn
	case "block":
		return EnforceBlock
	default:
		return EnforceSuggest
	}
}

func (e Enforcement) String() string {
	switch e {
	case EnforceWarn:
		return "warn"
	case EnforceBlock:
		return "block"
	default:
		return "suggest"
	}
}

// UnmarshalJSON decodes an Enforcement from its rule-file string form.
func (e *Enforcement) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*e = EnforceSuggest
		return nil
	}
	*e = ParseEnforcement(s)
	return nil
}

// Priority orders matched skills for selection and display.
type Priority int

// Priority values. The zero value is PriorityUnknown so a rule that omits
// the field sorts last rather than first.
const (
	PriorityUnknown Priority = iota
	PriorityCritical
	PriorityHigh
	PriorityMedium
	PriorityLow
)

// ParsePriority maps a rule-file string to a Priority. Unrecognized values
// become PriorityUnknown rather than an error.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical":
		return PriorityCritical
	case "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	case "low":
		return PriorityLow
	default:
		return PriorityUnknown
	}
}

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "unknown"
	}
}

// Rank returns the sort rank for the priority: critical=0, high=1,
// medium=2, low=3, unknown=99.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return int(p) - 1
	default:
		return 99
	}
}

// UnmarshalJSON decodes a Priority from its rule-file string form.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*p = PriorityUnknown
		return nil
	}
	*p = ParsePriority(s)
	return nil
}

// PromptTriggers describe when a skill is relevant to a free-text prompt.
type PromptTriggers struct {
	// Keywords are lowercase substrings matched against the lowercased prompt
	Keywords []string `json:"keywords"`
	// IntentPatterns are regex sources compiled case-insensitively;
	// a pattern that fails to compile is skipped
	IntentPatterns []string `json:"intent_patterns"`
}

// FileTriggers describe when a skill is relevant to a written file.
type FileTriggers struct {
	// PathGlobs are doublestar patterns matched against the file path
	PathGlobs []string `json:"path_globs"`
	// PathExcludes remove paths that would otherwise match
	PathExcludes []string `json:"path_excludes"`
	// ContentPatterns are regex sources matched against the file content;
	// when present, at least one must match in addition to the path
	ContentPatterns []string `json:"content_patterns"`
}

// SkillRule is one entry in the rule file's "skills" mapping.
type SkillRule struct {
	Kind           Kind           `json:"kind"`
	Enforcement    Enforcement    `json:"enforcement_level"`
	Priority       Priority       `json:"priority"`
	PromptTriggers PromptTriggers `json:"prompt_triggers"`
	FileTriggers   *FileTriggers  `json:"file_triggers,omitempty"`
}

// ComplexityLevel holds the trigger keywords and auto-included skills for
// one complexity tier.
type ComplexityLevel struct {
	Keywords   []string `json:"keywords"`
	AutoSkills []string `json:"auto_skills"`
}

// ComplexityOrder is the fixed evaluation order for complexity detection.
// The first tier with a keyword hit wins, so advanced beats standard beats
// simple when a prompt matches more than one.
var ComplexityOrder = []string{"advanced", "standard", "simple"}

// RuleSet is the parsed skill-rules.json document.
type RuleSet struct {
	Version          string                     `json:"version"`
	Skills           map[string]SkillRule       `json:"skills"`
	ComplexityLevels map[string]ComplexityLevel `json:"complexity_levels"`
}

// Empty reports whether the rule set has no skills and no complexity tiers.
func (rs *RuleSet) Empty() bool {
	return rs == nil || (len(rs.Skills) == 0 && len(rs.ComplexityLevels) == 0)
}

// PriorityFor returns the declared priority for a skill name, or
// PriorityUnknown if the rule set has no rule for it.
func (rs *RuleSet) PriorityFor(name string) Priority {
	if rs == nil {
		return PriorityUnknown
	}
	rule, ok := rs.Skills[name]
	if !ok {
		return PriorityUnknown
	}
	return rule.Priority
}
