// Package inspector checks tool invocations against the plugin bundle's
// structural conventions. File writes and sub-agent delegations produce
// advisory findings; deployment-intent shell commands are gated on a
// structural validation of the whole bundle, the one check that blocks.
package inspector

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/pluginkit/skillgate/pkg/document"
	"github.com/pluginkit/skillgate/pkg/hookevent"
	"github.com/pluginkit/skillgate/pkg/logger"
	"github.com/pluginkit/skillgate/pkg/rules"
)

// Finding codes. Stable identifiers surfaced to the user alongside the
// message, so downstream tooling can filter on them.
const (
	CodeMissingFields   = "W031"
	CodeUnusedSkills    = "W032"
	CodeUnderDelegation = "W033"
	CodeSkillSuggestion = "S010"
)

// Finding is one advisory compliance issue for an inspected document.
type Finding struct {
	Code      string
	Message   string
	Action    string
	Reference string
}

// Decision is the outcome of a pre-tool-use inspection. Only the publish
// guard ever sets Blocked; PublishChecked marks that the guard ran, so
// callers can report a pass.
type Decision struct {
	Blocked        bool
	Reason         string
	PublishChecked bool
	Findings       []Finding
}

// requiredFields per document type. One finding lists every missing field.
var requiredFields = map[document.Type][]string{
	document.TypeAgent:   {"name", "description", "tools"},
	document.TypeSkill:   {"name", "description"},
	document.TypeCommand: {"description"},
}

// Inspector runs compliance checks against a plugin root.
type Inspector struct {
	root       string
	ruleSet    *rules.RuleSet
	heuristics Heuristics
}

// Option configures an Inspector
type Option func(*Inspector)

// WithHeuristics overrides the default pattern set.
func WithHeuristics(h Heuristics) Option {
	return func(i *Inspector) {
		i.heuristics = h
	}
}

// New creates an inspector for a plugin root. The rule set may be nil;
// rule-driven suggestions are simply skipped then.
func New(root string, ruleSet *rules.RuleSet, opts ...Option) *Inspector {
	i := &Inspector{
		root:       root,
		ruleSet:    ruleSet,
		heuristics: DefaultHeuristics(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// BeforeToolUse inspects an about-to-run tool call. Delegations get their
// target agent checked (advisory); deployment-intent commands trigger the
// publish guard, the single blocking path.
func (i *Inspector) BeforeToolUse(ctx context.Context, payload hookevent.ToolUsePayload) Decision {
	if cmd, ok := payload.CommandArgs(); ok && i.heuristics.IsPublishCommand(cmd.Command) {
		return i.guardPublish(ctx, cmd.Command)
	}

	if delegate, ok := payload.DelegateArgs(); ok {
		return Decision{Findings: i.InspectDelegation(ctx, delegate.Subagent)}
	}

	return Decision{}
}

// AfterFileWrite inspects a just-written plugin document and returns
// advisory findings. Unknown and skill-reference files yield nothing, as
// does any file that cannot be parsed.
func (i *Inspector) AfterFileWrite(ctx context.Context, filePath, content string) []Finding {
	var findings []Finding

	doc, err := document.Parse(filePath, []byte(content))
	if err != nil {
		logger.G(ctx).WithField("path", filePath).WithError(err).Debug("skipping unparseable document")
	} else if doc.Type.Checkable() {
		findings = append(findings, i.InspectDocument(doc)...)
	}

	findings = append(findings, i.fileTriggerSuggestions(filePath, content)...)
	return findings
}

// InspectDelegation resolves the delegation target's agent definition by
// naming convention and runs the document checks against it. A missing or
// unreadable definition means nothing to check.
func (i *Inspector) InspectDelegation(ctx context.Context, identifier string) []Finding {
	path := document.AgentPath(i.root, identifier)

	doc, err := document.Load(path)
	if err != nil {
		logger.G(ctx).WithField("agent", identifier).Debug("no agent definition to inspect")
		return nil
	}

	findings := i.InspectDocument(doc)
	for idx := range findings {
		findings[idx].Reference = path
	}
	return findings
}

// InspectDocument applies the content checks for the document's type.
func (i *Inspector) InspectDocument(doc *document.Document) []Finding {
	var findings []Finding

	if f := i.checkRequiredFields(doc); f != nil {
		findings = append(findings, *f)
	}
	if f := i.checkUnusedSkills(doc); f != nil {
		findings = append(findings, *f)
	}
	if f := i.checkStagedWorkflow(doc); f != nil {
		findings = append(findings, *f)
	}

	return findings
}

// checkRequiredFields emits one finding per document listing every missing
// required frontmatter field for its type.
func (i *Inspector) checkRequiredFields(doc *document.Document) *Finding {
	required, ok := requiredFields[doc.Type]
	if !ok {
		return nil
	}

	var missing []string
	for _, field := range required {
		if !doc.HasField(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return &Finding{
		Code:    CodeMissingFields,
		Message: fmt.Sprintf("%s is missing required frontmatter fields: %s", doc.Type, strings.Join(missing, ", ")),
		Action:  "add the missing fields to the frontmatter block",
	}
}

// checkUnusedSkills emits a finding when the frontmatter declares skills
// that the body never references.
func (i *Inspector) checkUnusedSkills(doc *document.Document) *Finding {
	declared := doc.StringListField("skills")
	if len(declared) == 0 {
		return nil
	}

	var unused []string
	for _, skill := range declared {
		if !invokes(doc.Body, skill) {
			unused = append(unused, skill)
		}
	}
	if len(unused) == 0 {
		return nil
	}

	return &Finding{
		Code:    CodeUnusedSkills,
		Message: fmt.Sprintf("declared skills never invoked in body: %s", strings.Join(unused, ", ")),
		Action:  "reference each declared skill where the workflow uses it, or drop the declaration",
	}
}

// checkStagedWorkflow emits a finding when a document lays out a staged
// workflow but delegates fewer than half of its stages.
func (i *Inspector) checkStagedWorkflow(doc *document.Document) *Finding {
	stages := i.heuristics.CountStages(doc.Body)
	if stages < i.heuristics.MinStages {
		return nil
	}

	delegations := i.heuristics.CountDelegations(doc.Body)
	if delegations*2 >= stages {
		return nil
	}

	return &Finding{
		Code:    CodeUnderDelegation,
		Message: fmt.Sprintf("%d workflow stages but only %d delegation markers", stages, delegations),
		Action:  "delegate individual stages to sub-agents instead of inlining the whole workflow",
	}
}

// fileTriggerSuggestions surfaces skills whose file triggers match a
// written file.
func (i *Inspector) fileTriggerSuggestions(filePath, content string) []Finding {
	if i.ruleSet == nil {
		return nil
	}

	path := filepath.ToSlash(filePath)
	if rel, err := filepath.Rel(i.root, filePath); err == nil && !strings.HasPrefix(rel, "..") {
		path = filepath.ToSlash(rel)
	}

	var findings []Finding
	for _, name := range sortedSkillNames(i.ruleSet) {
		rule := i.ruleSet.Skills[name]
		if rule.FileTriggers == nil {
			continue
		}
		if !matchesFileTriggers(path, content, rule.FileTriggers) {
			continue
		}
		findings = append(findings, Finding{
			Code:    CodeSkillSuggestion,
			Message: fmt.Sprintf("file matches triggers for skill '%s'", name),
			Action:  fmt.Sprintf("consider applying the '%s' skill", name),
		})
	}
	return findings
}

// matchesFileTriggers applies path globs, exclusions, and content patterns.
// An invalid glob or regex is skipped, never fatal.
func matchesFileTriggers(path, content string, triggers *rules.FileTriggers) bool {
	matched := false
	for _, pattern := range triggers.PathGlobs {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	for _, pattern := range triggers.PathExcludes {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return false
		}
	}

	if len(triggers.ContentPatterns) == 0 {
		return true
	}
	for _, pattern := range triggers.ContentPatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			continue
		}
		if re.MatchString(content) {
			return true
		}
	}
	return false
}

func sortedSkillNames(rs *rules.RuleSet) []string {
	names := make([]string, 0, len(rs.Skills))
	for name := range rs.Skills {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
