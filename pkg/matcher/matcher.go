// Package matcher recommends skills for a free-text prompt. A skill matches
// when any trigger keyword appears in the prompt or any intent regex matches
// it; a detected complexity tier additionally pulls in that tier's
// auto-included skills. Matching never fails: bad patterns are skipped and
// any internal problem yields an empty result.
package matcher

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/pluginkit/skillgate/pkg/logger"
	"github.com/pluginkit/skillgate/pkg/rules"
)

// Source records what made a skill match.
type Source int

// Match sources.
const (
	SourceKeyword Source = iota
	SourceIntent
	SourceComplexity
)

func (s Source) String() string {
	switch s {
	case SourceIntent:
		return "intent"
	case SourceComplexity:
		return "complexity"
	default:
		return "keyword"
	}
}

// Match is one recommended skill for a prompt.
type Match struct {
	Name     string
	Priority rules.Priority
	Source   Source
}

// Result is the outcome of matching one prompt.
type Result struct {
	// Matches are sorted by priority rank, stable on ties
	Matches []Match
	// Complexity is the detected tier name, "" when none matched
	Complexity string
}

// MatchPrompt evaluates a prompt against a rule set. An empty prompt or a
// nil rule set yields an empty result. The match list is unbounded; display
// truncation is the caller's concern.
func MatchPrompt(ctx context.Context, prompt string, ruleSet *rules.RuleSet) Result {
	if strings.TrimSpace(prompt) == "" || ruleSet.Empty() {
		return Result{}
	}

	normalized := strings.ToLower(prompt)

	var matches []Match
	seen := make(map[string]bool)

	// Iterate skills in a fixed order so ties sort deterministically
	names := make([]string, 0, len(ruleSet.Skills))
	for name := range ruleSet.Skills {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rule := ruleSet.Skills[name]
		source, ok := matchTriggers(ctx, normalized, rule.PromptTriggers)
		if !ok {
			continue
		}
		matches = append(matches, Match{Name: name, Priority: rule.Priority, Source: source})
		seen[name] = true
	}

	complexity, level := detectComplexity(normalized, ruleSet)
	if complexity != "" {
		for _, auto := range level.AutoSkills {
			if seen[auto] {
				continue
			}
			seen[auto] = true

			// Auto-included skills borrow the rule's own priority when it
			// has one, otherwise they slot in at medium
			priority := ruleSet.PriorityFor(auto)
			if priority == rules.PriorityUnknown {
				priority = rules.PriorityMedium
			}
			matches = append(matches, Match{Name: auto, Priority: priority, Source: SourceComplexity})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Priority.Rank() < matches[j].Priority.Rank()
	})

	return Result{Matches: matches, Complexity: complexity}
}

// matchTriggers reports whether the normalized prompt hits any keyword or
// intent pattern of a rule.
func matchTriggers(ctx context.Context, normalized string, triggers rules.PromptTriggers) (Source, bool) {
	for _, keyword := range triggers.Keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(normalized, strings.ToLower(keyword)) {
			return SourceKeyword, true
		}
	}

	for _, pattern := range triggers.IntentPatterns {
		re, err := regexp.Compile("(?i)" + pattern)
		if err != nil {
			logger.G(ctx).WithField("pattern", pattern).WithError(err).Debug("skipping invalid intent pattern")
			continue
		}
		if re.MatchString(normalized) {
			return SourceIntent, true
		}
	}

	return 0, false
}

// detectComplexity returns the first tier in rules.ComplexityOrder whose
// keyword set hits the normalized prompt. At most one tier is selected;
// advanced beats standard beats simple.
func detectComplexity(normalized string, ruleSet *rules.RuleSet) (string, rules.ComplexityLevel) {
	for _, tier := range rules.ComplexityOrder {
		level, ok := ruleSet.ComplexityLevels[tier]
		if !ok {
			continue
		}
		for _, keyword := range level.Keywords {
			if keyword == "" {
				continue
			}
			if strings.Contains(normalized, strings.ToLower(keyword)) {
				return tier, level
			}
		}
	}
	return "", rules.ComplexityLevel{}
}
