package inspector

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// Heuristics holds the text-scanning patterns the inspector applies to
// plugin documents. They live here as data rather than inline literals so
// they can be tuned and tested independently of check logic.
type Heuristics struct {
	// StageHeadings detect sequential workflow stages in a document body
	StageHeadings []*regexp.Regexp
	// DelegationMarkers detect explicit sub-agent or skill invocation
	DelegationMarkers []*regexp.Regexp
	// MinStages is the stage count at or above which delegation coverage
	// is checked
	MinStages int
	// PublishIntent are glob patterns matched against the lowercased
	// command text of shell tool calls
	PublishIntent []glob.Glob
}

// publishIntentPatterns are deployment-intent command shapes. Matching is
// on the lowercased command, so the patterns are lowercase.
var publishIntentPatterns = []string{
	"*publish*",
	"*deploy*",
	"*release*",
	"*git push*--tags*",
	"*goreleaser*",
}

// DefaultHeuristics returns the stock pattern set.
func DefaultHeuristics() Heuristics {
	h := Heuristics{
		StageHeadings: []*regexp.Regexp{
			regexp.MustCompile(`(?mi)^#{1,6}\s+.*\b(phase|step|stage)\b`),
			regexp.MustCompile(`(?m)^#{1,6}\s+\d+[.):]\s`),
			regexp.MustCompile(`(?mi)^#{1,6}\s+(first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth)\b`),
		},
		DelegationMarkers: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bdelegate\b`),
			regexp.MustCompile(`\bTask\s*\(`),
			regexp.MustCompile(`(?i)\bsubagent\b`),
			regexp.MustCompile(`(?i)\buse the .{1,60} agent\b`),
		},
		MinStages: 3,
	}

	for _, pattern := range publishIntentPatterns {
		h.PublishIntent = append(h.PublishIntent, glob.MustCompile(pattern))
	}

	return h
}

// CountStages returns the number of stage headings in a document body.
func (h Heuristics) CountStages(body string) int {
	count := 0
	for _, re := range h.StageHeadings {
		count += len(re.FindAllStringIndex(body, -1))
	}
	return count
}

// CountDelegations returns the number of explicit invocation markers in a
// document body.
func (h Heuristics) CountDelegations(body string) int {
	count := 0
	for _, re := range h.DelegationMarkers {
		count += len(re.FindAllStringIndex(body, -1))
	}
	return count
}

// IsPublishCommand reports whether the command text signals deployment
// intent. Matching is case-insensitive.
func (h Heuristics) IsPublishCommand(command string) bool {
	lowered := strings.ToLower(command)
	for _, g := range h.PublishIntent {
		if g.Match(lowered) {
			return true
		}
	}
	return false
}

// invokes reports whether a document body references an item by name,
// case-insensitive. Skill names are hyphenated, so plain \b boundaries
// would treat "sql-optimizer-v2" as a reference to "sql-optimizer"; the
// boundary here excludes word characters and hyphens on both sides.
func invokes(body, name string) bool {
	re, err := regexp.Compile(fmt.Sprintf(`(?i)(^|[^\w-])%s([^\w-]|$)`, regexp.QuoteMeta(name)))
	if err != nil {
		return false
	}
	return re.MatchString(body)
}
