package rules

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/pluginkit/skillgate/pkg/logger"
)

// maxRootWalk bounds the upward search for the plugin root.
const maxRootWalk = 10

// rootMarkers identify a directory as a plugin root. The manifest directory
// and the tool-config directory are checked before the bare rules file.
var rootMarkers = []string{
	".claude-plugin",
	".claude",
	"skill-rules.json",
}

// ruleFileCandidates are probed in order, relative to the plugin root.
// The first candidate that exists and parses wins.
var ruleFileCandidates = []string{
	filepath.Join(".claude", "skill-rules.json"),
	filepath.Join(".claude-plugin", "skill-rules.json"),
	filepath.Join("skills", "skill-rules.json"),
	"skill-rules.json",
}

// Repository locates and parses the rule file for a plugin root. The parsed
// rule set is memoized per instance; hook processes are single-shot and
// single-threaded, so a plain field is enough.
type Repository struct {
	startDir string

	loaded bool
	cached *RuleSet
}

// RepositoryOption configures a Repository
type RepositoryOption func(*Repository)

// WithStartDir sets the directory the root search starts from.
// Defaults to the process working directory.
func WithStartDir(dir string) RepositoryOption {
	return func(r *Repository) {
		r.startDir = dir
	}
}

// NewRepository creates a rule repository
func NewRepository(opts ...RepositoryOption) (*Repository, error) {
	r := &Repository{}
	for _, opt := range opts {
		opt(r)
	}

	if r.startDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
		r.startDir = cwd
	}

	return r, nil
}

// PluginRoot walks upward from the start directory looking for a directory
// containing any root marker, stopping after maxRootWalk levels or at the
// filesystem root. If no marker is found the start directory is returned.
func (r *Repository) PluginRoot() string {
	dir := r.startDir
	for i := 0; i < maxRootWalk; i++ {
		for _, marker := range rootMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return r.startDir
}

// Load returns the rule set for the plugin root, or nil when no candidate
// file exists or parses. Absent and malformed files are both non-fatal:
// a nil rule set means "nothing to suggest", never an error.
func (r *Repository) Load(ctx context.Context) *RuleSet {
	if r.loaded {
		return r.cached
	}
	r.loaded = true

	root := r.PluginRoot()
	log := logger.G(ctx).WithField("plugin_root", root)

	for _, candidate := range ruleFileCandidates {
		path := filepath.Join(root, candidate)

		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var rs RuleSet
		if err := json.Unmarshal(data, &rs); err != nil {
			log.WithField("path", path).WithError(err).Warn("skipping malformed rule file")
			continue
		}

		log.WithField("path", path).WithField("skills", len(rs.Skills)).Debug("loaded skill rules")
		r.cached = &rs
		return r.cached
	}

	log.Debug("no skill rules found")
	return nil
}
