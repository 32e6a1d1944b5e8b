package inspector

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/pluginkit/skillgate/pkg/document"
	"github.com/pluginkit/skillgate/pkg/logger"
)

// manifestPath is the plugin manifest location relative to the root.
var manifestPath = filepath.Join(".claude-plugin", "plugin.json")

// manifestRequiredFields must be non-empty in the manifest for a bundle to
// be publishable.
var manifestRequiredFields = []string{"name", "version", "description"}

// guardPublish runs the structural validation pass and blocks the command
// when the bundle has issues. This is the single fail-closed path.
func (i *Inspector) guardPublish(ctx context.Context, command string) Decision {
	log := logger.G(ctx).WithField("command", command)

	if err := i.ValidateStructure(); err != nil {
		log.WithError(err).Warn("blocking deployment command")
		return Decision{
			Blocked:        true,
			Reason:         fmt.Sprintf("plugin bundle failed structural validation:\n%s", err),
			PublishChecked: true,
		}
	}

	log.Debug("structural validation passed")
	return Decision{PublishChecked: true}
}

// ValidateStructure checks the plugin bundle for publishability: manifest
// required fields, agent and command frontmatter, and a SKILL.md in every
// skill directory. All issues are collected, not just the first.
func (i *Inspector) ValidateStructure() error {
	var result *multierror.Error

	result = multierror.Append(result, i.validateManifest()...)
	result = multierror.Append(result, i.validateAgents()...)
	result = multierror.Append(result, i.validateSkills()...)
	result = multierror.Append(result, i.validateCommands()...)

	return result.ErrorOrNil()
}

func (i *Inspector) validateManifest() []error {
	path := filepath.Join(i.root, manifestPath)

	data, err := os.ReadFile(path)
	if err != nil {
		return []error{errors.Errorf("manifest %s is missing", manifestPath)}
	}

	var manifest map[string]interface{}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return []error{errors.Wrapf(err, "manifest %s is not valid JSON", manifestPath)}
	}

	var errs []error
	for _, field := range manifestRequiredFields {
		value, _ := manifest[field].(string)
		if strings.TrimSpace(value) == "" {
			errs = append(errs, errors.Errorf("manifest is missing required field '%s'", field))
		}
	}
	return errs
}

func (i *Inspector) validateAgents() []error {
	return i.validateDocDir("agents", document.TypeAgent)
}

func (i *Inspector) validateCommands() []error {
	return i.validateDocDir("commands", document.TypeCommand)
}

// validateDocDir checks every markdown file in a bundle directory for
// frontmatter and the type's required fields. A missing directory is fine;
// the bundle simply has none of that document type.
func (i *Inspector) validateDocDir(dir string, docType document.Type) []error {
	entries, err := os.ReadDir(filepath.Join(i.root, dir))
	if err != nil {
		return nil
	}

	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		rel := filepath.Join(dir, entry.Name())
		doc, err := document.Load(filepath.Join(i.root, rel))
		if err != nil {
			errs = append(errs, errors.Errorf("%s is unreadable", rel))
			continue
		}

		if !doc.HasFrontmatter() {
			errs = append(errs, errors.Errorf("%s has no frontmatter", rel))
			continue
		}

		for _, field := range requiredFields[docType] {
			if !doc.HasField(field) {
				errs = append(errs, errors.Errorf("%s is missing required field '%s'", rel, field))
			}
		}
	}
	return errs
}

// validateSkills checks that every skill directory carries a SKILL.md with
// the skill required fields.
func (i *Inspector) validateSkills() []error {
	skillsDir := filepath.Join(i.root, "skills")

	entries, err := os.ReadDir(skillsDir)
	if err != nil {
		return nil
	}

	var errs []error
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		rel := filepath.Join("skills", entry.Name(), document.SkillFileName)
		doc, err := document.Load(filepath.Join(i.root, rel))
		if err != nil {
			errs = append(errs, errors.Errorf("skill directory skills/%s has no %s", entry.Name(), document.SkillFileName))
			continue
		}

		if !doc.HasFrontmatter() {
			errs = append(errs, errors.Errorf("%s has no frontmatter", rel))
			continue
		}

		for _, field := range requiredFields[document.TypeSkill] {
			if !doc.HasField(field) {
				errs = append(errs, errors.Errorf("%s is missing required field '%s'", rel, field))
			}
		}
	}
	return errs
}
