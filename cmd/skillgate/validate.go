package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pluginkit/skillgate/pkg/inspector"
	"github.com/pluginkit/skillgate/pkg/presenter"
	"github.com/pluginkit/skillgate/pkg/rules"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Run structural validation over a plugin bundle",
	Long: `Runs the same structural validation pass the publish guard uses:
manifest required fields, agent and command frontmatter, and a SKILL.md in
every skill directory. Exits non-zero when the bundle has issues.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		insp, err := validationInspector(ctx, args)
		if err != nil {
			return err
		}

		if err := insp.ValidateStructure(); err != nil {
			return err
		}

		presenter.Success("plugin bundle passed structural validation")
		return nil
	},
}

func validationInspector(ctx context.Context, args []string) (*inspector.Inspector, error) {
	var repo *rules.Repository
	var err error
	if len(args) == 1 {
		repo, err = rules.NewRepository(rules.WithStartDir(args[0]))
	} else {
		repo, err = newRepository("")
	}
	if err != nil {
		return nil, err
	}
	return inspector.New(repo.PluginRoot(), repo.Load(ctx)), nil
}
