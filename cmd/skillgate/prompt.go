package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pluginkit/skillgate/pkg/hookevent"
	"github.com/pluginkit/skillgate/pkg/logger"
	"github.com/pluginkit/skillgate/pkg/matcher"
	"github.com/pluginkit/skillgate/pkg/report"
	"github.com/pluginkit/skillgate/pkg/rules"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Recommend skills for a submitted prompt (UserPromptSubmit hook)",
	Long: `Reads a UserPromptSubmit payload from stdin, matches the prompt against
the bundle's skill rules, and prints a recommendation block. Always exits
zero: prompt matching is advisory and fails open.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		payload, err := hookevent.DecodePrompt(os.Stdin)
		if err != nil {
			logger.G(ctx).WithError(err).Debug("unreadable prompt payload")
			return
		}

		repo, err := newRepository(payload.CWD)
		if err != nil {
			logger.G(ctx).WithError(err).Debug("no rule repository")
			return
		}

		result := matcher.MatchPrompt(ctx, payload.Prompt, repo.Load(ctx))
		if len(result.Matches) == 0 {
			return
		}

		lines := make([]string, 0, len(result.Matches))
		for _, m := range result.Matches {
			lines = append(lines, fmt.Sprintf("[%s] %s", m.Priority, m.Name))
		}
		lines = report.Truncate(lines, report.DisplayLimit)

		title := "Skill Suggestions"
		if result.Complexity != "" {
			title = fmt.Sprintf("Skill Suggestions (%s task)", result.Complexity)
		}

		fmt.Println(report.Render(title, lines, "💡"))
	},
}

// newRepository builds a rule repository rooted at the payload working
// directory when the host provides one, the process working directory
// otherwise.
func newRepository(cwd string) (*rules.Repository, error) {
	if root := viper.GetString("plugin_root"); root != "" {
		return rules.NewRepository(rules.WithStartDir(root))
	}
	if cwd != "" {
		return rules.NewRepository(rules.WithStartDir(cwd))
	}
	return rules.NewRepository()
}
