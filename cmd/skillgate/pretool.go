package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pluginkit/skillgate/pkg/hookevent"
	"github.com/pluginkit/skillgate/pkg/inspector"
	"github.com/pluginkit/skillgate/pkg/logger"
	"github.com/pluginkit/skillgate/pkg/presenter"
	"github.com/pluginkit/skillgate/pkg/report"
)

var preToolCmd = &cobra.Command{
	Use:   "pre-tool",
	Short: "Inspect an about-to-run tool call (PreToolUse hook)",
	Long: `Reads a PreToolUse payload from stdin. Delegation targets are checked
for convention compliance (advisory). Deployment-intent shell commands are
gated on a structural validation of the bundle: on failure the command is
blocked via exit code 2 with the issues on stderr.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		payload, err := hookevent.DecodeToolUse(os.Stdin)
		if err != nil {
			logger.G(ctx).WithError(err).Debug("unreadable tool use payload")
			return
		}

		insp, err := newInspector(ctx, payload.CWD)
		if err != nil {
			logger.G(ctx).WithError(err).Debug("no inspector")
			return
		}

		decision := insp.BeforeToolUse(ctx, payload)
		if decision.Blocked {
			fmt.Fprintln(os.Stderr, decision.Reason)
			os.Exit(blockExitCode)
		}

		if decision.PublishChecked {
			presenter.Success("plugin bundle passed structural validation")
		}

		printFindings("Compliance Findings", decision.Findings)
	},
}

// newInspector builds an inspector rooted at the resolved plugin root,
// with the bundle's rule set when one exists.
func newInspector(ctx context.Context, cwd string) (*inspector.Inspector, error) {
	repo, err := newRepository(cwd)
	if err != nil {
		return nil, err
	}
	return inspector.New(repo.PluginRoot(), repo.Load(ctx)), nil
}

// printFindings renders advisory findings as a boxed block on stdout.
func printFindings(title string, findings []inspector.Finding) {
	if len(findings) == 0 {
		return
	}

	lines := make([]string, 0, len(findings))
	for _, f := range findings {
		line := fmt.Sprintf("[%s] %s", f.Code, f.Message)
		if f.Action != "" {
			line += ". " + f.Action
		}
		lines = append(lines, line)
	}

	fmt.Println(report.Render(title, lines, "⚠"))
}
