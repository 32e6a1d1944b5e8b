package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pluginkit/skillgate/pkg/hookevent"
	"github.com/pluginkit/skillgate/pkg/logger"
)

var postToolCmd = &cobra.Command{
	Use:   "post-tool",
	Short: "Inspect a finished tool call (PostToolUse hook)",
	Long: `Reads a PostToolUse payload from stdin. Writes to plugin documents are
checked for convention compliance and matched against skill file triggers.
Findings are advisory; the hook always exits zero.`,
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		payload, err := hookevent.DecodeToolUse(os.Stdin)
		if err != nil {
			logger.G(ctx).WithError(err).Debug("unreadable tool use payload")
			return
		}

		write, ok := payload.WriteArgs()
		if !ok {
			return
		}

		insp, err := newInspector(ctx, payload.CWD)
		if err != nil {
			logger.G(ctx).WithError(err).Debug("no inspector")
			return
		}

		printFindings("Compliance Findings", insp.AfterFileWrite(ctx, write.FilePath, write.Content))
	},
}
