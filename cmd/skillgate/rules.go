package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pluginkit/skillgate/pkg/presenter"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the loaded skill rules",
	Long: `Resolves the plugin root, loads the rule file, and lists every skill
rule with its kind, priority, and trigger counts. Useful for checking what
a bundle's rule file actually provides.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		repo, err := newRepository("")
		if err != nil {
			return err
		}

		ruleSet := repo.Load(ctx)
		if ruleSet.Empty() {
			presenter.Info(fmt.Sprintf("no skill rules found under %s", repo.PluginRoot()))
			return nil
		}

		presenter.Info(fmt.Sprintf("plugin root: %s", repo.PluginRoot()))
		presenter.Info(fmt.Sprintf("rule file version: %s", ruleSet.Version))

		names := make([]string, 0, len(ruleSet.Skills))
		for name := range ruleSet.Skills {
			names = append(names, name)
		}
		sort.Strings(names)

		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "SKILL\tKIND\tPRIORITY\tKEYWORDS\tPATTERNS\tFILE TRIGGERS")
		fmt.Fprintln(tw, "-----\t----\t--------\t--------\t--------\t-------------")
		for _, name := range names {
			rule := ruleSet.Skills[name]

			fileTriggers := "no"
			if rule.FileTriggers != nil {
				fileTriggers = "yes"
			}

			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
				name, rule.Kind, rule.Priority,
				len(rule.PromptTriggers.Keywords),
				len(rule.PromptTriggers.IntentPatterns),
				fileTriggers)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		if len(ruleSet.ComplexityLevels) > 0 {
			tiers := make([]string, 0, len(ruleSet.ComplexityLevels))
			for tier := range ruleSet.ComplexityLevels {
				tiers = append(tiers, tier)
			}
			sort.Strings(tiers)
			presenter.Info(fmt.Sprintf("complexity tiers: %s", strings.Join(tiers, ", ")))
		}

		return nil
	},
}
