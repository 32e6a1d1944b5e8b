// Command skillgate is a set of assistant lifecycle hooks for markdown
// plugin bundles. The host wires its subcommands to hook events: prompt
// (UserPromptSubmit), pre-tool (PreToolUse), and post-tool (PostToolUse).
// Each invocation reads one JSON payload from stdin, prints advisory
// output for the user, and exits; only the publish guard ever blocks.
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pluginkit/skillgate/pkg/logger"
	"github.com/pluginkit/skillgate/pkg/presenter"
)

// blockExitCode is the exit code the host interprets as "block the action".
const blockExitCode = 2

// Config is the process configuration, from flags, env, and config file.
type Config struct {
	PluginRoot string `mapstructure:"plugin_root"`
	LogLevel   string `mapstructure:"log_level"`
	LogFormat  string `mapstructure:"log_format"`
	Quiet      bool   `mapstructure:"quiet"`
}

var rootCmd = &cobra.Command{
	Use:   "skillgate",
	Short: "Skill activation and compliance hooks for assistant plugin bundles",
	Long: `skillgate reacts to assistant lifecycle events for a markdown plugin
bundle: it recommends skills for submitted prompts, checks written plugin
documents and delegation targets for convention compliance, and gates
deployment commands on a structural validation of the bundle.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		cfg := loadConfig()
		if cfg.LogLevel != "" {
			if err := logger.SetLogLevel(cfg.LogLevel); err != nil {
				logger.G(cmd.Context()).WithError(err).Warn("invalid log level")
			}
		}
		if cfg.LogFormat != "" {
			logger.SetLogFormat(cfg.LogFormat)
		}
		presenter.SetQuiet(cfg.Quiet)
	},
}

func init() {
	viper.SetEnvPrefix("SKILLGATE")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.skillgate")
	viper.AddConfigPath(".")
	_ = viper.ReadInConfig()

	rootCmd.PersistentFlags().String("plugin-root", "", "plugin bundle root (default: walk up from the working directory)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress advisory output")
	_ = viper.BindPFlag("plugin_root", rootCmd.PersistentFlags().Lookup("plugin-root"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(preToolCmd)
	rootCmd.AddCommand(postToolCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig decodes the viper state into a Config.
func loadConfig() Config {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		presenter.Error(err, "")
		os.Exit(1)
	}
}
