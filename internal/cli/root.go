package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/yildizm/LeafScan/internal/config"
	"github.com/yildizm/LeafScan/internal/emoji"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	noEmoji bool

	// globalConfig is the configuration loaded for the running command
	globalConfig *config.Config
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leafscan",
		Short: "Crop leaf disease detection from the terminal",
		Long: `LeafScan sends a photo of a crop leaf to a disease prediction service and
shows the diagnosis, its confidence and the recommended treatment.

Use "leafscan predict" for a one-shot diagnosis or "leafscan app" for the
interactive interface with preview, cropping, history and reports.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
			globalConfig = nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")

	// Add subcommands
	rootCmd.AddCommand(newPredictCommand())
	rootCmd.AddCommand(newAppCommand())
	rootCmd.AddCommand(newTipCommand())
	rootCmd.AddCommand(newThemeCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "LeafScan %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig loads the configuration once per command run
func GetGlobalConfig() (*config.Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	globalConfig = cfg
	return cfg, nil
}

// Global helpers
func isVerbose() bool {
	if verbose {
		return true
	}
	return globalConfig != nil && globalConfig.Output.Verbose
}

func isColorEnabled() bool {
	if noColor {
		return false
	}
	if globalConfig != nil && globalConfig.Output.ColorMode == "never" {
		return false
	}
	return true
}

func isEmojiDisabled() bool {
	return noEmoji
}
