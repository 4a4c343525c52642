package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yildizm/LeafScan/internal/emoji"
	"github.com/yildizm/LeafScan/internal/prefs"
	"github.com/yildizm/LeafScan/internal/session"
	"github.com/yildizm/LeafScan/internal/theme"
)

func newThemeCommand() *cobra.Command {
	themeCmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or toggle dark mode",
		Long: `Show or toggle the dark mode preference. The preference is stored in the
file named by storage.prefs_path and is shared with the interactive app.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeShow(cmd.OutOrStdout())
		},
	}

	themeCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the active palette",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeShow(cmd.OutOrStdout())
		},
	})

	themeCmd.AddCommand(&cobra.Command{
		Use:   "toggle",
		Short: "Switch between light and dark mode",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runThemeToggle(cmd.OutOrStdout())
		},
	})

	return themeCmd
}

func runThemeShow(out io.Writer) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	dark, err := prefs.LoadDarkMode(newPrefsStore(cfg))
	if err != nil {
		return fmt.Errorf("failed to read theme preference: %w", err)
	}
	printPalette(out, theme.For(dark).Variables(), dark)
	return nil
}

func runThemeToggle(out io.Writer) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	var published map[string]string
	opts := session.OptionsFromConfig(cfg)
	opts.Prefs = newPrefsStore(cfg)
	opts.Logger = newLogger("cli")
	opts.Listeners = []theme.Listener{func(vars map[string]string) { published = vars }}

	ctrl := session.New(opts)
	if _, err := ctrl.ToggleTheme(); err != nil {
		return err
	}

	printPalette(out, published, ctrl.DarkMode())
	return nil
}

func printPalette(out io.Writer, vars map[string]string, dark bool) {
	name := theme.For(dark).Name
	fmt.Fprintf(out, "%s %s mode\n", emoji.ThemeIcon(!dark), name)
	for _, key := range theme.VariableNames() {
		fmt.Fprintf(out, "  %-20s %s\n", key, vars[key])
	}
}
