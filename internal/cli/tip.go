package cli

import (
	"fmt"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/yildizm/LeafScan/internal/emoji"
	"github.com/yildizm/LeafScan/internal/tips"
)

func newTipCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tip",
		Short: "Print a random farming tip",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if all {
				for i, tip := range tips.All {
					fmt.Fprintf(out, "%2d. %s\n", i+1, tip)
				}
				return nil
			}
			fmt.Fprintf(out, "%s %s\n", emoji.GetEmoji("tip"), tips.Pick(rand.IntN))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "list every tip")
	return cmd
}
