package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/nfrund/instagrid/internal/domain"
	"github.com/spf13/cobra"
)

var spacingCmd = &cobra.Command{
	Use:   "spacing",
	Short: "List the grid spacing presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PRESET\tGAP (px)\tDEFAULT")
		for _, s := range domain.Spacings {
			def := ""
			if s == domain.DefaultSpacing {
				def = "*"
			}
			fmt.Fprintf(w, "%s\t%d\t%s\n", s, s.Pixels(), def)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(spacingCmd)
}
