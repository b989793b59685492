package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRebuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Replace the catalog with what the backends contain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openClient()
			if err != nil {
				return err
			}
			if err := c.Rebuild(); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(out(cmd), areaViews(c.Index()))
			}
			fmt.Fprintf(out(cmd), "Catalog rebuilt: %d areas, %d categories\n",
				len(c.ListAreas()), len(c.ListCategories()))
			return nil
		},
	}
}
