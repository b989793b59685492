package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jd/internal/resolver/disk"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <root>",
		Short: "Check that a directory tree follows the naming convention",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			idx, err := disk.Scan(afero.NewOsFs(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(out(cmd), areaViews(idx))
			}
			items := 0
			for _, c := range idx.ListCategories() {
				list, err := idx.ListItems(c.ID)
				if err != nil {
					return err
				}
				items += len(list)
			}
			fmt.Fprintf(out(cmd), "OK: %d areas, %d categories, %d items\n",
				len(idx.ListAreas()), len(idx.ListCategories()), items)
			return nil
		},
	}
}
