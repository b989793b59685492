package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jd/pkg/types"
)

func newSearchCmd(a *app) *cobra.Command {
	var locate bool
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Find items whose name contains text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openClient()
			if err != nil {
				return err
			}
			items := c.Search(args[0])
			sort.Slice(items, func(i, j int) bool {
				if items[i].ID.Category != items[j].ID.Category {
					return items[i].ID.Category < items[j].ID.Category
				}
				return items[i].ID.Item < items[j].ID.Item
			})
			if !locate {
				return printItems(out(cmd), a.flags.jsonMode, items, c.Index())
			}

			views := make([]itemView, 0, len(items))
			for _, it := range items {
				loc, ok, err := c.Locate(it.ID)
				if errors.Is(err, types.ErrNoResolver) {
					continue
				}
				if err != nil {
					return err
				}
				if !ok {
					continue
				}
				if !a.flags.jsonMode {
					fmt.Fprintln(out(cmd), loc)
					continue
				}
				v, err := newItemView(it, c.Index())
				if err != nil {
					return err
				}
				v.Location = loc.String()
				views = append(views, v)
			}
			if a.flags.jsonMode {
				return writeJSON(out(cmd), views)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&locate, "locate", "l", false, "print where each match lives instead of its id")
	return cmd
}
