package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jd/internal/catalog"
	"github.com/mesh-intelligence/jd/internal/layout"
)

func newLsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ls [category]",
		Short: "List areas and categories, or the items of one category",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openClient()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return printTree(cmd, a.flags.jsonMode, c.Index())
			}
			id, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			items, err := c.ListItems(id)
			if err != nil {
				return err
			}
			return printItems(out(cmd), a.flags.jsonMode, items, c.Index())
		},
	}
}

func areaViews(idx *catalog.Index) []areaView {
	views := []areaView{}
	for _, area := range idx.Areas() {
		v := areaView{Bounds: area.Bounds().String(), Name: area.Name(), Categories: []categoryView{}}
		for _, cat := range area.Categories() {
			v.Categories = append(v.Categories, categoryView{ID: cat.ID(), Name: cat.Name()})
		}
		views = append(views, v)
	}
	return views
}

func printTree(cmd *cobra.Command, jsonMode bool, idx *catalog.Index) error {
	if jsonMode {
		return writeJSON(out(cmd), areaViews(idx))
	}
	for _, area := range idx.Areas() {
		fmt.Fprintln(out(cmd), layout.AreaName(area.Bounds(), area.Name()))
		for _, cat := range area.Categories() {
			fmt.Fprintf(out(cmd), "  %s\n", layout.CategoryName(cat.ID(), cat.Name()))
		}
	}
	return nil
}
