package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jd/internal/layout"
)

func newCategoryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "cat",
		Aliases: []string{"category"},
		Short:   "Manage categories",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "new <id> <name>",
		Short: "Create a category in its area",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			if err := c.CreateCategory(id, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), layout.CategoryName(id, args[1]))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category and its content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseCategory(args[0])
			if err != nil {
				return err
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			if err := c.RenameCategory(id, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), layout.CategoryName(id, args[1]))
			return nil
		},
	})
	return cmd
}
