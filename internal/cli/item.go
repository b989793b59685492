package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jd/internal/client"
	"github.com/mesh-intelligence/jd/pkg/types"
)

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage items",
	}
	cmd.AddCommand(
		newItemAllocCmd(a),
		newItemAddCmd(a),
		newItemAddURLCmd(a),
		newItemMvCmd(a),
		newItemRenameCmd(a),
		newItemRmCmd(a),
		newItemFindCmd(a),
		newOpenCmd(a),
	)
	return cmd
}

// itemResult prints the item an operation produced.
func (a *app) itemResult(cmd *cobra.Command, c *client.Client, item types.Item) error {
	return printItem(out(cmd), a.flags.jsonMode, item, c.Index())
}

// explicitSlot returns the --id flag value when it was set.
func explicitSlot(cmd *cobra.Command, slot int) *int {
	if !cmd.Flags().Changed("id") {
		return nil
	}
	return &slot
}

func newItemAllocCmd(a *app) *cobra.Command {
	var (
		category string
		slot     int
	)
	cmd := &cobra.Command{
		Use:   "alloc -c <category> <name>",
		Short: "Reserve an id without filing any content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(category)
			if err != nil {
				return err
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			item, err := c.Allocate(cat, args[0], explicitSlot(cmd, slot))
			if err != nil {
				return err
			}
			return a.itemResult(cmd, c, item)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category to allocate in")
	cmd.Flags().IntVar(&slot, "id", 0, "explicit item number (0-999)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newItemAddCmd(a *app) *cobra.Command {
	var (
		category string
		slot     int
	)
	cmd := &cobra.Command{
		Use:   "add -c <category> <path>...",
		Short: "File directories or files under new ids",
		Long: "File each path under the next free id of the category. Paths are\n" +
			"added in order and the first failure stops the command; items added\n" +
			"before it stay filed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(category)
			if err != nil {
				return err
			}
			explicit := explicitSlot(cmd, slot)
			if explicit != nil && len(args) > 1 {
				return fmt.Errorf("%w: --id needs exactly one path", types.ErrValidation)
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				item, err := c.AddFromPath(cat, args[0], explicit)
				if err != nil {
					return err
				}
				return a.itemResult(cmd, c, item)
			}
			return a.addAll(cmd, c, cat, args)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category to file under")
	cmd.Flags().IntVar(&slot, "id", 0, "explicit item number (0-999)")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

// addAll files every path in order. Text output is written as each item is
// filed; JSON output lists the items filed before any failure.
func (a *app) addAll(cmd *cobra.Command, c *client.Client, categoryID int, sources []string) error {
	var added []types.Item
	for _, src := range sources {
		item, err := c.AddFromPath(categoryID, src, nil)
		if err != nil {
			if a.flags.jsonMode && len(added) > 0 {
				_ = printItems(out(cmd), true, added, c.Index())
			}
			return fmt.Errorf("adding %s: %w", src, err)
		}
		if !a.flags.jsonMode {
			if err := printItem(out(cmd), false, item, c.Index()); err != nil {
				return err
			}
		}
		added = append(added, item)
	}
	if a.flags.jsonMode {
		return printItems(out(cmd), true, added, c.Index())
	}
	return nil
}

func newItemAddURLCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add-url -c <category> <name> <url>",
		Short: "Record a remote item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := parseCategory(category)
			if err != nil {
				return err
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			item, err := c.AddURL(cat, args[0], args[1])
			if err != nil {
				return err
			}
			return a.itemResult(cmd, c, item)
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category to record under")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func newItemMvCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <id> <category>",
		Short: "Move an item to another category under a new id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseID(args[0])
			if err != nil {
				return err
			}
			cat, err := parseCategory(args[1])
			if err != nil {
				return err
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			item, err := c.Relocate(id, cat)
			if err != nil {
				return err
			}
			return a.itemResult(cmd, c, item)
		},
	}
}

func newItemRenameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename an item and its content",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			item, err := c.Rename(id, args[1])
			if err != nil {
				return err
			}
			return a.itemResult(cmd, c, item)
		},
	}
}

func newItemRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an item and its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			return c.Remove(id)
		},
	}
}

func newItemFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <id>",
		Short: "Print where the content of an item lives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := types.ParseID(args[0])
			if err != nil {
				return err
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			loc, ok, err := c.Locate(id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s is not materialized", types.ErrItemNotFound, id)
			}
			if a.flags.jsonMode {
				item, _, err := c.Index().GetItem(id)
				if err != nil {
					return err
				}
				v, err := newItemView(item, c.Index())
				if err != nil {
					return err
				}
				v.Location = loc.String()
				return writeJSON(out(cmd), v)
			}
			fmt.Fprintln(out(cmd), loc)
			return nil
		},
	}
}
