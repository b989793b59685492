package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jd/pkg/types"
)

func newAreaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "area",
		Short: "Manage areas",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "new <LL-HH|LL> <name>",
		Short: "Create an area",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			bounds, err := parseBounds(args[0])
			if err != nil {
				return err
			}
			c, err := a.openClient()
			if err != nil {
				return err
			}
			if err := c.CreateArea(bounds, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(out(cmd), "%s %s\n", bounds, args[1])
			return nil
		},
	})
	return cmd
}

// parseBounds accepts "10-19" or the lower bound alone.
func parseBounds(s string) (types.Bounds, error) {
	lo, hi, ranged := strings.Cut(s, "-")
	low, err := strconv.Atoi(lo)
	if err != nil {
		return types.Bounds{}, fmt.Errorf("%w: %q", types.ErrInvalidBounds, s)
	}
	if !ranged {
		if low%10 != 0 {
			return types.Bounds{}, fmt.Errorf("%w: %q is not the start of an area", types.ErrInvalidBounds, s)
		}
		return types.AreaBounds(low), nil
	}
	high, err := strconv.Atoi(hi)
	if err != nil {
		return types.Bounds{}, fmt.Errorf("%w: %q", types.ErrInvalidBounds, s)
	}
	b := types.Bounds{Low: low, High: high}
	return b, b.Validate()
}
