package cli

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jd/internal/paths"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// openTarget hands a path or URL to the desktop's default handler. Tests
// replace it.
var openTarget = func(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	case "darwin":
		cmd = exec.Command("open", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return types.IOError("starting "+cmd.Path, err)
	}
	return cmd.Process.Release()
}

func newOpenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Open the content of an item with the system handler",
		Long: "Open the directory or URL of an item. Items kept in an object store\n" +
			"are first exported to the cache directory inside the data directory.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runOpen(cmd, args[0])
		},
	}
}

func (a *app) runOpen(cmd *cobra.Command, arg string) error {
	id, err := types.ParseID(arg)
	if err != nil {
		return err
	}
	c, err := a.openClient()
	if err != nil {
		return err
	}
	loc, ok, err := c.Fetch(id, paths.DefaultCacheDir(a.dataDir))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s is not materialized", types.ErrItemNotFound, id)
	}
	a.log.Debug("opening item", zap.Stringer("id", id), zap.Stringer("target", loc))
	if err := openTarget(loc.String()); err != nil {
		return err
	}
	if !a.flags.jsonMode {
		return nil
	}
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
