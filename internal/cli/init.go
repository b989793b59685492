package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/jd/internal/catalog"
	"github.com/mesh-intelligence/jd/internal/resolver/disk"
	"github.com/mesh-intelligence/jd/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration and an empty catalog",
		Long: "Create config.yaml and the catalog file if they are missing.\n" +
			"With --root the catalog is built from an existing directory tree,\n" +
			"replacing any catalog already present. When no config.yaml exists yet\n" +
			"the one written routes every category to that tree.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, root)
		},
	}
	cmd.Flags().StringVarP(&root, "root", "r", "", "directory tree to build the catalog from")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, root string) error {
	cfg := defaultConfig(a.dataDir)
	if root != "" {
		cfg.Resolvers = []types.ResolverConfig{{
			Range: &types.Range{From: 0, To: types.MaxCategories - 1},
			Disk:  &types.DiskConfig{Root: root},
		}}
	}
	if err := ensureDefaultConfigFile(a.configDir, cfg); err != nil {
		return err
	}
	loaded, err := loadConfig(a.configDir, a.dataDir)
	if err != nil {
		return err
	}

	fsys := afero.NewOsFs()
	idx := catalog.New()
	if root != "" {
		if idx, err = disk.Scan(fsys, root); err != nil {
			return err
		}
	} else if exists, _ := afero.Exists(fsys, loaded.IndexPath); exists {
		fmt.Fprintf(out(cmd), "Catalog already exists at %s\n", loaded.IndexPath)
		return nil
	}

	if err := idx.Save(fsys, loaded.IndexPath); err != nil {
		return err
	}
	fmt.Fprintf(out(cmd), "Catalog initialized at %s\n", loaded.IndexPath)
	return nil
}
