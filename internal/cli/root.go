// Package cli implements the jd command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/jd/internal/client"
	"github.com/mesh-intelligence/jd/internal/paths"
	"github.com/mesh-intelligence/jd/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags     rootFlags
	configDir string
	dataDir   string
	log       *zap.Logger
	client    *client.Client
}

// NewRootCmd creates the top-level "jd" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "jd",
		Short: "A Johnny Decimal catalog",
		Long: "jd numbers documents, projects and other artifacts as CC.III ids,\n" +
			"files their content on disk, in an object store or on a source host,\n" +
			"and keeps the catalog and the backends in sync.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/jd)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/jd)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log every physical action")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newValidateCmd(a),
		newLsCmd(a),
		newSearchCmd(a),
		newAreaCmd(a),
		newCategoryCmd(a),
		newItemCmd(a),
		newOpenCmd(a),
		newRebuildCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "jd: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status. Storage failures are
// system errors; everything else is something the user can fix.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitSuccess
	case errors.Is(err, types.ErrIO):
		return exitSysError
	default:
		return exitUserError
	}
}

// setup resolves the directories and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.configDir, err = paths.ResolveConfigDir(a.flags.configDir); err != nil {
		return types.IOError("resolve config dir", err)
	}
	if a.dataDir, err = paths.ResolveDataDir(a.flags.dataDir); err != nil {
		return types.IOError("resolve data dir", err)
	}
	if a.log, err = newLogger(a.flags.verbose); err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	a.log.Debug("directories resolved",
		zap.String("config_dir", a.configDir),
		zap.String("data_dir", a.dataDir),
	)
	return nil
}

func (a *app) teardown() error {
	var err error
	if a.client != nil {
		err = a.client.Close()
		a.client = nil
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

// newLogger builds the CLI logger. Only warnings are shown unless verbose
// output was requested.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

// openClient loads the configuration and builds the catalog client once per
// invocation.
func (a *app) openClient() (*client.Client, error) {
	if a.client != nil {
		return a.client, nil
	}
	cfg, err := loadConfig(a.configDir, a.dataDir)
	if err != nil {
		return nil, err
	}
	c, err := client.New(cfg, client.WithLogger(a.log))
	if err != nil {
		return nil, err
	}
	a.client = c
	return c, nil
}

// out returns the writer command output goes to.
func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
