package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/jd/internal/paths"
	"github.com/mesh-intelligence/jd/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyIndexPath   = "index_path"
	cfgKeyObjStoreDir = "object_store.dir"

	envPrefix = "JD"
)

// defaultConfigHeader starts every config.yaml written by jd.
const defaultConfigHeader = `# jd configuration
#
# resolvers is an ordered list; the first entry whose category or range
# matches a category owns it. Each entry sets one backend:
#
#   - range: {from: 10, to: 19}
#     disk: {root: ~/jd}
#   - category: 21
#     github: {area: 20}
#   - category: 31
#     object_store: {profile: main}

`

// loadConfig reads config.yaml from configDir, writing a default one on first
// run. Keys can be overridden from the environment with the JD_ prefix, for
// example JD_INDEX_PATH.
func loadConfig(configDir, dataDir string) (types.Config, error) {
	if err := ensureDefaultConfigFile(configDir, defaultConfig(dataDir)); err != nil {
		return types.Config{}, err
	}

	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault(cfgKeyIndexPath, paths.DefaultIndexPath(dataDir))
	v.SetDefault(cfgKeyObjStoreDir, paths.DefaultObjStoreDir(dataDir))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("%w: reading config: %w", types.ErrInvalidConfig, err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("%w: decoding config: %w", types.ErrInvalidConfig, err)
	}
	cfg.IndexPath = expandHome(cfg.IndexPath)
	cfg.ObjectStore.Dir = expandHome(cfg.ObjectStore.Dir)
	for i := range cfg.Resolvers {
		if d := cfg.Resolvers[i].Disk; d != nil {
			d.Root = expandHome(d.Root)
		}
	}
	for name, p := range cfg.ObjectStore.Profiles {
		p.Path = expandHome(p.Path)
		cfg.ObjectStore.Profiles[name] = p
	}
	return cfg, nil
}

// defaultConfig is the configuration written on first run.
func defaultConfig(dataDir string) types.Config {
	return types.Config{
		IndexPath: paths.DefaultIndexPath(dataDir),
		Resolvers: []types.ResolverConfig{},
	}
}

// ensureDefaultConfigFile writes cfg to config.yaml in configDir if the file
// does not exist. An existing file is left untouched.
func ensureDefaultConfigFile(configDir string, cfg types.Config) error {
	path := filepath.Join(configDir, paths.ConfigFileName)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return types.IOError("stat config file", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return types.IOError("create config directory", err)
	}
	if err := os.WriteFile(path, append([]byte(defaultConfigHeader), data...), 0o644); err != nil {
		return types.IOError("write config", err)
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
