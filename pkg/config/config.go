// Package config loads and merges grove configuration from the embedded
// defaults, the global config file, the project config file, and GROVE_
// environment variables.
package config

import (
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	groveerr "github.com/grovekit/grove/pkg/errors"
	"github.com/grovekit/grove/pkg/logging"
)

// ProjectConfigFile is the per-repository config file name, looked up at
// the repository root.
const ProjectConfigFile = ".grove.toml"

//go:embed embedded/defaults.toml
var defaultsTOML []byte

// SyncConfig controls what the sync engine links, copies, and skips.
type SyncConfig struct {
	Symlink []string `koanf:"symlink" toml:"symlink"`
	Copy    []string `koanf:"copy" toml:"copy"`
	Ignore  []string `koanf:"ignore" toml:"ignore"`
}

// HooksConfig holds shell commands run around worktree lifecycle events.
type HooksConfig struct {
	PostStart string `koanf:"post_start" toml:"post_start"`
	PreDone   string `koanf:"pre_done" toml:"pre_done"`
}

// Config is the merged configuration handed to the core.
type Config struct {
	Sync  SyncConfig  `koanf:"sync" toml:"sync"`
	Hooks HooksConfig `koanf:"hooks" toml:"hooks"`
}

// rawBytesProvider feeds embedded bytes into koanf.
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := decode(func(k *koanf.Koanf) error {
		return k.Load(&rawBytesProvider{bytes: defaultsTOML}, toml.Parser())
	})
	if err != nil {
		// The embedded defaults are compiled in; failing to parse them
		// is a programming error.
		panic(err)
	}
	return cfg
}

// GlobalConfigPath returns the location of the user-level config file.
func GlobalConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "grove", "config.toml")
}

// Load returns the effective configuration for a repository: embedded
// defaults, overlaid per the merge rule with the global file and the
// project's .grove.toml, then GROVE_ environment overrides.
func Load(repoRoot string) (*Config, error) {
	logger := logging.GetLogger("config")

	global, err := loadFile(GlobalConfigPath())
	if err != nil {
		return nil, err
	}
	project, err := loadFile(filepath.Join(repoRoot, ProjectConfigFile))
	if err != nil {
		return nil, err
	}

	merged := merge(global, project)

	if err := applyEnv(merged); err != nil {
		return nil, err
	}

	logger.Debug().
		Bool("global", global != nil).
		Bool("project", project != nil).
		Msg("Configuration loaded")

	return merged, nil
}

// loadFile parses one config file with defaults filling unset keys.
// A missing file yields nil without error.
func loadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}

	cfg, err := decode(func(k *koanf.Koanf) error {
		if err := k.Load(&rawBytesProvider{bytes: defaultsTOML}, toml.Parser()); err != nil {
			return err
		}
		return k.Load(file.Provider(path), toml.Parser())
	})
	if err != nil {
		return nil, groveerr.Wrapf(err, groveerr.ErrConfigParse, "could not parse %s", path)
	}
	return cfg, nil
}

func decode(load func(*koanf.Koanf) error) (*Config, error) {
	k := koanf.New(".")
	if err := load(k); err != nil {
		return nil, err
	}

	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge combines global and project configs. The sync section is
// all-or-nothing: a project that did not customize it (its decoded sync
// section equals the built-in default) falls back to the global section;
// any customization makes the project section win in full. Hook values
// merge field-wise: project, else global.
func merge(global, project *Config) *Config {
	switch {
	case global == nil && project == nil:
		return Default()
	case project == nil:
		return global
	case global == nil:
		return project
	}

	merged := &Config{Sync: project.Sync, Hooks: project.Hooks}

	if isDefaultSync(project.Sync) {
		merged.Sync = global.Sync
	}

	if merged.Hooks.PostStart == "" {
		merged.Hooks.PostStart = global.Hooks.PostStart
	}
	if merged.Hooks.PreDone == "" {
		merged.Hooks.PreDone = global.Hooks.PreDone
	}

	return merged
}

func isDefaultSync(s SyncConfig) bool {
	def := Default().Sync
	return slices.Equal(s.Symlink, def.Symlink) &&
		slices.Equal(s.Copy, def.Copy) &&
		len(s.Ignore) == 0
}

// applyEnv overlays GROVE_ environment variables onto cfg, e.g.
// GROVE_HOOKS_POST_START maps to hooks.post_start.
func applyEnv(cfg *Config) error {
	k := koanf.New(".")

	err := k.Load(confmap.Provider(map[string]interface{}{
		"sync.symlink":     cfg.Sync.Symlink,
		"sync.copy":        cfg.Sync.Copy,
		"sync.ignore":      cfg.Sync.Ignore,
		"hooks.post_start": cfg.Hooks.PostStart,
		"hooks.pre_done":   cfg.Hooks.PreDone,
	}, "."), nil)
	if err != nil {
		return err
	}

	err = k.Load(env.Provider("GROVE_", ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, "GROVE_")), "_", ".", 1)
	}), nil)
	if err != nil {
		return err
	}

	return k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	})
}
