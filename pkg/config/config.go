package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes configuration environment variables. Sections are
// separated by a double underscore: BUILDEXCLUDER_PROJECT__HOLDING_DIR.
const EnvPrefix = "BUILDEXCLUDER_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Config is the effective configuration of one project.
type Config struct {
	Project ProjectConfig `koanf:"project"`
	Sidecar SidecarConfig `koanf:"sidecar"`
	Session SessionConfig `koanf:"session"`
	Defines DefinesConfig `koanf:"defines"`

	// Root is the project root the configuration was loaded for.
	Root string `koanf:"-"`

	k *koanf.Koanf
}

type ProjectConfig struct {
	TreeDir    string `koanf:"tree_dir"`
	HoldingDir string `koanf:"holding_dir"`
	RulesFile  string `koanf:"rules_file"`
}

type SidecarConfig struct {
	Suffix string `koanf:"suffix"`
}

type SessionConfig struct {
	Dir string `koanf:"dir"`
}

type DefinesConfig struct {
	Env           string   `koanf:"env"`
	Dotenv        string   `koanf:"dotenv"`
	Csproj        string   `koanf:"csproj"`
	UnitySettings string   `koanf:"unity_settings"`
	Target        string   `koanf:"target"`
	Static        []string `koanf:"static"`
}

// Load builds the configuration for projectRoot.
func Load(projectRoot string) (*Config, error) {
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Project config if it exists
	projectConfig := filepath.Join(projectRoot, paths.ProjectConfigFile)
	if _, err := os.Stat(projectConfig); err == nil {
		if err := k.Load(file.Provider(projectConfig), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load project config from %s", projectConfig)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to stat %s", projectConfig)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Unmarshal
	cfg := &Config{Root: projectRoot, k: k}
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps BUILDEXCLUDER_PROJECT__TREE_DIR to project.tree_dir. Variables
// without a section separator (such as BUILDEXCLUDER_PROJECT, which pins the
// project root) are not configuration keys and are ignored.
func envKey(s string) string {
	key := strings.TrimPrefix(s, EnvPrefix)
	if !strings.Contains(key, "__") {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(key, "__", "."))
}

// Validate checks values that would make relocation unsafe.
func (c *Config) Validate() error {
	if err := paths.ValidateDirName(c.Project.TreeDir); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid project.tree_dir")
	}
	if err := paths.ValidateDirName(c.Project.HoldingDir); err != nil {
		return errors.Wrap(err, errors.ErrConfigValid, "invalid project.holding_dir")
	}
	if strings.EqualFold(c.Project.TreeDir, c.Project.HoldingDir) {
		return errors.Newf(errors.ErrConfigValid, "project.tree_dir and project.holding_dir must differ, both are %q", c.Project.TreeDir)
	}
	if strings.TrimSpace(c.Project.RulesFile) == "" {
		return errors.New(errors.ErrConfigValid, "project.rules_file cannot be empty")
	}
	if c.Sidecar.Suffix != "" && (!strings.HasPrefix(c.Sidecar.Suffix, ".") || len(c.Sidecar.Suffix) < 2) {
		return errors.Newf(errors.ErrConfigValid, "sidecar.suffix must start with '.', got %q", c.Sidecar.Suffix)
	}
	if strings.ContainsAny(c.Sidecar.Suffix, `/\%`) {
		return errors.Newf(errors.ErrConfigValid, "sidecar.suffix contains a reserved character: %q", c.Sidecar.Suffix)
	}
	return nil
}

// Layout returns the project layout described by the configuration.
func (c *Config) Layout() (*paths.Layout, error) {
	l, err := paths.NewLayout(c.Root)
	if err != nil {
		return nil, err
	}
	l.TreeDir = c.Project.TreeDir
	l.HoldingDir = c.Project.HoldingDir
	l.SidecarSuffix = c.Sidecar.Suffix
	return l, nil
}

// Resolve makes a configured path absolute against the project root. Empty
// stays empty.
func (c *Config) Resolve(p string) string {
	if p == "" {
		return ""
	}
	p = paths.ExpandHome(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}

// RulesPath returns the absolute rules file location.
func (c *Config) RulesPath() string {
	return c.Resolve(c.Project.RulesFile)
}

// Dump renders the effective configuration as TOML.
func (c *Config) Dump() ([]byte, error) {
	if c.k == nil {
		return nil, errors.New(errors.ErrInternal, "configuration was not loaded")
	}
	return c.k.Marshal(toml.Parser())
}
