package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/paths"
)

// EnvPrefix is the prefix for environment overrides. Key segments are
// separated by a double underscore, so SKEL_AI__MODEL sets ai.model.
const EnvPrefix = "SKEL_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Config is the resolved application configuration.
type Config struct {
	Exclude      []string          `koanf:"exclude"`
	Include      []string          `koanf:"include"`
	Variables    map[string]string `koanf:"variables"`
	Jobs         int               `koanf:"jobs"`
	ProjectsDir  string            `koanf:"projects_dir"`
	TemplatesDir string            `koanf:"templates_dir"`
	AI           AIConfig          `koanf:"ai"`
}

// AIConfig configures the OpenAI-compatible assistant endpoint.
type AIConfig struct {
	BaseURL        string  `koanf:"base_url"`
	Model          string  `koanf:"model"`
	MaxTokens      int     `koanf:"max_tokens"`
	Temperature    float64 `koanf:"temperature"`
	APIKeyEnv      string  `koanf:"api_key_env"`
	TimeoutSeconds int     `koanf:"timeout_seconds"`
}

// Timeout returns the request timeout as a duration.
func (a AIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// APIKey reads the assistant credential from the configured
// environment variable.
func (a AIConfig) APIKey() string {
	return os.Getenv(a.APIKeyEnv)
}

// Load resolves configuration in four layers: baked-in defaults, the
// user config file, SKEL_* environment variables, and finally explicit
// overrides (changed CLI flags).
//
// configFile may be empty, in which case the default location is
// consulted and skipped silently when absent. An explicit configFile
// that does not exist is an error.
func Load(configFile string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	// 1. Baked-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file
	path := configFile
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			parser, perr := parserFor(path)
			if perr != nil {
				return nil, perr
			}
			if err := k.Load(file.Provider(path), parser); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse,
					"failed to parse config file %s", path)
			}
		} else if explicit {
			return nil, errors.Newf(errors.ErrConfigLoad,
				"config file not found: %s", path)
		}
	}

	// 3. Environment variables
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment variables")
	}

	// 4. Flag overrides
	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply flag overrides")
		}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf(&cfg)); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	return &cfg, nil
}

// Default returns the baked-in configuration, the same values Load
// starts from before any user layer applies.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return &Config{}
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf(&cfg)); err != nil {
		return &Config{}
	}
	return &cfg
}

// DefaultTOML returns the content of the baked-in defaults file,
// suitable as a starting point for a user config.
func DefaultTOML() string {
	return string(defaultConfig)
}

// envKey maps SKEL_AI__MODEL to ai.model. A single underscore stays
// part of the key, so SKEL_PROJECTS_DIR maps to projects_dir.
func envKey(s string) string {
	return strings.ReplaceAll(
		strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Parser(), nil
	case ".yaml", ".yml", ".json":
		// YAML 1.2 is a superset of JSON, one parser covers both.
		return yaml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigParse,
			"unsupported config format %q", filepath.Ext(path))
	}
}

func unmarshalConf(cfg *Config) koanf.UnmarshalConf {
	return koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
}

func defaultConfigPath() string {
	p, err := paths.New()
	if err != nil {
		return ""
	}
	return p.ConfigFile()
}
