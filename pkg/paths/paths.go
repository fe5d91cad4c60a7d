// Package paths provides centralized path handling for skel.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvTemplatesDir overrides the user templates directory
	EnvTemplatesDir = "SKEL_TEMPLATES_DIR"

	// EnvConfigFile overrides the app configuration file location
	EnvConfigFile = "SKEL_CONFIG_FILE"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// SkelDirName is the directory name for skel-specific files
	SkelDirName = "skel"

	// TemplatesDirName is the subdirectory holding user templates
	TemplatesDirName = "templates"

	// ConfigFileName is the name of the app configuration file
	ConfigFileName = "config.toml"

	// ManifestFileName is the per-template manifest file name
	ManifestFileName = ".skel.toml"

	// LogFileName is the name of the log file
	LogFileName = "skel.log"
)

// Paths provides centralized path management for skel
type Paths interface {
	TemplatesDir() string
	ConfigFile() string
	LogFile() string
	UsedOverride() bool
}

type paths struct {
	templatesDir string
	configFile   string
	logFile      string

	// usedOverride indicates an environment override replaced an XDG default
	usedOverride bool
}

// New creates a new Paths instance, resolving every location from the
// environment overrides or the XDG base directories.
func New() (Paths, error) {
	p := &paths{}

	if dir := os.Getenv(EnvTemplatesDir); dir != "" {
		p.templatesDir = expandHome(dir)
		p.usedOverride = true
	} else {
		p.templatesDir = filepath.Join(dataHome(), SkelDirName, TemplatesDirName)
	}

	if cfg := os.Getenv(EnvConfigFile); cfg != "" {
		p.configFile = expandHome(cfg)
		p.usedOverride = true
	} else {
		p.configFile = filepath.Join(configHome(), SkelDirName, ConfigFileName)
	}

	p.logFile = filepath.Join(stateHome(), SkelDirName, LogFileName)

	return p, nil
}

func (p *paths) TemplatesDir() string { return p.templatesDir }
func (p *paths) ConfigFile() string   { return p.configFile }
func (p *paths) LogFile() string      { return p.logFile }
func (p *paths) UsedOverride() bool   { return p.usedOverride }

// dataHome returns the XDG data directory. The env var is checked at
// call time so per-process overrides take effect; the xdg library
// resolves the platform default.
func dataHome() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	return xdg.DataHome
}

// configHome returns the XDG config directory, env var first.
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	return xdg.ConfigHome
}

// stateHome returns the XDG state directory. xdg exposes StateHome on
// recent versions, but the env check keeps the behavior explicit.
func stateHome() string {
	if stateDir := os.Getenv("XDG_STATE_HOME"); stateDir != "" {
		return stateDir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "state")
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
