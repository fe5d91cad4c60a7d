// Package genconfig renders the baked-in default configuration so
// users can bootstrap a config file.
package genconfig

import (
	"path/filepath"

	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/filesystem"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/types"
)

// GenConfigOptions holds options for the gen-config command.
type GenConfigOptions struct {
	// Write persists the defaults instead of only returning them.
	Write bool
	// Path overrides the destination file. Empty means the default
	// config location.
	Path string
	// FileSystem is the filesystem to use (optional, defaults to OS filesystem)
	FileSystem types.FS
}

// GenConfigResult carries the rendered defaults and, in write mode,
// where they went.
type GenConfigResult struct {
	ConfigContent string
	// Written is the file created in write mode, empty otherwise.
	Written string
	// Skipped is set when the destination already existed.
	Skipped string
}

// GenConfig outputs or writes the default configuration. An existing
// destination file is never overwritten.
func GenConfig(opts GenConfigOptions) (*GenConfigResult, error) {
	logger := logging.GetLogger("commands.genconfig")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	result := &GenConfigResult{ConfigContent: config.DefaultTOML()}

	if !opts.Write {
		logger.Debug().Msg("Returning default config content")
		return result, nil
	}

	target := opts.Path
	if target == "" {
		p, err := paths.New()
		if err != nil {
			return result, errors.Wrap(err, errors.ErrConfigLoad,
				"failed to resolve config file location")
		}
		target = p.ConfigFile()
	}

	if _, err := fs.Stat(target); err == nil {
		logger.Warn().Str("path", target).Msg("Config file already exists, skipping")
		result.Skipped = target
		return result, nil
	}

	dir := filepath.Dir(target)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite,
			"failed to create directory %s", dir)
	}
	if err := fs.WriteFile(target, []byte(result.ConfigContent), 0o644); err != nil {
		return result, errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write config to %s", target)
	}

	logger.Info().Str("path", target).Msg("Written config file")
	result.Written = target
	return result, nil
}
