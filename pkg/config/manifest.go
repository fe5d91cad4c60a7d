package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/types"
)

var log = logging.GetLogger("config")

// TemplateManifest represents the optional .skel.toml file at a
// template root. Filter patterns append to the run's patterns and
// variable defaults sit below every other variable source.
type TemplateManifest struct {
	Template TemplateSection `toml:"template"`
}

// TemplateSection holds the [template] table.
type TemplateSection struct {
	Name        string            `toml:"name"`
	Description string            `toml:"description"`
	Filter      FilterSection     `toml:"filter"`
	Variables   map[string]string `toml:"variables"`
}

// FilterSection holds the [template.filter] table.
type FilterSection struct {
	Exclude []string `toml:"exclude"`
	Include []string `toml:"include"`
}

// LoadTemplateManifest reads and parses the .skel.toml manifest at the
// given template root. A missing manifest is not an error and yields
// nil; a manifest that cannot be parsed is.
func LoadTemplateManifest(filesystem types.FS, templateRoot string) (*TemplateManifest, error) {
	manifestPath := filepath.Join(templateRoot, paths.ManifestFileName)
	logger := log.With().Str("manifestPath", manifestPath).Logger()

	data, err := filesystem.ReadFile(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrManifestParse,
			"failed to read template manifest %s", manifestPath)
	}

	var manifest TemplateManifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrapf(err, errors.ErrManifestParse,
			"failed to parse template manifest %s", manifestPath)
	}

	logger.Debug().
		Str("name", manifest.Template.Name).
		Int("exclude_patterns", len(manifest.Template.Filter.Exclude)).
		Int("include_patterns", len(manifest.Template.Filter.Include)).
		Int("variables", len(manifest.Template.Variables)).
		Msg("Template manifest loaded")

	return &manifest, nil
}
