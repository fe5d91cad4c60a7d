package template

import (
	"embed"
	"io/fs"
	"path"
	"path/filepath"
	"sort"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/types"
)

// DefaultName is the builtin template used when the caller names none.
const DefaultName = "default"

//go:embed all:builtin
var builtinFS embed.FS

// Source identifies where a template argument resolved to.
type Source int

const (
	// SourcePath means the argument was a directory path.
	SourcePath Source = iota
	// SourceUser means the argument named a template under the user
	// templates directory.
	SourceUser
	// SourceBuiltin means the argument named an embedded template,
	// which must be materialized before reading.
	SourceBuiltin
)

func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourceUser:
		return "user"
	case SourceBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// BuiltinInfo describes one embedded starter template.
type BuiltinInfo struct {
	Name        string
	Description string
}

// Builtins lists the embedded starter templates, sorted by name.
// Descriptions come from each template's manifest.
func Builtins() []BuiltinInfo {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}

	infos := make([]BuiltinInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info := BuiltinInfo{Name: entry.Name()}
		if data, err := builtinFS.ReadFile(
			path.Join("builtin", entry.Name(), paths.ManifestFileName)); err == nil {
			var manifest config.TemplateManifest
			if err := toml.Unmarshal(data, &manifest); err == nil {
				info.Description = manifest.Template.Description
			}
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// IsBuiltin reports whether name is an embedded template.
func IsBuiltin(name string) bool {
	info, err := fs.Stat(builtinFS, path.Join("builtin", name))
	return err == nil && info.IsDir()
}

// MaterializeBuiltin copies the embedded template tree to destRoot so
// the normal pipeline can run against it.
func MaterializeBuiltin(filesystem types.FS, name, destRoot string) error {
	logger := logging.GetLogger("template")

	if !IsBuiltin(name) {
		return errors.Newf(errors.ErrTemplateNotFound,
			"no builtin template named %q", name)
	}

	src := path.Join("builtin", name)
	err := fs.WalkDir(builtinFS, src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		dest := filepath.Join(destRoot, rel)

		if d.IsDir() {
			return filesystem.MkdirAll(dest, 0o755)
		}
		data, err := builtinFS.ReadFile(p)
		if err != nil {
			return err
		}
		return filesystem.WriteFile(dest, data, 0o644)
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrTemplateInvalid,
			"failed to materialize builtin template %q", name)
	}

	logger.Debug().Str("template", name).Str("destRoot", destRoot).
		Msg("Builtin template materialized")
	return nil
}

// Resolve turns a template argument into a usable template location.
// An existing directory path wins, then a name under templatesDir,
// then a builtin name. An empty argument resolves to the builtin
// default.
func Resolve(filesystem types.FS, arg, templatesDir string) (string, Source, error) {
	if arg == "" {
		return DefaultName, SourceBuiltin, nil
	}

	if info, err := filesystem.Stat(arg); err == nil && info.IsDir() {
		return arg, SourcePath, nil
	}

	if templatesDir != "" {
		candidate := filepath.Join(templatesDir, arg)
		if info, err := filesystem.Stat(candidate); err == nil && info.IsDir() {
			return candidate, SourceUser, nil
		}
	}

	if IsBuiltin(arg) {
		return arg, SourceBuiltin, nil
	}

	return "", 0, errors.Newf(errors.ErrTemplateNotFound,
		"template %q not found (not a directory, not under %s, not a builtin)",
		arg, templatesDir)
}

// LoadManifest reads the optional .skel.toml at the template root. A
// missing manifest yields nil.
func LoadManifest(filesystem types.FS, root string) (*config.TemplateManifest, error) {
	return config.LoadTemplateManifest(filesystem, root)
}
