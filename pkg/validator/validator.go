// Package validator checks a generated project against the template
// structure it was built from: every directory present, every file
// copied, and, for substitution-free runs, content identical byte for
// byte.
package validator

import (
	"bytes"
	"path/filepath"

	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
	"github.com/arthur-debert/skel/pkg/variables"
)

// Error message prefixes. The report package routes errors to report
// stages by prefix.
const (
	MsgDirMissing     = "directory was not created: "
	MsgFileMissing    = "file was not copied: "
	MsgContentDiffers = "file content differs: "
)

// Result reports the outcome of a validation pass. Directory errors
// precede file errors in Errors.
type Result struct {
	Valid        bool
	DirsValid    bool
	ContentValid bool
	Errors       []string

	DirsChecked     int
	FilesChecked    int
	ContentCompared int
}

// Validate verifies the generated project under target. Content is
// byte-compared only when no variables were substituted; substitution
// makes the comparison meaningless. Files whose source has vanished
// since the structure was read are not judged.
func Validate(filesystem types.FS, s *template.Structure, target string, vars variables.Set) *Result {
	logger := logging.GetLogger("validator")
	logger.Info().Str("target", target).Msg("Validating generated project")

	result := &Result{DirsValid: true, ContentValid: true}

	for _, rel := range s.RelDirectories() {
		result.DirsChecked++
		info, err := filesystem.Stat(filepath.Join(target, rel))
		if err != nil || !info.IsDir() {
			result.DirsValid = false
			result.Errors = append(result.Errors, MsgDirMissing+rel)
		}
	}

	for _, rel := range s.RelFiles() {
		source := filepath.Join(s.Root(), rel)
		dest := filepath.Join(target, rel)

		sinfo, err := filesystem.Stat(source)
		if err != nil || sinfo.IsDir() {
			logger.Debug().Str("path", rel).Msg("Source file vanished, not judging")
			continue
		}
		result.FilesChecked++

		dinfo, err := filesystem.Stat(dest)
		if err != nil || dinfo.IsDir() {
			result.ContentValid = false
			result.Errors = append(result.Errors, MsgFileMissing+rel)
			continue
		}

		if len(vars) > 0 {
			continue
		}

		result.ContentCompared++
		sourceData, serr := filesystem.ReadFile(source)
		destData, derr := filesystem.ReadFile(dest)
		if serr != nil || derr != nil || !bytes.Equal(sourceData, destData) {
			result.ContentValid = false
			result.Errors = append(result.Errors, MsgContentDiffers+rel)
		}
	}

	result.Valid = result.DirsValid && result.ContentValid

	logger.Info().
		Bool("valid", result.Valid).
		Int("dirsChecked", result.DirsChecked).
		Int("filesChecked", result.FilesChecked).
		Int("contentCompared", result.ContentCompared).
		Int("errors", len(result.Errors)).
		Msg("Validation completed")

	return result
}
