package validator

import (
	"github.com/arthur-debert/skel/pkg/generator"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/matcher"
	"github.com/arthur-debert/skel/pkg/populator"
	"github.com/arthur-debert/skel/pkg/template"
	"github.com/arthur-debert/skel/pkg/types"
	"github.com/arthur-debert/skel/pkg/variables"
)

// SelfTestResult carries the per-stage outcome of a pipeline dry
// exercise.
type SelfTestResult struct {
	ReadOK     bool
	GenerateOK bool
	PopulateOK bool
	ValidateOK bool
	Overall    bool
	Errors     []string
}

// SelfTest runs the whole pipeline (read, generate, populate,
// validate) against the given template and target, recording which
// stages succeeded. The target must satisfy the usual generation
// preconditions.
func SelfTest(filesystem types.FS, templateRoot, target string, m *matcher.Matcher, vars variables.Set) *SelfTestResult {
	logger := logging.GetLogger("validator")
	logger.Info().
		Str("templateRoot", templateRoot).
		Str("target", target).
		Msg("Running pipeline self-test")

	result := &SelfTestResult{}

	s, err := template.Read(filesystem, templateRoot, m)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	if ok, errs := template.Validate(s); !ok {
		result.Errors = append(result.Errors, errs...)
		return result
	}
	result.ReadOK = true

	genStats, err := generator.Generate(filesystem, s, target, generator.Options{})
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.GenerateOK = genStats.DirsFailed == 0
	result.Errors = append(result.Errors, prefixAll("generate: ", genStats.Failed)...)

	popStats, err := populator.Populate(filesystem, s, target, populator.Options{Variables: vars})
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result
	}
	result.PopulateOK = popStats.FilesFailed == 0
	result.Errors = append(result.Errors, prefixAll("populate: ", popStats.Failed)...)

	validation := Validate(filesystem, s, target, vars)
	result.ValidateOK = validation.Valid
	result.Errors = append(result.Errors, validation.Errors...)

	result.Overall = result.ReadOK && result.GenerateOK &&
		result.PopulateOK && result.ValidateOK

	logger.Info().Bool("overall", result.Overall).Msg("Pipeline self-test completed")
	return result
}

func prefixAll(prefix string, items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = prefix + item
	}
	return out
}
