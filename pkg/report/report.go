// Package report renders pipeline outcomes as JUnit XML so CI systems
// can consume scaffolding and validation results.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/generator"
	"github.com/arthur-debert/skel/pkg/populator"
	"github.com/arthur-debert/skel/pkg/validator"
)

// Run aggregates the outcomes of one pipeline run. Stage fields may be
// nil when that stage did not run (skel check only validates).
type Run struct {
	Template string
	Target   string
	Duration time.Duration

	Generated  *generator.Stats
	Populated  *populator.Stats
	Validation *validator.Result
}

type stage struct {
	name      string
	summaries []string
	failures  []string
}

// Write renders run as JUnit XML: one testsuite per pipeline stage
// (structure, population, content), a testcase per summary line, and a
// failing testcase per recorded error.
func Write(w io.Writer, run Run) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("testsuites")
	root.CreateAttr("name", "skel")
	root.CreateAttr("template", run.Template)
	root.CreateAttr("target", run.Target)
	root.CreateAttr("time", strconv.FormatFloat(run.Duration.Seconds(), 'f', 3, 64))

	tests, failures := 0, 0
	for _, st := range stages(run) {
		suite := root.CreateElement("testsuite")
		suite.CreateAttr("name", st.name)
		suite.CreateAttr("tests", strconv.Itoa(len(st.summaries)+len(st.failures)))
		suite.CreateAttr("failures", strconv.Itoa(len(st.failures)))

		for _, summary := range st.summaries {
			tc := suite.CreateElement("testcase")
			tc.CreateAttr("name", summary)
			tc.CreateAttr("classname", "skel."+st.name)
		}
		for _, msg := range st.failures {
			tc := suite.CreateElement("testcase")
			tc.CreateAttr("name", msg)
			tc.CreateAttr("classname", "skel."+st.name)
			failure := tc.CreateElement("failure")
			failure.CreateAttr("message", msg)
		}

		tests += len(st.summaries) + len(st.failures)
		failures += len(st.failures)
	}

	root.CreateAttr("tests", strconv.Itoa(tests))
	root.CreateAttr("failures", strconv.Itoa(failures))

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrReport, "failed to write report")
	}
	return nil
}

// stages maps pipeline outcomes onto the three report stages.
// Validator errors are routed by their message prefix.
func stages(run Run) []stage {
	structure := stage{name: "structure"}
	population := stage{name: "population"}
	content := stage{name: "content"}

	if run.Generated != nil {
		structure.summaries = append(structure.summaries,
			fmt.Sprintf("directories: %d created, %d skipped, %d failed",
				run.Generated.DirsCreated, run.Generated.DirsSkipped, run.Generated.DirsFailed))
		for _, rel := range run.Generated.Failed {
			structure.failures = append(structure.failures, "directory could not be created: "+rel)
		}
	}

	if run.Populated != nil {
		population.summaries = append(population.summaries,
			fmt.Sprintf("files: %d copied, %d skipped, %d failed",
				run.Populated.FilesCopied, run.Populated.FilesSkipped, run.Populated.FilesFailed))
		for _, rel := range run.Populated.Failed {
			population.failures = append(population.failures, "file could not be written: "+rel)
		}
	}

	if run.Validation != nil {
		structure.summaries = append(structure.summaries,
			fmt.Sprintf("directories checked: %d", run.Validation.DirsChecked))
		population.summaries = append(population.summaries,
			fmt.Sprintf("files checked: %d", run.Validation.FilesChecked))
		content.summaries = append(content.summaries,
			fmt.Sprintf("contents compared: %d", run.Validation.ContentCompared))

		for _, msg := range run.Validation.Errors {
			switch {
			case strings.HasPrefix(msg, validator.MsgDirMissing):
				structure.failures = append(structure.failures, msg)
			case strings.HasPrefix(msg, validator.MsgFileMissing):
				population.failures = append(population.failures, msg)
			default:
				content.failures = append(content.failures, msg)
			}
		}
	}

	return []stage{structure, population, content}
}
