package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/generator"
	"github.com/arthur-debert/skel/pkg/populator"
	"github.com/arthur-debert/skel/pkg/validator"
)

func parseReport(t *testing.T, data []byte) *etree.Element {
	t.Helper()
	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(data))
	root := doc.SelectElement("testsuites")
	require.NotNil(t, root)
	return root
}

func TestWrite_FullRun(t *testing.T) {
	var buf bytes.Buffer
	run := Run{
		Template: "default",
		Target:   "/work/proj",
		Duration: 1500 * time.Millisecond,
		Generated: &generator.Stats{
			DirsCreated: 3, DirsSkipped: 1,
		},
		Populated: &populator.Stats{
			FilesCopied: 4, FilesFailed: 1,
			Failed: []string{"src/a.txt"},
		},
		Validation: &validator.Result{
			DirsValid:       true,
			DirsChecked:     4,
			FilesChecked:    5,
			ContentCompared: 5,
			Errors:          []string{validator.MsgContentDiffers + "README.md"},
		},
	}

	require.NoError(t, Write(&buf, run))
	root := parseReport(t, buf.Bytes())

	assert.Equal(t, "skel", root.SelectAttrValue("name", ""))
	assert.Equal(t, "default", root.SelectAttrValue("template", ""))
	assert.Equal(t, "/work/proj", root.SelectAttrValue("target", ""))
	assert.Equal(t, "1.500", root.SelectAttrValue("time", ""))
	assert.Equal(t, "7", root.SelectAttrValue("tests", ""))
	assert.Equal(t, "2", root.SelectAttrValue("failures", ""))

	suites := root.SelectElements("testsuite")
	require.Len(t, suites, 3)
	assert.Equal(t, "structure", suites[0].SelectAttrValue("name", ""))
	assert.Equal(t, "population", suites[1].SelectAttrValue("name", ""))
	assert.Equal(t, "content", suites[2].SelectAttrValue("name", ""))

	assert.Equal(t, "2", suites[0].SelectAttrValue("tests", ""))
	assert.Equal(t, "0", suites[0].SelectAttrValue("failures", ""))

	assert.Equal(t, "3", suites[1].SelectAttrValue("tests", ""))
	assert.Equal(t, "1", suites[1].SelectAttrValue("failures", ""))

	cases := suites[1].SelectElements("testcase")
	require.Len(t, cases, 3)
	assert.Equal(t, "files: 4 copied, 0 skipped, 1 failed", cases[0].SelectAttrValue("name", ""))
	assert.Equal(t, "skel.population", cases[0].SelectAttrValue("classname", ""))
	failing := cases[2]
	assert.Equal(t, "file could not be written: src/a.txt", failing.SelectAttrValue("name", ""))
	failure := failing.SelectElement("failure")
	require.NotNil(t, failure)
	assert.Equal(t, "file could not be written: src/a.txt",
		failure.SelectAttrValue("message", ""))

	contentCases := suites[2].SelectElements("testcase")
	require.Len(t, contentCases, 2)
	assert.NotNil(t, contentCases[1].SelectElement("failure"))
}

func TestWrite_RoutesValidatorErrorsByStage(t *testing.T) {
	var buf bytes.Buffer
	run := Run{
		Template: "default",
		Target:   "/work/proj",
		Validation: &validator.Result{
			DirsChecked: 2, FilesChecked: 2, ContentCompared: 1,
			Errors: []string{
				validator.MsgDirMissing + "src",
				validator.MsgFileMissing + "src/a.txt",
				validator.MsgContentDiffers + "README.md",
			},
		},
	}

	require.NoError(t, Write(&buf, run))
	root := parseReport(t, buf.Bytes())

	suites := root.SelectElements("testsuite")
	require.Len(t, suites, 3)
	for _, suite := range suites {
		assert.Equal(t, "1", suite.SelectAttrValue("failures", ""),
			"suite %s", suite.SelectAttrValue("name", ""))
	}
}

func TestWrite_CheckOnlyRunOmitsPipelineStats(t *testing.T) {
	var buf bytes.Buffer
	run := Run{
		Template: "custom",
		Target:   "/work/proj",
		Validation: &validator.Result{
			Valid: true, DirsValid: true, ContentValid: true,
			DirsChecked: 1, FilesChecked: 2, ContentCompared: 2,
		},
	}

	require.NoError(t, Write(&buf, run))
	root := parseReport(t, buf.Bytes())

	assert.Equal(t, "3", root.SelectAttrValue("tests", ""))
	assert.Equal(t, "0", root.SelectAttrValue("failures", ""))

	suites := root.SelectElements("testsuite")
	require.Len(t, suites, 3)
	cases := suites[0].SelectElements("testcase")
	require.Len(t, cases, 1)
	assert.Equal(t, "directories checked: 1", cases[0].SelectAttrValue("name", ""))
}
