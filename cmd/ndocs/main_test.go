package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ntesting "git.home.luguber.info/inful/ndocs/internal/testing"
)

const navPage = "<html>\n<body>\n<div id=\"prevnext\">\n</div>\n</body>\n</html>\n"

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	ntesting.WriteFile(t, path, body)
}

func TestRun_ConvertWithoutDocumentsExitsTwo(t *testing.T) {
	t.Chdir(t.TempDir())

	code, _, stderr := runCLI(t, "convert")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "Usage: convert <md-path|all>")
}

func TestRun_Version(t *testing.T) {
	code, stdout, _ := runCLI(t, "--version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "ndocs ")
}

func TestRun_UnknownFlagExitsOne(t *testing.T) {
	code, _, stderr := runCLI(t, "prevnext", "--bogus")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "bogus")
}

func TestRun_ConvertEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "src", "DiskArc", "Arc", "Zip-notes.md"),
		"# Zip\n\nSee [NuFX](NuFX-notes.md) and [code](../../Common/x.c).\n")
	writeFile(t, filepath.Join(dir, "ndocs.yaml"), "source_tree: src\noutput_dir: out\n")

	code, _, stderr := runCLI(t, "convert", "--metrics-file", "ndocs.prom", "DiskArc/Arc/Zip-notes.md")
	require.Equal(t, 0, code, stderr)

	page, err := os.ReadFile(filepath.Join(dir, "out", "Zip-notes.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `<a href="NuFX.html">NuFX</a>`)
	assert.Contains(t, string(page), `href="https://github.com/fadden/CiderPress2/blob/main/Common/x.c"`)
	assert.Contains(t, string(page), "Return to documentation index")
	assert.NotContains(t, string(page), "/github-markdown-css/")

	prom, err := os.ReadFile(filepath.Join(dir, "ndocs.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "ndocs_documents_converted_total 1")
	assert.Contains(t, string(prom), "ndocs_links_rewritten_total 2")
}

func TestRun_ConvertMissingSourceExitsOne(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "ndocs.yaml"), "source_tree: src\noutput_dir: out\n")

	code, _, stderr := runCLI(t, "convert", "DiskArc/Arc/Gone-notes.md")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "cannot open source document")
}

func TestRun_ExplicitConfigMustExist(t *testing.T) {
	t.Chdir(t.TempDir())

	code, _, _ := runCLI(t, "--config", "missing.yaml", "prevnext", "tut")
	assert.Equal(t, 1, code)
}

func TestRun_PrevnextEndToEnd(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	for _, name := range []string{"a.html", "b.html", "c.html"} {
		writeFile(t, filepath.Join(dir, "tut", name), navPage)
	}
	writeFile(t, filepath.Join(dir, "tut", "topic-list.txt"), "a.html\nb.html\nc.html\n")

	code, stdout, stderr := runCLI(t, "prevnext", "tut")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "tut: 3 changed, 0 unchanged, 0 without marker")

	b, err := os.ReadFile(filepath.Join(dir, "tut", "b.html"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `<a href="a.html" class="btn-previous">&laquo; Previous</a>`)
	assert.Contains(t, string(b), `<a href="c.html" class="btn-next">Next &raquo;</a>`)

	code, stdout, _ = runCLI(t, "prevnext", "tut")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "tut: 0 changed, 3 unchanged")
}

func TestRun_PrevnextDryRun(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "tut", "a.html"), navPage)
	writeFile(t, filepath.Join(dir, "tut", "b.html"), navPage)
	writeFile(t, filepath.Join(dir, "tut", "topic-list.txt"), "a.html\nb.html\n")

	code, stdout, _ := runCLI(t, "prevnext", "--dry-run", "tut")
	require.Equal(t, 0, code)
	assert.Contains(t, stdout, "2 would change")

	a, err := os.ReadFile(filepath.Join(dir, "tut", "a.html"))
	require.NoError(t, err)
	assert.Equal(t, navPage, string(a))
}

func TestRun_PrevnextMissingPageExitsOne(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "tut", "a.html"), navPage)
	writeFile(t, filepath.Join(dir, "tut", "topic-list.txt"), "a.html\nmissing.html\n")

	code, _, stderr := runCLI(t, "prevnext", "tut")
	assert.Equal(t, 1, code)
	assert.True(t, strings.Contains(stderr, "missing.html"), stderr)
}

func TestRun_CheckReportsBrokenLinks(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "src", "A", "a-notes.md"), "# A\n\n[b](b-notes.md) [gone](gone.c)\n")
	writeFile(t, filepath.Join(dir, "ndocs.yaml"),
		"source_tree: src\noutput_dir: out\ndocuments:\n  - A/a-notes.md\n")

	code, stdout, stderr := runCLI(t, "check")
	assert.Equal(t, 1, code)
	ntesting.NewFileAssertions(t, dir).AssertFileNotExists("out")
	assert.Contains(t, stdout, "A/a-notes.md:3: error missing_notes: b-notes.md")
	assert.Contains(t, stdout, "A/a-notes.md:3: error missing_source: gone.c")
	assert.Contains(t, stdout, "1 documents, 2 links, 2 findings (2 errors)")
	assert.Contains(t, stderr, "broken links found")
}

func TestRun_CheckJSONClean(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, filepath.Join(dir, "src", "A", "a-notes.md"), "[b](b-notes.md)\n")
	writeFile(t, filepath.Join(dir, "src", "A", "b-notes.md"), "[a](a-notes.md)\n")
	writeFile(t, filepath.Join(dir, "ndocs.yaml"),
		"source_tree: src\ndocuments:\n  - A/a-notes.md\n  - A/b-notes.md\n")

	code, stdout, stderr := runCLI(t, "check", "--format", "json", "A/b-notes.md")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, `"documents": 1`)
	assert.Contains(t, stdout, `"findings": []`)
}
