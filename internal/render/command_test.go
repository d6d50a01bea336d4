package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/ndocs/internal/config"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/retry"
)

// fakeRunner records the invocation and optionally writes the output page.
type fakeRunner struct {
	dir    string
	name   string
	args   []string
	input  []byte
	write  []byte
	stderr string
	err    error
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (string, string, error) {
	f.dir, f.name, f.args = dir, name, args
	f.input, _ = os.ReadFile(filepath.Join(dir, "Zip-notes.md"))
	// Renderer by-products must disappear along with the workspace.
	_ = os.MkdirAll(filepath.Join(dir, "github-markdown-css"), 0o750)
	if f.write != nil {
		_ = os.WriteFile(filepath.Join(dir, "Zip-notes.html"), f.write, 0o600)
	}
	return "", f.stderr, f.err
}

func newTestCommandConverter(t *testing.T, runner CommandRunner) *CommandConverter {
	t.Helper()
	c, err := NewCommandConverter([]string{"gh-md-to-html", "{input}", "--math={math}", "--box-width={box_width}", "--footer-file={footer_file}"}, t.TempDir())
	require.NoError(t, err)
	return c.WithRunner(runner)
}

func TestCommandConverter_Success(t *testing.T) {
	runner := &fakeRunner{write: []byte("<html>ok</html>")}
	conv := newTestCommandConverter(t, runner)

	out, err := conv.Convert(context.Background(), Request{
		Path:     "DiskArc/Arc/Zip-notes.md",
		Markdown: []byte("# Zip\n"),
		Footer:   "<p>f</p>",
		Options:  Options{Math: false, BoxWidth: "25cm"},
	})
	require.NoError(t, err)

	assert.Equal(t, "<html>ok</html>", string(out))
	assert.Equal(t, "gh-md-to-html", runner.name)
	assert.Equal(t, []string{
		filepath.Join(runner.dir, "Zip-notes.md"),
		"--math=false",
		"--box-width=25cm",
		"--footer-file=" + filepath.Join(runner.dir, "footer.html"),
	}, runner.args)
	assert.Equal(t, "# Zip\n", string(runner.input))

	_, statErr := os.Stat(runner.dir)
	assert.True(t, os.IsNotExist(statErr), "workspace should be removed")
}

func TestCommandConverter_Failure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("exit status 1"), stderr: "rate limit exceeded\n"}
	conv := newTestCommandConverter(t, runner)

	_, err := conv.Convert(context.Background(), Request{Path: "DiskArc/Arc/Zip-notes.md", Markdown: []byte("x")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConverterFailed)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryRender))

	classified, ok := derrors.AsClassified(err)
	require.True(t, ok)
	assert.True(t, classified.IsFatal())
	stderr, _ := classified.Context().GetString("stderr")
	assert.Equal(t, "rate limit exceeded", stderr)

	_, statErr := os.Stat(runner.dir)
	assert.True(t, os.IsNotExist(statErr), "workspace should be removed after failure")
}

func TestCommandConverter_NoOutput(t *testing.T) {
	runner := &fakeRunner{}
	conv := newTestCommandConverter(t, runner)

	_, err := conv.Convert(context.Background(), Request{Path: "DiskArc/Arc/Zip-notes.md"})
	require.ErrorIs(t, err, ErrNoOutput)
	assert.Equal(t, derrors.CategoryRender, derrors.GetCategory(err))
}

func TestNewCommandConverter_Empty(t *testing.T) {
	_, err := NewCommandConverter(nil, "")
	require.Error(t, err)
	_, err = NewCommandConverter([]string{""}, "")
	require.Error(t, err)
}

func TestCommandConverter_NoRetryByDefault(t *testing.T) {
	runner := &flakyRunner{failures: 1}
	conv := newTestCommandConverter(t, runner)

	_, err := conv.Convert(context.Background(), Request{Path: "DiskArc/Arc/Zip-notes.md", Markdown: []byte("x")})
	require.ErrorIs(t, err, ErrConverterFailed)
	assert.Equal(t, 1, runner.calls)
}

// flakyRunner fails until it has been called failures+1 times.
type flakyRunner struct {
	failures int
	calls    int
	dirs     []string
}

func (f *flakyRunner) Run(_ context.Context, dir, _ string, _ ...string) (string, string, error) {
	f.calls++
	f.dirs = append(f.dirs, dir)
	if f.calls <= f.failures {
		return "", "rate limit exceeded", errors.New("exit status 1")
	}
	return "", "", os.WriteFile(filepath.Join(dir, "Zip-notes.html"), []byte("<html>late</html>"), 0o600)
}

func TestCommandConverter_RetriesFailedRuns(t *testing.T) {
	runner := &flakyRunner{failures: 2}
	conv := newTestCommandConverter(t, runner).
		WithRetry(retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2))

	out, err := conv.Convert(context.Background(), Request{Path: "DiskArc/Arc/Zip-notes.md", Markdown: []byte("x")})
	require.NoError(t, err)
	assert.Equal(t, "<html>late</html>", string(out))
	assert.Equal(t, 3, runner.calls)
	require.Len(t, runner.dirs, 3)
	assert.NotEqual(t, runner.dirs[0], runner.dirs[1], "each attempt gets its own workspace")
}

func TestCommandConverter_RetriesExhausted(t *testing.T) {
	runner := &flakyRunner{failures: 5}
	conv := newTestCommandConverter(t, runner).
		WithRetry(retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 1))

	_, err := conv.Convert(context.Background(), Request{Path: "DiskArc/Arc/Zip-notes.md", Markdown: []byte("x")})
	require.ErrorIs(t, err, ErrConverterFailed)
	assert.Equal(t, 2, runner.calls)
}

func TestCommandConverter_NoOutputIsNotRetried(t *testing.T) {
	runner := &fakeRunner{}
	conv := newTestCommandConverter(t, runner).
		WithRetry(retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 3))

	_, err := conv.Convert(context.Background(), Request{Path: "DiskArc/Arc/Zip-notes.md", Markdown: []byte("x")})
	require.ErrorIs(t, err, ErrNoOutput)
}
