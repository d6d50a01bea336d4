package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path"
	"strconv"
	"strings"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/logfields"
	"git.home.luguber.info/inful/ndocs/internal/retry"
	"git.home.luguber.info/inful/ndocs/internal/workspace"
)

// CommandRunner abstracts command execution so tests need no real subprocess.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	// #nosec G204 -- the renderer command comes from configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// CommandConverter hands each document to an external renderer.
//
// For every call a fresh scratch directory is created holding <name>.md and
// footer.html; the command must leave <name>.html next to them. The directory
// and anything else the renderer drops there (stylesheets, images) is removed
// before Convert returns.
type CommandConverter struct {
	argv     []string
	tempBase string
	runner   CommandRunner
	policy   retry.Policy
}

// NewCommandConverter creates a converter running argv. Arguments may use the
// placeholders {input}, {output}, {footer}, {footer_file}, {math} and
// {box_width}. tempBase is where scratch directories go ("" for os.TempDir).
func NewCommandConverter(argv []string, tempBase string) (*CommandConverter, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, derrors.ConfigError("renderer command is empty").Build()
	}
	return &CommandConverter{
		argv:     append([]string(nil), argv...),
		tempBase: tempBase,
		runner:   ExecRunner{},
		policy:   retry.DefaultPolicy(),
	}, nil
}

// WithRetry sets the policy for retrying failed renderer runs. Retrying is
// opt-in: the default policy has MaxRetries 0, so a failed run is reported
// at once unless render.max_retries is set. Each attempt gets a fresh scratch
// directory; a run that exits cleanly without output is not retried.
func (c *CommandConverter) WithRetry(p retry.Policy) *CommandConverter {
	c.policy = p
	return c
}

// WithRunner replaces the command runner.
func (c *CommandConverter) WithRunner(r CommandRunner) *CommandConverter {
	if r != nil {
		c.runner = r
	}
	return c
}

// Convert implements Converter.
func (c *CommandConverter) Convert(ctx context.Context, req Request) ([]byte, error) {
	name := strings.TrimSuffix(path.Base(req.Path), path.Ext(req.Path))
	if name == "" || name == "." || name == "/" {
		name = "document"
	}

	var out []byte
	retryable := func(err error) bool { return errors.Is(err, ErrConverterFailed) }
	err := c.policy.Do(ctx, retryable, func(attempt int) error {
		if attempt > 0 {
			slog.Warn("Retrying renderer", logfields.Path(req.Path), slog.Int("attempt", attempt+1))
		}
		data, err := c.convertOnce(ctx, name, req)
		out = data
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CommandConverter) convertOnce(ctx context.Context, name string, req Request) ([]byte, error) {
	var out []byte
	err := workspace.Within(c.tempBase, "ndocs-render-", func(ws *workspace.Manager) error {
		input, output, footer := ws.File(name+".md"), ws.File(name+".html"), ws.File("footer.html")
		if err := os.WriteFile(input, req.Markdown, 0o600); err != nil {
			return derrors.FileSystemError("cannot write renderer input").WithCause(err).Build()
		}
		if err := os.WriteFile(footer, []byte(req.Footer), 0o600); err != nil {
			return derrors.FileSystemError("cannot write renderer footer").WithCause(err).Build()
		}

		repl := strings.NewReplacer(
			"{input}", input,
			"{output}", output,
			"{footer_file}", footer,
			"{footer}", req.Footer,
			"{math}", strconv.FormatBool(req.Options.Math),
			"{box_width}", req.Options.BoxWidth,
		)
		args := make([]string, 0, len(c.argv)-1)
		for _, a := range c.argv[1:] {
			args = append(args, repl.Replace(a))
		}

		slog.Debug("Invoking renderer", logfields.Path(req.Path), slog.String("command", c.argv[0]))
		stdout, stderr, err := c.runner.Run(ctx, ws.GetPath(), c.argv[0], args...)
		if stdout != "" {
			slog.Debug("renderer stdout", "output", stdout)
		}
		if err != nil {
			return derrors.RenderError("renderer failed").
				WithCause(fmt.Errorf("%w: %w", ErrConverterFailed, err)).
				WithContext("path", req.Path).
				WithContext("stderr", strings.TrimSpace(stderr)).
				Build()
		}

		data, err := os.ReadFile(output)
		if errors.Is(err, fs.ErrNotExist) {
			return derrors.RenderError("renderer produced no output").
				WithCause(ErrNoOutput).
				WithContext("path", req.Path).
				Build()
		}
		if err != nil {
			return derrors.FileSystemError("cannot read renderer output").WithCause(err).Build()
		}
		out = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
