package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/ndocs/cmd/ndocs/commands"
	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
	"git.home.luguber.info/inful/ndocs/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, executes the selected command and returns the exit code.
// Parse errors exit with 1; usage errors raised by convert exit with 2.
func run(args []string, stdout, stderr io.Writer) int {
	cli := commands.NewCLI(stderr)
	exitCode := -1
	parser, err := kong.New(cli,
		kong.Name("ndocs"),
		kong.Description("Convert format notes to HTML and stitch tutorial navigation."),
		kong.Vars{"version": version.String()},
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) {
			if exitCode < 0 {
				exitCode = code
			}
		}),
	)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "ndocs: %v\n", err)
		return derrors.ExitFailure
	}

	kctx, err := parser.Parse(args)
	if exitCode >= 0 {
		// --help or --version already printed.
		return exitCode
	}
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "ndocs: error: %v\n", err)
		if pe, ok := err.(*kong.ParseError); ok && pe.Context != nil {
			_ = pe.Context.PrintUsage(true)
		}
		return derrors.ExitFailure
	}

	globals := &commands.Global{Stdout: stdout}
	err = kctx.Run(globals, cli)
	return derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).WithOutput(stderr).Report(err)
}
