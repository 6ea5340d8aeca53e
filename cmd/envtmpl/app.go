package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/errgo.v1"

	"github.com/canonical/charmed-temporal-image/envtmpl/envfile"
	"github.com/canonical/charmed-temporal-image/envtmpl/render"
)

// ErrInputNotFound is the cause of the error returned when the template
// file does not exist.
var ErrInputNotFound = errgo.New("input file not found")

var errMissingInput = errgo.New("an input file must be provided")

// run executes the command line and returns the process exit code.
// A nil logger means one is built from the --debug flag.
func run(args []string, stdout, stderr io.Writer, logger *zap.Logger) int {
	err := newApp(stdout, stderr, logger).Run(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newApp(stdout, stderr io.Writer, logger *zap.Logger) *cli.App {
	return &cli.App{
		Name:            "envtmpl",
		Usage:           "replace ${VAR} placeholders using a .env file and the process environment",
		ArgsUsage:       "<input_file> [output_file]",
		Writer:          stdout,
		ErrWriter:       stderr,
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "env-file",
				Aliases: []string{"e"},
				Value:   envfile.DefaultPath,
				Usage:   "environment file with KEY=VALUE lines",
				EnvVars: []string{"ENVTMPL_ENV_FILE"},
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "enable debug logging",
			},
		},
		// Errors are reported by run.
		ExitErrHandler: func(*cli.Context, error) {},
		Action: func(c *cli.Context) error {
			l := logger
			if l == nil {
				l = newLogger(stderr, c.Bool("debug"))
			}
			defer func() {
				_ = l.Sync()
			}()

			switch {
			case c.NArg() == 0:
				_ = cli.ShowAppHelp(c)
				return errMissingInput
			case c.NArg() > 2:
				return errgo.Newf("too many arguments: expected at most 2, got %d", c.NArg())
			}

			return renderFile(l, c.App.Writer, c.String("env-file"), c.Args().Get(0), c.Args().Get(1))
		},
	}
}

// renderFile renders input into output, which defaults to input itself.
// Nothing is written unless the whole template has been rendered.
func renderFile(logger *zap.Logger, stdout io.Writer, envFile, input, output string) error {
	if _, err := os.Stat(input); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errgo.WithCausef(nil, ErrInputNotFound, "File '%s' not found.", input)
		}
		return errgo.Notef(err, "cannot access input file")
	}

	vars, err := envfile.Resolve(envFile)
	if err != nil {
		return errgo.Mask(err)
	}
	logger.Debug("resolved variables", zap.String("env_file", envFile), zap.Int("count", len(vars)))

	data, err := os.ReadFile(input)
	if err != nil {
		return errgo.Notef(err, "cannot read input file")
	}
	text := string(data)

	rendered := render.Render(text, vars)
	for _, name := range render.Unresolved(text, vars) {
		logger.Warn("placeholder left unresolved", zap.String("name", name), zap.String("file", input))
	}

	target := output
	if target == "" {
		target = input
	}
	if err := os.WriteFile(target, []byte(rendered), 0o644); err != nil {
		return errgo.Notef(err, "cannot write output file")
	}
	logger.Debug("wrote rendered template", zap.String("path", target), zap.Int("bytes", len(rendered)))

	if output != "" {
		fmt.Fprintf(stdout, "✓ Rendered to '%s'\n", output)
	} else {
		fmt.Fprintf(stdout, "✓ Rendered '%s'\n", input)
	}
	return nil
}

func newLogger(w io.Writer, debug bool) *zap.Logger {
	level := zapcore.WarnLevel
	if debug {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}
