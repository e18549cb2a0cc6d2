// Package cli implements the schemaui command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/reoring/schemaui/app"
	"github.com/reoring/schemaui/document"
	"github.com/reoring/schemaui/internal/config"
)

// RootOptions holds the flags of the schemaui command.
type RootOptions struct {
	Schema       string
	SchemaInline string
	Config       string
	ConfigInline string
	Title        string

	Stdout     bool
	Outputs    []string
	TempFile   string
	NoTempFile bool
	NoPretty   bool
	Force      bool

	Settings string
	LogFile  string
	Verbose  bool

	// screen replaces the terminal in tests.
	screen tcell.Screen
}

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// NewRootCommand creates the schemaui command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "schemaui",
		Version: version,
		Short:   "Render JSON Schemas as interactive TUIs",
		Long: `Render a JSON Schema as an interactive terminal form and write the
edited document once it validates.

SPEC arguments are a file path, "-" for stdin, or inline JSON/YAML/TOML.
With only --config the schema is inferred from the data; with both, the
config prefills the form.

Example:
  schemaui --schema service.schema.json --config service.yaml -o service.yaml
  schemaui -c '{"name": "svc", "port": 8080}' --stdout`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Schema, "schema", "s", "", `schema SPEC: file path, inline payload, or "-" for stdin`)
	f.StringVar(&opts.SchemaInline, "schema-inline", "", "inline schema payload")
	f.StringVarP(&opts.Config, "config", "c", "", `config SPEC: file path, inline payload, or "-" for stdin`)
	f.StringVar(&opts.Config, "data", "", "alias for --config")
	f.StringVar(&opts.ConfigInline, "config-inline", "", "inline config payload")
	f.StringVar(&opts.Title, "title", "", "title shown at the top of the UI")
	f.BoolVar(&opts.Stdout, "stdout", false, "write the saved document to stdout")
	f.StringArrayVarP(&opts.Outputs, "output", "o", nil, `output destination, repeatable ("-" writes to stdout)`)
	f.StringVar(&opts.TempFile, "temp-file", "", "override the default temp file used when no destination is set")
	f.BoolVar(&opts.NoTempFile, "no-temp-file", false, "do not write the default temp file when no destination is set")
	f.BoolVar(&opts.NoPretty, "no-pretty", false, "emit compact JSON/TOML")
	f.BoolVarP(&opts.Force, "force", "f", false, "overwrite existing output files")
	f.BoolVarP(&opts.Force, "yes", "y", false, "alias for --force")
	f.StringVar(&opts.Settings, "settings", "", "settings file (default $"+config.EnvVar+" or <config dir>/schemaui/settings.yaml)")
	f.StringVar(&opts.LogFile, "log-file", "", "write logs to this file")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	_ = f.MarkHidden("data")
	_ = f.MarkHidden("yes")
	cmd.MarkFlagsMutuallyExclusive("schema", "schema-inline")
	cmd.MarkFlagsMutuallyExclusive("config", "config-inline")
	cmd.MarkFlagsMutuallyExclusive("data", "config-inline")
	cmd.MarkFlagsMutuallyExclusive("no-temp-file", "temp-file")

	return cmd
}

// Execute runs the command with interrupt handling and returns the process
// exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCommand()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return ExitCode(err)
}

func run(cmd *cobra.Command, opts *RootOptions) error {
	log, closeLog, err := openLog(opts)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open log file", err)
	}
	defer closeLog()

	settings, err := config.Resolve(opts.Settings)
	if err != nil {
		return WrapExitError(ExitCommandError, "", err)
	}
	if errs := config.Validate(settings); len(errs) > 0 {
		return &ExitError{
			Code:    ExitCommandError,
			Message: fmt.Sprintf("invalid settings %s:\n  - %s", settings.Path, strings.Join(errs, "\n  - ")),
		}
	}
	settings.Install()
	appOpts, err := settings.ApplyTo(app.DefaultOptions())
	if err != nil {
		return WrapExitError(ExitCommandError, "", err)
	}
	appOpts = appOpts.WithLogger(log)
	if opts.screen != nil {
		appOpts = appOpts.WithScreen(opts.screen)
	}

	ui, err := prepare(opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "", err)
	}
	ui = ui.WithOptions(appOpts)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	log.Debug("starting session", "title", opts.Title, "settings", settings.Path)
	if _, err := ui.Run(ctx); err != nil {
		if errors.Is(err, app.ErrAbandoned) {
			return WrapExitError(ExitAbandoned, "", err)
		}
		return WrapExitError(ExitCommandError, "", err)
	}
	log.Info("document saved")
	return nil
}

// prepare resolves inputs and outputs into a session. Every input and
// output problem is reported at once.
func prepare(opts *RootOptions, stdin io.Reader, stdout, stderr io.Writer) (*app.SchemaUI, error) {
	var d diagnostics
	schemaSrc := newSource("schema", opts.Schema, opts.SchemaInline)
	configSrc := newSource("config", opts.Config, opts.ConfigInline)

	in := loadInputs(schemaSrc, configSrc, stdin, &d)
	output, paths := buildOutput(opts, in.configHint, in.schemaHint, &d)
	ensureAvailable(paths, opts.Force, &d)
	if err := d.err(); err != nil {
		return nil, err
	}

	if in.schema == nil && in.config != nil && document.LooksLikeSchema(in.config) {
		fmt.Fprintln(stderr, "detected JSON Schema provided via --config; treating it as the active schema")
		in.schema, in.config = in.config, nil
	}

	var ui *app.SchemaUI
	switch {
	case in.schema != nil:
		obj, ok := in.schema.(*document.Object)
		if !ok {
			return nil, fmt.Errorf("schema must be an object, got %s", document.TypeName(in.schema))
		}
		ui = app.NewSchemaUI(obj)
		if in.config != nil {
			ui = ui.WithDefaults(in.config)
		}
	case in.config != nil:
		ui = app.FromData(in.config)
	default:
		return nil, errors.New("provide at least --schema or --config")
	}

	if opts.Title != "" {
		ui = ui.WithTitle(opts.Title)
	}
	if output != nil {
		out := *output
		out.Stdout = stdout
		ui = ui.WithOutput(out)
	}
	return ui, nil
}

func openLog(opts *RootOptions) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	if opts.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(handler), func() { _ = f.Close() }, nil
}
