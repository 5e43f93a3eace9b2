package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/agenda/internal/agenda"
	"github.com/idilsaglam/agenda/internal/config"
	"github.com/idilsaglam/agenda/internal/history"
	"github.com/idilsaglam/agenda/internal/logging"
	"github.com/idilsaglam/agenda/internal/store/jsonstore"
	"github.com/idilsaglam/agenda/internal/ui"
)

// Options carry the root flags.
type Options struct {
	ConfigPath string
	DataDir    string
	Theme      string
	Debug      bool
}

// usageError maps to exit code 2.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// usageArgs marks positional-argument failures as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{msg: cmd.Name() + ": " + err.Error()}
		}
		return nil
	}
}

// app is what every subcommand works against, built once per invocation.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	closer  io.Closer
	store   *jsonstore.Store
	history *history.Log
	book    *agenda.Book
}

func (a *app) close() {
	if a.closer != nil {
		a.closer.Close()
	}
}

func newApp(opt *Options) (*app, error) {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opt.DataDir != "" {
		cfg.DataDir = opt.DataDir
	}
	if opt.Theme != "" {
		cfg.Theme = opt.Theme
	}
	ui.SetTheme(cfg.Theme)

	logger, closer, err := logging.New(cfg.Log.Level, cfg.Log.File, opt.Debug)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	s := jsonstore.New(cfg.DataDir)
	log, err := history.Open(s, history.WithLogger(logger))
	if err != nil {
		closer.Close()
		return nil, err
	}
	book, err := agenda.Open(s, log, logger)
	if err != nil {
		closer.Close()
		return nil, err
	}
	return &app{cfg: cfg, logger: logger, closer: closer, store: s, history: log, book: book}, nil
}

// NewRootCommand builds the command tree. The root command starts the TUI.
// The returned func releases what the invoked command opened.
func NewRootCommand() (*cobra.Command, func()) {
	opt := &Options{}
	var a *app
	cleanup := func() {
		if a != nil {
			a.close()
		}
	}

	root := &cobra.Command{
		Use:   "agenda",
		Short: "Meeting agenda timers in your terminal",
		Long: `agenda - meeting agenda timers

Enter agenda topics with durations, generate one countdown per topic and
run them with start/pause, reset, extend and stop controls. Every reset,
early stop and finished timer is recorded in a rolling history.

Examples:
  agenda add "Intro" -m 5
  agenda add "Roadmap review" -m 20 -s 30
  agenda ls
  agenda                # open the interactive timers`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(opt)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), a)
		},
	}

	root.PersistentFlags().StringVar(&opt.ConfigPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().StringVar(&opt.DataDir, "data-dir", "", "directory holding agenda.json and history.json")
	root.PersistentFlags().StringVar(&opt.Theme, "theme", "", "output theme (classic, neon, mono)")
	root.PersistentFlags().BoolVar(&opt.Debug, "debug", false, "log at debug level")

	getApp := func() *app { return a }
	root.AddCommand(
		newTUICommand(getApp),
		newAddCommand(getApp),
		newListCommand(getApp),
		newRemoveCommand(getApp),
		newEditCommand(getApp),
		newHistoryCommand(getApp),
		newImportCommand(getApp),
		newExportCommand(getApp),
	)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})
	return root, cleanup
}

// Execute runs the CLI and returns an exit code (0 ok, 1 error, 2 usage).
func Execute(ctx context.Context, args []string) int {
	root, cleanup := NewRootCommand()
	defer cleanup()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	ui.Fail(err.Error())
	var ue usageError
	if errors.As(err, &ue) || errors.Is(err, agenda.ErrIndexOutOfRange) || errors.Is(err, agenda.ErrEmptyTopic) {
		fmt.Fprintln(os.Stderr, ui.Dim("Hint: run `agenda --help` or `agenda ls` to see valid input"))
		return 2
	}
	return 1
}
