package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pomo/internal/core/timekeeper"
	"pomo/internal/platform"
	"pomo/internal/session"
	"pomo/internal/storage"
	"pomo/internal/ui/preferences"
	"pomo/internal/ui/terminal"
)

type runOptions struct {
	work   time.Duration
	brk    time.Duration
	tick   time.Duration
	cycles int
	yes    bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the work/break timer",
		Long: `Start a work interval, then offer a break, then offer another cycle.

At a prompt, Enter, space or y continues and Esc or n declines.
Ctrl-C stops the timer at any point.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, root, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.work, "work", 0, "work interval length (overrides settings)")
	cmd.Flags().DurationVar(&opts.brk, "break", 0, "break length (overrides settings)")
	cmd.Flags().DurationVar(&opts.tick, "tick", 0, "countdown refresh interval (overrides settings)")
	cmd.Flags().IntVar(&opts.cycles, "cycles", 0, "stop after this many cycles (0 = until declined)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "answer yes to every prompt")
	return cmd
}

func runRun(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	paths, err := resolvePaths()
	if err != nil {
		return err
	}
	if err := paths.EnsureDir(); err != nil {
		return err
	}

	settings, err := storage.LoadSettings(paths.SettingsFile)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	settings = applyRunFlags(cmd, opts, settings)

	logger, closeLog, err := openLogger(paths.LogFile, settings.LogLevel, root.verbose)
	if err != nil {
		return err
	}
	defer closeLog()

	guard, err := platform.AcquireSingleInstance(paths)
	if err != nil {
		return err
	}
	defer func() {
		_ = guard.Release()
	}()

	var recorder session.Recorder
	if settings.HistoryEnabled {
		history, err := storage.OpenHistory(paths.HistoryFile)
		if err != nil {
			logger.Warn("history disabled", "error", err)
		} else {
			defer history.Close()
			recorder = history
		}
	}

	config := settings.TimerConfig()
	config.MaxCycles = opts.cycles

	keeper := timekeeper.New(timekeeper.Config{TickInterval: config.TickInterval})
	events := keeper.Subscribe(16)
	logged := make(chan struct{})
	go func() {
		defer close(logged)
		for event := range events {
			logger.Debug("timekeeper event",
				"type", event.Type,
				"kind", event.Kind,
				"remaining", event.Remaining,
				"progress", event.Progress,
				"message", event.Message,
			)
		}
	}()
	defer func() {
		keeper.Close()
		<-logged
	}()

	keys := terminal.NewKeyReader(cmd.InOrStdin())
	if !keys.Interactive() && !config.AutoContinue {
		logger.Info("stdin is not a terminal; reading answers line by line")
	}

	timer, err := session.New(keeper, config, session.Deps{
		Display:  terminal.NewDisplay(cmd.OutOrStdout()),
		Prompter: keys,
		Recorder: recorder,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	logger.Info("session started",
		"work", config.WorkPeriod,
		"break", config.BreakLength,
		"tick", config.TickInterval,
		"max_cycles", config.MaxCycles,
	)
	err = timer.Run(ctx)
	logger.Info("session ended", "cycles", timer.Cycles(), "error", err)
	return err
}

// applyRunFlags layers explicitly set flags over the loaded settings.
func applyRunFlags(cmd *cobra.Command, opts *runOptions, settings preferences.Settings) preferences.Settings {
	flags := cmd.Flags()
	if flags.Changed("work") {
		settings.WorkDuration = opts.work
	}
	if flags.Changed("break") {
		settings.BreakDuration = opts.brk
	}
	if flags.Changed("tick") {
		settings.TickInterval = opts.tick
	}
	if opts.yes {
		settings.AutoContinue = true
	}
	return settings
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
