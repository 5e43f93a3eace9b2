package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/agenda/internal/config"
	"github.com/idilsaglam/agenda/internal/countdown"
	"github.com/idilsaglam/agenda/internal/notify"
	"github.com/idilsaglam/agenda/internal/store"
	"github.com/idilsaglam/agenda/internal/tui"
)

func newTUICommand(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive agenda editor and timers (default)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), getApp())
		},
	}
}

func runTUI(ctx context.Context, a *app) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// the UI still works without watchers, it just won't see edits from
	// other shells until its next write
	changes, err := a.store.Watch(ctx, store.AgendaKey)
	if err != nil {
		a.logger.Warn("agenda watch unavailable", "err", err)
		changes = nil
	}
	hchanges, err := a.store.Watch(ctx, store.HistoryKey)
	if err != nil {
		a.logger.Warn("history watch unavailable", "err", err)
		hchanges = nil
	}

	cfg := a.cfg

	return tui.Run(ctx, tui.Deps{
		Book:           a.book,
		History:        a.history,
		Gate:           notify.NewGate(cfg.Permission()),
		Desktop:        notify.NewDesktop(),
		Alarm:          notify.NewAlarm(cfg.Alarm.Command, os.Stderr),
		Logger:         a.logger,
		Timer:          timerOptions(cfg),
		ExtendSmall:    cfg.Timer.ExtendSmall,
		ExtendLarge:    cfg.Timer.ExtendLarge,
		DefaultTitle:   cfg.Title.Default,
		Changes:        changes,
		HistoryChanges: hchanges,
	})
}

// timerOptions keeps the one-second tick; only presentation and the
// suppress window come from config.
func timerOptions(cfg *config.Config) countdown.Options {
	opts := countdown.DefaultOptions()
	opts.SuppressWindow = cfg.Timer.SuppressWindow
	opts.AlertTitle = cfg.Title.Alert
	opts.Icon = cfg.Notifications.Icon
	return opts
}
