package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"navsync/internal/browser"
	"navsync/internal/config"
	"navsync/internal/logging"
	"navsync/internal/router"
)

// errPageClosed ends the group when the browser stops delivering events.
var errPageClosed = errors.New("browser event stream ended")

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Route a real browser page and log what the views would do",
	Long: `Opens (or attaches to) a Chrome page through the DevTools protocol and runs
the router against its hashchange events. Edits to the config file are picked
up without a restart.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ropts, err := routerOptions()
	if err != nil {
		return err
	}

	session := browser.NewSession(browser.FromConfig(cfg), logs.Get(logging.CategoryBrowser))
	if err := session.Start(ctx); err != nil {
		return fmt.Errorf("failed to start browser session: %w", err)
	}
	defer func() {
		if err := session.Shutdown(); err != nil {
			logger.Warn("browser shutdown", zap.Error(err))
		}
	}()

	loc := session.Location()
	views := router.Logged{Logger: logs.Get(logging.CategoryRouter)}
	collab := views.Collaborators()
	collab.Focus = loc
	r := router.New(loc, collab, ropts)
	r.Writer().OnBeforeChange(views.BeforeChange)

	fmt.Fprintf(cmd.OutOrStdout(), "Routing %s (session %s, DevTools %s). Press Ctrl+C to stop.\n",
		cfg.Browser.StartURL, session.ID, session.ControlURL())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := r.Run(gctx, session); err != nil {
			return err
		}
		return errPageClosed
	})
	g.Go(func() error {
		w := config.NewWatcher(configPath, func(next *config.Config) {
			applyReload(gctx, r, next)
		}, logs.Get(logging.CategoryConfig))
		return w.Run(gctx)
	})

	err = g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, errPageClosed) {
		return nil
	}
	return err
}

// applyReload hands a reloaded configuration to the router goroutine.
func applyReload(ctx context.Context, r *router.Router, next *config.Config) {
	reg, err := next.Registry()
	if err != nil {
		logger.Warn("reloaded overlay table rejected", zap.Error(err))
		return
	}
	logs.Reload(next.Logging)
	if err := r.Do(ctx, func() { r.SetRegistry(reg) }); err != nil {
		logger.Debug("reload dropped", zap.Error(err))
		return
	}
	logger.Info("overlay table reloaded", zap.Int("groups", len(reg.Groups())))
}
