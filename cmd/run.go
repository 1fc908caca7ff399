package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/abhisek/abcadventure/internal/app"
	"github.com/abhisek/abcadventure/internal/config"
	"github.com/abhisek/abcadventure/internal/logging"
	"github.com/abhisek/abcadventure/internal/narration"
	"github.com/abhisek/abcadventure/internal/progress"
	"github.com/abhisek/abcadventure/internal/store"
)

// runtime bundles what every command needs.
type runtime struct {
	cfg      *config.Config
	logger   *slog.Logger
	dbPath   string
	store    *store.Store
	progress *progress.Service
	closers  []io.Closer
}

// openRuntime loads .env and the config, builds the logger and opens the
// store. quiet drops console logging, which the TUI needs when no log file
// is configured.
func openRuntime(cmd *cobra.Command, quiet bool) (*runtime, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "ignoring .env:", err)
	}

	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	rt := &runtime{cfg: cfg}
	if quiet && cfg.Logging.File == "" {
		rt.logger = logging.Discard()
	} else {
		logger, closer, err := logging.NewFromConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("init logging: %w", err)
		}
		rt.logger = logger
		if closer != nil {
			rt.closers = append(rt.closers, closer)
		}
	}

	rt.dbPath, err = resolveDBPath(cmd, cfg.Paths.DB)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	rt.store, err = store.Open(rt.dbPath)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	rt.closers = append(rt.closers, rt.store)

	rt.progress = progress.NewService(rt.store.StateRepo(), rt.store.EventRepo(), rt.logger)
	if err := rt.progress.Load(cmd.Context()); err != nil {
		rt.Close()
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return rt, nil
}

// Close releases resources in reverse order.
func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i].Close()
	}
	r.closers = nil
}

// runApp opens the store, takes the session lock and launches the TUI.
func runApp(cmd *cobra.Command) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return errors.New("play needs an interactive terminal")
	}

	rt, err := openRuntime(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	lock, err := store.AcquireSessionLock(rt.dbPath)
	if err != nil {
		return err
	}
	defer lock.Release()

	narrator := narration.New(
		narration.NewCommand(rt.cfg.Narration.Command),
		narration.VoiceFromConfig(rt.cfg.Narration),
		rt.logger,
	)
	defer narrator.Wait()
	defer narrator.Stop()

	return app.Run(cmd.Context(), app.Deps{
		Config:   rt.cfg,
		Progress: rt.progress,
		Narrator: narrator,
		Logger:   rt.logger,
	})
}
