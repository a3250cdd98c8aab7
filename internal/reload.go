package internal

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	pkgconfig "github.com/starford/resource-api/pkg/config"
)

const reloadDebounce = 200 * time.Millisecond

// WatchConfig reloads the config file whenever it changes and passes the
// validated result to apply. Invalid files are logged and ignored. It
// returns when ctx is cancelled.
//
// The parent directory is watched rather than the file itself so that
// editors which save by rename keep triggering reloads.
func WatchConfig(ctx context.Context, path string, logger *slog.Logger, apply func(*Config)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("config watcher: watch %s: %w", filepath.Dir(abs), err)
	}

	logger.Info("config watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("config watcher: stopped")
			return nil

		case <-fire:
			cfg := NewDefaultConfig()
			if err := pkgconfig.Load(abs, cfg); err != nil {
				logger.Warn("config watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			apply(cfg)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(abs) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
				fire = timer.C
			} else {
				timer.Reset(reloadDebounce)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("config watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// applyLogLevel returns a reload callback that updates level in place.
func applyLogLevel(level *slog.LevelVar, logger *slog.Logger) func(*Config) {
	return func(cfg *Config) {
		old := level.Level()
		if old == cfg.App.LogLevel {
			return
		}
		level.Set(cfg.App.LogLevel)
		logger.Info("config watcher: log level changed",
			slog.String("from", old.String()),
			slog.String("to", cfg.App.LogLevel.String()))
	}
}
