package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wristsim/internal/config"
	"wristsim/internal/core/audio"
	"wristsim/internal/core/battery"
	"wristsim/internal/core/model"
	"wristsim/internal/core/watch"
	xlog "wristsim/internal/log"
	"wristsim/internal/metrics"
	"wristsim/internal/platform"
	"wristsim/internal/storage"
	"wristsim/internal/ui/popup"
	"wristsim/internal/ui/preferences"
	"wristsim/internal/ui/tray"
	"wristsim/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const appName = "WristSim"

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: user config dir)")
	flag.Parse()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		if activateErr := platform.Activate(appName); activateErr != nil {
			xlog.Base().Warn().Err(activateErr).Msg("another instance holds the lock but did not answer")
		}
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	path := *configPath
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			path = ""
		}
	}
	cfg, loadErr := config.Load(path)

	xlog.Configure(xlog.Config{Level: cfg.LogLevel})
	logger := xlog.WithComponent("main")
	if loadErr != nil {
		logger.Warn().Err(loadErr).Str("event", "config.load_failed").Str("path", path).Msg("using default configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine := watch.New(watch.Options{
		Config:              cfg.Engine,
		BatterySource:       batterySource(cfg),
		InitialBatteryLevel: cfg.Battery.InitialLevel,
		Player:              cuePlayer(cfg),
		Store:               openStore(ctx, cfg, logger),
	})

	fyneApp := app.NewWithID("com.wristsim.app")
	fyneApp.SetIcon(resources.AppIcon())
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		logger.Error().Msg("system tray unsupported on this platform")
		_ = engine.Close()
		return
	}

	trayWindow := fyneApp.NewWindow(appName)
	trayWindow.SetContent(widget.NewLabel("WristSim is running in the system tray."))
	trayWindow.SetCloseIntercept(func() {
		trayWindow.Hide()
	})
	trayWindow.Hide()
	desktopApp.SetSystemTrayWindow(trayWindow)

	holder := config.NewHolder(cfg, path)
	snapshot := engine.Snapshot()
	popupWindow := popup.New(fyneApp, popupConfig(snapshot, cfg.Engine))
	popupWindow.SetOnOpen(func() {
		engine.Navigate(model.ViewMessages)
	})

	prefsWindow := preferences.New(fyneApp, preferences.FromSnapshot(snapshot), func(before, after preferences.Settings) {
		if err := preferences.Apply(engine, before, after); err != nil {
			logger.Warn().Err(err).Str("event", "preferences.apply_failed").Msg("some preferences were not applied")
		}
	})

	trayManager := tray.New(desktopApp, tray.Callbacks{
		OnPreferences: func() {
			prefsWindow.UpdateSettings(preferences.FromSnapshot(engine.Snapshot()))
			prefsWindow.Show()
		},
		OnTogglePower: func() {
			if engine.Snapshot().Power.Powered() {
				engine.PowerOff()
			} else {
				engine.PowerOn()
			}
		},
		OnNavigate: engine.Navigate,
		OnStopwatch: func() {
			if engine.Snapshot().Stopwatch.Running {
				engine.StopStopwatch()
			} else {
				engine.StartStopwatch()
			}
		},
		OnLap: func() {
			engine.RecordLap()
		},
		OnResetWatch:    engine.ResetStopwatch,
		OnMarkAllRead:   engine.MarkAllRead,
		OnClearMessages: engine.ClearAllNotifications,
		OnMode: func(mode model.NotificationMode) {
			if err := engine.SetNotificationMode(mode); err != nil {
				logger.Warn().Err(err).Str("event", "settings.mode_failed").Msg("notification mode not persisted")
			}
		},
		OnToggleCharger: func() {
			if err := engine.SetCharging(!engine.Snapshot().Battery.Charging); err != nil {
				logger.Info().Err(err).Msg("charger can only be toggled on the simulated battery")
			}
		},
		OnQuit: func() {
			stop()
			fyneApp.Quit()
		},
	})
	desktopApp.SetSystemTrayIcon(resources.TrayIcon(snapshot))

	events := engine.Subscribe(32)
	go func() {
		for event := range events {
			event := event
			fyne.Do(func() {
				popupWindow.Sync(event.Snapshot)
				if event.Type == watch.EventTick {
					return
				}
				trayManager.Update(event.Snapshot)
				desktopApp.SetSystemTrayIcon(resources.TrayIcon(event.Snapshot))
				if event.Type == watch.EventSettings {
					popupWindow.UpdateConfig(popupConfig(event.Snapshot, holder.Get().Engine))
				}
			})
		}
	}()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return engine.Run(groupCtx)
	})
	group.Go(func() error {
		return watchConfig(groupCtx, holder, engine, logger, func(updated config.Config) {
			current := popupConfig(engine.Snapshot(), updated.Engine)
			fyne.Do(func() {
				popupWindow.UpdateConfig(current)
			})
		})
	})
	group.Go(func() error {
		return guard.Serve(groupCtx, func() {
			fyne.Do(prefsWindow.Show)
		})
	})
	if cfg.MetricsAddr != "" {
		serveMetrics(groupCtx, group, cfg.MetricsAddr, logger)
	}
	go func() {
		<-groupCtx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	engine.PowerOn()
	fyneApp.Run()

	stop()
	if err := engine.Close(); err != nil {
		logger.Warn().Err(err).Str("event", "storage.close_failed").Msg("store close failed")
	}
	if err := group.Wait(); err != nil {
		logger.Error().Err(err).Msg("shutdown with error")
	}
}

func batterySource(cfg config.Config) battery.Source {
	if cfg.Battery.Source == config.BatteryAuto {
		return platform.NewBatterySource()
	}
	return nil
}

func cuePlayer(cfg config.Config) audio.Player {
	if cfg.CueSink == config.CueSinkLog {
		return audio.LogPlayer{Logger: xlog.WithComponent("cue")}
	}
	return audio.NopPlayer{}
}

func openStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) storage.Store {
	store, err := storage.Open(ctx, storage.Options{
		Backend:   cfg.Storage.Backend,
		Dir:       cfg.Storage.Dir,
		RedisAddr: cfg.Storage.RedisAddr,
		Logger:    xlog.WithComponent("storage"),
	})
	if err != nil {
		logger.Warn().Err(err).Str("event", "storage.open_failed").Str("backend", cfg.Storage.Backend).Msg("settings will not survive a restart")
		return storage.NewMemory()
	}
	return store
}

// watchConfig applies reloaded configuration until ctx is done. A watcher
// that cannot start leaves the current configuration in place.
// watchConfig applies reloaded configuration to the engine and then hands it
// to onApplied for the shell.
func watchConfig(ctx context.Context, holder *config.Holder, engine *watch.Engine, logger zerolog.Logger, onApplied func(config.Config)) error {
	updates := make(chan config.Config, 1)
	holder.RegisterListener(updates)

	go func() {
		if err := holder.Watch(ctx); err != nil {
			logger.Warn().Err(err).Str("event", "config.watch_failed").Msg("config reload disabled")
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case updated := <-updates:
			xlog.SetLevel(updated.LogLevel)
			engine.UpdateConfig(updated.Engine)
			if onApplied != nil {
				onApplied(updated)
			}
			logger.Info().Str("event", "config.applied").Msg("configuration reloaded")
		}
	}
}

func serveMetrics(ctx context.Context, group *errgroup.Group, addr string, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	group.Go(func() error {
		logger.Info().Str("event", "metrics.listen").Str("addr", addr).Msg("serving metrics")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn().Err(err).Str("event", "metrics.listen_failed").Msg("metrics endpoint disabled")
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
}

func popupConfig(snapshot model.Snapshot, engineConfig model.EngineConfig) popup.Config {
	return popup.Config{
		Brightness: snapshot.Brightness,
		DarkMode:   snapshot.DarkMode,
		VibrateFor: engineConfig.VibrateDuration,
	}
}
