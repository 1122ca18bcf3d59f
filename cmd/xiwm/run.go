package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xi/xiwm/internal/config"
	"github.com/xi/xiwm/internal/daemon"
	"github.com/xi/xiwm/internal/hotkeys"
	"github.com/xi/xiwm/internal/ipc"
	"github.com/xi/xiwm/internal/launcher"
	"github.com/xi/xiwm/internal/platform"
	"github.com/xi/xiwm/internal/wm"
)

func newRunCmd(configPath *string) *cobra.Command {
	var display string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the window manager (foreground)",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runWM(*configPath, display)
		},
	}
	cmd.Flags().StringVar(&display, "display", "", "X display to manage (default: config display, then $DISPLAY)")
	return cmd
}

func runWM(configPath, display string) {
	res, err := loadConfigResult(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	logger.Info("configuration loaded", "file", res.File, "desktops", cfg.Desktops, "rules", len(cfg.Rules))

	if display == "" {
		display = cfg.Display
	}
	backend, err := platform.NewLinuxBackendFromDisplay(display, logger)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}

	spawner := launcher.New(logger)
	core, err := newCore(cfg, backend, spawner, logger)
	if err != nil {
		log.Fatalf("Failed to set up window manager: %v", err)
	}

	session := daemon.New(daemon.Config{
		Backend:  backend,
		Core:     core,
		Commands: cfg.Commands,
		Autostart: func() error {
			return spawner.Autostart(cfg.Autostart)
		},
		Logger: logger,
	})

	ipcServer, err := ipc.NewServer(session, logger)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	ipcRunning := true
	if err := ipcServer.Start(); err != nil {
		logger.Warn("IPC server unavailable", "error", err)
		ipcRunning = false
	}
	shutdown := func() {
		if ipcRunning {
			ipcServer.Stop()
		}
		backend.Disconnect()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	logger.Info("xiwm started", "version", version)
	err = session.Run(ctx)
	shutdown()
	switch {
	case errors.Is(err, platform.ErrAnotherWM):
		log.Fatalf("%v", err)
	case err != nil:
		logger.Error("window manager stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("xiwm stopped")
}

// newCore resolves bindings against the display and builds the window
// manager from the validated configuration.
func newCore(cfg *config.Config, backend *platform.LinuxBackend, spawner wm.Spawner, logger *slog.Logger) (*wm.WM, error) {
	normal, focused, err := cfg.BorderPixels()
	if err != nil {
		return nil, err
	}
	rules, err := cfg.WMRules()
	if err != nil {
		return nil, err
	}
	keys, err := cfg.KeyBindings()
	if err != nil {
		return nil, err
	}
	buttons, err := cfg.ButtonBindings()
	if err != nil {
		return nil, err
	}
	table, err := hotkeys.NewTable(backend, keys, buttons)
	if err != nil {
		return nil, err
	}

	return wm.New(backend, wm.Options{
		Desktops:       cfg.Desktops,
		InitialDesktop: cfg.InitialDesktop,
		NormalColor:    normal,
		FocusedColor:   focused,
		SplitFactor:    cfg.SplitFactor,
		Rules:          rules,
		Bindings:       table,
		Spawner:        spawner,
		Logger:         logger,
	})
}
