package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/ayusman/spellcast/internal/app"
	"github.com/ayusman/spellcast/internal/capture"
	"github.com/ayusman/spellcast/internal/config"
	"github.com/ayusman/spellcast/internal/detector"
	"github.com/ayusman/spellcast/internal/logger"
	"github.com/ayusman/spellcast/internal/notify"
	"github.com/ayusman/spellcast/internal/plugin"
	"github.com/ayusman/spellcast/internal/server"
	"github.com/ayusman/spellcast/internal/store"
	"github.com/ayusman/spellcast/internal/tray"
)

const shutdownTimeout = 5 * time.Second

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config file")
	withTray := flag.Bool("tray", false, "show a system tray menu")
	flag.Parse()

	// Only the default path may be missing.
	cfg, err := config.Load(*configPath, *configPath == config.DefaultPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "spellcast: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Log.Mode); err != nil {
		fmt.Fprintf(os.Stderr, "spellcast: init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, *withTray); err != nil {
		logger.Log().Error("spellcast failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg config.Config, withTray bool) error {
	log := logger.Log()

	if dir := filepath.Dir(cfg.Store.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	st, err := store.New(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	plugins := plugin.NewManager(cfg.Plugins.Dir, log)
	if err := plugins.Discover(); err != nil {
		return fmt.Errorf("discover plugins: %w", err)
	}

	var notifier app.Notifier
	if cfg.Webhook.URL != "" {
		notifier = notify.NewWebhook(cfg.Webhook.URL, cfg.Webhook.Timeout, log)
		log.Info("webhook enabled", zap.String("url", cfg.Webhook.URL))
	}

	application, err := app.New(app.Config{
		Camera:   capture.NewCamera(cfg.Camera, log),
		Detector: newDetector(cfg.Detector, log),
		Params:   cfg.Gesture.Params(),
		Store:    st,
		Plugins:  plugins,
		Executor: plugin.NewExecutor(cfg.Plugins.Timeout),
		Notifier: notifier,
		Log:      log,
	})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	hub := server.NewHub(log)
	application.OnLabel(func(label string, at time.Time) {
		hub.Broadcast(server.NewGestureMessage(label, at))
	})

	var tr *tray.Tray
	if withTray {
		tr = tray.New()
		application.OnLabel(func(label string, _ time.Time) {
			tr.SetActiveGesture(label)
		})
	}

	srv := server.New(server.Config{
		StaticDir: staticDir(cfg.Server.StaticDir, log),
		Store:     st,
		Plugins:   plugins,
		State:     application,
		Frames:    application,
		Hub:       hub,
		Log:       log,
	})

	if err := application.Start(); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe(cfg.Server.Addr)
	}()

	if tr != nil {
		tr.OnToggle(application.SetEnabled)
		tr.OnSettings(func() {
			openBrowser(settingsURL(cfg.Server.Addr), log)
		})
		tr.OnQuit(stop)
		go func() {
			<-ctx.Done()
			tr.Quit()
		}()
		// The tray owns the main goroutine until it quits.
		tr.Run()
		stop()
	}

	select {
	case <-ctx.Done():
		log.Info("shutting down")
		err = nil
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		log.Warn("http shutdown", zap.Error(serr))
	}
	application.Stop()

	return err
}

// newDetector prefers MediaPipe and falls back to a detector that never
// sees a hand, so the API stays usable without Python.
func newDetector(cfg detector.Config, log *zap.Logger) detector.Detector {
	mp, err := detector.NewMediaPipeDetector(cfg, log)
	if err != nil {
		log.Warn("mediapipe not available, hand detection disabled", zap.Error(err))
		return detector.NewMockDetector()
	}
	log.Info("using mediapipe hand detection")
	return mp
}

// staticDir returns dir when it exists, or "" to disable static files.
func staticDir(dir string, log *zap.Logger) string {
	if dir == "" {
		return ""
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Warn("static directory not found, web UI disabled", zap.String("dir", dir))
		return ""
	}
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

func settingsURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return "http://" + addr + "/"
}

func openBrowser(url string, log *zap.Logger) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil && !errors.Is(err, exec.ErrNotFound) {
		log.Warn("failed to open browser", zap.String("url", url), zap.Error(err))
		return
	}
	log.Info("settings", zap.String("url", url))
}
