package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"

	"github.com/ayusman/hologram/internal/app"
	"github.com/ayusman/hologram/internal/capture"
	"github.com/ayusman/hologram/internal/config"
	"github.com/ayusman/hologram/internal/detector"
	"github.com/ayusman/hologram/internal/plugin"
	"github.com/ayusman/hologram/internal/server"
	"github.com/ayusman/hologram/internal/store"
	"github.com/ayusman/hologram/internal/tray"
)

func doServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logCloser := config.SetupLogging(cfg.Log)
	defer logCloser.Close()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	hooks, err := startHooks(cfg)
	if err != nil {
		return err
	}

	det, err := detector.NewMediaPipeDetector(cfg.Detector)
	if err != nil {
		return fmt.Errorf("initialize detector: %w", err)
	}

	opts := app.Options{
		Camera:   capture.NewCamera(cfg.Capture),
		Detector: det,
		Store:    st,
		Hooks:    hooks,
		Metrics:  app.NewMetrics(gometrics.DefaultRegistry),
	}
	if path, _ := cmd.Flags().GetString("record"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create recording: %w", err)
		}
		defer f.Close()
		opts.Recorder = detector.NewRecorder(f)
		log.Printf("Recording landmarks to %s", path)
	}

	session := app.New(app.Config{
		Filter:    cfg.Filter,
		Capture:   cfg.Capture,
		FrameRate: cfg.FrameRate,
		Source:    store.SourceCamera,
	}, opts)
	if v, err := st.Settings().Get(app.SettingTrackingEnabled); err == nil && v == "false" {
		session.SetEnabled(false)
	}

	webDir := findWebDir(cfg)
	if webDir != "" {
		log.Printf("Serving static files from: %s", webDir)
	}
	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		Session:   session,
		PoseRate:  cfg.Server.PoseRate,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpServer := &http.Server{Addr: cfg.Server.Addr, Handler: srv}
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server failed: %v", err)
			stop()
		}
	}()

	if err := session.Start(ctx); err != nil {
		session.Stop()
		stop()
		httpServer.Close()
		return err
	}

	if cfg.Tray {
		runTray(ctx, stop, session, rendererURL(cfg.Server.Addr))
	} else {
		<-ctx.Done()
	}

	log.Println("Shutting down")
	session.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if hooks != nil {
		hooks.Close(shutdownCtx)
	}
	return nil
}

// startHooks discovers event hooks. It returns nil when there are none.
func startHooks(cfg config.Config) (*plugin.Dispatcher, error) {
	manager := plugin.NewManager(cfg.HookDir())
	if err := manager.Discover(); err != nil {
		return nil, fmt.Errorf("discover hooks: %w", err)
	}
	hooks := manager.List()
	if len(hooks) == 0 {
		return nil, nil
	}
	for _, p := range hooks {
		log.Printf("Loaded hook %s %s", p.Manifest.Name, p.Manifest.Version)
	}

	return plugin.NewDispatcher(manager, plugin.NewExecutor(cfg.Hooks.Timeout()), cfg.Hooks.Queue, nil), nil
}

// runTray blocks in the tray loop until quit is chosen or ctx ends.
func runTray(ctx context.Context, quit context.CancelFunc, session *app.Session, url string) {
	t := tray.New()
	t.SetEnabled(session.Enabled())
	t.OnToggle(session.SetEnabled)
	session.OnEnabledChange(t.SetEnabled)
	t.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			log.Printf("Error opening browser: %v", err)
		}
	})
	t.OnQuit(quit)
	session.AddSink(t)

	go func() {
		<-ctx.Done()
		t.Quit()
	}()
	t.Run()
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
