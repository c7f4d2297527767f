package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/service"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Hand Gesture Interpreter")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("session", uuid.NewString())
	slog.SetDefault(logger)

	cfg.StaticDir = findWebDir(cfg.StaticDir)
	if cfg.StaticDir != "" {
		logger.Info("serving static files", "dir", cfg.StaticDir)
	}

	svc, err := service.New(cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !cfg.Tray {
		err = svc.Run(ctx)
	} else {
		err = runWithTray(ctx, stop, svc, logger)
	}
	if err != nil {
		logger.Error("server failed", "error", err)
	}

	if err := svc.Close(); err != nil {
		logger.Error("shutdown", "error", err)
	}
	if err != nil {
		os.Exit(1)
	}
}

// runWithTray serves in the background while the tray owns the main
// goroutine. Quitting the tray stops the server and vice versa.
func runWithTray(ctx context.Context, stop context.CancelFunc, svc *service.Service, logger *slog.Logger) error {
	t := tray.New(string(svc.App.Status()))

	t.OnToggle(func() {
		if _, err := svc.App.ToggleCamera(ctx); err != nil {
			logger.Warn("camera toggle failed", "error", err)
		}
	})
	t.OnOpenPage(func() {
		if err := openBrowser(pageURL(svc.Config.Addr)); err != nil {
			logger.Warn("failed to open browser", "error", err)
		}
	})
	t.OnQuit(stop)

	svc.App.OnStatus(func(s app.Status) { t.SetStatus(string(s)) })
	svc.App.Subscribe(func(res app.FrameResult) {
		if res.Detected {
			t.SetLastGesture(res.Label)
		}
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- svc.Run(ctx)
		t.Quit()
	}()

	t.Run()
	stop()
	return <-errCh
}

// pageURL turns a listen address into a browsable URL.
func pageURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
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

// findWebDir resolves the configured static directory. A relative path is
// looked up from the working directory, its parents and ~/.mudra. Returns
// "" when nothing exists.
func findWebDir(dir string) string {
	if dir == "" {
		return ""
	}
	if filepath.IsAbs(dir) {
		if isDir(dir) {
			return dir
		}
		return ""
	}

	for _, p := range []string{dir, filepath.Join("..", dir), filepath.Join("..", "..", dir)} {
		if isDir(p) {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	if p := filepath.Join(homeDir, ".mudra", dir); isDir(p) {
		return p
	}
	return ""
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
