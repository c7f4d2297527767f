// Package service assembles a running mudra process from its configuration.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/announce"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/drawing"
	"github.com/ayusman/mudra/internal/history"
	"github.com/ayusman/mudra/internal/metrics"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/server/api"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/transport"
)

// DBName is the settings database file inside the data directory.
const DBName = "mudra.db"

// Service owns every long-lived component of the process.
type Service struct {
	Config    *config.Config
	Store     *store.Store
	Metrics   *metrics.Manager
	Hub       *server.Hub
	Notifier  *announce.NotifySpeaker
	Announcer *announce.Announcer
	Element   *transport.Element
	Media     transport.Media
	Canvas    *drawing.Canvas
	App       *app.App
	Server    *server.Server

	queue  *transport.AsyncMedia
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// New builds a Service from cfg. Nothing is started: the camera and the
// HTTP listener come up in Run.
func New(cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	stroke, err := strokeFromConfig(cfg.Drawing)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(filepath.Join(cfg.DataDir, DBName))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	defaults := api.Settings{Lang: cfg.Speech.Lang, Rate: cfg.Speech.Rate, Notify: cfg.Speech.Notify}
	settings, err := api.LoadSettings(st.Settings(), defaults)
	if err != nil {
		logger.Warn("failed to load saved settings, using defaults", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Service{
		Config:  cfg,
		Store:   st,
		Metrics: metrics.NewManager(),
		logger:  logger.With("component", "service"),
		ctx:     ctx,
		cancel:  cancel,
	}

	s.Hub = server.NewHub(logger, s.Metrics)
	s.Notifier = announce.NewNotifySpeaker(settings.Notify)
	s.Announcer = announce.NewAnnouncer(
		announce.NewSpeakers(logger, s.Hub, s.Notifier),
		settings.Lang, settings.Rate, logger,
	)
	s.Announcer.OnError = func(error) { s.Metrics.RecordSpeakError() }

	s.Element = transport.NewElement()
	s.Element.Observe(s.Hub.PublishMedia)
	s.Hub.OnMediaSync(s.Element.Sync)
	if media := s.pluginMedia(); media != nil {
		s.queue = transport.NewAsyncMedia(media, func(command string, err error) {
			s.logger.Warn("transport plugin command failed", "command", command, "error", err)
			s.Metrics.RecordTransportError(command)
		})
		s.Media = s.queue
	} else {
		s.Media = s.Element
	}

	s.Canvas = drawing.NewCanvas(cfg.Drawing.Width, cfg.Drawing.Height)

	s.App = app.New(app.Config{
		Camera:    capture.NewCamera(capture.Config{Device: cfg.Camera.Device, Width: cfg.Camera.Width, Height: cfg.Camera.Height, FPS: cfg.Camera.FPS}),
		Detector:  s.detector(),
		Announcer: s.Announcer,
		History:   history.New(cfg.History.Capacity),
		Drawing:   drawing.NewMachine(s.Canvas, stroke),
		Transport: transport.NewController(s.Media, cfg.Transport.SeekStep),
		Metrics:   s.Metrics,
		Logger:    logger,
	})
	s.App.Subscribe(s.Hub.PublishFrame)
	s.App.OnStatus(s.Hub.PublishStatus)

	s.Server = server.New(server.Config{
		App:        s.App,
		Store:      st,
		Hub:        s.Hub,
		Canvas:     s.Canvas,
		Metrics:    s.Metrics,
		StaticDir:  cfg.StaticDir,
		FPS:        cfg.Camera.FPS,
		Settings:   defaults,
		OnSettings: s.applySettings,
		Logger:     logger,
	})

	return s, nil
}

func strokeFromConfig(d config.Drawing) (drawing.Stroke, error) {
	c, err := drawing.ParseHexColor(d.StrokeColor)
	if err != nil {
		return drawing.Stroke{}, fmt.Errorf("%w: drawing stroke_color: %v", config.ErrInvalidConfig, err)
	}
	return drawing.Stroke{Width: d.StrokeWidth, Color: c}, nil
}

// detector returns the MediaPipe detector, or nil when its service script
// is not installed. Without a detector camera frames are shown but not
// classified; the page can still push landmarks.
func (s *Service) detector() detector.Detector {
	d := s.Config.Detector
	mp, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:         d.MaxHands,
		ModelComplexity:  d.ModelComplexity,
		MinDetectionConf: d.MinDetectionConfidence,
		MinTrackingConf:  d.MinTrackingConfidence,
	}, s.logger)
	if err != nil {
		s.logger.Warn("MediaPipe not available, camera frames will not be classified", "error", err)
		return nil
	}
	s.logger.Info("using MediaPipe hand detection")
	return mp
}

// pluginMedia returns the configured plugin player, or nil to use the
// page's player. Its commands run a subprocess, so New puts it behind an
// AsyncMedia.
func (s *Service) pluginMedia() transport.Media {
	name := s.Config.Transport.Plugin
	if name == "" {
		return nil
	}

	mgr := plugin.NewManager(s.Config.PluginDir, s.logger)
	if err := mgr.Discover(); err != nil {
		s.logger.Warn("plugin discovery failed", "dir", s.Config.PluginDir, "error", err)
		return nil
	}
	p, err := mgr.Get(name)
	if err != nil {
		s.logger.Warn("transport plugin unavailable, using page player", "plugin", name, "error", err)
		return nil
	}

	media := transport.NewPluginMedia(s.ctx, p, plugin.NewExecutor(s.Config.Transport.PluginTimeout))
	if err := media.Refresh(); err != nil {
		s.logger.Warn("failed to read player position", "plugin", name, "error", err)
	}
	s.logger.Info("using transport plugin", "plugin", name, "version", p.Manifest.Version)
	return media
}

func (s *Service) applySettings(v api.Settings) {
	s.Announcer.SetVoice(v.Lang, v.Rate)
	s.Notifier.SetEnabled(v.Notify)
}

// Run starts the camera if configured and serves HTTP until ctx ends. A
// camera that cannot be acquired is reported and left off.
func (s *Service) Run(ctx context.Context) error {
	if s.Config.Camera.Enabled {
		if err := s.App.StartCamera(ctx); err != nil {
			s.logger.Warn("camera not started, toggle it to retry", "error", err)
		}
	}
	return s.Server.Run(ctx, s.Config.Addr)
}

// Close stops every component and releases its resources.
func (s *Service) Close() error {
	s.cancel()

	var errs []error
	if err := s.App.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close app: %w", err))
	}
	if s.queue != nil {
		s.queue.Close()
	}
	s.Hub.Close()
	if err := s.Canvas.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close canvas: %w", err))
	}
	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close store: %w", err))
	}
	return errors.Join(errs...)
}
