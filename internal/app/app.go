package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/kiosk/internal/catalog"
	"github.com/five82/kiosk/internal/config"
	"github.com/five82/kiosk/internal/prefs"
	"github.com/five82/kiosk/internal/storeapi"
	"github.com/five82/kiosk/internal/ui"
)

// Options configure the kiosk application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/kiosk/prefs.toml
	APIURL     string // overrides config and environment when set
	Version    string
}

// Session holds everything one kiosk invocation needs. Close it when done so
// the log file is flushed and metrics are written.
type Session struct {
	Config   config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Client   *storeapi.Client
	Catalog  *catalog.Manager

	logCloser io.Closer
}

// Open loads configuration and builds the logger, metrics registry, API
// client and catalog manager.
func Open(opts Options) (*Session, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load kiosk config: %w", err)
	}
	if v := strings.TrimSpace(opts.APIURL); v != "" {
		cfg.APIURL = v
	}

	logger, closer, err := openLogger(cfg)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	clientOpts := []storeapi.Option{
		storeapi.WithTimeout(cfg.RequestTimeout),
		storeapi.WithLogger(logger),
		storeapi.WithMetrics(storeapi.NewMetrics(registry)),
	}
	if opts.Version != "" {
		clientOpts = append(clientOpts, storeapi.WithUserAgent("kiosk/"+opts.Version))
	}
	client, err := storeapi.NewClient(cfg.APIURL, clientOpts...)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("init catalog client: %w", err)
	}

	logger.Info("kiosk session started", "api", client.BaseURL(), "timeout", cfg.RequestTimeout)

	return &Session{
		Config:    cfg,
		Logger:    logger,
		Registry:  registry,
		Client:    client,
		Catalog:   catalog.NewManager(client, logger),
		logCloser: closer,
	}, nil
}

// Close writes the metrics textfile when configured and closes the log.
func (s *Session) Close() error {
	var errs []error
	if path := s.Config.MetricsFile; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			errs = append(errs, fmt.Errorf("create metrics dir: %w", err))
		} else if err := prometheus.WriteToTextfile(path, s.Registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics: %w", err))
		}
	}
	s.Logger.Info("kiosk session finished")
	if s.logCloser != nil {
		if err := s.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Run boots the kiosk TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	session, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	userPrefs := prefs.Load(opts.PrefsPath)

	return ui.Run(ui.Options{
		Context:   ctx,
		Catalog:   session.Catalog,
		Logger:    session.Logger,
		APIURL:    session.Client.BaseURL(),
		LogFile:   session.Config.LogFile,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
	})
}

// openLogger writes slog text records to the configured log file. The TUI
// owns the terminal, so nothing is logged to stderr.
func openLogger(cfg config.Config) (*slog.Logger, io.Closer, error) {
	handlerOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, handlerOpts)), nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(file, handlerOpts)), file, nil
}
