package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/abhisek/inference/internal/bot"
	"github.com/abhisek/inference/internal/catalog"
	"github.com/abhisek/inference/internal/chanlock"
	"github.com/abhisek/inference/internal/config"
	"github.com/abhisek/inference/internal/logger"
	"github.com/abhisek/inference/internal/metrics"
	"github.com/abhisek/inference/internal/progression"
	"github.com/abhisek/inference/internal/store"
)

// deps holds everything a command needs to serve requests.
type deps struct {
	cfg     *config.Config
	log     *logger.Logger
	engine  *progression.Engine
	store   *store.Store
	locks   chanlock.Locker
	metrics *metrics.Metrics
	handler *bot.Handler

	closers []func() error
}

// Close releases resources in reverse order of acquisition.
func (d *deps) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		errs = append(errs, d.closers[i]())
	}
	return errors.Join(errs...)
}

// loadConfig reads the environment and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	for name, dst := range map[string]*string{
		"db":           &cfg.DBPath,
		"catalog":      &cfg.CatalogPath,
		"user":         &cfg.UserID,
		"channel":      &cfg.Channel,
		"log-mode":     &cfg.LogMode,
		"redis":        &cfg.RedisAddr,
		"metrics-addr": &cfg.MetricsAddr,
	} {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	if flags.Changed("user") {
		cfg.UserName = cfg.UserID
	}
	if flags.Changed("admin") {
		cfg.Admin, _ = flags.GetBool("admin")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG path.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openDeps builds the full request pipeline. A nil log selects a logger from
// the configured mode.
func openDeps(cmd *cobra.Command, log *logger.Logger) (*deps, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	d := &deps{cfg: cfg, log: log}

	if d.log == nil {
		d.log, err = logger.New(cfg.LogMode)
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
		d.closers = append(d.closers, func() error { d.log.Sync(); return nil })
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	d.engine = progression.NewEngine(cat)
	d.log.Debug("catalog loaded", "catalog", cat.String())

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	d.store, err = store.Open(dbPath)
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("open store: %w", err)
	}
	d.closers = append(d.closers, d.store.Close)

	if cfg.RedisAddr != "" {
		rl, err := chanlock.NewRedis(ctx, cfg.RedisAddr, chanlock.DefaultTTL)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("connect channel lock: %w", err)
		}
		d.locks = rl
		d.closers = append(d.closers, rl.Close)
	} else {
		d.locks = chanlock.NewMemory()
	}

	reg := prometheus.NewRegistry()
	d.metrics = metrics.New(reg)
	if cfg.MetricsAddr != "" {
		d.serveMetrics(reg)
	}

	d.handler = bot.NewHandler(d.engine, d.store.UserRepo(), d.locks,
		bot.WithEventRepo(d.store.EventRepo()),
		bot.WithLogger(d.log),
		bot.WithMetrics(d.metrics),
	)
	return d, nil
}

func (d *deps) serveMetrics(reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{
		Addr:              d.cfg.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.log.Error("metrics listener stopped", "addr", srv.Addr, "error", err)
		}
	}()
	d.log.Info("serving metrics", "addr", srv.Addr)
	d.closers = append(d.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
}

// record loads the configured player's parsed record.
func (d *deps) record(ctx context.Context) (progression.Record, error) {
	rec, err := d.store.UserRepo().Load(ctx, d.cfg.UserID)
	if err != nil {
		return progression.Record{}, err
	}
	return progression.ParseRecord(rec.Inferences)
}

// runApp launches the interactive terminal for the configured player.
func runApp(cmd *cobra.Command) error {
	// The terminal owns stderr while the TUI is up.
	d, err := openDeps(cmd, logger.Nop())
	if err != nil {
		return err
	}
	defer d.Close()
	return playWith(d)
}
