package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	cataloginadapter "chalkup/internal/modules/catalog/adapter/in"
	catalogoutadapter "chalkup/internal/modules/catalog/adapter/out"
	catalogin "chalkup/internal/modules/catalog/port/in"
	catalogservice "chalkup/internal/modules/catalog/service"
	catalogusecase "chalkup/internal/modules/catalog/usecase"
	cueinadapter "chalkup/internal/modules/cue/adapter/in"
	cueoutadapter "chalkup/internal/modules/cue/adapter/out"
	cuein "chalkup/internal/modules/cue/port/in"
	cueout "chalkup/internal/modules/cue/port/out"
	cueservice "chalkup/internal/modules/cue/service"
	cueusecase "chalkup/internal/modules/cue/usecase"
	sessioninadapter "chalkup/internal/modules/session/adapter/in"
	sessionoutadapter "chalkup/internal/modules/session/adapter/out"
	sessiondomain "chalkup/internal/modules/session/domain"
	sessionout "chalkup/internal/modules/session/port/out"
	sessionservice "chalkup/internal/modules/session/service"
	sessionusecase "chalkup/internal/modules/session/usecase"
	timerinadapter "chalkup/internal/modules/timer/adapter/in"
	timeroutadapter "chalkup/internal/modules/timer/adapter/out"
	timerin "chalkup/internal/modules/timer/port/in"
	timerservice "chalkup/internal/modules/timer/service"
	timerusecase "chalkup/internal/modules/timer/usecase"
	"chalkup/internal/platform/clock"
	"chalkup/internal/platform/config"
	"chalkup/internal/platform/id"
	"chalkup/internal/platform/logging"
	"chalkup/internal/platform/sqlitedb"
	"chalkup/internal/platform/ticker"
	"chalkup/internal/platform/tx"
	uiapp "chalkup/internal/ui/app"
)

// Version is reported as the metrics service version.
var Version = "dev"

type Options struct {
	// LogToFile sends logs to the configured log file instead of stderr,
	// used while the TUI owns the terminal.
	LogToFile bool
	LogOutput io.Writer
	// TickerFactory replaces the wall-clock ticker in tests.
	TickerFactory ticker.Factory
}

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	SessionCLI sessioninadapter.CLIHandler
	TimerCLI   timerinadapter.CLIHandler
	CatalogCLI cataloginadapter.CLIHandler
	CueCLI     cueinadapter.CLIHandler

	closers []func(context.Context) error
}

func New(ctx context.Context, cfg config.Config, opts Options) (_ *App, err error) {
	app := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = app.Close(ctx)
		}
	}()

	logger, err := app.logger(opts)
	if err != nil {
		return nil, err
	}
	app.Logger = logger

	clk := clock.SystemClock{}
	ids := id.UUID{}

	db, err := sqlitedb.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	app.onClose(func(context.Context) error { return db.Close() })
	txm := tx.NewSQLManager(db)

	catalogUC, err := newCatalog(ctx, cfg, db, txm, clk, ids, logger)
	if err != nil {
		return nil, err
	}

	cueUC := app.newCues(cfg, logger)
	timerUC := newTimers(clk, cueUC, opts.TickerFactory, logger)

	metrics, err := app.newMetrics(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	sessionStore, err := sessionoutadapter.NewSQLiteSessionStore(ctx, db, txm)
	if err != nil {
		return nil, fmt.Errorf("new session store: %w", err)
	}
	bridge := sessionoutadapter.NewCatalogBridge(catalogUC)
	autoRest := sessiondomain.AutoRestPolicy{
		Enabled:  cfg.AutoRest.Enabled,
		Duration: time.Duration(cfg.AutoRest.Seconds) * time.Second,
	}
	sessionUC := sessionusecase.NewInteractor(sessionusecase.Dependencies{
		Clock:     clk,
		Recorder:  sessionservice.NewRecorder(clk, ids, sessionStore, logger),
		Detector:  sessionservice.NewGoalDetector(bridge, logger),
		Store:     sessionStore,
		Active:    sessionoutadapter.NewFileActiveSessionStore(cfg.DataPath),
		Workouts:  bridge,
		Exercises: bridge,
		Schedule:  bridge,
		Timers:    sessionoutadapter.NewTimerAdapter(timerUC),
		Metrics:   metrics,
		AutoRest:  autoRest,
		Logger:    logger,
	})

	app.SessionCLI = sessioninadapter.NewCLIHandler(sessionUC)
	app.TimerCLI = timerinadapter.NewCLIHandler(timerUC)
	app.CatalogCLI = cataloginadapter.NewCLIHandler(catalogUC)
	app.CueCLI = cueinadapter.NewCLIHandler(cueUC)
	return app, nil
}

func newCatalog(ctx context.Context, cfg config.Config, db *sql.DB, txm tx.Manager, clk clock.Clock, ids id.Generator, logger hclog.Logger) (catalogin.Usecase, error) {
	goalStore, err := catalogoutadapter.NewSQLiteGoalStore(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("new goal store: %w", err)
	}
	scheduleStore, err := catalogoutadapter.NewSQLiteScheduleStore(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("new schedule store: %w", err)
	}
	catalogSvc := catalogservice.NewCatalogService(catalogoutadapter.NewYAMLCatalogStore(cfg.CatalogPath), logger)
	return catalogusecase.NewInteractor(
		catalogSvc,
		catalogservice.NewGoalService(clk, ids, goalStore),
		catalogservice.NewScheduleService(clk, ids, scheduleStore, catalogSvc, txm),
	), nil
}

// newCues picks the plugin sink when one is configured, else the terminal
// bell, else silence.
func (a *App) newCues(cfg config.Config, logger hclog.Logger) cuein.Usecase {
	var (
		audio  cueout.AudioOutput  = cueoutadapter.NoopAudio{}
		haptic cueout.HapticOutput = cueoutadapter.NoopHaptic{}
	)
	switch {
	case cfg.Cue.PluginPath != "":
		sink := cueoutadapter.NewPluginSink(cfg.Cue.PluginPath, logger)
		a.onClose(func(context.Context) error { return sink.Close() })
		audio, haptic = sink, sink
	case cfg.Cue.Bell:
		audio = cueoutadapter.NewTerminalBell(os.Stderr)
	}
	return cueusecase.NewInteractor(cueservice.NewEmitter(audio, haptic, logger), cfg.Cue.Enabled)
}

func newTimers(clk clock.Clock, cues cuein.Usecase, factory ticker.Factory, logger hclog.Logger) timerin.Usecase {
	hub := timerservice.NewHub()
	sink := timeroutadapter.NewCueAdapter(cues)
	return timerusecase.NewInteractor(
		timerservice.NewIntervalTimer(clk, ticker.NewDriver(factory, time.Second), sink, hub, logger),
		timerservice.NewRestTimer(clk, ticker.NewDriver(factory, time.Second), sink, hub, logger),
		timerservice.NewSessionClock(clk, ticker.NewDriver(factory, time.Second), hub),
		hub,
	)
}

// newMetrics degrades to the no-op exporter when the collector cannot be
// reached at startup.
func (a *App) newMetrics(ctx context.Context, cfg config.Config, logger hclog.Logger) (sessionout.MetricsExporter, error) {
	if !cfg.Metrics.Enabled {
		return sessionoutadapter.NoopMetrics{}, nil
	}
	metrics, err := sessionoutadapter.NewOTelMetrics(ctx, sessionoutadapter.MetricsConfig{
		Endpoint:       cfg.Metrics.Endpoint,
		Insecure:       cfg.Metrics.Insecure,
		ServiceVersion: Version,
	}, logger)
	if err != nil {
		logger.Warn("metrics disabled", "error", err)
		return sessionoutadapter.NoopMetrics{}, nil
	}
	a.onClose(metrics.Close)
	return metrics, nil
}

func (a *App) logger(opts Options) (hclog.Logger, error) {
	out := opts.LogOutput
	if out == nil && opts.LogToFile {
		if err := os.MkdirAll(filepath.Dir(a.Config.LogPath), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(a.Config.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		a.onClose(func(context.Context) error { return f.Close() })
		out = f
	}
	return logging.New("chalkup", logging.Options{
		Level:  a.Config.Log.Level,
		JSON:   a.Config.Log.JSON,
		Output: out,
	}), nil
}

func (a *App) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(ctx, uiapp.Deps{
		Session:     app.SessionCLI,
		Timer:       app.TimerCLI,
		Catalog:     app.CatalogCLI,
		Cue:         app.CueCLI,
		RestPresets: app.Config.RestPresets,
		Grades:      app.CatalogCLI.Grades(ctx),
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
