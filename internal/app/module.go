package app

import (
	"context"

	"github.com/matheus3301/localchat/internal/attachment"
	"github.com/matheus3301/localchat/internal/autosave"
	"github.com/matheus3301/localchat/internal/bus"
	"github.com/matheus3301/localchat/internal/config"
	"github.com/matheus3301/localchat/internal/controller"
	"github.com/matheus3301/localchat/internal/conversation"
	"github.com/matheus3301/localchat/internal/logging"
	"github.com/matheus3301/localchat/internal/paths"
	"github.com/matheus3301/localchat/internal/presence"
	"github.com/matheus3301/localchat/internal/screen"
	"github.com/matheus3301/localchat/internal/storage"
	"github.com/matheus3301/localchat/internal/tui"
	"github.com/spf13/afero"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// Params holds the command-line overrides passed to the fx module.
type Params struct {
	ConfigPath string // empty = paths.ConfigPath()
	DataDir    string // empty = config data_dir, then paths.BaseDir()
}

// DataDir is the resolved directory holding the database, logs and locks.
type DataDir string

// Module returns the fx module for the client, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("localchat",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideDataDir,
			provideLogger,
			provideBus,
			provideDB,
			provideAdapter,
			providePresence,
			provideStore,
			provideScreens,
			provideLoader,
			provideUI,
			provideController,
			provideSaver,
		),
		fx.Invoke(registerLifecycle),
	)
}

// WithLogger routes fx's own events to the application logger.
func WithLogger() fx.Option {
	return fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger.Named("fx")}
	})
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = paths.ConfigPath()
	}
	return config.LoadOrDefault(path)
}

func provideDataDir(p Params, cfg *config.Config) (DataDir, error) {
	dir := paths.ResolveDataDir(p.DataDir, cfg)
	if err := paths.EnsureDir(dir); err != nil {
		return "", err
	}
	return DataDir(dir), nil
}

func provideLogger(dir DataDir, cfg *config.Config) (*zap.Logger, error) {
	return logging.New(paths.LogPath(string(dir)), string(dir), cfg.LogLevel)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideDB(dir DataDir, logger *zap.Logger) (*storage.DB, error) {
	dbPath := paths.DBPath(string(dir))
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideAdapter(db *storage.DB, cfg *config.Config, logger *zap.Logger) *storage.Adapter {
	return storage.NewAdapter(db, cfg.MaxRecordBytes, logger)
}

func providePresence(cfg *config.Config, b *bus.Bus, logger *zap.Logger) presence.Provider {
	if cfg.Presence == config.PresenceNone {
		logger.Info("presence disabled")
		return presence.Noop{}
	}
	return presence.NewSimulated(b, presence.DefaultDelays)
}

func provideStore(adapter *storage.Adapter, p presence.Provider, b *bus.Bus, logger *zap.Logger) *conversation.Store {
	return conversation.New(adapter, p, b, logger)
}

func provideScreens(b *bus.Bus) *screen.Machine {
	return screen.NewMachine(b)
}

func provideLoader(cfg *config.Config) *attachment.Loader {
	return attachment.NewLoader(afero.NewOsFs(), cfg.MaxAttachmentBytes)
}

func provideUI(logger *zap.Logger) *tui.App {
	return tui.NewApp(logger)
}

func provideController(
	store *conversation.Store,
	adapter *storage.Adapter,
	loader *attachment.Loader,
	screens *screen.Machine,
	ui *tui.App,
	b *bus.Bus,
	cfg *config.Config,
	dir DataDir,
	logger *zap.Logger,
) *controller.Controller {
	return controller.New(store, adapter, loader, screens, ui, b, logger, controller.Options{
		TypingIdle:      cfg.TypingIdle.Std(),
		DisplayMessages: cfg.DisplayMessages,
		LockDir:         paths.LockDir(string(dir)),
	})
}

func provideSaver(store *conversation.Store, cfg *config.Config, logger *zap.Logger) *autosave.Saver {
	return autosave.NewSaver(store, cfg.AutosaveInterval.Std(), logger)
}

func registerLifecycle(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	ui *tui.App,
	ctrl *controller.Controller,
	saver *autosave.Saver,
	p presence.Provider,
	db *storage.DB,
	logger *zap.Logger,
) {
	ui.Bind(ctrl)
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			saver.Start(context.Background())

			// The UI owns the terminal until the user quits.
			go func() {
				if err := ui.Run(); err != nil {
					logger.Error("terminal UI error", zap.Error(err))
				}
				if err := shutdowner.Shutdown(); err != nil {
					logger.Warn("shutdown request failed", zap.Error(err))
				}
			}()

			go ctrl.Start()
			logger.Info("client started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			ui.Stop()
			saver.Stop()
			ctrl.Shutdown()
			p.Close()
			if err := db.Close(); err != nil {
				logger.Warn("error closing database", zap.Error(err))
			}
			logger.Info("client stopped")
			_ = logger.Sync()
			return nil
		},
	})
}
