package cli

import (
	"context"

	"kidcalc/internal/config"
	"kidcalc/internal/observability"
	"kidcalc/internal/scheduler"
	"kidcalc/internal/session"
	"kidcalc/internal/storage"
)

// app bundles what every command needs: settings, the logger and the store.
type app struct {
	cfg   config.Config
	store *storage.Store
}

func openApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if dataDir != "" {
		cfg.Storage.Dir = dataDir
	}

	if err := observability.InitLogger(cfg.Logging.Level); err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, store: store}, nil
}

func (a *app) Close() error {
	observability.SyncLogger()
	return a.store.Close()
}

func (a *app) sessionOptions() (session.Options, error) {
	mode, err := session.ParseDebounceMode(a.cfg.Timing.DebounceMode)
	if err != nil {
		return session.Options{}, err
	}
	return session.Options{
		DigitDebounce:  a.cfg.Timing.DigitDebounce(),
		EqualsThrottle: a.cfg.Timing.EqualsThrottle(),
		NaNReset:       a.cfg.Timing.NaNReset(),
		DebounceMode:   mode,
	}, nil
}

func (a *app) newSession(ctx context.Context, opts session.Options) *session.Session {
	return session.New(ctx, a.store, scheduler.RealClock(), opts)
}
