package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/export"
	"github.com/dvenki/dvenki/internal/journal"
)

// Publisher receives each freshly rendered feed.
type Publisher interface {
	Update(data []byte)
}

// Importer pulls remote entries into the store before a render.
type Importer interface {
	Import(ctx context.Context, url, apiKey string) (int, error)
}

// Refresher periodically re-renders the ICS feed from the store.
type Refresher struct {
	Store     journal.Store
	Generator *export.Generator
	Publisher Publisher
	Options   export.Options
	Interval  time.Duration

	// Optional remote sync run before each render.
	Importer  Importer
	RemoteURL string
	APIKey    string
}

// Run refreshes once, then on every tick until ctx is cancelled. Failed
// refreshes are logged and retried on the next tick.
func (r *Refresher) Run(ctx context.Context) error {
	if r.Store == nil {
		return errors.New(config.ErrStoreMissing)
	}
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	interval := r.Interval
	if interval <= 0 {
		interval = config.DefaultRefresh
	}

	r.refreshAndLog(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return nil
		case <-ticker.C:
			r.refreshAndLog(ctx)
		}
	}
}

func (r *Refresher) refreshAndLog(ctx context.Context) {
	if _, err := r.Refresh(ctx); err != nil && ctx.Err() == nil {
		slog.Error(config.MsgRefreshFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err,
		)
	}
}

// Refresh runs one import/render/publish pass and returns the number of
// entries dated today.
func (r *Refresher) Refresh(ctx context.Context) (int, error) {
	slog.Debug(config.MsgRefreshStarted, config.LogKeyComponent, config.CompWorker)

	if r.Importer != nil && r.RemoteURL != "" {
		// A failed sync still renders what is stored locally.
		if _, err := r.Importer.Import(ctx, r.RemoteURL, r.APIKey); err != nil {
			slog.Warn(config.MsgRefreshFailed,
				config.LogKeyComponent, config.CompWorker,
				config.LogKeyError, err,
			)
		}
	}

	entries, err := r.Store.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrLoadEntries, err)
	}

	gen := r.Generator
	if gen == nil {
		gen = &export.Generator{}
	}
	data, today, err := gen.Render(ctx, entries, r.Options)
	if err != nil {
		return 0, err
	}

	if r.Publisher != nil {
		r.Publisher.Update(data)
	}
	return today, nil
}
