package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/journal"
	"github.com/google/uuid"
)

// Importer copies entries from the hosted data API into a local store.
type Importer struct {
	Fetcher Fetcher
	Store   journal.Store
}

// Import downloads the rows at url and stores every valid entry. Rows with
// an unparseable entry_date or failing validation are skipped and logged.
// It returns the number of stored entries.
func (im *Importer) Import(ctx context.Context, url, apiKey string) (int, error) {
	if url == "" {
		return 0, errors.New(config.ErrURLEmpty)
	}
	if im.Fetcher == nil {
		return 0, errors.New(config.ErrFetcherMissing)
	}
	if im.Store == nil {
		return 0, errors.New(config.ErrStoreMissing)
	}

	body, err := im.Fetcher.Fetch(ctx, url, apiKey)
	if err != nil {
		return 0, err
	}
	defer func() { _ = body.Close() }()

	var rows []json.RawMessage
	if err := json.NewDecoder(body).Decode(&rows); err != nil {
		return 0, fmt.Errorf("%s: %w", config.ErrRowsDecode, err)
	}

	log := slog.With(config.LogKeyComponent, config.CompImporter)
	stored := 0
	for _, raw := range rows {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		var e journal.Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			log.Warn(config.MsgSkippedRow, config.LogKeyError, err)
			continue
		}
		if e.Date.IsZero() {
			log.Warn(config.MsgSkippedRow, config.LogKeyID, e.ID)
			continue
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if err := e.Validate(); err != nil {
			log.Warn(config.MsgSkippedRow, config.LogKeyID, e.ID, config.LogKeyError, err)
			continue
		}
		if err := im.Store.Add(ctx, e); err != nil {
			return stored, err
		}
		stored++
	}

	log.Info(config.MsgImportDone, config.LogKeyCount, stored, config.LogKeyTotal, len(rows))
	return stored, nil
}
