package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dvenki/dvenki/internal/calendar"
	"github.com/dvenki/dvenki/internal/config"
	"github.com/dvenki/dvenki/internal/journal"

	_ "modernc.org/sqlite"
)

const driverName = "sqlite"

const entryColumns = `id, journal_id, user_id, title, content, entry_date, mood, images, is_published, created_at, updated_at`

// SQLiteStore is the journal.Store backed by a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ journal.Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at dbPath and applies
// pending migrations.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), config.DirPermUserRWX); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDBDir, err)
	}

	db, err := sql.Open(driverName, dbPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrOpenDB, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrPingDB, err)
	}
	if err := RunMigrations(dbPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", config.ErrMigrate, err)
	}

	slog.Debug(config.MsgDBOpened,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyPath, dbPath,
	)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Add inserts e, replacing any entry with the same id.
func (s *SQLiteStore) Add(ctx context.Context, e journal.Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	images, err := json.Marshal(e.Images)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if e.Images == nil {
		images = []byte("[]")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			journal_id = excluded.journal_id,
			user_id = excluded.user_id,
			title = excluded.title,
			content = excluded.content,
			entry_date = excluded.entry_date,
			mood = excluded.mood,
			images = excluded.images,
			is_published = excluded.is_published,
			updated_at = excluded.updated_at`,
		e.ID, e.JournalID, e.UserID, e.Title, e.Content, e.Date.String(), e.Mood,
		string(images), e.Published,
		formatTime(e.CreatedAt), formatTime(e.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}

	slog.InfoContext(ctx, config.MsgEntrySaved,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyID, e.ID,
		config.LogKeyDate, e.Date.String(),
	)
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (journal.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return journal.Entry{}, journal.ErrNotFound
	}
	if err != nil {
		return journal.Entry{}, fmt.Errorf("%s: %w", config.ErrStoreQuery, err)
	}
	return e, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrStoreWrite, err)
	}
	if n == 0 {
		return journal.ErrNotFound
	}

	slog.InfoContext(ctx, config.MsgEntryDeleted,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyID, id,
	)
	return nil
}

// Range returns entries dated from..to inclusive. ISO dates sort as text.
func (s *SQLiteStore) Range(ctx context.Context, from, to calendar.Date) ([]journal.Entry, error) {
	return s.query(ctx, `SELECT `+entryColumns+` FROM entries
		WHERE entry_date BETWEEN ? AND ?
		ORDER BY entry_date, created_at, id`, from.String(), to.String())
}

func (s *SQLiteStore) All(ctx context.Context) ([]journal.Entry, error) {
	return s.query(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY entry_date, created_at, id`)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]journal.Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreQuery, err)
	}
	defer rows.Close()

	var out []journal.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrStoreQuery, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrStoreQuery, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (journal.Entry, error) {
	var (
		e                    journal.Entry
		date, images         string
		createdAt, updatedAt string
	)
	if err := sc.Scan(&e.ID, &e.JournalID, &e.UserID, &e.Title, &e.Content, &date, &e.Mood,
		&images, &e.Published, &createdAt, &updatedAt); err != nil {
		return journal.Entry{}, err
	}

	var err error
	if e.Date, err = calendar.ParseDate(date); err != nil {
		return journal.Entry{}, err
	}
	if err := json.Unmarshal([]byte(images), &e.Images); err != nil {
		return journal.Entry{}, err
	}
	if len(e.Images) == 0 {
		e.Images = nil
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return journal.Entry{}, fmt.Errorf("%s: %w", config.ErrScanTimestamp, err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return journal.Entry{}, fmt.Errorf("%s: %w", config.ErrScanTimestamp, err)
	}
	return e, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
