package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while
	// the watcher writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_updates (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol      TEXT NOT NULL,
			price       REAL NOT NULL,
			quoted_at   INTEGER NOT NULL,
			fetched_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_updates_ts ON price_updates(quoted_at)`,

		`CREATE TABLE IF NOT EXISTS trend_events (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			from_state  TEXT,
			to_state    TEXT,
			price       REAL,
			updates     INTEGER,
			notified    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_ts ON trend_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS rejected_updates (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			price       REAL,
			reason      TEXT
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordUpdate(rec *PriceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO price_updates
		(symbol, price, quoted_at, fetched_at)
		VALUES (?,?,?,?)`,
		rec.Symbol, rec.Price, rec.Timestamp.Unix(), rec.FetchedAt.Unix(),
	)
	return err
}

func (r *SQLiteRecorder) RecordTrendEvent(evt *TrendEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	notified := 0
	if evt.Notified {
		notified = 1
	}
	_, err := r.db.Exec(`INSERT INTO trend_events
		(timestamp, symbol, from_state, to_state, price, updates, notified)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, string(evt.From), string(evt.To),
		evt.Price, evt.Updates, notified,
	)
	return err
}

func (r *SQLiteRecorder) RecordRejected(evt *RejectedUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO rejected_updates
		(timestamp, symbol, price, reason)
		VALUES (?,?,?,?)`,
		evt.Timestamp.Unix(), evt.Symbol, evt.Price, evt.Reason,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
