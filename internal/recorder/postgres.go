package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/lib/pq"
)

// PostgresRecorder persists historical data to a PostgreSQL database.
type PostgresRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewPostgresRecorder connects to PostgreSQL and runs migrations.
func NewPostgresRecorder(dsn string) (*PostgresRecorder, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	r := &PostgresRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Println("[INFO] postgres recorder connected")
	return r, nil
}

func (r *PostgresRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_updates (
			id          BIGSERIAL PRIMARY KEY,
			symbol      TEXT NOT NULL,
			price       DOUBLE PRECISION NOT NULL,
			quoted_at   BIGINT NOT NULL,
			fetched_at  BIGINT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_updates_ts ON price_updates(quoted_at)`,

		`CREATE TABLE IF NOT EXISTS trend_events (
			id          BIGSERIAL PRIMARY KEY,
			timestamp   BIGINT NOT NULL,
			symbol      TEXT NOT NULL,
			from_state  TEXT,
			to_state    TEXT,
			price       DOUBLE PRECISION,
			updates     INTEGER,
			notified    BOOLEAN
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trend_ts ON trend_events(timestamp)`,

		`CREATE TABLE IF NOT EXISTS rejected_updates (
			id          BIGSERIAL PRIMARY KEY,
			timestamp   BIGINT NOT NULL,
			symbol      TEXT NOT NULL,
			price       DOUBLE PRECISION,
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

func (r *PostgresRecorder) RecordUpdate(rec *PriceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO price_updates
		(symbol, price, quoted_at, fetched_at)
		VALUES ($1,$2,$3,$4)`,
		rec.Symbol, rec.Price, rec.Timestamp.Unix(), rec.FetchedAt.Unix(),
	)
	return err
}

func (r *PostgresRecorder) RecordTrendEvent(evt *TrendEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trend_events
		(timestamp, symbol, from_state, to_state, price, updates, notified)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		time.Now().Unix(), evt.Symbol, string(evt.From), string(evt.To),
		evt.Price, evt.Updates, evt.Notified,
	)
	return err
}

func (r *PostgresRecorder) RecordRejected(evt *RejectedUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO rejected_updates
		(timestamp, symbol, price, reason)
		VALUES ($1,$2,$3,$4)`,
		evt.Timestamp.Unix(), evt.Symbol, evt.Price, evt.Reason,
	)
	return err
}

func (r *PostgresRecorder) Close() error {
	log.Println("[INFO] closing postgres recorder")
	return r.db.Close()
}
