package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"SignalSentinel/internal/model"
)

// SQLiteRecorder persists the alert journal to a SQLite database.
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

	// WAL lets dashboards read while the poller writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cycle_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			cycle_id    TEXT NOT NULL,
			ticker      TEXT NOT NULL,
			bars        INTEGER,
			last_bar    INTEGER,
			signals     TEXT,
			status      TEXT,
			error       TEXT,
			duration_ms INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ticker_ts ON cycle_runs(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_events (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			cycle_id  TEXT,
			ticker    TEXT NOT NULL,
			channel   TEXT NOT NULL,
			bar_time  INTEGER,
			labels    TEXT,
			sent      INTEGER,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ticker_ts ON alert_events(ticker, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func joinLabels(labels []model.Label) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

func unixOrNull(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Unix()
}

func (r *SQLiteRecorder) RecordRun(evt *RunEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO cycle_runs
		(timestamp, cycle_id, ticker, bars, last_bar, signals, status, error, duration_ms)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.CycleID, evt.Ticker, evt.Bars, unixOrNull(evt.LastBar),
		joinLabels(evt.Signals), evt.Status, evt.Error, evt.Duration.Milliseconds(),
	)
	return err
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sent := 0
	if evt.Sent {
		sent = 1
	}
	_, err := r.db.Exec(`INSERT INTO alert_events
		(timestamp, cycle_id, ticker, channel, bar_time, labels, sent, error)
		VALUES (?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.CycleID, evt.Ticker, evt.Channel, unixOrNull(evt.BarTime),
		joinLabels(evt.Labels), sent, evt.Error,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
