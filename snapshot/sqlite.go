package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/dhcgn/fbmessage-stats/archive"
	"github.com/dhcgn/fbmessage-stats/model"
)

// DB stores archive snapshots in a SQLite database.
type DB struct {
	db *sql.DB
}

// Open opens the database at path. An empty path opens an in-memory database.
func Open(ctx context.Context, path string) (*DB, error) {
	trimmed := strings.TrimSpace(path)
	inMemory := false
	if trimmed == "" {
		trimmed = ":memory:"
		inMemory = true
	}
	if strings.Contains(trimmed, "mode=memory") || trimmed == ":memory:" || trimmed == "file::memory:" {
		inMemory = true
	}
	db, err := sql.Open("sqlite", trimmed)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if !inMemory {
		if _, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
            id TEXT PRIMARY KEY,
            source TEXT NOT NULL,
            created_at INTEGER NOT NULL,
            thread_count INTEGER NOT NULL,
            message_count INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS threads (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            snapshot_id TEXT NOT NULL,
            position INTEGER NOT NULL,
            participants TEXT NOT NULL,
            FOREIGN KEY(snapshot_id) REFERENCES snapshots(id) ON DELETE CASCADE
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            thread_id INTEGER NOT NULL,
            position INTEGER NOT NULL,
            sender TEXT NOT NULL,
            sent_at INTEGER,
            sent_at_raw TEXT NOT NULL,
            body TEXT NOT NULL,
            FOREIGN KEY(thread_id) REFERENCES threads(id) ON DELETE CASCADE
        );`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_threads_snapshot ON threads(snapshot_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_messages_thread ON messages(thread_id, position);`,
	}

	for _, statement := range statements {
		if _, err := d.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}

// Save stores every thread of s as a new snapshot and returns its description.
func (d *DB) Save(ctx context.Context, source string, s *archive.Store, now time.Time) (Info, error) {
	threads := s.Threads()
	info := Info{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Unix(now.Unix(), 0),
		Threads:   len(threads),
		Messages:  s.TotalMessages(),
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return Info{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO snapshots (id, source, created_at, thread_count, message_count)
        VALUES (?, ?, ?, ?, ?);`,
		info.ID, info.Source, info.CreatedAt.Unix(), info.Threads, info.Messages)
	if err != nil {
		return Info{}, fmt.Errorf("insert snapshot: %w", err)
	}

	for pos, t := range threads {
		result, err := tx.ExecContext(ctx, `INSERT INTO threads (snapshot_id, position, participants)
            VALUES (?, ?, ?);`, info.ID, pos, t.Participants)
		if err != nil {
			return Info{}, fmt.Errorf("insert thread %d: %w", pos, err)
		}
		threadID, err := result.LastInsertId()
		if err != nil {
			return Info{}, fmt.Errorf("insert thread %d: %w", pos, err)
		}

		for mpos, m := range t.Messages {
			var sentAt sql.NullInt64
			if m.HasSentAt() {
				sentAt = sql.NullInt64{Int64: m.SentAt.Unix(), Valid: true}
			}
			_, err = tx.ExecContext(ctx, `INSERT INTO messages
                (thread_id, position, sender, sent_at, sent_at_raw, body)
                VALUES (?, ?, ?, ?, ?, ?);`,
				threadID, mpos, m.Sender, sentAt, m.SentAtRaw, m.Body)
			if err != nil {
				return Info{}, fmt.Errorf("insert message %d of thread %d: %w", mpos, pos, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Info{}, fmt.Errorf("commit snapshot: %w", err)
	}
	return info, nil
}

// List returns all snapshots, newest first.
func (d *DB) List(ctx context.Context) ([]Info, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT id, source, created_at, thread_count, message_count
        FROM snapshots ORDER BY created_at DESC, rowid DESC;`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var infos []Info
	for rows.Next() {
		info, err := scanInfo(rows)
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return infos, nil
}

// Latest returns the most recently saved snapshot.
func (d *DB) Latest(ctx context.Context) (Info, error) {
	row := d.db.QueryRowContext(ctx, `SELECT id, source, created_at, thread_count, message_count
        FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1;`)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, fmt.Errorf("latest snapshot: %w", model.ErrNotFound)
	}
	return info, err
}

// Load rebuilds the store saved under id.
func (d *DB) Load(ctx context.Context, id string) (*archive.Store, Info, error) {
	row := d.db.QueryRowContext(ctx, `SELECT id, source, created_at, thread_count, message_count
        FROM snapshots WHERE id = ?;`, id)
	info, err := scanInfo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Info{}, fmt.Errorf("snapshot %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return nil, Info{}, err
	}

	rows, err := d.db.QueryContext(ctx, `SELECT id, participants FROM threads
        WHERE snapshot_id = ? ORDER BY position;`, id)
	if err != nil {
		return nil, Info{}, fmt.Errorf("load threads: %w", err)
	}
	var threads []model.Thread
	positions := map[int64]int{}
	for rows.Next() {
		var threadID int64
		var t model.Thread
		if err := rows.Scan(&threadID, &t.Participants); err != nil {
			rows.Close()
			return nil, Info{}, fmt.Errorf("scan thread: %w", err)
		}
		positions[threadID] = len(threads)
		threads = append(threads, t)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, Info{}, fmt.Errorf("load threads: %w", err)
	}
	rows.Close()

	rows, err = d.db.QueryContext(ctx, `SELECT m.thread_id, m.sender, m.sent_at, m.sent_at_raw, m.body
        FROM messages m JOIN threads t ON t.id = m.thread_id
        WHERE t.snapshot_id = ? ORDER BY t.position, m.position;`, id)
	if err != nil {
		return nil, Info{}, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var threadID int64
		var sentAt sql.NullInt64
		var m model.Message
		if err := rows.Scan(&threadID, &m.Sender, &sentAt, &m.SentAtRaw, &m.Body); err != nil {
			return nil, Info{}, fmt.Errorf("scan message: %w", err)
		}
		var stored time.Time
		if sentAt.Valid {
			stored = time.Unix(sentAt.Int64, 0).UTC()
		}
		m.SentAt = restoreSentAt(m.SentAtRaw, stored)

		pos, ok := positions[threadID]
		if !ok {
			return nil, Info{}, fmt.Errorf("message references unknown thread %d", threadID)
		}
		threads[pos].Messages = append(threads[pos].Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, Info{}, fmt.Errorf("load messages: %w", err)
	}

	return archive.New(threads), info, nil
}

// Delete removes a snapshot and everything stored under it.
func (d *DB) Delete(ctx context.Context, id string) (bool, error) {
	result, err := d.db.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("delete snapshot: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete snapshot: %w", err)
	}
	return rows > 0, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanInfo(row scanner) (Info, error) {
	var info Info
	var createdAt int64
	if err := row.Scan(&info.ID, &info.Source, &createdAt, &info.Threads, &info.Messages); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Info{}, sql.ErrNoRows
		}
		return Info{}, fmt.Errorf("scan snapshot: %w", err)
	}
	info.CreatedAt = time.Unix(createdAt, 0)
	return info, nil
}
