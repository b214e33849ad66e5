package checkpoint

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/npillmayer/folio/core"
	"github.com/npillmayer/folio/engine/frame/flow"
	"github.com/npillmayer/folio/engine/frame/position"

	_ "modernc.org/sqlite" // registers driver "sqlite"
)

// ErrNotFound is returned for sessions or pages without a checkpoint.
var ErrNotFound = errors.New("checkpoint not found")

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id      TEXT PRIMARY KEY,
	doc_url TEXT NOT NULL,
	created INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS checkpoints (
	session TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	page    INTEGER NOT NULL,
	record  TEXT NOT NULL,
	saved   INTEGER NOT NULL,
	PRIMARY KEY (session, page)
);`

type storeConfig struct {
	busyTimeout int
	synchronous string
	mkdirAll    bool
}

// StoreOption customizes OpenStore.
type StoreOption func(*storeConfig)

// WithBusyTimeout sets PRAGMA busy_timeout in milliseconds. Default: 5000.
func WithBusyTimeout(ms int) StoreOption { return func(c *storeConfig) { c.busyTimeout = ms } }

// WithSynchronous sets PRAGMA synchronous. Default: "NORMAL".
func WithSynchronous(mode string) StoreOption {
	return func(c *storeConfig) { c.synchronous = mode }
}

// WithMkdirAll creates parent directories of the database file.
func WithMkdirAll() StoreOption { return func(c *storeConfig) { c.mkdirAll = true } }

// Store keeps checkpoints of layout sessions in an SQLite database. A
// session is one layout run of a document; it holds at most one checkpoint
// per page. Store is safe for concurrent use.
type Store struct {
	db   *sql.DB
	path string
}

// SessionInfo describes a stored session.
type SessionInfo struct {
	ID      string
	DocURL  string
	Created time.Time
	Pages   int
}

// OpenStore opens or creates a checkpoint store. Path ":memory:" creates a
// private in-memory store.
func OpenStore(path string, opts ...StoreOption) (*Store, error) {
	cfg := storeConfig{busyTimeout: 5000, synchronous: "NORMAL"}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.mkdirAll && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, core.WrapError(err, core.ECONNECTION, "cannot create directory for %s", path)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "cannot open checkpoint store %s", path)
	}
	if path == ":memory:" {
		// every connection to :memory: opens a separate database
		db.SetMaxOpenConns(1)
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", cfg.busyTimeout),
		fmt.Sprintf("PRAGMA synchronous = %s", cfg.synchronous),
	}
	for _, p := range append(pragmas, schema) {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, core.WrapError(err, core.ECONNECTION, "cannot initialize checkpoint store %s", path)
		}
	}
	tracer().Infof("opened checkpoint store %s", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewSession starts a session for a document and returns its ID.
func (s *Store) NewSession(ctx context.Context, docURL string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, doc_url, created) VALUES (?, ?, ?)`,
		id, docURL, time.Now().UnixNano())
	if err != nil {
		return "", core.WrapError(err, core.ECONNECTION, "cannot create session")
	}
	tracer().Debugf("new checkpoint session %s for %s", id, docURL)
	return id, nil
}

// Sessions lists all sessions, oldest first.
func (s *Store) Sessions(ctx context.Context) ([]SessionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.doc_url, s.created, COUNT(c.page)
		FROM sessions s LEFT JOIN checkpoints c ON c.session = s.id
		GROUP BY s.id ORDER BY s.created, s.id`)
	if err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "cannot list sessions")
	}
	defer rows.Close()
	var sessions []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var created int64
		if err := rows.Scan(&info.ID, &info.DocURL, &created, &info.Pages); err != nil {
			return nil, core.WrapError(err, core.ECONNECTION, "cannot list sessions")
		}
		info.Created = time.Unix(0, created)
		sessions = append(sessions, info)
	}
	return sessions, rows.Err()
}

// Save stores a checkpoint for the page of lp, replacing an existing one.
// All nodes referenced by lp have to be part of one of docs.
func (s *Store) Save(ctx context.Context, session string, lp *flow.LayoutPosition,
	docs ...*position.Document) error {
	//
	rec, err := Encode(lp, docs...)
	if err != nil {
		return err
	}
	return s.SaveRecord(ctx, session, rec)
}

// SaveRecord stores an encoded checkpoint.
func (s *Store) SaveRecord(ctx context.Context, session string, rec *LayoutRecord) error {
	data, err := ToYAML(rec)
	if err != nil {
		return err
	}
	if err := s.checkSession(ctx, session); err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkpoints (session, page, record, saved) VALUES (?, ?, ?, ?)
		ON CONFLICT (session, page) DO UPDATE SET record = excluded.record, saved = excluded.saved`,
		session, rec.Page, string(data), time.Now().UnixNano())
	if err != nil {
		return core.WrapError(err, core.ECONNECTION, "cannot save checkpoint of page %d", rec.Page)
	}
	tracer().Debugf("saved checkpoint of page %d in session %s", rec.Page, session)
	return nil
}

// Load restores the layout position stored for a page.
func (s *Store) Load(ctx context.Context, session string, page int, dec *Decoder) (*flow.LayoutPosition, error) {
	rec, err := s.LoadRecord(ctx, session, page)
	if err != nil {
		return nil, err
	}
	return dec.Decode(rec)
}

// LoadRecord returns the checkpoint record stored for a page.
func (s *Store) LoadRecord(ctx context.Context, session string, page int) (*LayoutRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM checkpoints WHERE session = ? AND page = ?`,
		session, page).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.WrapError(ErrNotFound, core.EMISSING,
			"no checkpoint for page %d in session %s", page, session)
	} else if err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "cannot load checkpoint of page %d", page)
	}
	return FromYAML([]byte(data))
}

// Pages returns the pages of a session having a checkpoint, ascending.
func (s *Store) Pages(ctx context.Context, session string) ([]int, error) {
	if err := s.checkSession(ctx, session); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT page FROM checkpoints WHERE session = ? ORDER BY page`, session)
	if err != nil {
		return nil, core.WrapError(err, core.ECONNECTION, "cannot list pages")
	}
	defer rows.Close()
	var pages []int
	for rows.Next() {
		var p int
		if err := rows.Scan(&p); err != nil {
			return nil, core.WrapError(err, core.ECONNECTION, "cannot list pages")
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Delete removes a session and all of its checkpoints.
func (s *Store) Delete(ctx context.Context, session string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return core.WrapError(err, core.ECONNECTION, "cannot delete session %s", session)
	}
	defer tx.Rollback()
	if _, err = tx.ExecContext(ctx, `DELETE FROM checkpoints WHERE session = ?`, session); err != nil {
		return core.WrapError(err, core.ECONNECTION, "cannot delete session %s", session)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, session)
	if err != nil {
		return core.WrapError(err, core.ECONNECTION, "cannot delete session %s", session)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.WrapError(ErrNotFound, core.EMISSING, "no session %s", session)
	}
	return tx.Commit()
}

func (s *Store) checkSession(ctx context.Context, session string) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, session).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return core.WrapError(ErrNotFound, core.EMISSING, "no session %s", session)
	} else if err != nil {
		return core.WrapError(err, core.ECONNECTION, "cannot look up session %s", session)
	}
	return nil
}
