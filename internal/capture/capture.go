// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/capture/capture.go
// Summary: SQLite recorder for the byte stream fed to the terminal.
//
// Each run of the host opens a session; every chunk read from the link is
// stored with its offset from the session start so it can be replayed
// later with the recorded pacing. Writes are batched on a background
// goroutine so the feeding path never waits on the disk.

// Package capture records and replays link traffic.
package capture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	// ErrNoSession is returned when replaying an unknown session.
	ErrNoSession = errors.New("capture: no such session")
	// ErrClosed is returned when writing to a session after Close.
	ErrClosed = errors.New("capture: store closed")
)

// Config tunes the background writer.
type Config struct {
	Path          string
	BatchSize     int
	BatchTimeout  time.Duration
	ChannelBuffer int
}

// DefaultConfig returns the settings used by Open.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		BatchSize:     64,
		BatchTimeout:  time.Second,
		ChannelBuffer: 1024,
	}
}

const captureSchema = `
CREATE TABLE IF NOT EXISTS sessions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    label TEXT NOT NULL,
    started INTEGER NOT NULL          -- UnixNano
);

CREATE TABLE IF NOT EXISTS chunks (
    session_id INTEGER NOT NULL REFERENCES sessions(id),
    seq INTEGER NOT NULL,
    offset_ns INTEGER NOT NULL,       -- since session start
    data BLOB NOT NULL,
    PRIMARY KEY (session_id, seq)
);
`

type chunkRecord struct {
	session int64
	seq     int64
	offset  time.Duration
	data    []byte
}

// Store owns the database and the batch writer.
type Store struct {
	config Config
	db     *sql.DB

	batchChan chan chunkRecord
	stopCh    chan struct{}
	doneCh    chan struct{}
	flushCh   chan chan struct{}
	closeOnce sync.Once

	// closeMu orders Append against Close: a chunk that was accepted is
	// always in batchChan before stopCh closes.
	closeMu sync.RWMutex
	closed  bool

	mu sync.Mutex
}

// Open opens (creating if needed) the capture database at path.
func Open(path string) (*Store, error) {
	return OpenWithConfig(DefaultConfig(path))
}

// OpenWithConfig opens the capture database with custom batching.
func OpenWithConfig(config Config) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(config.Path), 0755); err != nil {
		return nil, fmt.Errorf("create capture directory: %w", err)
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 1
	}
	if config.BatchTimeout <= 0 {
		config.BatchTimeout = time.Second
	}

	dsn := config.Path +
		"?_pragma=journal_mode(WAL)" +
		"&_pragma=synchronous(NORMAL)" +
		"&_pragma=foreign_keys(1)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open capture database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect capture database: %w", err)
	}
	if _, err := db.Exec(captureSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create capture schema: %w", err)
	}

	s := &Store{
		config:    config,
		db:        db,
		batchChan: make(chan chunkRecord, config.ChannelBuffer),
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		flushCh:   make(chan chan struct{}),
	}
	go s.batchWriter()
	return s, nil
}

// Session is an open recording. It implements io.Writer.
type Session struct {
	store   *Store
	id      int64
	started time.Time
	now     func() time.Time

	mu  sync.Mutex
	seq int64
}

// Begin starts a new recording labelled label.
func (s *Store) Begin(label string) (*Session, error) {
	started := time.Now()
	s.mu.Lock()
	res, err := s.db.Exec("INSERT INTO sessions (label, started) VALUES (?, ?)", label, started.UnixNano())
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("begin session: %w", err)
	}
	log.Printf("Capture: Recording session %d (%s)", id, label)
	return &Session{store: s, id: id, started: started, now: time.Now}, nil
}

// ID returns the session id used by Replay.
func (ss *Session) ID() int64 { return ss.id }

// Append queues a copy of chunk for storage, stamped with its offset from
// the session start.
func (ss *Session) Append(chunk []byte) error {
	if len(chunk) == 0 {
		return nil
	}
	ss.store.closeMu.RLock()
	defer ss.store.closeMu.RUnlock()
	if ss.store.closed {
		return ErrClosed
	}

	ss.mu.Lock()
	c := chunkRecord{
		session: ss.id,
		seq:     ss.seq,
		offset:  ss.now().Sub(ss.started),
		data:    append([]byte(nil), chunk...),
	}
	ss.seq++
	ss.mu.Unlock()

	// The writer is still running while closed is false, so this send
	// completes.
	ss.store.batchChan <- c
	return nil
}

// Write implements io.Writer on top of Append.
func (ss *Session) Write(p []byte) (int, error) {
	if err := ss.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// batchWriter runs in a background goroutine, batching chunks and flushing
// periodically.
func (s *Store) batchWriter() {
	defer close(s.doneCh)

	batch := make([]chunkRecord, 0, s.config.BatchSize)
	timer := time.NewTimer(s.config.BatchTimeout)
	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		s.flushBatch(batch)
		batch = batch[:0]
	}
	drain := func() {
		for {
			select {
			case c := <-s.batchChan:
				batch = append(batch, c)
			default:
				return
			}
		}
	}

	for {
		select {
		case c := <-s.batchChan:
			batch = append(batch, c)
			if len(batch) >= s.config.BatchSize {
				flush()
				timer.Reset(s.config.BatchTimeout)
			}
		case <-timer.C:
			flush()
			timer.Reset(s.config.BatchTimeout)
		case done := <-s.flushCh:
			drain()
			flush()
			close(done)
		case <-s.stopCh:
			drain()
			flush()
			return
		}
	}
}

func (s *Store) flushBatch(batch []chunkRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("Capture: Failed to begin transaction: %v", err)
		return
	}
	stmt, err := tx.Prepare("INSERT INTO chunks (session_id, seq, offset_ns, data) VALUES (?, ?, ?, ?)")
	if err != nil {
		log.Printf("Capture: Failed to prepare statement: %v", err)
		tx.Rollback()
		return
	}
	defer stmt.Close()

	for _, c := range batch {
		if _, err := stmt.Exec(c.session, c.seq, int64(c.offset), c.data); err != nil {
			log.Printf("Capture: Failed to insert chunk %d/%d: %v", c.session, c.seq, err)
			tx.Rollback()
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Printf("Capture: Failed to commit batch: %v", err)
	}
}

// Flush blocks until every queued chunk is on disk.
func (s *Store) Flush() error {
	done := make(chan struct{})
	select {
	case s.flushCh <- done:
		<-done
	case <-s.stopCh:
	}
	return nil
}

// Close flushes pending chunks and closes the database.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closeMu.Lock()
		s.closed = true
		s.closeMu.Unlock()
		close(s.stopCh)
		<-s.doneCh
		err = s.db.Close()
	})
	return err
}

// SessionInfo summarises a stored session.
type SessionInfo struct {
	ID      int64
	Label   string
	Started time.Time
	Chunks  int
	Bytes   int64
}

// Sessions lists stored sessions, newest first.
func (s *Store) Sessions() ([]SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`
SELECT s.id, s.label, s.started, COUNT(c.seq), COALESCE(SUM(LENGTH(c.data)), 0)
FROM sessions s LEFT JOIN chunks c ON c.session_id = s.id
GROUP BY s.id ORDER BY s.started DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionInfo
	for rows.Next() {
		var info SessionInfo
		var started int64
		if err := rows.Scan(&info.ID, &info.Label, &started, &info.Chunks, &info.Bytes); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		info.Started = time.Unix(0, started)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Replay writes the chunks of session id to w in order. With speed > 0 the
// gaps between chunks are reproduced, divided by speed; with speed 0 the
// chunks are written back to back.
func (s *Store) Replay(ctx context.Context, id int64, w io.Writer, speed float64) error {
	chunks, err := s.load(id)
	if err != nil {
		return err
	}

	var prev time.Duration
	for _, c := range chunks {
		if speed > 0 {
			if wait := time.Duration(float64(c.offset-prev) / speed); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-ctx.Done():
					timer.Stop()
					return ctx.Err()
				case <-timer.C:
				}
			}
		} else if err := ctx.Err(); err != nil {
			return err
		}
		prev = c.offset
		if _, err := w.Write(c.data); err != nil {
			return fmt.Errorf("replay session %d: %w", id, err)
		}
	}
	return nil
}

func (s *Store) load(id int64) ([]chunkRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var exists int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions WHERE id = ?", id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("look up session %d: %w", id, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %d", ErrNoSession, id)
	}

	rows, err := s.db.Query("SELECT seq, offset_ns, data FROM chunks WHERE session_id = ? ORDER BY seq", id)
	if err != nil {
		return nil, fmt.Errorf("load session %d: %w", id, err)
	}
	defer rows.Close()

	var out []chunkRecord
	for rows.Next() {
		c := chunkRecord{session: id}
		var offset int64
		if err := rows.Scan(&c.seq, &offset, &c.data); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		c.offset = time.Duration(offset)
		out = append(out, c)
	}
	return out, rows.Err()
}
