// Package analytics records privacy-conscious visitor metrics and per-section
// engagement in SQLite.
package analytics

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/FathurrahmanNasution/portfolio/internal/section"
)

const timeLayout = "2006-01-02 15:04:05"

// EventKind distinguishes section events.
type EventKind string

const (
	// EventNavigate is an explicit click on a nav item or hero button.
	EventNavigate EventKind = "navigate"
	// EventReveal is the first time a section becomes visible in a page view.
	EventReveal EventKind = "reveal"
)

// Visitor is one recorded page visit. The client IP is never stored.
type Visitor struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// SectionCount aggregates events for one section.
type SectionCount struct {
	Section     section.ID `json:"section"`
	Navigations int64      `json:"navigations"`
	Reveals     int64      `json:"reveals"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64          `json:"total_visitors"`
	UniqueVisitors   int64          `json:"unique_visitors"`
	VisitorsToday    int64          `json:"visitors_today"`
	VisitorsThisWeek int64          `json:"visitors_this_week"`
	Sections         []SectionCount `json:"sections"`
	RecentVisitors   []Visitor      `json:"recent_visitors"`
}

// Store wraps the analytics database.
type Store struct {
	db   *sql.DB
	salt string
	now  func() time.Time
}

// Open creates or opens the database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return newStore(db)
}

// OpenMemory creates an in-memory database, mainly for tests.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	return newStore(db)
}

func newStore(db *sql.DB) (*Store, error) {
	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	salt, err := s.loadSalt()
	if err != nil {
		db.Close()
		return nil, err
	}
	s.salt = salt
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS visitors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			hashed_ip TEXT NOT NULL,
			user_agent TEXT,
			path TEXT,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp)`,
		`CREATE TABLE IF NOT EXISTS section_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			view_id TEXT NOT NULL,
			section TEXT NOT NULL,
			kind TEXT NOT NULL,
			timestamp TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_section_events_timestamp ON section_events(timestamp)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// loadSalt returns the IP hashing salt, generating it on first use so hashes
// stay consistent across restarts.
func (s *Store) loadSalt() (string, error) {
	var salt string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'ip_salt'`).Scan(&salt)
	if err == nil {
		return salt, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("loading ip salt: %w", err)
	}

	salt, err = RandomToken()
	if err != nil {
		return "", err
	}
	if _, err := s.db.Exec(`INSERT INTO meta (key, value) VALUES ('ip_salt', ?)`, salt); err != nil {
		return "", fmt.Errorf("storing ip salt: %w", err)
	}
	return salt, nil
}

// RandomToken returns 32 random bytes, hex encoded.
func RandomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashIP returns a salted, truncated hash of ip. It is stable per IP.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// RecordVisit stores a page visit under the hashed client IP.
func (s *Store) RecordVisit(ctx context.Context, ip, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, s.stamp(s.now()))
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordSectionEvent stores a navigation or reveal for a page view.
func (s *Store) RecordSectionEvent(ctx context.Context, viewID string, id section.ID, kind EventKind) error {
	if !id.Valid() {
		return fmt.Errorf("recording %s event: %w", kind, section.ErrUnknownSection)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO section_events (view_id, section, kind, timestamp)
		VALUES (?, ?, ?, ?)`,
		viewID, string(id), string(kind), s.stamp(s.now()))
	if err != nil {
		return fmt.Errorf("recording %s event: %w", kind, err)
	}
	return nil
}

// Stats summarizes everything recorded.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{}
	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{s.stamp(today)}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{s.stamp(weekAgo)}},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting visitors: %w", err)
		}
	}

	sections, err := s.sectionCounts(ctx)
	if err != nil {
		return nil, err
	}
	stats.Sections = sections

	recent, err := s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent
	return stats, nil
}

func (s *Store) sectionCounts(ctx context.Context) ([]SectionCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT section, kind, COUNT(*) FROM section_events GROUP BY section, kind`)
	if err != nil {
		return nil, fmt.Errorf("counting section events: %w", err)
	}
	defer rows.Close()

	byID := make(map[section.ID]*SectionCount)
	out := make([]SectionCount, 0, len(section.All()))
	for _, id := range section.All() {
		out = append(out, SectionCount{Section: id})
	}
	for i := range out {
		byID[out[i].Section] = &out[i]
	}

	for rows.Next() {
		var (
			id, kind string
			n        int64
		)
		if err := rows.Scan(&id, &kind, &n); err != nil {
			return nil, fmt.Errorf("scanning section events: %w", err)
		}
		c, ok := byID[section.ID(id)]
		if !ok {
			continue
		}
		switch EventKind(kind) {
		case EventNavigate:
			c.Navigations = n
		case EventReveal:
			c.Reveals = n
		}
	}
	return out, rows.Err()
}

// RecentVisitors returns up to limit visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visitor, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	defer rows.Close()

	var visitors []Visitor
	for rows.Next() {
		var (
			v  Visitor
			ts string
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		parsed, err := time.Parse(timeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("visitor %d: bad timestamp %q: %w", v.ID, ts, err)
		}
		v.Timestamp = parsed
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// Cleanup deletes visits and section events older than retention and returns
// the number of rows removed. A zero retention keeps everything.
func (s *Store) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, nil
	}
	cutoff := s.stamp(s.now().Add(-retention))

	var total int64
	for _, table := range []string{"visitors", "section_events"} {
		res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE timestamp < ?`, cutoff)
		if err != nil {
			return total, fmt.Errorf("cleaning %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

func (s *Store) stamp(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
