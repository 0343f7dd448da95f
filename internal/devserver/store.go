package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
	ErrNoteLimit  = errors.New("note limit reached")
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// User is an account row.
type User struct {
	ID           int64
	Email        string
	PasswordHash []byte
	Salt         []byte
	FailedLogins int
	LockedUntil  time.Time
	CreatedAt    time.Time
}

// Note is a note row.
type Note struct {
	ID         int64
	Owner      int64
	Header     string
	Content    string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Session is a login session. CSRFToken must accompany every mutation.
type Session struct {
	ID        string
	UserID    int64
	CSRFToken string
	ExpiresAt time.Time
}

// Store persists users, notes and sessions in SQLite.
type Store struct {
	db *sql.DB

	// noteMu serialises note creation so the per-owner count check and the
	// insert cannot interleave.
	noteMu sync.Mutex
}

// Open opens (or creates) the database at path with WAL journaling and
// applies the schema. MemoryPath gives a throwaway database on a single
// connection.
func Open(ctx context.Context, path string) (*Store, error) {
	var dsn string
	if path == MemoryPath {
		dsn = MemoryPath
	} else {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if path == MemoryPath {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error { return s.db.PingContext(ctx) }

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// --- Users ---

// CreateUser inserts a user. Emails are unique regardless of case.
func (s *Store) CreateUser(ctx context.Context, email string, hash, salt []byte, now time.Time) (*User, error) {
	if _, err := s.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, salt, created_at) VALUES (?,?,?,?)`,
		email, hash, salt, millis(now))
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &User{ID: id, Email: email, PasswordHash: hash, Salt: salt, CreatedAt: fromMillis(millis(now))}, nil
}

const userColumns = `id, email, password_hash, salt, failed_logins, locked_until, created_at`

func scanUser(row *sql.Row) (*User, error) {
	var (
		u              User
		locked, create int64
	)
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Salt, &u.FailedLogins, &locked, &create)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.LockedUntil = fromMillis(locked)
	u.CreatedAt = fromMillis(create)
	return &u, nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByEmail loads a user by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

// SetLoginFailures stores the failed-login counter and lock deadline.
func (s *Store) SetLoginFailures(ctx context.Context, id int64, count int, lockedUntil time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET failed_logins = ?, locked_until = ? WHERE id = ?`,
		count, millis(lockedUntil), id)
	return err
}

// --- Sessions ---

// CreateSession stores a new session.
func (s *Store) CreateSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions (id, user_id, csrf_token, expires_at) VALUES (?,?,?,?)`,
		sess.ID, sess.UserID, sess.CSRFToken, millis(sess.ExpiresAt))
	return err
}

// GetSession loads a session by id. Expiry is not checked.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	var (
		sess    Session
		expires int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, user_id, csrf_token, expires_at FROM sessions WHERE id = ?`, id).
		Scan(&sess.ID, &sess.UserID, &sess.CSRFToken, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sess.ExpiresAt = fromMillis(expires)
	return &sess, nil
}

// TouchSession moves a session's expiry.
func (s *Store) TouchSession(ctx context.Context, id string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `UPDATE sessions SET expires_at = ? WHERE id = ?`, millis(expiresAt), id)
	return err
}

// DeleteSession removes a session. Missing ids are not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	return err
}

// DeleteExpiredSessions removes sessions that expired before now and returns
// how many were removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, millis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- Notes ---

// CreateNote inserts a note unless owner already has limit notes.
func (s *Store) CreateNote(ctx context.Context, owner int64, header, content string, limit int, now time.Time) (*Note, error) {
	s.noteMu.Lock()
	defer s.noteMu.Unlock()

	n, err := s.CountNotes(ctx, owner)
	if err != nil {
		return nil, err
	}
	if n >= limit {
		return nil, ErrNoteLimit
	}
	ts := millis(now)
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (owner, header, content, created_at, modified_at) VALUES (?,?,?,?,?)`,
		owner, header, content, ts, ts)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &Note{ID: id, Owner: owner, Header: header, Content: content, CreatedAt: fromMillis(ts), ModifiedAt: fromMillis(ts)}, nil
}

// CountNotes returns how many notes owner has.
func (s *Store) CountNotes(ctx context.Context, owner int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notes WHERE owner = ?`, owner).Scan(&n)
	return n, err
}

// GetNote loads a note by id.
func (s *Store) GetNote(ctx context.Context, id int64) (*Note, error) {
	var (
		n                 Note
		created, modified int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner, header, content, created_at, modified_at FROM notes WHERE id = ?`, id).
		Scan(&n.ID, &n.Owner, &n.Header, &n.Content, &created, &modified)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	n.CreatedAt = fromMillis(created)
	n.ModifiedAt = fromMillis(modified)
	return &n, nil
}

// ListNotes returns owner's notes without content, newest modification first.
// owner 0 lists every note.
func (s *Store) ListNotes(ctx context.Context, owner int64) ([]Note, error) {
	q := `SELECT id, owner, header, created_at, modified_at FROM notes`
	var args []any
	if owner != 0 {
		q += ` WHERE owner = ?`
		args = append(args, owner)
	}
	q += ` ORDER BY modified_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var (
			n                 Note
			created, modified int64
		)
		if err := rows.Scan(&n.ID, &n.Owner, &n.Header, &created, &modified); err != nil {
			return nil, err
		}
		n.CreatedAt = fromMillis(created)
		n.ModifiedAt = fromMillis(modified)
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// UpdateNote replaces header and content and bumps the modification time.
func (s *Store) UpdateNote(ctx context.Context, id int64, header, content string, now time.Time) (*Note, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE notes SET header = ?, content = ?, modified_at = ? WHERE id = ?`,
		header, content, millis(now), id)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetNote(ctx, id)
}

// DeleteNote removes a note.
func (s *Store) DeleteNote(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
