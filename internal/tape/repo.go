package tape

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const timeLayout = time.RFC3339Nano

// Session is one program run.
type Session struct {
	ID        string
	StartedAt time.Time
	Entries   int
}

// Entry is one handled event with the register values it produced.
type Entry struct {
	ID        int64
	SessionID string
	Seq       int
	Event     string
	Digit     *int
	Top       string
	Bottom    string
	CreatedAt time.Time
}

// Repo reads and writes the tape tables.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) CreateSession(ctx context.Context, s Session) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO sessions(id, started_at) VALUES (?, ?)
	`, s.ID, s.StartedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("create session %s: %w", s.ID, err)
	}
	return nil
}

func (r *Repo) Append(ctx context.Context, e Entry) error {
	var digit sql.NullInt64
	if e.Digit != nil {
		digit = sql.NullInt64{Int64: int64(*e.Digit), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO entries(session_id, seq, event, digit, top, bottom, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.SessionID, e.Seq, e.Event, digit, e.Top, e.Bottom, e.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("append entry %s#%d: %w", e.SessionID, e.Seq, err)
	}
	return nil
}

// Session returns the entries of one session in order.
func (r *Repo) Session(ctx context.Context, id string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, session_id, seq, event, digit, top, bottom, created_at
	FROM entries WHERE session_id = ? ORDER BY seq
	`, id)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Recent returns the last limit entries across all sessions, oldest first.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, session_id, seq, event, digit, top, bottom, created_at
	FROM (SELECT * FROM entries ORDER BY id DESC LIMIT ?)
	ORDER BY id
	`, limit)
	if err != nil {
		return nil, err
	}
	return scanEntries(rows)
}

// Sessions lists sessions newest first with their entry counts.
func (r *Repo) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT s.id, s.started_at, COUNT(e.id)
	FROM sessions s LEFT JOIN entries e ON e.session_id = s.id
	GROUP BY s.id, s.started_at
	ORDER BY s.started_at DESC, s.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Session
	for rows.Next() {
		var s Session
		var started string
		if err := rows.Scan(&s.ID, &started, &s.Entries); err != nil {
			return nil, err
		}
		if s.StartedAt, err = time.Parse(timeLayout, started); err != nil {
			return nil, fmt.Errorf("session %s: bad started_at %q: %w", s.ID, started, err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var digit sql.NullInt64
		var created string
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Seq, &e.Event, &digit, &e.Top, &e.Bottom, &created); err != nil {
			return nil, err
		}
		if digit.Valid {
			d := int(digit.Int64)
			e.Digit = &d
		}
		t, err := time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("entry %d: bad created_at %q: %w", e.ID, created, err)
		}
		e.CreatedAt = t
		out = append(out, e)
	}
	return out, rows.Err()
}
