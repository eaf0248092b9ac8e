package tape

import (
	"context"

	"github.com/google/uuid"

	"github.com/jask/nncalc/internal/calc"
)

// Recorder numbers the events of one session and writes them to a Repo.
//
// Next must be called from the goroutine that dispatches events so sequence
// numbers follow dispatch order; Save may run anywhere.
type Recorder struct {
	repo    *Repo
	session string
	seq     int
}

// NewRecorder starts a new session with a random id.
func NewRecorder(ctx context.Context, repo *Repo) (*Recorder, error) {
	id := uuid.NewString()
	if err := repo.CreateSession(ctx, Session{ID: id, StartedAt: Now()}); err != nil {
		return nil, err
	}
	return &Recorder{repo: repo, session: id}, nil
}

func (r *Recorder) SessionID() string { return r.session }

// Next builds the entry for ev with the register values it produced.
func (r *Recorder) Next(ev calc.Event, top, bottom string) Entry {
	r.seq++
	e := Entry{
		SessionID: r.session,
		Seq:       r.seq,
		Event:     ev.Kind.String(),
		Top:       top,
		Bottom:    bottom,
		CreatedAt: Now(),
	}
	if ev.Kind == calc.EventAppendDigit {
		d := ev.Digit
		e.Digit = &d
	}
	return e
}

func (r *Recorder) Save(ctx context.Context, e Entry) error {
	return r.repo.Append(ctx, e)
}
