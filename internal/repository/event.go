package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"

	"github.com/calendarapi/calendar-api/internal/model"
)

var ErrEventNotFound = errors.New("event not found")

// UpcomingLimit caps the number of events returned by ListUpcoming.
const UpcomingLimit = 20

const eventColumns = `id, user_id, title, description, event_date, start_time, end_time,
		notify_before, created_at, updated_at`

// Columns a partial update may write. Assignments are only ever built from
// these names.
const (
	colTitle        = "title"
	colDescription  = "description"
	colEventDate    = "event_date"
	colStartTime    = "start_time"
	colEndTime      = "end_time"
	colNotifyBefore = "notify_before"
)

// EventChanges is the set of fields a partial update overwrites. None fields
// keep their stored value.
type EventChanges struct {
	Title        mo.Option[string]
	Description  mo.Option[string]
	EventDate    mo.Option[model.Date]
	StartTime    mo.Option[model.Clock]
	EndTime      mo.Option[model.Clock]
	NotifyBefore mo.Option[int]
}

type assignment struct {
	column string
	value  any
}

func (c EventChanges) assignments() []assignment {
	var out []assignment
	if v, ok := c.Title.Get(); ok {
		out = append(out, assignment{colTitle, v})
	}
	if v, ok := c.Description.Get(); ok {
		out = append(out, assignment{colDescription, v})
	}
	if v, ok := c.EventDate.Get(); ok {
		out = append(out, assignment{colEventDate, v})
	}
	if v, ok := c.StartTime.Get(); ok {
		out = append(out, assignment{colStartTime, v})
	}
	if v, ok := c.EndTime.Get(); ok {
		out = append(out, assignment{colEndTime, v})
	}
	if v, ok := c.NotifyBefore.Get(); ok {
		out = append(out, assignment{colNotifyBefore, v})
	}
	return out
}

// IsEmpty reports whether no field is supplied.
func (c EventChanges) IsEmpty() bool {
	return len(c.assignments()) == 0
}

// buildUpdate renders the single UPDATE statement for c, with ? placeholders.
// It returns ok=false when there is nothing to write.
func buildUpdate(c EventChanges, userID, eventID string, now time.Time) (query string, args []any, ok bool) {
	sets := c.assignments()
	if len(sets) == 0 {
		return "", nil, false
	}

	clauses := make([]string, 0, len(sets)+1)
	args = make([]any, 0, len(sets)+3)
	for _, a := range sets {
		clauses = append(clauses, a.column+" = ?")
		args = append(args, a.value)
	}
	clauses = append(clauses, "updated_at = ?")
	args = append(args, now, eventID, userID)

	query = "UPDATE calendar_events SET " + strings.Join(clauses, ", ") + " WHERE id = ? AND user_id = ?"
	return query, args, true
}

// EventRepository handles event persistence. Every query is scoped by owner.
type EventRepository struct {
	db *DB
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *DB) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a fully populated event.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	query := r.db.rebind(`INSERT INTO calendar_events
		(id, user_id, title, description, event_date, start_time, end_time, notify_before, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.UserID, e.Title, e.Description, e.EventDate, e.StartTime, e.EndTime,
		e.NotifyBefore, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Get retrieves one event owned by userID.
func (r *EventRepository) Get(ctx context.Context, userID, eventID string) (*model.Event, error) {
	query := r.db.rebind(`SELECT ` + eventColumns + ` FROM calendar_events WHERE id = ? AND user_id = ?`)
	return getEvent(ctx, r.db, query, eventID, userID)
}

// List returns all of a user's events ordered by date then start time.
func (r *EventRepository) List(ctx context.Context, userID string) ([]model.Event, error) {
	return r.query(ctx, `SELECT `+eventColumns+` FROM calendar_events
		WHERE user_id = ? ORDER BY event_date, start_time`, userID)
}

// ListByDate returns the events on one day ordered by start time.
func (r *EventRepository) ListByDate(ctx context.Context, userID string, date model.Date) ([]model.Event, error) {
	return r.query(ctx, `SELECT `+eventColumns+` FROM calendar_events
		WHERE user_id = ? AND event_date = ? ORDER BY start_time`, userID, date)
}

// ListToday returns the events dated today.
func (r *EventRepository) ListToday(ctx context.Context, userID string, today model.Date) ([]model.Event, error) {
	return r.ListByDate(ctx, userID, today)
}

// ListUpcoming returns up to UpcomingLimit events dated today or later.
func (r *EventRepository) ListUpcoming(ctx context.Context, userID string, today model.Date) ([]model.Event, error) {
	return r.query(ctx, fmt.Sprintf(`SELECT %s FROM calendar_events
		WHERE user_id = ? AND event_date >= ? ORDER BY event_date, start_time LIMIT %d`, eventColumns, UpcomingLimit),
		userID, today)
}

// ListByMonth returns the events within one calendar month.
func (r *EventRepository) ListByMonth(ctx context.Context, userID string, year int, month time.Month) ([]model.Event, error) {
	first := model.NewDate(year, month, 1)
	return r.query(ctx, `SELECT `+eventColumns+` FROM calendar_events
		WHERE user_id = ? AND event_date >= ? AND event_date < ? ORDER BY event_date, start_time`,
		userID, first, first.AddMonths(1))
}

// Update applies changes to an event owned by userID and returns the stored
// result. With no changes the event is returned as is.
func (r *EventRepository) Update(ctx context.Context, userID, eventID string, changes EventChanges, now time.Time) (*model.Event, error) {
	query, args, ok := buildUpdate(changes, userID, eventID, now)
	if !ok {
		return r.Get(ctx, userID, eventID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, ErrEventNotFound
	}

	selectQuery := r.db.rebind(`SELECT ` + eventColumns + ` FROM calendar_events WHERE id = ? AND user_id = ?`)
	event, err := getEvent(ctx, tx, selectQuery, eventID, userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event owned by userID.
func (r *EventRepository) Delete(ctx context.Context, userID, eventID string) error {
	query := r.db.rebind(`DELETE FROM calendar_events WHERE id = ? AND user_id = ?`)

	result, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func getEvent(ctx context.Context, q queryRower, query string, args ...any) (*model.Event, error) {
	event, err := scanEvent(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

func (r *EventRepository) query(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx, r.db.rebind(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *e)
	}

	return events, rows.Err()
}

func scanEvent(s rowScanner) (*model.Event, error) {
	e := &model.Event{}
	err := s.Scan(
		&e.ID, &e.UserID, &e.Title, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime,
		&e.NotifyBefore, timestamp{&e.CreatedAt}, timestamp{&e.UpdatedAt},
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}
