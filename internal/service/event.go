package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/calendarapi/calendar-api/internal/model"
	"github.com/calendarapi/calendar-api/internal/repository"
	"github.com/calendarapi/calendar-api/internal/sanitize"
)

var (
	ErrInvalidMonth = newError(ErrValidation, "Month must be between 1 and 12")
	ErrInvalidYear  = newError(ErrValidation, "Year must be between 1 and 9998")
	ErrBlankTitle   = newError(ErrValidation, "title must not be blank")
)

// maxYear keeps the exclusive upper bound of a month query a four-digit date.
const maxYear = 9998

// EventService handles calendar event business logic. Every operation is
// scoped to the calling user.
type EventService struct {
	repo *repository.EventRepository
	now  func() time.Time
}

// NewEventService creates a new EventService. now supplies the current time;
// "today" is the calendar day of now() in its own location.
func NewEventService(repo *repository.EventRepository, now func() time.Time) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{repo: repo, now: now}
}

func (s *EventService) today() model.Date {
	return model.DateOf(s.now())
}

func (s *EventService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// List returns all of the user's events ordered by date and start time.
func (s *EventService) List(ctx context.Context, userID string) ([]model.EventResponse, error) {
	return eventsToResponse(s.repo.List(ctx, userID))
}

// ListByDate returns the user's events on one day.
func (s *EventService) ListByDate(ctx context.Context, userID string, date model.Date) ([]model.EventResponse, error) {
	return eventsToResponse(s.repo.ListByDate(ctx, userID, date))
}

// ListUpcoming returns the next events starting from today.
func (s *EventService) ListUpcoming(ctx context.Context, userID string) ([]model.EventResponse, error) {
	return eventsToResponse(s.repo.ListUpcoming(ctx, userID, s.today()))
}

// ListToday returns today's events.
func (s *EventService) ListToday(ctx context.Context, userID string) ([]model.EventResponse, error) {
	return eventsToResponse(s.repo.ListToday(ctx, userID, s.today()))
}

// ListByMonth returns the events of one calendar month.
func (s *EventService) ListByMonth(ctx context.Context, userID string, year, month int) ([]model.EventResponse, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	if year < 1 || year > maxYear {
		return nil, ErrInvalidYear
	}
	return eventsToResponse(s.repo.ListByMonth(ctx, userID, year, time.Month(month)))
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, userID, eventID string) (model.EventResponse, error) {
	event, err := s.get(ctx, userID, eventID)
	if err != nil {
		return model.EventResponse{}, err
	}
	return event.ToResponse(), nil
}

func (s *EventService) get(ctx context.Context, userID, eventID string) (*model.Event, error) {
	id, ok := normalizeID(eventID)
	if !ok {
		return nil, ErrEventNotFound
	}

	event, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// Create stores a new event owned by userID.
func (s *EventService) Create(ctx context.Context, userID string, req model.CreateEventRequest) (model.EventResponse, error) {
	if req.Description != nil && *req.Description == "" {
		req.Description = nil
	}

	if err := validateEvent(req); err != nil {
		return model.EventResponse{}, err
	}

	notify := model.DefaultNotifyBefore
	if req.NotifyBefore != nil {
		notify = *req.NotifyBefore
	}

	now := s.timestamp()
	event := &model.Event{
		ID:           uuid.NewString(),
		UserID:       userID,
		Title:        req.Title,
		Description:  req.Description,
		EventDate:    *req.EventDate,
		StartTime:    *req.StartTime,
		EndTime:      *req.EndTime,
		NotifyBefore: notify,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return model.EventResponse{}, err
	}

	return event.ToResponse(), nil
}

// Update applies the supplied fields to an existing event. The merged result
// must still be a valid event. A request with no fields returns the event
// unchanged.
func (s *EventService) Update(ctx context.Context, userID, eventID string, req model.UpdateEventRequest) (model.EventResponse, error) {
	existing, err := s.get(ctx, userID, eventID)
	if err != nil {
		return model.EventResponse{}, err
	}

	changes := repository.EventChanges{
		Title:        req.Title,
		Description:  req.Description,
		EventDate:    req.EventDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		NotifyBefore: req.NotifyBefore,
	}
	if changes.IsEmpty() {
		return existing.ToResponse(), nil
	}

	if err := validateEvent(merge(*existing, changes)); err != nil {
		return model.EventResponse{}, err
	}

	updated, err := s.repo.Update(ctx, userID, existing.ID, changes, s.timestamp())
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return model.EventResponse{}, ErrEventNotFound
		}
		return model.EventResponse{}, err
	}

	return updated.ToResponse(), nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	id, ok := normalizeID(eventID)
	if !ok {
		return ErrEventNotFound
	}

	err := s.repo.Delete(ctx, userID, id)
	if errors.Is(err, repository.ErrEventNotFound) {
		return ErrEventNotFound
	}
	return err
}

// merge overlays changes on e and returns the result in request form so the
// same rules apply to creates and updates.
func merge(e model.Event, changes repository.EventChanges) model.CreateEventRequest {
	title := changes.Title.OrElse(e.Title)
	desc := e.Description
	if d, ok := changes.Description.Get(); ok {
		desc = &d
	}
	date := changes.EventDate.OrElse(e.EventDate)
	start := changes.StartTime.OrElse(e.StartTime)
	end := changes.EndTime.OrElse(e.EndTime)
	notify := changes.NotifyBefore.OrElse(e.NotifyBefore)

	return model.CreateEventRequest{
		Title:        title,
		Description:  desc,
		EventDate:    &date,
		StartTime:    &start,
		EndTime:      &end,
		NotifyBefore: &notify,
	}
}

func validateEvent(req model.CreateEventRequest) error {
	if err := validateStruct(req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Title) == "" {
		return ErrBlankTitle
	}
	if sanitize.ContainsMarkup(req.Title) {
		return markupError("title")
	}
	if req.Description != nil && sanitize.ContainsMarkup(*req.Description) {
		return markupError("description")
	}
	if !req.EndTime.After(*req.StartTime) {
		return ErrEndBeforeStart
	}
	return nil
}

func markupError(field string) error {
	return newError(ErrValidation, field+" must not contain HTML markup")
}

func normalizeID(id string) (string, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return "", false
	}
	return parsed.String(), true
}

// eventsToResponse converts repository results, passing errors through.
func eventsToResponse(events []model.Event, err error) ([]model.EventResponse, error) {
	if err != nil {
		return nil, err
	}
	result := make([]model.EventResponse, len(events))
	for i, e := range events {
		result[i] = e.ToResponse()
	}
	return result, nil
}
