package model

import (
	"time"

	"github.com/samber/mo"
)

// DefaultNotifyBefore is the reminder offset, in minutes, applied when an
// event is created without one.
const DefaultNotifyBefore = 10

// Event represents a calendar event in the database.
type Event struct {
	ID           string
	UserID       string
	Title        string
	Description  *string
	EventDate    Date
	StartTime    Clock
	EndTime      Clock
	NotifyBefore int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateEventRequest represents a POST /events body.
type CreateEventRequest struct {
	Title        string  `json:"title" validate:"required,max=255"`
	Description  *string `json:"description" validate:"omitempty,max=10000"`
	EventDate    *Date   `json:"event_date" validate:"required"`
	StartTime    *Clock  `json:"start_time" validate:"required"`
	EndTime      *Clock  `json:"end_time" validate:"required"`
	NotifyBefore *int    `json:"notify_before" validate:"omitempty,min=0,max=10080"`
}

// UpdateEventRequest represents a PUT /events/{id} body. Absent and null
// fields are both None and leave the stored value untouched.
type UpdateEventRequest struct {
	Title        mo.Option[string] `json:"title"`
	Description  mo.Option[string] `json:"description"`
	EventDate    mo.Option[Date]   `json:"event_date"`
	StartTime    mo.Option[Clock]  `json:"start_time"`
	EndTime      mo.Option[Clock]  `json:"end_time"`
	NotifyBefore mo.Option[int]    `json:"notify_before"`
}

// EventResponse is the wire shape of an event.
type EventResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	EventDate    Date      `json:"event_date"`
	StartTime    Clock     `json:"start_time"`
	EndTime      Clock     `json:"end_time"`
	NotifyBefore int       `json:"notify_before"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToResponse converts an Event for the API.
func (e Event) ToResponse() EventResponse {
	return EventResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		Title:        e.Title,
		Description:  e.Description,
		EventDate:    e.EventDate,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		NotifyBefore: e.NotifyBefore,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
