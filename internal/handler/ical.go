package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/emersion/go-ical"

	"github.com/calendarapi/calendar-api/internal/model"
)

const (
	icalProductID      = "-//calendar-api//Calendar Export//EN"
	icalFloatingLayout = "20060102T150405"
)

// HandleExport handles GET /events/export.ics requests. Event times carry no
// zone, so they are written as floating local times.
func (h *EventHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	events, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if len(events) == 0 {
		// go-ical refuses to encode a VCALENDAR without components.
		fmt.Fprintf(&buf, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:%s\r\nEND:VCALENDAR\r\n", icalProductID)
	} else if err := ical.NewEncoder(&buf).Encode(buildCalendar(events, time.Now())); err != nil {
		writeError(w, r, fmt.Errorf("encode calendar: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="calendar.ics"`)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func buildCalendar(events []model.EventResponse, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, icalProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")

	for _, e := range events {
		cal.Children = append(cal.Children, buildEvent(e, stamp).Component)
	}
	return cal
}

func buildEvent(e model.EventResponse, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, e.ID)
	event.Props.SetText(ical.PropSummary, e.Title)
	if e.Description != nil {
		event.Props.SetText(ical.PropDescription, *e.Description)
	}
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDateTime(ical.PropLastModified, e.UpdatedAt.UTC())
	event.Props.Set(floatingProp(ical.PropDateTimeStart, e.EventDate.At(e.StartTime, time.UTC)))
	event.Props.Set(floatingProp(ical.PropDateTimeEnd, e.EventDate.At(e.EndTime, time.UTC)))

	if e.NotifyBefore > 0 {
		event.Children = append(event.Children, buildAlarm(e))
	}
	return event
}

func buildAlarm(e model.EventResponse) *ical.Component {
	alarm := ical.NewComponent(ical.CompAlarm)
	alarm.Props.SetText(ical.PropAction, "DISPLAY")
	alarm.Props.SetText(ical.PropDescription, e.Title)

	trigger := ical.NewProp(ical.PropTrigger)
	trigger.Value = fmt.Sprintf("-PT%dM", e.NotifyBefore)
	alarm.Props.Set(trigger)
	return alarm
}

func floatingProp(name string, t time.Time) *ical.Prop {
	prop := ical.NewProp(name)
	prop.Value = t.Format(icalFloatingLayout)
	return prop
}
