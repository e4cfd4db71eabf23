package models

import (
	"errors"
	"strconv"
	"time"
)

// CalendarTimeLayout is the exact timestamp format exchanged with the
// calendar widget: no timezone, no fractional seconds.
const CalendarTimeLayout = "2006-01-02T15:04:05"

var (
	// ErrMalformedTimestamp is returned when a start/end string is not
	// exactly in CalendarTimeLayout form
	ErrMalformedTimestamp = errors.New("malformed event timestamp")

	// ErrInvalidReference is returned when a group id is not a decimal
	// integer
	ErrInvalidReference = errors.New("invalid group reference")
)

// CampEvent is a calendar entry tied to a group. Color is a read-time
// projection of the group's color and is never persisted.
type CampEvent struct {
	ID      int64
	Title   string
	Start   time.Time
	End     time.Time
	GroupID int64

	Color string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AttachColor sets the display color projection from the event's group.
// Events without a group fall back to the neutral color.
func (e *CampEvent) AttachColor(group *CampGroup) {
	if group == nil {
		e.Color = NoGroupColor
		return
	}
	e.Color = group.Color
}

// CalendarEvent is the wire representation used by the calendar widget.
// The widget submits group_id as a string and expects it back the same
// way.
type CalendarEvent struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Start   string `json:"start"`
	End     string `json:"end"`
	GroupID string `json:"group_id"`
	Color   string `json:"color,omitempty"`
}

// ParseCalendarTime parses a calendar timestamp, rejecting any format
// other than CalendarTimeLayout
func ParseCalendarTime(s string) (time.Time, error) {
	t, err := time.Parse(CalendarTimeLayout, s)
	if err != nil {
		return time.Time{}, ErrMalformedTimestamp
	}
	return t, nil
}

// FormatCalendarTime is the exact inverse of ParseCalendarTime
func FormatCalendarTime(t time.Time) string {
	return t.Format(CalendarTimeLayout)
}

// ToCampEvent converts the wire representation into a stored event
func (c CalendarEvent) ToCampEvent() (*CampEvent, error) {
	start, err := ParseCalendarTime(c.Start)
	if err != nil {
		return nil, err
	}
	end, err := ParseCalendarTime(c.End)
	if err != nil {
		return nil, err
	}
	groupID, err := strconv.ParseInt(c.GroupID, 10, 64)
	if err != nil {
		return nil, ErrInvalidReference
	}

	return &CampEvent{
		ID:      c.ID,
		Title:   c.Title,
		Start:   start,
		End:     end,
		GroupID: groupID,
	}, nil
}

// ToCalendarEvent converts a stored event (with its color projection
// attached) back into the wire representation
func (e *CampEvent) ToCalendarEvent() CalendarEvent {
	return CalendarEvent{
		ID:      e.ID,
		Title:   e.Title,
		Start:   FormatCalendarTime(e.Start),
		End:     FormatCalendarTime(e.End),
		GroupID: strconv.FormatInt(e.GroupID, 10),
		Color:   e.Color,
	}
}
