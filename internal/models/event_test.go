package models

import (
	"errors"
	"testing"
	"time"
)

func TestCalendarTimeRoundTrip(t *testing.T) {
	timestamps := []string{
		"2017-08-08T12:00:00",
		"2000-01-01T00:00:00",
		"2026-12-31T23:59:59",
	}

	for _, ts := range timestamps {
		parsed, err := ParseCalendarTime(ts)
		if err != nil {
			t.Fatalf("ParseCalendarTime(%q) returned error: %v", ts, err)
		}
		if got := FormatCalendarTime(parsed); got != ts {
			t.Errorf("round trip of %q = %q", ts, got)
		}
	}
}

func TestParseCalendarTimeRejectsOtherFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"date only", "2017-08-08"},
		{"space separator", "2017-08-08 12:00:00"},
		{"missing seconds", "2017-08-08T12:00"},
		{"timezone suffix", "2017-08-08T12:00:00Z"},
		{"garbage", "next tuesday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCalendarTime(tt.input); !errors.Is(err, ErrMalformedTimestamp) {
				t.Errorf("ParseCalendarTime(%q) error = %v, want ErrMalformedTimestamp", tt.input, err)
			}
		})
	}
}

func TestToCampEvent(t *testing.T) {
	payload := CalendarEvent{
		Title:   "Archery",
		Start:   "2017-08-08T12:00:00",
		End:     "2017-08-08T13:00:00",
		GroupID: "3",
	}

	event, err := payload.ToCampEvent()
	if err != nil {
		t.Fatalf("ToCampEvent returned error: %v", err)
	}
	if event.Title != "Archery" {
		t.Errorf("Title = %q", event.Title)
	}
	if event.GroupID != 3 {
		t.Errorf("GroupID = %d, want 3", event.GroupID)
	}
	if event.End.Sub(event.Start) != time.Hour {
		t.Errorf("duration = %v, want 1h", event.End.Sub(event.Start))
	}
}

func TestToCampEventErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload CalendarEvent
		wantErr error
	}{
		{
			name:    "bad start",
			payload: CalendarEvent{Start: "nope", End: "2017-08-08T13:00:00", GroupID: "1"},
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "bad end",
			payload: CalendarEvent{Start: "2017-08-08T12:00:00", End: "nope", GroupID: "1"},
			wantErr: ErrMalformedTimestamp,
		},
		{
			name:    "non-numeric group",
			payload: CalendarEvent{Start: "2017-08-08T12:00:00", End: "2017-08-08T13:00:00", GroupID: "falcons"},
			wantErr: ErrInvalidReference,
		},
		{
			name:    "empty group",
			payload: CalendarEvent{Start: "2017-08-08T12:00:00", End: "2017-08-08T13:00:00", GroupID: ""},
			wantErr: ErrInvalidReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.payload.ToCampEvent(); !errors.Is(err, tt.wantErr) {
				t.Errorf("ToCampEvent() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAttachColor(t *testing.T) {
	event := &CampEvent{GroupID: 1}

	event.AttachColor(nil)
	if event.Color != NoGroupColor {
		t.Errorf("Color without group = %q, want %q", event.Color, NoGroupColor)
	}

	event.AttachColor(&CampGroup{ID: 1, Name: "falcons", Color: "yellow"})
	if event.Color != "yellow" {
		t.Errorf("Color with group = %q, want yellow", event.Color)
	}
}

func TestToCalendarEvent(t *testing.T) {
	start, _ := ParseCalendarTime("2017-08-08T12:00:00")
	end, _ := ParseCalendarTime("2017-08-08T13:00:00")
	event := &CampEvent{ID: 7, Title: "Swim", Start: start, End: end, GroupID: 2, Color: "red"}

	wire := event.ToCalendarEvent()
	if wire.ID != 7 || wire.Title != "Swim" {
		t.Errorf("wire identity = %+v", wire)
	}
	if wire.Start != "2017-08-08T12:00:00" || wire.End != "2017-08-08T13:00:00" {
		t.Errorf("wire timestamps = %q / %q", wire.Start, wire.End)
	}
	if wire.GroupID != "2" {
		t.Errorf("wire group id = %q, want \"2\"", wire.GroupID)
	}
	if wire.Color != "red" {
		t.Errorf("wire color = %q, want red", wire.Color)
	}
}
