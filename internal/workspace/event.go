package workspace

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/abhisek/studyaid/internal/store"
)

// DefaultEventColor is used for events saved without a color.
const DefaultEventColor = "#667eea"

// DateLayout is the calendar date format.
const DateLayout = "2006-01-02"

// Event is a calendar entry such as an exam or deadline.
type Event struct {
	Name    string    `json:"name" yaml:"name"`
	Date    string    `json:"date" yaml:"date"`
	Notes   string    `json:"notes" yaml:"notes"`
	Color   string    `json:"color" yaml:"color"`
	Created time.Time `json:"created" yaml:"created"`
}

// NewEvent validates and builds an event. date must be YYYY-MM-DD.
func NewEvent(name, date, notes, color string, now time.Time) (Event, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Event{}, errors.New("event name is required")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return Event{}, fmt.Errorf("event date %q: want YYYY-MM-DD", date)
	}
	if color == "" {
		color = DefaultEventColor
	}
	return Event{Name: name, Date: date, Notes: strings.TrimSpace(notes), Color: color, Created: now}, nil
}

// Upcoming is an event with the whole days left until it.
type Upcoming struct {
	Event
	DaysUntil int
}

// UpcomingEvents returns up to n events dated today or later, soonest
// first. n <= 0 returns them all. Events with unreadable dates are skipped.
func UpcomingEvents(events []Event, today time.Time, n int) []Upcoming {
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	var out []Upcoming
	for _, e := range events {
		day, err := time.Parse(DateLayout, e.Date)
		if err != nil || day.Before(start) {
			continue
		}
		out = append(out, Upcoming{Event: e, DaysUntil: int(day.Sub(start).Hours() / 24)})
	}
	slices.SortStableFunc(out, func(a, b Upcoming) int { return a.DaysUntil - b.DaysUntil })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

func (e Event) row() store.CalendarRow {
	return store.CalendarRow{Name: e.Name, Date: e.Date, Notes: e.Notes, Color: e.Color, CreatedAt: e.Created}
}

func eventFromRow(r store.CalendarRow) Event {
	return Event{Name: r.Name, Date: r.Date, Notes: r.Notes, Color: r.Color, Created: r.CreatedAt}
}
