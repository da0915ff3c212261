// Package review schedules flashcard reviews on an expanding interval and
// records the outcome of each study run.
package review

import (
	"sort"
	"time"

	"github.com/abhisek/studyaid/internal/flashcards"
)

// Result is the outcome of reviewing one card.
type Result struct {
	CardID  string    `json:"card_id"`
	Correct bool      `json:"correct"`
	At      time.Time `json:"at"`
}

// Scheduler tracks the review state of every card that has been studied.
type Scheduler struct {
	states map[string]*CardState
}

// NewScheduler replays history in order to rebuild card states.
func NewScheduler(history []Result) *Scheduler {
	s := &Scheduler{states: make(map[string]*CardState)}
	sorted := make([]Result, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At.Before(sorted[j].At) })
	for _, r := range sorted {
		s.Record(r)
	}
	return s
}

// Record applies one review. A miss resets the card to stage 0 and makes it
// due the next day; a hit advances it one stage.
func (s *Scheduler) Record(r Result) {
	cs := s.states[r.CardID]
	if cs == nil {
		cs = &CardState{CardID: r.CardID}
		s.states[r.CardID] = cs
	}
	cs.Reviews++
	cs.LastReview = r.At

	if !r.Correct {
		cs.ConsecutiveHits = 0
		cs.Stage = 0
		cs.Graduated = false
		cs.NextReview = r.At.AddDate(0, 0, BaseIntervals[0])
		return
	}

	interval := cs.IntervalDays()
	cs.ConsecutiveHits++
	if !cs.Graduated {
		cs.Stage++
		if cs.ConsecutiveHits >= GraduationHits {
			cs.Graduated = true
		}
	}
	cs.NextReview = r.At.AddDate(0, 0, interval)
}

// State returns the state of cardID, or nil for a card never studied.
func (s *Scheduler) State(cardID string) *CardState {
	return s.states[cardID]
}

// StatusOf labels cardID at now.
func (s *Scheduler) StatusOf(cardID string, now time.Time) Status {
	cs := s.states[cardID]
	if cs == nil {
		return StatusNew
	}
	return cs.Status(now)
}

// Queue picks the cards to study at now: due cards, most overdue first,
// followed by cards never studied in deck order. limit <= 0 means no limit.
func (s *Scheduler) Queue(cards []flashcards.Card, now time.Time, limit int) []flashcards.Card {
	type dueCard struct {
		card    flashcards.Card
		overdue float64
	}
	var due []dueCard
	var fresh []flashcards.Card
	for _, c := range cards {
		cs := s.states[c.ID]
		switch {
		case cs == nil:
			fresh = append(fresh, c)
		case cs.IsDue(now):
			due = append(due, dueCard{card: c, overdue: cs.OverdueDays(now)})
		}
	}
	sort.SliceStable(due, func(i, j int) bool { return due[i].overdue > due[j].overdue })

	out := make([]flashcards.Card, 0, len(due)+len(fresh))
	for _, d := range due {
		out = append(out, d.card)
	}
	out = append(out, fresh...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// NextDue returns the earliest scheduled review among cards, or the zero
// time when none of them has been studied.
func (s *Scheduler) NextDue(cards []flashcards.Card) time.Time {
	var next time.Time
	for _, c := range cards {
		cs := s.states[c.ID]
		if cs == nil {
			continue
		}
		if next.IsZero() || cs.NextReview.Before(next) {
			next = cs.NextReview
		}
	}
	return next
}
