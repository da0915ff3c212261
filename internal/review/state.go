package review

import (
	"math"
	"time"
)

// CardState is the review schedule of one flashcard.
type CardState struct {
	CardID          string
	Stage           int
	ConsecutiveHits int
	Graduated       bool
	LastReview      time.Time
	NextReview      time.Time
	Reviews         int
}

// IsDue reports whether the card should be reviewed at now.
func (cs *CardState) IsDue(now time.Time) bool {
	return !now.Before(cs.NextReview)
}

// OverdueDays is how long past due the card is, or 0.
func (cs *CardState) OverdueDays(now time.Time) float64 {
	if now.Before(cs.NextReview) {
		return 0
	}
	return now.Sub(cs.NextReview).Hours() / 24.0
}

// IntervalDays is the interval that applies at the card's current stage.
func (cs *CardState) IntervalDays() int {
	if cs.Graduated {
		return GraduatedIntervalDays
	}
	if cs.Stage >= len(BaseIntervals) {
		return BaseIntervals[len(BaseIntervals)-1]
	}
	return BaseIntervals[cs.Stage]
}

// DaysUntilReview returns whole days until the next review, 0 when due.
func (cs *CardState) DaysUntilReview(now time.Time) int {
	if cs.IsDue(now) {
		return 0
	}
	return int(math.Ceil(cs.NextReview.Sub(now).Hours() / 24.0))
}

// Status labels a card for display.
type Status string

const (
	StatusNew       Status = "new"
	StatusDue       Status = "due"
	StatusLearning  Status = "learning"
	StatusGraduated Status = "graduated"
)

// Status returns the card's label at now.
func (cs *CardState) Status(now time.Time) Status {
	switch {
	case cs.IsDue(now):
		return StatusDue
	case cs.Graduated:
		return StatusGraduated
	default:
		return StatusLearning
	}
}
