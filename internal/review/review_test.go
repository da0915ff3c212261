package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studyaid/internal/flashcards"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func day(n int) time.Time { return t0.AddDate(0, 0, n) }

func TestRecordAdvancesThroughIntervals(t *testing.T) {
	s := NewScheduler(nil)
	at := t0
	for i, want := range BaseIntervals {
		s.Record(Result{CardID: "c1", Correct: true, At: at})
		cs := s.State("c1")
		require.NotNil(t, cs)
		assert.Equal(t, i+1, cs.Stage)
		assert.Equal(t, at.AddDate(0, 0, want), cs.NextReview, "hit %d", i+1)
		at = cs.NextReview
	}

	cs := s.State("c1")
	assert.True(t, cs.Graduated)
	assert.Equal(t, GraduatedIntervalDays, cs.IntervalDays())

	s.Record(Result{CardID: "c1", Correct: true, At: at})
	assert.Equal(t, at.AddDate(0, 0, GraduatedIntervalDays), s.State("c1").NextReview)
}

func TestRecordMissResets(t *testing.T) {
	s := NewScheduler(nil)
	s.Record(Result{CardID: "c1", Correct: true, At: t0})
	s.Record(Result{CardID: "c1", Correct: true, At: day(1)})
	s.Record(Result{CardID: "c1", Correct: false, At: day(4)})

	cs := s.State("c1")
	assert.Equal(t, 0, cs.Stage)
	assert.Equal(t, 0, cs.ConsecutiveHits)
	assert.Equal(t, 3, cs.Reviews)
	assert.Equal(t, day(5), cs.NextReview)
	assert.Equal(t, day(4), cs.LastReview)
}

func TestNewSchedulerReplaysInTimeOrder(t *testing.T) {
	s := NewScheduler([]Result{
		{CardID: "c1", Correct: true, At: day(1)},
		{CardID: "c1", Correct: false, At: t0},
	})
	cs := s.State("c1")
	assert.Equal(t, 1, cs.Stage, "the later hit wins")
	assert.Equal(t, day(2), cs.NextReview)
}

func TestQueue(t *testing.T) {
	cards := []flashcards.Card{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	s := NewScheduler([]Result{
		{CardID: "a", Correct: true, At: t0},       // due day 1
		{CardID: "b", Correct: false, At: day(-3)}, // due day -2
		{CardID: "c", Correct: true, At: day(9)},   // not due
	})

	now := day(2)
	got := s.Queue(cards, now, 0)
	ids := make([]string, len(got))
	for i, c := range got {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"b", "a", "d"}, ids)

	assert.Len(t, s.Queue(cards, now, 2), 2)
	assert.Empty(t, NewScheduler(nil).Queue(nil, now, 5))
}

func TestStatus(t *testing.T) {
	s := NewScheduler([]Result{{CardID: "a", Correct: true, At: t0}})
	assert.Equal(t, StatusNew, s.StatusOf("zzz", t0))
	assert.Equal(t, StatusLearning, s.StatusOf("a", t0))
	assert.Equal(t, StatusDue, s.StatusOf("a", day(1)))

	cs := s.State("a")
	assert.Equal(t, 1, cs.DaysUntilReview(t0))
	assert.Equal(t, 0, cs.DaysUntilReview(day(3)))
	assert.InDelta(t, 2.0, cs.OverdueDays(day(3)), 1e-9)
	assert.Zero(t, cs.OverdueDays(t0))
}

func TestNextDue(t *testing.T) {
	cards := []flashcards.Card{{ID: "a"}, {ID: "b"}, {ID: "new"}}
	s := NewScheduler([]Result{
		{CardID: "a", Correct: true, At: day(5)},
		{CardID: "b", Correct: true, At: t0},
	})
	assert.Equal(t, day(1), s.NextDue(cards))
	assert.True(t, s.NextDue(cards[2:]).IsZero())
}

func TestStudyRecord(t *testing.T) {
	rec := StudyRecord{
		Started:  t0,
		Finished: t0.Add(61 * time.Second),
		Results: []Result{
			{CardID: "a", Correct: true},
			{CardID: "b", Correct: false},
			{CardID: "c", Correct: true},
			{CardID: "d", Correct: true},
		},
	}
	assert.Equal(t, 3, rec.Known())
	assert.Equal(t, 2, rec.Minutes())
	assert.InDelta(t, 75.0, rec.Score(), 1e-9)

	var empty StudyRecord
	assert.Zero(t, empty.Score())
	assert.Zero(t, empty.Minutes())
}
