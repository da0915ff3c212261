package review

import (
	"math"
	"time"
)

// StudyRecord is stored with every flashcard study activity.
type StudyRecord struct {
	Category string    `json:"category,omitempty"`
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`
	Results  []Result  `json:"results"`
}

// Known counts the cards answered correctly.
func (r *StudyRecord) Known() int {
	n := 0
	for _, res := range r.Results {
		if res.Correct {
			n++
		}
	}
	return n
}

// Minutes is the run's duration rounded up to whole minutes.
func (r *StudyRecord) Minutes() int {
	d := r.Finished.Sub(r.Started)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Minutes()))
}

// Score is the percentage of cards known, or 0 for an empty run.
func (r *StudyRecord) Score() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	return float64(r.Known()) / float64(len(r.Results)) * 100
}
