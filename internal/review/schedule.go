package review

// BaseIntervals is the expanding review schedule in days. Stage 0 is the
// first review after a card is first answered correctly.
var BaseIntervals = []int{1, 3, 7, 14, 30, 60}

// GraduationHits is the run of consecutive correct reviews after which a
// card graduates.
const GraduationHits = 6

// GraduatedIntervalDays is the review interval for graduated cards.
const GraduatedIntervalDays = 90
