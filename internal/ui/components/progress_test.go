package components

import (
	"strings"
	"testing"
)

func TestScoreBar_Filled(t *testing.T) {
	tests := []struct {
		score float64
		width int
		want  int
	}{
		{0, 10, 0},
		{50, 10, 5},
		{66.7, 30, 20},
		{100, 10, 10},
		{140, 10, 10},
		{-5, 10, 0},
		{100, 1, minBarWidth},
	}
	for _, tt := range tests {
		if got := NewScoreBar(tt.score, tt.width).Filled(); got != tt.want {
			t.Errorf("Filled(%v, %d) = %d, want %d", tt.score, tt.width, got, tt.want)
		}
	}
}

func TestScoreBar_ViewShowsScore(t *testing.T) {
	if v := NewScoreBar(72.5, 10).WithScore().View(); !strings.Contains(v, "72.5%") {
		t.Errorf("view %q missing score", v)
	}
	if v := NewScoreBar(72.5, 10).View(); strings.Contains(v, "%") {
		t.Errorf("view %q should not show score", v)
	}
}
