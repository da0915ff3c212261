package app

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyaid/internal/quiz"
	"github.com/abhisek/studyaid/internal/session"
)

func testModel(t *testing.T) AppModel {
	t.Helper()
	a, err := session.Start(&quiz.Quiz{
		Title: "Cells",
		Questions: []quiz.Question{
			{ID: 1, Text: "Cells divide.", Kind: quiz.KindTrueFalse, CorrectAnswer: "True", Points: 1},
		},
	}, time.Now())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	return newAppModel(context.Background(), Options{Attempt: a, Grader: quiz.NewGrader(nil)})
}

func TestAppModel_WindowSize(t *testing.T) {
	m := testModel(t)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	am := updated.(AppModel)
	if am.width != 100 || am.height != 30 {
		t.Errorf("size = %dx%d, want 100x30", am.width, am.height)
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	m := testModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}

func TestAppModel_ForwardsKeysToScreen(t *testing.T) {
	m := testModel(t)
	m.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	if got := m.router.Status(); got != "Q 1/1" {
		t.Errorf("status = %q, want %q", got, "Q 1/1")
	}
	if len(m.router.KeyHints()) == 0 {
		t.Error("expected key hints from the quiz screen")
	}
}

func TestRun_RequiresAttempt(t *testing.T) {
	if _, err := Run(context.Background(), Options{}); err == nil {
		t.Error("expected an error without an attempt")
	}
}
