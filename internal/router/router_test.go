package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/studyaid/internal/ui/layout"
)

type stubScreen struct {
	title   string
	initRan bool
	got     []tea.Msg
}

func (s *stubScreen) Init() tea.Cmd {
	s.initRan = true
	return nil
}
func (s *stubScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *stubScreen) View(int, int) string { return s.title }
func (s *stubScreen) Title() string        { return s.title }

type hintedScreen struct{ stubScreen }

func (h *hintedScreen) KeyHints() []layout.KeyHint { return []layout.KeyHint{{Key: "x", Description: "y"}} }
func (h *hintedScreen) Status() string             { return "Q 1/3" }

func TestPush(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	s2 := &stubScreen{title: "second"}
	r.Update(PushScreenMsg{Screen: s2})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "second" {
		t.Errorf("expected active 'second', got %q", r.Active().Title())
	}
	if !s2.initRan {
		t.Error("expected Init() to run on pushed screen")
	}
}

func TestPop(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Push(&stubScreen{title: "second"})

	if cmd := r.Update(PopScreenMsg{}); cmd != nil {
		t.Error("expected no command when popping above the bottom")
	}
	if r.Active().Title() != "first" {
		t.Errorf("expected active 'first', got %q", r.Active().Title())
	}
}

func TestPopLastQuits(t *testing.T) {
	r := New(&stubScreen{title: "only"})
	cmd := r.Pop()
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if r.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", r.Depth())
	}
}

func TestReplace(t *testing.T) {
	r := New(&stubScreen{title: "first"})
	r.Push(&stubScreen{title: "second"})

	s3 := &stubScreen{title: "third"}
	r.Update(ReplaceScreenMsg{Screen: s3})

	if r.Depth() != 2 {
		t.Errorf("expected depth 2, got %d", r.Depth())
	}
	if r.Active().Title() != "third" || !s3.initRan {
		t.Error("expected third screen active and initialized")
	}
}

func TestForwardsMessages(t *testing.T) {
	s := &stubScreen{title: "first"}
	r := New(s)
	r.Update("hello")

	if len(s.got) != 1 || s.got[0] != "hello" {
		t.Errorf("expected message forwarded, got %v", s.got)
	}
}

func TestOptionalProviders(t *testing.T) {
	r := New(&stubScreen{title: "plain"})
	if r.KeyHints() != nil || r.Status() != "" {
		t.Error("plain screen should have no hints or status")
	}

	r.Push(&hintedScreen{stubScreen{title: "hinted"}})
	if len(r.KeyHints()) != 1 {
		t.Errorf("expected 1 hint, got %d", len(r.KeyHints()))
	}
	if r.Status() != "Q 1/3" {
		t.Errorf("Status = %q", r.Status())
	}
}
