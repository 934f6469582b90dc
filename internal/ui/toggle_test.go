package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"shaderopt/internal/option"
)

func testModel(t *testing.T) *ToggleModel {
	t.Helper()
	b := option.NewSetBuilder()
	b.AddSource("shaders/composite.fsh", option.Annotate([]string{
		"#define SHADOWS // Enable shadows",
		"//#define WAVING_PLANTS",
		"#ifdef SHADOWS",
	}))
	return NewToggleModel("test pack", b.Build())
}

func press(m tea.Model, msg tea.Msg) tea.Model {
	next, _ := m.Update(msg)
	return next
}

func TestToggleSelection(t *testing.T) {
	var m tea.Model = testModel(t)

	// Options are listed sorted: SHADOWS then WAVING_PLANTS.
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	m = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	m = press(m, tea.KeyMsg{Type: tea.KeySpace}) // toggle back off
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	model := m.(*ToggleModel)
	if !model.Accepted() {
		t.Fatal("expected the selection to be accepted")
	}

	flips := model.Flips()
	if !flips.ShouldFlip("SHADOWS") {
		t.Error("expected SHADOWS to be flipped")
	}
	if flips.ShouldFlip("WAVING_PLANTS") {
		t.Error("expected WAVING_PLANTS flip to be undone")
	}
}

func TestQuitDoesNotAccept(t *testing.T) {
	var m tea.Model = testModel(t)

	m = press(m, tea.KeyMsg{Type: tea.KeySpace})
	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	if m.(*ToggleModel).Accepted() {
		t.Error("quitting must not accept the selection")
	}
}

func TestViewListsOptions(t *testing.T) {
	view := testModel(t).View()

	if !strings.Contains(view, "SHADOWS") {
		t.Error("view missing SHADOWS")
	}
	if !strings.Contains(view, "WAVING_PLANTS") {
		t.Error("view missing WAVING_PLANTS")
	}
	// WAVING_PLANTS is never referenced by an #ifdef.
	if !strings.Contains(view, "(unreferenced)") {
		t.Error("view missing the unreferenced marker")
	}
}
