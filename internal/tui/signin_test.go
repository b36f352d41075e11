package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ImalAyodya/atlas/internal/session"
)

func newTestSigninModel(t *testing.T) signinModel {
	sess, _ := newTestSession(t, false)
	m := newSigninModel(sess)
	m.width = 80
	m.height = 30
	return m
}

func typeString(m signinModel, s string) signinModel {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func TestSigninFieldCyclingSkipsUsername(t *testing.T) {
	m := newTestSigninModel(t)

	if m.focus != fieldEmail {
		t.Fatalf("initial focus = %v, want email", m.focus)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldPassword {
		t.Errorf("focus after tab = %v, want password", m.focus)
	}
	// Wrapping around must not land on the register-only username field.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != fieldEmail {
		t.Errorf("focus after wrap = %v, want email", m.focus)
	}
}

func TestSigninRegisterModeIncludesUsername(t *testing.T) {
	m := newTestSigninModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})

	if !m.registering {
		t.Fatal("expected register mode after ctrl+r")
	}
	if m.focus != fieldUsername {
		t.Errorf("focus = %v, want username in register mode", m.focus)
	}
	if !strings.Contains(m.View(), "CREATE ACCOUNT") {
		t.Errorf("expected register heading, got:\n%s", m.View())
	}
}

func TestSigninPasswordMasked(t *testing.T) {
	m := newTestSigninModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}) // to password
	m = typeString(m, "hunter2")

	view := m.View()
	if strings.Contains(view, "hunter2") {
		t.Errorf("password visible in view:\n%s", view)
	}
	if !strings.Contains(view, "*******") {
		t.Errorf("expected masked password, got:\n%s", view)
	}
}

func TestSigninValidation(t *testing.T) {
	m := newTestSigninModel(t)
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab}) // password, both fields empty

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Error("expected no submit command with empty email")
	}
	if m.errMsg != "email is required" {
		t.Errorf("errMsg = %q, want email validation", m.errMsg)
	}

	m = typeString(m, "x") // still on password after validation failure
	m.fields[fieldEmail] = "ada@example.com"
	m.fields[fieldPassword] = ""
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.errMsg != "password is required" {
		t.Errorf("errMsg = %q, want password validation", m.errMsg)
	}
}

func TestSigninSubmit(t *testing.T) {
	m := newTestSigninModel(t)
	m = typeString(m, "ada@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter}) // advance to password
	m = typeString(m, "secret")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected submit command")
	}
	if !m.submitting {
		t.Error("expected submitting state during the request")
	}

	msg, ok := cmd().(signinResultMsg)
	if !ok {
		t.Fatalf("expected signinResultMsg, got %T", cmd())
	}
	if !msg.result.OK {
		t.Errorf("login against stub failed: %s", msg.result.Error)
	}

	m, _ = m.Update(msg)
	if m.submitting {
		t.Error("expected submitting cleared after the result")
	}
}

func TestSigninFailureShowsMessage(t *testing.T) {
	m := newTestSigninModel(t)
	m, _ = m.Update(signinResultMsg{result: session.Result{Error: "Invalid email or password"}})

	if !strings.Contains(m.View(), "Invalid email or password") {
		t.Errorf("expected failure message in view, got:\n%s", m.View())
	}
}

func TestSigninResetKeepsNotice(t *testing.T) {
	m := newTestSigninModel(t)
	m = typeString(m, "partial@input")
	m = m.reset("session expired, please sign in again")

	if m.fields[fieldEmail] != "" {
		t.Errorf("reset kept field content: %q", m.fields[fieldEmail])
	}
	if !strings.Contains(m.View(), "session expired") {
		t.Errorf("expected notice in view, got:\n%s", m.View())
	}
}
