package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ImalAyodya/atlas/internal/session"
)

type signinField int

const (
	fieldUsername signinField = iota // register mode only
	fieldEmail
	fieldPassword
	numSigninFields
)

// signinResultMsg carries the outcome of a login or register attempt.
type signinResultMsg struct {
	result session.Result
}

type signinModel struct {
	session     *session.Store
	fields      [numSigninFields]string
	focus       signinField
	registering bool
	submitting  bool
	errMsg      string
	notice      string // e.g. "session expired", set by the app
	width       int
	height      int
}

func newSigninModel(s *session.Store) signinModel {
	return signinModel{session: s, focus: fieldEmail}
}

// reset clears the form for a fresh visit, keeping any notice.
func (m signinModel) reset(notice string) signinModel {
	m.fields = [numSigninFields]string{}
	m.focus = fieldEmail
	if m.registering {
		m.focus = fieldUsername
	}
	m.submitting = false
	m.errMsg = ""
	m.notice = notice
	return m
}

func (m signinModel) Update(msg tea.Msg) (signinModel, tea.Cmd) {
	switch msg := msg.(type) {
	case signinResultMsg:
		m.submitting = false
		if !msg.result.OK {
			m.errMsg = msg.result.Error
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m signinModel) updateKeys(msg tea.KeyMsg) (signinModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}
	m.errMsg = ""

	switch msg.String() {
	case "tab", "down":
		m.focus = m.nextField(m.focus, 1)
	case "shift+tab", "up":
		m.focus = m.nextField(m.focus, -1)
	case "ctrl+r":
		// Toggle between sign-in and create-account modes.
		m.registering = !m.registering
		return m.reset(m.notice), nil
	case "enter":
		if m.focus == fieldPassword {
			return m.submit()
		}
		m.focus = m.nextField(m.focus, 1)
	case "backspace":
		f := &m.fields[m.focus]
		*f = editRune(*f, "backspace")
	default:
		key := msg.String()
		if len(key) == 1 {
			m.fields[m.focus] = editRune(m.fields[m.focus], key)
		}
	}
	return m, nil
}

// nextField steps the focus, skipping the username field in sign-in mode.
func (m signinModel) nextField(f signinField, dir int) signinField {
	for {
		f = signinField((int(f) + dir + int(numSigninFields)) % int(numSigninFields))
		if f == fieldUsername && !m.registering {
			continue
		}
		return f
	}
}

func (m signinModel) submit() (signinModel, tea.Cmd) {
	username := strings.TrimSpace(m.fields[fieldUsername])
	email := strings.TrimSpace(m.fields[fieldEmail])
	password := m.fields[fieldPassword]

	if m.registering && username == "" {
		m.errMsg = "username is required"
		return m, nil
	}
	if email == "" {
		m.errMsg = "email is required"
		return m, nil
	}
	if password == "" {
		m.errMsg = "password is required"
		return m, nil
	}

	m.submitting = true
	s := m.session
	registering := m.registering
	return m, func() tea.Msg {
		var res session.Result
		if registering {
			res = s.Register(context.Background(), username, email, password)
		} else {
			res = s.Login(context.Background(), email, password)
		}
		return signinResultMsg{result: res}
	}
}

func (m signinModel) View() string {
	var b strings.Builder

	if m.registering {
		b.WriteString(" " + selectedStyle.Render("CREATE ACCOUNT") + "  " +
			dimStyle.Render("ctrl+r to sign in instead") + "\n\n")
	} else {
		b.WriteString(" " + selectedStyle.Render("SIGN IN") + "  " +
			dimStyle.Render("ctrl+r to create an account") + "\n\n")
	}

	if m.notice != "" {
		b.WriteString(" " + errStyle.Render(m.notice) + "\n\n")
	}

	field := func(f signinField, label, value string, masked bool) {
		shown := value
		if masked {
			shown = strings.Repeat("*", len([]rune(value)))
		}
		prompt := labelStyle.Render(label + ": ")
		if f == m.focus {
			b.WriteString(" " + accentStyle.Render(">") + " " + prompt + normalStyle.Render(shown) + accentStyle.Render("█") + "\n")
		} else if shown == "" {
			b.WriteString("   " + prompt + inputPlaceholderStyle.Render("...") + "\n")
		} else {
			b.WriteString("   " + prompt + dimStyle.Render(shown) + "\n")
		}
	}

	if m.registering {
		field(fieldUsername, "username", m.fields[fieldUsername], false)
	}
	field(fieldEmail, "email   ", m.fields[fieldEmail], false)
	field(fieldPassword, "password", m.fields[fieldPassword], true)

	b.WriteString("\n")
	if m.submitting {
		b.WriteString(" " + dimStyle.Render("signing in..."))
	} else if m.errMsg != "" {
		b.WriteString(" " + errStyle.Render(m.errMsg))
	} else {
		b.WriteString(" " + dimStyle.Render("enter to submit"))
	}

	return truncateToHeight(b.String(), m.height)
}
