package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ImalAyodya/atlas/internal/session"
	"github.com/ImalAyodya/atlas/pkg/backend"
)

type profileStatsMsg struct {
	favoriteCount int
	err           error
}

type profileModel struct {
	session       *session.Store
	client        *backend.Client
	favoriteCount int
	statsLoaded   bool
	width         int
	height        int
}

func newProfileModel(s *session.Store, c *backend.Client) profileModel {
	return profileModel{session: s, client: c}
}

func (m profileModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		favs, err := c.ListFavorites(context.Background())
		if backend.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return profileStatsMsg{favoriteCount: len(favs), err: err}
	}
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileStatsMsg:
		if msg.err == nil {
			m.favoriteCount = msg.favoriteCount
			m.statsLoaded = true
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m profileModel) View() string {
	var b strings.Builder
	b.WriteString(" " + selectedStyle.Render("PROFILE") + "\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	user := m.session.User()
	if user == nil {
		b.WriteString(" " + dimStyle.Render("not signed in"))
		return b.String()
	}

	row := func(label, value string) {
		b.WriteString(" " + labelStyle.Render(fmt.Sprintf("%-12s", label)) + normalStyle.Render(value) + "\n")
	}
	row("username", user.Username)
	row("email", user.Email)
	row("id", user.ID)
	if m.statsLoaded {
		row("favorites", fmt.Sprintf("%d", m.favoriteCount))
	}

	b.WriteString("\n " + dimStyle.Render("L to sign out") + "\n")

	return truncateToHeight(b.String(), m.height)
}
