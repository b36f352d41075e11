package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ImalAyodya/atlas/pkg/backend"
	"github.com/ImalAyodya/atlas/pkg/domain"
)

type favoritesLoadedMsg struct {
	favorites []domain.Favorite
	err       error
}

type favoriteRemovedMsg struct {
	code string
	err  error
}

// sessionExpiredMsg signals that the backend rejected the bearer token.
// The app reacts by forcing a logout and routing to sign-in.
type sessionExpiredMsg struct{}

type favoritesModel struct {
	client    *backend.Client
	favorites []domain.Favorite
	cursor    int
	deleting  bool // delete confirmation pending
	loading   bool
	err       error
	statusMsg string
	width     int
	height    int
}

func newFavoritesModel(c *backend.Client) favoritesModel {
	return favoritesModel{client: c, loading: true}
}

func (m favoritesModel) Init() tea.Cmd {
	return m.load()
}

func (m favoritesModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		favs, err := c.ListFavorites(context.Background())
		if backend.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return favoritesLoadedMsg{favorites: favs, err: err}
	}
}

func (m favoritesModel) Update(msg tea.Msg) (favoritesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case favoritesLoadedMsg:
		m.loading = false
		m.favorites = msg.favorites
		m.err = msg.err
		if m.cursor >= len(m.favorites) {
			m.cursor = 0
		}
		return m, nil

	case favoriteRemovedMsg:
		if msg.err != nil {
			if backend.IsSessionExpired(msg.err) {
				return m, func() tea.Msg { return sessionExpiredMsg{} }
			}
			m.statusMsg = fmt.Sprintf("remove failed: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "removed"
		kept := m.favorites[:0]
		for _, f := range m.favorites {
			if f.CountryCode != msg.code {
				kept = append(kept, f)
			}
		}
		m.favorites = kept
		if m.cursor >= len(m.favorites) && m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		if m.deleting {
			return m.updateConfirm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m favoritesModel) updateConfirm(msg tea.KeyMsg) (favoritesModel, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		m.deleting = false
		if m.cursor < len(m.favorites) {
			c := m.client
			code := m.favorites[m.cursor].CountryCode
			return m, func() tea.Msg {
				return favoriteRemovedMsg{code: code, err: c.RemoveFavorite(context.Background(), code)}
			}
		}
	case "n", "esc":
		m.deleting = false
	}
	return m, nil
}

func (m favoritesModel) updateList(msg tea.KeyMsg) (favoritesModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.favorites)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.favorites) {
			code := m.favorites[m.cursor].CountryCode
			return m, func() tea.Msg {
				return showDetailMsg{code: code}
			}
		}
	case "d", "x":
		if m.cursor < len(m.favorites) {
			m.deleting = true
		}
	case "r":
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m favoritesModel) View() string {
	var b strings.Builder
	b.WriteString(" " + selectedStyle.Render("FAVORITES") + "\n")

	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading favorites..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	if len(m.favorites) == 0 {
		b.WriteString(" " + dimStyle.Render("no favorites yet — press s on a country to save it"))
		return b.String()
	}

	if m.statusMsg != "" {
		b.WriteString(" " + okStyle.Render(m.statusMsg) + "\n")
	}

	for i, f := range m.favorites {
		cursor := "  "
		nameStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			nameStyle = normalStyle.Bold(true)
		}

		nameWidth := m.width - 24
		if nameWidth < 16 {
			nameWidth = 16
		}
		name := fmt.Sprintf("%-*s", nameWidth, truncStr(f.Name, nameWidth))

		line := cursor + favStyle.Render("♥") + " " + nameStyle.Render(name) +
			" " + metaStyle.Render(f.CountryCode)
		if !f.CreatedAt.IsZero() {
			line += "  " + metaStyle.Render(formatTime(f.CreatedAt))
		}

		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	if m.deleting && m.cursor < len(m.favorites) {
		b.WriteString("\n " + errStyle.Render(
			fmt.Sprintf("remove %s from favorites? (y/n)", m.favorites[m.cursor].Name)) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
