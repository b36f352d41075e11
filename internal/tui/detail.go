package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ImalAyodya/atlas/internal/browser"
	"github.com/ImalAyodya/atlas/internal/session"
	"github.com/ImalAyodya/atlas/pkg/backend"
	"github.com/ImalAyodya/atlas/pkg/countries"
	"github.com/ImalAyodya/atlas/pkg/domain"
)

// detailLoadTimeout bounds how long the detail view may sit in its loading
// state before silence is converted into a visible error.
const detailLoadTimeout = 10 * time.Second

type detailLoadedMsg struct {
	gen     int
	country *domain.Country
	err     error
}

type favoriteStateMsg struct {
	gen int
	fav bool
}

type favoriteToggledMsg struct {
	fav bool
	err error
}

type detailTimeoutMsg struct {
	gen int
}

type mapOpenedMsg struct{ err error }
type copyResultMsg struct{ err error }

// requestSigninMsg asks the app to route to the sign-in view, remembering
// where the user was.
type requestSigninMsg struct{}

type detailModel struct {
	client    *countries.Client
	backend   *backend.Client
	session   *session.Store
	code      string
	country   *domain.Country
	fav       bool
	loading   bool
	gen       int
	err       string
	statusMsg string
	width     int
	height    int
}

func newDetailModel(c *countries.Client, b *backend.Client, s *session.Store) detailModel {
	return detailModel{client: c, backend: b, session: s}
}

// load starts a lookup for the given code. Each call starts a new request
// generation; in-flight responses and timeouts from older generations are
// ignored, so rapid navigation cannot leave a stale country on screen.
func (m detailModel) load(code string) (detailModel, tea.Cmd) {
	m.gen++
	m.code = code
	m.country = nil
	m.fav = false
	m.loading = true
	m.err = ""
	m.statusMsg = ""

	client := m.client
	gen := m.gen
	fetchCmd := func() tea.Msg {
		country, err := client.ByCode(context.Background(), code)
		return detailLoadedMsg{gen: gen, country: country, err: err}
	}
	timeoutCmd := tea.Tick(detailLoadTimeout, func(time.Time) tea.Msg {
		return detailTimeoutMsg{gen: gen}
	})

	cmds := []tea.Cmd{fetchCmd, timeoutCmd}
	if m.session.Status() == session.StatusAuthenticated {
		be := m.backend
		cmds = append(cmds, func() tea.Msg {
			return favoriteStateMsg{gen: gen, fav: be.CheckFavorite(context.Background(), code)}
		})
	}
	return m, tea.Batch(cmds...)
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case detailLoadedMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.country = msg.country
		}
		return m, nil

	case favoriteStateMsg:
		if msg.gen == m.gen {
			m.fav = msg.fav
		}
		return m, nil

	case detailTimeoutMsg:
		if msg.gen == m.gen && m.loading {
			m.loading = false
			m.err = "timed out loading country details"
		}
		return m, nil

	case favoriteToggledMsg:
		if msg.err != nil {
			if backend.IsSessionExpired(msg.err) {
				return m, func() tea.Msg { return sessionExpiredMsg{} }
			}
			m.statusMsg = fmt.Sprintf("favorite update failed: %v", msg.err)
			return m, nil
		}
		m.fav = msg.fav
		if m.fav {
			m.statusMsg = "added to favorites"
		} else {
			m.statusMsg = "removed from favorites"
		}
		return m, nil

	case mapOpenedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("could not open map: %v", msg.err)
		} else {
			m.statusMsg = "map opened in browser"
		}
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("copy failed: %v", msg.err)
		} else {
			m.statusMsg = "copied!"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		m.statusMsg = ""
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m detailModel) updateKeys(msg tea.KeyMsg) (detailModel, tea.Cmd) {
	switch msg.String() {
	case "s":
		if m.country == nil {
			return m, nil
		}
		if m.session.Status() != session.StatusAuthenticated {
			return m, func() tea.Msg { return requestSigninMsg{} }
		}
		be := m.backend
		code := m.code
		name := m.country.Name.Common
		flag := m.country.Flags.PNG
		wasFav := m.fav
		return m, func() tea.Msg {
			var err error
			if wasFav {
				err = be.RemoveFavorite(context.Background(), code)
			} else {
				err = be.AddFavorite(context.Background(), code, name, flag)
			}
			return favoriteToggledMsg{fav: !wasFav, err: err}
		}
	case "m":
		if m.country == nil {
			return m, nil
		}
		lat, lng, ok := m.country.Coordinates()
		if !ok {
			m.statusMsg = "no coordinates for this country"
			return m, nil
		}
		return m, func() tea.Msg {
			return mapOpenedMsg{err: browser.Open(browser.MapURL(lat, lng))}
		}
	case "c":
		if m.country == nil {
			return m, nil
		}
		summary := m.summary()
		return m, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(summary)}
		}
	case "r":
		if m.code != "" {
			return m.load(m.code)
		}
	}
	return m, nil
}

// summary builds the plain-text country summary placed on the clipboard.
func (m detailModel) summary() string {
	c := m.country
	lines := []string{
		c.Name.Common + " (" + m.code + ")",
		"Region: " + c.Region,
	}
	if len(c.Capital) > 0 {
		lines = append(lines, "Capital: "+strings.Join(c.Capital, ", "))
	}
	lines = append(lines, "Population: "+formatPopulation(c.Population))
	if c.Area > 0 {
		lines = append(lines, "Area: "+formatArea(c.Area))
	}
	return strings.Join(lines, "\n")
}

func (m detailModel) View() string {
	var b strings.Builder
	b.WriteString(" " + dimStyle.Render("<- back (esc)") + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading country details..."))
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err))
		return b.String()
	}
	if m.country == nil {
		return b.String()
	}
	c := m.country

	// Title line: name + favorite marker
	title := " " + selectedStyle.Render(c.Name.Common)
	if m.fav {
		title += "  " + favStyle.Render("♥ favorite")
	}
	b.WriteString(title + "\n")
	if c.Name.Official != "" && c.Name.Official != c.Name.Common {
		b.WriteString(" " + metaStyle.Render(c.Name.Official) + "\n")
	}
	b.WriteString("\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(" " + labelStyle.Render(fmt.Sprintf("%-12s", label)) + normalStyle.Render(value) + "\n")
	}

	region := c.Region
	if c.Subregion != "" {
		region += " · " + c.Subregion
	}
	row("region", region)
	row("capital", strings.Join(c.Capital, ", "))
	row("population", formatPopulation(c.Population))
	if c.Area > 0 {
		row("area", formatArea(c.Area))
	}
	row("currencies", currencyLine(c.Currencies))
	row("languages", languageLine(c.Languages))
	row("tld", strings.Join(c.TLD, ", "))
	if len(c.Borders) > 0 {
		row("borders", strings.Join(c.Borders, " "))
	}
	if lat, lng, ok := c.Coordinates(); ok {
		row("coords", fmt.Sprintf("%.2f, %.2f", lat, lng))
	}
	row("flag", c.Flags.PNG)

	if m.statusMsg != "" {
		b.WriteString("\n " + okStyle.Render(m.statusMsg) + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
