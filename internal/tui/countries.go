package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ImalAyodya/atlas/pkg/countries"
	"github.com/ImalAyodya/atlas/pkg/domain"
)

// countriesLoadedMsg carries a finished country fetch. gen ties the response
// to the request generation that issued it; responses from superseded
// requests are dropped so a slow fetch can never overwrite newer state.
type countriesLoadedMsg struct {
	gen  int
	list []domain.Country
	err  error
}

// showDetailMsg asks the app to open the detail view for a country code.
type showDetailMsg struct {
	code string
}

type countriesModel struct {
	client  *countries.Client
	list    []domain.Country
	cursor  int
	search  string
	editing bool // true when typing in search
	region  string
	loading bool
	err     error
	gen     int
	width   int
	height  int
}

func newCountriesModel(c *countries.Client) countriesModel {
	return countriesModel{client: c, loading: true}
}

func (m countriesModel) Init() tea.Cmd {
	return m.load()
}

// load issues the fetch matching the current filter state: name search wins
// over region filter wins over the full listing.
func (m countriesModel) load() tea.Cmd {
	c := m.client
	gen := m.gen
	search := m.search
	region := m.region
	return func() tea.Msg {
		var list []domain.Country
		var err error
		switch {
		case search != "":
			list, err = c.SearchByName(context.Background(), search)
		case region != "":
			list, err = c.ByRegion(context.Background(), region)
		default:
			list, err = c.All(context.Background())
		}
		return countriesLoadedMsg{gen: gen, list: list, err: err}
	}
}

// reload bumps the request generation and refetches.
func (m countriesModel) reload() (countriesModel, tea.Cmd) {
	m.gen++
	m.loading = true
	m.cursor = 0
	return m, m.load()
}

func (m countriesModel) Update(msg tea.Msg) (countriesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case countriesLoadedMsg:
		if msg.gen != m.gen {
			// Stale response from a superseded request.
			return m, nil
		}
		m.loading = false
		m.list = msg.list
		m.err = msg.err
		if m.cursor >= len(m.list) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m countriesModel) updateSearch(msg tea.KeyMsg) (countriesModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.editing = false
		return m.reload()
	case "esc":
		m.editing = false
		m.search = ""
		return m.reload()
	default:
		m.search = editRune(m.search, msg.String())
	}
	return m, nil
}

func (m countriesModel) updateList(msg tea.KeyMsg) (countriesModel, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.list)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g":
		m.cursor = 0
	case "G":
		if len(m.list) > 0 {
			m.cursor = len(m.list) - 1
		}
	case "enter":
		if m.cursor < len(m.list) {
			code := m.list[m.cursor].CCA3
			return m, func() tea.Msg {
				return showDetailMsg{code: code}
			}
		}
	case "/":
		m.editing = true
		m.search = ""
	case "f":
		// Cycle the region filter: all -> first region -> ... -> all.
		// A region filter replaces any active search.
		m.search = ""
		if m.region == "" {
			m.region = domain.Regions[0]
		} else {
			next := ""
			for i, r := range domain.Regions {
				if r == m.region && i+1 < len(domain.Regions) {
					next = domain.Regions[i+1]
					break
				}
			}
			m.region = next
		}
		return m.reload()
	case "r":
		return m.reload()
	}
	return m, nil
}

func (m countriesModel) View() string {
	var b strings.Builder

	// Search bar + region filter line
	if m.editing {
		b.WriteString(" " + searchStyle.Render("/ "+m.search+"█"))
	} else if m.search != "" {
		b.WriteString(" " + searchStyle.Render("/ "+m.search))
	} else {
		b.WriteString(" " + dimStyle.Render("/ search..."))
	}

	b.WriteString("   ")
	for i, r := range domain.Regions {
		if i > 0 {
			b.WriteString("  ")
		}
		if r == m.region {
			b.WriteString(RegionStyle(r).Render(r))
		} else {
			b.WriteString(dimStyle.Render(r))
		}
	}
	b.WriteString("  " + helpKeyStyle.Render("f"))
	b.WriteString("\n")

	// Separator
	sepW := m.width - 2
	if sepW < 4 {
		sepW = 4
	}
	b.WriteString(" " + metaStyle.Render(strings.Repeat("─", sepW)) + "\n")

	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading countries..."))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(" " + errStyle.Render(fmt.Sprintf("error: %v", m.err)))
		return b.String()
	}
	if len(m.list) == 0 {
		if m.search != "" {
			b.WriteString(" " + dimStyle.Render(fmt.Sprintf("no countries match %q", m.search)))
		} else {
			b.WriteString(" " + dimStyle.Render("no countries found"))
		}
		return b.String()
	}

	return b.String() + m.viewList()
}

func (m countriesModel) viewList() string {
	var b strings.Builder

	viewChrome := 9 // search line + separator + preview block
	available := m.height - viewChrome
	if available < 6 {
		available = 6
	}
	maxVisible := available * 3 / 5
	if maxVisible < 3 {
		maxVisible = 3
	}

	start := 0
	if m.cursor >= maxVisible {
		start = m.cursor - maxVisible + 1
	}

	for i := start; i < len(m.list) && i < start+maxVisible; i++ {
		c := m.list[i]

		cursor := "  "
		nameStyle := dimStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸") + " "
			nameStyle = normalStyle.Bold(true)
		}

		dot := RegionStyle(c.Region).Render("●") + " "

		// Right columns: region (10) + population (8)
		regionCol := RegionStyle(c.Region).Render(fmt.Sprintf("%-10s", truncStr(c.Region, 10)))
		popCol := metaStyle.Render(fmt.Sprintf("%8s", formatPopulation(c.Population)))

		rightWidth := 10 + 8 + 3
		nameWidth := m.width - 4 - rightWidth
		if nameWidth < 16 {
			nameWidth = 16
		}
		name := truncStr(c.Name.Common, nameWidth)
		namePadded := fmt.Sprintf("%-*s", nameWidth, name)

		line := cursor + dot + nameStyle.Render(namePadded) + " " + regionCol + " " + popCol
		if i == m.cursor {
			padded := line + strings.Repeat(" ", max(m.width-lipgloss.Width(line), 0))
			b.WriteString(selectedRowBg.Render(padded) + "\n")
		} else {
			b.WriteString(line + "\n")
		}
	}

	// Quick facts for the selected country
	if m.cursor < len(m.list) {
		c := m.list[m.cursor]
		b.WriteString("\n")

		header := " " + selectedStyle.Render(c.Name.Common)
		if c.Name.Official != "" && c.Name.Official != c.Name.Common {
			header += "  " + metaStyle.Render(c.Name.Official)
		}
		b.WriteString(header + "\n")

		facts := " " + RegionStyle(c.Region).Render(c.Region)
		if c.Subregion != "" {
			facts += metaStyle.Render(" · ") + dimStyle.Render(c.Subregion)
		}
		if len(c.Capital) > 0 {
			facts += metaStyle.Render(" · ") + dimStyle.Render(strings.Join(c.Capital, ", "))
		}
		facts += metaStyle.Render(" · ") + dimStyle.Render(formatPopulation(c.Population)+" people")
		b.WriteString(facts + "\n")
	}

	return truncateToHeight(b.String(), m.height)
}
