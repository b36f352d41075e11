package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ImalAyodya/atlas/internal/session"
	"github.com/ImalAyodya/atlas/pkg/backend"
	"github.com/ImalAyodya/atlas/pkg/countries"
)

type view int

const (
	viewCountries view = iota
	viewDetail
	viewFavorites
	viewProfile
	viewSignin
)

// guarded reports whether a view requires a signed-in user.
func (v view) guarded() bool {
	return v == viewFavorites || v == viewProfile
}

// sessionReadyMsg carries the result of the one-shot startup session check.
type sessionReadyMsg struct {
	status session.Status
}

// App is the root Bubbletea model. The session store, backend client and
// countries client are injected by cmd/atlas; App owns routing between
// screens and the sign-in gate in front of guarded ones.
type App struct {
	session   *session.Store
	countries countriesModel
	detail    detailModel
	favorites favoritesModel
	profile   profileModel
	signin    signinModel
	backend   *backend.Client

	view         view
	returnTo     view // where to resume after a successful sign-in
	detailReturn view // where esc from the detail view goes back to
	helpOpen     bool
	width        int
	height       int
	frame        int // logo shimmer animation frame
	version      string
	updateNotice string
}

// NewApp creates the root TUI application.
func NewApp(sess *session.Store, cc *countries.Client, bc *backend.Client, version string) App {
	return App{
		session:   sess,
		countries: newCountriesModel(cc),
		detail:    newDetailModel(cc, bc, sess),
		favorites: newFavoritesModel(bc),
		profile:   newProfileModel(sess, bc),
		signin:    newSigninModel(sess),
		backend:   bc,
		version:   version,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.countries.Init(), shimmerTickCmd(), a.initSession(), checkVersion(a.version))
}

// initSession runs the one-shot startup check: restore the persisted token
// if the backend still accepts it, otherwise start signed out.
func (a App) initSession() tea.Cmd {
	s := a.session
	return func() tea.Msg {
		return sessionReadyMsg{status: s.Initialize(context.Background())}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.countries, _ = a.countries.Update(bodyMsg)
		a.detail, _ = a.detail.Update(bodyMsg)
		a.favorites, _ = a.favorites.Update(bodyMsg)
		a.profile, _ = a.profile.Update(bodyMsg)
		a.signin, _ = a.signin.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case versionCheckMsg:
		if msg.hasUpdate {
			a.updateNotice = "update available: " + msg.latestVersion
		}
		return a, nil

	case sessionReadyMsg:
		// If the user navigated to a guarded view while the check was
		// still running, resolve the gate now.
		if a.view.guarded() {
			return a.gotoGuarded(a.view)
		}
		return a, nil

	case showDetailMsg:
		a.detailReturn = a.view
		if a.detailReturn == viewDetail || a.detailReturn == viewSignin {
			a.detailReturn = viewCountries
		}
		a.view = viewDetail
		var cmd tea.Cmd
		a.detail, cmd = a.detail.load(msg.code)
		return a, cmd

	case requestSigninMsg:
		a.returnTo = a.view
		a.signin = a.signin.reset("sign in to save favorites")
		a.view = viewSignin
		return a, nil

	case sessionExpiredMsg:
		a.session.Logout()
		a.returnTo = a.view
		if !a.returnTo.guarded() && a.returnTo != viewDetail {
			a.returnTo = viewCountries
		}
		a.signin = a.signin.reset("session expired, please sign in again")
		a.view = viewSignin
		return a, nil

	case signinResultMsg:
		var cmd tea.Cmd
		a.signin, cmd = a.signin.Update(msg)
		if msg.result.OK {
			return a.resumeAfterSignin()
		}
		return a, cmd

	case tea.KeyMsg:
		// Help overlay captures all keys when open
		if a.helpOpen {
			switch msg.String() {
			case "h", "esc", "q":
				a.helpOpen = false
			case "ctrl+c":
				return a, tea.Quit
			}
			return a, nil
		}

		if !a.isEditing() {
			switch msg.String() {
			case "h":
				a.helpOpen = true
				return a, nil
			case "q", "ctrl+c":
				return a, tea.Quit
			case "1":
				if a.view != viewCountries {
					a.view = viewCountries
					return a, a.countries.Init()
				}
				return a, nil
			case "2":
				if a.view != viewFavorites {
					return a.gotoGuarded(viewFavorites)
				}
				return a, nil
			case "3":
				if a.view != viewProfile {
					return a.gotoGuarded(viewProfile)
				}
				return a, nil
			case "L":
				if a.view == viewProfile {
					a.session.Logout()
					a.view = viewCountries
					return a, nil
				}
			case "esc":
				switch a.view {
				case viewDetail:
					a.view = a.detailReturn
					return a, nil
				case viewSignin:
					a.view = viewCountries
					return a, nil
				}
			}
		} else if msg.String() == "ctrl+c" {
			return a, tea.Quit
		} else if msg.String() == "esc" && a.view == viewSignin {
			a.view = viewCountries
			return a, nil
		}
	}

	var cmd tea.Cmd
	switch a.view {
	case viewCountries:
		a.countries, cmd = a.countries.Update(msg)
	case viewDetail:
		a.detail, cmd = a.detail.Update(msg)
	case viewFavorites:
		a.favorites, cmd = a.favorites.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case viewSignin:
		a.signin, cmd = a.signin.Update(msg)
	}
	return a, cmd
}

// gotoGuarded routes to a guarded view through the sign-in gate. The
// outcome is a pure function of session status: still initializing shows
// the view's neutral placeholder, signed out redirects to sign-in with the
// destination preserved, signed in renders the view.
func (a App) gotoGuarded(target view) (App, tea.Cmd) {
	switch a.session.Status() {
	case session.StatusInitializing:
		a.view = target
		return a, nil
	case session.StatusUnauthenticated:
		a.returnTo = target
		a.signin = a.signin.reset("")
		a.view = viewSignin
		return a, nil
	default:
		a.view = target
		return a.openView(target)
	}
}

// resumeAfterSignin returns the user to wherever the gate interrupted them.
func (a App) resumeAfterSignin() (App, tea.Cmd) {
	target := a.returnTo
	if target == viewSignin {
		target = viewCountries
	}
	a.view = target
	return a.openView(target)
}

// openView (re)initializes a view's data when it becomes active.
func (a App) openView(v view) (App, tea.Cmd) {
	switch v {
	case viewCountries:
		return a, a.countries.Init()
	case viewFavorites:
		// Rebuild the model for a fresh load, but keep its geometry: window
		// size only arrives again on an actual terminal resize.
		next := newFavoritesModel(a.backend)
		next.width, next.height = a.favorites.width, a.favorites.height
		a.favorites = next
		return a, a.favorites.Init()
	case viewProfile:
		next := newProfileModel(a.session, a.backend)
		next.width, next.height = a.profile.width, a.profile.height
		a.profile = next
		return a, a.profile.Init()
	case viewDetail:
		if a.detail.code != "" {
			var cmd tea.Cmd
			a.detail, cmd = a.detail.load(a.detail.code)
			return a, cmd
		}
	}
	return a, nil
}

func (a App) isEditing() bool {
	switch a.view {
	case viewCountries:
		return a.countries.editing
	case viewSignin:
		return true
	case viewFavorites:
		return a.favorites.deleting
	}
	return false
}

func (a App) View() string {
	// Header: centered shimmer logo + session chip
	logo := renderShimmerLogo(a.frame)
	logoWidth := lipgloss.Width(logo)
	logoPad := (a.width - logoWidth) / 2
	if logoPad < 0 {
		logoPad = 0
	}
	header := strings.Repeat(" ", logoPad) + logo

	var chip string
	switch a.session.Status() {
	case session.StatusInitializing:
		chip = metaStyle.Render("checking session...")
	case session.StatusAuthenticated:
		if u := a.session.User(); u != nil {
			chip = okStyle.Render("@" + u.Username)
		}
	default:
		chip = metaStyle.Render("signed out")
	}
	if a.updateNotice != "" {
		chip += "  " + accentStyle.Render(a.updateNotice)
	}
	chipWidth := lipgloss.Width(chip)
	chipPad := (a.width - chipWidth) / 2
	if chipPad < 0 {
		chipPad = 0
	}
	header += "\n" + strings.Repeat(" ", chipPad) + chip

	// Tab bar: 3 equal-width columns spread across the terminal
	type tabEntry struct {
		key  string
		name string
		v    view
	}
	tabs := []tabEntry{
		{"1", "Countries", viewCountries},
		{"2", "Favorites", viewFavorites},
		{"3", "Profile", viewProfile},
	}
	active := a.view
	if active == viewDetail {
		active = a.detailReturn
	}

	colWidth := a.width / len(tabs)
	var tabBar strings.Builder
	for _, t := range tabs {
		var label string
		if t.v == active {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := (colWidth - labelWidth) / 2
		if leftPad < 0 {
			leftPad = 0
		}
		rightPad := colWidth - labelWidth - leftPad
		if rightPad < 0 {
			rightPad = 0
		}
		tabBar.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}

	// Body + per-view help line
	var body string
	var help string
	switch a.view {
	case viewCountries:
		body = a.countries.View()
		help = " " + helpEntry("1-3", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("/", "search") + "  " + helpEntry("f", "region") + "  " + helpEntry("enter", "details") + "  " + helpEntry("h", "help") + "  " + helpEntry("q", "quit")
	case viewDetail:
		body = a.guardedBody(viewDetail, a.detail.View)
		help = " " + helpEntry("s", "favorite") + "  " + helpEntry("m", "map") + "  " + helpEntry("c", "copy") + "  " + helpEntry("r", "reload") + "  " + helpEntry("esc", "back")
	case viewFavorites:
		body = a.guardedBody(viewFavorites, a.favorites.View)
		help = " " + helpEntry("1-3", "tabs") + "  " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "details") + "  " + helpEntry("d", "remove") + "  " + helpEntry("q", "quit")
	case viewProfile:
		body = a.guardedBody(viewProfile, a.profile.View)
		help = " " + helpEntry("1-3", "tabs") + "  " + helpEntry("L", "sign out") + "  " + helpEntry("q", "quit")
	case viewSignin:
		body = a.signin.View()
		help = " " + helpEntry("tab", "next field") + "  " + helpEntry("ctrl+r", "mode") + "  " + helpEntry("enter", "submit") + "  " + helpEntry("esc", "cancel")
	}

	// Help overlay
	if a.helpOpen {
		body = helpView()
		help = " " + helpEntry("esc", "close")
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar.String(), body, help)
}

// guardedBody renders a guarded view's body, or the neutral verification
// placeholder while the startup session check is still in flight.
func (a App) guardedBody(v view, render func() string) string {
	if v.guarded() && a.session.Status() == session.StatusInitializing {
		return " " + dimStyle.Render("verifying session...")
	}
	return render()
}
