package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ImalAyodya/atlas/internal/session"
	"github.com/ImalAyodya/atlas/pkg/backend"
)

// newInitializingSession builds a session store whose startup check has not
// run yet.
func newInitializingSession(t *testing.T) (*session.Store, *backend.Client) {
	t.Helper()
	bc := backend.New("http://127.0.0.1:1", "", nil)
	s := session.New(bc, session.NewFileStore(filepath.Join(t.TempDir(), "token")), nil)
	return s, bc
}

func newTestApp(sess *session.Store, bc *backend.Client) App {
	a := NewApp(sess, nil, bc, "dev")
	model, _ := a.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return model.(App)
}

func pressKey(t *testing.T, a App, key string) (App, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	model, cmd := a.Update(msg)
	return model.(App), cmd
}

func TestGuardShowsPlaceholderWhileInitializing(t *testing.T) {
	sess, bc := newInitializingSession(t)
	a := newTestApp(sess, bc)

	a, _ = pressKey(t, a, "2")
	if a.view != viewFavorites {
		t.Fatalf("view = %v, want favorites", a.view)
	}
	if !strings.Contains(a.View(), "verifying session") {
		t.Errorf("expected verification placeholder, got:\n%s", a.View())
	}
}

func TestGuardRedirectsSignedOut(t *testing.T) {
	sess, bc := newTestSession(t, false)
	a := newTestApp(sess, bc)

	a, _ = pressKey(t, a, "2")
	if a.view != viewSignin {
		t.Fatalf("view = %v, want signin", a.view)
	}
	if a.returnTo != viewFavorites {
		t.Errorf("returnTo = %v, want favorites", a.returnTo)
	}
	if !strings.Contains(a.View(), "SIGN IN") {
		t.Errorf("expected sign-in form, got:\n%s", a.View())
	}
}

func TestGuardAllowsSignedIn(t *testing.T) {
	sess, bc := newTestSession(t, true)
	a := newTestApp(sess, bc)

	a, cmd := pressKey(t, a, "2")
	if a.view != viewFavorites {
		t.Fatalf("view = %v, want favorites", a.view)
	}
	if cmd == nil {
		t.Error("expected favorites load command for a signed-in user")
	}
}

func TestGuardResolvesAfterStartupCheck(t *testing.T) {
	sess, bc := newInitializingSession(t)
	a := newTestApp(sess, bc)
	a, _ = pressKey(t, a, "3")

	// The startup check resolves to signed out while the user is parked on
	// a guarded view: the gate must kick in now.
	sess.Logout()
	model, _ := a.Update(sessionReadyMsg{status: session.StatusUnauthenticated})
	a = model.(App)

	if a.view != viewSignin {
		t.Fatalf("view = %v after startup check, want signin", a.view)
	}
	if a.returnTo != viewProfile {
		t.Errorf("returnTo = %v, want profile", a.returnTo)
	}
}

func TestSigninSuccessReturnsToDestination(t *testing.T) {
	sess, bc := newTestSession(t, false)
	a := newTestApp(sess, bc)
	a, _ = pressKey(t, a, "2") // bounced to sign-in, returnTo=favorites

	// The form's submit command signs the session in before the result
	// message reaches the app.
	if res := sess.Login(context.Background(), "ada@example.com", "secret"); !res.OK {
		t.Fatalf("test login failed: %s", res.Error)
	}
	model, cmd := a.Update(signinResultMsg{result: session.Result{OK: true}})
	a = model.(App)

	if a.view != viewFavorites {
		t.Fatalf("view = %v after sign-in, want favorites", a.view)
	}
	if cmd == nil {
		t.Error("expected favorites load command after sign-in")
	}
}

func TestSessionExpiredForcesSignin(t *testing.T) {
	sess, bc := newTestSession(t, true)
	a := newTestApp(sess, bc)
	a, _ = pressKey(t, a, "2")

	model, _ := a.Update(sessionExpiredMsg{})
	a = model.(App)

	if a.view != viewSignin {
		t.Fatalf("view = %v, want signin", a.view)
	}
	if sess.Status() != session.StatusUnauthenticated {
		t.Error("expected session logged out after expiry")
	}
	if !strings.Contains(a.View(), "session expired") {
		t.Errorf("expected expiry notice, got:\n%s", a.View())
	}
	if a.returnTo != viewFavorites {
		t.Errorf("returnTo = %v, want favorites", a.returnTo)
	}
}

func TestShowDetailRouting(t *testing.T) {
	sess, bc := newTestSession(t, false)
	a := newTestApp(sess, bc)

	model, _ := a.Update(showDetailMsg{code: "JPN"})
	a = model.(App)
	if a.view != viewDetail {
		t.Fatalf("view = %v, want detail", a.view)
	}
	if a.detailReturn != viewCountries {
		t.Errorf("detailReturn = %v, want countries", a.detailReturn)
	}

	a, _ = pressKey(t, a, "esc")
	if a.view != viewCountries {
		t.Errorf("view = %v after esc, want countries", a.view)
	}
}

func TestRequestSigninFromDetail(t *testing.T) {
	sess, bc := newTestSession(t, false)
	a := newTestApp(sess, bc)
	model, _ := a.Update(showDetailMsg{code: "JPN"})
	a = model.(App)

	model, _ = a.Update(requestSigninMsg{})
	a = model.(App)
	if a.view != viewSignin {
		t.Fatalf("view = %v, want signin", a.view)
	}
	if a.returnTo != viewDetail {
		t.Errorf("returnTo = %v, want detail", a.returnTo)
	}
	if !strings.Contains(a.View(), "sign in to save favorites") {
		t.Errorf("expected favorites hint, got:\n%s", a.View())
	}
}

func TestHelpOverlay(t *testing.T) {
	sess, bc := newTestSession(t, false)
	a := newTestApp(sess, bc)

	a, _ = pressKey(t, a, "h")
	if !a.helpOpen {
		t.Fatal("expected help overlay open after h")
	}
	if !strings.Contains(a.View(), "Commands") {
		t.Errorf("expected help content, got:\n%s", a.View())
	}

	a, _ = pressKey(t, a, "esc")
	if a.helpOpen {
		t.Error("expected help overlay closed after esc")
	}
}

func TestQuitKey(t *testing.T) {
	sess, bc := newTestSession(t, false)
	a := newTestApp(sess, bc)

	_, cmd := pressKey(t, a, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", cmd())
	}
}

func TestLogoutFromProfile(t *testing.T) {
	sess, bc := newTestSession(t, true)
	a := newTestApp(sess, bc)
	a, _ = pressKey(t, a, "3")

	a, _ = pressKey(t, a, "L")
	if a.view != viewCountries {
		t.Fatalf("view = %v after sign-out, want countries", a.view)
	}
	if sess.Status() != session.StatusUnauthenticated {
		t.Error("expected session signed out")
	}
}

func TestGuardedViewsKeepWindowSize(t *testing.T) {
	sess, bc := newTestSession(t, true)
	a := newTestApp(sess, bc)

	// Opening a guarded tab rebuilds its model; the geometry from the last
	// WindowSizeMsg must survive or the view renders at minimum width.
	a, _ = pressKey(t, a, "2")
	if a.favorites.width != 80 || a.favorites.height != 26 {
		t.Errorf("favorites geometry = %dx%d after opening, want 80x26",
			a.favorites.width, a.favorites.height)
	}

	a, _ = pressKey(t, a, "3")
	if a.profile.width != 80 || a.profile.height != 26 {
		t.Errorf("profile geometry = %dx%d after opening, want 80x26",
			a.profile.width, a.profile.height)
	}
}

func TestGuardFreshVisitClearsOldNotice(t *testing.T) {
	sess, bc := newTestSession(t, true)
	a := newTestApp(sess, bc)
	a, _ = pressKey(t, a, "2")

	model, _ := a.Update(sessionExpiredMsg{})
	a = model.(App)
	if !strings.Contains(a.View(), "session expired") {
		t.Fatalf("expected expiry notice, got:\n%s", a.View())
	}

	// Leaving and coming back to a guarded view is a new visit; the old
	// expiry notice must not resurface on it.
	a, _ = pressKey(t, a, "esc")
	a, _ = pressKey(t, a, "2")
	if a.view != viewSignin {
		t.Fatalf("view = %v, want signin", a.view)
	}
	if strings.Contains(a.View(), "session expired") {
		t.Errorf("stale expiry notice shown on a fresh visit:\n%s", a.View())
	}
}

func TestVersionNotice(t *testing.T) {
	sess, bc := newTestSession(t, false)
	a := newTestApp(sess, bc)

	model, _ := a.Update(versionCheckMsg{latestVersion: "1.2.0", hasUpdate: true})
	a = model.(App)
	if !strings.Contains(a.View(), "update available: 1.2.0") {
		t.Errorf("expected update notice, got:\n%s", a.View())
	}
}
