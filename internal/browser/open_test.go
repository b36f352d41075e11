package browser

import "testing"

func TestMapURL(t *testing.T) {
	got := MapURL(36.0, 138.0)
	want := "https://www.openstreetmap.org/?mlat=36.0000&mlon=138.0000&zoom=5"
	if got != want {
		t.Errorf("MapURL(36, 138) = %q, want %q", got, want)
	}
}

func TestMapURLNegativeCoordinates(t *testing.T) {
	got := MapURL(-41.2924, 174.7787)
	want := "https://www.openstreetmap.org/?mlat=-41.2924&mlon=174.7787&zoom=5"
	if got != want {
		t.Errorf("MapURL = %q, want %q", got, want)
	}
}
