// Package browser opens URLs in the user's default web browser. Atlas has
// no in-terminal map rendering; country locations open on OpenStreetMap
// instead.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strconv"
)

// Open opens the specified URL in the user's default browser.
func Open(rawURL string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", rawURL).Start()
	case "linux":
		return exec.Command("xdg-open", rawURL).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL).Start()
	default:
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
}

// MapURL builds an OpenStreetMap URL centered on the given coordinates.
func MapURL(lat, lng float64) string {
	params := url.Values{}
	params.Set("mlat", strconv.FormatFloat(lat, 'f', 4, 64))
	params.Set("mlon", strconv.FormatFloat(lng, 'f', 4, 64))
	params.Set("zoom", "5")
	return "https://www.openstreetmap.org/?" + params.Encode()
}
