// Package cookies finds a browser whose cookie store yt-dlp can read.
//
// The probe only checks that a browser profile exists on disk; it never opens
// or decrypts cookie databases. yt-dlp does that itself when handed
// --cookies-from-browser.
package cookies

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PreferenceOrder is the order in which browsers are tried.
var PreferenceOrder = []string{"safari", "chrome", "chromium", "firefox", "edge", "opera", "brave"}

// Disabled is the config value that turns browser cookies off.
const Disabled = "none"

// Prober looks for browser profiles on the local filesystem.
type Prober struct {
	GOOS         string
	Home         string
	LocalAppData string
	AppData      string

	// Forced, when set, skips probing. Disabled turns cookies off entirely.
	Forced string

	Logger *slog.Logger

	stat func(name string) (fs.FileInfo, error)
}

// NewProber returns a Prober for the current user and platform.
func NewProber(forced string) *Prober {
	home, _ := os.UserHomeDir()
	return &Prober{
		GOOS:         runtime.GOOS,
		Home:         home,
		LocalAppData: os.Getenv("LOCALAPPDATA"),
		AppData:      os.Getenv("APPDATA"),
		Forced:       forced,
		Logger:       slog.Default(),
		stat:         os.Stat,
	}
}

// Find returns the first browser in PreferenceOrder with a profile on disk.
// Absence of any browser is not an error.
func (p *Prober) Find() (string, bool) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	switch p.Forced {
	case "":
	case Disabled:
		logger.Debug("browser cookies disabled by configuration")
		return "", false
	default:
		if IsKnown(p.Forced) {
			return p.Forced, true
		}
		logger.Warn("ignoring unsupported cookie browser, probing instead", "browser", p.Forced)
	}

	stat := p.stat
	if stat == nil {
		stat = os.Stat
	}

	for _, browser := range PreferenceOrder {
		for _, dir := range p.profilePaths(browser) {
			if _, err := stat(dir); err == nil {
				logger.Debug("found browser profile", "browser", browser, "path", dir)
				return browser, true
			}
		}
	}

	logger.Debug("no browser profile found", "home", p.Home, "os", p.GOOS)
	return "", false
}

func (p *Prober) profilePaths(browser string) []string {
	if p.Home == "" && p.LocalAppData == "" && p.AppData == "" {
		return nil
	}

	home := func(parts ...string) string { return filepath.Join(append([]string{p.Home}, parts...)...) }
	local := func(parts ...string) string { return filepath.Join(append([]string{p.LocalAppData}, parts...)...) }
	roaming := func(parts ...string) string { return filepath.Join(append([]string{p.AppData}, parts...)...) }
	support := func(parts ...string) string {
		return filepath.Join(append([]string{p.Home, "Library", "Application Support"}, parts...)...)
	}

	switch p.GOOS {
	case "darwin":
		switch browser {
		case "safari":
			return []string{
				home("Library", "Containers", "com.apple.Safari", "Data", "Library", "Cookies", "Cookies.binarycookies"),
				home("Library", "Cookies", "Cookies.binarycookies"),
			}
		case "chrome":
			return []string{support("Google", "Chrome")}
		case "chromium":
			return []string{support("Chromium")}
		case "firefox":
			return []string{support("Firefox", "Profiles")}
		case "edge":
			return []string{support("Microsoft Edge")}
		case "opera":
			return []string{support("com.operasoftware.Opera")}
		case "brave":
			return []string{support("BraveSoftware", "Brave-Browser")}
		}
	case "windows":
		if p.LocalAppData == "" || p.AppData == "" {
			return nil
		}
		switch browser {
		case "chrome":
			return []string{local("Google", "Chrome", "User Data")}
		case "chromium":
			return []string{local("Chromium", "User Data")}
		case "firefox":
			return []string{roaming("Mozilla", "Firefox", "Profiles")}
		case "edge":
			return []string{local("Microsoft", "Edge", "User Data")}
		case "opera":
			return []string{roaming("Opera Software", "Opera Stable")}
		case "brave":
			return []string{local("BraveSoftware", "Brave-Browser", "User Data")}
		}
	default:
		switch browser {
		case "chrome":
			return []string{home(".config", "google-chrome")}
		case "chromium":
			return []string{home(".config", "chromium"), home("snap", "chromium", "common", "chromium")}
		case "firefox":
			return []string{home(".mozilla", "firefox"), home("snap", "firefox", "common", ".mozilla", "firefox")}
		case "edge":
			return []string{home(".config", "microsoft-edge")}
		case "opera":
			return []string{home(".config", "opera")}
		case "brave":
			return []string{home(".config", "BraveSoftware", "Brave-Browser")}
		}
	}
	return nil
}

// DisplayName returns a browser name for console output, e.g. "Firefox".
func DisplayName(browser string) string {
	return cases.Title(language.English).String(browser)
}

// IsKnown reports whether browser is one yt-dlp can read cookies from.
func IsKnown(browser string) bool {
	for _, b := range PreferenceOrder {
		if b == browser {
			return true
		}
	}
	return false
}
