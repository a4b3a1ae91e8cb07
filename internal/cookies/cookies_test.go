package cookies

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFind_PrefersEarlierBrowser(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".mozilla", "firefox"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".config", "chromium"), 0o755))

	p := &Prober{GOOS: "linux", Home: home, stat: os.Stat}
	browser, ok := p.Find()
	require.True(t, ok)
	require.Equal(t, "chromium", browser)
}

func TestFind_NothingInstalled(t *testing.T) {
	p := &Prober{GOOS: "linux", Home: t.TempDir(), stat: os.Stat}
	browser, ok := p.Find()
	require.False(t, ok)
	require.Empty(t, browser)
}

func TestFind_SafariOnlyOnDarwin(t *testing.T) {
	var checked []string
	stat := func(name string) (fs.FileInfo, error) {
		checked = append(checked, name)
		if filepath.Base(name) == "Cookies.binarycookies" {
			return nil, nil
		}
		return nil, fs.ErrNotExist
	}

	p := &Prober{GOOS: "darwin", Home: "/Users/me", stat: stat}
	browser, ok := p.Find()
	require.True(t, ok)
	require.Equal(t, "safari", browser)

	checked = nil
	p.GOOS = "linux"
	_, ok = p.Find()
	require.False(t, ok)
	for _, c := range checked {
		require.NotContains(t, c, "binarycookies")
	}
}

func TestFind_Windows(t *testing.T) {
	stat := func(name string) (fs.FileInfo, error) {
		if name == filepath.Join("C:/Users/me/AppData/Roaming", "Mozilla", "Firefox", "Profiles") {
			return nil, nil
		}
		return nil, fs.ErrNotExist
	}
	p := &Prober{GOOS: "windows", Home: "C:/Users/me", LocalAppData: "C:/Users/me/AppData/Local", AppData: "C:/Users/me/AppData/Roaming", stat: stat}
	browser, ok := p.Find()
	require.True(t, ok)
	require.Equal(t, "firefox", browser)
}

func TestFind_ForcedAndDisabled(t *testing.T) {
	p := &Prober{GOOS: "linux", Home: t.TempDir(), Forced: "brave"}
	browser, ok := p.Find()
	require.True(t, ok)
	require.Equal(t, "brave", browser)

	p.Forced = Disabled
	_, ok = p.Find()
	require.False(t, ok)
}

func TestFind_UnknownForcedBrowserFallsBackToProbe(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, ".mozilla", "firefox"), 0o755))

	p := &Prober{GOOS: "linux", Home: home, Forced: "netscape"}
	browser, ok := p.Find()
	require.True(t, ok)
	require.Equal(t, "firefox", browser)

	p.Home = t.TempDir()
	_, ok = p.Find()
	require.False(t, ok)
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Chrome", DisplayName("chrome"))
	require.Equal(t, "Firefox", DisplayName("firefox"))
}

func TestIsKnown(t *testing.T) {
	require.True(t, IsKnown("edge"))
	require.False(t, IsKnown("netscape"))
}
