package videoid

import (
	"errors"
	"net/url"
	"strings"
)

// Well-known host aliases. Key: input host. Value: canonical domain.
var canonicalDomainByHost = map[string]string{
	"youtube.com":       "youtube.com",
	"www.youtube.com":   "youtube.com",
	"m.youtube.com":     "youtube.com",
	"music.youtube.com": "youtube.com",
	"youtu.be":          "youtube.com",
}

// ResolveCanonicalDomain returns the canonical domain for host.
//
// host should be a hostname without port.
func ResolveCanonicalDomain(host string) string {
	h := normalizeHost(host)
	if h == "" {
		return ""
	}
	if c, ok := canonicalDomainByHost[h]; ok {
		return c
	}
	return h
}

// ValidateURL checks that raw is an absolute http(s) URL with a host.
// yt-dlp supports many sites, so non-YouTube hosts are accepted.
func ValidateURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("missing url")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("url must start with http:// or https://")
	}
	if normalizeHost(u.Host) == "" {
		return errors.New("url has no host")
	}
	return nil
}

// IsYouTube reports whether raw points at a YouTube host.
func IsYouTube(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return ResolveCanonicalDomain(u.Host) == "youtube.com"
}

// ExtractPlaylistID returns the list= parameter of a YouTube URL.
func ExtractPlaylistID(urlStr string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil {
		return "", err
	}
	if ResolveCanonicalDomain(u.Host) != "youtube.com" {
		return "", errors.New("not a youtube url")
	}
	id := strings.TrimSpace(u.Query().Get("list"))
	if id == "" {
		return "", errors.New("playlist id not found")
	}
	return id, nil
}

func normalizeHost(hostport string) string {
	h := strings.TrimSpace(strings.ToLower(hostport))
	if h == "" {
		return ""
	}
	// url.URL.Host may include port.
	if strings.Contains(h, ":") {
		if parsed, err := url.Parse("//" + h); err == nil {
			if parsed.Hostname() != "" {
				h = parsed.Hostname()
			}
		}
	}
	h = strings.TrimSuffix(h, ".")
	return h
}

// ExtractYouTubeVideoID extracts the YouTube video ID from a URL.
// Returns empty string and error if not a valid YouTube URL or ID cannot be extracted.
func ExtractYouTubeVideoID(urlStr string) (string, error) {
	urlStr = strings.TrimSpace(urlStr)
	if urlStr == "" {
		return "", errors.New("empty url")
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return "", err
	}

	host := normalizeHost(u.Host)

	if host == "youtu.be" {
		id := firstPathSegment(u.Path)
		if id == "" {
			return "", errors.New("not a youtube url or video id not found")
		}
		return id, nil
	}

	if ResolveCanonicalDomain(host) == "youtube.com" {
		if q := u.Query().Get("v"); q != "" {
			return q, nil
		}
		for _, prefix := range []string{"/embed/", "/v/", "/shorts/", "/live/"} {
			if strings.HasPrefix(u.Path, prefix) {
				if id := firstPathSegment(strings.TrimPrefix(u.Path, prefix)); id != "" {
					return id, nil
				}
			}
		}
	}

	return "", errors.New("not a youtube url or video id not found")
}

func firstPathSegment(p string) string {
	p = strings.TrimSpace(p)
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		return ""
	}
	seg, _, _ := strings.Cut(p, "/")
	return strings.TrimSpace(seg)
}
