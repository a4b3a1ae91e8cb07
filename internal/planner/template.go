package planner

import (
	"path/filepath"
	"strings"
)

// yt-dlp output template fields.
const (
	FieldPlaylist      = "%(playlist)s"
	FieldPlaylistIndex = "%(playlist_index)s"
	FieldTitle         = "%(title)s"
	FieldExt           = "%(ext)s"
)

// PathTemplate is a yt-dlp output template.
type PathTemplate string

func (t PathTemplate) String() string { return string(t) }

// HasPlaylistFields reports whether the template references the playlist name or index.
func (t PathTemplate) HasPlaylistFields() bool {
	s := string(t)
	return strings.Contains(s, FieldPlaylist) || strings.Contains(s, FieldPlaylistIndex)
}

// BuildTemplate chooses the output template.
//
// Playlists with subfolders enabled land in <root>/<playlist>/<index> - <title>.<ext>;
// everything else lands in <root>/<title>.<ext>. A literal % in root is
// escaped so yt-dlp does not read it as a template field.
func BuildTemplate(outputRoot string, info PlaylistInfo, createSubfolder bool) PathTemplate {
	root := strings.ReplaceAll(outputRoot, "%", "%%")
	if info.IsPlaylist && createSubfolder {
		return PathTemplate(filepath.Join(root, FieldPlaylist, FieldPlaylistIndex+" - "+FieldTitle+"."+FieldExt))
	}
	return PathTemplate(filepath.Join(root, FieldTitle+"."+FieldExt))
}
