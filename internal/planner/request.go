package planner

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Format is the requested output format.
type Format string

const (
	FormatMP4  Format = "mp4"
	FormatMP3  Format = "mp3"
	FormatBoth Format = "both"
)

// ParseFormat parses a --format value (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatMP4, FormatMP3, FormatBoth:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want mp4, mp3 or both)", s)
	}
}

// Flows returns the single-format flows to run, in order. Both means MP4 first,
// then MP3.
func (f Format) Flows() []Format {
	switch f {
	case FormatBoth:
		return []Format{FormatMP4, FormatMP3}
	case FormatMP4, FormatMP3:
		return []Format{f}
	default:
		return nil
	}
}

func (f Format) String() string { return string(f) }

// DownloadRequest is what the user asked for on the command line.
type DownloadRequest struct {
	URL             string `validate:"required,url"`
	Format          Format `validate:"required,oneof=mp4 mp3 both"`
	OutputRoot      string `validate:"required"`
	ItemSelector    string
	CreateSubfolder bool
}

var validate = validator.New()

// NewDownloadRequest builds and validates a request.
func NewDownloadRequest(url string, format Format, outputRoot, itemSelector string, createSubfolder bool) (DownloadRequest, error) {
	req := DownloadRequest{
		URL:             strings.TrimSpace(url),
		Format:          format,
		OutputRoot:      outputRoot,
		ItemSelector:    NormalizeSelector(itemSelector),
		CreateSubfolder: createSubfolder,
	}
	if err := validate.Struct(req); err != nil {
		return DownloadRequest{}, fmt.Errorf("invalid request: %w", err)
	}
	return req, nil
}
