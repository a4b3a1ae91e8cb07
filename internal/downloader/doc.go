// Package downloader drives one ytfetch run: it plans each requested format,
// hands it to yt-dlp and reports the outcome on the console.
//
// Formats run strictly one after another. When both are requested the MP4
// flow finishes before the MP3 flow starts.
package downloader
