// Package planner decides what a download run fetches and where it lands.
//
// It classifies a URL as a single video or a playlist, chooses the yt-dlp
// output template from that classification and the subfolder policy, and
// carries the user's playlist item selector through to yt-dlp unchanged.
package planner
