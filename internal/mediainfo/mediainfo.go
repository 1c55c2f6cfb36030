// Package mediainfo recovers stream metadata from the unstructured
// diagnostic text the engine prints while inspecting an input.
package mediainfo

import (
	"regexp"
	"strconv"
)

// Info is the metadata recoverable from one probing invocation's log text.
// Numeric fields are zero when their pattern is absent; the Has* flags tell
// a genuine zero apart from a pattern miss.
type Info struct {
	Duration float64 // seconds
	Width    int     // pixels
	Height   int     // pixels
	FPS      float64

	HasDuration    bool
	HasVideoStream bool
}

var (
	// "Duration: 00:01:30.50, start: 0.000000, bitrate: 1205 kb/s"
	durationRe = regexp.MustCompile(`Duration:\s*(\d{2}):(\d{2}):(\d{2}(?:\.\d+)?)`)

	// "Stream #0:0: Video: h264 (High), yuv420p, 1920x1080 [SAR 1:1], 29.97 fps, ..."
	// Dimensions need at least two digits per side so stream ids like
	// [0x1ed] never match.
	videoRe = regexp.MustCompile(`Video:.*?(\d{2,5})x(\d{2,5}).*?(\d+(?:\.\d+)?)\s*fps`)

	clockRe = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2}(?:\.\d+)?)`)
)

// Parse scans accumulated log text for the duration and video stream lines.
// Missing patterns are not errors; the corresponding fields stay zero.
func Parse(logText string) Info {
	var info Info

	if m := durationRe.FindStringSubmatch(logText); m != nil {
		info.Duration = clockSeconds(m[1], m[2], m[3])
		info.HasDuration = true
	}

	if m := videoRe.FindStringSubmatch(logText); m != nil {
		info.Width, _ = strconv.Atoi(m[1])
		info.Height, _ = strconv.Atoi(m[2])
		info.FPS, _ = strconv.ParseFloat(m[3], 64)
		info.HasVideoStream = true
	}

	return info
}

// ParseClock extracts the first HH:MM:SS.ss timestamp in s as seconds.
func ParseClock(s string) (float64, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	return clockSeconds(m[1], m[2], m[3]), true
}

func clockSeconds(hh, mm, ss string) float64 {
	h, _ := strconv.Atoi(hh)
	m, _ := strconv.Atoi(mm)
	s, _ := strconv.ParseFloat(ss, 64)
	return float64(h*3600+m*60) + s
}
