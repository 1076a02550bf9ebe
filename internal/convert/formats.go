package convert

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultFormats is the container allow-list offered by the picker.
var DefaultFormats = []string{"mp4", "mov", "avi", "mkv", "webm"}

var formatDescriptions = map[string]string{
	"mp4":  "MPEG-4, plays almost everywhere",
	"mov":  "QuickTime container",
	"avi":  "Legacy Windows container",
	"mkv":  "Matroska, holds any codec",
	"webm": "Web-friendly VP8/VP9 container",
}

// FormatPolicy decides which format tokens a request may carry.
type FormatPolicy struct {
	Allowed  []string
	AllowAny bool
}

// Permits reports whether format passes the policy. An empty allow-list
// falls back to DefaultFormats.
func (p FormatPolicy) Permits(format string) bool {
	format = NormalizeFormat(format)
	if format == "" {
		return false
	}
	if p.AllowAny {
		return true
	}
	allowed := p.Allowed
	if len(allowed) == 0 {
		allowed = DefaultFormats
	}
	return slices.Contains(allowed, format)
}

// NormalizeFormat lower-cases the token and strips a leading dot so ".MP4"
// and "mp4" name the same container.
func NormalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	return strings.TrimPrefix(format, ".")
}

// FormatLabel is the display name of a format, e.g. "MP4".
func FormatLabel(format string) string {
	return cases.Upper(language.Und).String(NormalizeFormat(format))
}

// FormatDescription returns a short human description, or "" for formats
// outside the built-in list.
func FormatDescription(format string) string {
	return formatDescriptions[NormalizeFormat(format)]
}

// Extensions returns the formats as dotted extensions for file pickers.
func Extensions(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if f = NormalizeFormat(f); f != "" {
			out = append(out, "."+f)
		}
	}
	return out
}
