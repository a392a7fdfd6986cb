package transcript

import (
	"regexp"
	"strings"
)

// Inline bracket-tag markup such as <i> or <00:00:01.240>.
var captionTagRe = regexp.MustCompile(`<[^>]+>`)

// ParseCaptions converts caption markup in either the dotted-timestamp
// dialect (with optional header) or the comma-timestamp dialect (with
// numeric cue ids) into plain spoken text. Pure function, best effort:
// malformed input never fails, total failure yields an empty string.
//
// Consecutive duplicate lines are collapsed; overlapping caption windows
// repeat their text and would otherwise double every sentence.
func ParseCaptions(content string) string {
	var texts []string

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "WEBVTT") || strings.HasPrefix(line, "NOTE") ||
			strings.HasPrefix(line, "Kind:") || strings.HasPrefix(line, "Language:") {
			continue
		}
		if strings.Contains(line, "-->") {
			continue
		}
		if isNumericCue(line) {
			continue
		}
		if strings.HasPrefix(line, "align:") || strings.HasPrefix(line, "position:") ||
			strings.Contains(line, "::") {
			continue
		}

		clean := strings.TrimSpace(captionTagRe.ReplaceAllString(line, ""))
		if clean == "" {
			continue
		}
		if len(texts) > 0 && texts[len(texts)-1] == clean {
			continue
		}
		texts = append(texts, clean)
	}

	return strings.Join(texts, " ")
}

// isNumericCue reports whether a line is purely a numeric cue identifier.
func isNumericCue(line string) bool {
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
