package ytdlp

import (
	"regexp"
	"strconv"
	"strings"
)

// Update is the structured delta extracted from one output line. Zero
// fields mean the line carried no information for that rule; unrecognized
// lines yield an empty Update, never an error.
type Update struct {
	Percent       *float64
	Speed         string
	ETA           string
	PlaylistIndex int
	PlaylistCount int
	Title         string
}

// Empty reports whether no rule matched the line.
func (u Update) Empty() bool {
	return u.Percent == nil && u.PlaylistIndex == 0 && u.Title == ""
}

// The tool's human-readable output is a loose contract; every pattern
// tolerates arbitrary trailing text.
var (
	playlistItemRe = regexp.MustCompile(`\bitem (\d+) of (\d+)`)
	percentRe      = regexp.MustCompile(`(\d+(?:\.\d+)?)%`)
	speedRe        = regexp.MustCompile(`\bat\s+(\S+)`)
	etaRe          = regexp.MustCompile(`\bETA\s+(\S+)`)
)

// ParseLine classifies one line of downloader output. Pure function; rules
// are independent and a line may match more than one.
func ParseLine(line string) Update {
	var u Update

	if m := playlistItemRe.FindStringSubmatch(line); m != nil {
		index, errIndex := strconv.Atoi(m[1])
		count, errCount := strconv.Atoi(m[2])
		if errIndex == nil && errCount == nil && index > 0 && count > 0 {
			u.PlaylistIndex = index
			u.PlaylistCount = count
		}
	}

	if i := strings.Index(line, "Destination:"); i >= 0 {
		u.Title = titleFromPath(line[i+len("Destination:"):])
	}

	if strings.Contains(line, "%") {
		if m := percentRe.FindStringSubmatch(line); m != nil {
			if percent, err := strconv.ParseFloat(m[1], 64); err == nil && percent >= 0 && percent <= 100 {
				u.Percent = &percent
				if sm := speedRe.FindStringSubmatch(line); sm != nil {
					u.Speed = sm[1]
				}
				if em := etaRe.FindStringSubmatch(line); em != nil {
					u.ETA = em[1]
				}
			}
		}
	}

	return u
}

// titleFromPath extracts a display title from an announced output path:
// the file's base name without extension.
func titleFromPath(raw string) string {
	path := strings.TrimSpace(raw)
	if path == "" {
		return ""
	}

	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	if len(parts) == 0 {
		return ""
	}

	name := parts[len(parts)-1]
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}
