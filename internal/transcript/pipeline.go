package transcript

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"youwee/internal/domain"
	"youwee/internal/ytdlp"
)

// ErrNoTranscript is returned when every acquisition strategy has been
// exhausted. Callers may proceed without a summary.
var ErrNoTranscript = errors.New(
	"no transcript available for this video; it may not have subtitles or auto-generated captions",
)

const (
	// A caption track is usable when it yields more than this many
	// whitespace-separated tokens.
	minTranscriptTokens = 10
	// Minimum length for the description fallback to be worth returning.
	minDescriptionLen = 100
)

// commander abstracts buffered tool execution for testability.
type commander interface {
	Output(ctx context.Context, args ...string) (string, error)
}

// Pipeline acquires a transcript for a URL: human-authored captions
// first, then auto-generated captions, then the item description. Caption
// files are staged in a temporary directory that is removed on every exit
// path.
type Pipeline struct {
	run       commander
	mkdirTemp func(dir, pattern string) (string, error)
	removeAll func(path string) error
	readDir   func(name string) ([]os.DirEntry, error)
	readFile  func(name string) ([]byte, error)
}

// NewPipeline constructs the production pipeline with OS dependencies.
func NewPipeline(runner *ytdlp.Runner) *Pipeline {
	return &Pipeline{
		run:       runner,
		mkdirTemp: os.MkdirTemp,
		removeAll: os.RemoveAll,
		readDir:   os.ReadDir,
		readFile:  os.ReadFile,
	}
}

// NewPipelineForTests constructs a pipeline with injectable dependencies.
func NewPipelineForTests(
	run commander,
	mkdirTemp func(dir, pattern string) (string, error),
	removeAll func(path string) error,
	readDir func(name string) ([]os.DirEntry, error),
	readFile func(name string) ([]byte, error),
) *Pipeline {
	return &Pipeline{
		run:       run,
		mkdirTemp: mkdirTemp,
		removeAll: removeAll,
		readDir:   readDir,
		readFile:  readFile,
	}
}

// Fetch runs the acquisition strategies in order and returns the first
// usable transcript with its provenance.
func (p *Pipeline) Fetch(ctx context.Context, url string) (domain.Transcript, error) {
	attempts := []struct {
		auto   bool
		source domain.TranscriptSource
	}{
		{auto: false, source: domain.SourceSubtitle},
		{auto: true, source: domain.SourceAutoCaption},
	}

	for _, attempt := range attempts {
		if text := p.fetchCaptions(ctx, url, attempt.auto); text != "" {
			return domain.Transcript{Text: text, Source: attempt.source}, nil
		}
	}

	if desc := p.fetchDescription(ctx, url); desc != "" {
		return domain.Transcript{
			Text:   "[Video Description]\n" + desc,
			Source: domain.SourceDescription,
		}, nil
	}

	return domain.Transcript{}, ErrNoTranscript
}

// fetchCaptions downloads caption files into a private temporary location
// and parses candidates in preference order until one yields usable text.
// Tool and parse failures are absorbed; an empty string means "no usable
// captions via this strategy".
func (p *Pipeline) fetchCaptions(ctx context.Context, url string, auto bool) string {
	tempDir, err := p.mkdirTemp("", "youwee-subs-*")
	if err != nil {
		return ""
	}
	defer func() {
		_ = p.removeAll(tempDir)
	}()

	template := filepath.Join(tempDir, "transcript")
	// The tool can exit nonzero after writing usable caption files, so its
	// status is ignored; what matters is what landed on disk.
	_, _ = p.run.Output(ctx, ytdlp.SubtitleArgs(url, template, auto)...)

	files := p.captionFiles(tempDir)
	rankCaptionFiles(files)

	for _, file := range files {
		data, err := p.readFile(file)
		if err != nil {
			continue
		}
		text := ParseCaptions(string(data))
		if len(strings.Fields(text)) > minTranscriptTokens {
			return text
		}
	}
	return ""
}

// fetchDescription asks the tool for the item's descriptive metadata.
func (p *Pipeline) fetchDescription(ctx context.Context, url string) string {
	out, err := p.run.Output(ctx, ytdlp.DescriptionArgs(url)...)
	if err != nil {
		return ""
	}
	desc := strings.TrimSpace(out)
	if len(desc) <= minDescriptionLen {
		return ""
	}
	return desc
}

// captionFiles lists produced caption artifacts in the staging directory.
func (p *Pipeline) captionFiles(dir string) []string {
	entries, err := p.readDir(dir)
	if err != nil {
		return nil
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".vtt", ".srt":
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files
}

// rankCaptionFiles orders candidates: English tracks first, shorter file
// names next. Shorter names tending to mean manually authored tracks is a
// heuristic, nothing stronger.
func rankCaptionFiles(files []string) {
	sort.SliceStable(files, func(i, j int) bool {
		a := filepath.Base(files[i])
		b := filepath.Base(files[j])

		aEnglish := isEnglishTrack(a)
		bEnglish := isEnglishTrack(b)
		if aEnglish != bEnglish {
			return aEnglish
		}
		return len(a) < len(b)
	})
}

// isEnglishTrack matches the conventional language suffix in caption
// file names.
func isEnglishTrack(name string) bool {
	return strings.Contains(name, ".en.") || strings.Contains(name, ".en-")
}
