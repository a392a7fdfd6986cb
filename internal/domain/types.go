package domain

// Quality selects the maximum video height for a download, or audio-only.
type Quality string

const (
	QualityAudio Quality = "audio"
	Quality360p  Quality = "360"
	Quality480p  Quality = "480"
	Quality720p  Quality = "720"
	Quality1080p Quality = "1080"
	Quality1440p Quality = "1440"
	Quality2160p Quality = "2160"
)

// DownloadStatus is the lifecycle status carried by progress events.
type DownloadStatus string

const (
	StatusDownloading DownloadStatus = "downloading"
	StatusFinished    DownloadStatus = "finished"
	StatusCancelled   DownloadStatus = "cancelled"
	StatusFailed      DownloadStatus = "failed"
)

// IsTerminal reports whether a status ends the download lifecycle.
func (s DownloadStatus) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled || s == StatusFailed
}

// DownloadRequest describes one download job. Immutable once submitted.
type DownloadRequest struct {
	ID               string  `json:"id"`
	URL              string  `json:"url"`
	OutputDir        string  `json:"outputDir"`
	Quality          Quality `json:"quality"`
	Format           string  `json:"format"`
	DownloadPlaylist bool    `json:"downloadPlaylist"`
}

// DownloadProgress is one progress event tied to a request by its ID.
// Percent, Speed, ETA, Title, and playlist counters are sticky: fields a
// given output line did not update keep their last known value.
type DownloadProgress struct {
	ID            string         `json:"id"`
	Percent       float64        `json:"percent"`
	Speed         string         `json:"speed"`
	ETA           string         `json:"eta"`
	Status        DownloadStatus `json:"status"`
	Title         string         `json:"title,omitempty"`
	PlaylistIndex int            `json:"playlistIndex,omitempty"`
	PlaylistCount int            `json:"playlistCount,omitempty"`
}

// Settings contains user-selectable download configuration.
type Settings struct {
	DownloadDir      string  `json:"downloadDir"`
	Quality          Quality `json:"quality"`
	Format           string  `json:"format"`
	DownloadPlaylist bool    `json:"downloadPlaylist"`
}

// TranscriptSource tags where a transcript was obtained from.
type TranscriptSource string

const (
	SourceSubtitle    TranscriptSource = "subtitle"
	SourceAutoCaption TranscriptSource = "auto-caption"
	SourceDescription TranscriptSource = "description-fallback"
)

// Transcript is plain spoken text plus its provenance.
type Transcript struct {
	Text   string           `json:"text"`
	Source TranscriptSource `json:"source"`
}
