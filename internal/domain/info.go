package domain

// VideoInfo is metadata returned by an info probe for one URL.
type VideoInfo struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Thumbnail     string  `json:"thumbnail,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	Channel       string  `json:"channel,omitempty"`
	Uploader      string  `json:"uploader,omitempty"`
	UploadDate    string  `json:"uploadDate,omitempty"`
	ViewCount     uint64  `json:"viewCount,omitempty"`
	Description   string  `json:"description,omitempty"`
	IsPlaylist    bool    `json:"isPlaylist"`
	PlaylistCount int     `json:"playlistCount,omitempty"`
}

// FormatOption is one downloadable stream variant reported by the probe.
type FormatOption struct {
	FormatID       string  `json:"formatId"`
	Ext            string  `json:"ext"`
	Resolution     string  `json:"resolution,omitempty"`
	Width          int     `json:"width,omitempty"`
	Height         int     `json:"height,omitempty"`
	VCodec         string  `json:"vcodec,omitempty"`
	ACodec         string  `json:"acodec,omitempty"`
	Filesize       int64   `json:"filesize,omitempty"`
	FilesizeApprox int64   `json:"filesizeApprox,omitempty"`
	TBR            float64 `json:"tbr,omitempty"`
	FormatNote     string  `json:"formatNote,omitempty"`
	FPS            float64 `json:"fps,omitempty"`
}

// VideoInfoResponse bundles probe metadata with available formats.
type VideoInfoResponse struct {
	Info    VideoInfo      `json:"info"`
	Formats []FormatOption `json:"formats"`
}

// PlaylistEntry is one flat playlist item.
type PlaylistEntry struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Thumbnail string  `json:"thumbnail,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	Channel   string  `json:"channel,omitempty"`
}

// SubtitleInfo describes one caption track advertised for a URL.
type SubtitleInfo struct {
	Lang   string `json:"lang"`
	Name   string `json:"name"`
	IsAuto bool   `json:"isAuto"`
}
