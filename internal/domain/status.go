package domain

// StatusReport is the shape returned by single and batch status queries.
// Manifest is the object key of the playable master playlist, set once the
// video is completed.
type StatusReport struct {
	VideoID     string    `json:"videoId,omitempty"`
	Status      JobStatus `json:"status"`
	Percentage  *int      `json:"percentage,omitempty"`
	Profiles    []string  `json:"profiles,omitempty"`
	HasPortrait *bool     `json:"has_portrait,omitempty"`
	Manifest    string    `json:"manifest,omitempty"`
	Error       string    `json:"error,omitempty"`
}

func (r StatusReport) IsTerminal() bool {
	return r.Status.IsTerminal()
}

// IsComplete treats "ready" the same as "completed".
func (r StatusReport) IsComplete() bool {
	return r.Status == JobStatusCompleted || r.Status == JobStatusReady
}

// BatchStatusRequest is the body of the batch status endpoint.
type BatchStatusRequest struct {
	VideoIDs []string `json:"videoIds"`
}

// MasterManifestPath is the object key of a video's legacy single-layout manifest.
func MasterManifestPath(videoID string) string {
	return ManifestPath(videoID, OrientationNone)
}

func ManifestPath(videoID string, o Orientation) string {
	return OutputPrefix(videoID, o) + "/manifest/master.m3u8"
}
