package model

const (
	SourceUpload = "upload"
	SourceLocal  = "local"
)

// SongMetadata is the persisted catalog entry for a Song. File references
// the stored Song by id, not the raw MIDI bytes.
type SongMetadata struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	File       string  `json:"file"`
	Source     string  `json:"source"`
	Difficulty int     `json:"difficulty"`
	Duration   float64 `json:"duration"`
}
