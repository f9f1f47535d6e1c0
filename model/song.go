package model

const (
	KindMeasure = "measure"
	KindNote    = "note"
)

// Item is one entry of a Song's merged timeline: either a Measure or a Note.
type Item interface {
	ItemTime() float64
}

type Measure struct {
	Kind     string  `json:"type"`
	Number   int     `json:"number"`
	Time     float64 `json:"time"`
	Duration float64 `json:"duration"`
}

func (m Measure) ItemTime() float64 {
	return m.Time
}

type Note struct {
	Kind     string  `json:"type"`
	Pitch    uint8   `json:"midiNote"`
	Track    int     `json:"track"`
	Time     float64 `json:"time"`
	Duration float64 `json:"duration"`
	Velocity int     `json:"velocity"`
	Measure  int     `json:"measure"`
}

func (n Note) ItemTime() float64 {
	return n.Time
}

// Bpm is a tempo change at an absolute time in seconds.
type Bpm struct {
	Time float64 `json:"time"`
	Bpm  float64 `json:"bpm"`
}

type Track struct {
	Name       string `json:"name"`
	Instrument string `json:"instrument"`
	Program    uint8  `json:"program"`
}

type Tracks = map[int]Track

type TimeSignature struct {
	Numerator   int `json:"numerator"`
	Denominator int `json:"denominator"`
}

// TickConverter converts between fractional ticks and wall-clock seconds
// under one tempo map.
type TickConverter interface {
	TicksToSeconds(ticks float64) float64
	SecondsToTicks(seconds float64) float64
}

// Song is the normalized, playback-ready timeline for one or more MIDI
// files. Measures and Notes are each sorted ascending by time. Items is the
// stable time-sorted interleaving of both; at equal timestamps measures
// come before notes (the measure boundary opens the bar its notes fall in).
type Song struct {
	Duration      float64       `json:"duration"`
	Measures      []Measure     `json:"measures"`
	Notes         []Note        `json:"notes"`
	Tracks        Tracks        `json:"tracks"`
	Bpms          []Bpm         `json:"bpms"`
	TimeSignature TimeSignature `json:"timeSignature"`
	KeySignature  string        `json:"keySignature,omitempty"`
	Items         []Item        `json:"items"`
	PPQ           int           `json:"ppq"`
	Timing        TickConverter `json:"-"`
}
