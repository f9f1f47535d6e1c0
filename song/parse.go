package song

import (
	"sort"

	"github.com/openroll/songpipe/midifile"
	"github.com/openroll/songpipe/model"
)

// Parse decodes raw MIDI bytes and normalizes them into a playback-ready
// Song.
func Parse(data []byte) (*model.Song, error) {
	f, err := midifile.Decode(data)
	if err != nil {
		return nil, err
	}
	return FromFile(f), nil
}

// FromFile assembles a Song from an already decoded file. It composes the
// segmenter, normalizer, classifier and hand-splitter outputs without
// mutating the decoded file.
func FromFile(f *midifile.File) *model.Song {
	bpms := make([]model.Bpm, 0, len(f.Tempos))
	for _, ev := range f.Tempos {
		bpms = append(bpms, model.Bpm{
			Time: f.Timing.TicksToSeconds(float64(ev.Tick)),
			Bpm:  ev.Bpm,
		})
	}

	notes := normalizeNotes(f)
	tracks := classifyTracks(f)
	splitHands(notes, tracks)
	measures := buildMeasures(f)

	sig := model.TimeSignature{Numerator: 4, Denominator: 4}
	if len(f.Meters) > 0 {
		sig = model.TimeSignature{
			Numerator:   f.Meters[0].Numerator,
			Denominator: f.Meters[0].Denominator,
		}
	}
	var key string
	if len(f.Keys) > 0 {
		key = f.Keys[0].Name
	}

	return &model.Song{
		Duration:      f.Duration(),
		Measures:      measures,
		Notes:         notes,
		Tracks:        tracks,
		Bpms:          bpms,
		TimeSignature: sig,
		KeySignature:  key,
		Items:         Items(measures, notes),
		PPQ:           f.PPQ,
		Timing:        f.Timing,
	}
}

// Items interleaves measures and notes into one time-sorted sequence. The
// merge is stable with measures appended first, so at equal timestamps a
// measure precedes the notes starting on it.
func Items(measures []model.Measure, notes []model.Note) []model.Item {
	items := make([]model.Item, 0, len(measures)+len(notes))
	for _, m := range measures {
		items = append(items, m)
	}
	for _, n := range notes {
		items = append(items, n)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ItemTime() < items[j].ItemTime()
	})
	return items
}
