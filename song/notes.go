package song

import (
	"math"
	"sort"

	"github.com/openroll/songpipe/midifile"
	"github.com/openroll/songpipe/model"
)

// normalizeNotes flattens per-track note events into absolute-time notes.
// The measure index is floor(ticksToMeasures(onset)), computed from the
// tempo map independently of the generated measure list.
func normalizeNotes(f *midifile.File) []model.Note {
	var notes []model.Note
	for i, track := range f.Tracks {
		for _, ev := range track.Notes {
			start := f.Timing.TicksToSeconds(float64(ev.Tick))
			end := f.Timing.TicksToSeconds(float64(ev.Tick + ev.DurationTicks))
			notes = append(notes, model.Note{
				Kind:     model.KindNote,
				Pitch:    ev.Key,
				Track:    i,
				Time:     start,
				Duration: end - start,
				Velocity: int(math.Round(ev.Velocity * 127)),
				Measure:  int(math.Floor(f.Timing.TicksToMeasures(float64(ev.Tick)))),
			})
		}
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Time < notes[j].Time
	})
	return notes
}
