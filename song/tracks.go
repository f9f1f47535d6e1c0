package song

import (
	"github.com/openroll/songpipe/midifile"
	"github.com/openroll/songpipe/model"
	"gitlab.com/gomidi/midi/v2/gm"
)

// classifyTracks builds the track map keyed by source track index. A track
// with no notes still gets an entry.
func classifyTracks(f *midifile.File) model.Tracks {
	tracks := make(model.Tracks, len(f.Tracks))
	for i, track := range f.Tracks {
		// infer percussion soundfont for drums (channel 9)
		instrument := gm.Instr(track.Program).String()
		if track.Channel == midifile.PercussionChannel {
			instrument = "percussion"
		}
		tracks[i] = model.Track{
			Name:       track.Name,
			Instrument: instrument,
			Program:    track.Program,
		}
	}
	return tracks
}
