package song

import (
	"bytes"
	"testing"

	"github.com/openroll/songpipe/model"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func writeSMF(ppq uint16, tracks ...smf.Track) []byte {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ppq)
	for _, tr := range tracks {
		tr.Close(0)
		s.Add(tr)
	}
	var buf bytes.Buffer
	s.WriteTo(&buf)
	return buf.Bytes()
}

func twoTrackFile() []byte {
	var piano smf.Track
	piano.Add(0, smf.MetaTrackSequenceName("Piano"))
	piano.Add(0, smf.MetaTempo(120))
	piano.Add(0, smf.MetaMeter(4, 4))
	piano.Add(0, midi.NoteOn(0, 60, 100))
	piano.Add(480, midi.NoteOff(0, 60))
	piano.Add(0, midi.NoteOn(0, 64, 90))
	piano.Add(480, midi.NoteOff(0, 64))

	var drums smf.Track
	drums.Add(0, smf.MetaTrackSequenceName("Drums"))
	drums.Add(0, midi.NoteOn(9, 36, 110))
	drums.Add(240, midi.NoteOff(9, 36))

	return writeSMF(480, piano, drums)
}

func TestParseTwoTrackFile(t *testing.T) {
	s, err := Parse(twoTrackFile())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(480, s.PPQ)
	assert.Equal(model.TimeSignature{Numerator: 4, Denominator: 4}, s.TimeSignature)

	// two active tracks, so no hand split happened
	assert.Len(s.Tracks, 2)
	assert.Equal("Piano", s.Tracks[0].Name)
	assert.Equal("percussion", s.Tracks[1].Instrument)

	assert.Len(s.Notes, 3)
	for _, n := range s.Notes {
		assert.Contains(s.Tracks, n.Track)
		assert.GreaterOrEqual(n.Velocity, 0)
		assert.LessOrEqual(n.Velocity, 127)
	}
}

func TestParseSortsNotesAndMeasures(t *testing.T) {
	s, err := Parse(twoTrackFile())

	assert := assert.New(t)
	assert.NoError(err)
	for i := 1; i < len(s.Notes); i++ {
		assert.LessOrEqual(s.Notes[i-1].Time, s.Notes[i].Time)
	}
	for i := 1; i < len(s.Measures); i++ {
		assert.LessOrEqual(s.Measures[i-1].Time, s.Measures[i].Time)
		assert.Equal(s.Measures[i-1].Number+1, s.Measures[i].Number)
	}
	assert.Equal(1, s.Measures[0].Number)
}

func TestParseVelocityScaling(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 127))
	tr.Add(120, midi.NoteOff(0, 60))
	tr.Add(0, midi.NoteOn(0, 62, 1))
	tr.Add(120, midi.NoteOff(0, 62))

	s, err := Parse(writeSMF(480, tr))

	assert := assert.New(t)
	assert.NoError(err)
	velocities := map[uint8]int{}
	for _, n := range s.Notes {
		velocities[n.Pitch] = n.Velocity
	}
	assert.Equal(127, velocities[60])
	assert.Equal(1, velocities[62])
}

func TestParseSingleTrackGetsHandSplit(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 40, 100))
	tr.Add(480, midi.NoteOff(0, 40))
	tr.Add(0, midi.NoteOn(0, 80, 100))
	tr.Add(480, midi.NoteOff(0, 80))

	s, err := Parse(writeSMF(480, tr))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(s.Tracks, 2)
	assert.Equal("Left Hand (Auto-Split)", s.Tracks[1].Name)

	byPitch := map[uint8]int{}
	for _, n := range s.Notes {
		byPitch[n.Pitch] = n.Track
	}
	assert.Equal(1, byPitch[40])
	assert.Equal(0, byPitch[80])
}

func TestParseItemsMeasureBeforeNoteAtSameTime(t *testing.T) {
	s, err := Parse(twoTrackFile())

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(s.Items, len(s.Measures)+len(s.Notes))

	// both the first measure and the first note start at 0; the measure
	// wins the tie
	_, ok := s.Items[0].(model.Measure)
	assert.True(ok)

	for i := 1; i < len(s.Items); i++ {
		assert.LessOrEqual(s.Items[i-1].ItemTime(), s.Items[i].ItemTime())
	}
}

func TestParseDefaultsWithoutMeterOrTempo(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 64))
	tr.Add(480, midi.NoteOff(0, 60))

	s, err := Parse(writeSMF(480, tr))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(model.TimeSignature{Numerator: 4, Denominator: 4}, s.TimeSignature)
	assert.Empty(s.KeySignature)
	assert.Len(s.Bpms, 1)
	assert.InDelta(120.0, s.Bpms[0].Bpm, 1e-9)
}

func TestParseTrackWithoutNotesStillListed(t *testing.T) {
	var meta smf.Track
	meta.Add(0, smf.MetaTrackSequenceName("Conductor"))
	meta.Add(0, smf.MetaTempo(90))

	var piano smf.Track
	piano.Add(0, midi.NoteOn(0, 60, 100))
	piano.Add(480, midi.NoteOff(0, 60))

	var violins smf.Track
	violins.Add(0, midi.NoteOn(1, 65, 100))
	violins.Add(480, midi.NoteOff(1, 65))

	s, err := Parse(writeSMF(480, meta, piano, violins))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Contains(s.Tracks, 0)
	assert.Equal("Conductor", s.Tracks[0].Name)
}
