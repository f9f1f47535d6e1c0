package midifile

import (
	"bytes"
	"testing"

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

func TestDecodeBasicFile(t *testing.T) {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName("Piano"))
	tr.Add(0, smf.MetaTempo(100))
	tr.Add(0, smf.MetaMeter(3, 4))
	tr.Add(0, midi.ProgramChange(0, 5))
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(480, midi.NoteOff(0, 60))

	f, err := Decode(writeSMF(480, tr))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(480, f.PPQ)
	assert.Equal([]TempoEvent{{Tick: 0, Bpm: 100}}, f.Tempos)
	assert.Equal([]MeterEvent{{Tick: 0, Numerator: 3, Denominator: 4}}, f.Meters)
	assert.Equal(int64(480), f.DurationTicks)

	assert.Len(f.Tracks, 1)
	track := f.Tracks[0]
	assert.Equal("Piano", track.Name)
	assert.Equal(uint8(5), track.Program)
	assert.Equal(uint8(0), track.Channel)

	assert.Len(track.Notes, 1)
	note := track.Notes[0]
	assert.Equal(uint8(60), note.Key)
	assert.Equal(int64(0), note.Tick)
	assert.Equal(int64(480), note.DurationTicks)
	assert.InDelta(100.0/127, note.Velocity, 1e-9)
}

func TestDecodeInjectsDefaults(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 80))
	tr.Add(240, midi.NoteOff(0, 60))

	f, err := Decode(writeSMF(480, tr))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal([]TempoEvent{{Tick: 0, Bpm: 120}}, f.Tempos)
	assert.Equal([]MeterEvent{{Tick: 0, Numerator: 4, Denominator: 4}}, f.Meters)
}

func TestDecodeHangingNoteEndsAtTrackEnd(t *testing.T) {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 72, 90))
	tr.Add(960, midi.NoteOn(0, 40, 90))
	tr.Add(240, midi.NoteOff(0, 40))

	f, err := Decode(writeSMF(480, tr))

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(f.Tracks[0].Notes, 2)
	hanging := f.Tracks[0].Notes[0]
	assert.Equal(uint8(72), hanging.Key)
	assert.Equal(f.DurationTicks, hanging.Tick+hanging.DurationTicks)
}

func TestDecodeMalformedInput(t *testing.T) {
	_, err := Decode([]byte("definitely not midi"))
	assert.Error(t, err)
}

func TestDecodeEmptyInput(t *testing.T) {
	_, err := Decode(nil)
	assert.Error(t, err)
}
