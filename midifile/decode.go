package midifile

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// PercussionChannel is the General-MIDI channel reserved for drum kits
// (0-based).
const PercussionChannel = 9

type TempoEvent struct {
	Tick int64
	Bpm  float64
}

type MeterEvent struct {
	Tick        int64
	Numerator   int
	Denominator int
}

type KeyEvent struct {
	Tick int64
	Name string
}

type NoteEvent struct {
	Key           uint8
	Velocity      float64 // fraction of full velocity, 0..1
	Tick          int64
	DurationTicks int64
}

type TrackInfo struct {
	Name    string
	Channel uint8
	Program uint8
	Notes   []NoteEvent
}

// File is a decoded MIDI file reduced to the events the normalization
// pipeline needs, with all positions as absolute ticks. Tempos and Meters
// always contain an event at tick 0 (120 BPM / 4/4 defaults are injected
// when the file carries none) and never two events at the same tick.
type File struct {
	PPQ           int
	DurationTicks int64
	Tempos        []TempoEvent
	Meters        []MeterEvent
	Keys          []KeyEvent
	Tracks        []TrackInfo
	Timing        *TempoMap
}

// Duration returns the total song length in seconds.
func (f *File) Duration() float64 {
	return f.Timing.TicksToSeconds(float64(f.DurationTicks))
}

type pendingKey struct {
	channel uint8
	key     uint8
}

type pendingNote struct {
	tick     int64
	velocity uint8
}

// Decode parses raw MIDI bytes.
func Decode(data []byte) (f *File, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			f = nil
			e = fmt.Errorf("malformed midi data: %v", r)
		}
	}()

	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing midi data: %w", err)
	}

	return fromSMF(s)
}

func fromSMF(s *smf.SMF) (*File, error) {
	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok {
		return nil, errors.New("unsupported time format (expected metric ticks)")
	}

	var f File
	f.PPQ = int(mt.Resolution())

	for _, events := range s.Tracks {
		var info TrackInfo
		var absTicks int64
		var haveChannel, haveProgram bool
		pending := make(map[pendingKey][]pendingNote)

		for _, event := range events {
			absTicks += int64(event.Delta)
			msg := event.Message
			var channel, key, velocity, program uint8
			var num, denom uint8
			var bpm float64
			var name string
			var sig smf.Key
			switch {
			case msg.GetNoteStart(&channel, &key, &velocity):
				if !haveChannel {
					info.Channel = channel
					haveChannel = true
				}
				pk := pendingKey{channel, key}
				pending[pk] = append(pending[pk], pendingNote{tick: absTicks, velocity: velocity})
			case msg.GetNoteEnd(&channel, &key):
				pk := pendingKey{channel, key}
				if on := pending[pk]; len(on) > 0 {
					info.Notes = append(info.Notes, NoteEvent{
						Key:           key,
						Velocity:      float64(on[0].velocity) / 127,
						Tick:          on[0].tick,
						DurationTicks: absTicks - on[0].tick,
					})
					pending[pk] = on[1:]
				}
			case msg.GetProgramChange(&channel, &program):
				if !haveChannel {
					info.Channel = channel
					haveChannel = true
				}
				if !haveProgram {
					info.Program = program
					haveProgram = true
				}
			case msg.GetMetaTrackName(&name):
				if info.Name == "" {
					info.Name = name
				}
			case msg.GetMetaTempo(&bpm):
				f.Tempos = append(f.Tempos, TempoEvent{Tick: absTicks, Bpm: bpm})
			case msg.GetMetaMeter(&num, &denom):
				f.Meters = append(f.Meters, MeterEvent{Tick: absTicks, Numerator: int(num), Denominator: int(denom)})
			case msg.GetMetaKey(&sig):
				f.Keys = append(f.Keys, KeyEvent{Tick: absTicks, Name: sig.String()})
			}
		}

		// close note-ons left hanging at end of track
		for pk, on := range pending {
			for _, n := range on {
				info.Notes = append(info.Notes, NoteEvent{
					Key:           pk.key,
					Velocity:      float64(n.velocity) / 127,
					Tick:          n.tick,
					DurationTicks: absTicks - n.tick,
				})
			}
		}
		sort.SliceStable(info.Notes, func(i, j int) bool {
			return info.Notes[i].Tick < info.Notes[j].Tick
		})

		if absTicks > f.DurationTicks {
			f.DurationTicks = absTicks
		}
		f.Tracks = append(f.Tracks, info)
	}

	f.Tempos = normalizeTempos(f.Tempos)
	f.Meters = normalizeMeters(f.Meters)
	sort.SliceStable(f.Keys, func(i, j int) bool {
		return f.Keys[i].Tick < f.Keys[j].Tick
	})
	f.Timing = NewTempoMap(f.PPQ, f.Tempos, f.Meters)

	return &f, nil
}

// normalizeTempos sorts events by tick, keeps only the last event at any
// given tick and guarantees an event at tick 0.
func normalizeTempos(events []TempoEvent) []TempoEvent {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})
	var res []TempoEvent
	for _, ev := range events {
		if len(res) > 0 && res[len(res)-1].Tick == ev.Tick {
			res[len(res)-1] = ev
			continue
		}
		res = append(res, ev)
	}
	if len(res) == 0 || res[0].Tick != 0 {
		res = append([]TempoEvent{{Tick: 0, Bpm: 120}}, res...)
	}
	return res
}

func normalizeMeters(events []MeterEvent) []MeterEvent {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Tick < events[j].Tick
	})
	var res []MeterEvent
	for _, ev := range events {
		if len(res) > 0 && res[len(res)-1].Tick == ev.Tick {
			res[len(res)-1] = ev
			continue
		}
		res = append(res, ev)
	}
	if len(res) == 0 || res[0].Tick != 0 {
		res = append([]MeterEvent{{Tick: 0, Numerator: 4, Denominator: 4}}, res...)
	}
	return res
}
