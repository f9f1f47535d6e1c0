package midifile

import "sort"

type tempoSegment struct {
	tick    int64
	bpm     float64
	seconds float64 // elapsed seconds at tick
}

type meterSegment struct {
	tick            int64
	ticksPerMeasure float64
	measures        float64 // elapsed measures at tick
}

// TempoMap converts between ticks, seconds and fractional measures under
// one file's tempo and time-signature event streams. Ticks are fractional
// so that positions derived from non-integer measure lengths survive a
// round trip without drift.
type TempoMap struct {
	ppq    float64
	tempos []tempoSegment
	meters []meterSegment
}

// NewTempoMap builds a TempoMap. Both event slices must be ordered by tick;
// a leading 120 BPM / 4/4 segment is assumed when the first event starts
// after tick 0.
func NewTempoMap(ppq int, tempos []TempoEvent, meters []MeterEvent) *TempoMap {
	tm := TempoMap{ppq: float64(ppq)}

	if len(tempos) == 0 || tempos[0].Tick != 0 {
		tempos = append([]TempoEvent{{Tick: 0, Bpm: 120}}, tempos...)
	}
	if len(meters) == 0 || meters[0].Tick != 0 {
		meters = append([]MeterEvent{{Tick: 0, Numerator: 4, Denominator: 4}}, meters...)
	}

	var seconds float64
	for i, ev := range tempos {
		if i > 0 {
			prev := tm.tempos[i-1]
			seconds += float64(ev.Tick-prev.tick) * 60 / (prev.bpm * tm.ppq)
		}
		tm.tempos = append(tm.tempos, tempoSegment{tick: ev.Tick, bpm: ev.Bpm, seconds: seconds})
	}

	var measures float64
	for i, ev := range meters {
		if i > 0 {
			prev := tm.meters[i-1]
			measures += float64(ev.Tick-prev.tick) / prev.ticksPerMeasure
		}
		tm.meters = append(tm.meters, meterSegment{
			tick:            ev.Tick,
			ticksPerMeasure: float64(ev.Numerator) / float64(ev.Denominator) * 4 * tm.ppq,
			measures:        measures,
		})
	}

	return &tm
}

func (tm *TempoMap) TicksToSeconds(ticks float64) float64 {
	s := tm.tempos[tm.tempoIndex(ticks)]
	return s.seconds + (ticks-float64(s.tick))*60/(s.bpm*tm.ppq)
}

func (tm *TempoMap) SecondsToTicks(seconds float64) float64 {
	idx := sort.Search(len(tm.tempos), func(i int) bool {
		return tm.tempos[i].seconds > seconds
	}) - 1
	if idx < 0 {
		idx = 0
	}
	s := tm.tempos[idx]
	return float64(s.tick) + (seconds-s.seconds)*s.bpm*tm.ppq/60
}

// TicksToMeasures returns the position in fractional measures under the
// time signature active at ticks.
func (tm *TempoMap) TicksToMeasures(ticks float64) float64 {
	idx := sort.Search(len(tm.meters), func(i int) bool {
		return float64(tm.meters[i].tick) > ticks
	}) - 1
	if idx < 0 {
		idx = 0
	}
	s := tm.meters[idx]
	return s.measures + (ticks-float64(s.tick))/s.ticksPerMeasure
}

func (tm *TempoMap) tempoIndex(ticks float64) int {
	idx := sort.Search(len(tm.tempos), func(i int) bool {
		return float64(tm.tempos[i].tick) > ticks
	}) - 1
	if idx < 0 {
		idx = 0
	}
	return idx
}
