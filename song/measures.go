package song

import (
	"math"
	"sort"

	"github.com/openroll/songpipe/midifile"
	"github.com/openroll/songpipe/model"
)

// buildMeasures expands the time-signature segments into measure
// descriptors with absolute start times. Numbers run from 1 across all
// segments and never reset. A segment whose span is not an exact multiple
// of its measure length still yields a final measure reported with the
// segment's full duration, and a tempo change inside a generated measure
// is not reflected in that measure's reported duration either.
func buildMeasures(f *midifile.File) []model.Measure {
	var measures []model.Measure
	number := 1

	for i, meter := range f.Meters {
		startTicks := meter.Tick
		endTicks := f.DurationTicks
		if i+1 < len(f.Meters) {
			endTicks = f.Meters[i+1].Tick
		}

		ticksPerMeasure := float64(meter.Numerator) / float64(meter.Denominator) * 4 * float64(f.PPQ)
		startMeasure := f.Timing.TicksToMeasures(float64(startTicks))
		endMeasure := f.Timing.TicksToMeasures(float64(endTicks))
		count := int(math.Ceil(endMeasure - startMeasure))
		duration := f.Timing.TicksToSeconds(float64(startTicks)+ticksPerMeasure) -
			f.Timing.TicksToSeconds(float64(startTicks))

		for k := 0; k < count; k++ {
			tick := float64(startTicks) + float64(k)*ticksPerMeasure
			measures = append(measures, model.Measure{
				Kind:     model.KindMeasure,
				Number:   number,
				Time:     f.Timing.TicksToSeconds(tick),
				Duration: duration,
			})
			number++
		}
	}

	// ordered by construction; sort anyway to keep the invariant explicit
	sort.SliceStable(measures, func(i, j int) bool {
		return measures[i].Time < measures[j].Time
	})
	return measures
}
