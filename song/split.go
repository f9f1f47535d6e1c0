package song

import (
	"math"

	"github.com/openroll/songpipe/model"
	"github.com/openroll/songpipe/util"
)

const (
	splitTrackName = "Left Hand (Auto-Split)"

	initialLeftCenter  = 48 // around C3
	initialRightCenter = 72 // around C5
	splitIterations    = 5
)

// splitHands partitions a single-track song into two hands. It runs only
// when exactly one track id appears across all notes; with zero notes
// nothing happens. Notes below the cluster threshold move to a freshly
// appended track carrying the original track's instrument and program.
func splitHands(notes []model.Note, tracks model.Tracks) {
	active := make(map[int]bool)
	for _, n := range notes {
		active[n.Track] = true
	}
	if len(active) != 1 {
		return
	}
	mainTrack := util.GetKeys(active)[0]

	pitches := make([]float64, len(notes))
	for i, n := range notes {
		pitches[i] = float64(n.Pitch)
	}
	threshold := splitThreshold(pitches)

	splitTrack := util.Max(util.GetKeys(tracks)) + 1
	tracks[splitTrack] = model.Track{
		Name:       splitTrackName,
		Instrument: tracks[mainTrack].Instrument,
		Program:    tracks[mainTrack].Program,
	}

	for i := range notes {
		if notes[i].Track == mainTrack && float64(notes[i].Pitch) < threshold {
			notes[i].Track = splitTrack
		}
	}
}

// splitThreshold runs 1-D k-means (k=2) over the pitches: fixed five
// iterations with no early exit, equidistant pitches grouping left, an
// empty group keeping its center for that iteration. The returned
// threshold is the midpoint of the final centers. This is a register
// split heuristic, not true hand separation.
func splitThreshold(pitches []float64) float64 {
	centerL := float64(initialLeftCenter)
	centerR := float64(initialRightCenter)

	for i := 0; i < splitIterations; i++ {
		var sumL, sumR float64
		var numL, numR int
		for _, p := range pitches {
			if math.Abs(p-centerL) <= math.Abs(p-centerR) {
				sumL += p
				numL++
			} else {
				sumR += p
				numR++
			}
		}
		if numL > 0 {
			centerL = sumL / float64(numL)
		}
		if numR > 0 {
			centerR = sumR / float64(numR)
		}
	}

	return (centerL + centerR) / 2
}
