package merge

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/openroll/songpipe/model"
	"github.com/openroll/songpipe/song"
	"github.com/openroll/songpipe/util"
)

// Input is one raw MIDI file queued for a practice timeline.
type Input struct {
	Name string
	Data []byte
}

// Parsed pairs a normalized Song with the filename it came from.
type Parsed struct {
	Name string
	Song *model.Song
}

// Merge parses every input concurrently and concatenates the results into
// one continuous Song. If any file fails to decode the whole batch fails;
// there is no partial merge.
func Merge(inputs []Input) (*model.Song, *model.SongMetadata, error) {
	if len(inputs) == 0 {
		return nil, nil, errors.New("no input files")
	}

	parsed := make([]Parsed, len(inputs))
	errs := make([]error, len(inputs))
	var wg sync.WaitGroup
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := song.Parse(inputs[i].Data)
			if err != nil {
				errs[i] = fmt.Errorf("parsing %v: %w", inputs[i].Name, err)
				return
			}
			parsed[i] = Parsed{Name: inputs[i].Name, Song: s}
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, nil, err
		}
	}

	return Songs(parsed)
}

// Songs concatenates already parsed songs into one continuous timeline.
// Songs are reordered by their earliest note onset (stable, so the input
// order breaks ties) and then laid out back to back: track ids are
// remapped to fresh global ids, measure numbers and times keep growing
// monotonically across file boundaries, tempo events shift with their
// file. A single song passes through untouched. PPQ, time signature and
// key signature come from the first song in sorted order.
func Songs(parsed []Parsed) (*model.Song, *model.SongMetadata, error) {
	if len(parsed) == 0 {
		return nil, nil, errors.New("no parsed songs")
	}

	// title references the first file as uploaded, not as reordered
	title := baseName(parsed[0].Name)
	id := uuid.New().String()

	sort.SliceStable(parsed, func(i, j int) bool {
		return earliestOnset(parsed[i].Song) < earliestOnset(parsed[j].Song)
	})

	if len(parsed) == 1 {
		return parsed[0].Song, newMetadata(id, title, parsed[0].Song.Duration), nil
	}

	first := parsed[0].Song
	merged := model.Song{
		Tracks:        make(model.Tracks),
		PPQ:           first.PPQ,
		TimeSignature: first.TimeSignature,
		KeySignature:  first.KeySignature,
		Timing:        first.Timing,
	}

	trackOffset := 0
	measureOffset := 0
	timeOffset := 0.0
	for _, p := range parsed {
		s := p.Song

		mapping := make(map[int]int, len(s.Tracks))
		oldIDs := util.GetKeys(s.Tracks)
		sort.Ints(oldIDs)
		for _, oldID := range oldIDs {
			track := s.Tracks[oldID]
			name := track.Name
			if name == "" {
				name = "Track"
			}
			track.Name = fmt.Sprintf("%v (%v)", name, p.Name)
			mapping[oldID] = trackOffset
			merged.Tracks[trackOffset] = track
			trackOffset++
		}

		for _, n := range s.Notes {
			newTrack, ok := mapping[n.Track]
			if !ok {
				// upstream assembly broke the track invariant
				panic(fmt.Sprintf("note references unknown track %v in %v", n.Track, p.Name))
			}
			n.Track = newTrack
			n.Time += timeOffset
			n.Measure += measureOffset
			merged.Notes = append(merged.Notes, n)
		}
		for _, m := range s.Measures {
			m.Time += timeOffset
			m.Number += measureOffset
			merged.Measures = append(merged.Measures, m)
		}
		for _, b := range s.Bpms {
			b.Time += timeOffset
			merged.Bpms = append(merged.Bpms, b)
		}

		timeOffset += s.Duration
		measureOffset += len(s.Measures)
		merged.Duration += s.Duration
	}

	merged.Items = song.Items(merged.Measures, merged.Notes)

	return &merged, newMetadata(id, "Progressive: "+title, merged.Duration), nil
}

// earliestOnset is the time of a song's first note; a song with no notes
// sorts as if its first note were at 0.
func earliestOnset(s *model.Song) float64 {
	if len(s.Notes) == 0 {
		return 0
	}
	return s.Notes[0].Time
}

func baseName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func newMetadata(id, title string, duration float64) *model.SongMetadata {
	return &model.SongMetadata{
		ID:       id,
		Title:    title,
		File:     id,
		Source:   model.SourceUpload,
		Duration: duration,
	}
}
