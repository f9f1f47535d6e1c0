package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/openroll/songpipe/model"
	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func validMidi() []byte {
	var tr smf.Track
	tr.Add(0, midi.NoteOn(0, 60, 100))
	tr.Add(480, midi.NoteOff(0, 60))
	tr.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(480)
	s.Add(tr)

	var buf bytes.Buffer
	s.WriteTo(&buf)
	return buf.Bytes()
}

func TestIsMidiFile(t *testing.T) {
	assert := assert.New(t)
	assert.True(IsMidiFile("song.mid"))
	assert.True(IsMidiFile("song.midi"))
	assert.False(IsMidiFile("song.mp3"))
	assert.False(IsMidiFile("midi.txt"))
}

func TestScanSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "good.mid"), validMidi(), 0644)
	os.WriteFile(filepath.Join(dir, "broken.mid"), []byte("not midi"), 0644)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("irrelevant"), 0644)

	songs, err := Scan(dir, nil)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(songs, 1)
	assert.Equal("good.mid", songs[0].Title)
	assert.Equal(model.SourceLocal, songs[0].Source)
	assert.Greater(songs[0].Duration, 0.0)
}

func TestGatherMidiPathsHonorsMaxNum(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.mid", "b.mid", "c.midi"} {
		os.WriteFile(filepath.Join(dir, name), validMidi(), 0644)
	}

	paths, err := GatherMidiPaths(dir, 2)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(paths, 2)
}

func TestWatcherCoalescesNotifications(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "good.mid"), validMidi(), 0644)

	scans := make(chan int, 10)
	w := NewWatcher(dir, 50*time.Millisecond, func(songs []model.SongMetadata, err error) {
		assert.NoError(t, err)
		scans <- len(songs)
	})

	for i := 0; i < 5; i++ {
		w.Notify()
	}

	select {
	case n := <-scans:
		assert.Equal(t, 1, n)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher never scanned")
	}

	// the burst above collapses into a single scan
	select {
	case <-scans:
		t.Fatal("watcher scanned more than once for one burst")
	case <-time.After(200 * time.Millisecond):
	}
}
