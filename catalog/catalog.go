package catalog

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ansi "github.com/k0kubun/go-ansi"
	"github.com/openroll/songpipe/model"
	"github.com/openroll/songpipe/song"
	"github.com/schollz/progressbar/v3"
)

// IsMidiFile reports whether name looks like a MIDI file.
func IsMidiFile(name string) bool {
	return strings.HasSuffix(name, ".mid") || strings.HasSuffix(name, ".midi")
}

// GatherMidiPaths walks dir and returns every MIDI file path found, up to
// maxNum (0 means unlimited).
func GatherMidiPaths(dir string, maxNum int) ([]string, error) {
	var res []string
	walk := func(s string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsMidiFile(s) {
			if maxNum == 0 || len(res) < maxNum {
				res = append(res, s)
			}
		}
		return nil
	}
	if err := filepath.WalkDir(dir, walk); err != nil {
		return nil, fmt.Errorf("walking %v: %w", dir, err)
	}
	return res, nil
}

// Scan parses every MIDI file under dir into a catalog entry. A file that
// fails to read or parse is skipped with a warning rather than failing
// the scan.
func Scan(dir string, progress io.Writer) ([]model.SongMetadata, error) {
	paths, err := GatherMidiPaths(dir, 0)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if progress != nil {
		bar = newScanBar(len(paths), progress)
	}

	var res []model.SongMetadata
	for _, path := range paths {
		if bar != nil {
			bar.Add(1)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", path, err)
			continue
		}
		s, err := song.Parse(data)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", path, err)
			continue
		}
		name := filepath.Base(path)
		res = append(res, model.SongMetadata{
			ID:       dir + "/" + name,
			Title:    name,
			File:     name,
			Source:   model.SourceLocal,
			Duration: s.Duration,
		})
	}
	return res, nil
}

func newScanBar(total int, w io.Writer) *progressbar.ProgressBar {
	if w == os.Stdout {
		w = ansi.NewAnsiStdout()
	}
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionFullWidth(),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("[cyan]Scanning midi files...[reset]"),
	)
}
