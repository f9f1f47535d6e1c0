package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openroll/songpipe/merge"
	"github.com/openroll/songpipe/model"
	"github.com/spf13/cobra"
)

var parseOutput string

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "write the result to a file instead of stdout")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <file>...",
	Short: "Parses midi files into one Song",
	Long: `Parses one or more midi files into a single normalized Song. Multiple
files are concatenated into one progressive practice timeline.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(args)
	},
}

type parseResult struct {
	Metadata model.SongMetadata `json:"metadata"`
	Song     *model.Song        `json:"song"`
}

func runParse(paths []string) error {
	var inputs []merge.Input
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %v: %w", path, err)
		}
		inputs = append(inputs, merge.Input{Name: filepath.Base(path), Data: data})
	}

	merged, meta, err := merge.Merge(inputs)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(parseResult{Metadata: *meta, Song: merged}, "", "  ")
	if err != nil {
		return err
	}
	if parseOutput != "" {
		return os.WriteFile(parseOutput, data, 0644)
	}
	fmt.Println(string(data))
	return nil
}
