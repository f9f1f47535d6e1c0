package cmd

import (
	"fmt"
	"os"

	"github.com/openroll/songpipe/catalog"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan <dir>",
	Short: "Scans a folder for midi files",
	Long:  `Scans a folder for midi files and prints a catalog of playable songs.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(args[0])
	},
}

func runScan(dir string) error {
	songs, err := catalog.Scan(dir, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Printf("\nFound %v songs\n", len(songs))
	for _, s := range songs {
		fmt.Printf("  %v (%.1fs)\n", s.Title, s.Duration)
	}
	return nil
}
