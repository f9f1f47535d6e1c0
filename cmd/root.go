package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "songpipe",
	Short: "MIDI to Song normalization pipeline",
	Long:  `Parses raw MIDI files into a normalized practice timeline and serves it to the front end.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
