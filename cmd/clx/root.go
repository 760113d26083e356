package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdx/clx/progress"
)

var flagInterval time.Duration

var rootCmd = &cobra.Command{
	Use:   "clx",
	Short: "Terminal progress rendering demos",
	Long: `clx renders hierarchical progress jobs into a live terminal region.

The subcommands demonstrate the rendering engine: spinner styles, progress
bars with rate and ETA estimation, nested job trees, and log output
interleaved with a live display.

Output adapts to the environment: pipes and CI logs get plain text,
terminals get an animated region, and CLX_NO_PROGRESS disables rendering.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagInterval > 0 {
			progress.SetInterval(flagInterval)
		}
	},
}

// Execute runs the root command
func Execute() {
	defer progress.Stop()
	if err := rootCmd.Execute(); err != nil {
		progress.StopClear()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().DurationVar(&flagInterval, "interval", 0, "Refresh interval (default 200ms)")

	rootCmd.AddCommand(spinnersCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(nestedCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(versionCmd)
}
