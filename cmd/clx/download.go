package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jdx/clx/progress"
)

var flagFiles int

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Simulate downloading several files with bars, rate, and ETA",
	RunE: func(cmd *cobra.Command, args []string) error {
		job := progress.NewJob().
			Body(`{{ spinner }} {{ message }} {{ progress_bar }} {{ bytes }} ({{ bytes_rate }}, eta {{ eta }})`).
			OnDone(progress.DoneCollapse).
			Start()
		job.StartOperations(flagFiles)
		for i := range flagFiles {
			name := fmt.Sprintf("file-%d.tar.gz", i+1)
			job.Message("downloading " + name)
			total := uint64(10_000_000 + rand.Intn(40_000_000))
			job.ProgressTotal(total)
			var cur uint64
			for cur < total {
				chunk := uint64(500_000 + rand.Intn(1_500_000))
				if cur+chunk > total {
					chunk = total - cur
				}
				cur += chunk
				job.ProgressCurrent(cur)
				time.Sleep(50 * time.Millisecond)
			}
			job.Println(color.GreenString("✔") + " downloaded " + name)
			if i < flagFiles-1 {
				job.NextOperation()
			}
		}
		job.SetStatus(progress.StatusDone)
		return nil
	},
}

func init() {
	downloadCmd.Flags().IntVar(&flagFiles, "files", 3, "Number of files to simulate")
}
