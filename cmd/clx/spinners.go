package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jdx/clx/progress"
)

var spinnersCmd = &cobra.Command{
	Use:   "spinners",
	Short: "Show every spinner style side by side",
	RunE: func(cmd *cobra.Command, args []string) error {
		var jobs []*progress.Job
		for _, name := range progress.SpinnerNames() {
			j := progress.NewJob().
				Prop("message", name).
				Prop("spinner", name).
				Start()
			jobs = append(jobs, j)
		}
		time.Sleep(5 * time.Second)
		for _, j := range jobs {
			j.SetStatus(progress.StatusDone)
		}
		return nil
	},
}
