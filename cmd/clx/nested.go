package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdx/clx/progress"
)

var nestedCmd = &cobra.Command{
	Use:   "nested",
	Short: "Run a tree of jobs with children that collapse as they finish",
	RunE: func(cmd *cobra.Command, args []string) error {
		root := progress.NewJob().
			Prop("message", "building workspace").
			Start()

		var wg sync.WaitGroup
		for i := range 4 {
			child := root.Add(progress.NewJob().
				Prop("message", fmt.Sprintf("compiling package %d", i+1)).
				OnDone(progress.DoneCollapse))
			wg.Add(1)
			go func(j *progress.Job, d time.Duration) {
				defer wg.Done()
				time.Sleep(d)
				j.SetStatus(progress.StatusDone)
			}(child, time.Duration(i+1)*700*time.Millisecond)
		}
		wg.Wait()

		root.Message("workspace built")
		root.SetStatus(progress.StatusDone)
		return nil
	},
}
