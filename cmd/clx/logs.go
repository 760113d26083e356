package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jdx/clx/progress"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Interleave slog output with a live progress region",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(progress.NewLogHandler(
			slog.NewTextHandler(os.Stderr, nil), nil))

		job := progress.NewJob().
			Body(`{{ spinner }} {{ message }}{{ flex_fill }}{{ elapsed }}`).
			Prop("message", "processing records").
			Start()

		for i := 1; i <= 10; i++ {
			time.Sleep(400 * time.Millisecond)
			logger.Info("batch committed", "batch", i, "rows", i*250)
		}
		job.SetStatus(progress.StatusDone)
		return nil
	},
}
