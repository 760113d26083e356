// Package progress renders hierarchical progress jobs into a live terminal
// region.
//
// A Job is one line of output (spinner, message, optional progress bar)
// built from a small template language and updated from any goroutine.
// Jobs nest: children render indented under their parent and are removed
// with it. A background scheduler owns the terminal region, repainting it
// at a fixed interval while any job runs and stopping itself when none do.
//
// The usual entry point is the builder:
//
//	job := progress.NewJob().
//		Prop("message", "downloading").
//		ProgressTotal(size).
//		Start()
//	for chunk := range chunks {
//		job.Increment(uint64(len(chunk)))
//	}
//	job.SetStatus(progress.StatusDone)
//
// Output degrades automatically: redirected or CI output gets plain
// appended lines instead of cursor-addressed repaints, and CLX_NO_PROGRESS
// disables rendering entirely. On terminals that support it, overall
// progress is mirrored to the terminal's native indicator via OSC 9;4.
package progress
