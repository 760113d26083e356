package progress

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets tests read output while the scheduler goroutine writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func testDisplay(out *syncBuffer, opts ...Option) *Display {
	opts = append([]Option{
		WithWriter(out),
		WithOutput(OutputUI),
		WithWidth(func() int { return 80 }),
	}, opts...)
	return New(opts...)
}

// attach registers a job on the display without waking the scheduler, so
// tests drive frames through Flush alone.
func attach(d *Display, j *Job) {
	d.tree.insertRoot(j)
}

func TestFlushWritesFrame(t *testing.T) {
	out := &syncBuffer{}
	d := testDisplay(out)
	attach(d, NewJob().Body(`{{ message }}`).Prop("message", "hello").Build())
	d.Flush()
	if got := out.String(); got != "hello\n" {
		t.Errorf("first frame = %q, want %q", got, "hello\n")
	}
}

func TestSmartRefreshSkipsIdenticalFrame(t *testing.T) {
	out := &syncBuffer{}
	d := testDisplay(out)
	attach(d, NewJob().Body(`{{ message }}`).Prop("message", "steady").Build())
	d.Flush()
	n := out.Len()
	d.Flush()
	d.Flush()
	if out.Len() != n {
		t.Errorf("identical frames rewritten: %q", out.String())
	}
}

func TestRepaintErasesPreviousRegion(t *testing.T) {
	out := &syncBuffer{}
	d := testDisplay(out)
	j := NewJob().Body(`{{ message }}`).Prop("message", "one").Build()
	attach(d, j)
	d.Flush()
	j.Prop("message", "two")
	d.Flush()
	if !strings.Contains(out.String(), "\x1b[1A\r\x1b[0J") {
		t.Errorf("second frame missing region erase: %q", out.String())
	}
	if !strings.HasSuffix(out.String(), "two\n") {
		t.Errorf("frame not repainted: %q", out.String())
	}
}

func TestTextModeAppendsChangedLinesOnly(t *testing.T) {
	out := &syncBuffer{}
	d := testDisplay(out, WithOutput(OutputText))
	j := NewJob().Body(`{{ message }}`).Prop("message", "step 1").Build()
	attach(d, j)
	d.Flush()
	d.Flush()
	j.Prop("message", "step 2")
	d.Flush()
	if got := out.String(); got != "step 1\nstep 2\n" {
		t.Errorf("text output = %q, want one line per change", got)
	}
	if strings.Contains(out.String(), "\x1b") {
		t.Errorf("escape sequences in text output: %q", out.String())
	}
}

func TestPrintlnScrollsAboveRegion(t *testing.T) {
	out := &syncBuffer{}
	d := testDisplay(out)
	attach(d, NewJob().Body(`{{ message }}`).Prop("message", "frame").Build())
	d.Flush()
	d.Println("a log line")
	got := out.String()
	if !strings.HasSuffix(got, "a log line\nframe\n") {
		t.Errorf("output = %q, want log line above repainted frame", got)
	}
}

func TestPauseErasesAndResumeRepaints(t *testing.T) {
	out := &syncBuffer{}
	d := testDisplay(out)
	attach(d, NewJob().Body(`{{ message }}`).Prop("message", "live").Build())
	d.Flush()
	d.Pause()
	if !strings.HasSuffix(out.String(), "\x1b[1A\r\x1b[0J") {
		t.Errorf("pause did not erase region: %q", out.String())
	}
	n := out.Len()
	d.Flush()
	if out.Len() != n {
		t.Error("flush rendered while paused")
	}
	d.Resume()
	if !strings.HasSuffix(out.String(), "live\n") {
		t.Errorf("resume did not repaint: %q", out.String())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestWriteFailureDegradesToText(t *testing.T) {
	d := New(
		WithWriter(failWriter{}),
		WithOutput(OutputUI),
		WithWidth(func() int { return 80 }),
	)
	attach(d, NewJob().Body(`{{ message }}`).Prop("message", "x").Build())
	d.Flush()
	d.mu.Lock()
	output := d.output
	d.mu.Unlock()
	if output != OutputText {
		t.Errorf("output mode = %v after write failure, want text", output)
	}
}

func TestSinkReceivesOverallProgressAndCompletion(t *testing.T) {
	out := &syncBuffer{}
	var mu sync.Mutex
	var percents []int
	var states []ReportState
	d := testDisplay(out, WithReportFunc(func(percent int, state ReportState) {
		mu.Lock()
		defer mu.Unlock()
		percents = append(percents, percent)
		states = append(states, state)
	}))
	j := NewJob().ProgressTotal(100).Build()
	attach(d, j)
	j.ProgressCurrent(25)
	d.Flush()
	j.ProgressCurrent(100)
	d.Flush()
	j.status = StatusDone
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	if len(percents) < 2 {
		t.Fatalf("reports = %v %v, want at least two", percents, states)
	}
	if percents[0] != 25 || states[0] != ReportNormal {
		t.Errorf("first report = %d %v, want 25 normal", percents[0], states[0])
	}
	last := states[len(states)-1]
	if last != ReportNone {
		t.Errorf("final state = %v, want ReportNone", last)
	}
}

func TestSinkReportsErrorStateWhileJobFailed(t *testing.T) {
	out := &syncBuffer{}
	var mu sync.Mutex
	var last ReportState
	d := testDisplay(out, WithReportFunc(func(percent int, state ReportState) {
		mu.Lock()
		defer mu.Unlock()
		last = state
	}))
	bad := NewJob().Build()
	bad.status = StatusFailed
	attach(d, bad)
	running := NewJob().ProgressTotal(100).Build()
	attach(d, running)
	running.ProgressCurrent(50)
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	if last != ReportError {
		t.Errorf("state = %v, want ReportError", last)
	}
}

func TestSinkSkipsRepeatReports(t *testing.T) {
	out := &syncBuffer{}
	var mu sync.Mutex
	calls := 0
	d := testDisplay(out, WithReportFunc(func(percent int, state ReportState) {
		mu.Lock()
		defer mu.Unlock()
		calls++
	}))
	j := NewJob().ProgressTotal(100).Build()
	attach(d, j)
	j.ProgressCurrent(25)
	d.Flush()
	d.Flush()
	d.Flush()

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("sink called %d times for an unchanged report, want 1", calls)
	}
}

func TestStopWhilePausedRendersFinalFrame(t *testing.T) {
	out := &syncBuffer{}
	trace := filepath.Join(t.TempDir(), "trace.jsonl")
	d := testDisplay(out, WithTraceLog(trace, false))
	j := NewJob().Body(`{{ message }}`).Prop("message", "wrap").Build()
	attach(d, j)
	d.Flush()
	d.Pause()
	d.Stop()

	if !strings.HasSuffix(out.String(), "wrap\n") {
		t.Errorf("output %q does not end with the final frame", out.String())
	}
	data, err := os.ReadFile(trace)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(data) == 0 {
		t.Error("trace log is empty, want a final record")
	}
}

func TestSchedulerAutoStops(t *testing.T) {
	out := &syncBuffer{}
	d := testDisplay(out, WithInterval(10*time.Millisecond))
	j := d.Start(NewJob().
		Body(`{{ message }}`).
		Prop("message", "quick").
		OnDone(DoneHide))
	j.SetStatus(StatusDone)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d.mu.Lock()
		stopped := !d.started
		d.mu.Unlock()
		if stopped && d.JobCount() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("scheduler still running with %d jobs", d.JobCount())
}

func TestStopClearErasesRegion(t *testing.T) {
	out := &syncBuffer{}
	d := testDisplay(out)
	attach(d, NewJob().Body(`{{ message }}`).Prop("message", "gone").Build())
	d.Flush()
	d.StopClear()
	if !strings.HasSuffix(out.String(), "\x1b[1A\r\x1b[0J") {
		t.Errorf("region not erased on StopClear: %q", out.String())
	}
	n := out.Len()
	d.Flush()
	if out.Len() != n {
		t.Error("display still renders after stop")
	}
}
