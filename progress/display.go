package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/charmbracelet/x/term"
)

// DefaultInterval is the animation refresh interval.
const DefaultInterval = 200 * time.Millisecond

// ReportState classifies an overall-progress report for the sink.
type ReportState int

const (
	// ReportNormal is determinate progress.
	ReportNormal ReportState = iota
	// ReportError is progress while at least one job has failed.
	ReportError
	// ReportWarning is progress while at least one job has warned.
	ReportWarning
	// ReportIndeterminate is activity with no measurable fraction.
	ReportIndeterminate
	// ReportNone signals completion; the sink should clear its indicator.
	ReportNone
)

// ReportFunc receives the display's overall progress, typically to forward
// it to the terminal's native progress indicator. percent is 0-100. The sink
// is only called when the report differs from the previous one.
type ReportFunc func(percent int, state ReportState)

// Display owns a region of the terminal and a tree of progress jobs
// rendered into it. A background scheduler repaints the region while any
// job is running and stops itself when none are; job updates wake it
// immediately so state changes appear without waiting out the interval.
type Display struct {
	mu sync.Mutex
	// lockMu serializes Println and WithTerminalLock callers so their
	// output interleaves whole, not byte-wise.
	lockMu sync.Mutex

	out      io.Writer
	tree     *Tree
	interval time.Duration
	output   Output
	disabled bool

	widthFn func() int
	width   int

	report    ReportFunc
	lastPct   int
	lastState ReportState
	hasReport bool
	diag      *diagnostics

	started bool
	stopped bool
	pauses  int
	notify  chan struct{}
	stopCh  chan struct{}

	lastFrame   string
	lastLines   int
	lastRefresh time.Time
	force       bool
	textSeen    map[uint64]string
}

// Option configures a Display.
type Option func(*Display)

// WithWriter sets the destination for rendered frames. Default is stderr.
func WithWriter(w io.Writer) Option {
	return func(d *Display) { d.out = w }
}

// WithOutput sets the output mode.
func WithOutput(o Output) Option {
	return func(d *Display) { d.output = o }
}

// WithInterval sets the refresh interval.
func WithInterval(iv time.Duration) Option {
	return func(d *Display) { d.interval = iv }
}

// WithWidth overrides terminal width detection, mainly for tests.
func WithWidth(fn func() int) Option {
	return func(d *Display) { d.widthFn = fn }
}

// WithReportFunc sets the overall-progress sink.
func WithReportFunc(fn ReportFunc) Option {
	return func(d *Display) { d.report = fn }
}

// WithDisabled turns off all rendering. Jobs can still be created and
// mutated; they just never reach the terminal.
func WithDisabled(disabled bool) Option {
	return func(d *Display) { d.disabled = disabled }
}

// WithTraceLog writes one JSON line per rendered frame to the given file.
// When raw is false, ANSI escape sequences are stripped first.
func WithTraceLog(path string, raw bool) Option {
	return func(d *Display) { d.diag = newDiagnostics(path, raw) }
}

// New creates a display. It renders nothing until a job is started on it.
func New(opts ...Option) *Display {
	d := &Display{
		out:      os.Stderr,
		tree:     newTree(),
		interval: DefaultInterval,
		notify:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		textSeen: make(map[uint64]string),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.widthFn == nil {
		out := d.out
		d.widthFn = func() int { return writerWidth(out) }
	}
	go watchResize(d)
	return d
}

// writerWidth reports the terminal width of w, or 80 when w is not a
// terminal.
func writerWidth(w io.Writer) int {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return 80
	}
	width, _, err := term.GetSize(f.Fd())
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// Start registers the built job as a new root on this display and wakes the
// scheduler.
func (d *Display) Start(b Builder) *Job {
	j := b.Build()
	d.adopt(j)
	d.tree.insertRoot(j)
	d.jobUpdated(j)
	return j
}

// StartJob registers an already-built job as a new root. Children attached
// while the job was detached come along with it.
func (d *Display) StartJob(j *Job) *Job {
	d.adopt(j)
	d.tree.insertRoot(j)
	d.jobUpdated(j)
	return j
}

func (d *Display) adopt(j *Job) {
	j.mu.Lock()
	j.display = d
	kids := make([]*Job, len(j.children))
	copy(kids, j.children)
	j.mu.Unlock()
	for _, c := range kids {
		d.adopt(c)
	}
}

// jobUpdated wakes the scheduler, starting it if it is not running. Job
// handles call this after every mutation.
func (d *Display) jobUpdated(*Job) {
	d.mu.Lock()
	if d.disabled || d.stopped {
		d.mu.Unlock()
		return
	}
	if !d.started {
		d.started = true
		go d.run()
	}
	d.mu.Unlock()
	select {
	case d.notify <- struct{}{}:
	default:
	}
}

// run is the scheduler loop. It paces refreshes to at least half the
// interval apart no matter how fast updates arrive, and exits once the tree
// holds no running job and no wakeup is pending.
func (d *Display) run() {
	d.mu.Lock()
	iv := d.interval
	d.mu.Unlock()
	timer := time.NewTimer(iv)
	defer timer.Stop()
	for {
		select {
		case <-d.stopCh:
			return
		case <-d.notify:
		case <-timer.C:
		}
		d.mu.Lock()
		if wait := d.interval/2 - time.Since(d.lastRefresh); wait > 0 {
			d.mu.Unlock()
			select {
			case <-d.stopCh:
				return
			case <-time.After(wait):
			}
			d.mu.Lock()
		}
		d.refreshLocked()
		stop := d.tree.activeJobs() == 0 && len(d.notify) == 0
		if stop {
			d.started = false
		}
		iv = d.interval
		d.mu.Unlock()
		if stop {
			return
		}
		timer.Reset(iv)
	}
}

// refreshLocked renders and writes one frame. Caller holds d.mu.
func (d *Display) refreshLocked() {
	now := time.Now()
	d.lastRefresh = now
	if d.disabled || d.pauses > 0 {
		return
	}
	snaps := d.tree.snapshotAll()
	ctx := &renderContext{
		now:      now,
		width:    d.widthLocked(),
		textMode: d.output == OutputText,
	}
	lines := renderFrame(snaps, ctx)
	d.reportLocked(snaps)

	if d.output == OutputText {
		var buf strings.Builder
		for _, line := range lines {
			plain := ansi.Strip(line.text)
			if d.textSeen[line.jobID] == plain {
				continue
			}
			d.textSeen[line.jobID] = plain
			buf.WriteString(plain)
			buf.WriteByte('\n')
		}
		if buf.Len() > 0 {
			if d.diag != nil {
				d.diag.emit(snaps, lines)
			}
			d.writeLocked(buf.String())
		}
		return
	}

	frame := joinFrame(lines)
	if frame == d.lastFrame && !d.force {
		return
	}
	d.force = false
	if d.diag != nil {
		d.diag.emit(snaps, lines)
	}
	var buf strings.Builder
	d.clearRegionLocked(&buf)
	if frame != "" {
		buf.WriteString(frame)
		buf.WriteByte('\n')
	}
	d.writeLocked(buf.String())
	d.lastFrame = frame
	if frame == "" {
		d.lastLines = 0
	} else {
		d.lastLines = strings.Count(frame, "\n") + 1
	}
}

// clearRegionLocked appends the escape sequence that erases the previously
// rendered region and leaves the cursor at its top-left corner.
func (d *Display) clearRegionLocked(buf *strings.Builder) {
	if d.lastLines == 0 {
		return
	}
	fmt.Fprintf(buf, "\x1b[%dA", d.lastLines)
	buf.WriteString("\r\x1b[0J")
}

// writeLocked writes to the output, degrading to text mode on failure so a
// closed pipe does not leave escape sequences half-written forever.
func (d *Display) writeLocked(s string) {
	if _, err := io.WriteString(d.out, s); err != nil && d.output != OutputText {
		d.output = OutputText
		d.lastFrame = ""
		d.lastLines = 0
	}
}

// reportLocked forwards overall progress to the sink. With several
// progress-tracked roots their fractions are averaged; with none, activity
// reports as indeterminate. A failed or warned job anywhere in the forest
// colors the report until everything finishes.
func (d *Display) reportLocked(snaps []*JobSnapshot) {
	if d.report == nil {
		return
	}
	active, failed, warned := 0, 0, 0
	var frac float64
	tracked := 0
	var walk func(s *JobSnapshot)
	walk = func(s *JobSnapshot) {
		switch s.Status {
		case StatusFailed:
			failed++
		case StatusWarn:
			warned++
		default:
			if s.Status.Active() {
				active++
			}
		}
		for _, c := range s.Children {
			walk(c)
		}
	}
	for _, s := range snaps {
		walk(s)
		if s.HasOverall && s.OverallTotal > 0 {
			frac += float64(s.OverallCur) / float64(s.OverallTotal)
			tracked++
		}
	}
	if active == 0 {
		d.sendReportLocked(100, ReportNone)
		return
	}
	pct := 0
	state := ReportIndeterminate
	if tracked > 0 {
		pct = int(frac / float64(tracked) * 100)
		if pct > 100 {
			pct = 100
		}
		state = ReportNormal
	}
	if failed > 0 {
		state = ReportError
	} else if warned > 0 {
		state = ReportWarning
	}
	d.sendReportLocked(pct, state)
}

// sendReportLocked calls the sink only when the report changed, so a busy
// refresh loop does not repeat identical escape sequences.
func (d *Display) sendReportLocked(pct int, state ReportState) {
	if d.hasReport && d.lastPct == pct && d.lastState == state {
		return
	}
	d.hasReport = true
	d.lastPct = pct
	d.lastState = state
	d.report(pct, state)
}

func (d *Display) widthLocked() int {
	if d.width <= 0 {
		d.width = d.widthFn()
	}
	return d.width
}

// invalidateWidth drops the cached terminal width so the next frame
// measures again. Called from the SIGWINCH watcher.
func (d *Display) invalidateWidth() {
	d.mu.Lock()
	d.width = 0
	stopped := d.stopped || d.disabled
	d.mu.Unlock()
	if !stopped {
		select {
		case d.notify <- struct{}{}:
		default:
		}
	}
}

// Flush renders a frame synchronously, bypassing the scheduler's pacing.
func (d *Display) Flush() {
	d.mu.Lock()
	if !d.stopped {
		d.lastRefresh = time.Time{}
		d.refreshLocked()
	}
	d.mu.Unlock()
}

// Println writes a line above the live region. The region is erased, the
// line printed where it will scroll away naturally, and the current frame
// repainted below it. Flex placeholders in s are resolved against the
// terminal width.
func (d *Display) Println(s string) {
	d.lockMu.Lock()
	defer d.lockMu.Unlock()
	d.mu.Lock()
	defer d.mu.Unlock()
	s = resolveFlex(s, d.widthLocked())
	var buf strings.Builder
	d.clearRegionLocked(&buf)
	buf.WriteString(s)
	buf.WriteByte('\n')
	if d.lastFrame != "" {
		buf.WriteString(d.lastFrame)
		buf.WriteByte('\n')
	}
	d.writeLocked(buf.String())
}

// Pause erases the live region and suspends rendering until Resume. Pause
// and Resume nest.
func (d *Display) Pause() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pauses++
	if d.pauses > 1 {
		return
	}
	var buf strings.Builder
	d.clearRegionLocked(&buf)
	if buf.Len() > 0 {
		d.writeLocked(buf.String())
	}
	d.lastFrame = ""
	d.lastLines = 0
}

// Resume re-enables rendering and repaints immediately.
func (d *Display) Resume() {
	d.mu.Lock()
	if d.pauses > 0 {
		d.pauses--
	}
	resumed := d.pauses == 0
	d.mu.Unlock()
	if resumed {
		d.Flush()
	}
}

// WithTerminalLock runs fn with rendering suspended and exclusive use of
// the terminal, for prompts or subprocesses that draw themselves.
func (d *Display) WithTerminalLock(fn func()) {
	d.lockMu.Lock()
	defer d.lockMu.Unlock()
	d.Pause()
	defer d.Resume()
	fn()
}

// Stop renders a final frame, reports completion to the sink, and shuts the
// scheduler down. The last frame stays on screen.
func (d *Display) Stop() {
	d.stop(false)
}

// StopClear is Stop, but erases the region instead of leaving the final
// frame.
func (d *Display) StopClear() {
	d.stop(true)
}

func (d *Display) stop(clear bool) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.pauses = 0
	d.lastRefresh = time.Time{}
	d.force = true
	d.refreshLocked()
	if clear {
		var buf strings.Builder
		d.clearRegionLocked(&buf)
		if buf.Len() > 0 {
			d.writeLocked(buf.String())
		}
		d.lastFrame = ""
		d.lastLines = 0
	}
	if d.report != nil {
		d.sendReportLocked(100, ReportNone)
	}
	close(d.stopCh)
	d.mu.Unlock()
	if d.diag != nil {
		d.diag.close()
	}
}

// SetInterval changes the refresh interval for subsequent frames.
func (d *Display) SetInterval(iv time.Duration) {
	if iv <= 0 {
		iv = DefaultInterval
	}
	d.mu.Lock()
	d.interval = iv
	d.mu.Unlock()
}

// SetOutput switches the output mode.
func (d *Display) SetOutput(o Output) {
	d.mu.Lock()
	d.output = o
	d.mu.Unlock()
}

// Output returns the current output mode.
func (d *Display) Output() Output {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.output
}

// IsDisabled reports whether rendering is off entirely.
func (d *Display) IsDisabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.disabled
}

// JobCount returns the number of jobs currently in the tree.
func (d *Display) JobCount() int { return d.tree.jobCount() }

// ActiveJobs returns the number of running jobs currently in the tree.
func (d *Display) ActiveJobs() int { return d.tree.activeJobs() }
