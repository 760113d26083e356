package progress

import (
	"sync"
	"sync/atomic"
	"time"
)

// Status is the display state of a progress job.
type Status int

const (
	// StatusPending shows a pause indicator; the job has not started work.
	StatusPending Status = iota
	// StatusRunning shows an animated spinner. This is the default.
	StatusRunning
	// StatusDone shows a green checkmark.
	StatusDone
	// StatusFailed shows a red cross.
	StatusFailed
	// StatusWarn shows a yellow warning icon.
	StatusWarn
	// StatusHide suppresses display without completing the job.
	StatusHide
)

// Active reports whether the job is still running.
func (s Status) Active() bool { return s == StatusRunning }

// Terminal reports whether the status completes the job for rendering
// purposes. Terminal states trigger the job's done behavior on the next
// frame.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed || s == StatusWarn
}

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	case StatusWarn:
		return "warn"
	case StatusHide:
		return "hide"
	default:
		return "unknown"
	}
}

// DoneBehavior controls what happens to a job once its status turns terminal.
type DoneBehavior int

const (
	// DoneKeep leaves the job rendered after completion. This is the default.
	DoneKeep DoneBehavior = iota
	// DoneCollapse renders the job one final time, then removes it.
	DoneCollapse
	// DoneHide removes the job immediately, with no final render.
	DoneHide
)

// jobIDs mints process-unique, monotonically increasing job ids. Ids are
// never reused for the lifetime of the process.
var jobIDs atomic.Uint64

// Builder is a plain configuration value for a progress job. Building has no
// visible effect; the job only becomes live via Start, Display.Start, or
// Job.Add. The zero builder renders "{{ spinner }} {{ message }}".
type Builder struct {
	body     string
	bodyText string
	status   Status
	hasStat  bool
	onDone   DoneBehavior
	props    map[string]any
	cur      *uint64
	total    *uint64
}

// NewJob returns a builder with default settings.
func NewJob() Builder {
	return Builder{}
}

// Body sets the template for rendering the job line.
func (b Builder) Body(body string) Builder {
	b.body = body
	return b
}

// BodyText sets an alternative template used in text output mode.
func (b Builder) BodyText(body string) Builder {
	b.bodyText = body
	return b
}

// Status sets the initial status.
func (b Builder) Status(s Status) Builder {
	b.status = s
	b.hasStat = true
	return b
}

// OnDone sets the behavior applied when the job completes.
func (b Builder) OnDone(d DoneBehavior) Builder {
	b.onDone = d
	return b
}

// Prop sets a template property. Values should be strings, numbers, or
// booleans.
func (b Builder) Prop(key string, val any) Builder {
	props := make(map[string]any, len(b.props)+1)
	for k, v := range b.props {
		props[k] = v
	}
	props[key] = val
	b.props = props
	return b
}

// ProgressCurrent sets the initial progress value.
func (b Builder) ProgressCurrent(n uint64) Builder {
	b.cur = &n
	return b.Prop("cur", n)
}

// ProgressTotal sets the progress total.
func (b Builder) ProgressTotal(n uint64) Builder {
	b.total = &n
	return b.Prop("total", n)
}

// Build constructs the job without registering it anywhere. The returned job
// is inert until started or added under a live job.
func (b Builder) Build() *Job {
	now := time.Now()
	status := StatusRunning
	if b.hasStat {
		status = b.status
	}
	body := b.body
	if body == "" {
		body = DefaultBody
	}
	props := make(map[string]any, len(b.props))
	for k, v := range b.props {
		props[k] = v
	}
	return &Job{
		id:        jobIDs.Add(1),
		body:      body,
		bodyText:  b.bodyText,
		status:    status,
		onDone:    b.onDone,
		props:     props,
		cur:       b.cur,
		total:     b.total,
		createdAt: now,
		updatedAt: now,
		opStart:   now,
	}
}

// Start builds the job and registers it as a root job on the default
// display.
func (b Builder) Start() *Job {
	return Default().Start(b)
}

// Job is a handle to one progress line, possibly with nested children. All
// methods are safe to call from any goroutine; each mutation is atomic with
// respect to renderer snapshots.
type Job struct {
	mu sync.Mutex

	id       uint64
	display  *Display
	parent   *Job
	children []*Job

	body     string
	bodyText string
	status   Status
	onDone   DoneBehavior
	props    map[string]any

	cur   *uint64
	total *uint64
	meter sampler

	// Multi-operation tracking. opCount == 0 means single-operation mode.
	opCount int
	opIndex int

	createdAt time.Time
	updatedAt time.Time
	opStart   time.Time

	removed bool
}

// ID returns the job's process-unique id.
func (j *Job) ID() uint64 { return j.id }

// Add builds the given configuration as a child of this job. The child is
// immediately live if this job is.
func (j *Job) Add(b Builder) *Job {
	child := b.Build()
	j.mu.Lock()
	child.parent = j
	child.display = j.display
	j.children = append(j.children, child)
	d := j.display
	j.mu.Unlock()
	if d != nil {
		d.jobUpdated(child)
	}
	return child
}

// Remove detaches the job and all of its descendants from the display.
func (j *Job) Remove() {
	j.mu.Lock()
	parent := j.parent
	d := j.display
	j.removed = true
	j.mu.Unlock()

	if parent != nil {
		parent.removeChild(j.id)
	} else if d != nil {
		d.tree.removeRoot(j.id)
	}
	if d != nil {
		d.jobUpdated(j)
	}
}

func (j *Job) removeChild(id uint64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	kept := j.children[:0]
	for _, c := range j.children {
		if c.id != id {
			kept = append(kept, c)
		}
	}
	j.children = kept
}

// Children returns the job's current children, oldest first.
func (j *Job) Children() []*Job {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]*Job, len(j.children))
	copy(out, j.children)
	return out
}

// IsRunning reports whether the job's status is still active.
func (j *Job) IsRunning() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.status.Active()
}

// SetBody replaces the job's body template.
func (j *Job) SetBody(body string) {
	j.mu.Lock()
	j.body = body
	j.updatedAt = time.Now()
	d := j.display
	j.mu.Unlock()
	if d != nil {
		d.jobUpdated(j)
	}
}

// SetStatus transitions the job to the given status. Transitions to a
// terminal status force a synchronous render so the final state is visible
// even if the process exits immediately after.
func (j *Job) SetStatus(s Status) {
	j.mu.Lock()
	if j.status == s {
		j.mu.Unlock()
		return
	}
	j.status = s
	j.updatedAt = time.Now()
	d := j.display
	j.mu.Unlock()
	if d == nil {
		return
	}
	d.jobUpdated(j)
	if s.Terminal() {
		d.Flush()
	}
}

// Prop sets a template property.
func (j *Job) Prop(key string, val any) {
	j.mu.Lock()
	j.props[key] = val
	j.updatedAt = time.Now()
	d := j.display
	j.mu.Unlock()
	if d != nil {
		d.jobUpdated(j)
	}
}

// Message sets the message property.
func (j *Job) Message(msg string) {
	j.Prop("message", msg)
}

// ProgressCurrent updates the current progress value. The stored value may
// transiently exceed the total; clamping happens at render time.
func (j *Job) ProgressCurrent(n uint64) {
	j.mu.Lock()
	j.meter.observe(time.Now(), n)
	j.cur = &n
	j.props["cur"] = n
	j.updatedAt = time.Now()
	d := j.display
	j.mu.Unlock()
	if d != nil {
		d.jobUpdated(j)
	}
}

// ProgressTotal updates the progress total. A total below the current value
// is raised to it.
func (j *Job) ProgressTotal(n uint64) {
	j.mu.Lock()
	if j.cur != nil && *j.cur > n {
		n = *j.cur
	}
	j.total = &n
	j.props["total"] = n
	j.updatedAt = time.Now()
	d := j.display
	j.mu.Unlock()
	if d != nil {
		d.jobUpdated(j)
	}
}

// Increment adds n to the current progress value.
func (j *Job) Increment(n uint64) {
	j.mu.Lock()
	cur := n
	if j.cur != nil {
		cur = *j.cur + n
	}
	j.meter.observe(time.Now(), cur)
	j.cur = &cur
	j.props["cur"] = cur
	j.updatedAt = time.Now()
	d := j.display
	j.mu.Unlock()
	if d != nil {
		d.jobUpdated(j)
	}
}

// StartOperations declares how many sequential operations this job tracks.
// Each operation gets an equal share of the overall fraction reported to the
// progress sink, while the in-line bar, bytes, and eta keep showing the
// current operation only. Counts below one are raised to one.
func (j *Job) StartOperations(count int) {
	if count < 1 {
		count = 1
	}
	j.mu.Lock()
	j.opCount = count
	j.opIndex = 0
	j.mu.Unlock()
}

// NextOperation advances to the next operation, resetting the current
// progress values and the rate window. Advancing past the declared count
// clamps rather than failing.
func (j *Job) NextOperation() {
	j.mu.Lock()
	j.opIndex++
	if j.opCount > 0 && j.opIndex > j.opCount-1 {
		j.opIndex = j.opCount - 1
	}
	j.cur = nil
	j.total = nil
	delete(j.props, "cur")
	delete(j.props, "total")
	j.meter.reset()
	j.opStart = time.Now()
	j.updatedAt = time.Now()
	d := j.display
	j.mu.Unlock()
	if d != nil {
		d.jobUpdated(j)
	}
}

// overallScale is the resolution of the overall fraction in
// multi-operation mode; floating point mapping onto it lets the last
// operation reach exactly 100%.
const overallScale = 1_000_000

// OverallProgress returns the job's aggregate progress. In multi-operation
// mode the result maps completed operations plus the current operation's
// fraction onto a fixed scale; otherwise it is the raw current/total pair.
// ok is false when no progress tracking is active.
func (j *Job) OverallProgress() (cur, total uint64, ok bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return overallProgress(j.opCount, j.opIndex, j.cur, j.total)
}

func overallProgress(opCount, opIndex int, cur, total *uint64) (uint64, uint64, bool) {
	if opCount > 0 {
		perOp := float64(overallScale) / float64(opCount)
		completed := float64(opIndex) * perOp
		within := 0.0
		if cur != nil && total != nil && *total > 0 {
			within = float64(*cur) / float64(*total) * perOp
		}
		v := uint64(completed + within)
		if v > overallScale {
			v = overallScale
		}
		return v, overallScale, true
	}
	if cur != nil && total != nil {
		return *cur, *total, true
	}
	return 0, 0, false
}

// Println prints a line above the live progress region without corrupting
// it. Flex placeholders in the line are resolved against the terminal width.
func (j *Job) Println(s string) {
	j.mu.Lock()
	d := j.display
	j.mu.Unlock()
	if d == nil {
		d = Default()
	}
	d.Println(s)
}

// snapshot copies the job's state for rendering. Called with the parent
// chain unlocked; the job's own lock makes the copy atomic.
func (j *Job) snapshot() *JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()

	snap := &JobSnapshot{
		ID:        j.id,
		Status:    j.status,
		Body:      j.body,
		BodyText:  j.bodyText,
		OnDone:    j.onDone,
		CreatedAt: j.createdAt,
		OpStart:   j.opStart,
		Props:     make(map[string]any, len(j.props)),
	}
	for k, v := range j.props {
		snap.Props[k] = v
	}
	if j.cur != nil && j.total != nil {
		snap.HasProgress = true
		snap.Cur = *j.cur
		snap.Total = *j.total
		if snap.Cur > snap.Total {
			snap.Cur = snap.Total
		}
	}
	snap.Rate, snap.HasRate = j.meter.rate()
	snap.OverallCur, snap.OverallTotal, snap.HasOverall =
		overallProgress(j.opCount, j.opIndex, j.cur, j.total)
	return snap
}
