package progress

import (
	"sync"
	"time"
)

// JobSnapshot is an immutable copy of one job's renderable state, taken at
// the start of a frame. The renderer and diagnostics emitter only ever see
// snapshots, so a frame is internally consistent even while jobs keep
// mutating underneath it.
type JobSnapshot struct {
	ID       uint64
	Status   Status
	Body     string
	BodyText string
	OnDone   DoneBehavior
	Props    map[string]any

	HasProgress bool
	Cur         uint64
	Total       uint64

	HasRate bool
	Rate    float64

	HasOverall   bool
	OverallCur   uint64
	OverallTotal uint64

	CreatedAt time.Time
	OpStart   time.Time

	Children []*JobSnapshot
}

// Tree is the store of root jobs for one display. It owns only the root
// list; parent/child links live on the jobs themselves.
type Tree struct {
	mu    sync.Mutex
	roots []*Job
}

func newTree() *Tree {
	return &Tree{}
}

// insertRoot appends a new root job.
func (t *Tree) insertRoot(j *Job) {
	t.mu.Lock()
	t.roots = append(t.roots, j)
	t.mu.Unlock()
}

// removeRoot detaches the root job with the given id, if present.
func (t *Tree) removeRoot(id uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	kept := t.roots[:0]
	for _, j := range t.roots {
		if j.id != id {
			kept = append(kept, j)
		}
	}
	t.roots = kept
}

// rootJobs returns the current roots, oldest first.
func (t *Tree) rootJobs() []*Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Job, len(t.roots))
	copy(out, t.roots)
	return out
}

// jobCount returns the total number of jobs in the tree.
func (t *Tree) jobCount() int {
	n := 0
	for _, j := range t.rootJobs() {
		n += countJobs(j)
	}
	return n
}

func countJobs(j *Job) int {
	n := 1
	for _, c := range j.Children() {
		n += countJobs(c)
	}
	return n
}

// activeJobs returns how many jobs in the tree are still running.
func (t *Tree) activeJobs() int {
	n := 0
	for _, j := range t.rootJobs() {
		n += countActive(j)
	}
	return n
}

func countActive(j *Job) int {
	n := 0
	if j.IsRunning() {
		n++
	}
	for _, c := range j.Children() {
		n += countActive(c)
	}
	return n
}

// snapshotAll copies the whole forest and applies completion behavior:
// DoneHide jobs are removed without appearing in the frame, DoneCollapse
// jobs appear in this frame and are removed for the next one, DoneKeep jobs
// stay. Children of a completed job are included only while the parent is
// kept.
func (t *Tree) snapshotAll() []*JobSnapshot {
	var frame []*JobSnapshot
	for _, j := range t.rootJobs() {
		snap, keep := snapshotJob(j)
		if snap != nil {
			frame = append(frame, snap)
		}
		if !keep {
			t.removeRoot(j.id)
		}
	}
	return frame
}

// snapshotJob returns the snapshot to render for this frame (nil when the
// job is hidden) and whether the job should remain in the tree afterwards.
func snapshotJob(j *Job) (*JobSnapshot, bool) {
	snap := j.snapshot()
	if snap.Status == StatusHide {
		return nil, true
	}
	if snap.Status.Terminal() {
		switch snap.OnDone {
		case DoneHide:
			return nil, false
		case DoneCollapse:
			return snap, false
		}
	}
	for _, c := range j.Children() {
		cs, keep := snapshotJob(c)
		if cs != nil {
			snap.Children = append(snap.Children, cs)
		}
		if !keep {
			j.removeChild(c.id)
		}
	}
	return snap, true
}
