package progress

import "testing"

func testTree(jobs ...*Job) *Tree {
	tr := newTree()
	for _, j := range jobs {
		tr.insertRoot(j)
	}
	return tr
}

func TestSnapshotAllKeep(t *testing.T) {
	j := NewJob().Prop("message", "work").Build()
	tr := testTree(j)
	j.status = StatusDone
	for i := 0; i < 3; i++ {
		frame := tr.snapshotAll()
		if len(frame) != 1 {
			t.Fatalf("frame %d has %d jobs, want 1 (DoneKeep)", i, len(frame))
		}
	}
	if tr.jobCount() != 1 {
		t.Errorf("job count = %d, want 1", tr.jobCount())
	}
}

func TestSnapshotAllCollapse(t *testing.T) {
	j := NewJob().OnDone(DoneCollapse).Build()
	tr := testTree(j)
	j.status = StatusDone
	if frame := tr.snapshotAll(); len(frame) != 1 {
		t.Fatalf("collapsing job missing from its final frame")
	}
	if frame := tr.snapshotAll(); len(frame) != 0 {
		t.Errorf("collapsed job still rendered: %d jobs", len(frame))
	}
	if tr.jobCount() != 0 {
		t.Errorf("collapsed job still in tree")
	}
}

func TestSnapshotAllHide(t *testing.T) {
	j := NewJob().OnDone(DoneHide).Build()
	tr := testTree(j)
	j.status = StatusFailed
	if frame := tr.snapshotAll(); len(frame) != 0 {
		t.Errorf("hidden job rendered in %d-job frame", len(frame))
	}
	if tr.jobCount() != 0 {
		t.Errorf("hidden job still in tree")
	}
}

func TestStatusHideSuppressesWithoutRemoving(t *testing.T) {
	j := NewJob().Build()
	tr := testTree(j)
	j.status = StatusHide
	if frame := tr.snapshotAll(); len(frame) != 0 {
		t.Error("hidden status still rendered")
	}
	if tr.jobCount() != 1 {
		t.Error("hidden job was removed from the tree")
	}
}

func TestChildSnapshotsNest(t *testing.T) {
	root := NewJob().Build()
	child := root.Add(NewJob())
	grandchild := child.Add(NewJob())
	tr := testTree(root)

	frame := tr.snapshotAll()
	if len(frame) != 1 || len(frame[0].Children) != 1 || len(frame[0].Children[0].Children) != 1 {
		t.Fatalf("nesting lost in snapshot")
	}
	if frame[0].Children[0].Children[0].ID != grandchild.ID() {
		t.Errorf("grandchild id mismatch")
	}
}

func TestChildCollapseRemovesSubtree(t *testing.T) {
	root := NewJob().Build()
	child := root.Add(NewJob().OnDone(DoneCollapse))
	child.Add(NewJob())
	tr := testTree(root)

	child.status = StatusDone
	tr.snapshotAll()
	tr.snapshotAll()
	if n := tr.jobCount(); n != 1 {
		t.Errorf("job count = %d after collapse, want 1 (root only)", n)
	}
	if len(root.Children()) != 0 {
		t.Error("collapsed child still attached to parent")
	}
}

func TestRemoveDetachesSubtree(t *testing.T) {
	root := NewJob().Build()
	child := root.Add(NewJob())
	child.Add(NewJob())
	tr := testTree(root)

	if n := tr.jobCount(); n != 3 {
		t.Fatalf("job count = %d, want 3", n)
	}
	child.Remove()
	if n := tr.jobCount(); n != 1 {
		t.Errorf("job count = %d after remove, want 1", n)
	}
}

func TestActiveJobsCountsRunningOnly(t *testing.T) {
	a := NewJob().Build()
	b := NewJob().Status(StatusPending).Build()
	tr := testTree(a, b)
	if n := tr.activeJobs(); n != 1 {
		t.Errorf("active jobs = %d, want 1", n)
	}
	a.status = StatusDone
	if n := tr.activeJobs(); n != 0 {
		t.Errorf("active jobs = %d after completion, want 0", n)
	}
}
