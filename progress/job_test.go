package progress

import "testing"

func TestBuilderDefaults(t *testing.T) {
	j := NewJob().Build()
	snap := j.snapshot()
	if snap.Body != DefaultBody {
		t.Errorf("default body = %q, want %q", snap.Body, DefaultBody)
	}
	if snap.Status != StatusRunning {
		t.Errorf("default status = %v, want running", snap.Status)
	}
	if snap.HasProgress {
		t.Error("fresh job should not have progress")
	}
}

func TestBuilderIsValueSemantics(t *testing.T) {
	base := NewJob().Prop("message", "a")
	other := base.Prop("message", "b").Status(StatusPending)
	if got := base.Build().snapshot().Props["message"]; got != "a" {
		t.Errorf("base builder mutated: message = %v", got)
	}
	snap := other.Build().snapshot()
	if snap.Props["message"] != "b" || snap.Status != StatusPending {
		t.Errorf("derived builder lost settings: %+v", snap)
	}
}

func TestJobIDsUnique(t *testing.T) {
	a, b := NewJob().Build(), NewJob().Build()
	if a.ID() == b.ID() {
		t.Errorf("two jobs share id %d", a.ID())
	}
	if b.ID() <= a.ID() {
		t.Errorf("ids not increasing: %d then %d", a.ID(), b.ID())
	}
}

func TestProgressTotalRaisedToCurrent(t *testing.T) {
	j := NewJob().Build()
	j.ProgressCurrent(50)
	j.ProgressTotal(10)
	snap := j.snapshot()
	if snap.Total != 50 {
		t.Errorf("total = %d, want raised to 50", snap.Total)
	}
}

func TestSnapshotClampsOvershoot(t *testing.T) {
	j := NewJob().Build()
	j.ProgressTotal(100)
	j.ProgressCurrent(150)
	snap := j.snapshot()
	if snap.Cur != 100 || snap.Total != 100 {
		t.Errorf("snapshot = %d/%d, want clamped to 100/100", snap.Cur, snap.Total)
	}
}

func TestIncrement(t *testing.T) {
	j := NewJob().ProgressTotal(10).Build()
	j.Increment(3)
	j.Increment(4)
	snap := j.snapshot()
	if snap.Cur != 7 {
		t.Errorf("cur = %d, want 7", snap.Cur)
	}
}

func TestOverallProgressSingleOperation(t *testing.T) {
	j := NewJob().Build()
	if _, _, ok := j.OverallProgress(); ok {
		t.Error("untracked job reported progress")
	}
	j.ProgressTotal(200)
	j.ProgressCurrent(50)
	cur, total, ok := j.OverallProgress()
	if !ok || cur != 50 || total != 200 {
		t.Errorf("overall = %d/%d ok=%v, want 50/200", cur, total, ok)
	}
}

func TestOverallProgressMultiOperation(t *testing.T) {
	j := NewJob().Build()
	j.StartOperations(4)

	var last float64 = -1
	step := func() {
		cur, total, ok := j.OverallProgress()
		if !ok {
			t.Fatal("multi-operation job must always report progress")
		}
		frac := float64(cur) / float64(total)
		if frac < last {
			t.Fatalf("overall fraction went backwards: %f after %f", frac, last)
		}
		last = frac
	}

	for op := 0; op < 4; op++ {
		j.ProgressTotal(100)
		for _, cur := range []uint64{25, 50, 100} {
			j.ProgressCurrent(cur)
			step()
		}
		if op < 3 {
			j.NextOperation()
			step()
		}
	}

	cur, total, _ := j.OverallProgress()
	if cur != total {
		t.Errorf("final overall = %d/%d, want complete", cur, total)
	}
}

func TestNextOperationClampsAndResets(t *testing.T) {
	j := NewJob().Build()
	j.StartOperations(2)
	j.ProgressTotal(10)
	j.ProgressCurrent(10)
	j.NextOperation()
	j.NextOperation()
	j.NextOperation()
	snap := j.snapshot()
	if snap.HasProgress {
		t.Error("progress values should reset on operation change")
	}
	cur, total, _ := j.OverallProgress()
	if cur != total/2 {
		t.Errorf("overall = %d/%d, want clamped to start of last operation", cur, total)
	}
}
