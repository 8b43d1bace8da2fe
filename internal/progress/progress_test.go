package progress

import (
	"sync"
	"testing"
)

func TestTryStartRefusesConcurrentRun(t *testing.T) {
	t.Parallel()

	r := NewRegister()
	if !r.TryStart("loading") {
		t.Fatal("first TryStart should succeed")
	}
	if r.TryStart("again") {
		t.Fatal("second TryStart should be refused while in progress")
	}

	r.Complete("done")
	if !r.TryStart("new run") {
		t.Fatal("TryStart should succeed after completion")
	}
}

func TestSnapshotTracksMilestones(t *testing.T) {
	t.Parallel()

	r := NewRegister()
	r.TryStart("loading")
	r.Progress("classifying projects", 40)

	s := r.Snapshot()
	if !s.InProgress || s.Percent != 40 || s.Message != "classifying projects" {
		t.Fatalf("unexpected state: %+v", s)
	}

	r.Complete("report generated")
	s = r.Snapshot()
	if s.InProgress || !s.Completed || s.Percent != 100 {
		t.Fatalf("unexpected final state: %+v", s)
	}
}

func TestFailKeepsLastPercent(t *testing.T) {
	t.Parallel()

	r := NewRegister()
	r.TryStart("loading")
	r.Progress("allocating", 60)
	r.Fail("header row not found")

	s := r.Snapshot()
	if s.InProgress || s.Completed {
		t.Fatalf("unexpected state after failure: %+v", s)
	}
	if s.Message != "header row not found" || s.Percent != 60 {
		t.Fatalf("unexpected failure snapshot: %+v", s)
	}
}

func TestConcurrentReaders(t *testing.T) {
	t.Parallel()

	r := NewRegister()
	r.TryStart("running")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Snapshot()
			}
		}()
	}
	for j := 0; j <= 100; j += 10 {
		r.Progress("working", j)
	}
	wg.Wait()
}
