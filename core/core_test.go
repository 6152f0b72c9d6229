package core

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/usarops/readiness"
	"github.com/jonwraymond/usarops/task"
)

// stubSource is a scriptable subsystem source.
type stubSource struct {
	summary readiness.SubsystemSummary
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (s *stubSource) Summarize(ctx context.Context, taskForceID string) (readiness.SubsystemSummary, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return readiness.SubsystemSummary{}, ctx.Err()
		}
	}
	if s.err != nil {
		return readiness.SubsystemSummary{}, s.err
	}
	return s.summary, nil
}

func okSource(sub readiness.Subsystem, pct float64) *stubSource {
	return &stubSource{summary: readiness.SubsystemSummary{
		Subsystem:       sub,
		CompletenessPct: pct,
		Available:       true,
		AsOf:            time.Now(),
	}}
}

func newTestCore(t *testing.T, sources readiness.Sources, config ...Config) *Core {
	t.Helper()
	c, err := New(sources, config...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		c.Close(ctx)
	})
	return c
}

func TestCore_GetReadiness(t *testing.T) {
	c := newTestCore(t, readiness.Sources{
		Personnel: okSource(readiness.SubsystemPersonnel, 95),
		Equipment: okSource(readiness.SubsystemEquipment, 90),
		Mission:   okSource(readiness.SubsystemMission, 100),
	})

	snap, err := c.GetReadiness(context.Background(), Request{
		TaskForceID: "CA-TF1",
		Options:     readiness.AllSubsystems(),
	})
	if err != nil {
		t.Fatalf("GetReadiness: %v", err)
	}

	// .4*95 + .4*90 + .2*100 = 94
	if snap.CompositeScore == nil || *snap.CompositeScore != 94 {
		t.Errorf("CompositeScore = %v, want 94", snap.CompositeScore)
	}
	if snap.Status != readiness.StatusReady {
		t.Errorf("Status = %v, want READY", snap.Status)
	}
	if snap.Version != 1 {
		t.Errorf("Version = %d, want 1", snap.Version)
	}
	if snap.Stale {
		t.Error("first computation must not be stale")
	}
}

func TestCore_ValidatesTaskForceID(t *testing.T) {
	c := newTestCore(t, readiness.Sources{})

	valid := []string{"CA-TF1", "VA-TF2", "NY-TF10", "TX-TF99"}
	for _, id := range valid {
		if err := ValidateTaskForceID(id); err != nil {
			t.Errorf("ValidateTaskForceID(%q) = %v, want nil", id, err)
		}
	}

	invalid := []string{"", "ca-tf1", "CATF1", "CA-TF", "CA-TF123", "C-TF1", "CAL-TF1", "CA-TF1 "}
	for _, id := range invalid {
		_, err := c.GetReadiness(context.Background(), Request{TaskForceID: id, Options: readiness.AllSubsystems()})
		if !errors.Is(err, ErrInvalidTaskForceID) {
			t.Errorf("GetReadiness(%q) error = %v, want ErrInvalidTaskForceID", id, err)
		}
		if _, err := c.Invalidate(context.Background(), id); !errors.Is(err, ErrInvalidTaskForceID) {
			t.Errorf("Invalidate(%q) error = %v, want ErrInvalidTaskForceID", id, err)
		}
	}
}

func TestCore_SourceFailureDegrades(t *testing.T) {
	c := newTestCore(t, readiness.Sources{
		Personnel: okSource(readiness.SubsystemPersonnel, 100),
		Equipment: &stubSource{err: readiness.ErrSourceUnavailable},
		Mission:   okSource(readiness.SubsystemMission, 100),
	})

	snap, err := c.GetReadiness(context.Background(), Request{
		TaskForceID: "CA-TF1",
		Options:     readiness.AllSubsystems(),
	})
	if err != nil {
		t.Fatalf("a failing source must degrade, not fail: %v", err)
	}

	// Equipment contributes zero: .4*100 + .4*0 + .2*100 = 60.
	if snap.CompositeScore == nil || *snap.CompositeScore != 60 {
		t.Errorf("CompositeScore = %v, want 60", snap.CompositeScore)
	}
	if snap.Status != readiness.StatusDegraded {
		t.Errorf("Status = %v, want DEGRADED", snap.Status)
	}

	found := false
	for _, b := range snap.Bottlenecks {
		if b.Subsystem == readiness.SubsystemEquipment && b.Description == "data unavailable" {
			found = true
		}
	}
	if !found {
		t.Errorf("missing unavailable-equipment bottleneck, got %+v", snap.Bottlenecks)
	}
}

func TestCore_SubsetRenormalizes(t *testing.T) {
	c := newTestCore(t, readiness.Sources{
		Personnel: okSource(readiness.SubsystemPersonnel, 80),
		Equipment: okSource(readiness.SubsystemEquipment, 0),
		Mission:   okSource(readiness.SubsystemMission, 0),
	})

	snap, err := c.GetReadiness(context.Background(), Request{
		TaskForceID: "CA-TF1",
		Options:     readiness.Options{IncludePersonnel: true},
	})
	if err != nil {
		t.Fatalf("GetReadiness: %v", err)
	}
	// Personnel alone carries full weight after renormalization.
	if snap.CompositeScore == nil || *snap.CompositeScore != 80 {
		t.Errorf("CompositeScore = %v, want 80", snap.CompositeScore)
	}
}

func TestCore_NoSubsystemsIsUnknown(t *testing.T) {
	c := newTestCore(t, readiness.Sources{})

	snap, err := c.GetReadiness(context.Background(), Request{TaskForceID: "CA-TF1"})
	if err != nil {
		t.Fatalf("GetReadiness: %v", err)
	}
	if snap.Status != readiness.StatusUnknown {
		t.Errorf("Status = %v, want UNKNOWN", snap.Status)
	}
	if snap.CompositeScore != nil || snap.EstimatedDeploymentHours != nil {
		t.Error("score and deployment estimate must be undefined with no subsystems")
	}
}

func TestCore_ComputeTimeoutYieldsUnknown(t *testing.T) {
	slow := &stubSource{delay: time.Second}
	slow.summary = readiness.SubsystemSummary{Subsystem: readiness.SubsystemPersonnel, Available: true}

	c := newTestCore(t, readiness.Sources{Personnel: slow},
		Config{Tasks: task.Config{Workers: 2, TaskTimeout: 50 * time.Millisecond}},
	)

	snap, err := c.GetReadiness(context.Background(), Request{
		TaskForceID: "CA-TF1",
		Options:     readiness.Options{IncludePersonnel: true},
	})
	if err != nil {
		t.Fatalf("a timeout must degrade to UNKNOWN, not fail: %v", err)
	}
	if snap.Status != readiness.StatusUnknown {
		t.Errorf("Status = %v, want UNKNOWN", snap.Status)
	}
	if !strings.Contains(snap.Annotation, "deadline") {
		t.Errorf("Annotation = %q, want deadline explanation", snap.Annotation)
	}
}

func TestCore_CallerCancellation(t *testing.T) {
	slow := &stubSource{delay: time.Second}

	c := newTestCore(t, readiness.Sources{Personnel: slow},
		Config{Tasks: task.Config{Workers: 2, TaskTimeout: 5 * time.Second}},
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.GetReadiness(ctx, Request{
		TaskForceID: "CA-TF1",
		Options:     readiness.Options{IncludePersonnel: true},
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestCore_InvalidateForcesRecompute(t *testing.T) {
	src := okSource(readiness.SubsystemPersonnel, 100)
	c := newTestCore(t, readiness.Sources{Personnel: src})

	opts := readiness.Options{IncludePersonnel: true}
	snap1, err := c.GetReadiness(context.Background(), Request{TaskForceID: "CA-TF1", Options: opts})
	if err != nil {
		t.Fatalf("GetReadiness: %v", err)
	}

	removed, err := c.Invalidate(context.Background(), "CA-TF1")
	if err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	snap2, err := c.GetReadiness(context.Background(), Request{TaskForceID: "CA-TF1", Options: opts})
	if err != nil {
		t.Fatalf("GetReadiness after invalidate: %v", err)
	}
	if snap2.Version <= snap1.Version {
		t.Errorf("version after invalidation = %d, want > %d", snap2.Version, snap1.Version)
	}
	if got := src.calls.Load(); got != 2 {
		t.Errorf("source calls = %d, want 2", got)
	}
}

func TestCore_Stats(t *testing.T) {
	c := newTestCore(t, readiness.Sources{
		Personnel: okSource(readiness.SubsystemPersonnel, 100),
	})

	opts := readiness.Options{IncludePersonnel: true}
	for i := 0; i < 3; i++ {
		if _, err := c.GetReadiness(context.Background(), Request{TaskForceID: "CA-TF1", Options: opts}); err != nil {
			t.Fatalf("GetReadiness: %v", err)
		}
	}

	stats := c.Stats()
	if stats.Cache.Misses != 1 {
		t.Errorf("Misses = %d, want 1", stats.Cache.Misses)
	}
	if stats.Cache.Hits != 2 {
		t.Errorf("Hits = %d, want 2", stats.Cache.Hits)
	}
	if stats.Tasks.Completed != 1 {
		t.Errorf("Completed = %d, want 1", stats.Tasks.Completed)
	}
}
