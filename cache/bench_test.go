package cache

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/usarops/readiness"
	"github.com/jonwraymond/usarops/task"
)

func BenchmarkFingerprint(b *testing.B) {
	opts := readiness.AllSubsystems()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Fingerprint("CA-TF1", opts)
	}
}

func BenchmarkGetOrCompute_Hit(b *testing.B) {
	m := task.NewManager(task.Config{Workers: 4, TaskTimeout: time.Second})
	defer m.Shutdown(context.Background())
	c := New(m, Config{TTL: time.Hour})

	ctx := context.Background()
	opts := readiness.AllSubsystems()
	compute := func(ctx context.Context) (*readiness.Snapshot, error) {
		score := 95.0
		return &readiness.Snapshot{TaskForceID: "CA-TF1", CompositeScore: &score, Status: readiness.StatusReady, ComputedAt: time.Now()}, nil
	}
	if _, err := c.GetOrCompute(ctx, "CA-TF1", opts, false, compute); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := c.GetOrCompute(ctx, "CA-TF1", opts, false, compute); err != nil {
			b.Fatal(err)
		}
	}
}
