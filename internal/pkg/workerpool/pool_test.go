package workerpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
)

func TestRunAll_RunsEveryTask(t *testing.T) {
	var n atomic.Int32
	tasks := make([]Task, 0, 20)
	for i := 0; i < 20; i++ {
		tasks = append(tasks, func(context.Context) error {
			n.Add(1)
			return nil
		})
	}
	if err := RunAll(context.Background(), 4, tasks); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if n.Load() != 20 {
		t.Fatalf("expected 20 tasks run, got %d", n.Load())
	}
}

func TestRunAll_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	var n atomic.Int32
	tasks := []Task{
		func(context.Context) error { n.Add(1); return nil },
		func(context.Context) error { n.Add(1); return boom },
		func(context.Context) error { n.Add(1); return nil },
	}
	err := RunAll(context.Background(), 1, tasks)
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if n.Load() != 3 {
		t.Fatalf("expected all tasks to run, got %d", n.Load())
	}
}

func TestRunAll_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tasks := []Task{func(context.Context) error { return nil }}
	if err := RunAll(ctx, 2, tasks); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected err: %v", err)
	}
}
