package services

import (
	"context"
	"sync"
	"testing"
)

func TestTaskTypeActivity_Constant(t *testing.T) {
	if TaskTypeActivity != "activity:record" {
		t.Errorf("TaskTypeActivity = %q, expected %q", TaskTypeActivity, "activity:record")
	}
}

func TestSyncQueue_New(t *testing.T) {
	queue := NewSyncQueue()
	if queue == nil {
		t.Error("NewSyncQueue should not return nil")
	}
}

func TestSyncQueue_IsAsync(t *testing.T) {
	queue := NewSyncQueue()
	if queue.IsAsync() {
		t.Error("SyncQueue.IsAsync() should return false")
	}
}

func TestSyncQueue_Close(t *testing.T) {
	queue := NewSyncQueue()
	err := queue.Close()
	if err != nil {
		t.Errorf("SyncQueue.Close() should return nil, got %v", err)
	}
}

func TestSyncQueue_EnqueueWithoutProcessor(t *testing.T) {
	queue := NewSyncQueue()
	err := queue.Enqueue(&ActivityTask{Username: "alice", Action: "Login"})
	if err != nil {
		t.Errorf("Enqueue without processor should not error, got %v", err)
	}
}

func TestSyncQueue_ProcessesBeforeClose(t *testing.T) {
	queue := NewSyncQueue()

	var mu sync.Mutex
	var got []string
	queue.SetProcessor(func(ctx context.Context, task *ActivityTask) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, task.Action)
		return nil
	})

	for _, action := range []string{"Create", "Approve", "Reject"} {
		if err := queue.Enqueue(&ActivityTask{Username: "alice", Action: action}); err != nil {
			t.Fatalf("Enqueue(%s) error = %v", action, err)
		}
	}
	queue.Close()

	if len(got) != 3 {
		t.Errorf("processed %d tasks, expected 3", len(got))
	}
}

func TestAsyncQueue_IsAsync(t *testing.T) {
	queue := &AsyncQueue{}
	if !queue.IsAsync() {
		t.Error("AsyncQueue.IsAsync() should return true")
	}
}

func TestActivityLogger_NilSafe(t *testing.T) {
	var l *ActivityLogger
	l.Record("alice", "Login", "logged in")
	l.Enqueue(&ActivityTask{Action: "Login"})
}
