package renderer

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCompletionGate_WaitsForAll(t *testing.T) {
	gate := NewCompletionGate()
	const jobs = 8

	for round := 0; round < 3; round++ {
		if err := gate.Arm(jobs); err != nil {
			t.Fatalf("Round %d: Arm failed: %v", round, err)
		}

		var mu sync.Mutex
		finished := 0
		for i := 0; i < jobs; i++ {
			go func() {
				time.Sleep(time.Millisecond)
				mu.Lock()
				finished++
				mu.Unlock()
				gate.Done()
			}()
		}
		gate.Wait()

		mu.Lock()
		got := finished
		mu.Unlock()
		if got != jobs {
			t.Errorf("Round %d: Wait returned after %d of %d jobs", round, got, jobs)
		}
		if gate.Pending() != 0 {
			t.Errorf("Round %d: %d jobs still pending", round, gate.Pending())
		}
	}
}

func TestCompletionGate_ArmWhileBusy(t *testing.T) {
	gate := NewCompletionGate()
	if err := gate.Arm(2); err != nil {
		t.Fatalf("Arm failed: %v", err)
	}
	if err := gate.Arm(1); !errors.Is(err, ErrGateBusy) {
		t.Errorf("Expected ErrGateBusy, got %v", err)
	}

	gate.Done()
	gate.Done()
	if err := gate.Arm(1); err != nil {
		t.Errorf("Idle gate should arm again, got %v", err)
	}
}

func TestCompletionGate_WaitIdle(t *testing.T) {
	gate := NewCompletionGate()
	done := make(chan struct{})
	go func() {
		gate.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait on an idle gate should return immediately")
	}
}

func TestCompletionGate_DoneWithoutWork(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Done on an idle gate should panic")
		}
	}()
	NewCompletionGate().Done()
}
