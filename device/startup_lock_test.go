package device

import (
	"context"
	"testing"
	"time"
)

func TestDeviceStartupLockSerializesAcquisition(t *testing.T) {
	ctx := context.Background()
	if err := deviceStartupLock.Acquire(ctx, 1); err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		deviceStartupLock.Acquire(ctx, 1)
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatalf("second acquire should have blocked while the first holder has not released")
	case <-time.After(20 * time.Millisecond):
	}

	deviceStartupLock.Release(1)

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("second acquire never completed after release")
	}
	deviceStartupLock.Release(1)
}
