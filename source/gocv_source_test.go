//go:build withcv
// +build withcv

package source

import (
	"context"
	"testing"
)

// TestWebcamOpenFailsOnBadDevice exercises the error path only: a real
// capture device is not expected to be present in a test environment.
func TestWebcamOpenFailsOnBadDevice(t *testing.T) {
	w := NewWebcam("/dev/definitely-not-a-camera")
	_, _, _, _, err := w.Grab(context.Background(), 640, 480)
	if err == nil {
		t.Error("expected an error opening a nonexistent capture device")
		w.Close()
	}
}
