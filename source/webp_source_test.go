package source

import (
	"context"
	"testing"

	"github.com/fathomlight/atmopipe/internal/logging"
)

func TestWebPSequenceErrorsOnEmptyDir(t *testing.T) {
	s := NewWebPSequence((*logging.TestLogger)(t), t.TempDir(), false)
	_, _, err := s.DisplaySize(context.Background())
	if err == nil {
		t.Error("expected an error reading an empty directory")
	}
}

func TestWebPSequenceErrorsOnMissingDir(t *testing.T) {
	s := NewWebPSequence((*logging.TestLogger)(t), "/does/not/exist", false)
	_, _, _, _, err := s.Grab(context.Background(), 64, 64)
	if err == nil {
		t.Error("expected an error reading a missing directory")
	}
}
