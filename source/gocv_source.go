//go:build withcv
// +build withcv

/*
DESCRIPTION
  gocv_source.go provides a Source backed by gocv.VideoCapture, built
  only when the "withcv" tag is set, grounded on the host's own
  gocv-exp motion-detection example's OpenVideoCapture/Mat/Read usage.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package source

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"

	"github.com/fathomlight/atmopipe/frame"
)

// Webcam is a Source backed by a gocv.VideoCapture, converting each
// captured frame to RGBA via gocv.CvtColor.
type Webcam struct {
	deviceID string

	mu   sync.Mutex
	cap  *gocv.VideoCapture
	mat  gocv.Mat
	rgba gocv.Mat
}

// NewWebcam returns a Webcam reading from the given OpenCV device
// identifier (an index like "0", or a URL/path gocv.OpenVideoCapture
// accepts).
func NewWebcam(deviceID string) *Webcam {
	return &Webcam{deviceID: deviceID}
}

func (w *Webcam) ensureOpen() error {
	if w.cap != nil {
		return nil
	}
	cap, err := gocv.OpenVideoCapture(w.deviceID)
	if err != nil {
		return fmt.Errorf("source: webcam: open %q: %w", w.deviceID, err)
	}
	w.cap = cap
	w.mat = gocv.NewMat()
	w.rgba = gocv.NewMat()
	return nil
}

func (w *Webcam) DisplaySize(ctx context.Context) (int, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.ensureOpen(); err != nil {
		return 0, 0, err
	}
	return int(w.cap.Get(gocv.VideoCaptureFrameWidth)), int(w.cap.Get(gocv.VideoCaptureFrameHeight)), nil
}

// Grab reads the next frame and converts it to RGBA. The requested
// width/height are advisory only: gocv.VideoCapture delivers whatever
// size the device is currently configured for.
func (w *Webcam) Grab(ctx context.Context, width, height int) ([]byte, frame.Format, int, int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureOpen(); err != nil {
		return nil, frame.RGBA, 0, 0, err
	}
	if ok := w.cap.Read(&w.mat); !ok {
		return nil, frame.RGBA, 0, 0, ErrTimeout
	}
	if w.mat.Empty() {
		return nil, frame.RGBA, 0, 0, fmt.Errorf("source: webcam: empty frame")
	}

	gocv.CvtColor(w.mat, &w.rgba, gocv.ColorBGRToRGBA)
	pix, err := w.rgba.DataPtrUint8()
	if err != nil {
		return nil, frame.RGBA, 0, 0, fmt.Errorf("source: webcam: read frame data: %w", err)
	}

	out := make([]byte, len(pix))
	copy(out, pix)
	return out, frame.RGBA, w.rgba.Cols(), w.rgba.Rows(), nil
}

func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cap == nil {
		return nil
	}
	w.mat.Close()
	w.rgba.Close()
	err := w.cap.Close()
	w.cap = nil
	return err
}
