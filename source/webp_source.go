/*
DESCRIPTION
  webp_source.go provides a Source backed by a directory of WebP image
  files, read and looped in sorted filename order. It keeps the
  original file device's open/loop/mutex structure, replacing the raw
  byte Reader with decoded image frames.

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
	"image"
	"image/draw"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/HugoSmits86/nativewebp"

	"github.com/fathomlight/atmopipe/frame"
	"github.com/fathomlight/atmopipe/internal/logging"
)

// WebPSequence is a Source that reads and decodes ".webp" files from a
// directory in sorted filename order, looping back to the first file
// once the last one has been delivered when loop is set, and otherwise
// failing every Grab after the last file. Frames are decoded, not resized
// to the caller's request: Grab reports the decoded image's native
// dimensions as actualWidth/actualHeight.
type WebPSequence struct {
	dir   string
	loop  bool
	log   logging.Logger
	names []string

	mu  sync.Mutex
	pos int
}

// NewWebPSequence returns a WebPSequence reading images from dir.
func NewWebPSequence(l logging.Logger, dir string, loop bool) *WebPSequence {
	return &WebPSequence{log: l, dir: dir, loop: loop}
}

func (s *WebPSequence) open() error {
	if s.names != nil {
		return nil
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("source: webp: read dir %q: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".webp" {
			continue
		}
		names = append(names, filepath.Join(s.dir, e.Name()))
	}
	sort.Strings(names)
	if len(names) == 0 {
		return fmt.Errorf("source: webp: no .webp files in %q", s.dir)
	}
	s.names = names
	return nil
}

func (s *WebPSequence) DisplaySize(ctx context.Context) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.open(); err != nil {
		return 0, 0, err
	}
	i := s.pos
	if i >= len(s.names) {
		i = 0
	}
	img, err := s.decode(s.names[i])
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}

// Grab decodes the next frame in sequence, advancing the position and
// looping back to the start when loop is true and the last file has
// been reached.
func (s *WebPSequence) Grab(ctx context.Context, width, height int) ([]byte, frame.Format, int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.open(); err != nil {
		return nil, frame.RGBA, 0, 0, err
	}
	if s.pos >= len(s.names) {
		if !s.loop {
			return nil, frame.RGBA, 0, 0, fmt.Errorf("source: webp: sequence exhausted")
		}
		s.log.Info("looping webp image sequence")
		s.pos = 0
	}

	img, err := s.decode(s.names[s.pos])
	s.pos++
	if err != nil {
		return nil, frame.RGBA, 0, 0, err
	}

	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba.Pix, frame.RGBA, b.Dx(), b.Dy(), nil
}

func (s *WebPSequence) decode(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: webp: open %q: %w", path, err)
	}
	defer f.Close()

	img, err := nativewebp.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("source: webp: decode %q: %w", path, err)
	}
	return img, nil
}

func (s *WebPSequence) Close() error { return nil }
