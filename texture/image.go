// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"image"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"

	"github.com/gogpu/offscreen/framebuf"
)

// Image is a CPU-backed texture. It keeps the last loaded frame and the
// last committed frame separately, like a staging buffer and its upload.
//
// Image is NOT safe for concurrent use; it belongs to the host tick.
type Image struct {
	size      framebuf.Size
	staging   []byte
	committed []byte
	loads     int
	uploads   int
}

// NewImage creates a zero-filled texture of the given size.
func NewImage(size framebuf.Size) (*Image, error) {
	if !size.Valid() {
		return nil, framebuf.ErrInvalidSize
	}
	return &Image{
		size:      size,
		staging:   make([]byte, size.Bytes()),
		committed: make([]byte, size.Bytes()),
	}, nil
}

// Size returns the texture dimensions.
func (t *Image) Size() framebuf.Size {
	return t.size
}

// LoadRawData copies data into the staging buffer.
func (t *Image) LoadRawData(data []byte) error {
	if err := checkLen(data, t.size); err != nil {
		return err
	}
	copy(t.staging, data)
	t.loads++
	return nil
}

// CommitUpload publishes the staging buffer.
func (t *Image) CommitUpload() error {
	copy(t.committed, t.staging)
	t.uploads++
	return nil
}

// Loads returns how many times LoadRawData succeeded.
func (t *Image) Loads() int {
	return t.loads
}

// Uploads returns how many times CommitUpload ran.
func (t *Image) Uploads() int {
	return t.uploads
}

// Bytes returns the committed BGRA frame. The slice is owned by the texture.
func (t *Image) Bytes() []byte {
	return t.committed
}

// Snapshot returns the committed frame as an RGBA image.
func (t *Image) Snapshot() *image.RGBA {
	return framebuf.ToRGBA(t.committed, t.size)
}

// Thumbnail returns the committed frame scaled to fit within maxW x maxH,
// preserving the aspect ratio.
func (t *Image) Thumbnail(maxW, maxH int) *image.RGBA {
	w, h := fit(t.size, maxW, maxH)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	src := t.Snapshot()
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// EncodeBMP writes the committed frame to w as a BMP image.
func (t *Image) EncodeBMP(w io.Writer) error {
	return bmp.Encode(w, t.Snapshot())
}

func fit(size framebuf.Size, maxW, maxH int) (int, int) {
	if maxW <= 0 || maxH <= 0 {
		return size.Width, size.Height
	}
	w, h := maxW, maxW*size.Height/size.Width
	if h > maxH {
		h = maxH
		w = maxH * size.Width / size.Height
	}
	return max(w, 1), max(h, 1)
}

var _ Texture = (*Image)(nil)
