// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuf

import "fmt"

// BytesPerPixel is the stride of one BGRA pixel.
const BytesPerPixel = 4

// Size is the pixel extent of a surface. It is fixed at surface creation;
// resizing means destroying the surface and creating a new one.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// NewSize returns a Size, validating both dimensions.
func NewSize(width, height int) (Size, error) {
	s := Size{Width: width, Height: height}
	if !s.Valid() {
		return Size{}, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidSize, width, height)
	}
	return s, nil
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Ratio returns width divided by height. It returns 0 for an invalid size.
func (s Size) Ratio() float64 {
	if s.Height == 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// Pixels returns the number of pixels.
func (s Size) Pixels() int {
	return s.Width * s.Height
}

// Bytes returns the length of one BGRA frame of this size.
func (s Size) Bytes() int {
	return s.Pixels() * BytesPerPixel
}

// Stride returns the number of bytes per row.
func (s Size) Stride() int {
	return s.Width * BytesPerPixel
}

// Scale returns the size multiplied by k in both dimensions.
func (s Size) Scale(k int) Size {
	return Size{Width: s.Width * k, Height: s.Height * k}
}

// String implements fmt.Stringer.
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}
