// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package software

import (
	"hash/fnv"

	"github.com/gogpu/offscreen/browser"
	"github.com/gogpu/offscreen/framebuf"
)

// ScrollbarWidth is the width of the painted vertical scrollbar.
const ScrollbarWidth = 8

// Page is the state a Painter renders.
type Page struct {
	URL              string
	Frame            uint64
	Background       browser.Color
	ScrollbarsHidden bool
}

// Painter fills dst, a BGRA frame of size, with the page.
type Painter func(dst []byte, size framebuf.Size, page Page)

// DefaultPainter draws the background color, a horizontal band that moves
// one row per frame in a color derived from the URL, and a scrollbar
// along the right edge unless scrollbars are hidden.
func DefaultPainter(dst []byte, size framebuf.Size, page Page) {
	bg := page.Background
	fill(dst, 0, len(dst), bg.B, bg.G, bg.R, bg.A)

	h := fnv.New32a()
	_, _ = h.Write([]byte(page.URL))
	c := h.Sum32()
	band := int(page.Frame % uint64(size.Height))
	start := band * size.Stride()
	fill(dst, start, start+size.Stride(), byte(c), byte(c>>8), byte(c>>16), 0xFF)

	if page.ScrollbarsHidden || size.Width <= ScrollbarWidth {
		return
	}
	for y := 0; y < size.Height; y++ {
		row := y*size.Stride() + (size.Width-ScrollbarWidth)*framebuf.BytesPerPixel
		fill(dst, row, row+ScrollbarWidth*framebuf.BytesPerPixel, 0xC0, 0xC0, 0xC0, 0xFF)
	}
}

// SolidPainter returns a Painter that fills every pixel with one BGRA color.
func SolidPainter(b, g, r, a byte) Painter {
	return func(dst []byte, _ framebuf.Size, _ Page) {
		fill(dst, 0, len(dst), b, g, r, a)
	}
}

func fill(dst []byte, from, to int, b, g, r, a byte) {
	for i := from; i+3 < to && i+3 < len(dst); i += framebuf.BytesPerPixel {
		dst[i+0] = b
		dst[i+1] = g
		dst[i+2] = r
		dst[i+3] = a
	}
}
