// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuf

import "image"

// ToRGBA converts a BGRA frame into a newly allocated *image.RGBA.
// Bytes past the end of a short frame are left zero.
func ToRGBA(bgra []byte, size Size) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	n := min(len(bgra), len(img.Pix))
	for i := 0; i+3 < n; i += BytesPerPixel {
		img.Pix[i+0] = bgra[i+2]
		img.Pix[i+1] = bgra[i+1]
		img.Pix[i+2] = bgra[i+0]
		img.Pix[i+3] = bgra[i+3]
	}
	return img
}

// FromRGBA converts img into a BGRA frame of the image's size.
func FromRGBA(img *image.RGBA) ([]byte, Size) {
	b := img.Bounds()
	size := Size{Width: b.Dx(), Height: b.Dy()}
	out := make([]byte, size.Bytes())
	for y := 0; y < size.Height; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+size.Stride()]
		dst := out[y*size.Stride() : (y+1)*size.Stride()]
		for i := 0; i < len(row); i += BytesPerPixel {
			dst[i+0] = row[i+2]
			dst[i+1] = row[i+1]
			dst[i+2] = row[i+0]
			dst[i+3] = row[i+3]
		}
	}
	return out, size
}
