// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/offscreen/framebuf"
)

// Common errors returned by textures.
var (
	// ErrSizeMismatch is returned when raw data does not match the texture size.
	ErrSizeMismatch = errors.New("texture: size mismatch")

	// ErrFormat is returned when a host texture is not BGRA8.
	ErrFormat = errors.New("texture: unsupported format")

	// ErrClosed is returned when a closed texture is used.
	ErrClosed = errors.New("texture: closed")

	// ErrNilUpdater is returned when a GPU texture is created without an updater.
	ErrNilUpdater = errors.New("texture: nil TextureUpdater")
)

// Format is the only pixel format surfaces produce.
const Format = gputypes.TextureFormatBGRA8Unorm

// Texture is the host render target a surface pulls frames into.
//
// LoadRawData is called with the frame lock held and must only copy.
// CommitUpload is called after the lock is released and may do the
// expensive part of the upload.
type Texture interface {
	// Size returns the texture dimensions.
	Size() framebuf.Size

	// LoadRawData replaces the texture contents with one BGRA frame.
	LoadRawData(data []byte) error

	// CommitUpload marks the loaded data for upload to the renderer.
	CommitUpload() error
}

func checkLen(data []byte, size framebuf.Size) error {
	if len(data) != size.Bytes() {
		return fmt.Errorf("%w: got %d bytes, want %d for %s", ErrSizeMismatch, len(data), size.Bytes(), size)
	}
	return nil
}
