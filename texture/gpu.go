// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package texture

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/offscreen/framebuf"
)

// GPUOptions configures a GPU texture adapter.
type GPUOptions struct {
	// Format is the host texture format. Undefined means Provider.SurfaceFormat().
	Format gputypes.TextureFormat

	// Provider is the host device provider. Optional unless Format is Undefined.
	Provider gpucontext.DeviceProvider
}

// GPU adapts a host GPU texture to the Texture interface.
// Frames are copied into a staging slice under the frame lock and written
// to the device in CommitUpload, after the lock is released.
//
// GPU is NOT safe for concurrent use.
type GPU struct {
	updater gpucontext.TextureUpdater
	size    framebuf.Size
	staging []byte
	pending bool
	closed  bool
}

// NewGPU wraps updater, a texture created by the host with the given size.
func NewGPU(updater gpucontext.TextureUpdater, size framebuf.Size, opts GPUOptions) (*GPU, error) {
	if updater == nil {
		return nil, ErrNilUpdater
	}
	if !size.Valid() {
		return nil, fmt.Errorf("texture: %w", framebuf.ErrInvalidSize)
	}
	format := opts.Format
	if format == gputypes.TextureFormatUndefined && opts.Provider != nil {
		format = opts.Provider.SurfaceFormat()
	}
	if format != Format {
		return nil, fmt.Errorf("%w: %v", ErrFormat, format)
	}
	return &GPU{
		updater: updater,
		size:    size,
		staging: make([]byte, size.Bytes()),
	}, nil
}

// Size returns the texture dimensions.
func (t *GPU) Size() framebuf.Size {
	return t.size
}

// LoadRawData stages one frame for the next CommitUpload.
func (t *GPU) LoadRawData(data []byte) error {
	if t.closed {
		return ErrClosed
	}
	if err := checkLen(data, t.size); err != nil {
		return err
	}
	copy(t.staging, data)
	t.pending = true
	return nil
}

// CommitUpload writes the staged frame to the device. It is a no-op when
// nothing was staged since the last upload.
func (t *GPU) CommitUpload() error {
	if t.closed {
		return ErrClosed
	}
	if !t.pending {
		return nil
	}
	if err := t.updater.UpdateData(t.staging); err != nil {
		return fmt.Errorf("texture: upload failed: %w", err)
	}
	t.pending = false
	return nil
}

// Close detaches the adapter from the host texture. It does not destroy the
// texture, which the host owns. Close is idempotent.
func (t *GPU) Close() error {
	t.closed = true
	t.updater = nil
	return nil
}

var _ Texture = (*GPU)(nil)
