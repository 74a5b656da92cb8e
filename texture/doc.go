// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package texture defines the host render targets that browser surfaces
// pull frames into.
//
// The data flow is:
//
//	runtime paint -> framebuf.Buffer -> Texture.LoadRawData -> Texture.CommitUpload
//
// Two implementations are provided:
//
//   - Image keeps frames in memory and can snapshot, scale and encode them.
//   - GPU forwards frames to a host texture through gpucontext.TextureUpdater,
//     so the package integrates with gogpu without importing it.
//
// All textures use BGRA8 (gputypes.TextureFormatBGRA8Unorm).
package texture
