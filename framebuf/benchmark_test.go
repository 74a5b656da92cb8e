// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package framebuf

import "testing"

// BenchmarkWrite_HD benchmarks a full 1280x720 paint copy.
func BenchmarkWrite_HD(b *testing.B) {
	size := Size{Width: 1280, Height: 720}
	buf, _ := New(size)
	src := make([]byte, size.Bytes())

	b.SetBytes(int64(size.Bytes()))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = buf.Write(src)
	}
}

// BenchmarkCopyTo_HD benchmarks a full 1280x720 pull copy.
func BenchmarkCopyTo_HD(b *testing.B) {
	size := Size{Width: 1280, Height: 720}
	buf, _ := New(size)
	dst := make([]byte, size.Bytes())

	b.SetBytes(int64(size.Bytes()))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = buf.CopyTo(dst)
	}
}

// BenchmarkToRGBA_HD benchmarks BGRA to RGBA conversion for snapshots.
func BenchmarkToRGBA_HD(b *testing.B) {
	size := Size{Width: 1280, Height: 720}
	src := make([]byte, size.Bytes())

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = ToRGBA(src, size)
	}
}
