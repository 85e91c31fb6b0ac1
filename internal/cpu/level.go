// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package cpu provides CPU architecture detection used to select the
// lane width of the checksum and match-finding kernels.
package cpu

// Architecture levels. Each level above LevelScalar doubles the lane
// width of the Adler-32 kernel; match finding compares whole words from
// LevelWord up.
//   - LevelScalar: byte-at-a-time loops only
//   - LevelWord: 64-bit little-endian loads are cheap, 8-byte lanes
//   - LevelVector: 128-bit SIMD units present (SSE4.1 or ASIMD), 16-byte lanes
//   - LevelWide: 256-bit SIMD units present (AVX2), 32-byte lanes
const (
	LevelScalar = iota
	LevelWord
	LevelVector
	LevelWide
)

// ArchLevel is the detected CPU architecture level. It is determined
// at package initialization time.
var (
	ArchLevel = cpuArchLevel()
)

// SetArchLevel overrides ArchLevel and returns a function restoring
// the previous value. It is meant for tests that exercise both the
// scalar and the wide kernels on the same machine; it must not be
// called concurrently with compression.
func SetArchLevel(level int) (restore func()) {
	old := ArchLevel
	ArchLevel = level
	return func() { ArchLevel = old }
}
