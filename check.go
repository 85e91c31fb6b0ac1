// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

// Package fastzlib provides a zlib codec whose streams match the
// reference implementation byte for byte, with CPU-gated wide paths for
// Adler-32 and match comparison.
package fastzlib

import "github.com/intel/fastzlib/internal/cpu"

// Optimized reports whether the wide paths are active. When it returns
// false the scalar routines are used, producing identical output.
func Optimized() bool {
	return cpu.ArchLevel > cpu.LevelScalar
}
