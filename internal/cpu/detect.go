// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

//go:build !noasmtest
// +build !noasmtest

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// cpuArchLevel detects the optimization capabilities of the running CPU.
// Only little-endian 64-bit targets get a non-zero level since the word
// kernels load bytes with little-endian semantics.
func cpuArchLevel() int {
	switch runtime.GOARCH {
	case "amd64":
		switch {
		case cpu.X86.HasAVX2:
			return LevelWide
		case cpu.X86.HasSSE41:
			return LevelVector
		}
		return LevelWord
	case "arm64":
		if cpu.ARM64.HasASIMD {
			return LevelVector
		}
		return LevelWord
	case "ppc64le", "riscv64", "loong64", "mips64le":
		return LevelWord
	}
	return LevelScalar
}
