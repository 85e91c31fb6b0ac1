// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

//go:build noasmtest
// +build noasmtest

package cpu

// cpuArchLevel returns LevelScalar when optimized kernels are disabled
// by the noasmtest build tag.
func cpuArchLevel() int {
	return LevelScalar
}
