// Copyright (c) 2024, Intel Corporation.
// SPDX-License-Identifier: BSD-3-Clause

package fastzlib

import (
	"testing"

	"github.com/intel/fastzlib/internal/cpu"
	"github.com/stretchr/testify/require"
)

func TestOptimized(t *testing.T) {
	restore := cpu.SetArchLevel(cpu.LevelScalar)
	require.False(t, Optimized())
	restore()

	restore = cpu.SetArchLevel(cpu.LevelWord)
	defer restore()
	require.True(t, Optimized())
}
