/*
 * logger_test.go, part of gomlp.
 *
 * Copyright 2024 The gomlp Authors
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestVerbosity(Te *testing.T) {
	assert.Equal(Te, zapcore.WarnLevel, VerbosityToLevel(0))
	assert.Equal(Te, zapcore.InfoLevel, VerbosityToLevel(1))
	assert.Equal(Te, zapcore.DebugLevel, VerbosityToLevel(5))
	assert.Equal(Te, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(Te, zapcore.InfoLevel, ParseLevel("nonsense"))
}

func TestInitialize(Te *testing.T) {
	require.NotNil(Te, Logger)
	require.NoError(Te, Initialize(true, zapcore.ErrorLevel))
	assert.True(Te, JSONOutput)
	Logger.Infow("not shown", "key", 1)
	require.NoError(Te, Initialize(false, zapcore.WarnLevel))
	assert.False(Te, JSONOutput)
	Cleanup()
}
