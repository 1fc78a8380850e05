// SPDX-License-Identifier: MIT

package logging_test

import (
	"testing"

	"github.com/katalvlaran/shmmul/logging"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewHonoursLevel(t *testing.T) {
	for _, format := range []string{logging.FormatJSON, logging.FormatConsole} {
		logger, err := logging.New("debug", format)
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
		require.Equal(t, "debug", logging.LevelOf(logger))
	}

	logger, err := logging.New("warn", logging.FormatConsole)
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := logging.New("chatty", logging.FormatJSON)
	require.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	for _, format := range []string{logging.FormatJSON, logging.FormatConsole} {
		got, err := logging.ParseFormat(format)
		require.NoError(t, err)
		require.Equal(t, format, got)
	}
	_, err := logging.ParseFormat("xml")
	require.Error(t, err)
}

func TestNewWorkerFallsBackToNop(t *testing.T) {
	require.Empty(t, logging.LevelOf(logging.NewWorker("")))
	require.Empty(t, logging.LevelOf(logging.NewWorker("chatty")))
	require.Equal(t, "info", logging.LevelOf(logging.NewWorker("info")))
}

func TestLevelOfNop(t *testing.T) {
	require.Empty(t, logging.LevelOf(nil))
	require.Empty(t, logging.LevelOf(zap.NewNop()))
}
