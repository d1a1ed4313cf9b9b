package logger_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rrens/business-assistant/internal/config"
	"github.com/Rrens/business-assistant/internal/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Level(t *testing.T) {
	closer, err := logger.Setup(config.LoggingConfig{Level: "debug", Format: "json"}, "production")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetup_InvalidLevelFallsBackToInfo(t *testing.T) {
	closer, err := logger.Setup(config.LoggingConfig{Level: "loud"}, "production")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetup_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "assistant.log")

	closer, err := logger.Setup(config.LoggingConfig{
		Level:      "info",
		Format:     "json",
		File:       path,
		MaxAge:     24 * time.Hour,
		RotateTime: time.Hour,
	}, "production")
	require.NoError(t, err)

	log.Info().Str("component", "test").Msg("written to file")
	require.NoError(t, closer.Close())

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
