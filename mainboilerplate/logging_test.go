package mainboilerplate

import (
	"os"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestLogFormatterSelection(t *testing.T) {
	require.IsType(t, &log.JSONFormatter{}, newLogFormatter(LogConfig{Format: "json"}))

	require.Equal(t, &log.TextFormatter{}, newLogFormatter(LogConfig{Format: "text"}))
	require.Equal(t, &log.TextFormatter{FullTimestamp: true},
		newLogFormatter(LogConfig{Format: "text", Timestamps: true}))
	require.Equal(t, &log.TextFormatter{ForceColors: true},
		newLogFormatter(LogConfig{Format: "color"}))
}

func TestInitLogSetsLevelAndOutput(t *testing.T) {
	var prevLevel, prevFormatter = log.GetLevel(), log.StandardLogger().Formatter
	defer func() {
		log.SetLevel(prevLevel)
		log.SetFormatter(prevFormatter)
	}()

	InitLog(LogConfig{Level: "debug", Format: "json"})
	require.Equal(t, log.DebugLevel, log.GetLevel())
	require.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)
	require.Equal(t, os.Stderr, log.StandardLogger().Out)
}
