package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/harrisonrobin/auditboard/pkg/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	logger.Info("hidden")
	logger.WithField("rows", 3).Warn("saved with failures")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "saved with failures", entry["msg"])
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "auditboard", entry["service"])
	assert.EqualValues(t, 3, entry["rows"])
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	logger := New(config.LogConfig{Level: "chatty"}, &bytes.Buffer{})

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
