package logging

import (
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, log.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, log.InfoLevel, ParseLevel("unknown"))
}

func TestFormat(t *testing.T) {
	entry := &log.Entry{
		Time:    time.Date(2023, 1, 2, 3, 4, 5, 0, time.Local),
		Level:   log.InfoLevel,
		Message: "hello",
	}
	out, err := Format{}.Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2023-01-02 03:04:05] [INFO]: hello \n", string(out))

	colored, err := Format{EnableColor: true}.Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(colored), "[INFO]: hello")
	assert.Contains(t, string(colored), colorReset)
}

func TestLevelsUpTo(t *testing.T) {
	levels := levelsUpTo(log.WarnLevel)
	assert.Contains(t, levels, log.WarnLevel)
	assert.Contains(t, levels, log.ErrorLevel)
	assert.NotContains(t, levels, log.InfoLevel)
}
