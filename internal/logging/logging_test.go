package logging_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simonhull/roost/internal/logging"
)

func TestNew_InfoLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, false)

	logger.Debug("debug detail")
	logger.Info("using default source root")
	_ = logger.Sync()

	assert.NotContains(t, buf.String(), "debug detail")
	assert.Contains(t, buf.String(), "using default source root")
}

func TestNew_Verbose(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, true)

	logger.Debug("debug detail")
	_ = logger.Sync()

	assert.Contains(t, buf.String(), "debug detail")
}
