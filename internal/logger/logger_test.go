package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"development", "production"} {
		t.Run(env, func(t *testing.T) {
			log, err := New(env)
			require.NoError(t, err)
			require.NotNil(t, log)
			defer log.Sync()

			if env == "production" {
				assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
			} else {
				assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
			}
		})
	}
}
