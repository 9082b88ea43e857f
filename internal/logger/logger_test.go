package logger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logpkg "github.com/maxviazov/catalog-service/internal/logger"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		config    *logpkg.LoggerConfig
		wantErr   bool
		wantLevel zerolog.Level
	}{
		{
			name: "valid production environment",
			config: &logpkg.LoggerConfig{
				ServiceName: "test-service",
				Env:         "prod",
				Level:       "info",
				TimeField:   "timestamp",
				TimeFormat:  "unix",
				Fields:      map[string]interface{}{"key": "value"},
			},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:    "invalid configuration - wrong env",
			config:  &logpkg.LoggerConfig{Env: "wrong-env", Level: "debug"},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			config:  &logpkg.LoggerConfig{Env: "prod", Level: "invalid-level"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  &logpkg.LoggerConfig{Env: "prod", Format: "xml"},
			wantErr: true,
		},
		{
			name:      "staging defaults to json with stacktrace",
			config:    &logpkg.LoggerConfig{Env: "staging", Level: "warn"},
			wantLevel: zerolog.WarnLevel,
		},
		{
			name:      "development without debug",
			config:    &logpkg.LoggerConfig{Env: "dev", Level: "info", TimeFormat: "rfc3339"},
			wantLevel: zerolog.InfoLevel,
		},
		{
			name:      "test environment with error level",
			config:    &logpkg.LoggerConfig{Env: "test", Level: "error", OutputTarget: "stderr"},
			wantLevel: zerolog.ErrorLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := logpkg.New(tc.config)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLevel, zerolog.GlobalLevel())
		})
	}
}

func TestNew_DefaultsAreApplied(t *testing.T) {
	cfg := &logpkg.LoggerConfig{}
	_, err := logpkg.New(cfg)
	require.NoError(t, err)
	assert.Equal(t, "prod", cfg.Env)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.OutputTarget)
	assert.Equal(t, "catalog-service", cfg.ServiceName)
	assert.True(t, cfg.Stacktrace)
	assert.NotNil(t, cfg.Fields)
}

func TestNew_DebugFileInDevelopment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	cfg := &logpkg.LoggerConfig{Env: "dev", Level: "debug", DebugFile: path}

	l, err := logpkg.New(cfg)
	require.NoError(t, err)
	l.Debug().Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
