package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"STORAGE_BACKEND", "DATA_DIR", "MAX_DB_CONNS", "AUTO_MIGRATE", "WRITE_RATE_LIMIT", "ALLOWED_ORIGINS"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	assert.Equal(t, BackendCSV, cfg.Backend)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, int32(4), cfg.MaxDBConns)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 120, cfg.WriteLimit)
	assert.Nil(t, cfg.AllowedOrigins)
	require.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "Postgres")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("MAX_DB_CONNS", "not-a-number")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")

	cfg := Load()

	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, int32(4), cfg.MaxDBConns)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"csv", Config{Backend: BackendCSV, DataDir: "d"}, true},
		{"csv without dir", Config{Backend: BackendCSV}, false},
		{"postgres", Config{Backend: BackendPostgres, DatabaseURL: "postgres://x", MaxDBConns: 1}, true},
		{"postgres without pool", Config{Backend: BackendPostgres, DatabaseURL: "postgres://x"}, false},
		{"unknown backend", Config{Backend: "mysql"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
