package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		content string
		check   func(t *testing.T, cfg *Config)
		error   string
	}{
		"overrides defaults": {
			content: `
server_address = "0.0.0.0"
server_port = 7000
recordings_dir = "/var/lib/readrows"
strict = true
stop_timeout = "2s"
cors_origins = ["http://example.com"]
`,
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, "0.0.0.0", cfg.ServerAddress)
				require.Equal(t, 7000, cfg.ServerPort)
				require.Equal(t, 9444, cfg.AdminPort)
				require.Equal(t, "/var/lib/readrows", cfg.RecordingsDir)
				require.True(t, cfg.Strict)
				require.False(t, cfg.Debug)
				require.Equal(t, 2*time.Second, cfg.StopTimeout)
				require.Equal(t, []string{"http://example.com"}, cfg.CORSOrigins)
			},
		},
		"empty file keeps defaults": {
			content: "",
			check: func(t *testing.T, cfg *Config) {
				def, err := Default()
				require.NoError(t, err)
				require.Equal(t, def, cfg)
			},
		},
		"unknown key": {
			content: "server_port = 7000\nbackup_timer = 10\n",
			error:   "unknown config keys",
		},
		"invalid toml": {
			content: "server_port = ",
			error:   "failed to parse config file",
		},
		"invalid values": {
			content: "server_port = 0\nadmin_port = 70000\n",
			error:   "invalid server_port: 0\ninvalid admin_port: 70000",
		},
		"retention": {
			content: "recording_retention = \"72h\"\nreap_interval = \"10m\"\n",
			check: func(t *testing.T, cfg *Config) {
				require.Equal(t, 72*time.Hour, cfg.RecordingRetention)
				require.Equal(t, 10*time.Minute, cfg.ReapInterval)
			},
		},
		"retention without interval": {
			content: "recording_retention = \"72h\"\nreap_interval = \"0s\"\n",
			error:   "reap_interval must be positive",
		},
		"port clash": {
			content: "server_port = 9444\n",
			error:   "admin_port must differ from server_port",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Load(writeConfig(t, test.content))
			if test.error != "" {
				require.ErrorContains(t, err, test.error)
				require.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			test.check(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	require.Equal(t, def, cfg)
}

func TestWriteDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", configFileName)
	require.NoError(t, WriteDefault(path, false))
	require.ErrorContains(t, WriteDefault(path, false), "config already exists")
	require.NoError(t, WriteDefault(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)

	def, err := Default()
	require.NoError(t, err)
	require.Equal(t, def, cfg)
}

func TestDefaultPath(t *testing.T) {
	t.Parallel()

	path, err := DefaultPath()
	require.NoError(t, err)
	require.Equal(t, configFileName, filepath.Base(path))
}
