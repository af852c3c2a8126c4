package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/litetable/litetable-readrows/internal/litetable"
)

const (
	configFileName = "readrows.toml"
)

type Config struct {
	ServerAddress string   `toml:"server_address"`
	ServerPort    int      `toml:"server_port"`
	AdminPort     int      `toml:"admin_port"`
	CORSOrigins   []string `toml:"cors_origins,omitempty"`
	RecordingsDir string   `toml:"recordings_dir"`
	// RecordingRetention of zero keeps recordings forever
	RecordingRetention time.Duration `toml:"recording_retention"`
	ReapInterval       time.Duration `toml:"reap_interval"`
	Strict             bool          `toml:"strict"`
	Debug              bool          `toml:"debug"`
	StopTimeout        time.Duration `toml:"stop_timeout"`
}

// Default returns the configuration used for every key the file leaves out.
func Default() (*Config, error) {
	liteTableDir, err := litetable.GetLitetableDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get LiteTable directory: %w", err)
	}

	return &Config{
		ServerAddress: "127.0.0.1",
		ServerPort:    9443,
		AdminPort:     9444,
		RecordingsDir: liteTableDir,
		ReapInterval:  time.Hour,
		StopTimeout:   5 * time.Second,
	}, nil
}

// DefaultPath is where the configuration file lives when no path is given.
func DefaultPath() (string, error) {
	liteTableDir, err := litetable.GetLitetableDir()
	if err != nil {
		return "", fmt.Errorf("failed to get LiteTable directory: %w", err)
	}
	return filepath.Join(liteTableDir, configFileName), nil
}

// Load decodes the file at path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errGrp []error
	if c.ServerAddress == "" {
		errGrp = append(errGrp, errors.New("server_address required"))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errGrp = append(errGrp, fmt.Errorf("invalid server_port: %d", c.ServerPort))
	}
	if c.AdminPort <= 0 || c.AdminPort > 65535 {
		errGrp = append(errGrp, fmt.Errorf("invalid admin_port: %d", c.AdminPort))
	}
	if c.AdminPort == c.ServerPort {
		errGrp = append(errGrp, errors.New("admin_port must differ from server_port"))
	}
	if c.RecordingsDir == "" {
		errGrp = append(errGrp, errors.New("recordings_dir required"))
	}
	if c.RecordingRetention < 0 {
		errGrp = append(errGrp, errors.New("recording_retention cannot be negative"))
	}
	if c.RecordingRetention > 0 && c.ReapInterval <= 0 {
		errGrp = append(errGrp, errors.New("reap_interval must be positive"))
	}
	if c.StopTimeout <= 0 {
		errGrp = append(errGrp, errors.New("stop_timeout must be positive"))
	}

	return errors.Join(errGrp...)
}

// WriteDefault writes the default configuration to path. An existing file is left alone
// unless overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}

	cfg, err := Default()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
