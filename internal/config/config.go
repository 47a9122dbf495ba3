// Package config loads binary configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	ErrNilPointer    = errors.New("nil pointer passed to config loader")
	ErrInvalidConfig = errors.New("invalid configuration")
)

var dotenvLoaded sync.Once

// Demo configures cmd/demo.
type Demo struct {
	LogLevel       string `env:"TYPEDFSM_LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"TYPEDFSM_LOG_FORMAT" envDefault:"text"`
	MachineID      string `env:"TYPEDFSM_MACHINE_ID" envDefault:"demo"`
	SnapshotDir    string `env:"TYPEDFSM_SNAPSHOT_DIR"`
	SnapshotFormat string `env:"TYPEDFSM_SNAPSHOT_FORMAT" envDefault:"yaml"`
	MetricsAddr    string `env:"TYPEDFSM_METRICS_ADDR"`
}

// Validate checks values env tags cannot express.
func (d *Demo) Validate() error {
	switch d.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalidConfig, d.LogFormat)
	}
	switch d.SnapshotFormat {
	case "yaml", "json":
	default:
		return fmt.Errorf("%w: snapshot format %q", ErrInvalidConfig, d.SnapshotFormat)
	}
	if d.SnapshotDir == "" {
		d.SnapshotDir = filepath.Join(os.TempDir(), "typedfsm")
	}
	return nil
}

// Load reads a .env file once if present, then parses environment variables
// into v according to its env tags.
func Load[T any](v *T) error {
	dotenvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// LoadDemo loads and validates the demo configuration.
func LoadDemo() (Demo, error) {
	var d Demo
	if err := Load(&d); err != nil {
		return Demo{}, err
	}
	if err := d.Validate(); err != nil {
		return Demo{}, err
	}
	return d, nil
}
