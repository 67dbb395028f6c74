package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/hyperjiang/wheeltimer"
)

type TimerConfig struct {
	Tick       time.Duration `toml:"tick,omitempty"`
	WheelSize  int           `toml:"wheel_size,omitempty"`
	MaxPending int           `toml:"max_pending,omitempty"` // 0 means unbounded
	WorkerPool int           `toml:"worker_pool,omitempty"` // 0 runs tasks on the wheel goroutine
}

type ServerConfig struct {
	Addr    string `toml:"addr,omitempty"`
	WebLogs string `toml:"weblogs,omitempty"`
}

type Config struct {
	Timer    TimerConfig  `toml:"timer,omitempty"`
	Server   ServerConfig `toml:"server,omitempty"`
	Logs     string       `toml:"logs,omitempty"`
	LogLevel string       `toml:"log_level,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			Tick:      time.Second,
			WheelSize: 512,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		LogLevel: "info",
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults.
func Load(path string) (*Config, error) {
	conf := Default()
	if path == "" {
		return conf, nil
	}
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, fmt.Errorf("parse conf file %s: %w", path, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("conf file %s: %w", path, err)
	}
	return conf, nil
}

// Decode parses TOML text over the defaults.
func Decode(data string) (*Config, error) {
	conf := Default()
	if _, err := toml.Decode(data, conf); err != nil {
		return nil, fmt.Errorf("parse conf: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) Validate() error {
	switch {
	case c.Timer.Tick <= 0:
		return wheeltimer.ErrInvalidTickDuration
	case c.Timer.WheelSize <= 0:
		return wheeltimer.ErrInvalidWheelSize
	case c.Timer.MaxPending < 0:
		return wheeltimer.ErrInvalidMaxPending
	case c.Timer.WorkerPool < 0:
		return fmt.Errorf("worker_pool must not be negative, got %d", c.Timer.WorkerPool)
	}
	return nil
}

// NewTimer builds the timer described by the configuration.
func (c *Config) NewTimer(opts ...wheeltimer.Option) (*wheeltimer.HashedWheelTimer, error) {
	opts = append(opts, wheeltimer.WithWorkerPool(c.Timer.WorkerPool))
	return wheeltimer.NewScheduler(c.Timer.Tick, c.Timer.WheelSize, c.Timer.MaxPending, opts...)
}
