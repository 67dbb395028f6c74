package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjiang/wheeltimer"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	should := require.New(t)

	conf, err := Load("")
	should.NoError(err)
	should.Equal(time.Second, conf.Timer.Tick)
	should.Equal(512, conf.Timer.WheelSize)
	should.Zero(conf.Timer.MaxPending)
	should.Equal(":8080", conf.Server.Addr)
}

func TestDecode(t *testing.T) {
	should := require.New(t)

	conf, err := Decode(`
logs = "/tmp/wheeltimerd.log"
log_level = "debug"

[timer]
tick = "250ms"
wheel_size = 64
max_pending = 1000
worker_pool = 8

[server]
addr = "127.0.0.1:9090"
`)
	should.NoError(err)
	should.Equal(250*time.Millisecond, conf.Timer.Tick)
	should.Equal(64, conf.Timer.WheelSize)
	should.Equal(1000, conf.Timer.MaxPending)
	should.Equal(8, conf.Timer.WorkerPool)
	should.Equal("127.0.0.1:9090", conf.Server.Addr)
	should.Equal("debug", conf.LogLevel)
	should.Equal("/tmp/wheeltimerd.log", conf.Logs)

	tw, err := conf.NewTimer()
	should.NoError(err)
	should.Equal(250*time.Millisecond, tw.TickDuration)
	should.Equal(64, tw.WheelSize)
	should.Equal(1000, tw.MaxPendingTimeouts)
	should.Equal(8, tw.WorkerPoolSize)
}

func TestDecodeKeepsDefaults(t *testing.T) {
	should := require.New(t)

	conf, err := Decode(`
[timer]
max_pending = 3
`)
	should.NoError(err)
	should.Equal(time.Second, conf.Timer.Tick)
	should.Equal(512, conf.Timer.WheelSize)
	should.Equal(3, conf.Timer.MaxPending)
}

func TestInvalid(t *testing.T) {
	should := require.New(t)

	_, err := Decode("[timer]\nwheel_size = -1\n")
	should.ErrorIs(err, wheeltimer.ErrInvalidWheelSize)

	_, err = Decode("[timer]\ntick = \"-1s\"\n")
	should.ErrorIs(err, wheeltimer.ErrInvalidTickDuration)

	_, err = Decode("[timer]\nmax_pending = -5\n")
	should.ErrorIs(err, wheeltimer.ErrInvalidMaxPending)

	_, err = Decode("[timer]\nworker_pool = -2\n")
	should.Error(err)

	_, err = Decode("[timer\n")
	should.Error(err)
}

func TestLoadFile(t *testing.T) {
	should := require.New(t)

	path := filepath.Join(t.TempDir(), "wheeltimer.toml")
	should.NoError(os.WriteFile(path, []byte("[timer]\ntick = \"10ms\"\nwheel_size = 8\n"), 0o644))

	conf, err := Load(path)
	should.NoError(err)
	should.Equal(10*time.Millisecond, conf.Timer.Tick)
	should.Equal(8, conf.Timer.WheelSize)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	should.Error(err)
}
