// Package config loads device settings from TOML.
package config

import (
	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/vkngwrapper/grm/grm"
	"golang.org/x/exp/slog"
	"io"
	"os"
)

const (
	CommandStreamImmediate = "immediate"
	CommandStreamQueued    = "queued"
)

// Config mirrors grm.CreateOptions in a form that can be written by hand
type Config struct {
	SurfaceAlignment  int `toml:"surface_alignment"`
	ResourceAlignment int `toml:"resource_alignment"`

	// VideoMemoryAccounting enables the PoolDefault budget, sized by VideoMemoryBytes
	VideoMemoryAccounting bool `toml:"video_memory_accounting"`
	VideoMemoryBytes      int  `toml:"video_memory_bytes"`
	HostMemoryLimit       int  `toml:"host_memory_limit"`

	ExternallySynchronized bool `toml:"externally_synchronized"`

	// CommandStream is either "immediate" or "queued"
	CommandStream      string `toml:"command_stream"`
	CommandStreamDepth int    `toml:"command_stream_depth"`

	LogLevel string `toml:"log_level"`
}

// Default returns the configuration used for keys that are absent from a file
func Default() Config {
	return Config{
		SurfaceAlignment:  4,
		ResourceAlignment: 16,
		CommandStream:     CommandStreamImmediate,
		LogLevel:          "info",
	}
}

// Load decodes a TOML document on top of Default. Unknown keys are rejected.
func Load(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := toml.NewDecoder(r)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(&cfg)
	if err != nil {
		var strictErr *toml.StrictMissingError
		if errors.As(err, &strictErr) {
			return Config{}, errors.Wrap(err, strictErr.String())
		}
		return Config{}, errors.Wrap(err, "failed to decode device configuration")
	}

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func LoadFile(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "failed to open device configuration %s", path)
	}
	defer file.Close()

	return Load(file)
}

func (c Config) Validate() error {
	if c.VideoMemoryAccounting && c.VideoMemoryBytes <= 0 {
		return errors.Newf("video_memory_bytes must be positive when video_memory_accounting is set, got %d", c.VideoMemoryBytes)
	}

	if c.HostMemoryLimit < 0 {
		return errors.Newf("host_memory_limit cannot be negative: %d", c.HostMemoryLimit)
	}

	if c.CommandStreamDepth < 0 {
		return errors.Newf("command_stream_depth cannot be negative: %d", c.CommandStreamDepth)
	}

	switch c.CommandStream {
	case CommandStreamImmediate, CommandStreamQueued:
	default:
		return errors.Newf("unknown command_stream %q", c.CommandStream)
	}

	_, err := c.Level()
	return err
}

// Level parses LogLevel
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(c.LogLevel))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid log_level %q", c.LogLevel)
	}

	return level, nil
}

// Logger creates a text logger writing to w at the configured level
func (c Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// CreateOptions builds the grm.CreateOptions described by the configuration. A queued command
// stream is started and must be closed through grm.Device.Close.
func (c Config) CreateOptions(logger *slog.Logger) (grm.CreateOptions, error) {
	err := c.Validate()
	if err != nil {
		return grm.CreateOptions{}, err
	}

	options := grm.CreateOptions{
		SurfaceAlignment:  c.SurfaceAlignment,
		ResourceAlignment: c.ResourceAlignment,
		HostMemoryLimit:   c.HostMemoryLimit,
	}

	if c.ExternallySynchronized {
		options.Flags |= grm.DeviceCreateExternallySynchronized
	}

	if c.VideoMemoryAccounting {
		options.VideoMemoryBudget = grm.NewMemoryBudget(c.VideoMemoryBytes)
	}

	if c.CommandStream == CommandStreamQueued {
		options.CommandStream = grm.NewQueuedCommandStream(logger, c.CommandStreamDepth)
	}

	return options, nil
}
