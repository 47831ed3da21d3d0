package smiley

import (
	"math/rand/v2"
	"os"

	jlconfig "github.com/JeremyLoy/config"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/edwinsyarief/kecil"
)

// Defaults for unset configuration.
const (
	DefaultBalls    = 250
	DefaultFPS      = 60
	DefaultScale    = 4
	DefaultLogLevel = "info"
	DefaultLogFile  = "smiley.log"

	ballsEnv = "SMILEY_BALLS"
)

// Config is read from the environment by LoadConfig.
type Config struct {
	// Seed for the ball generator. Zero picks a random seed.
	Seed     uint64 `config:"SMILEY_SEED"`
	// Balls is the population. Zero is a valid, empty screen; DefaultBalls
	// applies only when SMILEY_BALLS is unset.
	Balls    int    `config:"SMILEY_BALLS"`
	FPS      int    `config:"SMILEY_FPS"`
	LogLevel string `config:"SMILEY_LOG_LEVEL"`
	// LogFile is where the terminal host writes its log.
	LogFile string `config:"SMILEY_LOG_FILE"`
	// Scale is the window host's pixel size.
	Scale int `config:"SMILEY_SCALE"`
}

// LoadConfig loads Config from SMILEY_* environment variables and fills in
// defaults for anything unset.
func LoadConfig() (Config, error) {
	var c Config
	if err := jlconfig.FromEnv().To(&c); err != nil {
		return Config{}, eris.Wrap(err, "load config from environment")
	}
	if _, ok := os.LookupEnv(ballsEnv); !ok {
		c.Balls = DefaultBalls
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Seed == 0 {
		c.Seed = rand.Uint64()
	}
	if c.FPS == 0 {
		c.FPS = DefaultFPS
	}
	if c.Scale == 0 {
		c.Scale = DefaultScale
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFile == "" {
		c.LogFile = DefaultLogFile
	}
}

// Validate rejects values the cart cannot run with.
func (c Config) Validate() error {
	if c.Balls < 0 || c.Balls > kecil.MaxEntities {
		return eris.Errorf("SMILEY_BALLS must be within [0, %d], got %d", kecil.MaxEntities, c.Balls)
	}
	if c.FPS < 0 {
		return eris.Errorf("SMILEY_FPS must be positive, got %d", c.FPS)
	}
	if c.Scale < 0 {
		return eris.Errorf("SMILEY_SCALE must be positive, got %d", c.Scale)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return eris.Wrapf(err, "invalid SMILEY_LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// Logger opens the configured log destination. Logging goes to LogFile when
// toFile is set, stderr otherwise. The returned close func is never nil.
func (c Config) Logger(toFile bool) (zerolog.Logger, func() error, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.Nop(), func() error { return nil }, eris.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	if !toFile {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
		return logger, func() error { return nil }, nil
	}
	f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() error { return nil }, eris.Wrapf(err, "open log file %s", c.LogFile)
	}
	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, f.Close, nil
}
