package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"connect4/meta"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Episodes    int    `yaml:"episodes"`
	Workers     int    `yaml:"workers"`
	MaxMoves    int    `yaml:"max_moves"`
	Seed        uint64 `yaml:"seed"`
	RandomStart bool   `yaml:"random_start"`
	OutputDir   string `yaml:"output_dir"`
	LogLevel    string `yaml:"log_level"`
}

func Default() Config {
	return Config{
		Episodes:  meta.EPISODES,
		Workers:   meta.WORKERS,
		MaxMoves:  meta.MAX_MOVES,
		Seed:      meta.SEED,
		OutputDir: meta.OUTPUT_DIR,
		LogLevel:  meta.LOG_LEVEL,
	}
}

// Load layers the YAML file at path (skipped when path is empty), then a .env
// file in the working directory, then CONNECT4_* variables over the defaults.
// The result is not validated so that callers can apply further overrides
// first; call Validate once they are done.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	ints := map[string]*int{
		"EPISODES":  &c.Episodes,
		"WORKERS":   &c.Workers,
		"MAX_MOVES": &c.MaxMoves,
	}
	for key, field := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s%s: %w", meta.ENV_PREFIX, key, err)
			}
			*field = n
		}
	}

	if v, ok := lookup("SEED"); ok {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sSEED: %w", meta.ENV_PREFIX, err)
		}
		c.Seed = seed
	}
	if v, ok := lookup("RANDOM_START"); ok {
		random, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sRANDOM_START: %w", meta.ENV_PREFIX, err)
		}
		c.RandomStart = random
	}
	if v, ok := lookup("OUTPUT_DIR"); ok {
		c.OutputDir = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(meta.ENV_PREFIX + key)
	return v, ok && v != ""
}

func (c Config) Validate() error {
	if c.Episodes <= 0 {
		return fmt.Errorf("episodes must be positive, got %d", c.Episodes)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MaxMoves <= 0 {
		return fmt.Errorf("max moves must be positive, got %d", c.MaxMoves)
	}
	if c.OutputDir == "" {
		return errors.New("output dir must not be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}

// Level returns the zerolog level for LogLevel, info if it does not parse.
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
