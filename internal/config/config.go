// Package config loads runtime settings from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-binaural/encode"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variable names.
const (
	EnvSampleRate   = "BINAURAL_SAMPLE_RATE"
	EnvBlockSize    = "BINAURAL_BLOCK_SIZE"
	EnvChunkSize    = "BINAURAL_CHUNK_SIZE"
	EnvWAVBitDepth  = "BINAURAL_WAV_BIT_DEPTH"
	EnvMP3Bitrate   = "BINAURAL_MP3_BITRATE"
	EnvLAMEPath     = "BINAURAL_LAME_PATH"
	EnvOutputDir    = "BINAURAL_OUTPUT_DIR"
	EnvPresetsFile  = "BINAURAL_PRESETS_FILE"
	EnvLogLevel     = "BINAURAL_LOG_LEVEL"
	defaultEnvFile  = ".env"
	maxSampleRate   = 384000
	maxProcessBlock = 1 << 16
)

// Config holds all runtime settings.
type Config struct {
	SampleRate  int
	BlockSize   int
	ChunkSize   int
	WAVBitDepth int
	MP3Bitrate  int
	LAMEPath    string
	OutputDir   string
	PresetsFile string
	LogLevel    logrus.Level
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SampleRate:  44100,
		BlockSize:   512,
		ChunkSize:   512,
		WAVBitDepth: encode.DefaultBitDepth,
		MP3Bitrate:  encode.DefaultBitrateKbps,
		OutputDir:   ".",
		LogLevel:    logrus.InfoLevel,
	}
}

// Load reads settings from the process environment, falling back to the
// given .env files (or ./.env when none are given and it exists). Process
// environment values win over file values. Unparsable numbers fall back to
// defaults; values that parse but are out of range are errors.
func Load(files ...string) (*Config, error) {
	fileEnv, err := readFiles(files)
	if err != nil {
		return nil, err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	}

	cfg := Default()
	cfg.SampleRate = intValue(lookup, EnvSampleRate, cfg.SampleRate)
	cfg.BlockSize = intValue(lookup, EnvBlockSize, cfg.BlockSize)
	cfg.ChunkSize = intValue(lookup, EnvChunkSize, cfg.ChunkSize)
	cfg.WAVBitDepth = intValue(lookup, EnvWAVBitDepth, cfg.WAVBitDepth)
	cfg.MP3Bitrate = intValue(lookup, EnvMP3Bitrate, cfg.MP3Bitrate)
	cfg.LAMEPath = stringValue(lookup, EnvLAMEPath, cfg.LAMEPath)
	cfg.OutputDir = stringValue(lookup, EnvOutputDir, cfg.OutputDir)
	cfg.PresetsFile = stringValue(lookup, EnvPresetsFile, cfg.PresetsFile)

	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		level, err := logrus.ParseLevel(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("config: %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.SampleRate <= 0 || c.SampleRate > maxSampleRate {
		return fmt.Errorf("config: %s must be in (0, %d]: %d", EnvSampleRate, maxSampleRate, c.SampleRate)
	}
	if c.BlockSize <= 0 || c.BlockSize > maxProcessBlock {
		return fmt.Errorf("config: %s must be in (0, %d]: %d", EnvBlockSize, maxProcessBlock, c.BlockSize)
	}
	if c.ChunkSize <= 0 || c.ChunkSize > maxProcessBlock {
		return fmt.Errorf("config: %s must be in (0, %d]: %d", EnvChunkSize, maxProcessBlock, c.ChunkSize)
	}
	if !encode.ValidBitDepth(c.WAVBitDepth) {
		return fmt.Errorf("config: %s must be 16 or 24: %d", EnvWAVBitDepth, c.WAVBitDepth)
	}
	if !encode.ValidBitrate(c.MP3Bitrate) {
		return fmt.Errorf("config: %s must be one of %v: %d", EnvMP3Bitrate, encode.Bitrates, c.MP3Bitrate)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("config: %s must not be empty", EnvOutputDir)
	}
	return nil
}

func readFiles(files []string) (map[string]string, error) {
	if len(files) == 0 {
		env, err := godotenv.Read(defaultEnvFile)
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", defaultEnvFile, err)
		}
		return env, nil
	}

	env, err := godotenv.Read(files...)
	if err != nil {
		return nil, fmt.Errorf("config: read env files: %w", err)
	}
	return env, nil
}

type lookupFunc func(key string) (string, bool)

func intValue(lookup lookupFunc, key string, fallback int) int {
	v, ok := lookup(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

func stringValue(lookup lookupFunc, key, fallback string) string {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}
