package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

// clearEnv isolates a test from the caller's BINAURAL_* variables.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvSampleRate, EnvBlockSize, EnvChunkSize, EnvWAVBitDepth, EnvMP3Bitrate,
		EnvLAMEPath, EnvOutputDir, EnvPresetsFile, EnvLogLevel,
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func emptyEnvFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "empty.env")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(emptyEnvFile(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *cfg != Default() {
		t.Fatalf("Load() = %+v, want %+v", *cfg, Default())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSampleRate, "48000")
	t.Setenv(EnvBlockSize, "256")
	t.Setenv(EnvChunkSize, "1024")
	t.Setenv(EnvWAVBitDepth, "16")
	t.Setenv(EnvMP3Bitrate, "320")
	t.Setenv(EnvLAMEPath, "/opt/lame")
	t.Setenv(EnvOutputDir, "/tmp/out")
	t.Setenv(EnvPresetsFile, "presets.json")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(emptyEnvFile(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Config{
		SampleRate:  48000,
		BlockSize:   256,
		ChunkSize:   1024,
		WAVBitDepth: 16,
		MP3Bitrate:  320,
		LAMEPath:    "/opt/lame",
		OutputDir:   "/tmp/out",
		PresetsFile: "presets.json",
		LogLevel:    logrus.DebugLevel,
	}
	if *cfg != want {
		t.Fatalf("Load() = %+v, want %+v", *cfg, want)
	}
}

func TestLoadEnvFileAndPrecedence(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := EnvSampleRate + "=96000\n" + EnvMP3Bitrate + "=256\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv(EnvMP3Bitrate, "128")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SampleRate != 96000 {
		t.Fatalf("SampleRate = %d, want 96000 from file", cfg.SampleRate)
	}
	if cfg.MP3Bitrate != 128 {
		t.Fatalf("MP3Bitrate = %d, want 128 from environment", cfg.MP3Bitrate)
	}
	if _, ok := os.LookupEnv(EnvSampleRate); ok {
		t.Fatal("Load must not modify the process environment")
	}
}

func TestLoadUnparsableFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvSampleRate, "fast")
	t.Setenv(EnvChunkSize, "")

	cfg, err := Load(emptyEnvFile(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SampleRate != 44100 || cfg.ChunkSize != 512 {
		t.Fatalf("got rate %d chunk %d, want defaults", cfg.SampleRate, cfg.ChunkSize)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{EnvSampleRate, "0"},
		{EnvSampleRate, "-44100"},
		{EnvBlockSize, "0"},
		{EnvChunkSize, "1000000"},
		{EnvWAVBitDepth, "32"},
		{EnvMP3Bitrate, "160"},
		{EnvLogLevel, "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load(emptyEnvFile(t))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.key) {
				t.Fatalf("error %q does not name %s", err, tt.key)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.env")); err == nil {
		t.Fatal("expected error for missing env file")
	}
}
