package synchronizer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kyselak85/synchronizer/internal/sync"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	tmp := t.TempDir()
	return &Config{
		SourceDir:  tmp,
		ReplicaDir: filepath.Join(t.TempDir(), "replica"),
		LogFile:    filepath.Join(tmp, "sync.log"),
		Algorithm:  "MD5",
		Interval:   5 * time.Second,
	}
}

func TestConfig_Validate_NormalizesAndDefaults(t *testing.T) {
	cfg := validConfig(t)
	cfg.Algorithm = ""
	cfg.Interval = 0
	cfg.LogFile = ""

	require.NoError(t, cfg.Validate())

	assert.True(t, filepath.IsAbs(cfg.SourceDir))
	assert.True(t, filepath.IsAbs(cfg.ReplicaDir))
	assert.Equal(t, DefaultAlgorithm, cfg.Algorithm)
	assert.Equal(t, DefaultInterval, cfg.Interval)
	assert.Equal(t, DefaultLogFilePath, cfg.LogFile)
}

func TestConfig_Validate_LowercasesAlgorithm(t *testing.T) {
	cfg := validConfig(t)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "md5", cfg.Algorithm)
}

func TestConfig_Validate_ErrorsOnInvalidInputs(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.SourceDir = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("source does not exist", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.SourceDir = filepath.Join(t.TempDir(), "nope")
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("same source and replica", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ReplicaDir = cfg.SourceDir
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must differ")
	})

	t.Run("replica nested in source", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ReplicaDir = filepath.Join(cfg.SourceDir, "replica")
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "nested")
	})

	t.Run("source nested in replica", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.ReplicaDir = filepath.Dir(cfg.SourceDir)
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "nested")
	})

	t.Run("unsupported algorithm", func(t *testing.T) {
		cfg := validConfig(t)
		cfg.Algorithm = "crc32"
		err := cfg.Validate()
		assert.ErrorIs(t, err, sync.ErrUnsupportedAlgorithm)
	})
}

func TestConfig_SaveAndLoad_Roundtrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.json")

	cfg := validConfig(t)
	cfg.Exclude = []string{"*.log", "cache/"}
	cfg.Watch = true
	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.SourceDir, loaded.SourceDir)
	assert.Equal(t, cfg.ReplicaDir, loaded.ReplicaDir)
	assert.Equal(t, cfg.LogFile, loaded.LogFile)
	assert.Equal(t, cfg.Algorithm, loaded.Algorithm)
	assert.Equal(t, cfg.Interval, loaded.Interval)
	assert.Equal(t, cfg.Exclude, loaded.Exclude)
	assert.Equal(t, cfg.Watch, loaded.Watch)
	assert.Equal(t, path, loaded.Path)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
