package synchronizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kyselak85/synchronizer/internal/sync"
	"github.com/kyselak85/synchronizer/internal/utils"
)

var (
	home, _            = os.UserHomeDir()
	DefaultConfigPath  = filepath.Join(home, ".synchronizer", "config.json")
	DefaultLogFilePath = filepath.Join(home, ".synchronizer", "logs", "synchronizer.log")
	DefaultAlgorithm   = "md5"
	DefaultInterval    = 30 * time.Second
)

// Config is the immutable per-run record: constructed once at startup,
// validated, then reused unchanged across all passes.
type Config struct {
	SourceDir  string        `json:"source_dir"`
	ReplicaDir string        `json:"replica_dir"`
	LogFile    string        `json:"log_file"`
	Algorithm  string        `json:"algorithm"`
	Interval   time.Duration `json:"interval"`
	Exclude    []string      `json:"exclude,omitempty"`
	Watch      bool          `json:"watch,omitempty"`
	Path       string        `json:"-"`
}

// Validate normalizes paths, applies defaults and fails fast on anything
// that would make passes impossible: missing source, nested roots, or an
// unsupported fingerprint algorithm.
func (c *Config) Validate() error {
	if c.SourceDir == "" {
		return errors.New("source folder is required")
	}
	if c.ReplicaDir == "" {
		return errors.New("replica folder is required")
	}

	var err error
	if c.SourceDir, err = utils.ResolvePath(c.SourceDir); err != nil {
		return fmt.Errorf("source folder: %w", err)
	}
	if c.ReplicaDir, err = utils.ResolvePath(c.ReplicaDir); err != nil {
		return fmt.Errorf("replica folder: %w", err)
	}

	if !utils.DirExists(c.SourceDir) {
		return fmt.Errorf("source folder %s does not exist or is not a directory", c.SourceDir)
	}
	if c.SourceDir == c.ReplicaDir {
		return errors.New("source and replica folders must differ")
	}
	if isNested(c.SourceDir, c.ReplicaDir) || isNested(c.ReplicaDir, c.SourceDir) {
		return errors.New("source and replica folders must not be nested")
	}

	if c.Algorithm == "" {
		c.Algorithm = DefaultAlgorithm
	}
	c.Algorithm = strings.ToLower(c.Algorithm)
	if _, err := sync.NewFingerprinter(c.Algorithm); err != nil {
		return err
	}

	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}

	if c.LogFile == "" {
		c.LogFile = DefaultLogFilePath
	}
	if c.LogFile, err = utils.ResolvePath(c.LogFile); err != nil {
		return fmt.Errorf("log file: %w", err)
	}

	return nil
}

func (c *Config) Save(path string) error {
	if err := utils.EnsureParent(path); err != nil {
		return err
	}

	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.Path = path
	return &cfg, nil
}

func isNested(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
