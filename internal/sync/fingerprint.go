package sync

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/zeebo/blake3"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported fingerprint algorithm")

var algorithms = map[string]func() hash.Hash{
	"md5":    md5.New,
	"sha1":   sha1.New,
	"sha256": sha256.New,
	"sha512": sha512.New,
	"blake3": func() hash.Hash { return blake3.New() },
}

// SupportedAlgorithms returns the valid fingerprint algorithm names, sorted.
func SupportedAlgorithms() []string {
	names := slices.Collect(maps.Keys(algorithms))
	slices.Sort(names)
	return names
}

// Fingerprinter computes content digests of whole files with a fixed
// algorithm. Digests are deterministic over the full byte content and are
// only ever compared within a single pass.
type Fingerprinter struct {
	algorithm string
	newHash   func() hash.Hash
}

// NewFingerprinter validates the algorithm name and returns a Fingerprinter
// for it. The name is case-insensitive.
func NewFingerprinter(algorithm string) (*Fingerprinter, error) {
	algorithm = strings.ToLower(algorithm)
	newHash, ok := algorithms[algorithm]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnsupportedAlgorithm, algorithm, strings.Join(SupportedAlgorithms(), ", "))
	}
	return &Fingerprinter{algorithm: algorithm, newHash: newHash}, nil
}

func (f *Fingerprinter) Algorithm() string {
	return f.algorithm
}

// New returns a fresh hash for streaming use.
func (f *Fingerprinter) New() hash.Hash {
	return f.newHash()
}

// SumFile reads the entire file at path and returns its hex digest.
func (f *Fingerprinter) SumFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	h := f.newHash()
	if _, err := io.Copy(h, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
