package sync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFingerprinter_UnsupportedAlgorithm(t *testing.T) {
	_, err := NewFingerprinter("crc32")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAlgorithm)
	assert.Contains(t, err.Error(), "crc32")
}

func TestNewFingerprinter_CaseInsensitive(t *testing.T) {
	fp, err := NewFingerprinter("SHA256")
	require.NoError(t, err)
	assert.Equal(t, "sha256", fp.Algorithm())
}

func TestFingerprinter_SumFile(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	for _, algo := range SupportedAlgorithms() {
		t.Run(algo, func(t *testing.T) {
			fp, err := NewFingerprinter(algo)
			require.NoError(t, err)

			first, err := fp.SumFile(path)
			require.NoError(t, err)
			require.NotEmpty(t, first)

			// deterministic over unchanged content
			second, err := fp.SumFile(path)
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestFingerprinter_SumFile_DetectsContentChange(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "f.txt")
	fp, err := NewFingerprinter("md5")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	before, err := fp.SumFile(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("world"), 0o644))
	after, err := fp.SumFile(path)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestFingerprinter_SumFile_MissingFile(t *testing.T) {
	fp, err := NewFingerprinter("md5")
	require.NoError(t, err)

	_, err = fp.SumFile(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFingerprinter_KnownDigest(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	fp, err := NewFingerprinter("md5")
	require.NoError(t, err)

	digest, err := fp.SumFile(path)
	require.NoError(t, err)
	assert.Equal(t, "5d41402abc4b2a76b9719d911017c592", digest)
}
