package sync

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kyselak85/synchronizer/internal/utils"
)

// copyFileAtomic copies src to dst through a temp file in dst's directory,
// so dst is never observable half-written: the final rename is the commit
// point. When wantDigest is non-empty the bytes written are verified against
// it before the rename, catching a source that changed mid-copy.
// Returns the number of bytes written.
func copyFileAtomic(src, dst string, fp *Fingerprinter, wantDigest string) (int64, error) {
	if err := utils.EnsureParent(dst); err != nil {
		return 0, fmt.Errorf("ensure parent: %w", err)
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer srcFile.Close()

	// Same-directory placement keeps the rename atomic. A temp file orphaned
	// by a crashed pass is not named in the source and gets cleaned up as a
	// stale entry on the next pass.
	tmpFile, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".sync.tmp.*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	hasher := fp.New()
	written, err := io.Copy(io.MultiWriter(tmpFile, hasher), srcFile)
	if err != nil {
		return written, fmt.Errorf("write temp file: %w", err)
	}

	if wantDigest != "" {
		gotDigest := hex.EncodeToString(hasher.Sum(nil))
		if gotDigest != wantDigest {
			return written, fmt.Errorf("source changed during copy: fingerprint was %s, wrote %s", wantDigest, gotDigest)
		}
	}

	// Sync to disk before rename to ensure durability
	if err := tmpFile.Sync(); err != nil {
		return written, fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return written, fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return written, fmt.Errorf("rename temp file to %s: %w", dst, err)
	}

	success = true
	return written, nil
}
