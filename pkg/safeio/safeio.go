// Package safeio reads and rewrites repository files through a billy filesystem
// rooted at the repository, so paths can never escape the checkout.
package safeio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrPathTraversal is returned for paths that leave the repository root.
var ErrPathTraversal = errors.New("path traversal detected")

// CleanUserPath cleans a user-provided path and rejects traversal attempts.
// Returns paths with forward slashes for cross-platform consistency.
func CleanUserPath(p string) (string, error) {
	c := filepath.Clean(p)
	for _, seg := range strings.Split(filepath.ToSlash(c), "/") {
		if seg == ".." {
			return "", ErrPathTraversal
		}
	}
	return filepath.ToSlash(c), nil
}

// RepoPath turns p into a path relative to root. Absolute paths are accepted
// only when they sit inside root.
func RepoPath(root, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.New("empty path")
	}
	if filepath.IsAbs(p) {
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			return "", errors.New("failed to resolve repository root")
		}
		rel, err := filepath.Rel(rootAbs, p)
		if err != nil {
			return "", errors.New("failed to compute relative path")
		}
		p = rel
	}
	return CleanUserPath(p)
}

// Exists reports whether path exists on fs.
func Exists(fs billy.Filesystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}

// ReadText reads path as raw UTF-8 text. Bytes are passed through untouched so a
// later write of unchanged text is byte-identical.
func ReadText(fs billy.Filesystem, path string) (string, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadDecodedText reads path honouring a UTF-8 or UTF-16 byte-order mark and
// returns BOM-free UTF-8. Used for inputs that are embedded elsewhere.
func ReadDecodedText(fs billy.Filesystem, path string) (string, error) {
	data, err := util.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	return DecodeText(data)
}

// DecodeText strips a byte-order mark, transcoding UTF-16 input to UTF-8.
// Input without a BOM is treated as UTF-8.
func DecodeText(data []byte) (string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decode text: %w", err)
	}
	return string(out), nil
}

// WriteFilePreservePerms writes data to path preserving existing file mode when possible.
// When the file does not exist, it uses a sane default of 0644.
func WriteFilePreservePerms(fs billy.Filesystem, path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := fs.Stat(path); err == nil {
		mode = st.Mode() & 0o777
		if mode == 0 {
			mode = 0o644
		}
	}
	return util.WriteFile(fs, path, data, mode)
}
