package secpolicy

import (
	"testing"

	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const policy = "# Security Policy\n\nReport issues to example@hello.com.\nBackup: example@hello.com\n"

func newRunner(t *testing.T, body string) *Runner {
	t.Helper()
	fs := memfs.New()
	if body != "" {
		require.NoError(t, util.WriteFile(fs, ".github/SECURITY.md", []byte(body), 0o644))
	}
	return &Runner{
		FS:       fs,
		Settings: config.EmailSettings{Path: ".github/SECURITY.md", ContactEmail: "security@acme.io"},
	}
}

func read(t *testing.T, r *Runner) string {
	t.Helper()
	data, err := util.ReadFile(r.FS, r.Settings.Path)
	require.NoError(t, err)
	return string(data)
}

func TestRun_ReplacesEveryOccurrence(t *testing.T) {
	r := newRunner(t, policy)

	res, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Replaced)
	assert.True(t, res.Written)
	assert.Equal(t, "# Security Policy\n\nReport issues to security@acme.io.\nBackup: security@acme.io\n", read(t, r))
}

func TestRun_PlaceholderAbsentIsByteIdentical(t *testing.T) {
	body := "\xef\xbb\xbf# Security Policy\r\nMail security@acme.io\r\n"
	r := newRunner(t, body)

	res, err := r.Run()
	require.NoError(t, err)
	assert.Zero(t, res.Replaced)
	assert.False(t, res.Written)
	assert.Equal(t, body, read(t, r))
}

func TestRun_SecondRunIsNoOp(t *testing.T) {
	r := newRunner(t, policy)
	_, err := r.Run()
	require.NoError(t, err)

	res, err := r.Run()
	require.NoError(t, err)
	assert.False(t, res.Written)
}

func TestRun_MissingTarget(t *testing.T) {
	r := newRunner(t, "")

	_, err := r.Run()
	require.Error(t, err)
	assert.True(t, toolerr.Is(err, toolerr.KindInput))
	assert.Contains(t, err.Error(), "Target file not found: .github/SECURITY.md")
}

func TestRun_NoOp(t *testing.T) {
	r := newRunner(t, policy)
	r.NoOp = true

	res, err := r.Run()
	require.NoError(t, err)
	assert.Equal(t, 2, res.Replaced)
	assert.False(t, res.Written)
	assert.Equal(t, policy, read(t, r))
}

func TestRun_PlaceholderAddressIsUpToDate(t *testing.T) {
	r := newRunner(t, policy)
	r.Settings.ContactEmail = Placeholder

	res, err := r.Run()
	require.NoError(t, err)
	assert.True(t, res.UpToDate)
	assert.False(t, res.Written)
	assert.Equal(t, policy, read(t, r))
}
