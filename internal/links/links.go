// Package links fills in the repository placeholder and date token of a
// freshly generated README.
package links

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/fulmenhq/repokit/internal/gitctx"
	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/fulmenhq/repokit/pkg/github"
	"github.com/fulmenhq/repokit/pkg/logger"
	"github.com/fulmenhq/repokit/pkg/safeio"
	"github.com/go-git/go-billy/v5"
)

const (
	// DateToken is replaced with the current date.
	DateToken = "DATE"
	// DateLayout renders dates as "09 Aug 25".
	DateLayout = "02 Jan 06"
)

// IdentityFetcher looks up the user behind the configured token.
type IdentityFetcher interface {
	HasToken() bool
	Viewer(ctx context.Context) (*github.User, error)
}

// Runner substitutes links in one file.
type Runner struct {
	FS       billy.Filesystem
	Dir      string
	Settings config.LinksSettings
	Identity IdentityFetcher
	// RemoteURL defaults to gitctx.RemoteURL.
	RemoteURL func(dir, remote string) (string, bool)
	Now       func() time.Time
	NoOp      bool
}

// Result reports what a run did.
type Result struct {
	Path         string
	Repo         string
	Placeholders int
	Dates        int
	Written      bool
}

// Changed reports whether any replacement happened.
func (r *Result) Changed() bool {
	return r.Placeholders+r.Dates > 0
}

// Substitute replaces every placeholder with repo and every date token with
// date in a single left-to-right pass. Existing occurrences of repo are left
// alone, so substituted text is never rewritten again.
func Substitute(text, placeholder, repo, date string) (string, int, int) {
	var (
		b            strings.Builder
		placeholders int
		dates        int
	)
	b.Grow(len(text))
	for i := 0; i < len(text); {
		rest := text[i:]
		switch {
		case repo != "" && strings.HasPrefix(rest, repo):
			b.WriteString(repo)
			i += len(repo)
		case placeholder != "" && strings.HasPrefix(rest, placeholder):
			b.WriteString(repo)
			i += len(placeholder)
			placeholders++
		case strings.HasPrefix(rest, DateToken):
			b.WriteString(date)
			i += len(DateToken)
			dates++
		default:
			b.WriteByte(text[i])
			i++
		}
	}
	return b.String(), placeholders, dates
}

// RepoName is the name of the configured git remote's repository, or the
// configured default when it cannot be determined.
func (r *Runner) RepoName() string {
	lookup := r.RemoteURL
	if lookup == nil {
		lookup = gitctx.RemoteURL
	}
	url, ok := lookup(r.Dir, r.Settings.Remote)
	if !ok {
		logger.Debug("No git remote URL; using default repo name", logger.String("remote", r.Settings.Remote))
		return r.Settings.DefaultRepoName
	}
	if name := gitctx.RepoNameFromURL(url); name != "" {
		return name
	}
	return r.Settings.DefaultRepoName
}

// Owner is the login of the authenticated user. Any failure falls back to the
// configured default owner.
func (r *Runner) Owner(ctx context.Context) string {
	if r.Identity == nil || !r.Identity.HasToken() {
		logger.Debug("No GitHub token; using default owner", logger.String("owner", r.Settings.DefaultOwner))
		return r.Settings.DefaultOwner
	}
	user, err := r.Identity.Viewer(ctx)
	if err != nil {
		logger.Warn("Identity lookup failed; using default owner", logger.Err(err), logger.String("owner", r.Settings.DefaultOwner))
		return r.Settings.DefaultOwner
	}
	if user.Login == "" {
		return r.Settings.DefaultOwner
	}
	return user.Login
}

// Run rewrites the target file in place. An unchanged file is not written.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	path := r.Settings.Path
	text, err := safeio.ReadText(r.FS, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, toolerr.Inputf("Target file not found: %s", path)
		}
		return nil, toolerr.Wrap(toolerr.KindInput, err, "Failed to read %s", path)
	}

	repo := r.Owner(ctx) + "/" + r.RepoName()
	updated, placeholders, dates := Substitute(text, r.Settings.Placeholder, repo, r.now().Format(DateLayout))

	res := &Result{Path: path, Repo: repo, Placeholders: placeholders, Dates: dates}
	if updated == text || r.NoOp {
		return res, nil
	}
	if err := safeio.WriteFilePreservePerms(r.FS, path, []byte(updated)); err != nil {
		return nil, toolerr.Wrap(toolerr.KindOutput, err, "Unable to write to %s", path)
	}
	res.Written = true
	return res, nil
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
