// Package gitctx reads the little repository metadata the tools need from the
// local checkout: the remote URL and the date of the first commit.
package gitctx

import (
	"os/exec"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RemoteURL returns the first URL configured for the named remote of the
// repository containing dir. go-git is tried first; the git CLI is used when
// the repository cannot be opened that way (worktrees, unusual layouts).
// ok is false when no URL could be determined.
func RemoteURL(dir, remote string) (url string, ok bool) {
	if remote == "" {
		remote = "origin"
	}
	if u := remoteURLGoGit(dir, remote); u != "" {
		return u, true
	}
	if _, err := exec.LookPath("git"); err != nil {
		return "", false
	}
	u := runGit(dir, "config", "--get", "remote."+remote+".url")
	return u, u != ""
}

func remoteURLGoGit(dir, remote string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	r, err := repo.Remote(remote)
	if err != nil {
		return ""
	}
	urls := r.Config().URLs
	if len(urls) == 0 {
		return ""
	}
	return strings.TrimSpace(urls[0])
}

// RepoNameFromURL extracts the repository name from a remote URL: the text
// after the last "/" (or ":" for scp-style remotes) with any ".git" suffix
// removed. It returns "" when nothing usable remains, including URLs that
// name only a host.
func RepoNameFromURL(url string) string {
	url = strings.TrimRight(strings.TrimSpace(url), "/")
	if i := strings.Index(url, "://"); i >= 0 {
		rest := url[i+len("://"):]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return ""
		}
		url = rest[slash:]
	}
	if i := strings.LastIndexAny(url, "/:"); i >= 0 {
		url = url[i+1:]
	}
	return strings.TrimSuffix(url, ".git")
}

// FirstCommitTime returns the earliest author or committer timestamp across
// all refs of the repository containing dir.
func FirstCommitTime(dir string) (time.Time, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return time.Time{}, false
	}
	iter, err := repo.Log(&git.LogOptions{All: true})
	if err != nil {
		return time.Time{}, false
	}
	defer iter.Close()

	earliest := time.Time{}
	_ = iter.ForEach(func(c *object.Commit) error {
		t := c.Author.When
		if c.Committer.When.Before(t) {
			t = c.Committer.When
		}
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
		return nil
	})
	if earliest.IsZero() {
		return time.Time{}, false
	}
	return earliest, true
}

func runGit(dir string, args ...string) string {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, _ := cmd.Output()
	return strings.TrimSpace(string(out))
}
