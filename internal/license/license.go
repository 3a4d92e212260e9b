// Package license keeps copyright years in a license file current.
package license

import (
	"errors"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/fulmenhq/repokit/pkg/logger"
	"github.com/fulmenhq/repokit/pkg/safeio"
	"github.com/go-git/go-billy/v5"
)

// DefaultPath is tried before discovery.
const DefaultPath = "LICENSE.md"

// discoveryPatterns match license files at the repository root.
var discoveryPatterns = []string{
	"{LICENSE,LICENCE,COPYING}*",
	"{License,Licence,Copying}*",
	"{license,licence,copying}*",
}

const yearToken = `(?:YEAR|\{YEAR\}|\{\{YEAR\}\})`

var (
	// "2019 - YEAR" and friends; the start year is kept.
	rangePattern = regexp.MustCompile(`\b(\d{4})\b\s*-\s*` + yearToken)
	// Any token the range pass left behind.
	placeholderPattern = regexp.MustCompile(`\bYEAR\b|\{YEAR\}|\{\{YEAR\}\}`)
)

// Counts tallies the replacements of each pass.
type Counts struct {
	Ranges       int
	Placeholders int
}

// Total is the number of replacements across both passes.
func (c Counts) Total() int { return c.Ranges + c.Placeholders }

// Update rewrites year placeholders in text. Ranges ending in a token are
// closed at current first; remaining tokens become start-current, or current
// alone when start is empty. The range pass must run first.
func Update(text, current, start string) (string, Counts) {
	var c Counts

	text = rangePattern.ReplaceAllStringFunc(text, func(m string) string {
		c.Ranges++
		return rangePattern.FindStringSubmatch(m)[1] + "-" + current
	})

	repl := current
	if start != "" {
		repl = start + "-" + current
	}
	text = placeholderPattern.ReplaceAllStringFunc(text, func(string) string {
		c.Placeholders++
		return repl
	})
	return text, c
}

// Runner updates one license file.
type Runner struct {
	FS       billy.Filesystem
	Dir      string
	Settings config.LicenseSettings
	Now      func() time.Time
	// FirstCommit is consulted when StartYearFromGit is set and no start year
	// was configured.
	FirstCommit func(dir string) (time.Time, bool)
	NoOp        bool
}

// Result reports what a run did.
type Result struct {
	Path        string
	CurrentYear string
	StartYear   string
	Counts      Counts
	Written     bool
}

// YearValue is the year text written for bare placeholders.
func (r *Result) YearValue() string {
	if r.StartYear != "" {
		return r.StartYear + "-" + r.CurrentYear
	}
	return r.CurrentYear
}

// Run updates the license file in place. No placeholders means no write.
func (r *Runner) Run() (*Result, error) {
	path, err := r.resolvePath()
	if err != nil {
		return nil, err
	}

	text, err := safeio.ReadText(r.FS, path)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.KindInput, err, "Failed to read %s", path)
	}

	res := &Result{
		Path:        path,
		CurrentYear: strconv.Itoa(r.now().Year()),
		StartYear:   r.startYear(),
	}

	updated, counts := Update(text, res.CurrentYear, res.StartYear)
	res.Counts = counts
	if counts.Total() == 0 || r.NoOp {
		return res, nil
	}
	if err := safeio.WriteFilePreservePerms(r.FS, path, []byte(updated)); err != nil {
		return nil, toolerr.Wrap(toolerr.KindOutput, err, "Unable to write to %s", path)
	}
	res.Written = true
	return res, nil
}

func (r *Runner) startYear() string {
	if r.Settings.StartYear != "" || !r.Settings.StartYearFromGit {
		return r.Settings.StartYear
	}
	if r.FirstCommit == nil {
		return ""
	}
	first, ok := r.FirstCommit(r.Dir)
	if !ok {
		logger.Warn("No commits found; writing the current year only")
		return ""
	}
	return strconv.Itoa(first.Year())
}

// resolvePath returns the configured path, DefaultPath, or the first license
// file found at the repository root, in that order.
func (r *Runner) resolvePath() (string, error) {
	if p := r.Settings.Path; p != "" {
		if !safeio.Exists(r.FS, p) {
			return "", toolerr.Inputf("License file not found: %s", p)
		}
		return p, nil
	}
	if safeio.Exists(r.FS, DefaultPath) {
		return DefaultPath, nil
	}

	entries, err := r.FS.ReadDir(".")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", toolerr.Wrap(toolerr.KindInput, err, "Failed to list repository root")
	}
	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, pattern := range discoveryPatterns {
			if ok, _ := doublestar.Match(pattern, e.Name()); ok {
				found = append(found, e.Name())
				break
			}
		}
	}
	if len(found) == 0 {
		return "", toolerr.Inputf("License file not found: %s", DefaultPath)
	}
	sort.Strings(found)
	logger.Debug("Discovered license file", logger.String("path", found[0]))
	return found[0], nil
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
