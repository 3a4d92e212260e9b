// Package secpolicy sets the contact address in the security policy.
package secpolicy

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/fulmenhq/repokit/pkg/safeio"
	"github.com/go-git/go-billy/v5"
)

// Placeholder is the address shipped in the template's policy.
const Placeholder = "example@hello.com"

type Runner struct {
	FS       billy.Filesystem
	Settings config.EmailSettings
	NoOp     bool
}

type Result struct {
	Path     string
	Email    string
	Replaced int
	Written  bool
	// UpToDate is set when the configured address is the placeholder itself.
	UpToDate bool
}

// Run replaces every placeholder address. A file without the placeholder is
// left untouched and is not an error.
func (r *Runner) Run() (*Result, error) {
	path := r.Settings.Path
	text, err := safeio.ReadText(r.FS, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, toolerr.Inputf("Target file not found: %s", path)
		}
		return nil, toolerr.Wrap(toolerr.KindInput, err, "Failed to read %s", path)
	}

	res := &Result{Path: path, Email: r.Settings.ContactEmail}
	res.Replaced = strings.Count(text, Placeholder)
	res.UpToDate = res.Replaced > 0 && r.Settings.ContactEmail == Placeholder
	if res.Replaced == 0 || res.UpToDate || r.NoOp {
		return res, nil
	}

	updated := strings.ReplaceAll(text, Placeholder, r.Settings.ContactEmail)
	if err := safeio.WriteFilePreservePerms(r.FS, path, []byte(updated)); err != nil {
		return nil, toolerr.Wrap(toolerr.KindOutput, err, "Unable to write to %s", path)
	}
	res.Written = true
	return res, nil
}
