package config

import (
	"regexp"
	"time"

	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/fulmenhq/repokit/pkg/github"
)

var yearPattern = regexp.MustCompile(`^[0-9]{4}$`)

// IndexSettings drives the landing page generator.
type IndexSettings struct {
	Identifier  string
	ReadmePath  string
	OutputPath  string
	SitemapPath string // empty disables the sitemap

	Token     string
	Endpoints github.Endpoints
	Timeout   time.Duration

	FallbackDescription string
	FallbackHomepage    string
	Author              string
}

// LinksSettings drives the README link substitution.
type LinksSettings struct {
	Path            string
	Placeholder     string
	DefaultOwner    string
	DefaultRepoName string
	Remote          string

	Token     string
	Endpoints github.Endpoints
	Timeout   time.Duration
}

// EmailSettings drives the security policy email substitution.
type EmailSettings struct {
	Path         string
	ContactEmail string
}

// LicenseSettings drives the copyright year update.
type LicenseSettings struct {
	// Path is empty when the license file should be discovered.
	Path             string
	StartYear        string
	StartYearFromGit bool
}

// Index resolves IndexSettings. An empty identifier is a configuration error.
func (l *Layers) Index() (IndexSettings, error) {
	var s IndexSettings

	s.Identifier = l.str(KeyInputStore)
	if s.Identifier == "" {
		return s, toolerr.Configf("INPUT_STORE is empty; expected a GitHub repo URL or API URL.")
	}

	var err error
	if s.ReadmePath, err = l.repoPath(KeyReadmePath); err != nil {
		return s, err
	}
	if s.OutputPath, err = l.repoPath(KeyIndexOut); err != nil {
		return s, err
	}
	if raw := l.str(KeySitemapOut); raw != "" {
		if s.SitemapPath, err = l.repoPathValue(KeySitemapOut, raw); err != nil {
			return s, err
		}
	}
	if s.Timeout, err = l.timeout(); err != nil {
		return s, err
	}

	s.Token = l.str(KeyToken)
	s.Endpoints = l.endpoints()
	s.FallbackDescription = l.str(KeyProjectDescription)
	s.FallbackHomepage = l.str(KeyProjectHomepage)
	s.Author = l.str(KeyProjectAuthor)
	return s, nil
}

// Links resolves LinksSettings. The placeholder key is required; the legacy
// Text_To_Replace key is honoured when PLACEHOLDER_REPO is absent.
func (l *Layers) Links() (LinksSettings, error) {
	var s LinksSettings

	s.Placeholder = l.str(KeyPlaceholderRepo)
	if s.Placeholder == "" {
		s.Placeholder = l.str(KeyLegacyPlaceholder)
	}
	if s.Placeholder == "" {
		return s, toolerr.Configf("No %s key found in %s", describe(KeyPlaceholderRepo), l.path)
	}

	var err error
	if s.Path, err = l.repoPath(KeyLinksPath); err != nil {
		return s, err
	}
	if s.Timeout, err = l.timeout(); err != nil {
		return s, err
	}

	s.DefaultOwner = l.str(KeyDefaultOwner)
	s.DefaultRepoName = l.str(KeyDefaultRepoName)
	s.Remote = l.str(KeyRemote)
	s.Token = l.str(KeyToken)
	s.Endpoints = l.endpoints()
	return s, nil
}

// Email resolves EmailSettings. The contact email key is required.
func (l *Layers) Email() (EmailSettings, error) {
	var s EmailSettings

	s.ContactEmail = l.str(KeyContactEmail)
	if s.ContactEmail == "" {
		return s, toolerr.Configf("No %s key found in %s", describe(KeyContactEmail), l.path)
	}

	var err error
	if s.Path, err = l.repoPath(KeySecurityPath); err != nil {
		return s, err
	}
	return s, nil
}

// License resolves LicenseSettings. A start year, when given, must be four digits.
func (l *Layers) License() (LicenseSettings, error) {
	var s LicenseSettings

	if raw := l.str(KeyLicensePath); raw != "" {
		p, err := l.repoPathValue(KeyLicensePath, raw)
		if err != nil {
			return s, err
		}
		s.Path = p
	}

	s.StartYear = l.str(KeyLicenseStartYear)
	if s.StartYear != "" && !yearPattern.MatchString(s.StartYear) {
		return s, toolerr.Configf("invalid LICENSE_START_YEAR %q; expected a four-digit year", s.StartYear)
	}
	s.StartYearFromGit = l.v.GetBool(KeyStartYearFromGit)
	return s, nil
}
