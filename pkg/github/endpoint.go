package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	// DefaultAPIBase is the public GitHub REST API root.
	DefaultAPIBase = "https://api.github.com"
	// DefaultWebBase is the public GitHub web root.
	DefaultWebBase = "https://github.com"
)

// validNamePattern matches valid GitHub owner/repo names: [A-Za-z0-9_.-]+
var validNamePattern = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// RepoRef names a repository as owner/name.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

// Endpoints holds the API and web roots used to recognise and build URLs.
// GitHub Enterprise installs use different roots for both.
type Endpoints struct {
	APIBase string
	WebBase string
}

// DefaultEndpoints returns the github.com roots.
func DefaultEndpoints() Endpoints {
	return Endpoints{APIBase: DefaultAPIBase, WebBase: DefaultWebBase}
}

// RepoEndpoint normalizes identifier against github.com. See Endpoints.Normalize.
func RepoEndpoint(identifier string) (string, error) {
	return DefaultEndpoints().Normalize(identifier)
}

// Normalize maps any accepted identifier shape to the canonical repository
// endpoint <api-base>/repos/<owner>/<name>. Accepted shapes:
//
//	https://api.github.com/repos/owner/name
//	https://github.com/owner/name   (extra path segments and a .git suffix are ignored)
//	owner/name
func (e Endpoints) Normalize(identifier string) (string, error) {
	ref, err := e.ParseRepo(identifier)
	if err != nil {
		return "", err
	}
	return e.RepoURL(ref), nil
}

// RepoURL builds the canonical repository endpoint for ref.
func (e Endpoints) RepoURL(ref RepoRef) string {
	return e.apiRoot() + "/repos/" + ref.Owner + "/" + ref.Name
}

// UserURL is the authenticated-identity endpoint.
func (e Endpoints) UserURL() string {
	return e.apiRoot() + "/user"
}

func (e Endpoints) apiRoot() string {
	base := e.APIBase
	if base == "" {
		base = DefaultAPIBase
	}
	return strings.TrimRight(base, "/")
}

func (e Endpoints) webRoot() string {
	base := e.WebBase
	if base == "" {
		base = DefaultWebBase
	}
	return strings.TrimRight(base, "/")
}

// ParseRepo extracts owner and name from an identifier in any accepted shape.
func (e Endpoints) ParseRepo(identifier string) (RepoRef, error) {
	id := strings.TrimSpace(identifier)
	if id == "" {
		return RepoRef{}, ErrEmptyIdentifier
	}

	if !strings.Contains(id, "://") {
		parts := strings.Split(strings.Trim(id, "/"), "/")
		if len(parts) != 2 {
			return RepoRef{}, fmt.Errorf("%w: %s", ErrUnrecognizedIdentifier, identifier)
		}
		return makeRef(parts[0], parts[1], identifier)
	}

	u, err := url.Parse(id)
	if err != nil || u.Host == "" {
		return RepoRef{}, fmt.Errorf("%w: %s", ErrUnrecognizedIdentifier, identifier)
	}

	if rest, ok := matchRoot(u, e.apiRoot()+"/repos"); ok {
		return refFromPath(rest, identifier)
	}
	if rest, ok := matchRoot(u, e.webRoot()); ok {
		return refFromPath(rest, identifier)
	}
	return RepoRef{}, fmt.Errorf("%w: %s", ErrUnrecognizedIdentifier, identifier)
}

// matchRoot reports whether u lives under root (scheme-insensitive, optional
// www. prefix) and returns the remaining path.
func matchRoot(u *url.URL, root string) (string, bool) {
	r, err := url.Parse(root)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Host)
	if host != strings.ToLower(r.Host) && host != "www."+strings.ToLower(r.Host) {
		return "", false
	}
	prefix := strings.TrimRight(r.Path, "/") + "/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}
	return strings.TrimPrefix(u.Path, prefix), true
}

func refFromPath(rest, identifier string) (RepoRef, error) {
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) < 2 {
		return RepoRef{}, fmt.Errorf("%w: %s", ErrUnrecognizedIdentifier, identifier)
	}
	return makeRef(parts[0], parts[1], identifier)
}

func makeRef(owner, name, identifier string) (RepoRef, error) {
	name = strings.TrimSuffix(name, ".git")
	if !validNamePattern.MatchString(owner) || !validNamePattern.MatchString(name) {
		return RepoRef{}, fmt.Errorf("%w: %s", ErrUnrecognizedIdentifier, identifier)
	}
	return RepoRef{Owner: owner, Name: name}, nil
}
