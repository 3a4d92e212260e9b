package indexpage

import (
	_ "embed"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/aymerick/raymond"
	"github.com/fulmenhq/repokit/pkg/github"
)

//go:embed templates/index.html.hbs
var indexTemplate string

const (
	ogImageBase = "https://og-image.vercel.app/"
	ogImageLogo = "https://assets.vercel.com/image/upload/front/assets/design/hyper-color-logo.svg"
)

var (
	parsedOnce sync.Once
	parsed     *raymond.Template
	parseErr   error
)

// Page is everything the landing page template needs. Values are raw; the
// template escapes all of them except Markdown.
type Page struct {
	Title       string
	Description string
	SiteURL     string
	Author      string
	Markdown    string
}

// OGImageURL builds the social preview image URL for title.
func OGImageURL(title string) string {
	return ogImageBase + quote(title) + ".png" +
		"?theme=light&md=0&fontSize=100px&images=" + quote(ogImageLogo)
}

// quote percent-encodes every byte outside the unreserved set, spaces as %20.
func quote(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// SiteURL picks the public URL for a repository: the homepage when it is an
// http(s) URL, otherwise the default GitHub Pages address. It is empty when
// the repository has no name.
func SiteURL(repo *github.Repository) string {
	homepage := strings.TrimSpace(repo.Homepage)
	if strings.HasPrefix(homepage, "http://") || strings.HasPrefix(homepage, "https://") {
		return homepage
	}
	if repo.Name == "" {
		return ""
	}
	owner := repo.Owner.Login
	if owner == "" {
		owner = "user"
	}
	return fmt.Sprintf("https://%s.github.io/%s", owner, repo.Name)
}

// Derive builds a Page from repository metadata, applying the configured
// fallbacks for an empty description or site URL.
func Derive(repo *github.Repository, fallbackDescription, fallbackHomepage string) Page {
	p := Page{
		Title:       repo.Name,
		Description: repo.Description,
		SiteURL:     SiteURL(repo),
	}
	if p.Description == "" {
		p.Description = fallbackDescription
	}
	if p.SiteURL == "" {
		p.SiteURL = fallbackHomepage
	}
	return p
}

// Render produces the landing page HTML.
func Render(p Page) (string, error) {
	parsedOnce.Do(func() {
		parsed, parseErr = raymond.Parse(indexTemplate)
	})
	if parseErr != nil {
		return "", fmt.Errorf("parse index template: %w", parseErr)
	}

	out, err := parsed.Exec(map[string]interface{}{
		"title":       p.Title,
		"description": p.Description,
		"site_url":    p.SiteURL,
		"author":      p.Author,
		"og_image":    OGImageURL(p.Title),
		"markdown":    p.Markdown,
	})
	if err != nil {
		return "", fmt.Errorf("render index template: %w", err)
	}
	return out, nil
}
