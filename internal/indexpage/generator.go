// Package indexpage renders the static landing page for a repository from
// its GitHub metadata and README.
package indexpage

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/fulmenhq/repokit/pkg/config"
	"github.com/fulmenhq/repokit/pkg/github"
	"github.com/fulmenhq/repokit/pkg/logger"
	"github.com/fulmenhq/repokit/pkg/safeio"
	"github.com/go-git/go-billy/v5"
)

// RepositoryFetcher fetches repository metadata from a canonical endpoint.
type RepositoryFetcher interface {
	Repository(ctx context.Context, endpoint string) (*github.Repository, error)
}

// Generator runs the index pipeline: normalize, fetch, derive, read, render, write.
type Generator struct {
	FS       billy.Filesystem
	Fetcher  RepositoryFetcher
	Settings config.IndexSettings
	// NoOp skips every write.
	NoOp bool
	Now  func() time.Time
}

// Result describes a finished run.
type Result struct {
	Endpoint    string
	Page        Page
	OutputPath  string
	Bytes       int
	SitemapPath string
	Written     bool
}

// Run generates the page. The identifier is validated before any network call.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	s := g.Settings
	endpoint, err := s.Endpoints.Normalize(s.Identifier)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.KindConfig, err, "Could not normalise INPUT_STORE to API URL")
	}
	logger.Debug("Fetching repository metadata", logger.String("endpoint", endpoint))

	repo, err := g.Fetcher.Repository(ctx, endpoint)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.KindNetwork, err, "GitHub API request failed")
	}

	page := Derive(repo, s.FallbackDescription, s.FallbackHomepage)
	page.Author = s.Author

	readme, err := safeio.ReadDecodedText(g.FS, s.ReadmePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, toolerr.Inputf("%s does not exist.", s.ReadmePath)
		}
		return nil, toolerr.Wrap(toolerr.KindInput, err, "Failed to read %s", s.ReadmePath)
	}
	page.Markdown = readme

	html, err := Render(page)
	if err != nil {
		return nil, toolerr.Wrap(toolerr.KindOutput, err, "Unable to render %s", s.OutputPath)
	}

	res := &Result{
		Endpoint:   endpoint,
		Page:       page,
		OutputPath: s.OutputPath,
		Bytes:      len(html),
	}

	var sitemap []byte
	if s.SitemapPath != "" {
		if sitemap, err = Sitemap(page.SiteURL, g.now()); err != nil {
			return nil, toolerr.Wrap(toolerr.KindOutput, err, "Unable to build %s", s.SitemapPath)
		}
		res.SitemapPath = s.SitemapPath
	}

	if g.NoOp {
		logger.Info("Skipping writes", logger.String("output", s.OutputPath), logger.Int("bytes", res.Bytes))
		return res, nil
	}

	if err := safeio.WriteFilePreservePerms(g.FS, s.OutputPath, []byte(html)); err != nil {
		return nil, toolerr.Wrap(toolerr.KindOutput, err, "Unable to write to %s", s.OutputPath)
	}
	if sitemap != nil {
		if err := safeio.WriteFilePreservePerms(g.FS, s.SitemapPath, sitemap); err != nil {
			return nil, toolerr.Wrap(toolerr.KindOutput, err, "Unable to write to %s", s.SitemapPath)
		}
	}
	res.Written = true
	return res, nil
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}
