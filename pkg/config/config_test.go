package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the loader binds so the host environment
// cannot leak into assertions. Empty variables count as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, envs := range envBindings {
		for _, e := range envs {
			t.Setenv(e, "")
		}
	}
}

func writeConfig(t *testing.T, fs billy.Filesystem, body string) {
	t.Helper()
	require.NoError(t, util.WriteFile(fs, DefaultConfigPath, []byte(body), 0o644))
}

func TestLoad_MissingOptionalConfig(t *testing.T) {
	clearEnv(t)
	layers, err := Load(memfs.New(), Options{})
	require.NoError(t, err)
	assert.False(t, layers.Found())
	assert.Equal(t, DefaultConfigPath, layers.Path())

	lic, err := layers.License()
	require.NoError(t, err)
	assert.Empty(t, lic.Path)
	assert.Empty(t, lic.StartYear)
}

func TestLoad_MissingRequiredConfig(t *testing.T) {
	clearEnv(t)
	_, err := Load(memfs.New(), Options{Required: true})
	require.Error(t, err)
	assert.True(t, toolerr.Is(err, toolerr.KindConfig))
	assert.Contains(t, err.Error(), "Config file not found")
}

func TestLoad_LegacyConfigPath(t *testing.T) {
	clearEnv(t)
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, LegacyConfigPath, []byte(`{"CONTACT_EMAIL": "legacy@acme.io"}`), 0o644))

	layers, err := Load(fs, Options{Required: true})
	require.NoError(t, err)
	assert.True(t, layers.Found())
	assert.Equal(t, LegacyConfigPath, layers.Path())

	email, err := layers.Email()
	require.NoError(t, err)
	assert.Equal(t, "legacy@acme.io", email.ContactEmail)
}

func TestLoad_DefaultPathWinsOverLegacy(t *testing.T) {
	clearEnv(t)
	fs := memfs.New()
	writeConfig(t, fs, `{"CONTACT_EMAIL": "current@acme.io"}`)
	require.NoError(t, util.WriteFile(fs, LegacyConfigPath, []byte(`{"CONTACT_EMAIL": "legacy@acme.io"}`), 0o644))

	layers, err := Load(fs, Options{Required: true})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigPath, layers.Path())
	email, err := layers.Email()
	require.NoError(t, err)
	assert.Equal(t, "current@acme.io", email.ContactEmail)
}

func TestLoad_ExplicitPathHasNoFallback(t *testing.T) {
	clearEnv(t)
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, LegacyConfigPath, []byte(`{"CONTACT_EMAIL": "legacy@acme.io"}`), 0o644))

	_, err := Load(fs, Options{Path: "config/repo.json", Required: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config file not found: config/repo.json")
}

func TestLoad_InvalidJSONFailsFast(t *testing.T) {
	clearEnv(t)
	fs := memfs.New()
	writeConfig(t, fs, `{"CONTACT_EMAIL": "security@acme.io",`)

	_, err := Load(fs, Options{})
	require.Error(t, err)
	assert.True(t, toolerr.Is(err, toolerr.KindConfig))
}

func TestLoad_SchemaViolation(t *testing.T) {
	clearEnv(t)
	fs := memfs.New()
	writeConfig(t, fs, `{"LICENSE_START_YEAR": "twenty-twenty"}`)

	_, err := Load(fs, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_CommentsAreStripped(t *testing.T) {
	clearEnv(t)
	fs := memfs.New()
	writeConfig(t, fs, `{
		// contact for the security policy
		"CONTACT_EMAIL": "security@acme.io",
		/* legacy key */
		"Text_To_Replace": "smcnab1/project-template-repo",
	}`)

	layers, err := Load(fs, Options{Required: true})
	require.NoError(t, err)
	assert.True(t, layers.Found())

	email, err := layers.Email()
	require.NoError(t, err)
	assert.Equal(t, "security@acme.io", email.ContactEmail)
	assert.Equal(t, DefaultSecurityPath, email.Path)

	links, err := layers.Links()
	require.NoError(t, err)
	assert.Equal(t, "smcnab1/project-template-repo", links.Placeholder)
}

func TestLinks_PlaceholderPrecedence(t *testing.T) {
	clearEnv(t)
	fs := memfs.New()
	writeConfig(t, fs, `{"PLACEHOLDER_REPO": "new/token", "Text_To_Replace": "old/token", "DEFAULT_OWNER": "acme"}`)

	layers, err := Load(fs, Options{Required: true})
	require.NoError(t, err)
	links, err := layers.Links()
	require.NoError(t, err)

	assert.Equal(t, "new/token", links.Placeholder)
	assert.Equal(t, "acme", links.DefaultOwner)
	assert.Equal(t, DefaultRepoName, links.DefaultRepoName)
	assert.Equal(t, DefaultRemote, links.Remote)
	assert.Equal(t, DefaultReadmePath, links.Path)
	assert.Equal(t, 20*time.Second, links.Timeout)
}

func TestRequiredKeysMissing(t *testing.T) {
	clearEnv(t)
	fs := memfs.New()
	writeConfig(t, fs, `{"PROJECT_AUTHOR": "Acme"}`)

	layers, err := Load(fs, Options{Required: true})
	require.NoError(t, err)

	_, err = layers.Links()
	require.Error(t, err)
	assert.True(t, toolerr.Is(err, toolerr.KindConfig))
	assert.Contains(t, err.Error(), "'PLACEHOLDER_REPO'")

	_, err = layers.Email()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'CONTACT_EMAIL'")
}

func TestIndex_EnvAndConfigLayers(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_STORE", "acme/widget")
	t.Setenv("GH_TOKEN", "tok")
	t.Setenv("INDEX_OUT", "site/index.html")

	fs := memfs.New()
	writeConfig(t, fs, `{"PROJECT_DESCRIPTION": "Widgets", "PROJECT_HOMEPAGE": "https://acme.io", "PROJECT_AUTHOR": "Acme"}`)

	layers, err := Load(fs, Options{})
	require.NoError(t, err)
	s, err := layers.Index()
	require.NoError(t, err)

	assert.Equal(t, "acme/widget", s.Identifier)
	assert.Equal(t, "tok", s.Token)
	assert.Equal(t, "README.md", s.ReadmePath)
	assert.Equal(t, "site/index.html", s.OutputPath)
	assert.Empty(t, s.SitemapPath)
	assert.Equal(t, "Widgets", s.FallbackDescription)
	assert.Equal(t, "https://acme.io", s.FallbackHomepage)
	assert.Equal(t, "Acme", s.Author)
	assert.Equal(t, "https://api.github.com", s.Endpoints.APIBase)
	assert.Equal(t, "https://github.com", s.Endpoints.WebBase)
}

func TestIndex_EmptyIdentifier(t *testing.T) {
	clearEnv(t)
	layers, err := Load(memfs.New(), Options{})
	require.NoError(t, err)

	_, err = layers.Index()
	require.Error(t, err)
	assert.True(t, toolerr.Is(err, toolerr.KindConfig))
	assert.Contains(t, err.Error(), "INPUT_STORE is empty")
}

func TestIndex_BadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_STORE", "acme/widget")
	t.Setenv("REPOKIT_TIMEOUT", "soon")

	layers, err := Load(memfs.New(), Options{})
	require.NoError(t, err)
	_, err = layers.Index()
	assert.True(t, toolerr.Is(err, toolerr.KindConfig))
}

func TestIndex_PathTraversalRejected(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_STORE", "acme/widget")
	t.Setenv("INDEX_OUT", "../outside.html")

	layers, err := Load(memfs.New(), Options{})
	require.NoError(t, err)
	_, err = layers.Index()
	require.Error(t, err)
	assert.True(t, toolerr.Is(err, toolerr.KindConfig))
}

func TestLicense_StartYearPrecedence(t *testing.T) {
	clearEnv(t)
	fs := memfs.New()
	writeConfig(t, fs, `{"LICENSE_START_YEAR": 2018}`)

	layers, err := Load(fs, Options{})
	require.NoError(t, err)
	s, err := layers.License()
	require.NoError(t, err)
	assert.Equal(t, "2018", s.StartYear, "integer config values are accepted")

	t.Setenv("LICENSE_START_YEAR", "2020")
	layers, err = Load(fs, Options{})
	require.NoError(t, err)
	s, err = layers.License()
	require.NoError(t, err)
	assert.Equal(t, "2020", s.StartYear, "environment wins over config")

	flags := pflag.NewFlagSet("license", pflag.ContinueOnError)
	flags.String("start-year", "", "")
	flags.Bool("start-year-from-git", false, "")
	require.NoError(t, flags.Parse([]string{"--start-year=2021", "--start-year-from-git"}))

	layers, err = Load(fs, Options{Flags: flags, Bindings: map[string]string{
		"start-year":          KeyLicenseStartYear,
		"start-year-from-git": KeyStartYearFromGit,
	}})
	require.NoError(t, err)
	s, err = layers.License()
	require.NoError(t, err)
	assert.Equal(t, "2021", s.StartYear, "flag wins over environment")
	assert.True(t, s.StartYearFromGit)
}

func TestLicense_InvalidStartYear(t *testing.T) {
	clearEnv(t)
	t.Setenv("LICENSE_START_YEAR", "20")

	layers, err := Load(memfs.New(), Options{})
	require.NoError(t, err)
	_, err = layers.License()
	require.Error(t, err)
	assert.True(t, toolerr.Is(err, toolerr.KindConfig))
}

func TestLicense_AbsolutePathInsideRoot(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	t.Setenv("LICENSE_PATH", filepath.Join(root, "LICENSE.txt"))

	layers, err := Load(memfs.New(), Options{Root: root})
	require.NoError(t, err)
	s, err := layers.License()
	require.NoError(t, err)
	assert.Equal(t, "LICENSE.txt", s.Path)
}

func TestUnchangedFlagDoesNotShadowDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("INPUT_STORE", "acme/widget")

	flags := pflag.NewFlagSet("index", pflag.ContinueOnError)
	flags.String("readme", "", "")
	require.NoError(t, flags.Parse(nil))

	layers, err := Load(memfs.New(), Options{Flags: flags, Bindings: map[string]string{"readme": KeyReadmePath}})
	require.NoError(t, err)
	s, err := layers.Index()
	require.NoError(t, err)
	assert.Equal(t, DefaultReadmePath, s.ReadmePath)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("REPOKIT_TEST_DOTENV=from-file\nREPOKIT_TEST_PRESET=from-file\n"), 0o600))

	t.Setenv("REPOKIT_TEST_PRESET", "from-env")
	t.Cleanup(func() { _ = os.Unsetenv("REPOKIT_TEST_DOTENV") })

	require.NoError(t, LoadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("REPOKIT_TEST_DOTENV"))
	assert.Equal(t, "from-env", os.Getenv("REPOKIT_TEST_PRESET"), "existing variables are kept")

	assert.NoError(t, LoadEnvFile(""))
	err := LoadEnvFile(filepath.Join(dir, "missing.env"))
	assert.True(t, toolerr.Is(err, toolerr.KindConfig))
}
