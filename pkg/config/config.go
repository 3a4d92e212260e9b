package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fulmenhq/repokit/internal/toolerr"
	"github.com/fulmenhq/repokit/pkg/github"
	"github.com/fulmenhq/repokit/pkg/safeio"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tidwall/jsonc"
)

// DefaultConfigPath is the repository-relative location of the shared config file.
const DefaultConfigPath = ".github/repo_tools/repo_config.json"

// LegacyConfigPath is where older template checkouts keep the config file.
// It is read only when DefaultConfigPath is selected and missing.
const LegacyConfigPath = ".github/py_repo_tools/repo_config.json"

// Setting keys. Config-file keys are matched case-insensitively, so
// "CONTACT_EMAIL" in the file is "contact_email" here.
const (
	KeyContactEmail       = "contact_email"
	KeyPlaceholderRepo    = "placeholder_repo"
	KeyLegacyPlaceholder  = "text_to_replace"
	KeyLicenseStartYear   = "license_start_year"
	KeyProjectDescription = "project_description"
	KeyProjectHomepage    = "project_homepage"
	KeyProjectAuthor      = "project_author"
	KeyDefaultOwner       = "default_owner"
	KeyDefaultRepoName    = "default_repo_name"

	KeyInputStore       = "input_store"
	KeyReadmePath       = "readme_path"
	KeyIndexOut         = "index_out"
	KeySitemapOut       = "sitemap_out"
	KeyToken            = "github_token"
	KeyAPIURL           = "github_api_url"
	KeyServerURL        = "github_server_url"
	KeyTimeout          = "timeout"
	KeyLinksPath        = "links_path"
	KeyRemote           = "remote"
	KeySecurityPath     = "security_path"
	KeyLicensePath      = "license_path"
	KeyStartYearFromGit = "start_year_from_git"
)

// Defaults used when neither flag, environment nor config file supply a value.
const (
	DefaultReadmePath   = "README.md"
	DefaultIndexOut     = "index.html"
	DefaultSecurityPath = ".github/SECURITY.md"
	DefaultOwner        = "smcnab1"
	DefaultRepoName     = "project-template-repo"
	DefaultRemote       = "origin"
)

var envBindings = map[string][]string{
	KeyInputStore:       {"INPUT_STORE"},
	KeyReadmePath:       {"README_PATH"},
	KeyIndexOut:         {"INDEX_OUT"},
	KeySitemapOut:       {"SITEMAP_OUT"},
	KeyToken:            {"GITHUB_TOKEN", "GH_TOKEN"},
	KeyAPIURL:           {"GITHUB_API_URL"},
	KeyServerURL:        {"GITHUB_SERVER_URL"},
	KeyTimeout:          {"REPOKIT_TIMEOUT"},
	KeyLinksPath:        {"LINKS_PATH"},
	KeySecurityPath:     {"SECURITY_PATH"},
	KeyLicensePath:      {"LICENSE_PATH"},
	KeyLicenseStartYear: {"LICENSE_START_YEAR"},
}

// Options says where the config file lives and how a tool treats it.
type Options struct {
	// Root is the repository root every path is resolved against.
	Root string
	// Path is the repository-relative config path; DefaultConfigPath (or
	// LegacyConfigPath when only that exists) when empty.
	Path string
	// Required makes a missing config file a configuration error.
	Required bool
	// Flags and Bindings map command-line flags (by name) onto setting keys.
	Flags    *pflag.FlagSet
	Bindings map[string]string
}

// Layers is the merged view of flag, environment, config file and defaults.
// Resolve the per-tool settings from it once; it is not consulted afterwards.
type Layers struct {
	v     *viper.Viper
	root  string
	path  string
	found bool
}

// Load reads the config file from fsys (if present) and stacks it under the
// environment and flags.
func Load(fsys billy.Filesystem, opts Options) (*Layers, error) {
	v := viper.New()
	setDefaults(v)

	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, toolerr.Wrap(toolerr.KindConfig, err, "failed to bind environment for %s", key)
		}
	}

	path := opts.Path
	if path == "" {
		path = DefaultConfigPath
	}
	root := opts.Root
	if root == "" {
		root = "."
	}

	layers := &Layers{v: v, root: root, path: path}

	data, err := util.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) && path == DefaultConfigPath {
		if legacy, lerr := util.ReadFile(fsys, LegacyConfigPath); lerr == nil {
			data, err = legacy, nil
			path = LegacyConfigPath
			layers.path = path
		}
	}
	switch {
	case err == nil:
		clean := jsonc.ToJSON(data)
		if err := ValidateRepoConfig(clean); err != nil {
			return nil, toolerr.Wrap(toolerr.KindConfig, err, "failed to read/parse config %s", path)
		}
		v.SetConfigType("json")
		if err := v.ReadConfig(bytes.NewReader(clean)); err != nil {
			return nil, toolerr.Wrap(toolerr.KindConfig, err, "failed to read/parse config %s", path)
		}
		layers.found = true
	case errors.Is(err, fs.ErrNotExist):
		if opts.Required {
			return nil, toolerr.Configf("Config file not found: %s", path)
		}
	default:
		return nil, toolerr.Wrap(toolerr.KindConfig, err, "failed to read config %s", path)
	}

	if opts.Flags != nil {
		for name, key := range opts.Bindings {
			flag := opts.Flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, toolerr.Wrap(toolerr.KindConfig, err, "failed to bind flag --%s", name)
			}
		}
	}

	return layers, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyReadmePath, DefaultReadmePath)
	v.SetDefault(KeyIndexOut, DefaultIndexOut)
	v.SetDefault(KeyAPIURL, github.DefaultAPIBase)
	v.SetDefault(KeyServerURL, github.DefaultWebBase)
	v.SetDefault(KeyTimeout, github.DefaultTimeout.String())
	v.SetDefault(KeyLinksPath, DefaultReadmePath)
	v.SetDefault(KeySecurityPath, DefaultSecurityPath)
	v.SetDefault(KeyDefaultOwner, DefaultOwner)
	v.SetDefault(KeyDefaultRepoName, DefaultRepoName)
	v.SetDefault(KeyRemote, DefaultRemote)
}

// Found reports whether a config file was read.
func (l *Layers) Found() bool { return l.found }

// Path is the config path that was consulted.
func (l *Layers) Path() string { return l.path }

func (l *Layers) str(key string) string {
	return strings.TrimSpace(l.v.GetString(key))
}

func (l *Layers) endpoints() github.Endpoints {
	return github.Endpoints{APIBase: l.str(KeyAPIURL), WebBase: l.str(KeyServerURL)}
}

func (l *Layers) timeout() (time.Duration, error) {
	raw := l.str(KeyTimeout)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, toolerr.Configf("invalid network timeout %q", raw)
	}
	return d, nil
}

func (l *Layers) repoPath(key string) (string, error) {
	return l.repoPathValue(key, l.str(key))
}

func (l *Layers) repoPathValue(key, raw string) (string, error) {
	p, err := safeio.RepoPath(l.root, raw)
	if err != nil {
		return "", toolerr.Wrap(toolerr.KindConfig, err, "invalid %s %q", key, raw)
	}
	return p, nil
}

func describe(key string) string {
	return fmt.Sprintf("'%s'", strings.ToUpper(key))
}
