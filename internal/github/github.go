// Package github fetches command/skill repositories as codeload
// tarballs. It talks to api.github.com only to resolve a repository's
// default branch, caching the answer between runs; the tarball itself
// streams straight into the archive extractor.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/klauern/promptsync/internal/archive"
	"github.com/klauern/promptsync/internal/cache"
	"github.com/klauern/promptsync/internal/logging"
)

const (
	apiBase      = "https://api.github.com"
	codeloadBase = "https://codeload.github.com"
	userAgent    = "promptsync"
)

var repoRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// Client downloads repositories from GitHub.
type Client struct {
	httpClient   *http.Client
	cache        *cache.Cache
	token        string
	apiBase      string
	codeloadBase string
}

// NewClient builds a client. The GITHUB_TOKEN environment variable, if
// set, authenticates API requests to lift rate limits. A nil cache
// disables metadata caching.
func NewClient(c *cache.Cache) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 60 * time.Second},
		cache:        c,
		token:        os.Getenv("GITHUB_TOKEN"),
		apiBase:      apiBase,
		codeloadBase: codeloadBase,
	}
}

// ParseRepoSpec splits a repository spec into slug and ref. Accepted
// forms: "owner/name", "owner/name@ref", and a github.com URL with an
// optional @ref suffix.
func ParseRepoSpec(spec string) (repo, ref string, err error) {
	repo = strings.TrimSuffix(spec, ".git")
	if at := strings.LastIndexByte(repo, '@'); at >= 0 {
		ref = repo[at+1:]
		repo = repo[:at]
	}

	for _, prefix := range []string{"https://github.com/", "http://github.com/", "github.com/"} {
		if strings.HasPrefix(repo, prefix) {
			repo = strings.TrimPrefix(repo, prefix)
			break
		}
	}
	repo = strings.Trim(repo, "/")

	if !repoRe.MatchString(repo) {
		return "", "", fmt.Errorf("invalid repository spec %q: want owner/name", spec)
	}
	return repo, ref, nil
}

// DefaultBranch resolves a repository's default branch, consulting the
// cache first.
func (c *Client) DefaultBranch(ctx context.Context, repo string) (string, error) {
	if c.cache != nil {
		if info, ok := c.cache.Get(repo, cache.DefaultTTL); ok {
			return info.DefaultBranch, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/repos/"+repo, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query repository %s: %w", repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("repository %s not found", repo)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s for repository %s", resp.Status, repo)
	}

	var payload struct {
		DefaultBranch string `json:"default_branch"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode repository metadata: %w", err)
	}
	if payload.DefaultBranch == "" {
		return "", fmt.Errorf("repository %s reports no default branch", repo)
	}

	if c.cache != nil {
		c.cache.Set(cache.RepoInfo{Repo: repo, DefaultBranch: payload.DefaultBranch})
		if err := c.cache.Save(); err != nil {
			logging.Warn("failed to persist repository cache", logging.Err(err))
		}
	}
	return payload.DefaultBranch, nil
}

// Download fetches repo at ref (empty means the default branch) and
// extracts it into destDir.
func (c *Client) Download(ctx context.Context, repo, ref, destDir string) error {
	if ref == "" {
		branch, err := c.DefaultBranch(ctx, repo)
		if err != nil {
			return err
		}
		ref = branch
	}

	url := fmt.Sprintf("%s/%s/tar.gz/%s", c.codeloadBase, repo, ref)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s@%s: %w", repo, ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("no tarball for %s@%s", repo, ref)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s downloading %s@%s", resp.Status, repo, ref)
	}

	logging.Info("downloading repository",
		logging.Operation("download"),
		logging.Path(repo+"@"+ref),
	)
	return archive.ExtractTarball(resp.Body, destDir)
}

// Provenance is the string recorded in a document's from field after a
// download: the repo slug, plus the ref when one was pinned.
func Provenance(repo, ref string) string {
	if ref == "" {
		return "github.com/" + repo
	}
	return "github.com/" + repo + "@" + ref
}

// AppendProvenance adds entry to from unless it is already the last
// element. The sequence is append-only; earlier duplicates stay.
func AppendProvenance(from []string, entry string) []string {
	if n := len(from); n > 0 && from[n-1] == entry {
		return from
	}
	return append(from, entry)
}
