package github

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/klauern/promptsync/internal/cache"
)

func TestParseRepoSpec(t *testing.T) {
	tests := map[string]struct {
		spec     string
		wantRepo string
		wantRef  string
		wantErr  bool
	}{
		"bare slug":        {spec: "acme/prompts", wantRepo: "acme/prompts"},
		"slug with ref":    {spec: "acme/prompts@v2", wantRepo: "acme/prompts", wantRef: "v2"},
		"https url":        {spec: "https://github.com/acme/prompts", wantRepo: "acme/prompts"},
		"url with ref":     {spec: "https://github.com/acme/prompts@main", wantRepo: "acme/prompts", wantRef: "main"},
		"git suffix":       {spec: "acme/prompts.git", wantRepo: "acme/prompts"},
		"bare host prefix": {spec: "github.com/acme/prompts", wantRepo: "acme/prompts"},
		"missing owner":    {spec: "prompts", wantErr: true},
		"too many parts":   {spec: "a/b/c", wantErr: true},
		"empty":            {spec: "", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			repo, ref, err := ParseRepoSpec(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRepoSpec(%q) succeeded, want error", tt.spec)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRepoSpec(%q): %v", tt.spec, err)
			}
			if repo != tt.wantRepo || ref != tt.wantRef {
				t.Errorf("ParseRepoSpec(%q) = %q, %q; want %q, %q", tt.spec, repo, ref, tt.wantRepo, tt.wantRef)
			}
		})
	}
}

func TestDefaultBranchUsesCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"default_branch": "main"}`))
	}))
	defer server.Close()

	c, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(c)
	client.apiBase = server.URL

	for i := 0; i < 3; i++ {
		branch, err := client.DefaultBranch(context.Background(), "acme/prompts")
		if err != nil {
			t.Fatalf("DefaultBranch: %v", err)
		}
		if branch != "main" {
			t.Errorf("branch = %q", branch)
		}
	}
	if calls != 1 {
		t.Errorf("API called %d times, want 1", calls)
	}
}

func TestDefaultBranchNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client := NewClient(nil)
	client.apiBase = server.URL

	_, err := client.DefaultBranch(context.Background(), "acme/missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("err = %v", err)
	}
}

func TestDownloadExtractsTarball(t *testing.T) {
	var buf bytes.Buffer
	gzWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzWriter)
	content := "review $1"
	tarWriter.WriteHeader(&tar.Header{
		Name: "prompts-main/commands/review.md",
		Mode: 0o644,
		Size: int64(len(content)),
	})
	tarWriter.Write([]byte(content))
	tarWriter.Close()
	gzWriter.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/tar.gz/main") {
			http.NotFound(w, r)
			return
		}
		w.Write(buf.Bytes())
	}))
	defer server.Close()

	client := NewClient(nil)
	client.codeloadBase = server.URL

	dest := t.TempDir()
	if err := client.Download(context.Background(), "acme/prompts", "main", dest); err != nil {
		t.Fatalf("Download: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "commands", "review.md"))
	if err != nil {
		t.Fatalf("extracted file missing: %v", err)
	}
	if string(got) != content {
		t.Errorf("content = %q", got)
	}
}

func TestProvenance(t *testing.T) {
	if got := Provenance("acme/prompts", ""); got != "github.com/acme/prompts" {
		t.Errorf("Provenance = %q", got)
	}
	if got := Provenance("acme/prompts", "v2"); got != "github.com/acme/prompts@v2" {
		t.Errorf("Provenance = %q", got)
	}
}

func TestAppendProvenance(t *testing.T) {
	tests := map[string]struct {
		from  []string
		entry string
		want  []string
	}{
		"append to empty": {nil, "github.com/a/b", []string{"github.com/a/b"}},
		"append new":      {[]string{"github.com/a/b"}, "github.com/c/d", []string{"github.com/a/b", "github.com/c/d"}},
		"skip repeat":     {[]string{"github.com/a/b"}, "github.com/a/b", []string{"github.com/a/b"}},
		"earlier dup ok":  {[]string{"github.com/a/b", "github.com/c/d"}, "github.com/a/b", []string{"github.com/a/b", "github.com/c/d", "github.com/a/b"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := AppendProvenance(tt.from, tt.entry); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AppendProvenance(%v, %q) = %v, want %v", tt.from, tt.entry, got, tt.want)
			}
		})
	}
}
