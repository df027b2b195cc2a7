package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const specJSON = `{"openapi":"3.0.0","paths":{"/users":{"get":{}}}}`

// rewriteTransport sends every request to target while reporting the
// original request on the response, so provider URLs can be exercised
// against a local server.
type rewriteTransport struct {
	target *url.URL
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = rt.target.Scheme
	clone.URL.Host = rt.target.Host
	clone.Host = rt.target.Host
	resp, err := http.DefaultTransport.RoundTrip(clone)
	if err != nil {
		return nil, err
	}
	resp.Request = req
	return resp, nil
}

func rewriteClient(t *testing.T, server *httptest.Server) *http.Client {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{Transport: rewriteTransport{target: u}}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"http://example.com", true},
		{"https://example.com/openapi.json", true},
		{"not a url", false},
		{"example.com", false},
		{"./spec/openapi.yaml", false},
		{"/abs/openapi.json", false},
		{`C:\specs\openapi.json`, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRawURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{
			"https://gitlab.com/group/project/-/blob/main/openapi.json",
			"https://gitlab.com/group/project/-/raw/main/openapi.json",
		},
		{
			"https://github.com/owner/repo/blob/main/spec/blob/openapi.yaml",
			"https://github.com/owner/repo/raw/main/spec/blob/openapi.yaml",
		},
		{
			"https://example.com/openapi.json",
			"https://example.com/openapi.json",
		},
	}
	for _, tt := range tests {
		if got := RawURL(tt.in); got != tt.want {
			t.Errorf("RawURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthHeader(t *testing.T) {
	gl, _ := url.Parse("https://gitlab.example.com/group/project/-/raw/main/openapi.json")
	if k, v := authHeader(gl, "tok"); k != "Private-Token" || v != "tok" {
		t.Errorf("gitlab header = %s: %s", k, v)
	}
	selfHosted, _ := url.Parse("https://code.corp.example/api/v4/projects/7/repository/files/openapi.json?ref=main")
	if k, v := authHeader(selfHosted, "tok"); k != "Private-Token" || v != "tok" {
		t.Errorf("self-hosted v4 API header = %s: %s", k, v)
	}
	mirror, _ := url.Parse("https://files.example.com/mirrors/gitlab/openapi.json")
	if k, _ := authHeader(mirror, "tok"); k != "Private-Token" {
		t.Errorf("gitlab in path header = %s", k)
	}
	gh, _ := url.Parse("https://github.com/owner/repo/raw/main/openapi.json")
	if k, v := authHeader(gh, "tok"); k != "Authorization" || v != "Bearer tok" {
		t.Errorf("generic header = %s: %s", k, v)
	}
}

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "openapi.json")
	if err := os.WriteFile(path, []byte(specJSON), FilePerm); err != nil {
		t.Fatal(err)
	}

	f := &Fetcher{
		Client: &http.Client{Transport: failTransport{t}},
		Token: func(string) (string, error) {
			t.Error("token must not be requested for a file")
			return "", nil
		},
	}
	got, err := f.FetchSpecContents(context.Background(), path)
	if err != nil {
		t.Fatalf("FetchSpecContents: %v", err)
	}
	if got != specJSON {
		t.Errorf("got %q", got)
	}
}

// failTransport fails the test if any request is issued.
type failTransport struct{ t *testing.T }

func (ft failTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ft.t.Errorf("unexpected network call to %s", req.URL)
	return nil, fmt.Errorf("network disabled")
}

func TestFetchNonURLNeverHitsNetwork(t *testing.T) {
	f := &Fetcher{Client: &http.Client{Transport: failTransport{t}}}
	_, err := f.FetchSpecContents(context.Background(), "not a url")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !IsKind(err, KindFilesystem) {
		t.Errorf("expected filesystem error, got %v", err)
	}
}

func TestFetchPublicURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("first fetch must not carry credentials")
		}
		fmt.Fprint(w, specJSON)
	}))
	defer server.Close()

	f := &Fetcher{Token: func(string) (string, error) {
		t.Error("token must not be requested when the public fetch succeeds")
		return "", nil
	}}
	got, err := f.FetchSpecContents(context.Background(), server.URL+"/openapi.json")
	if err != nil {
		t.Fatalf("FetchSpecContents: %v", err)
	}
	if got != specJSON {
		t.Errorf("got %q", got)
	}
}

func TestFetchRewritesBlobBeforeRequest(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path != "/owner/repo/raw/main/openapi.json" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, specJSON)
	}))
	defer server.Close()

	f := &Fetcher{}
	got, err := f.FetchSpecContents(context.Background(), server.URL+"/owner/repo/blob/main/openapi.json")
	if err != nil {
		t.Fatalf("FetchSpecContents: %v", err)
	}
	if got != specJSON {
		t.Errorf("got %q", got)
	}
	if len(paths) != 1 || strings.Contains(paths[0], "/blob/") {
		t.Errorf("requests = %v, want a single raw request", paths)
	}
}

func TestFetchRetriesWithTokenAfterRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/login":
			fmt.Fprint(w, "<html>sign in</html>")
		case r.Header.Get("Authorization") == "Bearer secret":
			fmt.Fprint(w, specJSON)
		default:
			http.Redirect(w, r, "/login", http.StatusFound)
		}
	}))
	defer server.Close()

	var hosts []string
	f := &Fetcher{Token: func(host string) (string, error) {
		hosts = append(hosts, host)
		return "secret", nil
	}}
	got, err := f.FetchSpecContents(context.Background(), server.URL+"/openapi.json")
	if err != nil {
		t.Fatalf("FetchSpecContents: %v", err)
	}
	if got != specJSON {
		t.Errorf("got %q", got)
	}
	if len(hosts) != 1 || hosts[0] != "127.0.0.1" {
		t.Errorf("token requested for %v, want exactly once for 127.0.0.1", hosts)
	}
}

func TestFetchRetriesWithTokenAfterStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, specJSON)
	}))
	defer server.Close()

	f := &Fetcher{Token: func(string) (string, error) { return "secret", nil }}
	if _, err := f.FetchSpecContents(context.Background(), server.URL+"/openapi.json"); err != nil {
		t.Fatalf("FetchSpecContents: %v", err)
	}
}

func TestFetchAuthenticatedFailureIsFatal(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	f := &Fetcher{Token: func(string) (string, error) { return "wrong", nil }}
	_, err := f.FetchSpecContents(context.Background(), server.URL+"/openapi.json")
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsKind(err, KindFetch) {
		t.Errorf("expected fetch error, got %v", err)
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error = %q, want it to carry the status", err)
	}
	if calls != 2 {
		t.Errorf("server saw %d requests, want 2", calls)
	}
}

func TestFetchTokenUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := &Fetcher{Token: func(string) (string, error) {
		return "", SourceUnavailable("No token provided. Skipping.")
	}}
	_, err := f.FetchSpecContents(context.Background(), server.URL+"/openapi.json")
	if !IsKind(err, KindSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", err)
	}
}

func contentPayload(t *testing.T, text string, wrap bool) []byte {
	t.Helper()
	enc := base64.StdEncoding.EncodeToString([]byte(text))
	if wrap {
		var sb strings.Builder
		for i := 0; i < len(enc); i += 20 {
			end := i + 20
			if end > len(enc) {
				end = len(enc)
			}
			sb.WriteString(enc[i:end])
			sb.WriteString("\n")
		}
		enc = sb.String()
	}
	b, err := json.Marshal(map[string]string{"content": enc, "encoding": "base64"})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestFetchGitLabContentAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Private-Token") != "glpat" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write(contentPayload(t, specJSON, false))
	}))
	defer server.Close()

	f := &Fetcher{
		Client: rewriteClient(t, server),
		Token:  func(string) (string, error) { return "glpat", nil },
	}
	got, err := f.FetchSpecContents(context.Background(),
		"https://gitlab.example.com/api/v4/projects/42/repository/files/openapi.json?ref=main")
	if err != nil {
		t.Fatalf("FetchSpecContents: %v", err)
	}
	if got != specJSON {
		t.Errorf("got %q", got)
	}
}

func TestFetchGitLabRawFileAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, specJSON)
	}))
	defer server.Close()

	f := &Fetcher{Client: rewriteClient(t, server)}
	got, err := f.FetchSpecContents(context.Background(),
		"https://gitlab.example.com/api/v4/projects/42/repository/files/openapi.json/raw?ref=main")
	if err != nil {
		t.Fatalf("FetchSpecContents: %v", err)
	}
	if got != specJSON {
		t.Errorf("got %q", got)
	}
}

func TestFetchGitHubContentAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/owner/repo/contents/openapi.yaml" {
			http.NotFound(w, r)
			return
		}
		w.Write(contentPayload(t, "openapi: 3.0.0\n", true))
	}))
	defer server.Close()

	f := &Fetcher{Client: rewriteClient(t, server)}
	got, err := f.FetchSpecContents(context.Background(),
		"https://api.github.com/repos/owner/repo/contents/openapi.yaml")
	if err != nil {
		t.Fatalf("FetchSpecContents: %v", err)
	}
	if got != "openapi: 3.0.0\n" {
		t.Errorf("got %q", got)
	}
}

func TestDecodeContentErrors(t *testing.T) {
	for _, body := range []string{`not json`, `{"encoding":"none"}`, `{"content":"!!!"}`} {
		if _, err := decodeContent([]byte(body)); !IsKind(err, KindFetch) {
			t.Errorf("decodeContent(%s) = %v, want fetch error", body, err)
		}
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	f := &Fetcher{
		Timeout: 50 * time.Millisecond,
		Token: func(string) (string, error) {
			return "tok", nil
		},
	}
	start := time.Now()
	_, err := f.FetchSpecContents(context.Background(), server.URL+"/slow")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsKind(err, KindFetch) {
		t.Errorf("expected fetch error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("fetch took %v, timeout not applied", elapsed)
	}
}

func TestDescribeSource(t *testing.T) {
	if got := DescribeSource("https://user:pw@example.com/spec.json?token=x"); got != "example.com/spec.json" {
		t.Errorf("DescribeSource = %q", got)
	}
	if got := DescribeSource("./openapi.json"); got != "./openapi.json" {
		t.Errorf("DescribeSource = %q", got)
	}
}
