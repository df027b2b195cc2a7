package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
)

// Provider URL shapes.
const (
	blobSegment = "/blob/"
	rawSegment  = "/raw/"

	// https://docs.gitlab.com/api/repository_files/#get-file-from-repository
	gitlabContentAPI = "/api/v4/projects"
	// https://docs.github.com/en/rest/repos/contents#get-repository-content
	githubContentAPI = "api.github.com/repos"

	gitlabTokenHeader = "Private-Token"
)

// IsURL reports whether s parses as an absolute URL. Single-letter schemes
// are rejected so Windows drive paths (C:\spec.json) stay file paths.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return len(u.Scheme) > 1 && (u.Host != "" || u.Opaque != "")
}

// RawURL rewrites a git-hosting web "blob" URL to its raw-content form.
// Only the first /blob/ segment is replaced.
func RawURL(s string) string {
	if !strings.Contains(s, blobSegment) {
		return s
	}
	return strings.Replace(s, blobSegment, rawSegment, 1)
}

// isContentAPI reports whether u points at a provider repository content
// API whose JSON response carries a base64 "content" field.
func isContentAPI(u *url.URL) bool {
	s := u.String()
	if strings.Contains(s, gitlabContentAPI) {
		// .../repository/files/:path/raw already returns plain text.
		return !strings.HasSuffix(u.Path, "/raw")
	}
	return strings.Contains(s, githubContentAPI)
}

// authHeader returns the credential header for the provider serving u.
// Any URL mentioning gitlab, or shaped like the GitLab v4 API (self-hosted
// instances on other hosts), gets the private-token header.
func authHeader(u *url.URL, token string) (key, value string) {
	if strings.Contains(strings.ToLower(u.String()), "gitlab") || strings.HasPrefix(u.Path, gitlabContentAPI+"/") {
		return gitlabTokenHeader, token
	}
	return "Authorization", "Bearer " + token
}

// Fetcher retrieves raw spec text from a file path or URL.
type Fetcher struct {
	// Client defaults to http.DefaultClient.
	Client *http.Client

	// Token is called at most once, when the unauthenticated fetch fails.
	Token func(host string) (string, error)

	// Timeout bounds each HTTP fetch. Zero means no bound.
	Timeout time.Duration

	Logger Logger
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *Fetcher) logger() Logger {
	if f.Logger == nil {
		return NopLogger{}
	}
	return f.Logger
}

// FetchSpecContents returns the spec text behind source.
// Non-URL sources are always read from disk.
func (f *Fetcher) FetchSpecContents(ctx context.Context, source string) (string, error) {
	if !IsURL(source) {
		data, err := os.ReadFile(source)
		if err != nil {
			return "", FilesystemError(err, "read spec %s", source)
		}
		return string(data), nil
	}

	u, err := url.Parse(RawURL(source))
	if err != nil {
		return "", FetchError(err, "invalid spec URL %q", source)
	}

	text, firstErr := f.fetchBounded(ctx, u, "")
	if firstErr == nil {
		return text, nil
	}
	f.logger().Infof("Unauthenticated fetch failed (%v), retrying with a token", firstErr)

	if f.Token == nil {
		return "", firstErr
	}
	token, err := f.Token(u.Hostname())
	if err != nil {
		return "", err
	}
	return f.fetchBounded(ctx, u, token)
}

func (f *Fetcher) fetchBounded(ctx context.Context, u *url.URL, token string) (string, error) {
	if f.Timeout <= 0 {
		return f.fetch(ctx, u, token)
	}
	t := timeout.New[string](timeout.Config{
		DefaultTimeout: f.Timeout,
	})
	text, err := t.Execute(ctx, f.Timeout, func(ctx context.Context) (string, error) {
		return f.fetch(ctx, u, token)
	})
	if err != nil && !IsKind(err, KindFetch) {
		return "", FetchError(err, "fetch %s", u.Redacted())
	}
	return text, err
}

// fetch issues a single GET. A redirect (typically to a login page) or a
// non-2xx status counts as failure.
func (f *Fetcher) fetch(ctx context.Context, u *url.URL, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", FetchError(err, "create request for %s", u.Redacted())
	}
	if token != "" {
		k, v := authHeader(u, token)
		req.Header.Set(k, v)
	}

	resp, err := f.client().Do(req)
	if err != nil {
		return "", FetchError(err, "fetch %s", u.Redacted())
	}
	defer resp.Body.Close()

	redirected := resp.Request != nil && resp.Request.URL.String() != u.String()
	if redirected {
		return "", FetchError(nil, "failed to fetch spec: redirected to %s", resp.Request.URL.Redacted())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", FetchError(nil, "failed to fetch spec: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", FetchError(err, "read response from %s", u.Redacted())
	}

	if isContentAPI(u) {
		return decodeContent(body)
	}
	return string(body), nil
}

// contentResponse is the subset of the GitLab/GitHub file payload we need.
type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

func decodeContent(body []byte) (string, error) {
	var payload contentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", FetchError(err, "invalid content API response")
	}
	if payload.Content == "" {
		return "", FetchError(nil, "content API response has no content (encoding %q)", payload.Encoding)
	}
	// GitHub wraps base64 at 60 columns.
	compact := strings.Join(strings.Fields(payload.Content), "")
	decoded, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return "", FetchError(err, "decode base64 content")
	}
	return string(decoded), nil
}

// DescribeSource shortens a source for log lines.
func DescribeSource(source string) string {
	if !IsURL(source) {
		return source
	}
	u, err := url.Parse(source)
	if err != nil {
		return source
	}
	return fmt.Sprintf("%s%s", u.Host, u.Path)
}
