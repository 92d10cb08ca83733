package bookmarks

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalResolver resolves file paths and http(s) URLs.
type LocalResolver struct {
	Client *http.Client
}

// NewLocalResolver creates a resolver whose HTTP requests time out after timeout.
func NewLocalResolver(timeout time.Duration) *LocalResolver {
	return &LocalResolver{Client: &http.Client{Timeout: timeout}}
}

// ParseLocator turns a command line argument into a locator. Anything that
// is not an absolute URL is treated as a local path.
func ParseLocator(arg string) (*url.URL, error) {
	if u, err := url.Parse(arg); err == nil && u.Scheme != "" && len(u.Scheme) > 1 {
		return u, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

// DisplayName returns the file name announced in a Content-Disposition header.
func (r *LocalResolver) DisplayName(uri *url.URL) (string, bool) {
	if !isHTTP(uri) {
		return "", false
	}
	resp, err := r.head(uri)
	if err != nil {
		return "", false
	}
	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	if err != nil || params["filename"] == "" {
		return "", false
	}
	return params["filename"], true
}

// MimeType returns the Content-Type of a URL, or the type registered for
// the extension of a local file.
func (r *LocalResolver) MimeType(uri *url.URL) (string, bool) {
	if !isHTTP(uri) {
		t := mime.TypeByExtension(filepath.Ext(uri.Path))
		return t, t != ""
	}
	resp, err := r.head(uri)
	if err != nil {
		return "", false
	}
	t := resp.Header.Get("Content-Type")
	return t, t != ""
}

// Open opens a local file or starts a GET request.
func (r *LocalResolver) Open(uri *url.URL) (io.ReadCloser, error) {
	if !isHTTP(uri) {
		return os.Open(filepath.FromSlash(uri.Path))
	}
	resp, err := r.client().Get(uri.String())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", uri, resp.Status)
	}
	return resp.Body, nil
}

func (r *LocalResolver) head(uri *url.URL) (*http.Response, error) {
	resp, err := r.client().Head(uri.String())
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HEAD %s: %s", uri, resp.Status)
	}
	return resp, nil
}

func (r *LocalResolver) client() *http.Client {
	if r.Client != nil {
		return r.Client
	}
	return http.DefaultClient
}

func isHTTP(uri *url.URL) bool {
	scheme := strings.ToLower(uri.Scheme)
	return scheme == "http" || scheme == "https"
}
