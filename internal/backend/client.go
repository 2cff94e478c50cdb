// Package backend talks form-encoded HTTP to the task console server.
package backend

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"amtconsole/internal/util"
	"amtconsole/internal/util/logx"
	"amtconsole/internal/version"
)

const formContentType = "application/x-www-form-urlencoded;charset=utf-8"

// maxBody caps how much of a response is kept; error pages can be large.
const maxBody = 1 << 20

var log = logx.Named("backend")

type Options struct {
	BaseURL  string
	Timeout  time.Duration
	Insecure bool // skip TLS verification (self-signed local servers)
}

type Client struct {
	base *url.URL
	http *http.Client
}

type Response struct {
	Status int
	Body   string
}

func (r Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

func New(opt Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(opt.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opt.BaseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	if opt.Insecure {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local servers
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{base: base, http: &http.Client{Transport: tr, Jar: jar, Timeout: timeout}}, nil
}

// Resolve turns a path (or a server-relative link such as
// "static/UserSavedTables/x.txt") into an absolute URL. Absolute URLs pass through.
func (c *Client) Resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return c.base.ResolveReference(u).String(), nil
}

// PostForm sends values as an urlencoded body and returns the status and body.
// Non-2xx statuses are not errors; only transport failures are.
func (c *Client) PostForm(ctx context.Context, path string, values url.Values) (Response, error) {
	target, err := c.Resolve(path)
	if err != nil {
		return Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(values.Encode()))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", formContentType)
	return c.do(req, util.RedactForm(values))
}

func (c *Client) Get(ctx context.Context, path string) (Response, error) {
	target, err := c.Resolve(path)
	if err != nil {
		return Response{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return Response{}, err
	}
	return c.do(req, "")
}

func (c *Client) do(req *http.Request, logBody string) (Response, error) {
	id := uuid.NewString()
	req.Header.Set("X-Request-Id", id)
	req.Header.Set("User-Agent", version.UserAgent())
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Warnf("%s %s id=%s failed: %v", req.Method, req.URL.Path, id, err)
		return Response{}, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Response{Status: resp.StatusCode}, fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}
	log.Infof("%s %s id=%s status=%d took=%s %s", req.Method, req.URL.Path, id, resp.StatusCode, time.Since(start).Round(time.Millisecond), logBody)
	return Response{Status: resp.StatusCode, Body: string(b)}, nil
}
