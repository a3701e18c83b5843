package credentials

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/go-resty/resty/v2"
)

const (
	defaultUserAgent    = "nrtsync/0.1"
	defaultMaxRedirects = 10
)

type clientConfig struct {
	userAgent string
}

// ClientOption configures NewHTTPClient.
type ClientOption func(*clientConfig)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// NewHTTPClient returns a client that sends creds as basic auth to endpoint
// only, including when a redirect leads there, and keeps the session cookies
// issued during the run in its own jar.
func NewHTTPClient(creds Credentials, endpoint string, opts ...ClientOption) *resty.Client {
	cfg := clientConfig{userAgent: defaultUserAgent}
	for _, opt := range opts {
		opt(&cfg)
	}

	jar, _ := cookiejar.New(nil)
	client := resty.New().
		SetCookieJar(jar).
		SetHeader("User-Agent", cfg.userAgent).
		SetRedirectPolicy(
			resty.FlexibleRedirectPolicy(defaultMaxRedirects),
			resty.RedirectPolicyFunc(func(req *http.Request, _ []*http.Request) error {
				if matchesHost(req.URL, endpoint) {
					req.SetBasicAuth(creds.Username, creds.Password)
				}
				return nil
			}),
		)

	client.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		u, err := url.Parse(r.URL)
		if err == nil && matchesHost(u, endpoint) {
			r.SetBasicAuth(creds.Username, creds.Password)
		}
		return nil
	})
	return client
}

// matchesHost reports whether u points at endpoint, which may carry a port.
func matchesHost(u *url.URL, endpoint string) bool {
	return u.Host == endpoint || u.Hostname() == endpoint
}
