package cmr_api

import (
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

// Client issues granule searches against one CMR host.
type Client struct {
	hostname string        // Host of the CMR instance, with port if any
	scheme   string        // URL scheme (http or https)
	http     *resty.Client // Client carrying credentials and cookies
}

// NewClient creates a client for the CMR instance at baseURL.
// A baseURL without a scheme, such as "cmr.earthdata.nasa.gov", means https.
// Returns InvalidUrlError if baseURL cannot be parsed or has no host.
func NewClient(baseURL string, httpClient *resty.Client) (*Client, error) {
	if !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, InvalidUrlError(err.Error())
	}
	if parsed.Host == "" {
		return nil, InvalidUrlError(baseURL)
	}
	if httpClient == nil {
		httpClient = resty.New()
	}
	return &Client{
		hostname: parsed.Host,
		scheme:   parsed.Scheme,
		http:     httpClient,
	}, nil
}

// Endpoint returns the host the client talks to.
func (c *Client) Endpoint() string {
	return c.hostname
}

// buildUrl constructs the URL of a search endpoint with the given parameters.
func (c *Client) buildUrl(endpoint string, params url.Values) *url.URL {
	reqUrl := &url.URL{
		Scheme: c.scheme,
		Host:   c.hostname,
		Path:   "/search/" + endpoint,
	}
	reqUrl.RawQuery = params.Encode()
	return reqUrl
}
