package cmr_api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// SearchParams is the query of one granule search. It is built once per run
// with NewSearchParams and not modified afterwards.
type SearchParams struct {
	collectionID string
	since        time.Time
	pageSize     int
	bbox         *BoundingBox
}

// SearchOption tunes SearchParams.
type SearchOption func(*SearchParams)

// WithPageSize sets page_size.
func WithPageSize(n int) SearchOption {
	return func(p *SearchParams) {
		p.pageSize = n
	}
}

// WithBoundingBox restricts the search to b. A nil box means no spatial filter.
func WithBoundingBox(b *BoundingBox) SearchOption {
	return func(p *SearchParams) {
		if b != nil {
			bb := *b
			p.bbox = &bb
		}
	}
}

// NewSearchParams builds the query for granules of collectionID created at or
// after since.
func NewSearchParams(collectionID string, since time.Time, opts ...SearchOption) (SearchParams, error) {
	p := SearchParams{
		collectionID: collectionID,
		since:        since.UTC().Truncate(time.Second),
		pageSize:     DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&p)
	}
	if p.collectionID == "" {
		return SearchParams{}, fmt.Errorf("collection concept id cannot be empty")
	}
	if p.pageSize < 1 || p.pageSize > MaxPageSize {
		return SearchParams{}, fmt.Errorf("page size %d out of range [1, %d]", p.pageSize, MaxPageSize)
	}
	if p.bbox != nil {
		if err := p.bbox.Validate(); err != nil {
			return SearchParams{}, err
		}
	}
	return p, nil
}

// Values returns a fresh copy of the query parameters.
func (p SearchParams) Values() url.Values {
	v := url.Values{}
	v.Set("scroll", "true")
	v.Set("page_size", strconv.Itoa(p.pageSize))
	v.Set("sort_key", DefaultSortKey)
	v.Set("collection_concept_id", p.collectionID)
	v.Set("created_at", p.since.Format(TimeLayout))
	if p.bbox != nil {
		v.Set("bounding_box", p.bbox.String())
	}
	return v
}

// Search issues one granule search and returns its first page.
//
// Only the first page is read even when scroll is enabled and Hits exceeds the
// page size; callers see this through SearchResult.Truncated. Failures are
// returned as *QueryError and are not retried.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	reqUrl := c.buildUrl("granules."+GranuleFormat, params.Values())

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(reqUrl.String())
	if err != nil {
		return nil, &QueryError{Endpoint: c.hostname, Err: err}
	}
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &QueryError{
			Endpoint: c.hostname,
			Status:   resp.StatusCode(),
			Body:     excerpt(resp.Body()),
		}
	}

	var body jsonSearchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &QueryError{
			Endpoint: c.hostname,
			Status:   resp.StatusCode(),
			Err:      fmt.Errorf("failed to decode search response: %w", err),
		}
	}

	result := &SearchResult{
		Hits:     body.Hits,
		ScrollID: resp.Header().Get("CMR-Scroll-Id"),
		Items:    make([]Granule, 0, len(body.Items)),
	}
	if h := resp.Header().Get("CMR-Hits"); h != "" && body.Hits == 0 {
		if n, err := strconv.Atoi(h); err == nil {
			result.Hits = n
		}
	}
	for i := range body.Items {
		result.Items = append(result.Items, body.Items[i].toGranule())
	}
	return result, nil
}
