package cmr_api

import (
	"encoding/json"
	"time"
)

// jsonRelatedURL is a related link in the raw UMM-G record.
type jsonRelatedURL struct {
	URL         string         `json:"URL"`
	Type        RelatedURLType `json:"Type"`
	Subtype     string         `json:"Subtype"`
	Description string         `json:"Description"`
	MimeType    string         `json:"MimeType"`
}

type jsonProviderDate struct {
	Date string `json:"Date"`
	Type string `json:"Type"`
}

// jsonGranule is one item of a umm_json search response.
type jsonGranule struct {
	Meta struct {
		ConceptID  string `json:"concept-id"`
		RevisionID int    `json:"revision-id"`
		ProviderID string `json:"provider-id"`
		NativeID   string `json:"native-id"`
	} `json:"meta"`
	UMM struct {
		GranuleUR      string           `json:"GranuleUR"`
		RelatedUrls    []jsonRelatedURL `json:"RelatedUrls"`
		TemporalExtent struct {
			RangeDateTime struct {
				BeginningDateTime string `json:"BeginningDateTime"`
				EndingDateTime    string `json:"EndingDateTime"`
			} `json:"RangeDateTime"`
		} `json:"TemporalExtent"`
		SpatialExtent json.RawMessage    `json:"SpatialExtent"`
		ProviderDates []jsonProviderDate `json:"ProviderDates"`
	} `json:"umm"`
}

// jsonSearchResponse is the body of a umm_json granule search.
type jsonSearchResponse struct {
	Hits  int           `json:"hits"`
	Took  int           `json:"took"`
	Items []jsonGranule `json:"items"`
}

// RelatedURL is a tagged link attached to a granule.
type RelatedURL struct {
	URL         string
	Type        RelatedURLType
	Subtype     string
	Description string
	MimeType    string
}

// ProviderDate is a provenance date of a granule, such as Insert or Update.
type ProviderDate struct {
	Date time.Time
	Type string
}

// Granule holds the fields of a granule record used for mirroring and display.
// Temporal and spatial extents are informational only.
type Granule struct {
	ConceptID   string
	RevisionID  int
	ProviderID  string
	NativeID    string
	GranuleUR   string
	RelatedURLs []RelatedURL

	BeginningDateTime time.Time
	EndingDateTime    time.Time
	SpatialExtent     json.RawMessage
	ProviderDates     []ProviderDate
}

// SearchResult is the first page of a granule search.
// Hits may exceed len(Items); further pages are not fetched.
type SearchResult struct {
	Hits     int
	ScrollID string
	Items    []Granule
}

// Truncated reports whether the catalog holds more matches than were returned.
func (r *SearchResult) Truncated() bool {
	return r.Hits > len(r.Items)
}

// parseTime accepts the RFC 3339 variants CMR emits. Unparsable values yield
// the zero time because extents are display-only.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

// toGranule converts the raw record into a Granule with proper Go types.
func (j *jsonGranule) toGranule() Granule {
	g := Granule{
		ConceptID:         j.Meta.ConceptID,
		RevisionID:        j.Meta.RevisionID,
		ProviderID:        j.Meta.ProviderID,
		NativeID:          j.Meta.NativeID,
		GranuleUR:         j.UMM.GranuleUR,
		BeginningDateTime: parseTime(j.UMM.TemporalExtent.RangeDateTime.BeginningDateTime),
		EndingDateTime:    parseTime(j.UMM.TemporalExtent.RangeDateTime.EndingDateTime),
		SpatialExtent:     j.UMM.SpatialExtent,
	}
	for _, u := range j.UMM.RelatedUrls {
		g.RelatedURLs = append(g.RelatedURLs, RelatedURL(u))
	}
	for _, d := range j.UMM.ProviderDates {
		g.ProviderDates = append(g.ProviderDates, ProviderDate{Date: parseTime(d.Date), Type: d.Type})
	}
	return g
}
