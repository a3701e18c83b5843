package cmr_api

// Default constants for the CMR search API
const (
	// DefaultHost is the production CMR host.
	DefaultHost = "cmr.earthdata.nasa.gov"

	// DefaultPageSize is large enough for one page to cover an NRT ingest window.
	DefaultPageSize = 2000

	// MaxPageSize is the largest page_size accepted by CMR.
	MaxPageSize = 2000

	// DefaultSortKey sorts granules by descending start date.
	DefaultSortKey = "-start_date"

	// GranuleFormat is the metadata dialect requested from granule search.
	GranuleFormat = "umm_json"

	// TimeLayout is the format of the created_at parameter.
	TimeLayout = "2006-01-02T15:04:05Z"

	// maxErrorBody bounds the response excerpt carried by QueryError.
	maxErrorBody = 512
)

// RelatedURLType is the type tag of a granule related link.
type RelatedURLType string

// RelatedURLTypeGetData marks the primary data link of a granule.
const RelatedURLTypeGetData = RelatedURLType("GET DATA")
