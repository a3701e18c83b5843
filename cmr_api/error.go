package cmr_api

import (
	"fmt"
	"strconv"
)

type InvalidUrlError string

func (e InvalidUrlError) Error() string {
	return "invalid URL " + strconv.Quote(string(e)) + " in base_url"
}

// QueryError is returned when a granule search fails, either in transport or
// with a non-2xx status.
type QueryError struct {
	Endpoint string
	Status   int    // 0 when no response was received
	Body     string // excerpt of the response body
	Err      error
}

func (e *QueryError) Error() string {
	msg := "catalog query to " + e.Endpoint + " failed"
	if e.Status != 0 {
		msg += fmt.Sprintf(" with status %d", e.Status)
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NoDownloadLinkError is returned when a granule has no GET DATA related link.
type NoDownloadLinkError struct {
	ConceptID string
	GranuleUR string
}

func (e *NoDownloadLinkError) Error() string {
	return fmt.Sprintf("granule %s (%s) has no %q link", e.ConceptID, e.GranuleUR, RelatedURLTypeGetData)
}

func excerpt(body []byte) string {
	if len(body) <= maxErrorBody {
		return string(body)
	}
	return string(body[:maxErrorBody]) + "..."
}
