package granule_sync

import (
	"fmt"

	"github.com/isseis/go-cmr-nrt-sync/watermark"
)

// RunResult holds the outcome of one sync run.
type RunResult struct {
	RunID      string
	State      State // StateDone or StateAborted once Run returns
	FailedIn   State // state in which an aborted run failed
	Since      watermark.Watermark
	Candidate  watermark.Watermark // zero until the query returned
	Hits       int                 // total matches reported by the catalog
	Selected   int                 // granules with a download link
	Downloaded []string            // local paths, in download order
	Advanced   bool                // watermark file was replaced with Candidate
}

// String returns a string representation of the run result
func (r RunResult) String() string {
	s := fmt.Sprintf("run_id=%s, state=%s, since=%s, hits=%d, selected=%d, downloaded=%d, advanced=%t",
		r.RunID, r.State, r.Since, r.Hits, r.Selected, len(r.Downloaded), r.Advanced)
	if r.State == StateAborted {
		s += fmt.Sprintf(", failed_in=%s", r.FailedIn)
	}
	return s
}
