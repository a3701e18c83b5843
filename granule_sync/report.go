package granule_sync

import (
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/isseis/go-cmr-nrt-sync/cmr_api"
)

// plannedDownload is a selected granule and where it would be stored.
type plannedDownload struct {
	Granule cmr_api.Granule
	URL     string
}

// writePlan renders the granules a dry run would fetch.
func writePlan(w io.Writer, plan []plannedDownload) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Concept ID", "Granule UR", "Start", "File"})
	table.SetAutoWrapText(false)
	for _, p := range plan {
		start := ""
		if !p.Granule.BeginningDateTime.IsZero() {
			start = p.Granule.BeginningDateTime.Format(time.RFC3339)
		}
		name, err := fileNameFromURL(p.URL)
		if err != nil {
			name = p.URL
		}
		table.Append([]string{p.Granule.ConceptID, p.Granule.GranuleUR, start, name})
	}
	table.Render()
}
