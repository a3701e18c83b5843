package cmr_api

// SelectDownloadURL returns the first GET DATA link of g in list order.
// Returns *NoDownloadLinkError if there is none.
func SelectDownloadURL(g Granule) (string, error) {
	for _, u := range g.RelatedURLs {
		if u.Type == RelatedURLTypeGetData {
			return u.URL, nil
		}
	}
	return "", &NoDownloadLinkError{ConceptID: g.ConceptID, GranuleUR: g.GranuleUR}
}
