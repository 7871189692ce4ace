package wikipedia

// pageSummary is the subset of the REST page-summary payload we consume.
type pageSummary struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Extract string `json:"extract"`
}

// relatedPages is the payload of the page-related endpoint, used to offer
// concrete alternatives when a term resolves to a disambiguation page.
type relatedPages struct {
	Pages []struct {
		Title string `json:"title"`
	} `json:"pages"`
}
