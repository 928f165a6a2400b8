package dto

// JSONPicture is one entry of the "pictureList" variable embedded in
// entity pages: one page image with a pointer to its deep-zoom manifest.
type JSONPicture struct {
	DeepZoomManifest string `json:"deepZoomManifest"`
	Pagination       string `json:"pagination"`
	Description      string `json:"description"`
}

// JSONSearchResponse is the payload of the searchSVC geoquery endpoint
// used to list the children of a collection, once the JSONP wrapper has
// been stripped.
type JSONSearchResponse struct {
	Results []JSONSearchResult `json:"results"`
}

// JSONSearchResult is one child entry of a search response. Only the
// field requested via the "fl" query parameter is populated.
type JSONSearchResult struct {
	InterviewID *JSONFieldValue `json:"InterviewId"`
}

// JSONFieldValue wraps a single field value in a search result.
type JSONFieldValue struct {
	Value string `json:"value"`
}
