package dto

// JSONTileSource is the payload returned by the getTileSource endpoint,
// once unwrapped (the service wraps the JSON in a pair of quotes and
// backslash-escapes it).
type JSONTileSource struct {
	Image *JSONManifestImage `json:"Image"`
}

// JSONManifestImage describes the deep-zoom pyramid of one page image.
type JSONManifestImage struct {
	Format   string   `json:"Format"`
	Overlap  int      `json:"Overlap"`
	TileSize int      `json:"TileSize"`
	Size     JSONSize `json:"Size"`
}

// JSONSize holds the full-resolution pixel dimensions.
type JSONSize struct {
	Width  int `json:"Width"`
	Height int `json:"Height"`
}
