package model

import "math"

// BaseZoom is the zoom level the service serves a tile-sized rendition at.
// Deeper levels double the pixel dimensions per step.
const BaseZoom = 10

// Image represents one zoomable page image attached to a Document.
//
// An Image is owned by exactly one Document and is immutable once resolved.
// The tile geometry fields (Width, Height, TileSize, Overlap, Format) come
// from the image's deep-zoom manifest; TilesURL is the root under which the
// individual tiles are served as
//
//	{TilesURL}/{level}/{col}_{row}.{Format}
type Image struct {
	// IID is the service-internal instance identifier.
	IID string `json:"iid"`

	// Ark is the ARK identifier of the page view (e.g. "ark:/12345/abc/v0004").
	Ark string `json:"ark"`

	// ViewerURL is the page-viewer URL the image was resolved from, if any.
	ViewerURL string `json:"viewer_url,omitempty"`

	// ManifestURL locates the deep-zoom manifest describing the image.
	ManifestURL string `json:"manifest_url"`

	// TilesURL is the root URL of the image's tile pyramid.
	TilesURL string `json:"tiles_url"`

	// Title is the page label (pagination), if any.
	Title string `json:"title,omitempty"`

	// Description is the page description, if any.
	Description string `json:"description,omitempty"`

	// FileName is the deterministic output file name for the image,
	// derived from the manifest name or, failing that, the ark and page
	// index.
	FileName string `json:"file_name"`

	// Format is the tile encoding reported by the manifest ("jpg", "png").
	Format string `json:"format"`

	// Width and Height are the full-resolution pixel dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// TileSize is the tile edge length in pixels, constant across levels.
	TileSize int `json:"tile_size"`

	// Overlap is the number of pixels interior tiles share with each
	// neighbour on a common edge.
	Overlap int `json:"overlap"`
}

// MaxZoom returns the deepest zoom level the service offers for the image:
// the level at which the full-resolution dimensions are reached.
func (im *Image) MaxZoom() int {
	if im.TileSize <= 0 {
		return BaseZoom
	}
	longest := im.Width
	if im.Height > longest {
		longest = im.Height
	}
	n := float64(longest) / float64(im.TileSize)
	if n <= 1 {
		return BaseZoom
	}
	return BaseZoom + int(math.Floor(math.Log2(n)))
}

// minZoom returns the shallowest level worth serving: never deeper than
// BaseZoom, but clamped so both dimensions stay at least one pixel.
func (im *Image) minZoom() int {
	maxZoom := im.MaxZoom()
	lo := BaseZoom
	if maxZoom < lo {
		lo = maxZoom
	}
	for lo < maxZoom {
		w, h := im.LevelSize(lo)
		if w >= 1 && h >= 1 {
			break
		}
		lo++
	}
	return lo
}

// ZoomLevels returns the available zoom levels in ascending order. The last
// entry is the maximum level.
func (im *Image) ZoomLevels() []int {
	lo, hi := im.minZoom(), im.MaxZoom()
	levels := make([]int, 0, hi-lo+1)
	for l := lo; l <= hi; l++ {
		levels = append(levels, l)
	}
	return levels
}

// HasZoomLevel reports whether level is one of the available zoom levels.
func (im *Image) HasZoomLevel(level int) bool {
	return level >= im.minZoom() && level <= im.MaxZoom()
}

// LevelSize returns the pixel dimensions of the image at the given zoom
// level. Each level up from MaxZoom halves both dimensions, truncating.
func (im *Image) LevelSize(level int) (width, height int) {
	shift := uint(im.MaxZoom() - level)
	return im.Width >> shift, im.Height >> shift
}
