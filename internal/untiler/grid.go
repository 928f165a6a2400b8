package untiler

import (
	"errors"
	"fmt"

	"github.com/grabsdl/grabs/internal/model"
)

// LevelMax requests the maximum available zoom level of an image.
const LevelMax = 0

// ErrZoomLevelUnavailable is returned when a requested zoom level is not
// offered by the image. The pipeline never substitutes another level.
var ErrZoomLevelUnavailable = errors.New("zoom level unavailable")

// TilePos addresses one tile of a grid by column and row, zero-based.
type TilePos struct {
	Col int
	Row int
}

// Grid is the tile geometry of one image at one zoom level. It is
// ephemeral: computed per request by ResolveLevel and consumed by the
// fetcher and the assembler.
type Grid struct {
	// Level is the concrete zoom level the grid was computed for.
	Level int

	// TileSize is the tile edge length in pixels.
	TileSize int

	// Overlap is the shared-edge pixel count of interior tiles.
	Overlap int

	// Columns and Rows count the tiles covering the level.
	Columns int
	Rows    int

	// Width and Height are the true pixel dimensions at Level. The tile
	// canvas (Columns×TileSize by Rows×TileSize) may exceed them; edge
	// tiles are clipped during assembly.
	Width  int
	Height int
}

// CanvasWidth returns the un-clipped width covered by the tile columns.
func (g Grid) CanvasWidth() int { return g.Columns * g.TileSize }

// CanvasHeight returns the un-clipped height covered by the tile rows.
func (g Grid) CanvasHeight() int { return g.Rows * g.TileSize }

// Tiles returns the number of tiles in the grid.
func (g Grid) Tiles() int { return g.Columns * g.Rows }

// ResolveLevel maps a requested zoom level onto the concrete tile grid of
// the image. Passing LevelMax selects the maximum available level. A level
// outside the image's available set fails with ErrZoomLevelUnavailable.
func ResolveLevel(im *model.Image, level int) (Grid, error) {
	if level == LevelMax {
		level = im.MaxZoom()
	}
	if !im.HasZoomLevel(level) {
		return Grid{}, fmt.Errorf("%w: level %d not in %v for %s",
			ErrZoomLevelUnavailable, level, im.ZoomLevels(), im.Ark)
	}

	width, height := im.LevelSize(level)
	return Grid{
		Level:    level,
		TileSize: im.TileSize,
		Overlap:  im.Overlap,
		Columns:  ceilDiv(width, im.TileSize),
		Rows:     ceilDiv(height, im.TileSize),
		Width:    width,
		Height:   height,
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
