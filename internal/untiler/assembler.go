package untiler

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG tile decoding
	_ "image/png"  // PNG tile decoding

	"golang.org/x/image/draw"
)

// ErrIncompleteImage is returned when tiles are missing and best-effort
// mode was not requested. Callers opting into best-effort get a canvas
// with the affected regions left blank and the missing positions reported
// instead.
var ErrIncompleteImage = errors.New("incomplete image: missing tiles")

// Assemble stitches the fetched tiles into a single canvas sized to the
// true level dimensions of the grid.
//
// Each tile is placed at its absolute offset (col×TileSize, row×TileSize).
// Interior tiles carry Overlap extra pixels on shared edges; the leading
// overlap of tiles with col>0 or row>0 is trimmed so the placement stays
// absolute. Edge tiles are clipped to the canvas boundary. Placement is
// keyed by grid position, so arrival order never affects the result and
// assembling the same tile set twice yields identical canvases.
//
// A tile that is absent from tiles, or whose bytes do not decode, counts
// as missing. With bestEffort false any missing tile fails the assembly
// with ErrIncompleteImage; with bestEffort true the canvas is returned
// along with the missing positions, in row-major order.
func Assemble(grid Grid, tiles map[TilePos][]byte, bestEffort bool) (*image.NRGBA, []TilePos, error) {
	canvas := image.NewNRGBA(image.Rect(0, 0, grid.Width, grid.Height))

	var missing []TilePos
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Columns; col++ {
			pos := TilePos{Col: col, Row: row}
			data, ok := tiles[pos]
			if !ok {
				missing = append(missing, pos)
				continue
			}

			tile, _, err := image.Decode(bytes.NewReader(data))
			if err != nil {
				missing = append(missing, pos)
				continue
			}

			sr := tile.Bounds()
			if col > 0 {
				sr.Min.X += grid.Overlap
			}
			if row > 0 {
				sr.Min.Y += grid.Overlap
			}

			dp := image.Point{X: col * grid.TileSize, Y: row * grid.TileSize}
			draw.Copy(canvas, dp, tile, sr, draw.Src, nil)
		}
	}

	if len(missing) > 0 && !bestEffort {
		return nil, missing, fmt.Errorf("%w: %d of %d at level %d",
			ErrIncompleteImage, len(missing), grid.Tiles(), grid.Level)
	}
	return canvas, missing, nil
}
