package untiler

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/grabsdl/grabs/internal/model"
	"golang.org/x/sync/errgroup"
)

// TileURL returns the URL of one tile of the image at the given level.
// Tiles are served as {TilesURL}/{level}/{col}_{row}.{format}.
func TileURL(im *model.Image, level int, pos TilePos) string {
	return fmt.Sprintf("%s/%d/%d_%d.%s", im.TilesURL, level, pos.Col, pos.Row, im.Format)
}

// fetchTiles downloads every tile of the grid concurrently, bounded by the
// untiler's worker limit. Each tile is retried up to the configured bound
// with exponential cooldown; a tile still failing afterwards lands in the
// error map instead of aborting the image. The assembler decides whether
// missing tiles are tolerable.
func (u *Untiler) fetchTiles(ctx context.Context, im *model.Image, grid Grid) (map[TilePos][]byte, map[TilePos]error) {
	tiles := make(map[TilePos][]byte, grid.Tiles())
	failures := make(map[TilePos]error)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.maxWorkers)

	for col := 0; col < grid.Columns; col++ {
		for row := 0; row < grid.Rows; row++ {
			pos := TilePos{Col: col, Row: row}
			g.Go(func() error {
				data, err := u.fetchTile(ctx, TileURL(im, grid.Level, pos))
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failures[pos] = err
				} else {
					tiles[pos] = data
				}
				return nil
			})
		}
	}

	// Workers report through the maps; Wait only observes cancellation.
	_ = g.Wait()

	return tiles, failures
}

// fetchTile downloads one tile, retrying transient failures up to the
// configured bound. Cancellation stops the retry loop immediately.
func (u *Untiler) fetchTile(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	var err error

	for tries := 0; tries < u.maxRetries; tries++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		data, err = u.fetcher.Get(ctx, url)
		if err == nil {
			return data, nil
		}
		u.waitForRetry(ctx, tries)
	}

	return nil, fmt.Errorf("fetching tile %s: %w", url, err)
}

func (u *Untiler) waitForRetry(ctx context.Context, tries int) {
	cooldown := u.retryCooldown * math.Pow(u.retryExponent, float64(tries))
	select {
	case <-ctx.Done():
	case <-time.After(time.Duration(cooldown * float64(time.Second))):
	}
}
