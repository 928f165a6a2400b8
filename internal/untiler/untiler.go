package untiler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/grabsdl/grabs/internal/model"
)

// Fetcher is the HTTP collaborator tiles are fetched through.
// *http.Client satisfies it; tests inject fakes.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Config tunes the tile pipeline. The zero value of any field falls back
// to its default.
type Config struct {
	// MaxWorkers bounds concurrent tile fetches.
	MaxWorkers int

	// MaxRetries bounds fetch attempts per tile.
	MaxRetries int

	// RetryCooldown is the base retry delay in seconds; RetryExponent
	// grows it per attempt.
	RetryCooldown float64
	RetryExponent float64
}

// Defaults for Config fields.
const (
	DefaultMaxWorkers    = 10
	DefaultMaxRetries    = 3
	DefaultRetryCooldown = 0.2
	DefaultRetryExponent = 4.0
)

// Result is one assembled image rendition.
type Result struct {
	// Data is the canvas encoded in the image's native format.
	Data []byte

	// Format is the encoding of Data ("jpg", "jpeg" or "png").
	Format string

	// Width and Height are the canvas dimensions in pixels.
	Width  int
	Height int

	// ZoomLevel is the concrete level the rendition was assembled at.
	ZoomLevel int

	// Incomplete flags a best-effort result with missing regions.
	Incomplete bool

	// Missing lists the tile positions left blank, row-major. Empty for
	// complete results.
	Missing []TilePos
}

// Untiler reconstructs full page images from their deep-zoom tiles.
//
// The pipeline per request: resolve the zoom level to a tile grid, fetch
// the tiles concurrently with bounded workers and per-tile retries, stitch
// them into a canvas, and encode the canvas in the image's native format.
// Complete results are cached per (image, level), so repeated requests for
// the same rendition do not refetch tiles.
//
// Untiler is safe for concurrent use.
type Untiler struct {
	fetcher       Fetcher
	maxWorkers    int
	maxRetries    int
	retryCooldown float64
	retryExponent float64

	mu    sync.Mutex
	cache map[string]*Result
}

// New creates an Untiler fetching tiles through the given collaborator.
func New(fetcher Fetcher, cfg Config) *Untiler {
	if cfg.MaxWorkers < 1 {
		cfg.MaxWorkers = DefaultMaxWorkers
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.RetryCooldown <= 0 {
		cfg.RetryCooldown = DefaultRetryCooldown
	}
	if cfg.RetryExponent <= 0 {
		cfg.RetryExponent = DefaultRetryExponent
	}
	return &Untiler{
		fetcher:       fetcher,
		maxWorkers:    cfg.MaxWorkers,
		maxRetries:    cfg.MaxRetries,
		retryCooldown: cfg.RetryCooldown,
		retryExponent: cfg.RetryExponent,
		cache:         make(map[string]*Result),
	}
}

// Content assembles the image at the requested zoom level and returns the
// encoded rendition. Pass LevelMax for the maximum available level.
//
// With bestEffort false, any tile still missing after retries fails the
// request with ErrIncompleteImage. With bestEffort true the rendition is
// returned with the affected regions blank and Incomplete set; such
// results are never cached.
func (u *Untiler) Content(ctx context.Context, im *model.Image, level int, bestEffort bool) (*Result, error) {
	grid, err := ResolveLevel(im, level)
	if err != nil {
		return nil, err
	}

	key := cacheKey(im, grid.Level)
	u.mu.Lock()
	if cached, ok := u.cache[key]; ok {
		u.mu.Unlock()
		return cached, nil
	}
	u.mu.Unlock()

	tiles, failures := u.fetchTiles(ctx, im, grid)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	canvas, missing, err := Assemble(grid, tiles, bestEffort)
	if err != nil {
		// Attach one per-tile failure as a sample of what went wrong.
		for _, ferr := range failures {
			return nil, fmt.Errorf("%w (%v)", err, ferr)
		}
		return nil, err
	}

	data, err := encode(canvas, im.Format)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Data:       data,
		Format:     im.Format,
		Width:      grid.Width,
		Height:     grid.Height,
		ZoomLevel:  grid.Level,
		Incomplete: len(missing) > 0,
		Missing:    missing,
	}

	if !result.Incomplete {
		u.mu.Lock()
		u.cache[key] = result
		u.mu.Unlock()
	}
	return result, nil
}

func cacheKey(im *model.Image, level int) string {
	return fmt.Sprintf("%s#%d", im.ManifestURL, level)
}

// encode serializes the canvas in the service's native encoding for the
// image format.
func encode(canvas image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case "png":
		if err := png.Encode(&buf, canvas); err != nil {
			return nil, err
		}
	case "jpg", "jpeg", "":
		if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: 90}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	return buf.Bytes(), nil
}
