// Package untiler reconstructs full page images from deep-zoom tile
// pyramids. The name follows the original tool's term for the reverse of
// tiling.
//
// # Pipeline
//
// One content request runs three stages:
//
//  1. ResolveLevel maps the requested zoom level (or LevelMax) onto a
//     tile Grid. Unknown levels fail with ErrZoomLevelUnavailable.
//  2. Tiles are fetched concurrently with bounded workers and a small
//     per-tile retry budget; stragglers land in a missing set instead of
//     aborting the image.
//  3. Assemble stitches the tiles into a canvas at their absolute grid
//     offsets, trimming deep-zoom overlap and clipping edge tiles, then
//     the canvas is encoded in the image's native format.
//
// Missing tiles fail the request with ErrIncompleteImage unless the
// caller opts into best-effort mode, in which case the result is returned
// with the affected regions blank and flagged Incomplete.
//
// # Sync and async
//
//	u := untiler.New(httpClient, untiler.Config{})
//
//	// Synchronous
//	res, err := u.Content(ctx, img, untiler.LevelMax, false)
//
//	// Asynchronous with callback
//	task := u.ContentAsync(ctx, img, untiler.LevelMax, false, func(level int, t *untiler.Task) {
//	    res, err := t.Result() // already terminal, returns immediately
//	    _ = res
//	    _ = err
//	})
//	res, err = task.Result() // or block here instead
//
// Complete renditions are cached per (image, level); repeated requests do
// not refetch tiles.
package untiler
