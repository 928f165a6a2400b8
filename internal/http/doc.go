// Package http provides the HTTP fetch collaborator used by the metadata
// resolver and the tile fetcher.
//
// The Client in this package handles:
//   - User-Agent headers
//   - Per-request timeouts
//   - Typed status errors for failure classification
//
// # Basic Usage
//
//	client := http.NewClient()
//
//	// Fetch an entity page
//	html, err := client.GetString(ctx, entityURL)
//
//	// Fetch raw bytes (a tile image)
//	data, err := client.Get(ctx, tileURL)
//
// The Client performs no retries itself: the tile fetcher owns the bounded
// per-tile retry policy, and metadata fetches fail fast.
package http
