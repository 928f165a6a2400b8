// Package grabs retrieves documents and zoomable page images from the
// Bibliothèques spécialisées de la Ville de Paris digital library.
//
// # Usage
//
//	client := grabs.New(grabs.Options{})
//
//	// Resolve an entity URL into a document tree
//	doc, issues, err := client.Document(ctx, url, true)
//
//	// Retrieve a page image at its maximum zoom level
//	res, err := client.Content(ctx, doc.Images[0], grabs.LevelMax)
//
//	// Or asynchronously, with an optional completion callback
//	task := client.ContentAsync(ctx, doc.Images[0], grabs.LevelMax, nil)
//	res, err = task.Result()
//
// The command-line front ends live in cmd/grabs and cmd/grabs-tui.
package grabs

import (
	"context"

	"github.com/grabsdl/grabs/internal/bsp"
	"github.com/grabsdl/grabs/internal/http"
	"github.com/grabsdl/grabs/internal/model"
	"github.com/grabsdl/grabs/internal/tree"
	"github.com/grabsdl/grabs/internal/untiler"
)

// Convenience aliases so callers work with a single import.
type (
	// Document is one node of the library hierarchy.
	Document = model.Document

	// Image is one zoomable page image.
	Image = model.Image

	// Result is one assembled image rendition.
	Result = untiler.Result

	// Task is the handle of an asynchronous content request.
	Task = untiler.Task

	// Callback fires exactly once when a Task completes.
	Callback = untiler.Callback

	// Issue records a non-fatal condition hit while building a tree.
	Issue = tree.Issue
)

// LevelMax requests the maximum available zoom level of an image.
const LevelMax = untiler.LevelMax

// Fetcher is the HTTP collaborator the client depends on. The default is
// the package's own HTTP client; tests inject fakes.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
	GetString(ctx context.Context, url string) (string, error)
}

// Options tunes a Client. The zero value is usable.
type Options struct {
	// Fetcher overrides the HTTP collaborator. Nil selects the default
	// client with its default timeout.
	Fetcher Fetcher

	// MaxTileFetches bounds concurrent tile fetches per content request.
	MaxTileFetches int

	// MaxRetries bounds fetch attempts per tile.
	MaxRetries int

	// TreeConcurrency bounds concurrent sibling resolution during
	// recursive document builds.
	TreeConcurrency int

	// MaxDepth limits recursive builds when positive.
	MaxDepth int

	// BestEffort keeps renditions with missing tiles instead of failing
	// them; affected regions stay blank and results are flagged.
	BestEffort bool
}

// Client is the module-level entry point, bundling the metadata resolver
// and the tile pipeline behind one handle. A Client is safe for
// concurrent use.
type Client struct {
	opts     Options
	resolver *bsp.Resolver
	untiler  *untiler.Untiler
}

// New creates a Client with the given options.
func New(opts Options) *Client {
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = http.NewClient()
	}
	return &Client{
		opts:     opts,
		resolver: bsp.NewResolver(fetcher),
		untiler: untiler.New(fetcher, untiler.Config{
			MaxWorkers: opts.MaxTileFetches,
			MaxRetries: opts.MaxRetries,
		}),
	}
}

// Document resolves an entity URL into a Document. With recursive true,
// collection children are resolved into a tree; cyclic edges, duplicates
// and failed branches are reported as issues without failing the build.
func (c *Client) Document(ctx context.Context, url string, recursive bool) (*Document, []Issue, error) {
	builder := tree.NewBuilder(c.resolver, tree.Options{
		Recursive:   recursive,
		MaxDepth:    c.opts.MaxDepth,
		Concurrency: c.opts.TreeConcurrency,
	})
	doc, err := builder.Build(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	return doc, builder.Issues(), nil
}

// TiledImage resolves a page-viewer URL (an ark ending in "/vNNNN")
// directly into an Image, without building a Document.
func (c *Client) TiledImage(ctx context.Context, url string) (*Image, error) {
	return c.resolver.ResolveImage(ctx, url)
}

// Content synchronously assembles the image at the requested zoom level.
// Pass LevelMax for the maximum available level. Renditions are cached
// per (image, level).
func (c *Client) Content(ctx context.Context, im *Image, level int) (*Result, error) {
	return c.untiler.Content(ctx, im, level, c.opts.BestEffort)
}

// ContentAsync runs Content on a separate worker and returns the Task
// immediately. callback may be nil; when supplied it fires exactly once
// on completion.
func (c *Client) ContentAsync(ctx context.Context, im *Image, level int, callback Callback) *Task {
	return c.untiler.ContentAsync(ctx, im, level, c.opts.BestEffort, callback)
}
