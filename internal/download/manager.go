package download

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/grabsdl/grabs/internal/bsp"
	"github.com/grabsdl/grabs/internal/config"
	"github.com/grabsdl/grabs/internal/http"
	ioutils "github.com/grabsdl/grabs/internal/io"
	"github.com/grabsdl/grabs/internal/model"
	"github.com/grabsdl/grabs/internal/tree"
	"github.com/grabsdl/grabs/internal/untiler"
	"golang.org/x/sync/errgroup"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a retrieval progress update.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Manager coordinates one retrieval run: resolving the source URL into
// documents, writing their metadata files, and downloading page images.
type Manager struct {
	settings     *config.Settings
	httpClient   *http.Client
	resolver     *bsp.Resolver
	untiler      *untiler.Untiler
	imageService *ioutils.ImageService

	documents []*model.Document
	image     *model.Image // standalone page view, nil otherwise
	issues    []tree.Issue

	totalImages int32
	savedImages int32
	failed      int32

	onProgress func(ProgressEvent)
}

// NewManager creates a new retrieval Manager.
func NewManager(settings *config.Settings, onProgress func(ProgressEvent)) *Manager {
	client := http.NewClientWithTimeout(time.Duration(settings.FetchTimeoutSeconds) * time.Second)

	return &Manager{
		settings:   settings,
		httpClient: client,
		resolver:   bsp.NewResolver(client),
		untiler: untiler.New(client, untiler.Config{
			MaxWorkers:    settings.MaxConcurrentTileFetches,
			MaxRetries:    settings.DownloadMaxRetries,
			RetryCooldown: settings.DownloadRetryCooldown,
			RetryExponent: settings.DownloadRetryExponent,
		}),
		imageService: ioutils.NewImageService(),
		onProgress:   onProgress,
	}
}

// Initialize resolves the source URL into the document tree (or a single
// page image) and prepares the output directory. Root resolution failure
// is the only fatal outcome; branch failures are reported as warnings.
func (m *Manager) Initialize(ctx context.Context, src string) error {
	if err := ioutils.EnsureDir(m.settings.OutputDir); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if bsp.IsImageURL(src) {
		img, err := m.resolver.ResolveImage(ctx, src)
		if err != nil {
			return err
		}
		m.image = img
		m.totalImages = 1
		m.progress(ProgressEvent{Message: fmt.Sprintf("Found tiled image %s (%dx%d)", img.Ark, img.Width, img.Height), Level: LevelInfo})
		return nil
	}

	builder := tree.NewBuilder(m.resolver, tree.Options{
		Recursive:   m.settings.Recursive,
		MaxDepth:    m.settings.MaxDepth,
		Concurrency: m.settings.MaxConcurrentBranches,
	})
	root, err := builder.Build(ctx, src)
	if err != nil {
		return err
	}

	m.issues = builder.Issues()
	for _, issue := range m.issues {
		if errors.Is(issue.Err, tree.ErrCycleDetected) {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Cycle at %s, edge not traversed", issue.URL), Level: LevelVerbose})
		} else {
			m.progress(ProgressEvent{Message: fmt.Sprintf("Skipped %s: %v", issue.URL, issue.Err), Level: LevelWarning})
		}
	}

	m.documents = flatten(root)
	for _, doc := range m.documents {
		m.totalImages += int32(len(doc.Images))
	}

	m.progress(ProgressEvent{Message: fmt.Sprintf("Found %s with %d subviews and %d images",
		root.Ark, len(root.ChildURLs), len(root.Images)), Level: LevelInfo})
	if len(m.documents) > 1 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Resolved %d documents, %d images total",
			len(m.documents), m.totalImages), Level: LevelInfo})
	}
	return nil
}

// SaveMetadata writes one indented JSON metadata file per resolved
// document (or for the standalone image) into the output directory.
func (m *Manager) SaveMetadata(ctx context.Context) error {
	write := func(name string, v any) error {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		path := m.makePath(name + ".json")
		m.progress(ProgressEvent{Message: fmt.Sprintf("Writing metadata to %s", path), Level: LevelVerbose})
		return ioutils.WriteFile(ctx, path, data)
	}

	if m.image != nil {
		return write(m.image.Ark, m.image)
	}
	for _, doc := range m.documents {
		name := doc.Ark
		if name == "" {
			name = doc.URL
		}
		if err := write(name, doc); err != nil {
			return err
		}
	}
	return nil
}

// StartDownloads retrieves and saves every page image, bounded by the
// configured image concurrency. Per-image failures are reported and
// counted, never aborting the run; only cancellation stops it early.
func (m *Manager) StartDownloads(ctx context.Context) error {
	images := m.Images()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.settings.MaxConcurrentImageDownloads)

	for _, img := range images {
		g.Go(func() error {
			if err := m.downloadImage(ctx, img); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				atomic.AddInt32(&m.failed, 1)
				m.progress(ProgressEvent{Message: fmt.Sprintf("Error downloading %s: %v", img.FileName, err), Level: LevelError})
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	saved := atomic.LoadInt32(&m.savedImages)
	if saved == m.totalImages {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %d image(s) to %s", saved, m.settings.OutputDir), Level: LevelSuccess})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %d of %d image(s), some failed", saved, m.totalImages), Level: LevelWarning})
	}
	return nil
}

// GetProgress returns current counts of saved, failed and total images.
func (m *Manager) GetProgress() (saved, failed, total int32) {
	return atomic.LoadInt32(&m.savedImages), atomic.LoadInt32(&m.failed), m.totalImages
}

// Images returns every page image of the run in document order.
func (m *Manager) Images() []*model.Image {
	if m.image != nil {
		return []*model.Image{m.image}
	}
	var images []*model.Image
	for _, doc := range m.documents {
		images = append(images, doc.Images...)
	}
	return images
}

// Documents returns the resolved documents in depth-first order.
func (m *Manager) Documents() []*model.Document {
	return m.documents
}

// DocumentNames returns display names of the resolved documents.
func (m *Manager) DocumentNames() []string {
	if m.image != nil {
		return []string{fmt.Sprintf("%s (single page image)", m.image.Ark)}
	}
	names := make([]string, len(m.documents))
	for i, doc := range m.documents {
		name := doc.Ark
		if name == "" {
			name = doc.URL
		}
		names[i] = fmt.Sprintf("%s (%d images, %d subviews)", name, len(doc.Images), len(doc.ChildURLs))
	}
	return names
}

func (m *Manager) downloadImage(ctx context.Context, img *model.Image) error {
	m.progress(ProgressEvent{Message: fmt.Sprintf("Fetching image %s [zoom level = %s]", img.FileName, m.zoomLabel()), Level: LevelVerbose})

	result, err := m.untiler.Content(ctx, img, m.settings.ZoomLevel, m.settings.BestEffort)
	if err != nil {
		return err
	}
	if result.Incomplete {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Image %s is missing %d tile(s), saved with blank regions",
			img.FileName, len(result.Missing)), Level: LevelWarning})
	}

	data := result.Data
	if max := m.settings.MaxSavedImageSize; max > 0 {
		if resized, err := m.imageService.ResizeImage(ctx, data, max, max); err == nil {
			data = resized
		}
	}

	path := m.makePath(img.FileName)
	if err := ioutils.WriteFile(ctx, path, data); err != nil {
		return err
	}

	atomic.AddInt32(&m.savedImages, 1)
	m.progress(ProgressEvent{Message: fmt.Sprintf("Saved %s", path), Level: LevelVerbose})
	return nil
}

// makePath places a file in the output directory, flattening any path
// separators the name carries (arks contain slashes).
func (m *Manager) makePath(name string) string {
	name = ioutils.SanitizeFileName(strings.ReplaceAll(name, "/", "_"))
	return filepath.Join(m.settings.OutputDir, name)
}

func (m *Manager) zoomLabel() string {
	if m.settings.ZoomLevel == untiler.LevelMax {
		return "max"
	}
	return fmt.Sprintf("%d", m.settings.ZoomLevel)
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// flatten lists root and every resolved descendant depth-first.
func flatten(root *model.Document) []*model.Document {
	docs := []*model.Document{root}
	for _, child := range root.Children {
		docs = append(docs, flatten(child)...)
	}
	return docs
}
