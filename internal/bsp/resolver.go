package bsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/grabsdl/grabs/internal/bsp/dto"
	"github.com/grabsdl/grabs/internal/http"
	"github.com/grabsdl/grabs/internal/model"
)

// ErrNotFound is returned when the service does not know the requested
// identifier (the entity page answers 404).
var ErrNotFound = errors.New("entity unknown to the service")

// ErrMalformedResponse is returned when a service response does not have
// the expected shape. The resolver never returns partial data alongside it.
var ErrMalformedResponse = errors.New("malformed service response")

// Fetcher is the HTTP collaborator the resolver depends on. *http.Client
// satisfies it; tests inject fakes.
type Fetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Resolver turns entity URLs of the library service into Document and
// Image records.
//
// Entity pages embed their metadata as JavaScript variables; page images
// additionally require a fetch of their deep-zoom manifest, and collection
// children are listed by a separate search endpoint because they are added
// to the page dynamically.
//
// Example usage:
//
//	resolver := bsp.NewResolver(httpClient)
//
//	doc, err := resolver.ResolveDocument(ctx, entityURL)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s: %d images, %d children\n", doc.Ark, len(doc.Images), len(doc.ChildURLs))
type Resolver struct {
	fetcher Fetcher
}

// NewResolver creates a Resolver using the given HTTP collaborator.
func NewResolver(fetcher Fetcher) *Resolver {
	return &Resolver{fetcher: fetcher}
}

// ResolveDocument fetches and parses the entity page at url into a
// Document, resolving the deep-zoom manifest of every attached page image
// and querying the service for child entity URLs.
//
// Children are recorded as URLs only; recursive resolution is the tree
// builder's job.
func (r *Resolver) ResolveDocument(ctx context.Context, entityURL string) (*model.Document, error) {
	source, err := r.fetch(ctx, entityURL)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{
		URL:            entityURL,
		Ark:            ExtractArk(entityURL),
		Category:       jsVar(source, "zmat"),
		IID:            jsVar(source, "instanceiid"),
		ParentIID:      jsVar(source, "parent_iid"),
		PropertiesLang: jsVar(source, "currLocale"),
		Properties:     parseProperties(source),
	}

	if pictureList := jsVar(source, "pictureList"); pictureList != "" {
		var pictures []dto.JSONPicture
		if err := json.Unmarshal([]byte(pictureList), &pictures); err != nil {
			return nil, fmt.Errorf("%w: picture list of %s: %v", ErrMalformedResponse, entityURL, err)
		}
		for idx, pic := range pictures {
			img, err := r.imageFromPicture(ctx, doc.Ark, idx, pic)
			if err != nil {
				return nil, err
			}
			doc.Images = append(doc.Images, img)
		}
	}

	if doc.IID != "" {
		children, err := r.ChildURLs(ctx, doc.IID)
		if err != nil {
			return nil, err
		}
		doc.ChildURLs = children
	}

	return doc, nil
}

// ResolveImage fetches and parses the page-viewer URL of a single page
// image (an ark ending in "/vNNNN") into an Image, including its deep-zoom
// manifest.
func (r *Resolver) ResolveImage(ctx context.Context, viewerURL string) (*model.Image, error) {
	source, err := r.fetch(ctx, viewerURL)
	if err != nil {
		return nil, err
	}

	ark := jsVar(source, "ark")
	parts := viewArkRe.FindStringSubmatch(ark)
	if parts == nil {
		return nil, fmt.Errorf("%w: no page-view ark on %s", ErrMalformedResponse, viewerURL)
	}
	pageNumber, err := strconv.Atoi(parts[2])
	if err != nil || pageNumber < 1 {
		return nil, fmt.Errorf("%w: bad page number in ark %q", ErrMalformedResponse, ark)
	}

	pictureList := jsVar(source, "pictureList")
	if pictureList == "" {
		return nil, fmt.Errorf("%w: no picture list on %s", ErrMalformedResponse, viewerURL)
	}
	var pictures []dto.JSONPicture
	if err := json.Unmarshal([]byte(pictureList), &pictures); err != nil {
		return nil, fmt.Errorf("%w: picture list of %s: %v", ErrMalformedResponse, viewerURL, err)
	}
	if pageNumber > len(pictures) {
		return nil, fmt.Errorf("%w: page %d of %d on %s", ErrMalformedResponse, pageNumber, len(pictures), viewerURL)
	}
	pic := pictures[pageNumber-1]

	img, err := r.imageFromPicture(ctx, parts[1], pageNumber-1, pic)
	if err != nil {
		return nil, err
	}
	img.IID = jsVar(source, "iid")
	img.Ark = ark
	img.ViewerURL = viewerURL
	return img, nil
}

// ChildURLs queries the search service for the children of the document
// with the given instance identifier and returns their entity URLs in
// service order.
func (r *Resolver) ChildURLs(ctx context.Context, iid string) ([]string, error) {
	query := MakeURL("in/rest/searchSVC/jsonp/geoquery?callback=&query=*&fq=" +
		url.QueryEscape(`parent_iid:"`+iid+`"`) + "&fl=InterviewId")

	body, err := r.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	// The endpoint answers with a JSONP call "(…);" around the payload.
	payload, ok := stripJSONP(body)
	if !ok {
		return nil, fmt.Errorf("%w: children of %s", ErrMalformedResponse, iid)
	}

	var resp dto.JSONSearchResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		return nil, fmt.Errorf("%w: children of %s: %v", ErrMalformedResponse, iid, err)
	}

	var urls []string
	for _, result := range resp.Results {
		if result.InterviewID == nil || result.InterviewID.Value == "" {
			continue
		}
		urls = append(urls, MakeURL(result.InterviewID.Value))
	}
	return urls, nil
}

// imageFromPicture builds an Image from one pictureList entry, fetching
// its deep-zoom manifest for the tile geometry. idx is the zero-based page
// index within the parent document.
func (r *Resolver) imageFromPicture(ctx context.Context, parentArk string, idx int, pic dto.JSONPicture) (*model.Image, error) {
	manifestURL := MakeURL(pic.DeepZoomManifest)

	mi, err := r.fetchTileSource(ctx, manifestURL)
	if err != nil {
		return nil, err
	}

	viewArk := fmt.Sprintf("%s/v%04d", parentArk, idx)
	img := &model.Image{
		Ark:         viewArk,
		ViewerURL:   MakeURL(viewArk),
		ManifestURL: manifestURL,
		TilesURL:    strings.TrimSuffix(manifestURL, ".xml"),
		Title:       pic.Pagination,
		Description: pic.Description,
		Format:      mi.Format,
		Width:       mi.Size.Width,
		Height:      mi.Size.Height,
		TileSize:    mi.TileSize,
		Overlap:     mi.Overlap,
	}
	img.FileName = deriveFileName(manifestURL, mi.Format, parentArk, idx)
	return img, nil
}

// fetchTileSource fetches and unwraps the deep-zoom manifest behind
// manifestURL via the getTileSource endpoint. The endpoint answers with
// the manifest JSON wrapped in quotes and backslash-escaped.
func (r *Resolver) fetchTileSource(ctx context.Context, manifestURL string) (*dto.JSONManifestImage, error) {
	query := MakeURL("in/rest/pictureListSVC/getTileSource?deepZoomManifest=" + url.QueryEscape(manifestURL))

	body, err := r.fetch(ctx, query)
	if err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	if len(body) < 2 {
		return nil, fmt.Errorf("%w: empty tile source for %s", ErrMalformedResponse, manifestURL)
	}
	unwrapped := strings.ReplaceAll(body[1:len(body)-1], `\`, "")

	var ts dto.JSONTileSource
	if err := json.Unmarshal([]byte(unwrapped), &ts); err != nil {
		return nil, fmt.Errorf("%w: tile source for %s: %v", ErrMalformedResponse, manifestURL, err)
	}
	if ts.Image == nil || ts.Image.TileSize <= 0 {
		return nil, fmt.Errorf("%w: no image data in tile source for %s", ErrMalformedResponse, manifestURL)
	}
	return ts.Image, nil
}

// fetch wraps the HTTP collaborator, classifying 404 responses as
// ErrNotFound.
func (r *Resolver) fetch(ctx context.Context, url string) (string, error) {
	body, err := r.fetcher.GetString(ctx, url)
	if err != nil {
		if http.IsNotFound(err) {
			return "", fmt.Errorf("%s: %w", url, ErrNotFound)
		}
		return "", err
	}
	return body, nil
}

// deriveFileName computes the deterministic output file name of a page
// image: the manifest basename when it has one, otherwise a slug of the
// parent ark and page index.
func deriveFileName(manifestURL, format, parentArk string, idx int) string {
	trimmed := strings.TrimSuffix(manifestURL, ".xml")
	if trimmed != manifestURL {
		if slash := strings.LastIndex(trimmed, "/"); slash >= 0 && slash+1 < len(trimmed) {
			return trimmed[slash+1:] + "." + format
		}
	}
	return fmt.Sprintf("%s_p%04d.%s", strings.ReplaceAll(parentArk, "/", "_"), idx, format)
}

// stripJSONP extracts the JSON object from a JSONP call like "(…);".
func stripJSONP(body string) (string, bool) {
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start < 0 || end < start {
		return "", false
	}
	return body[start : end+1], true
}
