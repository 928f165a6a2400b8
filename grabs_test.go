package grabs

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync"
	"testing"
)

// fakeService answers Client requests from canned bodies, routed by URL
// substring. Unknown URLs fail.
type fakeService struct {
	mu     sync.Mutex
	routes map[string][]byte
}

func (f *fakeService) Get(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, body := range f.routes {
		if strings.Contains(url, key) {
			return body, nil
		}
	}
	return nil, fmt.Errorf("no route for %s", url)
}

func (f *fakeService) GetString(ctx context.Context, url string) (string, error) {
	body, err := f.Get(ctx, url)
	return string(body), err
}

func pngTile(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding tile: %v", err)
	}
	return buf.Bytes()
}

// newFakeService builds a service hosting one simple document with one
// 8×6 page image served as 4-pixel PNG tiles at zoom level 11.
func newFakeService(t *testing.T) *fakeService {
	t.Helper()

	page := []byte(`<html><script>` +
		`var zmat = "Iconography";` + "\n" +
		`var currLocale = "fr";` + "\n" +
		`var pictureList = [{"deepZoomManifest":"medias/page_0001.xml","pagination":"p. 1"}];` + "\n" +
		`</script></html>`)

	tileSource := []byte(`"{\"Image\":{\"Format\":\"png\",\"Overlap\":0,\"TileSize\":4,\"Size\":{\"Width\":8,\"Height\":6}}}"`)

	routes := map[string][]byte{
		"ark:/12345/abc": page,
		"getTileSource":  tileSource,
		// 2×2 tile grid at the maximum level.
		"page_0001/11/0_0.png": pngTile(t, 4, 4),
		"page_0001/11/1_0.png": pngTile(t, 4, 4),
		"page_0001/11/0_1.png": pngTile(t, 4, 2),
		"page_0001/11/1_1.png": pngTile(t, 4, 2),
	}
	return &fakeService{routes: routes}
}

func TestClient_DocumentAndContent(t *testing.T) {
	client := New(Options{Fetcher: newFakeService(t)})
	ctx := context.Background()

	doc, issues, err := client.Document(ctx, "https://bibliotheques-specialisees.paris.fr/ark:/12345/abc", false)
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("unexpected issues: %v", issues)
	}
	if doc.IsCollection() {
		t.Error("simple document classified as collection")
	}
	if len(doc.Images) != 1 {
		t.Fatalf("got %d images, want 1", len(doc.Images))
	}

	res, err := client.Content(ctx, doc.Images[0], LevelMax)
	if err != nil {
		t.Fatalf("Content() error: %v", err)
	}
	if res.ZoomLevel != 11 || res.Width != 8 || res.Height != 6 {
		t.Errorf("rendition = level %d, %d×%d, want level 11, 8×6",
			res.ZoomLevel, res.Width, res.Height)
	}

	decoded, _, err := image.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("rendition does not decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("decoded = %d×%d, want 8×6", b.Dx(), b.Dy())
	}
}

func TestClient_ContentAsync(t *testing.T) {
	client := New(Options{Fetcher: newFakeService(t)})
	ctx := context.Background()

	doc, _, err := client.Document(ctx, "https://bibliotheques-specialisees.paris.fr/ark:/12345/abc", false)
	if err != nil {
		t.Fatalf("Document() error: %v", err)
	}

	task := client.ContentAsync(ctx, doc.Images[0], LevelMax, nil)
	res, err := task.Result()
	if err != nil {
		t.Fatalf("Result() error: %v", err)
	}
	if res.ZoomLevel != 11 {
		t.Errorf("ZoomLevel = %d, want 11", res.ZoomLevel)
	}
}
