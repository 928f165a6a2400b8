package download

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/grabsdl/grabs/internal/config"
	"github.com/grabsdl/grabs/internal/model"
)

func TestFlatten(t *testing.T) {
	root := &model.Document{
		URL: "root",
		Children: []*model.Document{
			{
				URL: "a",
				Children: []*model.Document{
					{URL: "a1"},
				},
			},
			{URL: "b"},
		},
	}

	var urls []string
	for _, doc := range flatten(root) {
		urls = append(urls, doc.URL)
	}

	want := []string{"root", "a", "a1", "b"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("flatten order = %v, want %v", urls, want)
	}
}

func TestManager_MakePath(t *testing.T) {
	settings := config.DefaultSettings()
	settings.OutputDir = "/out"
	m := &Manager{settings: settings}

	got := m.makePath("ark:/12345/abc.json")
	want := filepath.Join("/out", "ark__12345_abc.json")
	if got != want {
		t.Errorf("makePath() = %q, want %q", got, want)
	}
}

func TestManager_ZoomLabel(t *testing.T) {
	settings := config.DefaultSettings()
	m := &Manager{settings: settings}

	if got := m.zoomLabel(); got != "max" {
		t.Errorf("zoomLabel() = %q, want %q", got, "max")
	}

	settings.ZoomLevel = 12
	if got := m.zoomLabel(); got != "12" {
		t.Errorf("zoomLabel() = %q, want %q", got, "12")
	}
}

func TestManager_Images(t *testing.T) {
	img1 := &model.Image{Ark: "ark:/1/a/v0000"}
	img2 := &model.Image{Ark: "ark:/1/a/v0001"}
	img3 := &model.Image{Ark: "ark:/1/b/v0000"}

	m := &Manager{
		settings: config.DefaultSettings(),
		documents: []*model.Document{
			{URL: "a", Images: []*model.Image{img1, img2}},
			{URL: "b", Images: []*model.Image{img3}},
		},
	}

	images := m.Images()
	if len(images) != 3 {
		t.Fatalf("got %d images, want 3", len(images))
	}
	if images[0] != img1 || images[1] != img2 || images[2] != img3 {
		t.Error("images are not in document order")
	}
}

func TestManager_DocumentNames_StandaloneImage(t *testing.T) {
	m := &Manager{
		settings: config.DefaultSettings(),
		image:    &model.Image{Ark: "ark:/1/a/v0002"},
	}

	names := m.DocumentNames()
	if len(names) != 1 {
		t.Fatalf("got %d names, want 1", len(names))
	}
	if names[0] != "ark:/1/a/v0002 (single page image)" {
		t.Errorf("name = %q", names[0])
	}
}
