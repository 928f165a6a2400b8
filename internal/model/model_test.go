package model

import (
	"reflect"
	"testing"
)

func TestImage_MaxZoom(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		height   int
		tileSize int
		want     int
	}{
		{"fits one tile", 200, 100, 256, 10},
		{"landscape needs two levels", 1000, 700, 256, 11},
		{"portrait longest side wins", 700, 1000, 256, 11},
		{"exact power of two", 4096, 4096, 256, 14},
		{"just over a power of two", 4097, 100, 256, 14},
		{"degenerate tile size", 1000, 700, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := &Image{Width: tt.width, Height: tt.height, TileSize: tt.tileSize}
			if got := im.MaxZoom(); got != tt.want {
				t.Errorf("MaxZoom() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestImage_ZoomLevels(t *testing.T) {
	im := &Image{Width: 1000, Height: 700, TileSize: 256}

	got := im.ZoomLevels()
	want := []int{10, 11}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ZoomLevels() = %v, want %v", got, want)
	}

	if max := got[len(got)-1]; max != im.MaxZoom() {
		t.Errorf("last zoom level = %d, want MaxZoom() = %d", max, im.MaxZoom())
	}
}

func TestImage_HasZoomLevel(t *testing.T) {
	im := &Image{Width: 1000, Height: 700, TileSize: 256}

	tests := []struct {
		level int
		want  bool
	}{
		{9, false},
		{10, true},
		{11, true},
		{12, false},
	}

	for _, tt := range tests {
		if got := im.HasZoomLevel(tt.level); got != tt.want {
			t.Errorf("HasZoomLevel(%d) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestImage_LevelSize(t *testing.T) {
	im := &Image{Width: 1000, Height: 700, TileSize: 256}

	tests := []struct {
		level      int
		wantWidth  int
		wantHeight int
	}{
		{11, 1000, 700},
		{10, 500, 350},
	}

	for _, tt := range tests {
		w, h := im.LevelSize(tt.level)
		if w != tt.wantWidth || h != tt.wantHeight {
			t.Errorf("LevelSize(%d) = (%d, %d), want (%d, %d)",
				tt.level, w, h, tt.wantWidth, tt.wantHeight)
		}
	}
}

func TestDocument_IsCollection(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want bool
	}{
		{
			"collection category",
			Document{Category: "CollectionIconography"},
			true,
		},
		{
			"children known to the service",
			Document{Category: "Iconography", ChildURLs: []string{"https://example.org/ark:/1/a"}},
			true,
		},
		{
			"simple document",
			Document{Category: "Iconography"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.doc.IsCollection(); got != tt.want {
				t.Errorf("IsCollection() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDocument_Kind(t *testing.T) {
	simple := Document{Category: "Iconography"}
	if got := simple.Kind(); got != KindSimple {
		t.Errorf("Kind() = %q, want %q", got, KindSimple)
	}

	coll := Document{Category: "CollectionIconography"}
	if got := coll.Kind(); got != KindCollection {
		t.Errorf("Kind() = %q, want %q", got, KindCollection)
	}
}

func TestDocument_Prop(t *testing.T) {
	doc := Document{
		Properties: map[string]Property{
			"author": {Name: "Auteur", Values: []string{"A", "B"}},
		},
		PropertiesLang: "fr",
	}

	p, lang, ok := doc.Prop("author")
	if !ok {
		t.Fatal("Prop(author) reported missing")
	}
	if lang != "fr" {
		t.Errorf("Prop(author) lang = %q, want %q", lang, "fr")
	}
	if p.Name != "Auteur" || len(p.Values) != 2 {
		t.Errorf("Prop(author) = %+v, unexpected contents", p)
	}

	if _, _, ok := doc.Prop("title"); ok {
		t.Error("Prop(title) reported present for a missing property")
	}
}
