// Package model defines the core data structures used throughout grabs.
//
// # Document
//
// Document represents one node of the library hierarchy, either a simple
// document with page images or a collection of child documents:
//
//	if doc.IsCollection() {
//	    // doc.ChildURLs lists children; doc.Children holds resolved ones
//	}
//
// # Image
//
// Image represents one zoomable page image together with its deep-zoom
// tile geometry:
//
//	levels := img.ZoomLevels()       // ascending, last one is the maximum
//	w, h := img.LevelSize(levels[0]) // pixel dimensions at that level
//
// Both types are plain data: resolution happens in internal/bsp and
// internal/tree, tile retrieval in internal/untiler.
package model
