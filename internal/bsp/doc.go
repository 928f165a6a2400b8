// Package bsp resolves entities of the Bibliothèques spécialisées de la
// Ville de Paris digital library (bibliotheques-specialisees.paris.fr)
// into Document and Image records.
//
// The service exposes three surfaces the Resolver combines:
//
//  1. Entity pages: plain HTML embedding metadata as JavaScript variables
//     (instanceiid, ark, zmat, parent_iid, currLocale, pictureList).
//  2. getTileSource: returns the deep-zoom manifest of a page image,
//     wrapped in quotes with backslash-escaped content.
//  3. searchSVC geoquery: lists the children of a collection as a JSONP
//     payload, since child links are added to pages dynamically.
//
// # Usage
//
//	resolver := bsp.NewResolver(httpClient)
//
//	if bsp.IsImageURL(src) {
//	    img, err := resolver.ResolveImage(ctx, src)
//	    // …
//	} else {
//	    doc, err := resolver.ResolveDocument(ctx, src)
//	    // …
//	}
//
// The Resolver performs no recursion and no retries: recursive child
// resolution belongs to internal/tree, transport policy to the injected
// Fetcher.
package bsp
