package bsp

import (
	"regexp"
	"strings"
)

const (
	// Host is the library service host.
	Host = "bibliotheques-specialisees.paris.fr"

	// Scheme is the URL scheme the service is reachable under.
	Scheme = "https"
)

var (
	// arkRe matches an ARK identifier inside an entity URL.
	arkRe = regexp.MustCompile(`ark:/[^?]+/[^?]+`)

	// imageArkRe matches an ARK naming a single page view ("…/v0008").
	imageArkRe = regexp.MustCompile(`ark:.+/v\d+`)

	// viewArkRe splits a page-view ARK into parent ARK and page number.
	viewArkRe = regexp.MustCompile(`(.+)/v(\d+)`)
)

// MakeURL builds an absolute service URL from a path fragment. The fragment
// may or may not carry a leading slash.
func MakeURL(parts string) string {
	return Scheme + "://" + Host + "/" + strings.TrimPrefix(parts, "/")
}

// IsImageURL reports whether url names a single page view rather than a
// document: the service encodes page views as arks ending in "/vNNNN".
func IsImageURL(url string) bool {
	return imageArkRe.MatchString(url)
}

// ExtractArk returns the ARK identifier embedded in an entity URL, or the
// empty string if the URL carries none.
func ExtractArk(url string) string {
	return arkRe.FindString(url)
}

// jsVar extracts the value of a JavaScript variable assignment from page
// source. Entity pages expose their metadata as top-level assignments like
//
//	var instanceiid = "ABC123";
//	var pictureList = [{...}];
//
// Returns the empty string if the variable is not present.
func jsVar(source, name string) string {
	re := regexp.MustCompile(`var\s+` + regexp.QuoteMeta(name) + `\s*=\s*["']?(.+?)["']?\s*;`)
	m := re.FindStringSubmatch(source)
	if m == nil {
		return ""
	}
	return m[1]
}
