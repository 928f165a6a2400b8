package model

// Kind classifies a Document node in the library hierarchy.
type Kind string

const (
	// KindSimple is a document whose content is its own page images.
	KindSimple Kind = "simple"

	// KindCollection is a document whose content is a set of child documents.
	KindCollection Kind = "collection"
)

// collectionCategories lists the service categories (the "zmat" page
// variable) that always denote a collection.
var collectionCategories = []string{"CollectionIconography"}

// Property is one descriptive field of a document, as displayed on its
// library page. A property may carry several values (e.g. multiple authors).
type Property struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Document represents one node of the library hierarchy: either a simple
// document carrying page images, or a collection of child documents.
//
// A Document is immutable once resolved, except that Children is populated
// lazily by the tree builder when building recursively. ChildURLs always
// lists the child entity URLs known to the service; Children holds the
// subset that was actually resolved (Expanded reports whether expansion
// was attempted at all).
//
// Example:
//
//	doc, _, err := client.Document(ctx, url, true)
//	if doc.IsCollection() {
//	    for _, child := range doc.Children {
//	        fmt.Println(child.Ark)
//	    }
//	}
type Document struct {
	// URL is the canonical entity URL this document was resolved from.
	URL string `json:"url"`

	// Ark is the ARK identifier of the document (e.g. "ark:/12345/abc").
	Ark string `json:"ark"`

	// IID is the service-internal instance identifier.
	IID string `json:"iid"`

	// Category is the service category of the document (the "zmat" value).
	Category string `json:"category"`

	// ParentIID is the instance identifier of the parent document, if any.
	ParentIID string `json:"parent_iid"`

	// Properties holds the descriptive fields of the document, keyed by
	// the service property identifier.
	Properties map[string]Property `json:"properties"`

	// PropertiesLang is the locale the property values were served in.
	PropertiesLang string `json:"properties_lang"`

	// Images lists the page images attached to this document, in page
	// order. Empty for pure collections.
	Images []*Image `json:"images"`

	// ChildURLs lists the entity URLs of the child documents, in the
	// order the service returned them. Empty for simple documents.
	ChildURLs []string `json:"children_urls"`

	// Children holds the resolved child documents. Only populated when
	// the tree was built recursively; cyclic, duplicate and failed
	// branches are left out.
	Children []*Document `json:"-"`

	// Expanded reports whether child resolution was attempted for this
	// node. False for non-recursive builds and for nodes cut off by the
	// depth guard.
	Expanded bool `json:"-"`
}

// IsCollection reports whether the document is a collection: either its
// category marks it as one, or the service knows children for it.
func (d *Document) IsCollection() bool {
	for _, c := range collectionCategories {
		if d.Category == c {
			return true
		}
	}
	return len(d.ChildURLs) > 0
}

// Kind returns the closed kind variant of the document.
func (d *Document) Kind() Kind {
	if d.IsCollection() {
		return KindCollection
	}
	return KindSimple
}

// Prop returns the named property along with the locale it was served in.
// The second return value is false if the document has no such property.
func (d *Document) Prop(name string) (Property, string, bool) {
	p, ok := d.Properties[name]
	if !ok {
		return Property{}, "", false
	}
	return p, d.PropertiesLang, true
}
