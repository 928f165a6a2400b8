package bsp

import (
	"regexp"

	"github.com/grabsdl/grabs/internal/model"
)

// Entity pages render document metadata as "NormalField" blocks carrying a
// property_* class, a name span and a value div. Extraction is best-effort:
// a block that does not match the expected shape is skipped.
var (
	propContainerRe = regexp.MustCompile(`class="[^"]*NormalField[^"]*property_([\w-]+)[^"]*"`)
	propNameRe      = regexp.MustCompile(`<span[^>]*>\s*([^<]*?)\s*</span>`)
	propValueRe     = regexp.MustCompile(`<div[^>]*>\s*([^<>]+?)\s*</div>`)
)

// parseProperties extracts the document properties from page source.
// A property key may appear in several blocks; their values accumulate in
// page order.
func parseProperties(source string) map[string]model.Property {
	props := make(map[string]model.Property)

	locs := propContainerRe.FindAllStringSubmatchIndex(source, -1)
	for i, loc := range locs {
		key := source[loc[2]:loc[3]]

		end := len(source)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		chunk := source[loc[1]:end]

		name := ""
		rest := chunk
		if m := propNameRe.FindStringSubmatchIndex(chunk); m != nil {
			name = chunk[m[2]:m[3]]
			rest = chunk[m[1]:]
		}
		value := propValueRe.FindStringSubmatch(rest)
		if value == nil {
			continue
		}

		entry := props[key]
		if entry.Name == "" && name != "" {
			entry.Name = name
		}
		entry.Values = append(entry.Values, value[1])
		props[key] = entry
	}

	return props
}
