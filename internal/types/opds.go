package types

import "strings"

// Identifiers written into exported OPDS feeds. Feeds produced elsewhere use
// their own ids, which are kept as they are.
const (
	BookURNPrefix   = "urn:bookshelf:book:"
	AuthorURNPrefix = "urn:bookshelf:author:"
)

func BookURN(id string) string {
	return BookURNPrefix + id
}

func AuthorURN(id string) string {
	return AuthorURNPrefix + id
}

// TrimURN strips prefix when present.
func TrimURN(s, prefix string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), prefix)
}
