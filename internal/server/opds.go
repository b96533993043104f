package server

import (
	"bytes"
	"encoding/xml"
	"net/url"
	"strconv"

	"github.com/opds-community/libopds2-go/opds1"

	"bookshelf/internal/browse"
	"bookshelf/internal/types"
)

const (
	opdsContentType = "application/atom+xml;profile=opds-catalog;kind=acquisition"
	atomNamespace   = "http://www.w3.org/2005/Atom"

	linkRelImage = "http://opds-spec.org/image"
	linkRelNext  = "next"
	linkRelSelf  = "self"
)

// renderOPDS encodes the page window of s as an OPDS 1.x acquisition feed.
// A next link is present while more matches remain.
func renderOPDS(cat browse.Catalog, s browse.Session, self *url.URL) ([]byte, error) {
	page := s.Page()

	feed := opds1.Feed{
		ID:           "urn:bookshelf:catalog",
		Title:        "Catalog",
		TotalResults: len(s.Matches),
		ItemsPerPage: s.PageSize,
		Entries:      make([]opds1.Entry, 0, len(page)),
		Links: []opds1.Link{
			{Rel: linkRelSelf, Href: self.RequestURI(), TypeLink: opdsContentType},
		},
	}

	if s.HasMore() {
		next := *self
		q := next.Query()
		q.Set("page", strconv.Itoa(s.Cursor+1))
		next.RawQuery = q.Encode()

		feed.Links = append(feed.Links, opds1.Link{Rel: linkRelNext, Href: next.RequestURI(), TypeLink: opdsContentType})
	}

	for _, b := range page {
		entry, err := bookEntry(cat, b)
		if err != nil {
			return nil, err
		}
		feed.Entries = append(feed.Entries, entry)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	err := enc.EncodeElement(feed, xml.StartElement{Name: xml.Name{Space: atomNamespace, Local: "feed"}})
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func bookEntry(cat browse.Catalog, b *types.Book) (opds1.Entry, error) {
	detail, err := browse.DetailOf(cat, b.Id)
	if err != nil {
		return opds1.Entry{}, err
	}

	entry := opds1.Entry{
		ID:     types.BookURN(b.Id),
		Title:  b.Title,
		Issued: b.Published.Format("2006-01-02"),
		Author: []opds1.Author{{Name: detail.Author, URI: types.AuthorURN(b.Author)}},
	}
	entry.Content.Content = b.Description

	for _, g := range b.Genres {
		name, err := cat.GenreName(g)
		if err != nil {
			return opds1.Entry{}, err
		}
		entry.Category = append(entry.Category, opds1.Category{Term: g, Label: name})
	}

	if b.Image != "" {
		entry.Links = append(entry.Links, opds1.Link{Rel: linkRelImage, Href: b.Image, TypeLink: "image/jpeg"})
	}

	return entry, nil
}
