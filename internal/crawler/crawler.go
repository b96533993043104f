// Package crawler reads OPDS 1.x acquisition feeds stored on disk and hands
// the books, authors and genres found there to a Consumer.
package crawler

import (
	"context"
	"encoding/xml"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/opds-community/libopds2-go/opds1"

	"bookshelf/internal/catalog"
	"bookshelf/internal/types"
)

const (
	linkRelImage = "http://opds-spec.org/image"
	linkRelNext  = "next"

	maxPages = 1000
)

var (
	regLinkTypeImage = regexp.MustCompile("^image/[^/]+$")
	regNonSlug       = regexp.MustCompile("[^a-z0-9]+")
)

// Feed crawls a feed file and every local page reachable through its next links.
type Feed struct {
	Path   string
	Logger *slog.Logger
}

func (f *Feed) Crawl(ctx context.Context, consumer Consumer) error {
	seenPages := make(map[string]struct{})
	seen := &seenSet{
		books:   make(map[string]struct{}),
		authors: make(map[string]struct{}),
		genres:  make(map[string]struct{}),
	}

	path := f.Path
	for path != "" {
		if err := ctx.Err(); err != nil {
			return err
		}

		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}

		if _, ok := seenPages[abs]; ok {
			f.Logger.Warn("Feed page already crawled, stopping: " + path)
			break
		}
		seenPages[abs] = struct{}{}

		if len(seenPages) > maxPages {
			return fmt.Errorf("feed %s has more than %d pages", f.Path, maxPages)
		}

		path, err = f.page(ctx, abs, seen, consumer)
		if err != nil {
			return err
		}
	}

	return nil
}

// Load implements catalog.Source.
func (f *Feed) Load(ctx context.Context) (*catalog.Data, error) {
	c := &CollectingConsumer{}
	if err := f.Crawl(ctx, c); err != nil {
		return nil, err
	}

	return &c.Data, nil
}

type seenSet struct {
	books   map[string]struct{}
	authors map[string]struct{}
	genres  map[string]struct{}
}

// page consumes one feed file and returns the path of the next page, if any.
func (f *Feed) page(ctx context.Context, path string, seen *seenSet, consumer Consumer) (string, error) {
	l := f.Logger.With(slog.String("feed", path))

	bs, err := os.ReadFile(path)
	if err != nil {
		l.Error("Failed to read feed: " + err.Error())
		return "", fmt.Errorf("reading feed: %w", err)
	}

	var feed opds1.Feed
	err = xml.Unmarshal(removeDisallowedCodepoints(bs, l), &feed)
	if err != nil {
		l.Error("Failed to unmarshal feed: " + err.Error())
		return "", fmt.Errorf("unmarshalling feed %s: %w", path, err)
	}

	var bks []*types.Book

	for _, entry := range feed.Entries {
		entry.ID = types.TrimURN(entry.ID, types.BookURNPrefix)
		if entry.ID == "" {
			l.Warn("Skip entry without id: " + entry.Title)
			continue
		}

		el := l.With(slog.String("entry", entry.ID))

		if _, ok := seen.books[entry.ID]; ok {
			el.Warn("Found duplicate of book " + entry.ID)
			continue
		}
		seen.books[entry.ID] = struct{}{}

		if len(entry.Author) == 0 {
			el.Warn("Skip book without author")
			continue
		}
		if len(entry.Author) > 1 {
			el.Info("Book has several authors, keeping the first one")
		}

		author := entryAuthor(entry.Author[0])
		if _, ok := seen.authors[author.Id]; !ok {
			seen.authors[author.Id] = struct{}{}
			if err := consumer.ConsumeAuthor(ctx, author); err != nil {
				return "", fmt.Errorf("consuming author %s: %w", author.Id, err)
			}
		}

		var genres []string
		seenGenres := make(map[string]struct{}, len(entry.Category))
		for _, cat := range entry.Category {
			genre := categoryGenre(cat)
			if genre.Id == "" {
				continue
			}

			if _, ok := seenGenres[genre.Id]; ok {
				el.Warn("In the same book found duplicate of genre " + genre.Id)
				continue
			}
			seenGenres[genre.Id] = struct{}{}
			genres = append(genres, genre.Id)

			if _, ok := seen.genres[genre.Id]; !ok {
				seen.genres[genre.Id] = struct{}{}
				if err := consumer.ConsumeGenre(ctx, genre); err != nil {
					return "", fmt.Errorf("consuming genre %s: %w", genre.Id, err)
				}
			}
		}

		published, err := catalog.ParsePublished(entry.Issued)
		if err != nil {
			el.Warn("Failed to parse issued date: " + err.Error())
		}

		image := ""
		coverLink := chooseLink(&entry, func(link *opds1.Link) string {
			if link.Rel != linkRelImage {
				return "unknown rel: " + link.Rel
			}

			if !regLinkTypeImage.MatchString(link.TypeLink) {
				return "unknown type: " + link.TypeLink
			}

			return ""
		}, clLogger{logger: el})
		if coverLink != nil {
			image = strings.TrimSpace(coverLink.Href)
		}

		bks = append(bks, &types.Book{
			Id:          entry.ID,
			Title:       strings.TrimSpace(entry.Title),
			Author:      author.Id,
			Genres:      genres,
			Description: strings.TrimSpace(entry.Content.Content),
			Image:       image,
			Published:   published,
		})
	}

	if len(bks) == 0 {
		l.Warn("No books parsed from feed page")
	} else if err := consumer.ConsumeBooks(ctx, bks); err != nil {
		return "", fmt.Errorf("consuming books: %w", err)
	}

	next := chooseLink(&opds1.Entry{Links: feed.Links}, func(link *opds1.Link) string {
		if link.Rel != linkRelNext {
			return "unknown rel: " + link.Rel
		}

		if strings.Contains(link.Href, "://") {
			return "not a local page: " + link.Href
		}

		return ""
	}, clLogger{logger: l})
	if next == nil {
		return "", nil
	}

	href := strings.TrimSpace(next.Href)
	if !filepath.IsAbs(href) {
		href = filepath.Join(filepath.Dir(path), href)
	}

	return href, nil
}

func entryAuthor(a opds1.Author) *types.Author {
	name := strings.TrimSpace(a.Name)

	id := types.TrimURN(a.URI, types.AuthorURNPrefix)
	if id == "" {
		id = slug(name)
	}

	return &types.Author{Id: id, Name: name}
}

func categoryGenre(c opds1.Category) *types.Genre {
	term := strings.TrimSpace(c.Term)
	label := strings.TrimSpace(c.Label)

	if label == "" {
		return &types.Genre{Id: slug(term), Name: term}
	}

	return &types.Genre{Id: term, Name: label}
}

func slug(s string) string {
	return strings.Trim(regNonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

type clLogger struct {
	logger        *slog.Logger
	levelSkipLink slog.Leveler
}

func chooseLink(e *opds1.Entry, matcher func(link *opds1.Link) string, l clLogger) *opds1.Link {
	var ret *opds1.Link

	for _, link := range e.Links {
		link.Rel = strings.TrimSpace(link.Rel)
		link.TypeLink = strings.TrimSpace(link.TypeLink)

		if matcher != nil {
			mismatch := matcher(&link)
			if mismatch != "" {
				if l.levelSkipLink != nil {
					l.logger.Log(context.Background(), l.levelSkipLink.Level(), "Skip non-matching link: "+mismatch)
				}

				continue
			}
		}

		if ret != nil {
			l.logger.Warn("Skip duplicate matching link: " + link.Href)
			continue
		}

		ret = &link
	}

	return ret
}

// Inspect each rune for being a disallowed character.
// Some catalogs emit control characters that encoding/xml rejects.
func removeDisallowedCodepoints(bs []byte, l *slog.Logger) []byte {
	ret := make([]byte, 0, len(bs))
	buf := bs

	for len(buf) > 0 {
		r, size := utf8.DecodeRune(buf)
		if r == utf8.RuneError && size == 1 {
			l.Warn("Going to fail XML parsing because the bytes do not represent valid UTF8")
			// invalid UTF-8, hope it doesn't come to this
			return bs
		}

		if isInCharacterRange(r) {
			ret = append(ret, buf[:size]...)
		} else {
			l.Warn("Removed invalid rune from XML")
		}

		buf = buf[size:]
	}

	return ret
}

// Decide whether the given rune is in the XML Character Range, per
// the Char production of https://www.xml.com/axml/testaxml.htm,
// Section 2.2 Characters.
func isInCharacterRange(r rune) (inrange bool) {
	return r == 0x09 ||
		r == 0x0A ||
		r == 0x0D ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= 0x10FFFF
}
