package catalog

import "fmt"

type Kind string

const (
	KindBook   Kind = "book"
	KindAuthor Kind = "author"
	KindGenre  Kind = "genre"
)

// NotFoundError is returned by lookups for an identifier absent from the catalog.
// During construction it means a book references unknown reference data.
type NotFoundError struct {
	Kind Kind
	Id   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Id)
}

type DuplicateError struct {
	Kind Kind
	Id   string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate %s id %q", e.Kind, e.Id)
}
