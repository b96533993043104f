package browse

import (
	"errors"

	"bookshelf/internal/types"
)

// ErrNoMoreResults is returned by RevealMore once every match is visible.
var ErrNoMoreResults = errors.New("no more results to reveal")

// Session is the browsing state of one viewer: the active criteria, their
// match set and how many pages are revealed. It is a value; every transition
// returns a new Session and leaves the receiver untouched.
type Session struct {
	Criteria Criteria
	Matches  []*types.Book
	Cursor   int
	PageSize int
}

// NewSession starts at page 1 with no filter applied.
func NewSession(books []*types.Book, pageSize int) Session {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	return Session{
		Criteria: AllCriteria(),
		Matches:  books,
		Cursor:   1,
		PageSize: pageSize,
	}
}

// Submit replaces the criteria and resets the cursor to the first page.
func (s Session) Submit(books []*types.Book, c Criteria) Session {
	c = c.Normalize()

	s.Criteria = c
	s.Matches = ApplyFilters(books, c)
	s.Cursor = 1

	return s
}

// RevealMore advances the cursor by one page.
func (s Session) RevealMore() (Session, error) {
	if !s.HasMore() {
		return s, ErrNoMoreResults
	}

	s.Cursor++

	return s, nil
}

// Restore rebuilds a session from its criteria and cursor. The cursor is
// clamped to the last page that reveals something.
func Restore(books []*types.Book, c Criteria, cursor, pageSize int) Session {
	s := NewSession(books, pageSize).Submit(books, c)

	last := len(s.Matches) / s.PageSize
	if len(s.Matches)%s.PageSize != 0 {
		last++
	}
	last = max(1, last)
	s.Cursor = min(max(cursor, 1), last)

	return s
}

func (s Session) Page() []*types.Book {
	return GetPage(s.Matches, s.Cursor, s.PageSize)
}

func (s Session) Visible() []*types.Book {
	return Visible(s.Matches, s.Cursor, s.PageSize)
}

func (s Session) Remaining() int {
	return RemainingCount(s.Matches, s.Cursor, s.PageSize)
}

func (s Session) HasMore() bool {
	return s.Remaining() > 0
}

func (s Session) Empty() bool {
	return len(s.Matches) == 0
}
