package browse

import (
	"bookshelf/internal/types"
)

// Action is a discrete UI event: SubmitFilter, RevealMore or SelectBook.
type Action interface {
	isAction()
}

type SubmitFilter struct {
	Criteria Criteria
}

type RevealMore struct{}

type SelectBook struct {
	Id string
}

func (SubmitFilter) isAction() {}
func (RevealMore) isAction()   {}
func (SelectBook) isAction()   {}

// Outcome tells a renderer what changed. When Reset is set the renderer drops
// what it shows before appending Page; otherwise Page is appended.
type Outcome struct {
	Page      []*types.Book
	Reset     bool
	Remaining int
	HasMore   bool
	Empty     bool
	Selected  *Detail
}

type Dispatcher struct {
	Catalog Catalog
}

// Dispatch applies a to s. On error the returned session equals s.
func (d *Dispatcher) Dispatch(s Session, a Action) (Session, Outcome, error) {
	switch a := a.(type) {
	case SubmitFilter:
		s = s.Submit(d.Catalog.AllBooks(), a.Criteria)
		return s, outcome(s, s.Page(), true), nil

	case RevealMore:
		next, err := s.RevealMore()
		if err != nil {
			return s, outcome(s, []*types.Book{}, false), err
		}
		return next, outcome(next, next.Page(), false), nil

	case SelectBook:
		detail, err := DetailOf(d.Catalog, a.Id)
		if err != nil {
			return s, outcome(s, []*types.Book{}, false), err
		}
		o := outcome(s, []*types.Book{}, false)
		o.Selected = detail
		return s, o, nil
	}

	return s, outcome(s, []*types.Book{}, false), nil
}

func outcome(s Session, page []*types.Book, reset bool) Outcome {
	return Outcome{
		Page:      page,
		Reset:     reset,
		Remaining: s.Remaining(),
		HasMore:   s.HasMore(),
		Empty:     s.Empty(),
	}
}
