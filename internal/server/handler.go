package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"bookshelf/internal/browse"
	"bookshelf/internal/catalog"
	"bookshelf/internal/response"
	"bookshelf/internal/sessions"
	"bookshelf/internal/types"
)

type window struct {
	Books     []browse.Preview `json:"books"`
	Page      int              `json:"page"`
	PageSize  int              `json:"page_size"`
	Total     int              `json:"total"`
	Remaining int              `json:"remaining"`
	HasMore   bool             `json:"has_more"`
}

type sessionView struct {
	Id       string          `json:"id"`
	Criteria browse.Criteria `json:"criteria"`
	Reset    bool            `json:"reset"`
	window
}

func Handler(cat *catalog.Store, reg *sessions.Registry, pageSize int, rr *response.Responder) http.Handler {
	d := &browse.Dispatcher{Catalog: cat}

	r := chi.NewRouter()

	r.Get("/genres", func(w http.ResponseWriter, r *http.Request) {
		rr.SendJson(w, r.Context(), struct {
			Genres []browse.Option `json:"genres"`
		}{Genres: browse.GenreOptions(cat)})
	})

	r.Get("/authors", func(w http.ResponseWriter, r *http.Request) {
		rr.SendJson(w, r.Context(), struct {
			Authors []browse.Option `json:"authors"`
		}{Authors: browse.AuthorOptions(cat)})
	})

	r.Get("/books", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		s := browse.Restore(cat.AllBooks(), getCriteria(q), 1, pageSize)
		s.Cursor = max(1, getIntOrDefault("page", q, 1))

		win, err := makeWindow(cat, s, s.Page())
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		rr.SendJson(w, r.Context(), win)
	})

	r.Get("/books/{id}", func(w http.ResponseWriter, r *http.Request) {
		detail, err := browse.DetailOf(cat, chi.URLParam(r, "id"))
		if err != nil {
			respondLookupError(rr, w, r, err)
			return
		}

		rr.SendJson(w, r.Context(), detail)
	})

	r.Get("/opds", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		s := browse.Restore(cat.AllBooks(), getCriteria(q), 1, pageSize)
		s.Cursor = max(1, getIntOrDefault("page", q, 1))

		bs, err := renderOPDS(cat, s, r.URL)
		if err != nil {
			rr.RespondAndLogError(w, r.Context(), err)
			return
		}

		rr.SendRaw(w, opdsContentType, bs)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", func(w http.ResponseWriter, r *http.Request) {
			s := browse.NewSession(cat.AllBooks(), pageSize)
			id := reg.Create(sessions.State{Criteria: s.Criteria, Cursor: s.Cursor})

			view, err := makeSessionView(cat, id, s, s.Page(), true)
			if err != nil {
				rr.RespondAndLogError(w, r.Context(), err)
				return
			}

			rr.SendJsonStatus(w, r.Context(), http.StatusCreated, view)
		})

		r.Get("/{id}", func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "id")

			st, err := reg.Get(id)
			if err != nil {
				respondLookupError(rr, w, r, err)
				return
			}

			s := browse.Restore(cat.AllBooks(), st.Criteria, st.Cursor, pageSize)

			view, err := makeSessionView(cat, id, s, s.Visible(), true)
			if err != nil {
				rr.RespondAndLogError(w, r.Context(), err)
				return
			}

			rr.SendJson(w, r.Context(), view)
		})

		r.Delete("/{id}", func(w http.ResponseWriter, r *http.Request) {
			reg.Delete(chi.URLParam(r, "id"))
			w.WriteHeader(http.StatusNoContent)
		})

		r.Post("/{id}/filter", func(w http.ResponseWriter, r *http.Request) {
			var c browse.Criteria
			if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
				rr.RespondClientError(w, r.Context(), http.StatusBadRequest, errors.New("invalid filter body: "+err.Error()))
				return
			}

			dispatch(d, reg, cat, pageSize, rr, w, r, browse.SubmitFilter{Criteria: c})
		})

		r.Post("/{id}/more", func(w http.ResponseWriter, r *http.Request) {
			dispatch(d, reg, cat, pageSize, rr, w, r, browse.RevealMore{})
		})
	})

	return r
}

func dispatch(d *browse.Dispatcher, reg *sessions.Registry, cat *catalog.Store, pageSize int,
	rr *response.Responder, w http.ResponseWriter, r *http.Request, action browse.Action) {

	id := chi.URLParam(r, "id")

	st, err := reg.Get(id)
	if err != nil {
		respondLookupError(rr, w, r, err)
		return
	}

	s := browse.Restore(cat.AllBooks(), st.Criteria, st.Cursor, pageSize)

	s, o, err := d.Dispatch(s, action)
	if err != nil {
		if errors.Is(err, browse.ErrNoMoreResults) {
			rr.RespondClientError(w, r.Context(), http.StatusConflict, err)
			return
		}
		respondLookupError(rr, w, r, err)
		return
	}

	if err := reg.Put(id, sessions.State{Criteria: s.Criteria, Cursor: s.Cursor}); err != nil {
		respondLookupError(rr, w, r, err)
		return
	}

	view, err := makeSessionView(cat, id, s, o.Page, o.Reset)
	if err != nil {
		rr.RespondAndLogError(w, r.Context(), err)
		return
	}

	rr.SendJson(w, r.Context(), view)
}

func respondLookupError(rr *response.Responder, w http.ResponseWriter, r *http.Request, err error) {
	var nf *catalog.NotFoundError
	if errors.As(err, &nf) || errors.Is(err, sessions.ErrNotFound) {
		rr.RespondClientError(w, r.Context(), http.StatusNotFound, err)
		return
	}

	rr.RespondAndLogError(w, r.Context(), err)
}

func makeWindow(cat browse.Catalog, s browse.Session, books []*types.Book) (window, error) {
	previews, err := browse.Previews(cat, books)
	if err != nil {
		return window{}, err
	}

	return window{
		Books:     previews,
		Page:      s.Cursor,
		PageSize:  s.PageSize,
		Total:     len(s.Matches),
		Remaining: s.Remaining(),
		HasMore:   s.HasMore(),
	}, nil
}

func makeSessionView(cat browse.Catalog, id string, s browse.Session, books []*types.Book, reset bool) (sessionView, error) {
	win, err := makeWindow(cat, s, books)
	if err != nil {
		return sessionView{}, err
	}

	return sessionView{Id: id, Criteria: s.Criteria, Reset: reset, window: win}, nil
}

func getCriteria(q url.Values) browse.Criteria {
	return browse.Criteria{
		Title:  q.Get("title"),
		Author: q.Get("author"),
		Genre:  q.Get("genre"),
	}.Normalize()
}

func getIntOrDefault(key string, q url.Values, default_ int) int {
	if ls := q.Get(key); ls != "" {
		limit, err := strconv.Atoi(ls)
		if err == nil {
			return limit
		}
	}

	return default_
}
