package handler

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/weather"
)

var funcs = template.FuncMap{
	"otherCategory": func() string { return domain.CategoryOther },
}

// pageData is what the view and edit templates render.
type pageData struct {
	Checklist  domain.Checklist
	Groups     []domain.ItemGroup
	Categories []string
	Weather    []string
	Notice     string
	Total      int
	Done       int
}

func newPageData(c domain.ChecklistWithItems, notice string) pageData {
	groups := c.Groups()
	d := pageData{
		Checklist: c.Checklist,
		Groups:    groups,
		Categories: lo.Map(groups, func(g domain.ItemGroup, _ int) string {
			return g.Category
		}),
		Notice: notice,
		Total:  len(c.Items),
		Done:   lo.CountBy(c.Items, func(it domain.ChecklistItem) bool { return it.IsCompleted }),
	}
	if w := c.Checklist.TripMetadata.AggregatedWeather; w != nil {
		d.Weather = weather.SummaryLines(*w)
	}
	return d
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := s.pages[page].Execute(&buf, data); err != nil {
		s.log.ErrorContext(r.Context(), "template render failed", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// GetChecklist handles GET /checklist/{id}: the read view.
func (s *Server) GetChecklist(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "view")
}

// GetChecklistEdit handles GET /checklist/{id}/edit.
func (s *Server) GetChecklistEdit(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, "edit")
}

func (s *Server) page(w http.ResponseWriter, r *http.Request, page string) {
	id, ok := checklistID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	c, err := s.checklists.Get(r.Context(), id)
	if err != nil {
		s.writePageError(w, r, err)
		return
	}
	s.render(w, r, http.StatusOK, page, newPageData(c, r.URL.Query().Get("notice")))
}

// PostItem handles POST /checklist/{id}/items (form fields: title, category).
func (s *Server) PostItem(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, func(id uuid.UUID) (string, error) {
		item := domain.NewItem{
			Title:       r.PostFormValue("title"),
			Category:    r.PostFormValue("category"),
			Description: r.PostFormValue("description"),
		}
		it, err := s.checklists.AddItem(r.Context(), id, item)
		if err != nil {
			return "", err
		}
		return "Added \"" + it.Title + "\".", nil
	})
}

// PostDeleteItem handles POST /checklist/{id}/items/{itemID}/delete.
func (s *Server) PostDeleteItem(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, func(id uuid.UUID) (string, error) {
		itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
		if err != nil {
			return "", domain.ErrNotFound
		}
		it, err := s.checklists.DeleteItem(r.Context(), id, itemID)
		if err != nil {
			return "", err
		}
		return "Deleted \"" + it.Title + "\".", nil
	})
}

// PostToggleItem handles POST /checklist/{id}/items/{itemID}/toggle.
func (s *Server) PostToggleItem(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, func(id uuid.UUID) (string, error) {
		itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
		if err != nil {
			return "", domain.ErrNotFound
		}
		it, err := s.checklists.ToggleItem(r.Context(), id, itemID)
		if err != nil {
			return "", err
		}
		if it.IsCompleted {
			return "Packed \"" + it.Title + "\".", nil
		}
		return "Unpacked \"" + it.Title + "\".", nil
	})
}

// PostCategory handles POST /checklist/{id}/categories (form field: name).
func (s *Server) PostCategory(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, func(id uuid.UUID) (string, error) {
		it, err := s.checklists.AddCategory(r.Context(), id, r.PostFormValue("name"))
		if err != nil {
			return "", err
		}
		return "Added category \"" + it.Category + "\".", nil
	})
}

// PostDeleteCategory handles POST /checklist/{id}/categories/delete
// (form field: name).
func (s *Server) PostDeleteCategory(w http.ResponseWriter, r *http.Request) {
	s.action(w, r, func(id uuid.UUID) (string, error) {
		name := strings.TrimSpace(r.PostFormValue("name"))
		if _, err := s.checklists.DeleteCategory(r.Context(), id, name); err != nil {
			return "", err
		}
		return "Deleted category \"" + name + "\".", nil
	})
}

// action runs a form mutation and redirects to the edit view with its
// outcome as the notice. Unexpected failures are logged and reported
// generically.
func (s *Server) action(w http.ResponseWriter, r *http.Request, fn func(id uuid.UUID) (string, error)) {
	id, ok := checklistID(r)
	if !ok {
		s.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	msg, err := fn(id)
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) && !errors.Is(err, domain.ErrNotFound) {
			s.log.ErrorContext(r.Context(), "checklist action failed", "path", r.URL.Path, "error", err)
		}
		msg = notice(err)
	}
	http.Redirect(w, r, "/checklist/"+id.String()+"/edit?notice="+url.QueryEscape(msg), http.StatusSeeOther)
}
