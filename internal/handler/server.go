// Package handler implements the web viewer: a read view and an edit view of
// each checklist, form actions that redirect back with a notice, and the
// JSON, CSV and iCalendar exports.
// Checklist URLs act as capabilities; there is no login.
package handler

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/packlist/internal/domain"
)

// ChecklistServicer defines the checklist operations the viewer depends on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type ChecklistServicer interface {
	Get(ctx context.Context, checklistID uuid.UUID) (domain.ChecklistWithItems, error)
	AddItem(ctx context.Context, checklistID uuid.UUID, item domain.NewItem) (domain.ChecklistItem, error)
	DeleteItem(ctx context.Context, checklistID, itemID uuid.UUID) (domain.ChecklistItem, error)
	ToggleItem(ctx context.Context, checklistID, itemID uuid.UUID) (domain.ChecklistItem, error)
	AddCategory(ctx context.Context, checklistID uuid.UUID, name string) (domain.ChecklistItem, error)
	DeleteCategory(ctx context.Context, checklistID uuid.UUID, name string) (int64, error)
}

// ExportServicer builds the shareable copies of a checklist.
type ExportServicer interface {
	Share(ctx context.Context, checklistID uuid.UUID) (domain.ChecklistExport, error)
	Calendar(ctx context.Context, checklistID uuid.UUID, link string) (string, error)
}

//go:embed templates/*.html
var templateFS embed.FS

// Server holds the viewer's dependencies. Handlers are split into files by
// concern but all operate on this struct.
type Server struct {
	checklists ChecklistServicer
	export     ExportServicer
	baseURL    string
	pages      map[string]*template.Template
	log        *slog.Logger
}

// NewServer constructs the Server. baseURL is the public address used in
// exported links; when empty, links are built from the request host.
func NewServer(checklists ChecklistServicer, export ExportServicer, baseURL string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		checklists: checklists,
		export:     export,
		baseURL:    baseURL,
		pages: map[string]*template.Template{
			"view": parsePage("view.html"),
			"edit": parsePage("edit.html"),
			"404":  parsePage("notfound.html"),
		},
		log: log,
	}
}

func parsePage(name string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name))
}

// Handler returns the viewer's routes. Cross-cutting middleware is applied
// by the caller.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/checklist/{id}", func(r chi.Router) {
		r.Get("/", s.GetChecklist)
		r.Get("/edit", s.GetChecklistEdit)
		r.Get("/trip.ics", s.GetCalendar)
		r.Post("/items", s.PostItem)
		r.Post("/items/{itemID}/delete", s.PostDeleteItem)
		r.Post("/items/{itemID}/toggle", s.PostToggleItem)
		r.Post("/categories", s.PostCategory)
		r.Post("/categories/delete", s.PostDeleteCategory)
	})
	r.Get("/share/{id}", s.GetShare)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.notFound(w, r)
	})
	return r
}
