package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"strings"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/packlist/internal/domain"
)

// csvHeaders defines the column names written as the first row of a CSV export.
var csvHeaders = []string{"category", "title", "description", "completed"}

// shareResponse is the JSON share payload.
type shareResponse struct {
	ID        openapi_types.UUID  `json:"id"`
	Title     string              `json:"title"`
	Type      string              `json:"type"`
	StartDate *openapi_types.Date `json:"start_date,omitempty"`
	Metadata  domain.TripMetadata `json:"metadata"`
	Items     []domain.ExportItem `json:"items"`
}

// GetShare handles GET /share/{id}.
// Use ?format=csv to receive the items as CSV; default is JSON.
func (s *Server) GetShare(w http.ResponseWriter, r *http.Request) {
	id, ok := checklistID(r)
	if !ok {
		s.writeJSONError(w, r, domain.ErrNotFound)
		return
	}
	out, err := s.export.Share(r.Context(), id)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		writeCSV(w, out.Items)
		return
	}

	body := shareResponse{
		ID:       id,
		Title:    out.Title,
		Type:     out.Type,
		Metadata: out.Metadata,
		Items:    out.Items,
	}
	if d, err := time.Parse(domain.DateLayout, out.Metadata.StartDate); err == nil {
		body.StartDate = &openapi_types.Date{Time: d}
	}
	s.writeJSON(w, http.StatusOK, body)
}

// writeCSV encodes the items as CSV, one item per row.
func writeCSV(w http.ResponseWriter, items []domain.ExportItem) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, it := range items {
		//nolint:errcheck
		cw.Write([]string{it.Category, it.Title, it.Description, strconv.FormatBool(it.IsCompleted)})
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// GetCalendar handles GET /checklist/{id}/trip.ics.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	id, ok := checklistID(r)
	if !ok {
		s.writeJSONError(w, r, domain.ErrNotFound)
		return
	}
	ics, err := s.export.Calendar(r.Context(), id, s.checklistURL(r, id.String()))
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="trip.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(ics))
}

// checklistURL is the absolute read-view URL of a checklist.
func (s *Server) checklistURL(r *http.Request, id string) string {
	base := strings.TrimSuffix(s.baseURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return base + "/checklist/" + id
}
