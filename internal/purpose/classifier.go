// Package purpose maps a free-text trip purpose onto the persisted catalog of
// purpose categories, growing the catalog when the model proposes a new one.
package purpose

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/text/cases"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/llm"
)

// Catalog is the persistence the classifier needs.
type Catalog interface {
	List(ctx context.Context) ([]domain.TripPurpose, error)
	// Insert adds p unless an entry with the same name exists. It returns the
	// stored entry and whether this call created it.
	Insert(ctx context.Context, p domain.TripPurpose) (domain.TripPurpose, bool, error)
}

// Result is a classification outcome: Match names an existing category, or
// New holds a proposed one. Exactly one is set.
type Result struct {
	Match string
	New   *domain.TripPurpose
}

// Name is the category the trip is filed under.
func (r Result) Name() string {
	if r.New != nil {
		return r.New.Name
	}
	return r.Match
}

var classifications = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "packlist",
	Subsystem: "purpose",
	Name:      "classifications_total",
	Help:      "Purpose classifications by source (model, rules, fallback).",
}, []string{"source"})

// Classifier resolves trip purposes. With a nil model it applies keyword rules.
type Classifier struct {
	model   llm.Completer
	catalog Catalog
	log     *slog.Logger
}

// NewClassifier constructs a Classifier. model may be nil.
func NewClassifier(model llm.Completer, catalog Catalog, log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{model: model, catalog: catalog, log: log}
}

// Classify maps text onto base. It never fails: any provider or parse error,
// and any answer naming an unknown category, yields "other".
func (c *Classifier) Classify(ctx context.Context, text string, base []domain.TripPurpose) Result {
	if c.model == nil {
		classifications.WithLabelValues("rules").Inc()
		return Result{Match: matchKeywords(text, base)}
	}

	r, err := c.fromModel(ctx, text, base)
	if err != nil {
		c.log.WarnContext(ctx, "purpose classification failed", "error", err)
		classifications.WithLabelValues("fallback").Inc()
		return Result{Match: domain.PurposeOther}
	}
	classifications.WithLabelValues("model").Inc()
	return r
}

// Resolve loads the catalog, classifies text and stores a proposed category
// unless a case-insensitive duplicate already exists, in which case the
// existing entry is used.
func (c *Classifier) Resolve(ctx context.Context, text string) Result {
	base, err := c.catalog.List(ctx)
	if err != nil || len(base) == 0 {
		c.log.WarnContext(ctx, "purpose catalog unavailable, using base entries", "error", err)
		base = domain.BasePurposes
	}

	r := c.Classify(ctx, text, base)
	if r.New == nil {
		return r
	}
	if existing, ok := find(base, r.New.Name); ok {
		return Result{Match: existing.Name}
	}

	stored, created, err := c.catalog.Insert(ctx, *r.New)
	if err != nil {
		c.log.WarnContext(ctx, "storing proposed purpose failed", "name", r.New.Name, "error", err)
		return Result{Match: domain.PurposeOther}
	}
	if !created {
		// Another request stored the same name first.
		return Result{Match: stored.Name}
	}
	c.log.InfoContext(ctx, "purpose category added", "name", stored.Name)
	return Result{New: &stored}
}

type answer struct {
	Match       string `json:"match"`
	NewCategory *struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"new_category"`
}

func (c *Classifier) fromModel(ctx context.Context, text string, base []domain.TripPurpose) (Result, error) {
	out, err := c.model.Complete(ctx, llm.Request{
		System:      "You classify the purpose of a trip. Answer only with JSON.",
		User:        buildPrompt(text, base),
		Temperature: 0,
		MaxTokens:   200,
	})
	if err != nil {
		return Result{}, fmt.Errorf("purpose.Classifier.fromModel: %w", err)
	}

	raw, err := llm.ExtractJSON(out)
	if err != nil {
		return Result{}, fmt.Errorf("purpose.Classifier.fromModel: %w", err)
	}
	var a answer
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Result{}, fmt.Errorf("purpose.Classifier.fromModel: decode: %w", err)
	}

	switch {
	case strings.TrimSpace(a.Match) != "":
		if p, ok := find(base, a.Match); ok {
			return Result{Match: p.Name}, nil
		}
		return Result{}, fmt.Errorf("purpose.Classifier.fromModel: unknown category %q", a.Match)
	case a.NewCategory != nil && Normalize(a.NewCategory.Name) != "":
		name := Normalize(a.NewCategory.Name)
		if p, ok := find(base, name); ok {
			return Result{Match: p.Name}, nil
		}
		desc := strings.TrimSpace(a.NewCategory.Description)
		if desc == "" {
			desc = strings.TrimSpace(a.NewCategory.Name)
		}
		return Result{New: &domain.TripPurpose{Name: name, Description: desc}}, nil
	}
	return Result{}, fmt.Errorf("purpose.Classifier.fromModel: answer has neither match nor new_category")
}

func buildPrompt(text string, base []domain.TripPurpose) string {
	var b strings.Builder
	b.WriteString("Known trip purpose categories:\n")
	for _, p := range base {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, p.Description)
	}
	fmt.Fprintf(&b, "\nThe traveller described the purpose as: %q\n\n", text)
	b.WriteString(`If it fits a known category answer {"match": "<name>"}.
Otherwise propose one: {"new_category": {"name": "<short lower-case name>", "description": "<description>"}}.`)
	return b.String()
}

// Normalize returns the catalog key for a category name: trimmed, case
// folded, inner whitespace collapsed.
func Normalize(name string) string {
	return strings.Join(strings.Fields(cases.Fold().String(name)), " ")
}

func find(base []domain.TripPurpose, name string) (domain.TripPurpose, bool) {
	key := Normalize(name)
	for _, p := range base {
		if Normalize(p.Name) == key {
			return p, true
		}
	}
	return domain.TripPurpose{}, false
}
