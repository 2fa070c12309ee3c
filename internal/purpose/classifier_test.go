package purpose_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/llm"
	"github.com/pkordes/packlist/internal/purpose"
)

// mockCompleter is a hand-written test double for llm.Completer.
type mockCompleter struct {
	complete func(ctx context.Context, req llm.Request) (string, error)
}

func (m *mockCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	return m.complete(ctx, req)
}

func answering(text string) *mockCompleter {
	return &mockCompleter{complete: func(context.Context, llm.Request) (string, error) { return text, nil }}
}

// mockCatalog is a hand-written test double for purpose.Catalog.
type mockCatalog struct {
	list   func(ctx context.Context) ([]domain.TripPurpose, error)
	insert func(ctx context.Context, p domain.TripPurpose) (domain.TripPurpose, bool, error)
}

func (m *mockCatalog) List(ctx context.Context) ([]domain.TripPurpose, error) {
	return m.list(ctx)
}
func (m *mockCatalog) Insert(ctx context.Context, p domain.TripPurpose) (domain.TripPurpose, bool, error) {
	return m.insert(ctx, p)
}

var (
	_ llm.Completer   = (*mockCompleter)(nil)
	_ purpose.Catalog = (*mockCatalog)(nil)
)

func baseCatalog() *mockCatalog {
	return &mockCatalog{
		list: func(context.Context) ([]domain.TripPurpose, error) { return domain.BasePurposes, nil },
		insert: func(context.Context, domain.TripPurpose) (domain.TripPurpose, bool, error) {
			return domain.TripPurpose{}, false, errors.New("insert not expected")
		},
	}
}

func TestClassify_Rules(t *testing.T) {
	c := purpose.NewClassifier(nil, baseCatalog(), nil)

	tests := map[string]string{
		"beach vacation":          "beach",
		"Business conference":     "business",
		"hiking in the Alps":      "hiking",
		"visiting the museum":     "cultural",
		"just because":            domain.PurposeOther,
		"  SKI   week with friends": "active",
	}
	for text, want := range tests {
		t.Run(text, func(t *testing.T) {
			assert.Equal(t, want, c.Classify(context.Background(), text, domain.BasePurposes).Match)
		})
	}
}

func TestClassify_ModelMatch(t *testing.T) {
	c := purpose.NewClassifier(answering("```json\n{\"match\": \"Beach\"}\n```"), baseCatalog(), nil)

	r := c.Classify(context.Background(), "sun and sand", domain.BasePurposes)

	assert.Equal(t, "beach", r.Match, "name is taken from the catalog entry")
	assert.Nil(t, r.New)
}

func TestClassify_NeverFails(t *testing.T) {
	tests := map[string]*mockCompleter{
		"provider error": {complete: func(context.Context, llm.Request) (string, error) {
			return "", errors.New("connection refused")
		}},
		"malformed text":   answering("I think it's a beach trip!"),
		"broken json":      answering(`{"match": `),
		"unknown category": answering(`{"match": "space tourism"}`),
		"empty answer":     answering(`{}`),
	}
	for name, m := range tests {
		t.Run(name, func(t *testing.T) {
			c := purpose.NewClassifier(m, baseCatalog(), nil)

			r := c.Classify(context.Background(), "beach vacation", domain.BasePurposes)

			assert.Equal(t, purpose.Result{Match: domain.PurposeOther}, r)
		})
	}
}

func TestClassify_ProposedNameCollidingWithCatalogIsAMatch(t *testing.T) {
	c := purpose.NewClassifier(answering(`{"new_category": {"name": " WELLNESS ", "description": "Spa"}}`), baseCatalog(), nil)

	r := c.Classify(context.Background(), "spa weekend", domain.BasePurposes)

	assert.Equal(t, purpose.Result{Match: "wellness"}, r)
}

func TestResolve_InsertsNewCategory(t *testing.T) {
	var inserted domain.TripPurpose
	cat := baseCatalog()
	cat.insert = func(_ context.Context, p domain.TripPurpose) (domain.TripPurpose, bool, error) {
		inserted = p
		return p, true, nil
	}
	c := purpose.NewClassifier(answering(`{"new_category": {"name": "Wine Tasting", "description": "Vineyard tour"}}`), cat, nil)

	r := c.Resolve(context.Background(), "visiting vineyards")

	require.NotNil(t, r.New)
	assert.Equal(t, "wine tasting", r.Name())
	assert.Equal(t, domain.TripPurpose{Name: "wine tasting", Description: "Vineyard tour"}, inserted)
}

func TestResolve_ConcurrentInsertReusesExisting(t *testing.T) {
	cat := baseCatalog()
	cat.insert = func(_ context.Context, p domain.TripPurpose) (domain.TripPurpose, bool, error) {
		return domain.TripPurpose{Name: p.Name, Description: "stored earlier"}, false, nil
	}
	c := purpose.NewClassifier(answering(`{"new_category": {"name": "wine tasting", "description": "x"}}`), cat, nil)

	r := c.Resolve(context.Background(), "visiting vineyards")

	assert.Equal(t, purpose.Result{Match: "wine tasting"}, r)
}

func TestResolve_InsertFailureFallsBackToOther(t *testing.T) {
	cat := baseCatalog()
	cat.insert = func(context.Context, domain.TripPurpose) (domain.TripPurpose, bool, error) {
		return domain.TripPurpose{}, false, errors.New("db down")
	}
	c := purpose.NewClassifier(answering(`{"new_category": {"name": "wine tasting"}}`), cat, nil)

	r := c.Resolve(context.Background(), "visiting vineyards")

	assert.Equal(t, domain.PurposeOther, r.Name())
}

func TestResolve_CatalogFailureUsesBaseEntries(t *testing.T) {
	cat := baseCatalog()
	cat.list = func(context.Context) ([]domain.TripPurpose, error) { return nil, errors.New("db down") }
	c := purpose.NewClassifier(nil, cat, nil)

	r := c.Resolve(context.Background(), "beach vacation")

	assert.Equal(t, "beach", r.Name())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "wine tasting", purpose.Normalize("  Wine   TASTING "))
	assert.Equal(t, "strasse", purpose.Normalize("STRASSE"))
}
