package packing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/llm"
)

// ErrNoCategories is returned when a model answer has no usable categories.
var ErrNoCategories = errors.New("model answer has no categories")

// ParseAnswer extracts {"categories": {"<name>": ["<item>", ...], ...}} from a
// model answer. Category order is kept as written; blank titles are dropped
// and a title repeated in a later category is dropped there.
func ParseAnswer(text string) ([]domain.Category, error) {
	raw, err := llm.ExtractJSON(text)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Categories json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("decode answer: %w", err)
	}
	if len(envelope.Categories) == 0 || bytes.Equal(envelope.Categories, []byte("null")) {
		return nil, ErrNoCategories
	}

	ordered, err := decodeOrdered(envelope.Categories)
	if err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}

	seen := make(map[string]struct{})
	out := make([]domain.Category, 0, len(ordered))
	for _, c := range ordered {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			name = domain.CategoryOther
		}
		var items []string
		for _, title := range c.Items {
			title = strings.TrimSpace(title)
			if title == "" {
				continue
			}
			if _, dup := seen[title]; dup {
				continue
			}
			seen[title] = struct{}{}
			items = append(items, title)
		}
		if len(items) > 0 {
			out = append(out, domain.Category{Name: name, Items: items})
		}
	}
	if len(out) == 0 {
		return nil, ErrNoCategories
	}
	return out, nil
}

// decodeOrdered walks a JSON object of string arrays keeping key order,
// which map decoding would lose.
func decodeOrdered(b []byte) ([]domain.Category, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, errors.New("categories is not an object")
	}

	var out []domain.Category
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		var items []string
		if err := dec.Decode(&items); err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		out = append(out, domain.Category{Name: name, Items: items})
	}
	return out, nil
}
