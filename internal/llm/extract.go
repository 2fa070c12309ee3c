package llm

import (
	"errors"
	"regexp"
	"strings"
)

// ErrNoJSON is returned when a response holds nothing that looks like a JSON object.
var ErrNoJSON = errors.New("no JSON object in model response")

var fenced = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(.*?)```")

// ExtractJSON locates the JSON object in a model answer: the content of the
// first fenced code block if there is one, else the span from the first '{'
// to the last '}'.
func ExtractJSON(text string) (string, error) {
	if m := fenced.FindStringSubmatch(text); m != nil {
		if body := strings.TrimSpace(m[1]); body != "" {
			return body, nil
		}
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return text[start : end+1], nil
}
