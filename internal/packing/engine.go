// Package packing produces the categorized packing list for a trip: from the
// language model when one is configured and answers usefully, otherwise from
// fixed rule tables keyed by weather, purpose and duration.
package packing

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkordes/packlist/internal/domain"
	"github.com/pkordes/packlist/internal/llm"
)

const (
	temperature = 0.7
	maxTokens   = 1500
)

// Request carries everything the engine may use. Weather is nil when the
// forecast was unavailable.
type Request struct {
	Destination     string
	PurposeText     string
	PurposeCategory string
	DurationDays    int
	StartDate       time.Time
	Weather         *domain.WeatherSummary
	Prior           []domain.PriorChecklist
}

// Engine generates packing lists. The zero model means rules only.
type Engine struct {
	model  llm.Completer
	policy llm.Policy
	log    *slog.Logger
}

// NewEngine constructs an Engine. model may be nil.
func NewEngine(model llm.Completer, policy llm.Policy, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{model: model, policy: policy, log: log}
}

// Generate never fails. The model answer is used when it parses to at least
// one non-empty category; otherwise the rule list is returned with the reason
// recorded in FallbackReason.
func (e *Engine) Generate(ctx context.Context, req Request) domain.CategorizedList {
	var reason string
	if e.model == nil {
		reason = "no language model configured"
	} else {
		cats, err := e.fromModel(ctx, req)
		if err == nil {
			generations.WithLabelValues(domain.MethodLLM).Inc()
			return domain.CategorizedList{Categories: cats, Method: domain.MethodLLM}
		}
		reason = err.Error()
		e.log.WarnContext(ctx, "model generation failed, using rules",
			"destination", req.Destination, "error", err)
	}

	generations.WithLabelValues(domain.MethodRules).Inc()
	return domain.CategorizedList{
		Categories:     RuleList(req.Weather, req.PurposeCategory, req.DurationDays),
		Method:         domain.MethodRules,
		FallbackReason: reason,
	}
}

func (e *Engine) fromModel(ctx context.Context, req Request) ([]domain.Category, error) {
	prompt := BuildPrompt(req)
	var cats []domain.Category
	err := llm.Do(ctx, e.policy, func(ctx context.Context) error {
		text, err := e.model.Complete(ctx, llm.Request{
			System:      systemPrompt,
			User:        prompt,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		})
		if err != nil {
			if llm.IsTransient(err) {
				return llm.Retryable(err)
			}
			return err
		}
		parsed, err := ParseAnswer(text)
		if err != nil {
			e.log.DebugContext(ctx, "unusable model answer", "error", err)
			return llm.Retryable(err)
		}
		cats = parsed
		return nil
	})
	return cats, err
}
