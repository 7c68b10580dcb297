package router

import (
	"context"
	"fmt"
	"strings"

	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

// LLM is the single call shape the router needs from the language-model
// gateway
type LLM interface {
	Complete(ctx context.Context, systemPrompt, userMsg string) (string, error)
}

// QueryClass decides which memory store(s) a question consults
type QueryClass string

const (
	QueryFactual    QueryClass = "FACTUAL"
	QueryContextual QueryClass = "CONTEXTUAL"
	QueryMixed      QueryClass = "MIXED"
	// QueryUnknown marks model output outside the label set; the
	// orchestrator retrieves from neither store on this branch
	QueryUnknown QueryClass = "UNKNOWN"
)

// WantsGraph reports whether the question should consult the knowledge graph
func (q QueryClass) WantsGraph() bool {
	return q == QueryFactual || q == QueryMixed
}

// WantsEpisodic reports whether the question should consult the episodic store
func (q QueryClass) WantsEpisodic() bool {
	return q == QueryContextual || q == QueryMixed
}

const routePrompt = `Analyze the question and classify it. Return ONLY one word.

FACTUAL - asking for specific facts (name, location, preferences, job, etc.)
CONTEXTUAL - asking about past conversations, discussions, what was said
MIXED - needs both facts and conversation context

Examples:
"What's my name?" → FACTUAL
"Where do I live?" → FACTUAL
"What did we discuss yesterday?" → CONTEXTUAL
"What did I tell you about my job?" → CONTEXTUAL
"Tell me about my food preferences" → MIXED
"What do you know about me?" → MIXED

Return ONLY: FACTUAL or CONTEXTUAL or MIXED`

const entityPrompt = `Extract main entity from question. Return only entity name.`

// Router classifies incoming questions and resolves the entity used to
// filter graph queries. It performs no retrieval itself.
type Router struct {
	llm    LLM
	logger *zap.Logger
}

// NewRouter creates a new query router
func NewRouter(llm LLM) *Router {
	return &Router{
		llm:    llm,
		logger: logger.Get(),
	}
}

// Route issues one model call and maps the output onto the query label set
func (r *Router) Route(ctx context.Context, question string) (QueryClass, error) {
	raw, err := r.llm.Complete(ctx, routePrompt, question)
	if err != nil {
		return QueryUnknown, fmt.Errorf("query routing: %w", err)
	}

	switch QueryClass(strings.ToUpper(strings.TrimSpace(raw))) {
	case QueryFactual:
		return QueryFactual, nil
	case QueryContextual:
		return QueryContextual, nil
	case QueryMixed:
		return QueryMixed, nil
	default:
		r.logger.Warn("Router returned label outside the known set",
			zap.String("raw_label", raw),
		)
		return QueryUnknown, nil
	}
}

// ExtractEntity resolves the main entity of a question as free text. The
// result is used verbatim as a substring filter on entity names; swap this
// out for real entity resolution without touching call sites.
func (r *Router) ExtractEntity(ctx context.Context, question string) (string, error) {
	entity, err := r.llm.Complete(ctx, entityPrompt, question)
	if err != nil {
		return "", fmt.Errorf("entity extraction: %w", err)
	}
	return strings.TrimSpace(entity), nil
}
