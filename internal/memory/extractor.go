package memory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mnemo/pkg/errors"
	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

const extractPrompt = `Extract facts as: ENTITY1|RELATIONSHIP|ENTITY2|CONFIDENCE

CONFIDENCE levels:
- HIGH: Direct statement ("I am", "My name is", "I live in")
- MEDIUM: Implied or mentioned casually
- LOW: Uncertain ("I think", "maybe", "probably")

Examples:
"My name is Alex" → User|HAS_NAME|Alex|HIGH
"I live in NYC" → User|LIVES_IN|NYC|HIGH
"I think I like pizza" → User|LIKES|Pizza|LOW
"Maybe I work as engineer" → User|WORKS_AS|Engineer|LOW

One fact per line. Return NONE if no facts.`

// noFactsToken is the literal the model returns when a turn holds no facts
const noFactsToken = "NONE"

// Extractor turns a conversation turn into structured candidate facts
type Extractor struct {
	llm    LLM
	logger *zap.Logger
}

// NewExtractor creates a new fact extractor
func NewExtractor(llm LLM) *Extractor {
	return &Extractor{
		llm:    llm,
		logger: logger.Get(),
	}
}

// Extract issues one model call and parses the newline-separated candidate
// facts. Lines with fewer than 3 delimited fields are skipped and logged,
// never an error. A missing confidence field defaults to MEDIUM.
func (e *Extractor) Extract(ctx context.Context, userMessage, botResponse string) ([]Fact, error) {
	input := fmt.Sprintf("User: %s\nBot: %s\n\nExtract:", userMessage, botResponse)

	raw, err := e.llm.Complete(ctx, extractPrompt, input)
	if err != nil {
		return nil, errors.NewBaseError(errors.ErrorTypeMemory, "fact extraction failed", err)
	}

	return e.parseFacts(raw), nil
}

func (e *Extractor) parseFacts(raw string) []Fact {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == noFactsToken {
		return nil
	}

	var facts []Fact
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == noFactsToken {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) < 3 {
			e.logger.Warn("Skipping malformed fact line",
				zap.String("line", line),
				zap.Int("fields", len(parts)),
			)
			continue
		}

		fact := Fact{
			Subject:      strings.TrimSpace(parts[0]),
			Relationship: strings.TrimSpace(parts[1]),
			Object:       strings.TrimSpace(parts[2]),
			Confidence:   ConfidenceMedium,
			CreatedAt:    time.Now(),
		}
		if len(parts) > 3 {
			fact.Confidence = ParseConfidence(parts[3])
		}

		facts = append(facts, fact)
	}

	return facts
}
