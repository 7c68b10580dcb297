package memory

import (
	"context"
	"fmt"

	"mnemo/pkg/errors"
	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

// LLM is the single call shape the memory pipeline needs from the
// language-model gateway
type LLM interface {
	Complete(ctx context.Context, systemPrompt, userMsg string) (string, error)
}

const classifyPrompt = `Classify the conversation type. Return ONLY one word.

EPISODIC - casual chat, greetings, questions about general topics
SEMANTIC - user shares personal facts (name, location, preferences, job, passwords)
BOTH - conversation contains both casual chat AND personal facts
NONE - no meaningful content

Examples:
"Hello" → EPISODIC
"My name is Alex" → SEMANTIC
"My name is Alex and how are you?" → BOTH
"What's 2+2?" → NONE

Return ONLY: EPISODIC or SEMANTIC or BOTH or NONE`

// Classifier labels a (user message, bot response) pair with the memory
// store(s) it should be written to
type Classifier struct {
	llm    LLM
	logger *zap.Logger
}

// NewClassifier creates a new memory classifier
func NewClassifier(llm LLM) *Classifier {
	return &Classifier{
		llm:    llm,
		logger: logger.Get(),
	}
}

// Classify issues one model call and maps the output onto the label set.
// Output outside the set comes back as ClassUnknown and is logged.
func (c *Classifier) Classify(ctx context.Context, userMessage, botResponse string) (Class, error) {
	input := fmt.Sprintf("User: %s\nBot: %s\n\nClassify:", userMessage, botResponse)

	raw, err := c.llm.Complete(ctx, classifyPrompt, input)
	if err != nil {
		return ClassUnknown, errors.NewBaseError(errors.ErrorTypeMemory, "memory classification failed", err)
	}

	class := ParseClass(raw)
	if class == ClassUnknown {
		c.logger.Warn("Classifier returned label outside the known set",
			zap.String("raw_label", raw),
		)
	}

	return class, nil
}
