package memory

import (
	"strings"
	"time"
)

// Confidence is the extractor's certainty about a fact
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
	// ConfidenceUnknown marks an extractor token outside the level set;
	// validation rejects it the same way it rejects LOW
	ConfidenceUnknown Confidence = "UNKNOWN"
)

// ParseConfidence normalizes an extractor confidence field. An absent or
// empty field defaults to MEDIUM; a token outside the level set maps to
// ConfidenceUnknown so validation can reject it.
func ParseConfidence(s string) Confidence {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return ConfidenceHigh
	case "MEDIUM":
		return ConfidenceMedium
	case "LOW":
		return ConfidenceLow
	case "":
		return ConfidenceMedium
	default:
		return ConfidenceUnknown
	}
}

// Priority is the derived storage tier of a fact
type Priority string

const (
	PriorityCritical  Priority = "CRITICAL"
	PriorityImportant Priority = "IMPORTANT"
	PriorityNormal    Priority = "NORMAL"
)

// Class labels what kind of memory a conversation turn produced
type Class string

const (
	ClassEpisodic Class = "EPISODIC"
	ClassSemantic Class = "SEMANTIC"
	ClassBoth     Class = "BOTH"
	ClassNone     Class = "NONE"
	// ClassUnknown marks model output outside the label set. Callers must
	// treat it as NONE on an explicit branch, not silently discard it.
	ClassUnknown Class = "UNKNOWN"
)

// ParseClass maps raw model output onto the closed label set
func ParseClass(s string) Class {
	switch Class(strings.ToUpper(strings.TrimSpace(s))) {
	case ClassEpisodic:
		return ClassEpisodic
	case ClassSemantic:
		return ClassSemantic
	case ClassBoth:
		return ClassBoth
	case ClassNone:
		return ClassNone
	default:
		return ClassUnknown
	}
}

// WantsEpisodic reports whether the turn should be written to the episodic store
func (c Class) WantsEpisodic() bool {
	return c == ClassEpisodic || c == ClassBoth
}

// WantsSemantic reports whether the turn should go through fact extraction
func (c Class) WantsSemantic() bool {
	return c == ClassSemantic || c == ClassBoth
}

// Fact is a directed labeled edge: subject -[relationship]-> object.
// Priority is derived by Prioritize, never supplied by the extractor.
type Fact struct {
	Subject      string     `json:"subject"`
	Relationship string     `json:"relationship"`
	Object       string     `json:"object"`
	Confidence   Confidence `json:"confidence"`
	Priority     Priority   `json:"priority,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
}

// Triple renders the fact the way merged context expects it
func (f Fact) Triple() string {
	return f.Subject + " " + f.Relationship + " " + f.Object
}
