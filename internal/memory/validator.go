package memory

import "strings"

// Validation and prioritization are pure functions over extracted facts.
// All matching is case-insensitive substring matching; the lexicons below
// are checked in declared order.

// temporaryEmotions are statements that describe a passing state, not a
// stable fact about the user
var temporaryEmotions = []string{
	"i'm happy", "i'm sad", "i'm angry", "i'm frustrated",
	"i'm tired", "i'm excited", "i hate mondays",
	"i'm annoyed", "i'm bored", "feeling",
}

// criticalFactTerms override the emotional filter: medical and emergency
// information is stored even when phrased emotionally
var criticalFactTerms = []string{
	"allergic", "allergy", "medical", "condition",
	"disease", "medication", "emergency",
}

// opinionMarkers in the object text disqualify a triple from being a fact
var opinionMarkers = []string{
	"think", "feel", "believe", "opinion", "maybe", "probably",
}

// correctionMarkers signal the user is revising earlier information
var correctionMarkers = []string{
	"actually", "no", "correction", "i meant", "i mean",
	"not", "wrong", "mistake", "changed my mind",
	"instead", "rather", "moved to", "now i",
}

// criticalRelationPatterns and importantRelationPatterns assign priority by
// relationship label; critical patterns are checked first
var criticalRelationPatterns = []string{
	"HAS_NAME", "HAS_PASSWORD", "ALLERGIC_TO", "HAS_MEDICAL", "EMERGENCY_CONTACT",
}

var importantRelationPatterns = []string{
	"LIVES_IN", "WORKS_AS", "WORKS_AT", "STUDIED_AT", "FAMILY_MEMBER",
}

// IsTransientEmotion reports whether text reads as a temporary emotional
// statement. Critical-fact terms always win: an allergy stated while upset
// is still an allergy.
func IsTransientEmotion(text string) bool {
	lower := strings.ToLower(text)

	for _, critical := range criticalFactTerms {
		if strings.Contains(lower, critical) {
			return false
		}
	}

	for _, emotion := range temporaryEmotions {
		if strings.Contains(lower, emotion) {
			return true
		}
	}

	return false
}

// Validate decides whether an extracted candidate is worth storing.
// LOW-confidence facts, opinions, and transient emotional statements are
// all rejected.
func Validate(f Fact) bool {
	if f.Confidence != ConfidenceHigh && f.Confidence != ConfidenceMedium {
		return false
	}

	if IsTransientEmotion(f.Triple()) {
		return false
	}

	objectLower := strings.ToLower(f.Object)
	for _, marker := range opinionMarkers {
		if strings.Contains(objectLower, marker) {
			return false
		}
	}

	return true
}

// Prioritize assigns the storage tier for a relationship label.
// First matching pattern wins; critical patterns are checked before
// important ones.
func Prioritize(relationship string) Priority {
	upper := strings.ToUpper(relationship)

	for _, pattern := range criticalRelationPatterns {
		if strings.Contains(upper, pattern) {
			return PriorityCritical
		}
	}

	for _, pattern := range importantRelationPatterns {
		if strings.Contains(upper, pattern) {
			return PriorityImportant
		}
	}

	return PriorityNormal
}

// DetectCorrection reports whether the user message reads as a correction
// of earlier information. It only selects the archive reason for a
// superseded fact ("corrected" vs "updated"); updates happen either way.
func DetectCorrection(userMessage string) bool {
	lower := strings.ToLower(userMessage)
	for _, marker := range correctionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
