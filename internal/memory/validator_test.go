package memory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate_RejectsLowConfidence(t *testing.T) {
	facts := []Fact{
		{Subject: "User", Relationship: "LIKES", Object: "Pizza", Confidence: ConfidenceLow},
		{Subject: "User", Relationship: "WORKS_AS", Object: "Engineer", Confidence: ConfidenceLow},
	}
	for _, f := range facts {
		require.False(t, Validate(f), "LOW confidence fact must be rejected: %s", f.Triple())
	}
}

func TestValidate_AcceptsHighAndMedium(t *testing.T) {
	require.True(t, Validate(Fact{Subject: "User", Relationship: "HAS_NAME", Object: "Alex", Confidence: ConfidenceHigh}))
	require.True(t, Validate(Fact{Subject: "User", Relationship: "LIVES_IN", Object: "NYC", Confidence: ConfidenceMedium}))
}

func TestValidate_RejectsUnrecognizedConfidenceToken(t *testing.T) {
	// A token the extractor never promised must not pass as MEDIUM
	f := Fact{Subject: "User", Relationship: "LIVES_IN", Object: "NYC", Confidence: ParseConfidence("BOGUS")}
	require.False(t, Validate(f))
}

func TestValidate_RejectsOpinions(t *testing.T) {
	tests := []struct {
		name   string
		object string
	}{
		{"think", "I think jazz"},
		{"maybe", "maybe Paris"},
		{"probably", "probably a dog person"},
		{"believe", "believes in ghosts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Fact{Subject: "User", Relationship: "LIKES", Object: tt.object, Confidence: ConfidenceHigh}
			require.False(t, Validate(f))
		})
	}
}

func TestValidate_RejectsTransientEmotions(t *testing.T) {
	f := Fact{Subject: "User", Relationship: "IS_FEELING", Object: "Tired", Confidence: ConfidenceHigh}
	require.False(t, Validate(f))
}

func TestValidate_CriticalFactOverridesEmotion(t *testing.T) {
	// "I'm allergic to peanuts, feeling awful" - emotional phrasing, but an
	// allergy must still be stored
	f := Fact{Subject: "User", Relationship: "ALLERGIC_TO", Object: "Peanuts", Confidence: ConfidenceHigh}
	require.True(t, Validate(f))
}

func TestIsTransientEmotion(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"User IS i'm tired today", true},
		{"User IS_FEELING bored", true},
		{"User ALLERGIC_TO peanuts feeling awful", false}, // critical term wins
		{"User HAS_MEDICAL condition", false},
		{"User LIVES_IN NYC", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, IsTransientEmotion(tt.text), "text: %q", tt.text)
	}
}

func TestPrioritize(t *testing.T) {
	tests := []struct {
		relationship string
		want         Priority
	}{
		{"HAS_NAME", PriorityCritical},
		{"has_name", PriorityCritical}, // case-insensitive
		{"ALLERGIC_TO", PriorityCritical},
		{"EMERGENCY_CONTACT_OF", PriorityCritical}, // substring match
		{"HAS_PASSWORD", PriorityCritical},
		{"LIVES_IN", PriorityImportant},
		{"WORKS_AS", PriorityImportant},
		{"WORKS_AT", PriorityImportant},
		{"STUDIED_AT", PriorityImportant},
		{"LIKES", PriorityNormal},
		{"OWNS", PriorityNormal},
	}
	for _, tt := range tests {
		t.Run(tt.relationship, func(t *testing.T) {
			require.Equal(t, tt.want, Prioritize(tt.relationship))
		})
	}
}

func TestDetectCorrection(t *testing.T) {
	tests := []struct {
		message string
		want    bool
	}{
		{"Actually, call me Alexander", true},
		{"No, I live in Boston now", true},
		{"I changed my mind about that", true},
		{"I moved to Berlin", true},
		{"My name is Alex", false},
		{"Hello there", false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, DetectCorrection(tt.message), "message: %q", tt.message)
	}
}

func TestParseConfidence(t *testing.T) {
	require.Equal(t, ConfidenceHigh, ParseConfidence("HIGH"))
	require.Equal(t, ConfidenceHigh, ParseConfidence(" high "))
	require.Equal(t, ConfidenceLow, ParseConfidence("low"))
	// Missing or unrecognized defaults to MEDIUM
	require.Equal(t, ConfidenceMedium, ParseConfidence(""))
	require.Equal(t, ConfidenceMedium, ParseConfidence(" medium "))
	require.Equal(t, ConfidenceUnknown, ParseConfidence("VERY_SURE"))
}

func TestParseClass(t *testing.T) {
	require.Equal(t, ClassEpisodic, ParseClass("EPISODIC"))
	require.Equal(t, ClassSemantic, ParseClass("semantic"))
	require.Equal(t, ClassBoth, ParseClass(" Both "))
	require.Equal(t, ClassNone, ParseClass("NONE"))
	require.Equal(t, ClassUnknown, ParseClass("EPISODIC memory detected"))
	require.Equal(t, ClassUnknown, ParseClass(""))
}
