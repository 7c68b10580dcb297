package agent

import (
	"sort"
	"strings"
)

// rankByRelevance orders documents by lexical overlap with the question:
// the score is the size of the intersection between the lowercase
// whitespace-tokenized question and document. Zero-score documents are
// dropped entirely.
func rankByRelevance(question string, docs []string) []string {
	if len(docs) == 0 {
		return nil
	}

	questionWords := tokenSet(question)

	type scored struct {
		content string
		score   int
	}
	var ranked []scored
	for _, doc := range docs {
		score := 0
		for word := range tokenSet(doc) {
			if questionWords[word] {
				score++
			}
		}
		if score > 0 {
			ranked = append(ranked, scored{content: doc, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	result := make([]string, 0, len(ranked))
	for _, s := range ranked {
		result = append(result, s.content)
	}
	return result
}

func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		set[word] = true
	}
	return set
}

// mergeContext combines fact triples and ranked conversation snippets into
// one context block, facts first, deduplicated by exact text. ok is false
// when both inputs are empty; generation must then fall back to the
// no-memory instruction.
func mergeContext(facts []string, docs []string) (context string, ok bool) {
	var parts []string
	seen := make(map[string]bool)

	if len(facts) > 0 {
		factsText := strings.Join(facts, "\n")
		if !seen[factsText] {
			parts = append(parts, "FACTS ABOUT USER:\n"+factsText)
			seen[factsText] = true
		}
	}

	if len(docs) > 0 {
		var unique []string
		for _, doc := range docs {
			if !seen[doc] {
				unique = append(unique, doc)
				seen[doc] = true
			}
		}
		if len(unique) > 0 {
			parts = append(parts, "PAST CONVERSATIONS:\n"+strings.Join(unique, "\n\n"))
		}
	}

	if len(parts) == 0 {
		return "", false
	}
	return strings.Join(parts, "\n\n"), true
}
