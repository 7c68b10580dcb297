package agent

// Answer-generation instructions. The other four fixed instructions in the
// pipeline live next to their components: classification and extraction in
// internal/memory, routing and entity resolution in internal/router.

const answerWithMemoryPrompt = `Use this memory to answer:

%s

Answer naturally and conversationally.`

const answerNoMemoryPrompt = `Answer naturally using your general knowledge.`
