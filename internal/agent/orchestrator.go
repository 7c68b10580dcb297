package agent

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"mnemo/internal/episodic"
	"mnemo/internal/graph"
	"mnemo/internal/memory"
	"mnemo/internal/router"
	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

const (
	// episodicSearchK is how many candidates the similarity search returns
	episodicSearchK = 3
	// episodicDistanceThreshold discards weak matches; this cutoff is
	// pipeline policy, not a store responsibility
	episodicDistanceThreshold = 0.7
)

// LLM is the call shape the orchestrator needs from the language-model
// gateway. The same value backs the classifier, extractor and router.
type LLM interface {
	Complete(ctx context.Context, systemPrompt, userMsg string) (string, error)
}

// FactStore is what the pipeline requires of the knowledge graph
type FactStore interface {
	StoreFact(ctx context.Context, f memory.Fact, correction bool) error
	RelationsTouching(ctx context.Context, entity string) ([]graph.Triple, error)
}

// EpisodicStore is what the pipeline requires of the vector index
type EpisodicStore interface {
	Add(ctx context.Context, content string) error
	Search(ctx context.Context, query string, k int) ([]episodic.Result, error)
}

// FactFailure records one fact the storage loop could not persist
type FactFailure struct {
	Fact memory.Fact
	Err  error
}

// StoreReport summarizes one post-turn memory write. Per-fact failures
// never abort sibling facts; they accumulate here instead.
type StoreReport struct {
	Class          memory.Class
	EpisodicStored bool
	FactsStored    int
	FactsSkipped   int
	Failures       []FactFailure
}

// Orchestrator runs the per-turn control flow: route, retrieve, merge,
// generate, then (post-hoc) classify and store. A turn's own content is
// never available as context for answering that turn.
type Orchestrator struct {
	llm        LLM
	classifier *memory.Classifier
	extractor  *memory.Extractor
	router     *router.Router
	facts      FactStore // nil in the vector-only variant
	episodic   EpisodicStore
	logger     *zap.Logger
}

// NewOrchestrator creates a new conversation orchestrator. Pass a nil
// FactStore for the vector-only variant: routing then collapses to the
// episodic store, no facts are extracted, and semantic turns are kept as
// plain document records.
func NewOrchestrator(llm LLM, facts FactStore, episodicStore EpisodicStore) *Orchestrator {
	return &Orchestrator{
		llm:        llm,
		classifier: memory.NewClassifier(llm),
		extractor:  memory.NewExtractor(llm),
		router:     router.NewRouter(llm),
		facts:      facts,
		episodic:   episodicStore,
		logger:     logger.Get(),
	}
}

// Chat answers one question using whichever memory store(s) the router
// selects. Storage happens separately in Remember, after the response has
// been shown.
func (o *Orchestrator) Chat(ctx context.Context, question string) (string, error) {
	route := router.QueryContextual
	if o.facts != nil {
		var err error
		route, err = o.router.Route(ctx, question)
		if err != nil {
			return "", err
		}
	}

	o.logger.Debug("Query routed",
		zap.String("route", string(route)),
	)

	var facts []string
	var docs []string

	switch {
	case route == router.QueryMixed:
		// Both stores; each call blocks, the turn waits on both.
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			f, err := o.retrieveFacts(gctx, question)
			if err != nil {
				return err
			}
			facts = f
			return nil
		})
		g.Go(func() error {
			d, err := o.retrieveEpisodes(gctx, question)
			if err != nil {
				return err
			}
			docs = d
			return nil
		})
		if err := g.Wait(); err != nil {
			return "", err
		}
	case route.WantsGraph():
		f, err := o.retrieveFacts(ctx, question)
		if err != nil {
			return "", err
		}
		facts = f
	case route.WantsEpisodic():
		d, err := o.retrieveEpisodes(ctx, question)
		if err != nil {
			return "", err
		}
		docs = d
	default:
		// Unknown route: consult neither store
		o.logger.Warn("Unroutable query, answering without memory",
			zap.String("route", string(route)),
		)
	}

	memoryBlock, ok := mergeContext(facts, docs)
	if !ok {
		return o.llm.Complete(ctx, answerNoMemoryPrompt, question)
	}

	return o.llm.Complete(ctx, fmt.Sprintf(answerWithMemoryPrompt, memoryBlock), question)
}

func (o *Orchestrator) retrieveFacts(ctx context.Context, question string) ([]string, error) {
	entity, err := o.router.ExtractEntity(ctx, question)
	if err != nil {
		return nil, err
	}

	triples, err := o.facts.RelationsTouching(ctx, entity)
	if err != nil {
		return nil, err
	}

	facts := make([]string, 0, len(triples))
	for _, t := range triples {
		facts = append(facts, t.String())
	}
	return facts, nil
}

func (o *Orchestrator) retrieveEpisodes(ctx context.Context, question string) ([]string, error) {
	results, err := o.episodic.Search(ctx, question, episodicSearchK)
	if err != nil {
		return nil, err
	}

	var docs []string
	for _, res := range results {
		if res.Distance < episodicDistanceThreshold {
			docs = append(docs, res.Content)
		}
	}

	return rankByRelevance(question, docs), nil
}

// Remember classifies the finished turn and writes it to the selected
// memory store(s). An unknown classification stores nothing. A failure on
// one fact never prevents storing the rest of the batch.
func (o *Orchestrator) Remember(ctx context.Context, userMessage, botResponse string) (*StoreReport, error) {
	class, err := o.classifier.Classify(ctx, userMessage, botResponse)
	if err != nil {
		return nil, err
	}

	report := &StoreReport{Class: class}

	if class == memory.ClassUnknown {
		// Treated as NONE on an explicit branch, per the classifier contract
		o.logger.Warn("Turn not stored: classification outside label set")
		return report, nil
	}

	storeEpisodic := class.WantsEpisodic()
	// Without a fact store, semantic memory degrades to plain document
	// memory: the turn is kept as an episodic record instead of vanishing
	if o.facts == nil && class.WantsSemantic() {
		storeEpisodic = true
	}

	if storeEpisodic {
		content := fmt.Sprintf("User: %s\nAssistant: %s", userMessage, botResponse)
		if err := o.episodic.Add(ctx, content); err != nil {
			return report, err
		}
		report.EpisodicStored = true
	}

	if class.WantsSemantic() && o.facts != nil {
		if err := o.storeFacts(ctx, userMessage, botResponse, report); err != nil {
			return report, err
		}
	}

	o.logger.Info("Turn memorized",
		zap.String("class", string(class)),
		zap.Bool("episodic", report.EpisodicStored),
		zap.Int("facts_stored", report.FactsStored),
		zap.Int("facts_skipped", report.FactsSkipped),
		zap.Int("facts_failed", len(report.Failures)),
	)
	return report, nil
}

func (o *Orchestrator) storeFacts(ctx context.Context, userMessage, botResponse string, report *StoreReport) error {
	candidates, err := o.extractor.Extract(ctx, userMessage, botResponse)
	if err != nil {
		return err
	}

	correction := memory.DetectCorrection(userMessage)

	for _, f := range candidates {
		if !memory.Validate(f) {
			report.FactsSkipped++
			continue
		}
		f.Priority = memory.Prioritize(f.Relationship)

		if err := o.facts.StoreFact(ctx, f, correction); err != nil {
			o.logger.Warn("Failed to store fact, continuing with batch",
				zap.String("subject", f.Subject),
				zap.String("relationship", f.Relationship),
				zap.Error(err),
			)
			report.Failures = append(report.Failures, FactFailure{Fact: f, Err: err})
			continue
		}
		report.FactsStored++
	}

	return nil
}
