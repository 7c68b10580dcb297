package graph

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"mnemo/internal/memory"
	"mnemo/pkg/errors"
	"mnemo/pkg/logger"
	"go.uber.org/zap"
)

// relationQueryLimit caps how many triples a context query may return
const relationQueryLimit = 5

// ArchiveReasonCorrected and ArchiveReasonUpdated label why a superseded
// edge was archived
const (
	ArchiveReasonCorrected = "corrected"
	ArchiveReasonUpdated   = "updated"
)

// Triple is an active (subject, relationship, object) edge as returned to
// the context merger
type Triple struct {
	Subject      string `json:"subject"`
	Relationship string `json:"relationship"`
	Object       string `json:"object"`
}

// String renders the triple the way merged context expects it
func (t Triple) String() string {
	return t.Subject + " " + t.Relationship + " " + t.Object
}

// Relation is a full edge with lifecycle metadata, used for audit queries
type Relation struct {
	Subject       string    `json:"subject"`
	Relationship  string    `json:"relationship"`
	Object        string    `json:"object"`
	Confidence    string    `json:"confidence,omitempty"`
	Priority      string    `json:"priority,omitempty"`
	Archived      bool      `json:"archived"`
	ArchiveReason string    `json:"archive_reason,omitempty"`
	PreviousValue string    `json:"previous_value,omitempty"`
	Timestamp     time.Time `json:"timestamp,omitempty"`
}

// Repository handles all Neo4j knowledge-graph operations. Entities are
// nodes keyed by name; facts are RELATION edges carrying type, confidence,
// priority and lifecycle properties. Superseded edges are archived in
// place, never deleted.
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Get(),
	}
}

// Connect opens a Neo4j driver and verifies connectivity before returning it
func Connect(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, errors.NewGraphConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.NewGraphConnectionFailed(uri, err)
	}
	return driver, nil
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// EnsureSchema creates the uniqueness constraint entity upserts rely on
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		CREATE CONSTRAINT entity_name IF NOT EXISTS
		FOR (e:Entity) REQUIRE e.name IS UNIQUE
	`

	if _, err := session.Run(ctx, query, nil); err != nil {
		return errors.NewGraphQueryFailed("ensure schema", err)
	}

	return nil
}

// UpsertEntity creates an entity node if it does not already exist
func (r *Repository) UpsertEntity(ctx context.Context, name string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `MERGE (e:Entity {name: $name})`

	if _, err := session.Run(ctx, query, map[string]interface{}{"name": name}); err != nil {
		return errors.NewGraphQueryFailed("upsert entity", err)
	}

	return nil
}

// ActiveObject returns the object of the single active (non-archived) edge
// for a (subject, relationship) pair, if one exists
func (r *Repository) ActiveObject(ctx context.Context, subject, relationship string) (string, bool, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (e1:Entity {name: $subject})-[r:RELATION {type: $relationship}]->(e2:Entity)
		WHERE r.archived IS NULL OR r.archived = false
		RETURN e2.name as object
		LIMIT 1
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"subject":      subject,
		"relationship": relationship,
	})
	if err != nil {
		return "", false, errors.NewGraphQueryFailed("active object lookup", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return "", false, errors.NewGraphQueryFailed("active object lookup", err)
		}
		return "", false, nil
	}

	return getStringFromRecord(result.Record(), "object"), true, nil
}

// ArchiveRelation marks an edge archived with a reason and timestamp.
// The edge is retained for audit and excluded from all read queries.
func (r *Repository) ArchiveRelation(ctx context.Context, subject, relationship, object, reason string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MATCH (e1:Entity {name: $subject})-[r:RELATION {type: $relationship}]->(e2:Entity {name: $object})
		SET r.archived = true,
		    r.archived_at = datetime(),
		    r.archive_reason = $reason
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"subject":      subject,
		"relationship": relationship,
		"object":       object,
		"reason":       reason,
	})
	if err != nil {
		return errors.NewGraphQueryFailed("archive relation", err)
	}

	r.logger.Info("Relation archived",
		zap.String("subject", subject),
		zap.String("relationship", relationship),
		zap.String("object", object),
		zap.String("reason", reason),
	)
	return nil
}

// StoreFact writes a validated fact following the contradiction protocol:
// an existing active edge with a different object is archived (reason
// "corrected" when the turn read as a correction, "updated" otherwise) and
// the new edge records the superseded value. An equal or absent edge is
// merged idempotently.
func (r *Repository) StoreFact(ctx context.Context, f memory.Fact, correction bool) error {
	existing, found, err := r.ActiveObject(ctx, f.Subject, f.Relationship)
	if err != nil {
		return err
	}

	if found && existing != f.Object {
		reason := ArchiveReasonUpdated
		if correction {
			reason = ArchiveReasonCorrected
		}
		if err := r.ArchiveRelation(ctx, f.Subject, f.Relationship, existing, reason); err != nil {
			return err
		}
		return r.insertSupersedingFact(ctx, f, existing)
	}

	return r.insertFact(ctx, f)
}

func (r *Repository) insertFact(ctx context.Context, f memory.Fact) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (e1:Entity {name: $subject})
		MERGE (e2:Entity {name: $object})
		MERGE (e1)-[r:RELATION {type: $relationship}]->(e2)
		SET r.timestamp = datetime(),
		    r.confidence = $confidence,
		    r.priority = $priority
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"subject":      f.Subject,
		"object":       f.Object,
		"relationship": f.Relationship,
		"confidence":   string(f.Confidence),
		"priority":     string(f.Priority),
	})
	if err != nil {
		return errors.NewGraphQueryFailed("store fact", err)
	}

	r.logger.Info("Fact stored",
		zap.String("subject", f.Subject),
		zap.String("relationship", f.Relationship),
		zap.String("object", f.Object),
		zap.String("priority", string(f.Priority)),
	)
	return nil
}

func (r *Repository) insertSupersedingFact(ctx context.Context, f memory.Fact, previousValue string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	query := `
		MERGE (e1:Entity {name: $subject})
		MERGE (e2:Entity {name: $object})
		MERGE (e1)-[r:RELATION {type: $relationship}]->(e2)
		SET r.timestamp = datetime(),
		    r.confidence = $confidence,
		    r.priority = $priority,
		    r.updated = true,
		    r.previous_value = $previousValue
	`

	_, err := session.Run(ctx, query, map[string]interface{}{
		"subject":       f.Subject,
		"object":        f.Object,
		"relationship":  f.Relationship,
		"confidence":    string(f.Confidence),
		"priority":      string(f.Priority),
		"previousValue": previousValue,
	})
	if err != nil {
		return errors.NewGraphQueryFailed("store superseding fact", err)
	}

	r.logger.Info("Fact superseded",
		zap.String("subject", f.Subject),
		zap.String("relationship", f.Relationship),
		zap.String("old_object", previousValue),
		zap.String("new_object", f.Object),
	)
	return nil
}

// RelationsTouching returns active triples where either endpoint name
// contains the given entity string. Matching is substring, not exact;
// results are capped.
func (r *Repository) RelationsTouching(ctx context.Context, entity string) ([]Triple, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (e1:Entity)-[r:RELATION]->(e2:Entity)
		WHERE (e1.name CONTAINS $entity OR e2.name CONTAINS $entity)
		AND (r.archived IS NULL OR r.archived = false)
		RETURN e1.name as subject, r.type as relationship, e2.name as object
		LIMIT $limit
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"entity": entity,
		"limit":  relationQueryLimit,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("relations touching", err)
	}

	var triples []Triple
	for result.Next(ctx) {
		record := result.Record()
		triples = append(triples, Triple{
			Subject:      getStringFromRecord(record, "subject"),
			Relationship: getStringFromRecord(record, "relationship"),
			Object:       getStringFromRecord(record, "object"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("relations touching", err)
	}

	return triples, nil
}

// RelationHistory returns every edge for a (subject, relationship) pair,
// archived ones included. Read path for audit and tests only.
func (r *Repository) RelationHistory(ctx context.Context, subject, relationship string) ([]Relation, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (e1:Entity {name: $subject})-[r:RELATION {type: $relationship}]->(e2:Entity)
		RETURN e1.name as subject, r.type as relationship, e2.name as object,
		       r.confidence as confidence, r.priority as priority,
		       coalesce(r.archived, false) as archived,
		       r.archive_reason as archive_reason,
		       r.previous_value as previous_value
	`

	result, err := session.Run(ctx, query, map[string]interface{}{
		"subject":      subject,
		"relationship": relationship,
	})
	if err != nil {
		return nil, errors.NewGraphQueryFailed("relation history", err)
	}

	var relations []Relation
	for result.Next(ctx) {
		record := result.Record()
		relations = append(relations, Relation{
			Subject:       getStringFromRecord(record, "subject"),
			Relationship:  getStringFromRecord(record, "relationship"),
			Object:        getStringFromRecord(record, "object"),
			Confidence:    getStringFromRecord(record, "confidence"),
			Priority:      getStringFromRecord(record, "priority"),
			Archived:      getBoolFromRecord(record, "archived"),
			ArchiveReason: getStringFromRecord(record, "archive_reason"),
			PreviousValue: getStringFromRecord(record, "previous_value"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, errors.NewGraphQueryFailed("relation history", err)
	}

	return relations, nil
}
