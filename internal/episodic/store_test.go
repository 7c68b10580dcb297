package episodic

import (
	"context"
	"os"
	"testing"
)

// These tests require a scratch Postgres database with the pgvector
// extension available. Set POSTGRES_TEST_DSN to run them.

const testDimensions = 8

// hashEmbedder produces a deterministic unit-ish vector per text so
// identical texts are at distance zero from each other
type hashEmbedder struct{}

func (hashEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec := make([]float32, testDimensions)
	for i, r := range text {
		vec[i%testDimensions] += float32(r % 13)
	}
	// Avoid the zero vector for empty input
	vec[0] += 1
	return vec, nil
}

func createTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}

	store, err := NewStore(context.Background(), dsn, hashEmbedder{}, testDimensions)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	return store
}

func TestStore_AddAndSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store := createTestStore(t)
	defer store.Close()

	content := "User: I love hiking in the mountains\nAssistant: Sounds wonderful!"
	if err := store.Add(ctx, content); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	results, err := store.Search(ctx, content, 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Expected at least one result")
	}

	// Identical text must come back first, at (near) zero distance
	if results[0].Content != content {
		t.Errorf("Expected stored content first, got %q", results[0].Content)
	}
	if results[0].Distance > 0.001 {
		t.Errorf("Expected near-zero distance for identical text, got %f", results[0].Distance)
	}
}

func TestStore_SearchOrderedByDistance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	store := createTestStore(t)
	defer store.Close()

	for _, content := range []string{
		"User: talking about cooking pasta\nAssistant: al dente",
		"User: discussing quantum physics\nAssistant: fascinating",
	} {
		if err := store.Add(ctx, content); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	results, err := store.Search(ctx, "User: talking about cooking pasta\nAssistant: al dente", 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Distance < results[i-1].Distance {
			t.Errorf("Results not in ascending distance order: %f before %f",
				results[i-1].Distance, results[i].Distance)
		}
	}
}
