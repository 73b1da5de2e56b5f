package vectorstore

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/philippgille/chromem-go"
)

const (
	CollectionName = "fincrew_runs"

	DefaultOllamaModel = "nomic-embed-text"
)

// VectorStore interface for vector storage backends
type VectorStore interface {
	AddDocument(ctx context.Context, id string, content string, metadata map[string]string) error
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
	DeleteDocument(ctx context.Context, id string) error
	Close() error
}

// SearchResult represents a search result from vector store
type SearchResult struct {
	ID       string
	Content  string
	Score    float32
	Metadata map[string]string
}

// ChromemStore implements VectorStore using chromem-go (embedded)
type ChromemStore struct {
	db         *chromem.DB
	collection *chromem.Collection
}

// NewEmbeddingFunc picks the embedding backend. An empty provider means
// embeddings are disabled.
func NewEmbeddingFunc(provider, model, apiKey string) (chromem.EmbeddingFunc, error) {
	switch strings.ToLower(provider) {
	case "ollama":
		if model == "" {
			model = DefaultOllamaModel
		}
		return chromem.NewEmbeddingFuncOllama(model, ""), nil
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai embeddings need an API key")
		}
		m := chromem.EmbeddingModelOpenAI3Small
		if model != "" {
			m = chromem.EmbeddingModelOpenAI(model)
		}
		return chromem.NewEmbeddingFuncOpenAI(apiKey, m), nil
	case "mistral":
		if apiKey == "" {
			return nil, fmt.Errorf("mistral embeddings need an API key")
		}
		return chromem.NewEmbeddingFuncMistral(apiKey), nil
	case "":
		return nil, fmt.Errorf("no embedding provider configured")
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", provider)
	}
}

// Open opens the persistent run index stored in dir
func Open(dir string, ef chromem.EmbeddingFunc) (*ChromemStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create vectordb directory: %w", err)
	}

	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("failed to create chromem db: %w", err)
	}
	return newChromemStore(db, CollectionName, ef)
}

// NewMemoryStore creates a store that lives only in memory
func NewMemoryStore(name string, ef chromem.EmbeddingFunc) (*ChromemStore, error) {
	return newChromemStore(chromem.NewDB(), name, ef)
}

func newChromemStore(db *chromem.DB, name string, ef chromem.EmbeddingFunc) (*ChromemStore, error) {
	collection, err := db.GetOrCreateCollection(name, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create collection: %w", err)
	}

	return &ChromemStore{
		db:         db,
		collection: collection,
	}, nil
}

// AddDocument adds a document to the vector store
func (c *ChromemStore) AddDocument(ctx context.Context, id string, content string, metadata map[string]string) error {
	return c.collection.AddDocument(ctx, chromem.Document{
		ID:       id,
		Content:  content,
		Metadata: metadata,
	})
}

// AddDocuments adds multiple documents at once
func (c *ChromemStore) AddDocuments(ctx context.Context, docs []chromem.Document) error {
	return c.collection.AddDocuments(ctx, docs, 4)
}

// Search finds similar documents. Asking for more results than stored
// documents returns them all.
func (c *ChromemStore) Search(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	if n := c.collection.Count(); limit > n {
		limit = n
	}
	if limit <= 0 {
		return nil, nil
	}

	results, err := c.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	searchResults := make([]SearchResult, 0, len(results))
	for _, r := range results {
		searchResults = append(searchResults, SearchResult{
			ID:       r.ID,
			Content:  r.Content,
			Score:    r.Similarity,
			Metadata: r.Metadata,
		})
	}

	return searchResults, nil
}

// DeleteDocument removes a document from the store
func (c *ChromemStore) DeleteDocument(ctx context.Context, id string) error {
	return c.collection.Delete(ctx, nil, nil, id)
}

// Count returns the number of stored documents
func (c *ChromemStore) Count() int {
	return c.collection.Count()
}

// Close is a no-op for chromem-go (persistent storage handles cleanup)
func (c *ChromemStore) Close() error {
	return nil
}
