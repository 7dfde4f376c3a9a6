// Package policy adapts the Pinecone company-policy index into the single
// lookup call the sales agent needs.
package policy

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

const (
	// Namespace holds the ingested policy document chunks.
	Namespace = "leadflow-policy"

	// NoPolicyFound is returned when the index has nothing relevant. It is
	// fed back to the decision model as a tool result.
	NoPolicyFound = "No relevant company policy found."

	topK = 3
)

type Service struct {
	client    *pinecone.Client
	embedder  embeddings.Embedder
	indexName string
}

func NewService(pineconeAPIKey, openaiAPIKey, indexName string) (*Service, error) {
	log.Printf("[INFO] Initializing policy retrieval service")

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: pineconeAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	llm, err := openai.New(
		openai.WithToken(openaiAPIKey),
		openai.WithEmbeddingModel("text-embedding-3-small"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &Service{
		client:    pc,
		embedder:  embedder,
		indexName: indexName,
	}, nil
}

// Lookup returns the three most relevant policy snippets for the query,
// joined by blank lines, or the NoPolicyFound sentinel.
func (s *Service) Lookup(ctx context.Context, query string) (string, error) {
	log.Printf("[INFO] Policy lookup: %s", query)

	idxDesc, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return "", fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: Namespace,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create index connection: %w", err)
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}

	result, err := idxConn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return "", fmt.Errorf("failed to query vectors: %w", err)
	}

	var snippets []string
	for _, match := range result.Matches {
		if match.Vector.Metadata == nil {
			continue
		}
		metadata := match.Vector.Metadata.AsMap()
		if content, ok := metadata["content"].(string); ok && content != "" {
			snippets = append(snippets, content)
		}
	}

	if len(snippets) == 0 {
		log.Printf("[WARN] No policy snippets found for query: %s", query)
		return NoPolicyFound, nil
	}

	log.Printf("[INFO] Policy lookup returned %d snippets", len(snippets))
	return strings.Join(snippets, "\n\n"), nil
}
