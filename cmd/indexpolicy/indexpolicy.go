// Command indexpolicy ingests the company policy document into the Pinecone
// index the sales agent answers from. Run it offline whenever the policy
// document changes.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Ak1ra777/LeadFlow-demo/config"
	"github.com/Ak1ra777/LeadFlow-demo/services/policy"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/textsplitter"
	"google.golang.org/protobuf/types/known/structpb"
)

const vectorIDPrefix = "policy_"

func main() {
	log.Printf("[INFO] Starting policy document indexing")

	cfg := config.Load()

	if cfg.PineconeAPIKey == "" {
		log.Fatal("[ERROR] PINECONE_API_KEY environment variable is required")
	}

	if cfg.OpenAIAPIKey == "" {
		log.Fatal("[ERROR] OPENAI_API_KEY environment variable is required")
	}

	content, err := os.ReadFile(cfg.PolicyDocPath)
	if err != nil {
		log.Fatalf("[ERROR] Failed to read policy document %s: %v", cfg.PolicyDocPath, err)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(600),
		textsplitter.WithChunkOverlap(100),
	)
	chunks, err := splitter.SplitText(string(content))
	if err != nil {
		log.Fatalf("[ERROR] Failed to split policy document: %v", err)
	}
	if len(chunks) == 0 {
		log.Fatalf("[ERROR] Policy document %s produced no chunks", cfg.PolicyDocPath)
	}
	log.Printf("[INFO] Split policy document into %d chunks", len(chunks))

	llm, err := openai.New(
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithEmbeddingModel("text-embedding-3-small"),
	)
	if err != nil {
		log.Fatalf("[ERROR] Failed to create OpenAI client: %v", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		log.Fatalf("[ERROR] Failed to create embedder: %v", err)
	}

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: cfg.PineconeAPIKey,
	})
	if err != nil {
		log.Fatalf("[ERROR] Failed to create Pinecone client: %v", err)
	}

	if err := ensurePineconeIndex(pc, cfg.PineconeIndexName); err != nil {
		log.Fatalf("[ERROR] Failed to ensure Pinecone index: %v", err)
	}

	if err := deleteExistingVectors(pc, cfg.PineconeIndexName); err != nil {
		log.Fatalf("[ERROR] Failed to delete existing policy vectors: %v", err)
	}

	vectors, err := createVectors(chunks, cfg.PolicyDocPath, embedder)
	if err != nil {
		log.Fatalf("[ERROR] Failed to create vectors: %v", err)
	}

	if err := upsertVectors(pc, cfg.PineconeIndexName, vectors); err != nil {
		log.Fatalf("[ERROR] Failed to upsert vectors: %v", err)
	}

	log.Printf("[INFO] Policy indexing completed: %d chunks indexed", len(vectors))
}

func ensurePineconeIndex(pc *pinecone.Client, indexName string) error {
	ctx := context.Background()

	indexes, err := pc.ListIndexes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list indexes: %w", err)
	}

	for _, idx := range indexes {
		if idx.Name == indexName {
			log.Printf("[INFO] Index %s already exists", indexName)
			return nil
		}
	}

	log.Printf("[INFO] Creating Pinecone index: %s", indexName)
	dimension := int32(1536) // text-embedding-3-small dimension
	deletionProtection := pinecone.DeletionProtectionDisabled
	metric := pinecone.Cosine

	_, err = pc.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:               indexName,
		Dimension:          &dimension,
		Metric:             &metric,
		Cloud:              pinecone.Aws,
		Region:             "us-east-1",
		DeletionProtection: &deletionProtection,
		Tags:               &pinecone.IndexTags{"project": "leadflow"},
	})
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	for {
		idx, err := pc.DescribeIndex(ctx, indexName)
		if err != nil {
			return fmt.Errorf("failed to describe index: %w", err)
		}
		if idx.Status.Ready {
			log.Printf("[INFO] Index %s is ready", indexName)
			break
		}
		log.Printf("[INFO] Waiting for index %s to be ready...", indexName)
		time.Sleep(10 * time.Second)
	}

	return nil
}

func indexConnection(pc *pinecone.Client, indexName string) (*pinecone.IndexConnection, error) {
	ctx := context.Background()

	idxDesc, err := pc.DescribeIndex(ctx, indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := pc.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: policy.Namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}

	return idxConn, nil
}

func deleteExistingVectors(pc *pinecone.Client, indexName string) error {
	ctx := context.Background()

	idxConn, err := indexConnection(pc, indexName)
	if err != nil {
		return err
	}

	prefix := vectorIDPrefix
	limit := uint32(100)

	listResp, err := idxConn.ListVectors(ctx, &pinecone.ListVectorsRequest{
		Prefix: &prefix,
		Limit:  &limit,
	})
	if err != nil {
		// A missing namespace just means nothing was indexed yet.
		log.Printf("[INFO] No existing policy vectors to delete: %v", err)
		return nil
	}

	for {
		vectorIDs := make([]string, 0, len(listResp.VectorIds))
		for _, vectorID := range listResp.VectorIds {
			if vectorID != nil {
				vectorIDs = append(vectorIDs, *vectorID)
			}
		}

		if len(vectorIDs) > 0 {
			if err := idxConn.DeleteVectorsById(ctx, vectorIDs); err != nil {
				return fmt.Errorf("failed to delete vector batch: %w", err)
			}
			log.Printf("[INFO] Deleted %d stale policy vectors", len(vectorIDs))
		}

		if listResp.NextPaginationToken == nil {
			break
		}
		listResp, err = idxConn.ListVectors(ctx, &pinecone.ListVectorsRequest{
			Prefix:          &prefix,
			Limit:           &limit,
			PaginationToken: listResp.NextPaginationToken,
		})
		if err != nil {
			return fmt.Errorf("failed to list next batch of vectors: %w", err)
		}
	}

	return nil
}

func createVectors(chunks []string, source string, embedder embeddings.Embedder) ([]*pinecone.Vector, error) {
	ctx := context.Background()

	vectorValues, err := embedder.EmbedDocuments(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	var vectors []*pinecone.Vector
	for i, chunk := range chunks {
		metadata := map[string]any{
			"content":     chunk,
			"chunk_index": i,
			"source":      source,
			"created_at":  time.Now().Format(time.RFC3339),
		}

		metadataStruct, err := structpb.NewStruct(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to create metadata struct for chunk %d: %w", i, err)
		}

		vectors = append(vectors, &pinecone.Vector{
			Id:       fmt.Sprintf("%schunk_%d", vectorIDPrefix, i),
			Values:   &vectorValues[i],
			Metadata: metadataStruct,
		})
	}

	return vectors, nil
}

func upsertVectors(pc *pinecone.Client, indexName string, vectors []*pinecone.Vector) error {
	ctx := context.Background()

	idxConn, err := indexConnection(pc, indexName)
	if err != nil {
		return err
	}

	batchSize := 10
	for i := 0; i < len(vectors); i += batchSize {
		end := i + batchSize
		if end > len(vectors) {
			end = len(vectors)
		}

		count, err := idxConn.UpsertVectors(ctx, vectors[i:end])
		if err != nil {
			return fmt.Errorf("failed to upsert vector batch: %w", err)
		}
		log.Printf("[INFO] Upserted %d vectors (batch %d)", count, i/batchSize+1)
	}

	return nil
}
