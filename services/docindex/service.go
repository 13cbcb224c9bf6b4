package docindex

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"studyquiz/models"

	"github.com/pinecone-io/go-pinecone/v3/pinecone"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/protobuf/types/known/structpb"
)

const namespace = "studyquiz-materials"

// materialChunk is one indexable slice of a material, split on markdown
// headings when present.
type materialChunk struct {
	ID         string
	MaterialID string
	CourseID   string
	ChunkIndex int
	Heading    string
	Content    string
}

// Service indexes course materials in Pinecone and retrieves chunks relevant
// to a topic focus during quiz generation.
type Service struct {
	client    *pinecone.Client
	embedder  embeddings.Embedder
	indexName string
}

func NewService(apiKey, openaiAPIKey, indexName string) (*Service, error) {
	log.Printf("[INFO] Initializing document index service")

	pc, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Pinecone client: %w", err)
	}

	llm, err := openai.New(
		openai.WithModel("gpt-4o-mini"),
		openai.WithToken(openaiAPIKey),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	service := &Service{
		client:    pc,
		embedder:  embedder,
		indexName: indexName,
	}

	log.Printf("[INFO] Document index service initialized successfully")
	return service, nil
}

// QueryTopicChunks returns up to limit material chunks relevant to the given
// topic, scoped to one course via metadata filtering after retrieval.
func (s *Service) QueryTopicChunks(courseID, topic string, limit int) ([]string, error) {
	log.Printf("[INFO] Starting index query for topic %q in course %s with limit %d", topic, courseID, limit)

	ctx := context.Background()

	idxConn, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	queryEmbeddings, err := s.embedder.EmbedDocuments(ctx, []string{topic})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding for topic %q: %w", topic, err)
	}

	result, err := idxConn.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          queryEmbeddings[0],
		TopK:            20,
		IncludeValues:   false,
		IncludeMetadata: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query vectors for topic %q: %w", topic, err)
	}

	log.Printf("[INFO] Retrieved %d chunks for topic %q", len(result.Matches), topic)

	var chunks []string
	for _, match := range result.Matches {
		if match.Vector.Metadata == nil {
			continue
		}
		metadata := match.Vector.Metadata.AsMap()

		if matchCourse, ok := metadata["course_id"].(string); !ok || matchCourse != courseID {
			continue
		}

		var chunkParts []string
		if heading, ok := metadata["heading"].(string); ok && heading != "" {
			chunkParts = append(chunkParts, "Section: "+heading)
		}
		if content, ok := metadata["content"].(string); ok && content != "" {
			chunkParts = append(chunkParts, content)
		}
		if len(chunkParts) > 0 {
			chunks = append(chunks, strings.Join(chunkParts, "\n"))
		}
	}

	if len(chunks) == 0 {
		log.Printf("[WARN] No chunks found for topic %q in course %s", topic, courseID)
		return []string{}, nil
	}

	shuffleStrings(chunks)

	if len(chunks) > limit {
		chunks = chunks[:limit]
	}

	log.Printf("[INFO] Returning %d chunks for topic %q", len(chunks), topic)
	return chunks, nil
}

// IndexMaterial replaces all vectors for a material with freshly embedded
// chunks of its current content.
func (s *Service) IndexMaterial(material *models.Material) error {
	log.Printf("[INFO] Starting indexing for material %s", material.ID)

	ctx := context.Background()

	chunks := chunkMaterialByHeadings(material)
	if len(chunks) == 0 {
		log.Printf("[INFO] No chunks created for material %s", material.ID)
		return nil
	}
	log.Printf("[INFO] Created %d chunks for material %s", len(chunks), material.ID)

	idxConn, err := s.connect(ctx)
	if err != nil {
		return err
	}

	if err := s.deleteExistingVectors(ctx, idxConn, material.ID); err != nil {
		return fmt.Errorf("failed to delete existing vectors: %w", err)
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = fmt.Sprintf("Heading: %s\n\nContent: %s", chunk.Heading, chunk.Content)
	}

	vectorValues, err := s.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	vectors := make([]*pinecone.Vector, 0, len(chunks))
	for i, chunk := range chunks {
		metadata, err := structpb.NewStruct(map[string]any{
			"material_id": chunk.MaterialID,
			"course_id":   chunk.CourseID,
			"chunk_index": chunk.ChunkIndex,
			"heading":     chunk.Heading,
			"content":     chunk.Content,
			"created_at":  time.Now().Format(time.RFC3339),
		})
		if err != nil {
			return fmt.Errorf("failed to create metadata struct for chunk %s: %w", chunk.ID, err)
		}

		vectors = append(vectors, &pinecone.Vector{
			Id:       chunk.ID,
			Values:   &vectorValues[i],
			Metadata: metadata,
		})
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
		log.Printf("[INFO] Successfully upserted %d vectors (batch %d)", count, i/batchSize+1)
	}

	log.Printf("[INFO] Completed indexing for material %s", material.ID)
	return nil
}

func (s *Service) connect(ctx context.Context) (*pinecone.IndexConnection, error) {
	idxDesc, err := s.client.DescribeIndex(ctx, s.indexName)
	if err != nil {
		return nil, fmt.Errorf("failed to describe index: %w", err)
	}

	idxConn, err := s.client.Index(pinecone.NewIndexConnParams{
		Host:      idxDesc.Host,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index connection: %w", err)
	}

	return idxConn, nil
}

func (s *Service) deleteExistingVectors(ctx context.Context, idxConn *pinecone.IndexConnection, materialID string) error {
	prefix := fmt.Sprintf("material_%s_", materialID)
	limit := uint32(100)

	listResp, err := idxConn.ListVectors(ctx, &pinecone.ListVectorsRequest{
		Prefix: &prefix,
		Limit:  &limit,
	})
	if err != nil {
		// A missing namespace means nothing has been indexed yet.
		if strings.Contains(err.Error(), "Namespace not found") {
			return nil
		}
		return fmt.Errorf("failed to list vectors: %w", err)
	}

	for len(listResp.VectorIds) > 0 {
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
			log.Printf("[INFO] Deleted %d vectors for material %s", len(vectorIDs), materialID)
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

var headingRegex = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

func chunkMaterialByHeadings(material *models.Material) []materialChunk {
	lines := strings.Split(material.ContentText, "\n")

	var chunks []materialChunk
	var currentChunk strings.Builder
	var currentHeading string
	chunkIndex := 0

	flush := func() {
		content := strings.TrimSpace(currentChunk.String())
		if content != "" {
			chunks = append(chunks, materialChunk{
				ID:         fmt.Sprintf("material_%s_chunk_%d", material.ID, chunkIndex),
				MaterialID: material.ID,
				CourseID:   material.CourseID,
				ChunkIndex: chunkIndex,
				Heading:    currentHeading,
				Content:    content,
			})
			chunkIndex++
		}
		currentChunk.Reset()
	}

	for _, line := range lines {
		if match := headingRegex.FindStringSubmatch(line); match != nil {
			flush()
			currentHeading = match[2]
		}
		currentChunk.WriteString(line + "\n")
	}
	flush()

	// Plain-text materials without headings become a single chunk.
	if len(chunks) == 0 && strings.TrimSpace(material.ContentText) != "" {
		chunks = append(chunks, materialChunk{
			ID:         fmt.Sprintf("material_%s_chunk_0", material.ID),
			MaterialID: material.ID,
			CourseID:   material.CourseID,
			ChunkIndex: 0,
			Heading:    material.Title,
			Content:    material.ContentText,
		})
	}

	return chunks
}

func shuffleStrings(slice []string) {
	for i := range slice {
		j := rand.Intn(i + 1)
		slice[i], slice[j] = slice[j], slice[i]
	}
}
