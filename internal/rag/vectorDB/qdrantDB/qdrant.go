package qdrantDB

import (
	"context"
	"errors"
	"fmt"

	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"github.com/qdrant/go-client/qdrant"
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

var partitions = []commonModels.Partition{
	commonModels.PartitionParent,
	commonModels.PartitionCoach,
	commonModels.PartitionShared,
}

// ClientHolder keeps Q&A pairs in one collection filtered by audience tag,
// and document chunks in one collection per partition.
type ClientHolder struct {
	QObj *qdrant.Client
	log  *logger_i.Logger
}

func NewQdrantStore(ctx context.Context, host string, port int) (*ClientHolder, error) {
	log := logger_i.NewLogger("Qdrant")
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		log.Error("could not instantiate", "error", err)
		return nil, err
	}

	db := &ClientHolder{QObj: client, log: log}
	if err := db.initCollections(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	go db.closeOnDone(ctx)
	return db, nil
}

func (db *ClientHolder) initCollections(ctx context.Context) error {
	if err := createCollection(ctx, db.QObj, config.QACollectionName); err != nil {
		db.log.Error("could not create collection", "collectionName", config.QACollectionName, "error", err)
		return err
	}
	for _, p := range partitions {
		name := ChunkCollection(p)
		if err := createCollection(ctx, db.QObj, name); err != nil {
			db.log.Error("could not create collection", "collectionName", name, "error", err)
			return err
		}
	}
	return nil
}

func (db *ClientHolder) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	db.log.Info("Shutting down Qdrant")
	if err := db.QObj.Close(); err != nil {
		db.log.Error("could not close Qdrant", "error", err)
	}
}

func ChunkCollection(p commonModels.Partition) string {
	return config.ChunkCollectionPrefix + string(p)
}

func (db *ClientHolder) SearchQA(ctx context.Context, vector []float32, requester commonModels.Audience, topK int, minSimilarity float64) ([]answerModel.QAMatch, error) {
	tags := requester.QATags()
	if len(tags) == 0 {
		return nil, fmt.Errorf("qdrant: %q cannot query the Q&A tier", requester)
	}
	keywords := make([]string, len(tags))
	for i, t := range tags {
		keywords[i] = string(t)
	}

	hits, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: config.QACollectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         &qdrant.Filter{Must: []*qdrant.Condition{qdrant.NewMatchKeywords("audience", keywords...)}},
		ScoreThreshold: qdrant.PtrOf(float32(minSimilarity)),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger_i.FromContext(ctx, "Qdrant").Error("Error querying Q&A collection", "error", err)
		return nil, err
	}

	matches := make([]answerModel.QAMatch, 0, len(hits))
	for _, hit := range hits {
		m := toQAMatch(hit.Payload, float64(hit.Score))
		// the filter already did this, but never trust a payload for isolation
		if !m.Audience.VisibleTo(requester) {
			continue
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (db *ClientHolder) SearchChunks(ctx context.Context, vector []float32, partition commonModels.Partition, topK int, minSimilarity float64) ([]answerModel.RetrievalResult, error) {
	if !partition.IsValid() {
		return nil, fmt.Errorf("qdrant: invalid partition %q", partition)
	}
	hits, err := db.QObj.Query(ctx, &qdrant.QueryPoints{
		CollectionName: ChunkCollection(partition),
		Query:          qdrant.NewQuery(vector...),
		ScoreThreshold: qdrant.PtrOf(float32(minSimilarity)),
		Limit:          qdrant.PtrOf(uint64(topK)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		logger_i.FromContext(ctx, "Qdrant").Error("Error querying chunk collection", "partition", partition, "error", err)
		return nil, err
	}

	results := make([]answerModel.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, toResult(hit.Payload, float64(hit.Score), partition))
	}
	return results, nil
}

func (db *ClientHolder) UpsertQA(ctx context.Context, pair commonModels.QAPair, vector []float32) error {
	_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: config.QACollectionName,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewID(pair.Id),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(qaPayload(pair)),
		}},
		Wait: qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) UpdateQAPayload(ctx context.Context, pair commonModels.QAPair) error {
	_, err := db.QObj.SetPayload(ctx, &qdrant.SetPayloadPoints{
		CollectionName: config.QACollectionName,
		Payload:        qdrant.NewValueMap(qaPayload(pair)),
		PointsSelector: qdrant.NewPointsSelector(qdrant.NewID(pair.Id)),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant set payload failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) DeleteQA(ctx context.Context, id string) error {
	_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: config.QACollectionName,
		Points:         qdrant.NewPointsSelector(qdrant.NewID(id)),
		Wait:           qdrant.PtrOf(true),
	})
	return err
}

func (db *ClientHolder) UpsertChunks(ctx context.Context, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	byPartition := make(map[commonModels.Partition][]*qdrant.PointStruct)
	for i, chunk := range chunks {
		if !chunk.Partition.IsValid() {
			return fmt.Errorf("chunk %s: invalid partition %q", chunk.ChunkId, chunk.Partition)
		}
		byPartition[chunk.Partition] = append(byPartition[chunk.Partition], &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(chunkPayload(chunk)),
		})
	}

	for p, points := range byPartition {
		_, err := db.QObj.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: ChunkCollection(p),
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		if err != nil {
			return fmt.Errorf("qdrant upsert failed: %w", err)
		}
	}
	return nil
}

func (db *ClientHolder) DeleteDocumentChunks(ctx context.Context, documentId string) error {
	var errs []error
	for _, p := range partitions {
		_, err := db.QObj.Delete(ctx, &qdrant.DeletePoints{
			CollectionName: ChunkCollection(p),
			Points: qdrant.NewPointsSelectorFilter(&qdrant.Filter{
				Must: []*qdrant.Condition{qdrant.NewMatchKeyword("document_id", documentId)},
			}),
			Wait: qdrant.PtrOf(true),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", p, err))
		}
	}
	return errors.Join(errs...)
}

func createCollection(ctx context.Context, client *qdrant.Client, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := client.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}
