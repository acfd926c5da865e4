package rag

import (
	"context"
	"sort"
	"time"

	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/metrics"
	"github.com/akolanti/AcademyAssistant/internal/rag/keywords"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"golang.org/x/sync/errgroup"
)

// embedVariations embeds every variation concurrently. A failed variation
// keeps a nil vector and is skipped by the searches.
func (s *service) embedVariations(ctx context.Context, log *logger_i.Logger, variations []string) [][]float32 {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	vectors := make([][]float32, len(variations))
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxParallelCalls)
	for i, v := range variations {
		g.Go(func() error {
			vector, err := s.embedder.GetEmbedding(ctx, v)
			if err != nil {
				log.Warn("Variation embedding failed", "variation", i, "error", err)
				metrics.CountDegraded("embedding")
				return nil
			}
			vectors[i] = vector
			return nil
		})
	}
	_ = g.Wait()
	return vectors
}

// bestQAMatch searches the Q&A tier once per variation and keeps the single
// highest similarity. Ties go to the earlier variation.
func (s *service) bestQAMatch(ctx context.Context, log *logger_i.Logger, vectors [][]float32, requester commonModels.Audience) (answerModel.QAMatch, bool) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("qa_search", time.Since(start)) }()

	perVariation := make([][]answerModel.QAMatch, len(vectors))
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxParallelCalls)
	for i, vector := range vectors {
		if vector == nil {
			continue
		}
		g.Go(func() error {
			matches, err := s.store.SearchQA(ctx, vector, requester, 1, s.cfg.QASearchFloor)
			if err != nil {
				log.Warn("Q&A search failed", "variation", i, "error", err)
				metrics.CountDegraded("qa_search")
				return nil
			}
			perVariation[i] = matches
			return nil
		})
	}
	_ = g.Wait()

	var best answerModel.QAMatch
	found := false
	for _, matches := range perVariation {
		for _, m := range matches {
			if !m.Audience.VisibleTo(requester) || m.Similarity < s.cfg.QASearchFloor {
				continue
			}
			if !found || m.Similarity > best.Similarity {
				best = m
				found = true
			}
		}
	}
	return best, found
}

// searchDocuments runs the own-partition and shared lookups for every
// variation and pools the hits in variation order.
func (s *service) searchDocuments(ctx context.Context, log *logger_i.Logger, vectors [][]float32, requester commonModels.Audience) []answerModel.RetrievalResult {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("doc_search", time.Since(start)) }()

	lookups := []struct {
		partition commonModels.Partition
		topK      int
	}{
		{requester.OwnPartition(), s.cfg.AudienceTopK},
		{commonModels.PartitionShared, s.cfg.SharedTopK},
	}

	perLookup := make([][]answerModel.RetrievalResult, len(vectors)*len(lookups))
	var g errgroup.Group
	g.SetLimit(s.cfg.MaxParallelCalls)
	for i, vector := range vectors {
		if vector == nil {
			continue
		}
		for j, l := range lookups {
			if l.topK < 1 {
				continue
			}
			g.Go(func() error {
				hits, err := s.store.SearchChunks(ctx, vector, l.partition, l.topK, s.cfg.DocSearchFloor)
				if err != nil {
					log.Warn("Document search failed", "variation", i, "partition", l.partition, "error", err)
					metrics.CountDegraded("doc_search")
					return nil
				}
				perLookup[i*len(lookups)+j] = hits
				return nil
			})
		}
	}
	_ = g.Wait()

	allowed := map[commonModels.Partition]bool{requester.OwnPartition(): true, commonModels.PartitionShared: true}
	var pool []answerModel.RetrievalResult
	for _, hits := range perLookup {
		for _, h := range hits {
			if allowed[h.Partition] {
				pool = append(pool, h)
			}
		}
	}
	return pool
}

// rankPassages dedupes by source id keeping the highest similarity, scores
// keyword overlap against the original question and keeps the best boosted hits.
func (s *service) rankPassages(question string, pool []answerModel.RetrievalResult) []answerModel.RetrievalResult {
	index := make(map[string]int, len(pool))
	var unique []answerModel.RetrievalResult
	for _, r := range pool {
		if i, seen := index[r.SourceId]; seen {
			if r.Similarity > unique[i].Similarity {
				unique[i] = r
			}
			continue
		}
		index[r.SourceId] = len(unique)
		unique = append(unique, r)
	}

	for i := range unique {
		unique[i].Origin = answerModel.OriginDocument
		unique[i].KeywordScore = keywords.Overlap(question, unique[i].Content)
		unique[i].BoostedSimilarity = keywords.Boost(unique[i].Similarity, unique[i].KeywordScore, s.cfg.KeywordBoost)
	}
	sort.SliceStable(unique, func(a, b int) bool {
		return unique[a].BoostedSimilarity > unique[b].BoostedSimilarity
	})

	if len(unique) > s.cfg.MaxContextChunks {
		unique = unique[:s.cfg.MaxContextChunks]
	}
	return unique
}

func instantAnswer(ans answerModel.Answer, best answerModel.QAMatch) answerModel.Answer {
	ans.Route = answerModel.RouteInstant
	ans.Text = best.Answer
	ans.Confidence = best.Similarity
	ans.Sources = []answerModel.Source{{
		Type:       answerModel.OriginQAPair,
		Question:   best.Question,
		Category:   best.Category,
		Similarity: best.Similarity,
	}}
	return ans
}

func documentSources(ranked []answerModel.RetrievalResult) []answerModel.Source {
	sources := make([]answerModel.Source, 0, len(ranked))
	for _, r := range ranked {
		sources = append(sources, answerModel.Source{
			Type:       answerModel.OriginDocument,
			ChunkId:    r.SourceId,
			DocumentId: r.DocumentId,
			Content:    r.Content,
			Similarity: r.BoostedSimilarity,
			PageNumber: r.PageNumber,
		})
	}
	return sources
}

// finish stamps timing, records the route and, for answers that were not
// streamed by a provider, hands the whole text to onToken once.
func (s *service) finish(log *logger_i.Logger, ans answerModel.Answer, onToken func(string) error, start time.Time) answerModel.Answer {
	if onToken != nil {
		if err := onToken(ans.Text); err != nil {
			log.Warn("Delivering answer text failed", "error", err)
		}
	}
	ans.CreatedAt = time.Now().UTC()
	ans.ResponseTimeMs = time.Since(start).Milliseconds()

	metrics.CountRoute(string(ans.Route))
	metrics.CaptureJobMetrics(string(ans.Route), time.Since(start))
	log.Info("Answer ready", "stage", answerModel.StageDone, "route", ans.Route, "confidence", ans.Confidence, "elapsedMs", ans.ResponseTimeMs)
	return ans
}
