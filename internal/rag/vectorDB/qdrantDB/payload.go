package qdrantDB

import (
	"github.com/akolanti/AcademyAssistant/internal/domain/answerModel"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/qdrant/go-client/qdrant"
)

func qaPayload(pair commonModels.QAPair) map[string]any {
	return map[string]any{
		"qa_id":    pair.Id,
		"question": pair.Question,
		"answer":   pair.Answer,
		"audience": string(pair.Audience),
		"category": pair.Category,
	}
}

func chunkPayload(chunk commonModels.DocChunk) map[string]any {
	p := map[string]any{
		"chunk_id":    chunk.ChunkId,
		"document_id": chunk.DocumentId,
		"partition":   string(chunk.Partition),
		"chunk_index": int64(chunk.ChunkIndex),
		"content":     chunk.Content,
	}
	if chunk.PageNumber != nil {
		p["page_number"] = int64(*chunk.PageNumber)
	}
	if chunk.AudioTimestamp != nil {
		p["audio_timestamp"] = *chunk.AudioTimestamp
	}
	return p
}

func toQAMatch(payload map[string]*qdrant.Value, score float64) answerModel.QAMatch {
	return answerModel.QAMatch{
		Id:         payload["qa_id"].GetStringValue(),
		Question:   payload["question"].GetStringValue(),
		Answer:     payload["answer"].GetStringValue(),
		Category:   payload["category"].GetStringValue(),
		Audience:   commonModels.Audience(payload["audience"].GetStringValue()),
		Similarity: score,
	}
}

// toResult takes the partition from the collection that was searched, not the payload.
func toResult(payload map[string]*qdrant.Value, score float64, searched commonModels.Partition) answerModel.RetrievalResult {
	r := answerModel.RetrievalResult{
		SourceId:   payload["chunk_id"].GetStringValue(),
		DocumentId: payload["document_id"].GetStringValue(),
		Content:    payload["content"].GetStringValue(),
		Partition:  searched,
		Similarity: score,
		Origin:     answerModel.OriginDocument,
	}
	if stored := commonModels.Partition(payload["partition"].GetStringValue()); stored != "" && stored != searched {
		r.Partition = stored
	}
	if v, ok := payload["page_number"]; ok {
		page := int(v.GetIntegerValue())
		r.PageNumber = &page
	}
	return r
}
