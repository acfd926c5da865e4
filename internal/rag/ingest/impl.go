package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/akolanti/AcademyAssistant/internal/adapter/utils"
	"github.com/akolanti/AcademyAssistant/internal/config"
	"github.com/akolanti/AcademyAssistant/internal/domain/commonModels"
	"github.com/akolanti/AcademyAssistant/internal/rag/embedding"
	"github.com/akolanti/AcademyAssistant/internal/rag/vectorDB"
	"github.com/akolanti/AcademyAssistant/pkg/logger_i"
	"golang.org/x/time/rate"
)

//splitter

func splitTextIntoChunks(text string, limit int, overlap int) []string {
	var chunks []string

	if len(text) <= limit {
		return []string{text}
	}

	// Separators ordered from "best" to "worst" for semantic meaning
	separators := []string{"\n\n", "\n", ". ", " "}

	splitChar := ""
	for _, s := range separators {
		if strings.Contains(text, s) {
			splitChar = s
			break
		}
	}

	var parts []string
	if splitChar == "" {
		parts = hardSplit(text, limit)
	} else {
		parts = strings.Split(text, splitChar)
	}

	var currentChunk strings.Builder
	for _, part := range parts {
		if currentChunk.Len()+len(part)+len(splitChar) > limit {
			if currentChunk.Len() > 0 {
				chunks = append(chunks, currentChunk.String())
			}

			// start the next chunk with the tail of the previous one
			overlapContent := tail(currentChunk.String(), overlap)
			currentChunk.Reset()
			currentChunk.WriteString(overlapContent)
		}

		if currentChunk.Len() > 0 && splitChar != "" {
			currentChunk.WriteString(splitChar)
		}
		currentChunk.WriteString(part)
	}

	if currentChunk.Len() > 0 {
		chunks = append(chunks, currentChunk.String())
	}
	return chunks
}

// tail returns at most n trailing bytes of s without cutting a rune.
func tail(s string, n int) string {
	if len(s) <= n {
		return ""
	}
	start := len(s) - n
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

func hardSplit(text string, limit int) []string {
	var parts []string
	for len(text) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		parts = append(parts, text[:cut])
		text = text[cut:]
	}
	return append(parts, text)
}

func FileFormatOf(path string) commonModels.FileFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return commonModels.FormatPDF
	case ".docx", ".odt":
		return commonModels.FormatDOCX
	case ".txt", ".rtf":
		return commonModels.FormatTXT
	default:
		return commonModels.FormatERR
	}
}

var docTypeKeywords = []struct {
	docType  commonModels.DocType
	keywords []string
}{
	{commonModels.DocHandbook, []string{"handbook", "guide", "manual"}},
	{commonModels.DocNewsletter, []string{"newsletter", "bulletin", "update"}},
	{commonModels.DocMinutes, []string{"minutes", "meeting"}},
	{commonModels.DocSchedule, []string{"schedule", "calendar", "timetable", "fixtures"}},
	{commonModels.DocPolicy, []string{"policy", "policies", "code-of-conduct", "conduct", "waiver"}},
	{commonModels.DocTranscript, []string{"transcript", "recording", "call"}},
}

// InferDocType guesses the document kind from keywords in its filename.
func InferDocType(filename string) commonModels.DocType {
	name := strings.ToLower(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	name = strings.NewReplacer("_", "-", " ", "-").Replace(name)
	for _, dk := range docTypeKeywords {
		for _, k := range dk.keywords {
			if strings.Contains(name, k) {
				return dk.docType
			}
		}
	}
	return commonModels.DocGeneric
}

// IdempotencyKey identifies an upload by partition, name, size and modification time.
func IdempotencyKey(partition commonModels.Partition, filename string, size int64, modTime time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%d|%d", partition, filename, size, modTime.UTC().Unix())))
	return hex.EncodeToString(sum[:])
}

var transcriptStamp = regexp.MustCompile(`(?m)^\s*\[?(\d{1,2}:\d{2}(?::\d{2})?)\]?`)

func PrepareChunks(pages []rawPage, doc commonModels.Document) []commonModels.DocChunk {
	var allChunks []commonModels.DocChunk

	for _, page := range pages {
		for _, text := range splitTextIntoChunks(page.Content, config.MaxChunkSize, config.ChunkOverlap) {
			text = strings.TrimSpace(text)
			if text == "" {
				continue
			}
			chunk := commonModels.DocChunk{
				ChunkId:    utils.GetNewUUID(),
				DocumentId: doc.Id,
				Partition:  doc.Partition,
				ChunkIndex: len(allChunks),
				Content:    text,
			}
			if page.Number > 0 {
				n := page.Number
				chunk.PageNumber = &n
			}
			if doc.DocType == commonModels.DocTranscript {
				if m := transcriptStamp.FindStringSubmatch(text); m != nil {
					stamp := m[1]
					chunk.AudioTimestamp = &stamp
				}
			}
			allChunks = append(allChunks, chunk)
		}
	}
	return allChunks
}

// embedPacer is shared by every ingestion worker.
var embedPacer = rate.NewLimiter(rate.Limit(config.EmbedCallsPerSecond), 1)

// BatchIngest embeds and upserts chunks group by group. When any group fails the
// chunks already stored for the document are removed so a retry starts clean.
func BatchIngest(ctx context.Context, chunks []commonModels.DocChunk, store vectorDB.Store, embedder embedding.Embedder) error {
	log := logger_i.FromContext(ctx, "batch_ingestion")

	for i := 0; i < len(chunks); i += config.UpsertBatch {
		end := min(i+config.UpsertBatch, len(chunks))
		currentBatch := chunks[i:end]

		texts := make([]string, len(currentBatch))
		for j, c := range currentBatch {
			texts[j] = c.Content
		}

		log.Debug("Starting embedding call", "batch", len(currentBatch), "offset", i)
		vectors, err := embedding.InBatches(ctx, embedder, texts, config.EmbedBatch, embedPacer)
		if err != nil {
			if i > 0 {
				discardPartial(ctx, chunks[0].DocumentId, store, log)
			}
			return fmt.Errorf("embedding batch failed: %w", err)
		}

		if err := store.UpsertChunks(ctx, currentBatch, vectors); err != nil {
			discardPartial(ctx, chunks[0].DocumentId, store, log)
			return fmt.Errorf("upserting chunks failed: %w", err)
		}
	}
	return nil
}

func discardPartial(ctx context.Context, documentId string, store vectorDB.Store, log *logger_i.Logger) {
	if err := store.DeleteDocumentChunks(context.WithoutCancel(ctx), documentId); err != nil {
		log.Error("Could not remove partially ingested chunks", "documentId", documentId, "error", err)
	}
}

func extractText(path string, format commonModels.FileFormat, log *logger_i.Logger) ([]rawPage, error) {
	switch format {
	case commonModels.FormatPDF:
		return extractPDF(path, log)
	case commonModels.FormatDOCX, commonModels.FormatTXT:
		return extractdocxTxtRtf(path, log)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}
}
