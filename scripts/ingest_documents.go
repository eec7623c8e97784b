package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tenderhub/tender-analyzer/internal/config"
	"tenderhub/tender-analyzer/internal/services"
)

// Ingests a directory of procurement-guideline PDFs into the Qdrant
// collection used for analysis-prompt context retrieval.
//
// Usage: go run scripts/ingest_documents.go <guidelines-dir> [category]
func main() {
	log.Println("🚀 Starting guideline ingestion...")

	if len(os.Args) < 2 {
		log.Fatal("❌ Usage: ingest_documents <guidelines-dir> [category]")
	}
	dir := os.Args[1]
	category := "general"
	if len(os.Args) > 2 {
		category = os.Args[2]
	}

	// Load configuration
	cfg := config.Load()

	// Initialize services
	provider, err := services.NewGeminiProvider(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini provider: %v", err)
	}

	guidelineStore, err := services.NewGuidelineStore(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := guidelineStore.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Fatalf("❌ Failed to read directory %s: %v", dir, err)
	}

	ctx := context.Background()
	ingested := 0

	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		log.Printf("📄 Ingesting %s...\n", entry.Name())

		text, err := pdfParser.ExtractText(path)
		if err != nil {
			log.Printf("⚠️  Skipping %s: %v\n", entry.Name(), err)
			continue
		}

		chunks := chunker.ChunkText(services.CleanText(text), 1000, 200)
		log.Printf("✂️  %s split into %d chunks\n", entry.Name(), len(chunks))

		for i, chunk := range chunks {
			embedding, err := provider.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("⚠️  Failed to embed chunk %d of %s: %v\n", i, entry.Name(), err)
				continue
			}

			if err := guidelineStore.UpsertChunk(ctx, entry.Name(), category, chunk, embedding); err != nil {
				log.Printf("⚠️  Failed to upsert chunk %d of %s: %v\n", i, entry.Name(), err)
				continue
			}
		}

		ingested++
	}

	log.Printf("✅ Ingestion completed: %d documents\n", ingested)
}
