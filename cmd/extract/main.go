package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/minhngoc/olympia/config"
	"github.com/minhngoc/olympia/internal/llm"
	"github.com/minhngoc/olympia/internal/logger"
	"github.com/minhngoc/olympia/internal/pipeline"
	"github.com/rs/zerolog/log"
)

// extract mines question/answer pairs out of a PDF or Markdown document:
// split the text into chunks, send each chunk to the language model, and
// append the parsed pairs to a CSV file chunk by chunk.
func main() {
	logger.Init()

	input := flag.String("input", "", "path to the source PDF or Markdown file")
	output := flag.String("output", "output/qa_pairs.csv", "path of the CSV file to write")
	flag.Parse()

	if *input == "" {
		log.Fatal().Msg("-input is required")
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	client, err := llm.NewGeminiClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM client")
	}

	log.Info().Str("input", *input).Msg("Start extracting text from document")
	text, err := loadDocument(*input)
	if err != nil {
		log.Fatal().Err(err).Str("input", *input).Msg("Failed to extract document text")
	}
	log.Info().Int("length", len(text)).Msg("Done extracting text from document")

	chunks := pipeline.SplitText(text, cfg.Pipeline.ChunkSize, cfg.Pipeline.ChunkOverlap)
	log.Info().Int("chunks", len(chunks)).Msg("Split text into chunks")

	extractor := pipeline.NewExtractor(client)
	writer := pipeline.NewCSVWriter(*output)

	ctx := context.Background()
	total := 0
	for i, chunk := range chunks {
		log.Info().Int("chunk", i+1).Int("total", len(chunks)).Msg("Processing chunk")

		pairs, err := extractor.ExtractChunk(ctx, chunk)
		if err != nil {
			log.Error().Err(err).Int("chunk", i+1).Msg("Failed to extract Q&A pairs from chunk")
			continue
		}
		if err := writer.Append(pairs, i == 0); err != nil {
			log.Error().Err(err).Int("chunk", i+1).Msg("Failed to write Q&A pairs")
			continue
		}

		total += len(pairs)
		log.Info().Int("pairs", len(pairs)).Int("chunk", i+1).Msg("Extracted Q&A pairs from chunk")
	}

	log.Info().Int("total_pairs", total).Str("output", *output).Msg("Extraction finished")
}

func loadDocument(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(data), nil
	default:
		res, err := docconv.ConvertPath(path)
		if err != nil {
			return "", fmt.Errorf("converting %s: %w", path, err)
		}
		return res.Body, nil
	}
}
