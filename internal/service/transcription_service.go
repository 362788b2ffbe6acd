package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/minhngoc/olympia/internal/llm"
	"github.com/rs/zerolog/log"
)

type TranscriptionService interface {
	Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error)
}

type transcriptionService struct {
	llm llm.Client
}

func NewTranscriptionService(client llm.Client) TranscriptionService {
	return &transcriptionService{llm: client}
}

func (s *transcriptionService) Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("audio payload is empty")
	}
	if mimeType == "" {
		mimeType = "audio/wav"
	}

	text, err := s.llm.Transcribe(ctx, mimeType, audio)
	if err != nil {
		log.Error().Err(err).Str("mimeType", mimeType).Msg("Transcription failed")
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
