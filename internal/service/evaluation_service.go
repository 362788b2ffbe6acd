package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/minhngoc/olympia/internal/dto"
	"github.com/minhngoc/olympia/internal/llm"
	"github.com/minhngoc/olympia/internal/model"
	"github.com/minhngoc/olympia/internal/repository"
	"github.com/rs/zerolog/log"
)

const gradingSystemPrompt = "You are an assistant that grades student answers. " +
	"Grade flexibly and accept answers that are close to correct. " +
	"Return JSON with 'score' (0-100) and 'feedback'."

type EvaluationService interface {
	EvaluateAnswer(ctx context.Context, req dto.EvaluateRequest) (*dto.EvaluationResponse, error)
}

type evaluationService struct {
	questionRepo   repository.QuestionRepository
	userAnswerRepo repository.UserAnswerRepository
	llm            llm.Client
}

func NewEvaluationService(
	questionRepo repository.QuestionRepository,
	userAnswerRepo repository.UserAnswerRepository,
	client llm.Client,
) EvaluationService {
	return &evaluationService{
		questionRepo:   questionRepo,
		userAnswerRepo: userAnswerRepo,
		llm:            client,
	}
}

type evaluationResult struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// EvaluateAnswer grades a free-text answer against the stored canonical
// answer. When a user id is supplied, the grading result is persisted as a
// UserAnswer row; the evaluation is returned to the caller either way.
func (s *evaluationService) EvaluateAnswer(ctx context.Context, req dto.EvaluateRequest) (*dto.EvaluationResponse, error) {
	question, err := s.questionRepo.FindByID(req.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("question not found with ID %d: %w", req.QuestionID, err)
	}

	prompt := fmt.Sprintf(
		"Question: %s\nCorrect answer: %s\nStudent's answer: %s\nGrade the answer, give a score, and provide feedback.",
		question.Question, question.Answer, req.Answer,
	)

	raw, err := s.llm.GenerateJSON(ctx, gradingSystemPrompt, prompt)
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Evaluation request failed")
		return nil, fmt.Errorf("evaluation request failed: %w", err)
	}

	var result evaluationResult
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &result); err != nil {
		log.Warn().Err(err).Str("raw", raw).Msg("Could not parse evaluation response")
		return nil, fmt.Errorf("could not parse evaluation response: %w", err)
	}

	if result.Score > 100 {
		result.Score = 100
	}
	if result.Score < 0 {
		result.Score = 0
	}

	if req.UserID != nil {
		score := result.Score
		feedback := result.Feedback
		userAnswer := model.UserAnswer{
			UserID:     *req.UserID,
			QuestionID: question.ID,
			Answer:     req.Answer,
			Score:      &score,
			Feedback:   &feedback,
		}
		if err := s.userAnswerRepo.Create(&userAnswer); err != nil {
			log.Error().Err(err).Uint("userID", *req.UserID).Uint("questionID", question.ID).
				Msg("Failed to persist user answer, returning evaluation anyway")
		}
	}

	return &dto.EvaluationResponse{Score: result.Score, Feedback: result.Feedback}, nil
}
