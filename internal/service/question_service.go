package service

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/minhngoc/olympia/internal/dto"
	"github.com/minhngoc/olympia/internal/model"
	"github.com/minhngoc/olympia/internal/repository"
	"github.com/rs/zerolog/log"
)

type QuestionService interface {
	CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponse, error)
	GetQuestion(id uint) (*dto.QuestionResponse, error)
	GetAllQuestions() ([]dto.QuestionResponse, error)
	GetRandomQuestion() (*dto.QuestionResponse, error)
}

type questionService struct {
	repo repository.QuestionRepository
}

func NewQuestionService(repo repository.QuestionRepository) QuestionService {
	return &questionService{repo: repo}
}

// CreateQuestion inserts the payload verbatim. No duplicate check happens
// here; only the CSV seeding job deduplicates.
func (s *questionService) CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponse, error) {
	question := model.Question{
		Question: req.Question,
		Answer:   req.Answer,
	}
	if err := s.repo.Create(&question); err != nil {
		log.Error().Err(err).Msg("Failed to create question")
		return nil, fmt.Errorf("error creating question: %w", err)
	}
	var resp dto.QuestionResponse
	copier.Copy(&resp, &question)
	return &resp, nil
}

func (s *questionService) GetQuestion(id uint) (*dto.QuestionResponse, error) {
	question, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) GetAllQuestions() ([]dto.QuestionResponse, error) {
	questions, err := s.repo.FindAll()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch questions")
		return nil, fmt.Errorf("error fetching questions: %w", err)
	}
	resp := make([]dto.QuestionResponse, 0, len(questions))
	copier.Copy(&resp, &questions)
	return resp, nil
}

func (s *questionService) GetRandomQuestion() (*dto.QuestionResponse, error) {
	question, err := s.repo.FindRandom()
	if err != nil {
		return nil, err
	}
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp, nil
}
