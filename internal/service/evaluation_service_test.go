package service

import (
	"context"
	"errors"
	"testing"

	"github.com/minhngoc/olympia/internal/dto"
	"github.com/minhngoc/olympia/internal/model"
	"gorm.io/gorm"
)

type fakeQuestionRepo struct {
	questions map[uint]model.Question
	createErr error
}

func (f *fakeQuestionRepo) Create(question *model.Question) error {
	if f.createErr != nil {
		return f.createErr
	}
	question.ID = uint(len(f.questions) + 1)
	f.questions[question.ID] = *question
	return nil
}

func (f *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &q, nil
}

func (f *fakeQuestionRepo) FindAll() ([]model.Question, error) {
	all := make([]model.Question, 0, len(f.questions))
	for _, q := range f.questions {
		all = append(all, q)
	}
	return all, nil
}

func (f *fakeQuestionRepo) FindRandom() (*model.Question, error) {
	for _, q := range f.questions {
		return &q, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) FindAllQuestionTexts() ([]string, error) {
	texts := make([]string, 0, len(f.questions))
	for _, q := range f.questions {
		texts = append(texts, q.Question)
	}
	return texts, nil
}

func (f *fakeQuestionRepo) CreateInBatch(questions []model.Question) error {
	for i := range questions {
		if err := f.Create(&questions[i]); err != nil {
			return err
		}
	}
	return nil
}

func newFakeQuestionRepo(questions ...model.Question) *fakeQuestionRepo {
	repo := &fakeQuestionRepo{questions: make(map[uint]model.Question)}
	for _, q := range questions {
		repo.questions[q.ID] = q
	}
	return repo
}

type fakeUserAnswerRepo struct {
	answers   []model.UserAnswer
	createErr error
}

func (f *fakeUserAnswerRepo) Create(answer *model.UserAnswer) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.answers = append(f.answers, *answer)
	return nil
}

func (f *fakeUserAnswerRepo) FindByUserID(userID uint) ([]model.UserAnswer, error) {
	var out []model.UserAnswer
	for _, a := range f.answers {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Generate(ctx context.Context, system, user string) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) GenerateJSON(ctx context.Context, system, user string) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Transcribe(ctx context.Context, mimeType string, audio []byte) (string, error) {
	return f.response, f.err
}

var storedQuestion = model.Question{ID: 1, Question: "2+2=?", Answer: "4"}

func TestEvaluateAnswerReturnsScoreAndFeedback(t *testing.T) {
	svc := NewEvaluationService(
		newFakeQuestionRepo(storedQuestion),
		&fakeUserAnswerRepo{},
		&fakeLLM{response: `{"score": 85, "feedback": "Close enough."}`},
	)

	resp, err := svc.EvaluateAnswer(context.Background(), dto.EvaluateRequest{QuestionID: 1, Answer: "four"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Score != 85 || resp.Feedback != "Close enough." {
		t.Errorf("unexpected evaluation: %+v", resp)
	}
}

func TestEvaluateAnswerClampsScore(t *testing.T) {
	cases := []struct {
		name     string
		response string
		want     float64
	}{
		{"above range", `{"score": 150, "feedback": "ok"}`, 100},
		{"below range", `{"score": -5, "feedback": "ok"}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewEvaluationService(
				newFakeQuestionRepo(storedQuestion),
				&fakeUserAnswerRepo{},
				&fakeLLM{response: tc.response},
			)
			resp, err := svc.EvaluateAnswer(context.Background(), dto.EvaluateRequest{QuestionID: 1, Answer: "x"})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Score != tc.want {
				t.Errorf("score = %v, want %v", resp.Score, tc.want)
			}
		})
	}
}

func TestEvaluateAnswerPersistsOnlyWithUserID(t *testing.T) {
	answerRepo := &fakeUserAnswerRepo{}
	svc := NewEvaluationService(
		newFakeQuestionRepo(storedQuestion),
		answerRepo,
		&fakeLLM{response: `{"score": 70, "feedback": "ok"}`},
	)

	if _, err := svc.EvaluateAnswer(context.Background(), dto.EvaluateRequest{QuestionID: 1, Answer: "anon"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answerRepo.answers) != 0 {
		t.Fatalf("anonymous evaluation must not be persisted, got %d rows", len(answerRepo.answers))
	}

	userID := uint(7)
	if _, err := svc.EvaluateAnswer(context.Background(), dto.EvaluateRequest{QuestionID: 1, Answer: "four", UserID: &userID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(answerRepo.answers) != 1 {
		t.Fatalf("expected 1 persisted answer, got %d", len(answerRepo.answers))
	}
	saved := answerRepo.answers[0]
	if saved.UserID != 7 || saved.QuestionID != 1 || saved.Answer != "four" {
		t.Errorf("unexpected persisted answer: %+v", saved)
	}
	if saved.Score == nil || *saved.Score != 70 {
		t.Errorf("expected persisted score 70, got %v", saved.Score)
	}
}

func TestEvaluateAnswerQuestionNotFound(t *testing.T) {
	svc := NewEvaluationService(newFakeQuestionRepo(), &fakeUserAnswerRepo{}, &fakeLLM{})
	_, err := svc.EvaluateAnswer(context.Background(), dto.EvaluateRequest{QuestionID: 42, Answer: "x"})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected a not-found error, got %v", err)
	}
}

func TestEvaluateAnswerRequestFailure(t *testing.T) {
	svc := NewEvaluationService(
		newFakeQuestionRepo(storedQuestion),
		&fakeUserAnswerRepo{},
		&fakeLLM{err: errors.New("quota exceeded")},
	)
	if _, err := svc.EvaluateAnswer(context.Background(), dto.EvaluateRequest{QuestionID: 1, Answer: "x"}); err == nil {
		t.Error("expected error when the grading request fails")
	}
}

func TestEvaluateAnswerMalformedResponse(t *testing.T) {
	svc := NewEvaluationService(
		newFakeQuestionRepo(storedQuestion),
		&fakeUserAnswerRepo{},
		&fakeLLM{response: "not json at all"},
	)
	if _, err := svc.EvaluateAnswer(context.Background(), dto.EvaluateRequest{QuestionID: 1, Answer: "x"}); err == nil {
		t.Error("expected error for an unparseable grading response")
	}
}

func TestEvaluateAnswerFencedResponse(t *testing.T) {
	svc := NewEvaluationService(
		newFakeQuestionRepo(storedQuestion),
		&fakeUserAnswerRepo{},
		&fakeLLM{response: "```json\n{\"score\": 90, \"feedback\": \"good\"}\n```"},
	)
	resp, err := svc.EvaluateAnswer(context.Background(), dto.EvaluateRequest{QuestionID: 1, Answer: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Score != 90 {
		t.Errorf("score = %v, want 90", resp.Score)
	}
}

func TestEvaluateAnswerPersistFailureStillReturnsResult(t *testing.T) {
	userID := uint(3)
	svc := NewEvaluationService(
		newFakeQuestionRepo(storedQuestion),
		&fakeUserAnswerRepo{createErr: errors.New("disk full")},
		&fakeLLM{response: `{"score": 60, "feedback": "ok"}`},
	)
	resp, err := svc.EvaluateAnswer(context.Background(), dto.EvaluateRequest{QuestionID: 1, Answer: "x", UserID: &userID})
	if err != nil {
		t.Fatalf("persistence failure must not fail the evaluation: %v", err)
	}
	if resp.Score != 60 {
		t.Errorf("score = %v, want 60", resp.Score)
	}
}
