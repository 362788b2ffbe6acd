package repository

import (
	"github.com/minhngoc/olympia/internal/model"
	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(question *model.Question) error
	FindByID(id uint) (*model.Question, error)
	FindAll() ([]model.Question, error)
	FindRandom() (*model.Question, error)
	FindAllQuestionTexts() ([]string, error)
	CreateInBatch(questions []model.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) Create(question *model.Question) error {
	return r.db.Create(question).Error
}

func (r *questionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	if err := r.db.First(&question, id).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAll() ([]model.Question, error) {
	var questions []model.Question
	if err := r.db.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

// FindRandom selects one row uniformly at random. Returns
// gorm.ErrRecordNotFound when the table is empty.
func (r *questionRepository) FindRandom() (*model.Question, error) {
	var question model.Question
	if err := r.db.Order("RANDOM()").First(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepository) FindAllQuestionTexts() ([]string, error) {
	var texts []string
	if err := r.db.Model(&model.Question{}).Pluck("question", &texts).Error; err != nil {
		return nil, err
	}
	return texts, nil
}

// CreateInBatch inserts all questions in a single transaction. A failure rolls
// back the whole batch.
func (r *questionRepository) CreateInBatch(questions []model.Question) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&questions).Error
	})
}
