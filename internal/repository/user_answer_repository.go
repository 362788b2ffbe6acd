package repository

import (
	"github.com/minhngoc/olympia/internal/model"
	"gorm.io/gorm"
)

type UserAnswerRepository interface {
	Create(answer *model.UserAnswer) error
	FindByUserID(userID uint) ([]model.UserAnswer, error)
}

type userAnswerRepository struct {
	db *gorm.DB
}

func NewUserAnswerRepository(db *gorm.DB) UserAnswerRepository {
	return &userAnswerRepository{db: db}
}

func (r *userAnswerRepository) Create(answer *model.UserAnswer) error {
	return r.db.Create(answer).Error
}

func (r *userAnswerRepository) FindByUserID(userID uint) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	if err := r.db.Where("user_id = ?", userID).Order("created_at desc").Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}
