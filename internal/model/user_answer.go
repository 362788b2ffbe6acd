package model

import (
	"time"
)

// UserAnswer records one graded evaluation of a user's free-text answer.
// Rows are written once by the evaluate flow and never updated or deleted.
type UserAnswer struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	User       User      `json:"-" gorm:"foreignKey:UserID"`
	QuestionID uint      `json:"question_id" gorm:"not null;index"`
	Question   Question  `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Answer     string    `json:"answer" gorm:"type:text;not null"`
	Score      *float64  `json:"score,omitempty"`
	Feedback   *string   `json:"feedback,omitempty" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
}
