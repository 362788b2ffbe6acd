package model

import (
	"time"
)

// Question is a quiz question with its canonical answer. The question text is
// the dedup key during CSV seeding: rows with identical text are skipped, not merged.
type Question struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Question  string    `json:"question" gorm:"type:text;not null"`
	Answer    string    `json:"answer" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
