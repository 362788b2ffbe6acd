package dto

// CreateQuestionRequest inserts a fully-formed question verbatim. Unlike the
// CSV seeding job, no duplicate check is performed here.
type CreateQuestionRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// EvaluateRequest asks the AI to grade a free-text answer against the stored
// canonical answer. UserID is optional; when present the grading result is
// persisted as a UserAnswer row.
type EvaluateRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer" binding:"required"`
	UserID     *uint  `json:"user_id"`
}

type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}
