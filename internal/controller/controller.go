package controller

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/minhngoc/olympia/internal/dto"
	"github.com/minhngoc/olympia/internal/service"
	"github.com/rs/zerolog/log"
)

type Controller struct {
	questionSvc      service.QuestionService
	evaluationSvc    service.EvaluationService
	transcriptionSvc service.TranscriptionService
	userSvc          service.UserService
}

func NewController(
	qSvc service.QuestionService,
	eSvc service.EvaluationService,
	tSvc service.TranscriptionService,
	uSvc service.UserService,
) *Controller {
	return &Controller{
		questionSvc:      qSvc,
		evaluationSvc:    eSvc,
		transcriptionSvc: tSvc,
		userSvc:          uSvc,
	}
}

func (ctrl *Controller) RegisterRoutes(router *gin.Engine) {
	router.GET("/", ctrl.RootHandler)

	router.GET("/questions", ctrl.GetAllQuestionsHandler)
	router.GET("/questions/:id", ctrl.GetQuestionHandler)
	router.GET("/random-question", ctrl.GetRandomQuestionHandler)
	router.POST("/questions", ctrl.CreateQuestionHandler)

	router.POST("/evaluate", ctrl.EvaluateHandler)
	router.POST("/transcribe", ctrl.TranscribeHandler)

	router.POST("/users", ctrl.RegisterUserHandler)
}

// RootHandler godoc
// @Summary Liveness check
// @Description Returns a welcome message
// @Tags health
// @Produce json
// @Success 200 {object} dto.MessageResponse
// @Router / [get]
func (ctrl *Controller) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Welcome to the Quiz API"})
}

// GetAllQuestionsHandler godoc
// @Summary List all questions
// @Description Get every stored question. No pagination.
// @Tags questions
// @Produce json
// @Success 200 {array} dto.QuestionResponse
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions [get]
func (ctrl *Controller) GetAllQuestionsHandler(c *gin.Context) {
	questions, err := ctrl.questionSvc.GetAllQuestions()
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch questions")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve questions: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, questions)
}

// GetQuestionHandler godoc
// @Summary Get a question by ID
// @Tags questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/{id} [get]
func (ctrl *Controller) GetQuestionHandler(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid question ID format"})
		return
	}

	question, err := ctrl.questionSvc.GetQuestion(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Question not found"})
			return
		}
		log.Error().Err(err).Uint64("id", id).Msg("Failed to fetch question")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve question: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, question)
}

// GetRandomQuestionHandler godoc
// @Summary Get a random question
// @Description Selects one question uniformly at random
// @Tags questions
// @Produce json
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "No questions available"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /random-question [get]
func (ctrl *Controller) GetRandomQuestionHandler(c *gin.Context) {
	question, err := ctrl.questionSvc.GetRandomQuestion()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "No questions available"})
			return
		}
		log.Error().Err(err).Msg("Failed to fetch random question")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to retrieve random question: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, question)
}

// CreateQuestionHandler godoc
// @Summary Create a question
// @Description Insert a question/answer pair verbatim, without any duplicate check
// @Tags questions
// @Accept json
// @Produce json
// @Param question body dto.CreateQuestionRequest true "Question data"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions [post]
func (ctrl *Controller) CreateQuestionHandler(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CreateQuestionRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	question, err := ctrl.questionSvc.CreateQuestion(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create question")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create question: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, question)
}

// EvaluateHandler godoc
// @Summary Evaluate a free-text answer
// @Description Grades the submitted answer against the stored canonical answer using the AI model. When user_id is provided the result is recorded.
// @Tags evaluation
// @Accept json
// @Produce json
// @Param evaluation body dto.EvaluateRequest true "Question ID, answer and optional user ID"
// @Success 200 {object} dto.EvaluationResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Evaluation failed"
// @Router /evaluate [post]
func (ctrl *Controller) EvaluateHandler(c *gin.Context) {
	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind EvaluateRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	evaluation, err := ctrl.evaluationSvc.EvaluateAnswer(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Question not found"})
			return
		}
		log.Error().Err(err).Uint("questionID", req.QuestionID).Msg("Evaluation failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, evaluation)
}

// TranscribeHandler godoc
// @Summary Transcribe an audio recording
// @Description Accepts a multipart audio upload and returns the transcribed text
// @Tags transcription
// @Accept multipart/form-data
// @Produce json
// @Param audio_file formData file true "Audio file"
// @Success 200 {object} dto.TranscriptionResponse
// @Failure 400 {object} dto.ErrorResponse "Missing or unreadable audio file"
// @Failure 500 {object} dto.ErrorResponse "Transcription failed"
// @Router /transcribe [post]
func (ctrl *Controller) TranscribeHandler(c *gin.Context) {
	fileHeader, err := c.FormFile("audio_file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "audio_file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to open uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Failed to read uploaded file: " + err.Error()})
		return
	}

	transcription, err := ctrl.transcriptionSvc.Transcribe(c.Request.Context(), fileHeader.Header.Get("Content-Type"), audio)
	if err != nil {
		log.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Transcription failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.TranscriptionResponse{Transcription: transcription})
}

// RegisterUserHandler godoc
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.RegisterUserRequest true "Username, email and password"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or duplicate username/email"
// @Router /users [post]
func (ctrl *Controller) RegisterUserHandler(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind RegisterUserRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	user, err := ctrl.userSvc.Register(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, user)
}
