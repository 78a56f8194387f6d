package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nomzodai/nomzod-api/internal/domain/question"
)

type QuestionManager interface {
	Create(ctx context.Context, req question.CreateQuestionRequest) (question.Question, error)
	List(ctx context.Context) ([]question.Question, error)
	ListByType(ctx context.Context, typeID int64) ([]question.Question, error)
	Get(ctx context.Context, id int64) (question.Question, error)
	Update(ctx context.Context, id int64, req question.UpdateQuestionRequest) (question.Question, error)
	Delete(ctx context.Context, id int64) error
}

type QuestionsHandler struct {
	questions QuestionManager
	log       *slog.Logger
}

func NewQuestionsHandler(questions QuestionManager, log *slog.Logger) *QuestionsHandler {
	if log == nil {
		log = slog.Default()
	}
	return &QuestionsHandler{questions: questions, log: log}
}

func (h *QuestionsHandler) CreateQuestion(ctx *gin.Context) {
	var req question.CreateQuestionRequest

	if !BindJSON(ctx, &req) {
		return
	}

	q, err := h.questions.Create(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, q)
}

func (h *QuestionsHandler) ListQuestions(ctx *gin.Context) {
	out, err := h.questions.List(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, out)
}

func (h *QuestionsHandler) ListQuestionsByType(ctx *gin.Context) {
	typeID, ok := pathID(ctx)
	if !ok {
		return
	}

	out, err := h.questions.ListByType(ctx.Request.Context(), typeID)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, out)
}

func (h *QuestionsHandler) GetQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	q, err := h.questions.Get(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, q)
}

func (h *QuestionsHandler) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req question.UpdateQuestionRequest
	if !BindJSON(ctx, &req) {
		return
	}

	q, err := h.questions.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, q)
}

func (h *QuestionsHandler) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := h.questions.Delete(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, question.DeleteResult{Status: "success", Msg: "Question deleted successfully"})
}
