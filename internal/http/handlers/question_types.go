package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nomzodai/nomzod-api/internal/domain/question"
)

type QuestionTypeManager interface {
	Create(ctx context.Context, req question.CreateTypeRequest) (question.Type, error)
	List(ctx context.Context) ([]question.Type, error)
	Get(ctx context.Context, id int64) (question.Type, error)
	Update(ctx context.Context, id int64, req question.UpdateTypeRequest) (question.Type, error)
	Delete(ctx context.Context, id int64) error
}

type QuestionTypesHandler struct {
	types QuestionTypeManager
	log   *slog.Logger
}

func NewQuestionTypesHandler(types QuestionTypeManager, log *slog.Logger) *QuestionTypesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &QuestionTypesHandler{types: types, log: log}
}

func (h *QuestionTypesHandler) CreateType(ctx *gin.Context) {
	var req question.CreateTypeRequest

	if !BindJSON(ctx, &req) {
		return
	}

	t, err := h.types.Create(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *QuestionTypesHandler) ListTypes(ctx *gin.Context) {
	out, err := h.types.List(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, out)
}

func (h *QuestionTypesHandler) GetType(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	t, err := h.types.Get(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, t)
}

func (h *QuestionTypesHandler) UpdateType(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	var req question.UpdateTypeRequest
	if !BindJSON(ctx, &req) {
		return
	}

	t, err := h.types.Update(ctx.Request.Context(), id, req)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, t)
}

func (h *QuestionTypesHandler) DeleteType(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := h.types.Delete(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, question.DeleteResult{Status: "success", Msg: "Question type deleted successfully"})
}
