package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nomzodai/nomzod-api/internal/domain/question"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/service"
)

// respondServiceError maps domain and service sentinels to API errors.
// Anything unrecognised is logged and returned as 500.
func respondServiceError(ctx *gin.Context, log *slog.Logger, err error) {
	var (
		maxBytes *http.MaxBytesError
		blank    *service.BlankFieldError
	)

	switch {
	case errors.Is(err, user.ErrNotFound):
		RespondNotFound(ctx, "User not found")
	case errors.Is(err, user.ErrEmailTaken):
		RespondConflict(ctx, "email_taken", "User with this email already exists")
	case errors.Is(err, question.ErrQuestionNotFound):
		RespondNotFound(ctx, "Question not found")
	case errors.Is(err, question.ErrQuestionsNotFound):
		RespondNotFound(ctx, "Questions not found")
	case errors.Is(err, question.ErrTypeNotFound):
		RespondNotFound(ctx, "Question type not found")
	case errors.Is(err, question.ErrTypesNotFound):
		RespondNotFound(ctx, "Question types not found")
	case errors.Is(err, question.ErrTypeNameTaken):
		RespondConflict(ctx, "type_name_taken", "Question type already exists (must be unique)")
	case errors.Is(err, service.ErrForbidden):
		RespondForbidden(ctx, "forbidden", "Not authorized")
	case errors.Is(err, service.ErrUnsupportedMedia):
		RespondError(ctx, http.StatusUnsupportedMediaType, "unsupported_media_type", "File must be an image", nil)
	case errors.As(err, &blank):
		RespondBadRequest(ctx, "Invalid request body", gin.H{"fields": []FieldError{{
			Field:   blank.Field,
			Rule:    "notblank",
			Message: validationMessage("notblank", ""),
		}}})
	case errors.As(err, &maxBytes):
		RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large",
			"File exceeds "+strconv.FormatInt(maxBytes.Limit, 10)+" bytes", nil)
	default:
		log.ErrorContext(ctx.Request.Context(), "request failed",
			"route", ctx.FullPath(), "request_id", requestIDFrom(ctx), "err", err)
		RespondInternal(ctx, "Something went wrong")
	}
}

// pathID parses the :id path parameter, answering 400 on garbage.
func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		RespondBadRequest(ctx, "Invalid id", gin.H{"id": ctx.Param("id")})
		return 0, false
	}
	return id, true
}
