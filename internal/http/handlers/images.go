package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/http/middlewares"
)

type ImageUploader interface {
	Upload(ctx context.Context, userID int64, r io.Reader) (user.Image, error)
}

type ImagesHandler struct {
	images ImageUploader
	log    *slog.Logger
}

func NewImagesHandler(images ImageUploader, log *slog.Logger) *ImagesHandler {
	if log == nil {
		log = slog.Default()
	}
	return &ImagesHandler{images: images, log: log}
}

// Upload stores the multipart "file" field as the caller's image.
func (h *ImagesHandler) Upload(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Unauthorized")
		return
	}

	fh, err := ctx.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			respondServiceError(ctx, h.log, err)
			return
		}
		RespondBadRequest(ctx, "Missing file", gin.H{"fields": []FieldError{{Field: "file", Rule: "required", Message: "is required"}}})
		return
	}

	f, err := fh.Open()
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}
	defer func() { _ = f.Close() }()

	img, err := h.images.Upload(ctx.Request.Context(), u.ID, f)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, img)
}
