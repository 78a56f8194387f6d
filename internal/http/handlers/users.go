package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/http/middlewares"
)

type UserManager interface {
	List(ctx context.Context) ([]user.User, error)
	Get(ctx context.Context, id int64) (user.User, error)
	Update(ctx context.Context, actor user.User, id int64, req user.UpdateRequest) (user.User, error)
	Delete(ctx context.Context, id int64) error
}

type UsersHandler struct {
	users UserManager
	log   *slog.Logger
}

func NewUsersHandler(users UserManager, log *slog.Logger) *UsersHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UsersHandler{users: users, log: log}
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	out, err := h.users.List(ctx.Request.Context())
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, out)
}

func (h *UsersHandler) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	u, err := h.users.Get(ctx.Request.Context(), id)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	actor, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Unauthorized")
		return
	}

	var req user.UpdateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.users.Update(ctx.Request.Context(), actor, id, req)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, u)
}

// DeleteUser also clears the Authorization cookie a browser client may hold.
func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id, ok := pathID(ctx)
	if !ok {
		return
	}

	if err := h.users.Delete(ctx.Request.Context(), id); err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie("Authorization", "", -1, "/", "", false, true)
	ctx.JSON(http.StatusOK, gin.H{"detail": "User deleted"})
}
