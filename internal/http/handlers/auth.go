package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nomzodai/nomzod-api/internal/domain/user"
	"github.com/nomzodai/nomzod-api/internal/http/middlewares"
	"github.com/nomzodai/nomzod-api/internal/service"
)

type Authenticator interface {
	Register(ctx context.Context, req user.RegisterRequest) (user.User, error)
	Login(ctx context.Context, email, password string) (service.Token, error)
}

type AuthHandler struct {
	auth Authenticator
	log  *slog.Logger
}

func NewAuthHandler(auth Authenticator, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{auth: auth, log: log}
}

// LoginRequest is the OAuth2 password form: username carries the email.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.RegisterRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, err := h.auth.Register(ctx.Request.Context(), req)
	if err != nil {
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusCreated, u)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindForm(ctx, &req) {
		return
	}

	tok, err := h.auth.Login(ctx.Request.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	case errors.Is(err, service.ErrInactiveUser):
		RespondForbidden(ctx, "inactive_user", "Inactive user")
		return
	case err != nil:
		respondServiceError(ctx, h.log, err)
		return
	}

	ctx.JSON(http.StatusOK, tok)
}

// AuthenticatedRoute greets the caller.
func (h *AuthHandler) AuthenticatedRoute(ctx *gin.Context) {
	u, ok := middlewares.UserFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Unauthorized")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":      "Hello " + u.Email + "!",
		"is_superuser": u.IsSuperuser,
	})
}
