package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-todo/internal/application"
	"github.com/oksasatya/go-ddd-todo/internal/domain/apperror"
	"github.com/oksasatya/go-ddd-todo/internal/interface/middleware"
	"github.com/oksasatya/go-ddd-todo/pkg/response"
	"github.com/oksasatya/go-ddd-todo/pkg/validation"
)

type AuthHandler struct {
	Accounts *application.AccountService
	Logger   *logrus.Logger
}

func NewAuthHandler(accounts *application.AccountService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Accounts: accounts, Logger: logger}
}

// password length is enforced by the credential store so the message stays stable
type credentialsRequest struct {
	User     string `json:"user" binding:"required,handle"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type deleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

type identityResponse struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

type loginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	User   string `json:"user"`
}

func invalidPayload(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", response.ErrorBody{
		Code:    apperror.KindValidation.String(),
		Details: validation.ToDetails(err),
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	identity, err := h.Accounts.Signup(c.Request.Context(), req.User, req.Password)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, identityResponse{
		ID:        identity.ID,
		User:      identity.Handle,
		CreatedAt: identity.CreatedAt,
	}, "account created", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Accounts.Login(c.Request.Context(), req.User, req.Password)
	if err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, loginResponse{
		Token:  res.Token,
		UserID: res.Identity.ID,
		User:   res.Identity.Handle,
	}, "login successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.FromError(c, h.Logger, apperror.ErrMissingToken)
		return
	}
	response.Success(c, http.StatusOK, h.Accounts.Me(c.Request.Context(), identity), "profile", nil)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.FromError(c, h.Logger, apperror.ErrMissingToken)
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if _, err := h.Accounts.ChangePassword(c.Request.Context(), identity, req.OldPassword, req.NewPassword); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "password updated; sign in again", nil)
}

func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.FromError(c, h.Logger, apperror.ErrMissingToken)
		return
	}
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := h.Accounts.DeleteAccount(c.Request.Context(), identity, req.Password); err != nil {
		response.FromError(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "account deleted", nil)
}
