package handler

import (
	"net/http"

	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/middleware"
	"github.com/EstebanRsh/UP/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Sign in with email or document
// @Description  Authenticates by email or document plus password and returns a bearer token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Credentials"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary      Describe the authenticated caller
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.MeResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	accountID, _ := uuid.Parse(claims.AccountID)
	resp, err := h.svc.Me(c.Request.Context(), accountID, claims.Subject, claims.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAccount godoc
// @Summary      Create a login account
// @Description  Manager only. At least one of email/document is required.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateAccountRequest true "Account data"
// @Success      201  {object} dto.AccountResponse
// @Failure      409  {object} apierror.APIError
// @Router       /accounts [post]
func (h *AuthHandler) CreateAccount(c *gin.Context) {
	var req dto.CreateAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListAccounts godoc
// @Summary      List accounts with cursor pagination
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.AccountCursorRequest false "Cursor"
// @Success      200  {object} dto.AccountListResponse
// @Router       /accounts/list [post]
func (h *AuthHandler) ListAccounts(c *gin.Context) {
	var req dto.AccountCursorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ListAccounts(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivateAccount godoc
// @Summary      Deactivate an account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id path string true "Account UUID"
// @Success      204
// @Router       /accounts/{id} [delete]
func (h *AuthHandler) DeactivateAccount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeactivateAccount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReactivateAccount godoc
// @Summary      Reactivate an account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id path string true "Account UUID"
// @Success      204
// @Router       /accounts/{id}/reactivate [post]
func (h *AuthHandler) ReactivateAccount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.ReactivateAccount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
