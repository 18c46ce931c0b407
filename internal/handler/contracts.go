package handler

import (
	"context"
	"net/http"

	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/middleware"
	"github.com/EstebanRsh/UP/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ContractsHandler struct{ svc service.ContractService }

func NewContractsHandler(svc service.ContractService) *ContractsHandler {
	return &ContractsHandler{svc: svc}
}

// Create godoc
// @Summary      Create a contract in draft
// @Description  The plan must be active; draft is the only entry state.
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateContractRequest true "Contract data"
// @Success      201  {object} dto.ContractResponse
// @Failure      422  {object} apierror.APIError
// @Router       /contracts [post]
func (h *ContractsHandler) Create(c *gin.Context) {
	var req dto.CreateContractRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary      Fetch one contract
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contract UUID"
// @Success      200 {object} dto.ContractResponse
// @Failure      404 {object} apierror.APIError
// @Router       /contracts/{id} [get]
func (h *ContractsHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id, middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update contract plan or install address
// @Description  Status transitions go through the dedicated action endpoints.
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "Contract UUID"
// @Param        body body dto.UpdateContractRequest true "Fields to update"
// @Success      200  {object} dto.ContractResponse
// @Router       /contracts/{id} [patch]
func (h *ContractsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateContractRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Activate godoc
// @Summary      Activate a contract
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contract UUID"
// @Success      200 {object} dto.ContractResponse
// @Failure      422 {object} apierror.APIError
// @Router       /contracts/{id}/activate [post]
func (h *ContractsHandler) Activate(c *gin.Context) {
	h.transition(c, h.svc.Activate)
}

// Suspend godoc
// @Summary      Suspend an active contract
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contract UUID"
// @Success      200 {object} dto.ContractResponse
// @Failure      422 {object} apierror.APIError
// @Router       /contracts/{id}/suspend [post]
func (h *ContractsHandler) Suspend(c *gin.Context) {
	h.transition(c, h.svc.Suspend)
}

// Resume godoc
// @Summary      Resume a suspended contract
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contract UUID"
// @Success      200 {object} dto.ContractResponse
// @Failure      422 {object} apierror.APIError
// @Router       /contracts/{id}/resume [post]
func (h *ContractsHandler) Resume(c *gin.Context) {
	h.transition(c, h.svc.Resume)
}

// Terminate godoc
// @Summary      Terminate a contract (final)
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Contract UUID"
// @Success      200 {object} dto.ContractResponse
// @Failure      422 {object} apierror.APIError
// @Router       /contracts/{id}/terminate [post]
func (h *ContractsHandler) Terminate(c *gin.Context) {
	h.transition(c, h.svc.Terminate)
}

func (h *ContractsHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*dto.ContractResponse, error)) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByCustomer godoc
// @Summary      List a customer's contracts
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Customer UUID"
// @Success      200 {array} dto.ContractResponse
// @Router       /customers/{id}/contracts [get]
func (h *ContractsHandler) ListByCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.ListByCustomer(c.Request.Context(), id, middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCursor godoc
// @Summary      List contracts with cursor pagination
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ContractCursorRequest false "Cursor"
// @Success      200  {object} dto.ContractCursorResponse
// @Router       /contracts/list [post]
func (h *ContractsHandler) ListCursor(c *gin.Context) {
	var req dto.ContractCursorRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ListCursor(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
