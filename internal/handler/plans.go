package handler

import (
	"net/http"

	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/service"

	"github.com/gin-gonic/gin"
)

type PlansHandler struct{ svc service.PlanService }

func NewPlansHandler(svc service.PlanService) *PlansHandler { return &PlansHandler{svc: svc} }

// Create godoc
// @Summary      Create a service plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreatePlanRequest true "Plan data"
// @Success      201  {object} dto.PlanResponse
// @Failure      409  {object} apierror.APIError
// @Router       /plans [post]
func (h *PlansHandler) Create(c *gin.Context) {
	var req dto.CreatePlanRequest
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
// @Summary      Fetch one plan
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Plan UUID"
// @Success      200 {object} dto.PlanResponse
// @Router       /plans/{id} [get]
func (h *PlansHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary      List plans
// @Description  Active plans by default; pass include_inactive=true for the full catalog.
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        include_inactive query bool false "Include retired plans"
// @Success      200 {array} dto.PlanResponse
// @Router       /plans [get]
func (h *PlansHandler) List(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	resp, err := h.svc.List(c.Request.Context(), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update plan fields
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                true "Plan UUID"
// @Param        body body dto.UpdatePlanRequest true "Fields to update"
// @Success      200  {object} dto.PlanResponse
// @Router       /plans/{id} [patch]
func (h *PlansHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdatePlanRequest
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

// Deactivate godoc
// @Summary      Retire a plan from new assignments
// @Tags         plans
// @Security     BearerAuth
// @Param        id path string true "Plan UUID"
// @Success      204
// @Router       /plans/{id} [delete]
func (h *PlansHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Deactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Reactivate godoc
// @Summary      Reactivate a retired plan
// @Tags         plans
// @Security     BearerAuth
// @Param        id path string true "Plan UUID"
// @Success      204
// @Router       /plans/{id}/reactivate [post]
func (h *PlansHandler) Reactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
