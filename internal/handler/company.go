package handler

import (
	"net/http"

	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/service"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct{ svc service.CompanyService }

func NewCompanyHandler(svc service.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// Get godoc
// @Summary      Fetch the company profile used on receipt headers
// @Tags         company
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.CompanyResponse
// @Router       /company [get]
func (h *CompanyHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update the company profile
// @Description  Changes only affect receipts confirmed afterwards; issued receipts keep their frozen snapshot.
// @Tags         company
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.UpdateCompanyRequest true "Company data"
// @Success      200  {object} dto.CompanyResponse
// @Router       /company [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	var req dto.UpdateCompanyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
