package handler

import (
	"net/http"

	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/middleware"
	"github.com/EstebanRsh/UP/internal/service"

	"github.com/gin-gonic/gin"
)

type CustomersHandler struct{ svc service.CustomerService }

func NewCustomersHandler(svc service.CustomerService) *CustomersHandler {
	return &CustomersHandler{svc: svc}
}

// Create godoc
// @Summary      Register a customer
// @Description  Assigns the next customer number atomically; duplicate document or email is a conflict.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCustomerRequest true "Customer data"
// @Success      201  {object} dto.CustomerResponse
// @Failure      409  {object} apierror.APIError
// @Router       /customers [post]
func (h *CustomersHandler) Create(c *gin.Context) {
	var req dto.CreateCustomerRequest
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
// @Summary      Fetch one customer
// @Tags         customers
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Customer UUID"
// @Success      200 {object} dto.CustomerResponse
// @Failure      404 {object} apierror.APIError
// @Router       /customers/{id} [get]
func (h *CustomersHandler) Get(c *gin.Context) {
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
// @Summary      Update customer fields
// @Description  Pointer presence semantics: omitted fields stay unchanged. The customer number never changes.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "Customer UUID"
// @Param        body body dto.UpdateCustomerRequest true "Fields to update"
// @Success      200  {object} dto.CustomerResponse
// @Router       /customers/{id} [patch]
func (h *CustomersHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateCustomerRequest
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
// @Summary      Deactivate a customer
// @Description  Customers are never deleted; payments and receipts reference them forever.
// @Tags         customers
// @Security     BearerAuth
// @Param        id path string true "Customer UUID"
// @Success      204
// @Router       /customers/{id} [delete]
func (h *CustomersHandler) Deactivate(c *gin.Context) {
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

// LinkAccount godoc
// @Summary      Link or unlink the self-service account
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Customer UUID"
// @Param        body body dto.LinkAccountRequest true "Account link (null account_id unlinks)"
// @Success      200  {object} dto.CustomerResponse
// @Router       /customers/{id}/account [put]
func (h *CustomersHandler) LinkAccount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.LinkAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.LinkAccount(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Search godoc
// @Summary      Search customers
// @Description  Digit-only queries match the document, text queries match names. Page+limit pagination.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CustomerSearchRequest false "Filters"
// @Success      200  {object} dto.CustomerPageResponse
// @Router       /customers/search [post]
func (h *CustomersHandler) Search(c *gin.Context) {
	var req dto.CustomerSearchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListCursor godoc
// @Summary      List customers with cursor pagination
// @Tags         customers
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CustomerCursorRequest false "Cursor"
// @Success      200  {object} dto.CustomerCursorResponse
// @Router       /customers/list [post]
func (h *CustomersHandler) ListCursor(c *gin.Context) {
	var req dto.CustomerCursorRequest
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
