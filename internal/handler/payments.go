package handler

import (
	"io"
	"net/http"

	"github.com/EstebanRsh/UP/internal/apierror"
	"github.com/EstebanRsh/UP/internal/dto"
	"github.com/EstebanRsh/UP/internal/middleware"
	"github.com/EstebanRsh/UP/internal/service"

	"github.com/gin-gonic/gin"
)

type PaymentsHandler struct{ svc service.PaymentService }

func NewPaymentsHandler(svc service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{svc: svc}
}

// CreateCash godoc
// @Summary      Register a cash payment
// @Description  Cash is money in hand: the payment is created confirmed, with its receipt number and frozen snapshot.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCashPaymentRequest true "Payment data"
// @Success      201  {object} dto.PaymentResponse
// @Failure      422  {object} apierror.APIError
// @Router       /payments/cash [post]
func (h *PaymentsHandler) CreateCash(c *gin.Context) {
	var req dto.CreateCashPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCash(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CreateBankTransfer godoc
// @Summary      Register a bank transfer with its proof
// @Description  Multipart form; the proof file (PDF/JPEG/PNG) moves the payment straight into review.
// @Tags         payments
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        proof formData file true "Proof of payment"
// @Success      201   {object} dto.PaymentResponse
// @Failure      422   {object} apierror.APIError
// @Router       /payments/transfer [post]
func (h *PaymentsHandler) CreateBankTransfer(c *gin.Context) {
	var req dto.CreateTransferPaymentRequest
	if !bindFormAndValidate(c, &req) {
		return
	}

	fileHeader, err := c.FormFile("proof")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("proof file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respondError(c, err)
		return
	}
	proof := dto.ProofUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	resp, err := h.svc.CreateBankTransfer(c.Request.Context(), req, proof)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Confirm godoc
// @Summary      Confirm a payment
// @Description  Allocates the receipt number and freezes the snapshot. Confirming an already confirmed payment is a no-op.
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment UUID"
// @Success      200 {object} dto.PaymentResponse
// @Failure      422 {object} apierror.APIError
// @Router       /payments/{id}/confirm [post]
func (h *PaymentsHandler) Confirm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Confirm(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Void godoc
// @Summary      Void a payment
// @Description  Confirmed payments can only be voided by a manager; voiding twice is a conflict.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                 true "Payment UUID"
// @Param        body body dto.VoidPaymentRequest true "Void reason"
// @Success      200  {object} dto.PaymentResponse
// @Failure      403  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /payments/{id}/void [post]
func (h *PaymentsHandler) Void(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.VoidPaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.svc.Void(c.Request.Context(), id, req.Reason, claims.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update payment fields
// @Description  Confirmed payments only accept description changes; voided payments are read-only.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Payment UUID"
// @Param        body body dto.UpdatePaymentRequest true "Fields to update"
// @Success      200  {object} dto.PaymentResponse
// @Failure      422  {object} apierror.APIError
// @Router       /payments/{id} [patch]
func (h *PaymentsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdatePaymentRequest
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

// Get godoc
// @Summary      Fetch one payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment UUID"
// @Success      200 {object} dto.PaymentResponse
// @Failure      404 {object} apierror.APIError
// @Router       /payments/{id} [get]
func (h *PaymentsHandler) Get(c *gin.Context) {
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

// Search godoc
// @Summary      Search payments
// @Description  Customer-role callers only ever see their own payments.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PaymentSearchRequest false "Filters"
// @Success      200  {object} dto.PaymentPageResponse
// @Router       /payments/search [post]
func (h *PaymentsHandler) Search(c *gin.Context) {
	var req dto.PaymentSearchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Search(c.Request.Context(), req, middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DownloadReceipt godoc
// @Summary      Download the receipt PDF
// @Description  Renders on demand when the async worker has not produced the file yet.
// @Tags         payments
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Payment UUID"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /payments/{id}/receipt [get]
func (h *PaymentsHandler) DownloadReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	path, err := h.svc.ReceiptPDFPath(c.Request.Context(), id, middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.FileAttachment(path, "receipt.pdf")
}

// DownloadProof godoc
// @Summary      Download the proof of payment
// @Tags         payments
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id path string true "Payment UUID"
// @Success      200
// @Failure      404 {object} apierror.APIError
// @Router       /payments/{id}/proof [get]
func (h *PaymentsHandler) DownloadProof(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	path, err := h.svc.ProofPath(c.Request.Context(), id, middleware.GetOwnerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.File(path)
}

// RerenderReceipt godoc
// @Summary      Rerender the receipt PDF from its frozen snapshot
// @Description  Compensating action for failed phase-two renders. Output is identical to the original render.
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Payment UUID"
// @Success      200 {object} map[string]string
// @Failure      422 {object} apierror.APIError
// @Router       /payments/{id}/receipt/rerender [post]
func (h *PaymentsHandler) RerenderReceipt(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	path, err := h.svc.RenderReceipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt_pdf_path": path})
}
