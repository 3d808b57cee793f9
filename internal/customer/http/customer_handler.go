// Package http provides HTTP handlers for customer operations. Request and response bodies
// carry plaintext; encryption happens in the use case before rows reach the repository.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/fieldcrypt/internal/customer/http/dto"
	customerUseCase "github.com/allisson/fieldcrypt/internal/customer/usecase"
	"github.com/allisson/fieldcrypt/internal/httputil"
	customValidation "github.com/allisson/fieldcrypt/internal/validation"
)

// CustomerHandler handles HTTP requests for customer operations.
type CustomerHandler struct {
	customerUseCase customerUseCase.CustomerUseCase
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler with required dependencies.
func NewCustomerHandler(useCase customerUseCase.CustomerUseCase, logger *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerUseCase: useCase,
		logger:          logger,
	}
}

// CreateHandler registers a customer.
// POST /v1/customers - Returns 201 Created with the stored customer.
func (h *CustomerHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateCustomerRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	customer, err := h.customerUseCase.Create(c.Request.Context(), req.Email, req.Profile)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCustomerToResponse(customer))
}

// GetHandler retrieves and decrypts a customer by id.
// GET /v1/customers/:id
func (h *CustomerHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid customer id format: must be a valid UUID"), h.logger)
		return
	}

	customer, err := h.customerUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomerToResponse(customer))
}

// GetByEmailHandler finds a customer by email through the deterministic lookup column.
// GET /v1/customers/by-email/:email
func (h *CustomerHandler) GetByEmailHandler(c *gin.Context) {
	email := c.Param("email")
	if err := customValidation.Email.Validate(email); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	customer, err := h.customerUseCase.GetByEmail(c.Request.Context(), email)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomerToResponse(customer))
}

// ListHandler returns a page of decrypted customers.
// GET /v1/customers?offset=0&limit=50
func (h *CustomerHandler) ListHandler(c *gin.Context) {
	page, err := httputil.ParsePage(c)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	customers, err := h.customerUseCase.List(c.Request.Context(), page.Offset, page.Limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCustomersToListResponse(customers, page.NextOffset(len(customers))))
}
