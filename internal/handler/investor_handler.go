package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/application"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/response"
)

// InvestorHandler handles HTTP requests for investor operations.
type InvestorHandler struct {
	service *application.InvestorService
}

// NewInvestorHandler creates a new InvestorHandler.
func NewInvestorHandler(service *application.InvestorService) *InvestorHandler {
	return &InvestorHandler{service: service}
}

// RegisterRoutes registers all investor routes on the given router group.
func (h *InvestorHandler) RegisterRoutes(r *gin.RouterGroup) {
	investors := r.Group("/api/v1/investors")
	{
		investors.POST("", h.CreateInvestor)
		investors.GET("", h.ListInvestors)
		investors.GET("/:id", h.GetInvestor)
		investors.GET("/:id/cars", h.GetInvestorCars)
		investors.PUT("/:id", h.UpdateInvestor)
		investors.DELETE("/:id", h.DeleteInvestor)
	}
}

// CreateInvestor handles POST /api/v1/investors.
func (h *InvestorHandler) CreateInvestor(c *gin.Context) {
	var req application.InvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateInvestor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListInvestors handles GET /api/v1/investors.
func (h *InvestorHandler) ListInvestors(c *gin.Context) {
	page, limit := parsePagination(c)

	result, err := h.service.ListInvestors(c.Request.Context(), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetInvestor handles GET /api/v1/investors/:id.
func (h *InvestorHandler) GetInvestor(c *gin.Context) {
	investorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid investor ID")
		return
	}

	result, err := h.service.GetInvestor(c.Request.Context(), investorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetInvestorCars handles GET /api/v1/investors/:id/cars.
func (h *InvestorHandler) GetInvestorCars(c *gin.Context) {
	investorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid investor ID")
		return
	}

	result, err := h.service.GetInvestorCars(c.Request.Context(), investorID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateInvestor handles PUT /api/v1/investors/:id.
func (h *InvestorHandler) UpdateInvestor(c *gin.Context) {
	investorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid investor ID")
		return
	}

	var req application.InvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateInvestor(c.Request.Context(), investorID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteInvestor handles DELETE /api/v1/investors/:id.
func (h *InvestorHandler) DeleteInvestor(c *gin.Context) {
	investorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid investor ID")
		return
	}

	if err := h.service.DeleteInvestor(c.Request.Context(), investorID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
