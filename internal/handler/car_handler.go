package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Meridian-Car-Rental/service-backoffice/internal/application"
	"github.com/Meridian-Car-Rental/service-backoffice/pkg/response"
)

// CarHandler handles HTTP requests for fleet car operations.
type CarHandler struct {
	service *application.CarService
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(service *application.CarService) *CarHandler {
	return &CarHandler{service: service}
}

// RegisterRoutes registers all car routes on the given router group.
func (h *CarHandler) RegisterRoutes(r *gin.RouterGroup) {
	cars := r.Group("/api/v1/cars")
	{
		cars.POST("", h.CreateCar)
		cars.GET("", h.ListCars)
		cars.GET("/:id", h.GetCar)
		cars.PUT("/:id", h.UpdateCar)
		cars.DELETE("/:id", h.DeleteCar)
	}
}

// CreateCar handles POST /api/v1/cars.
func (h *CarHandler) CreateCar(c *gin.Context) {
	var req application.CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateCar(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// ListCars handles GET /api/v1/cars with optional ?category_id= filter.
func (h *CarHandler) ListCars(c *gin.Context) {
	page, limit := parsePagination(c)

	var categoryID *uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(c, "invalid category ID")
			return
		}
		categoryID = &id
	}

	result, err := h.service.ListCars(c.Request.Context(), categoryID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetCar handles GET /api/v1/cars/:id.
func (h *CarHandler) GetCar(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	result, err := h.service.GetCar(c.Request.Context(), carID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateCar handles PUT /api/v1/cars/:id.
func (h *CarHandler) UpdateCar(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	var req application.CarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateCar(c.Request.Context(), carID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteCar handles DELETE /api/v1/cars/:id.
func (h *CarHandler) DeleteCar(c *gin.Context) {
	carID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid car ID")
		return
	}

	if err := h.service.DeleteCar(c.Request.Context(), carID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
