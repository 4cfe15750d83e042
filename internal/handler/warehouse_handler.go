package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"
)

type WarehouseHandler struct {
	warehouseService service.WarehouseService
}

func NewWarehouseHandler(warehouseService service.WarehouseService) *WarehouseHandler {
	return &WarehouseHandler{warehouseService: warehouseService}
}

func (h *WarehouseHandler) RegisterRoutes(router *gin.RouterGroup) {
	warehouses := router.Group("/api/warehouses")
	{
		warehouses.GET("", middleware.RequirePermission("warehouses.read"), h.List)
		warehouses.POST("", middleware.RequirePermission("warehouses.write"), h.Create)
		warehouses.GET("/:id", middleware.RequirePermission("warehouses.read"), h.Get)
		warehouses.PUT("/:id", middleware.RequireRole(model.RoleAdministrator, model.RoleCoordinator), h.Update)
	}
}

// List returns all warehouses sorted by code
// @Summary      List warehouses
// @Tags         warehouses
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.Warehouse}
// @Router       /api/warehouses [get]
func (h *WarehouseHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.warehouseService.List(c.Request.Context())))
}

// Get returns one warehouse
// @Summary      Get warehouse
// @Tags         warehouses
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Warehouse ID"
// @Success      200  {object}  response.Response{data=model.Warehouse}
// @Failure      404  {object}  response.Response
// @Router       /api/warehouses/{id} [get]
func (h *WarehouseHandler) Get(c *gin.Context) {
	w, err := h.warehouseService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, w))
}

// Create adds a warehouse
// @Summary      Create warehouse
// @Description  Creates a warehouse; marking it default clears the previous default
// @Tags         warehouses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateWarehouseRequest  true  "Create Warehouse Payload"
// @Success      201  {object}  response.Response{data=model.Warehouse}
// @Failure      400  {object}  response.Response
// @Router       /api/warehouses [post]
func (h *WarehouseHandler) Create(c *gin.Context) {
	var req service.CreateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	w, err := h.warehouseService.Create(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, w))
}

// Update patches warehouse fields
// @Summary      Update warehouse
// @Tags         warehouses
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                          true  "Warehouse ID"
// @Param        payload  body      service.UpdateWarehouseRequest  true  "Update Warehouse Payload"
// @Success      200  {object}  response.Response{data=model.Warehouse}
// @Failure      404  {object}  response.Response
// @Router       /api/warehouses/{id} [put]
func (h *WarehouseHandler) Update(c *gin.Context) {
	var req service.UpdateWarehouseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	w, err := h.warehouseService.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, w))
}
