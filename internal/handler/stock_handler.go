package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
)

type StockHandler struct {
	stockService service.StockService
}

func NewStockHandler(stockService service.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

func (h *StockHandler) RegisterRoutes(router *gin.RouterGroup) {
	stock := router.Group("/api/stock")
	{
		stock.GET("/levels", middleware.RequirePermission("materials.read"), h.Levels)
		stock.GET("/alerts", middleware.RequirePermission("materials.read"), h.Alerts)
		stock.POST("/adjustments", middleware.RequirePermission("stock.adjust"), h.Adjust)
		stock.GET("/adjustments", middleware.RequirePermission("materials.read"), h.Adjustments)
		stock.GET("/movements", middleware.RequirePermission("materials.read"), h.Movements)
	}
}

// Levels reports each material's classified stock position
// @Summary      Get stock levels
// @Description  Returns every material with its stock classification (in-stock, low-stock, out-of-stock, overstocked)
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]service.StockLevel}
// @Router       /api/stock/levels [get]
func (h *StockHandler) Levels(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.stockService.Levels(c.Request.Context())))
}

// Alerts derives active stock alerts
// @Summary      Get stock alerts
// @Description  Recomputes stock alerts from current levels; at most one alert is raised per material
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=[]model.StockAlert}
// @Router       /api/stock/alerts [get]
func (h *StockHandler) Alerts(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.stockService.Alerts(c.Request.Context())))
}

// Adjust applies a manual stock correction
// @Summary      Adjust stock
// @Description  Applies an increase, decrease or set-absolute correction; a decrease never takes stock below zero and exactly one movement is recorded
// @Tags         stock
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.AdjustStockRequest  true  "Stock Adjustment Payload"
// @Success      201  {object}  response.Response{data=model.StockAdjustment}
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/stock/adjustments [post]
func (h *StockHandler) Adjust(c *gin.Context) {
	var req service.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	adjustment, err := h.stockService.Adjust(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, adjustment))
}

// Adjustments lists past corrections newest first
// @Summary      List stock adjustments
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200  {object}  response.Response{data=object}
// @Router       /api/stock/adjustments [get]
func (h *StockHandler) Adjustments(c *gin.Context) {
	params := pagination.Parse(c)
	adjustments, total, err := h.stockService.Adjustments(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"adjustments": adjustments,
		"total":       total,
		"page":        params.Page,
		"limit":       params.Limit,
	}))
}

// Movements lists the movement ledger newest first
// @Summary      List material movements
// @Tags         stock
// @Security     BearerAuth
// @Produce      json
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Number of items per page (default 20)"
// @Param        materialId  query     string  false  "Filter by material ID"
// @Success      200  {object}  response.Response{data=object}
// @Failure      400  {object}  response.Response
// @Router       /api/stock/movements [get]
func (h *StockHandler) Movements(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.MovementFilter{
		MaterialID: c.Query("materialId"),
		Page:       params.Page,
		Limit:      params.Limit,
	}

	movements, total, err := h.stockService.Movements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"movements": movements,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}
