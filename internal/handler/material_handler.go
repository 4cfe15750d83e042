package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
)

type MaterialHandler struct {
	materialService service.MaterialService
}

func NewMaterialHandler(materialService service.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

func (h *MaterialHandler) RegisterRoutes(router *gin.RouterGroup) {
	materials := router.Group("/api/materials")
	{
		materials.GET("", middleware.RequirePermission("materials.read"), h.List)
		materials.POST("", middleware.RequirePermission("materials.write"), h.Create)
		materials.GET("/:id", middleware.RequirePermission("materials.read"), h.Get)
		materials.PUT("/:id", middleware.RequirePermission("materials.write"), h.Update)
		materials.DELETE("/:id", middleware.RequireRole(model.RoleAdministrator, model.RoleCoordinator), h.Delete)
	}
}

// List returns the material catalogue
// @Summary      List materials
// @Description  Retrieves a paginated list of catalogue materials with current stock levels
// @Tags         materials
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Search by code or description"
// @Success      200  {object}  response.Response{data=object}
// @Failure      500  {object}  response.Response
// @Router       /api/materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.MaterialFilter{
		Search: c.Query("search"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	materials, total, err := h.materialService.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, map[string]interface{}{
		"materials": materials,
		"total":     total,
		"page":      params.Page,
		"limit":     params.Limit,
	}))
}

// Get returns one material
// @Summary      Get material
// @Tags         materials
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Material ID"
// @Success      200  {object}  response.Response{data=model.Material}
// @Failure      404  {object}  response.Response
// @Router       /api/materials/{id} [get]
func (h *MaterialHandler) Get(c *gin.Context) {
	m, err := h.materialService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, m))
}

// Create adds a catalogue entry
// @Summary      Create material
// @Description  Creates a material; the code must be unique across the catalogue
// @Tags         materials
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateMaterialRequest  true  "Create Material Payload"
// @Success      201  {object}  response.Response{data=model.Material}
// @Failure      400  {object}  response.Response
// @Router       /api/materials [post]
func (h *MaterialHandler) Create(c *gin.Context) {
	var req service.CreateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	m, err := h.materialService.Create(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, m))
}

// Update patches catalogue fields
// @Summary      Update material
// @Description  Updates catalogue metadata and thresholds; stock quantities only change through adjustments
// @Tags         materials
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Material ID"
// @Param        payload  body      service.UpdateMaterialRequest  true  "Update Material Payload"
// @Success      200  {object}  response.Response{data=model.Material}
// @Failure      404  {object}  response.Response
// @Router       /api/materials/{id} [put]
func (h *MaterialHandler) Update(c *gin.Context) {
	var req service.UpdateMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	m, err := h.materialService.Update(c.Request.Context(), c.GetString("userID"), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, m))
}

// Delete removes a catalogue entry
// @Summary      Delete material
// @Tags         materials
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Material ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	if err := h.materialService.Delete(c.Request.Context(), c.GetString("userID"), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Material deleted successfully"))
}
